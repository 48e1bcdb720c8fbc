package materialize

import (
	"path/filepath"
	"strings"

	"github.com/agentic-research/weft/internal/resolve"
)

// NamespaceSep separates hierarchy levels in Logseq page filenames:
// "Python___sort.md" is the "sort" sub-page of the "Python" namespace.
const NamespaceSep = "___"

// Match reports whether name is selected by rule and, if so, the filename
// to materialize under in the dependent graph. Matching is case-sensitive
// and based solely on the filename.
func Match(rule resolve.SyncRule, name string) (string, bool) {
	switch r := rule.(type) {
	case resolve.PrefixFilter:
		if strings.HasPrefix(name, r.Prefix) {
			return name, true
		}
	case resolve.NamespaceRemap:
		if matchesNamespace(name, r.Source) {
			// Rewrite the namespace token at its first occurrence only,
			// so "Python___Python.md" under Python->MyPy becomes
			// "MyPy___Python.md".
			return strings.Replace(name, r.Source, r.Target, 1), true
		}
	}
	return "", false
}

// matchesNamespace selects the namespace page itself (N.<ext>) and its
// hierarchical sub-pages (N___<rest>.<ext> with non-empty rest). Unrelated
// prefixes such as "Python2.md" never match.
func matchesNamespace(name, ns string) bool {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	if base == ns {
		return true
	}
	return strings.HasPrefix(base, ns+NamespaceSep) && len(base) > len(ns)+len(NamespaceSep)
}
