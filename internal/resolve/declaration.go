package resolve

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ohler55/ojg/oj"

	"github.com/agentic-research/weft/api"
)

// LoadDeclaration reads the dependencies.json at graphRoot. A missing file
// yields (nil, nil): a graph without declarations is valid and simply has
// no outgoing edges. A malformed or invalid file yields a
// *DeclarationError naming the offending path.
func LoadDeclaration(graphRoot string) (*api.Declaration, error) {
	path := filepath.Join(graphRoot, DeclarationFile)

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, &DeclarationError{Path: path, Err: err}
	}

	var decl api.Declaration
	if err := oj.Unmarshal(data, &decl); err != nil {
		return nil, &DeclarationError{Path: path, Err: err}
	}
	if err := validateDeclaration(&decl); err != nil {
		return nil, &DeclarationError{Path: path, Err: err}
	}
	return &decl, nil
}

// validateDeclaration rejects structurally broken declarations at load
// time, before any file iteration depends on them.
func validateDeclaration(decl *api.Declaration) error {
	for i := range decl.DependentGraphs {
		dg := &decl.DependentGraphs[i]
		if dg.LocalGraphPath == "" {
			return fmt.Errorf("dependent-graphs[%d]: missing local-graph-path", i)
		}
		for j, ns := range dg.NamespacesToSync {
			if ns.SourceNamespaceName == "" || ns.TargetNamespaceName == "" {
				return fmt.Errorf("dependent-graphs[%d].namespaces-to-sync[%d]: source-namespace-name and target-namespace-name are required", i, j)
			}
		}
	}
	return nil
}

// rulesFor converts one declaration entry into the typed rule union.
func rulesFor(dg *api.DependentGraph) []SyncRule {
	var rules []SyncRule
	if dg.OnlyFilesBeginningWith != "" {
		rules = append(rules, PrefixFilter{Prefix: dg.OnlyFilesBeginningWith})
	}
	for _, ns := range dg.NamespacesToSync {
		rules = append(rules, NamespaceRemap{
			Source:           ns.SourceNamespaceName,
			Target:           ns.TargetNamespaceName,
			OverwriteIfNewer: ns.OverwriteIfSourceIsNewer,
		})
	}
	return rules
}
