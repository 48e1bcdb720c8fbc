// Package resolve discovers Logseq graphs under a root directory, loads
// their dependency declarations, and builds the validated dependency graph
// the materialization engine consumes. Resolution runs fully before any
// filesystem mutation: a cycle anywhere aborts the whole run.
package resolve

import "path/filepath"

const (
	// MarkerDir identifies a subdirectory as a Logseq graph.
	MarkerDir = "logseq"
	// PagesDir is the content directory of a graph.
	PagesDir = "pages"
	// DeclarationFile is the per-graph dependency declaration.
	DeclarationFile = "dependencies.json"
)

// Graph is one discovered content repository. Immutable for the duration
// of a run.
type Graph struct {
	Name string // base name of the graph directory
	Root string // absolute path to the graph directory
}

// PagesPath returns the graph's content directory.
func (g *Graph) PagesPath() string {
	return filepath.Join(g.Root, PagesDir)
}

// SyncRule is the tagged union of the two declarative rule kinds. Rules
// are data, never mutated after load.
type SyncRule interface {
	isSyncRule()
}

// PrefixFilter selects files whose name starts with a literal prefix.
// Matches are materialized as symlinks to the source.
type PrefixFilter struct {
	Prefix string
}

// NamespaceRemap selects a namespace page family and rewrites the
// namespace token on arrival. Matches are materialized as copies.
type NamespaceRemap struct {
	Source           string
	Target           string
	OverwriteIfNewer bool
}

func (PrefixFilter) isSyncRule()   {}
func (NamespaceRemap) isSyncRule() {}

// Edge is one declared dependency: Dependent pulls files from Dependency
// according to Rules, in declaration order.
type Edge struct {
	Dependent  *Graph
	Dependency *Graph
	// Dangling marks a declared path that did not resolve to an existing
	// directory. Materializing a dangling edge is a warning, not an error.
	Dangling bool
	Rules    []SyncRule
}

// Set is the validated output of resolution: all discovered graphs, their
// edges in declaration order, and any per-graph declaration failures. The
// set is read-only once built.
type Set struct {
	Root   string // absolute scan root
	Graphs []*Graph
	Edges  []*Edge
	// DeclErrs holds declarations that failed to parse or validate. They
	// are isolated per graph: the rest of the set is still usable, but the
	// run as a whole must exit non-zero.
	DeclErrs []*DeclarationError
}
