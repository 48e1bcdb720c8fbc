// Package api defines the on-disk declaration format a graph uses to
// describe its dependencies: a dependencies.json file at the graph root
// with a top-level "dependent-graphs" list. The structs here mirror the
// JSON wire format; validation and rule construction live in
// internal/resolve.
package api

// Declaration is the root of a graph's dependencies.json.
type Declaration struct {
	DependentGraphs []DependentGraph `json:"dependent-graphs"`
}

// DependentGraph names one dependency and the sync rules applied to it.
// Exactly which materialization strategy runs is decided by which rule
// fields are present: a prefix filter materializes as symlinks, namespace
// syncs materialize as copies.
type DependentGraph struct {
	// LocalGraphPath is the relative filesystem path from the declaring
	// graph to the dependency graph. Required.
	LocalGraphPath string `json:"local-graph-path"`
	// LocalFolder is a descriptive name for the dependency. Informational
	// only; path resolution relies solely on LocalGraphPath.
	LocalFolder string `json:"local-folder,omitempty"`
	// OnlyFilesBeginningWith selects files by literal name prefix.
	OnlyFilesBeginningWith string `json:"only-files-beginning-with,omitempty"`
	// NamespacesToSync selects namespace page families.
	NamespacesToSync []NamespaceSync `json:"namespaces-to-sync,omitempty"`
}

// NamespaceSync maps a source namespace onto a target namespace.
type NamespaceSync struct {
	SourceNamespaceName      string `json:"source-namespace-name"`
	TargetNamespaceName      string `json:"target-namespace-name"`
	OverwriteIfSourceIsNewer bool   `json:"overwrite-if-source-is-newer"`
}
