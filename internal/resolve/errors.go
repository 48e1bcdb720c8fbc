package resolve

import "fmt"

// DeclarationError reports a malformed or unreadable dependencies.json.
// It is localized to one graph; unrelated graphs keep resolving.
type DeclarationError struct {
	Path string
	Err  error
}

func (e *DeclarationError) Error() string {
	return fmt.Sprintf("declaration %s: %v", e.Path, e.Err)
}

func (e *DeclarationError) Unwrap() error { return e.Err }

// CycleError reports a dependency cycle. It is fatal: once returned, no
// materialization may run.
type CycleError struct {
	Dependent  string
	Dependency string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("dependency cycle detected: edge %q -> %q closes a loop", e.Dependent, e.Dependency)
}
