package materialize

import "fmt"

// FileOperationError is a per-file I/O failure during materialization. It
// is accumulated on the report so one bad file cannot abort the run.
type FileOperationError struct {
	Source string
	Target string
	Err    error
}

func (e *FileOperationError) Error() string {
	return fmt.Sprintf("materialize %s -> %s: %v", e.Source, e.Target, e.Err)
}

func (e *FileOperationError) Unwrap() error { return e.Err }

// Report accumulates the outcome of one engine run.
type Report struct {
	Synced   int
	Skipped  int
	Warnings int
	Failures []*FileOperationError
}

// Failed returns the number of per-file failures.
func (r *Report) Failed() int { return len(r.Failures) }

// Summary renders the closing one-line diagnostic.
func (r *Report) Summary() string {
	return fmt.Sprintf("synced %d, skipped %d, failed %d, warnings %d",
		r.Synced, r.Skipped, len(r.Failures), r.Warnings)
}
