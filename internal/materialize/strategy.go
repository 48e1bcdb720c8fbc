package materialize

import (
	"context"

	"github.com/agentic-research/weft/internal/resolve"
)

// Outcome classifies what a strategy did with one matched file.
type Outcome int

const (
	// OutcomeSynced means the target was created or replaced.
	OutcomeSynced Outcome = iota
	// OutcomeSkipped means the target was already correct or the rule
	// forbade touching it.
	OutcomeSkipped
)

// Source describes one matched file in a dependency's pages directory.
type Source struct {
	Graph *resolve.Graph // graph the file comes from
	Path  string         // absolute path to the file
	Name  string         // filename within pages/
	Rule  resolve.SyncRule
}

// Strategy is the final reconciliation step: given a matched source file
// and its destination path, make the destination correct. Both strategies
// share the engine's rule matching; they differ only in what "correct"
// means at the target path.
type Strategy interface {
	Materialize(ctx context.Context, src Source, dst string) (Outcome, error)
}
