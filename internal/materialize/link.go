package materialize

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	billy "github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"

	"github.com/agentic-research/weft/internal/ctxlog"
)

// LinkStrategy materializes matches as symlinks pointing at the source
// file. Correctness is purely "does the target link point at the right
// source"; content and timestamps are never consulted.
type LinkStrategy struct {
	FS billy.Filesystem
}

func (s *LinkStrategy) Materialize(ctx context.Context, src Source, dst string) (Outcome, error) {
	log := ctxlog.From(ctx)

	if fi, err := s.FS.Lstat(dst); err == nil {
		if fi.Mode()&os.ModeSymlink != 0 {
			cur, rerr := s.FS.Readlink(dst)
			if rerr == nil && filepath.Clean(cur) == filepath.Clean(src.Path) {
				return OutcomeSkipped, nil // already correct, leave it alone
			}
		}
		// Wrong link, plain file, or directory: remove and relink.
		if err := util.RemoveAll(s.FS, dst); err != nil {
			return 0, fmt.Errorf("remove stale target %s: %w", dst, err)
		}
		log.Debug("replaced stale target", "target", dst)
	}

	if err := s.FS.Symlink(src.Path, dst); err != nil {
		return 0, fmt.Errorf("symlink %s -> %s: %w", dst, src.Path, err)
	}
	return OutcomeSynced, nil
}
