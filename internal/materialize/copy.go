package materialize

import (
	"context"
	"errors"
	"fmt"
	"os"

	billy "github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"

	"github.com/agentic-research/weft/internal/ctxlog"
	"github.com/agentic-research/weft/internal/resolve"
)

// CopyStrategy materializes matches as independent copies. An existing
// target is overwritten only when the rule allows it and the source's
// modification time is strictly newer; ties and older sources are skipped.
// Copies optionally gain a provenance header recording their origin.
type CopyStrategy struct {
	FS         billy.Filesystem
	Provenance Provenance
}

func (s *CopyStrategy) Materialize(ctx context.Context, src Source, dst string) (Outcome, error) {
	log := ctxlog.From(ctx)
	remap, _ := src.Rule.(resolve.NamespaceRemap)

	dstInfo, err := s.FS.Stat(dst)
	switch {
	case err == nil && !remap.OverwriteIfNewer:
		log.Debug("target exists and overwrite is disabled, skipping", "target", dst)
		return OutcomeSkipped, nil
	case err == nil:
		srcInfo, serr := s.FS.Stat(src.Path)
		if serr != nil {
			return 0, fmt.Errorf("stat %s: %w", src.Path, serr)
		}
		if !srcInfo.ModTime().After(dstInfo.ModTime()) {
			log.Debug("target is up to date, skipping", "target", dst)
			return OutcomeSkipped, nil
		}
	case !errors.Is(err, os.ErrNotExist):
		return 0, fmt.Errorf("stat %s: %w", dst, err)
	}

	data, err := util.ReadFile(s.FS, src.Path)
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", src.Path, err)
	}

	// Provenance runs exactly once, right after a copy or overwrite, and
	// never on a skip.
	if s.Provenance.Enabled {
		data = append(s.Provenance.Header(src.Graph.Name, src.Name), data...)
	}

	if err := util.WriteFile(s.FS, dst, data, 0o644); err != nil {
		return 0, fmt.Errorf("write %s: %w", dst, err)
	}
	return OutcomeSynced, nil
}
