package materialize

import (
	"context"
	"errors"
	"os"

	billy "github.com/go-git/go-billy/v5"

	"github.com/agentic-research/weft/internal/ctxlog"
	"github.com/agentic-research/weft/internal/resolve"
)

// Engine reconciles resolved dependency edges into each dependent graph's
// pages directory. It is the sole writer of materialized files. Every
// (edge, rule, file) tuple is processed independently: a failure on one
// file never aborts the rest of the run.
type Engine struct {
	FS         billy.Filesystem
	Provenance Provenance
	// DryRun resolves and reports what would change without mutating
	// anything.
	DryRun bool
}

// New returns an engine with provenance injection enabled under the
// default scheme.
func New(fs billy.Filesystem) *Engine {
	return &Engine{
		FS:         fs,
		Provenance: Provenance{Enabled: true, Scheme: DefaultScheme},
	}
}

// Run materializes every edge in the set and returns a report. Per-file
// failures live on the report, not in an error return: the run always
// completes and partial progress is preserved.
func (e *Engine) Run(ctx context.Context, set *resolve.Set) *Report {
	rep := &Report{}
	for _, edge := range set.Edges {
		e.syncEdge(ctx, edge, rep)
	}
	return rep
}

func (e *Engine) syncEdge(ctx context.Context, edge *resolve.Edge, rep *Report) {
	log := ctxlog.From(ctx).With("dependent", edge.Dependent.Name, "dependency", edge.Dependency.Name)
	ctx = ctxlog.With(ctx, log)

	if edge.Dangling {
		log.Warn("dependency path does not exist, nothing to sync", "root", edge.Dependency.Root)
		rep.Warnings++
		return
	}

	srcDir := edge.Dependency.PagesPath()
	entries, err := e.FS.ReadDir(srcDir)
	if errors.Is(err, os.ErrNotExist) {
		// A dependency that has not produced any content yet is valid.
		log.Info("dependency has no pages directory, nothing to sync", "dir", srcDir)
		return
	}
	if err != nil {
		log.Error("cannot enumerate dependency pages", "dir", srcDir, "err", err)
		rep.Failures = append(rep.Failures, &FileOperationError{Source: srcDir, Err: err})
		return
	}

	dstDir := edge.Dependent.PagesPath()
	if !e.DryRun {
		if err := e.FS.MkdirAll(dstDir, 0o755); err != nil {
			log.Error("cannot create pages directory", "dir", dstDir, "err", err)
			rep.Failures = append(rep.Failures, &FileOperationError{Target: dstDir, Err: err})
			return
		}
	}

	for _, rule := range edge.Rules {
		strat := e.strategyFor(rule)
		for _, ent := range entries {
			if ent.IsDir() {
				continue
			}
			dstName, ok := Match(rule, ent.Name())
			if !ok {
				continue
			}

			src := Source{
				Graph: edge.Dependency,
				Path:  e.FS.Join(srcDir, ent.Name()),
				Name:  ent.Name(),
				Rule:  rule,
			}
			dst := e.FS.Join(dstDir, dstName)

			if e.DryRun {
				log.Info("would materialize", "source", src.Path, "target", dst)
				rep.Skipped++
				continue
			}

			out, err := strat.Materialize(ctx, src, dst)
			if err != nil {
				log.Error("materialization failed", "source", src.Path, "target", dst, "err", err)
				rep.Failures = append(rep.Failures, &FileOperationError{Source: src.Path, Target: dst, Err: err})
				continue
			}
			switch out {
			case OutcomeSynced:
				log.Info("materialized", "source", src.Path, "target", dst)
				rep.Synced++
			case OutcomeSkipped:
				rep.Skipped++
			}
		}
	}
}

// strategyFor binds each rule kind to its reconciliation step, matching
// the declaration format: prefix filters arrive as symlinks, namespace
// remaps as copies.
func (e *Engine) strategyFor(rule resolve.SyncRule) Strategy {
	switch rule.(type) {
	case resolve.PrefixFilter:
		return &LinkStrategy{FS: e.FS}
	default:
		return &CopyStrategy{FS: e.FS, Provenance: e.Provenance}
	}
}
