// Package cmd wires the weft CLI: a single command that resolves the
// dependency graph under a root directory and materializes it.
package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/spf13/cobra"

	"github.com/agentic-research/weft/internal/config"
	"github.com/agentic-research/weft/internal/ctxlog"
	"github.com/agentic-research/weft/internal/ledger"
	"github.com/agentic-research/weft/internal/materialize"
	"github.com/agentic-research/weft/internal/resolve"
)

var (
	configPath string
	verbose    bool
	dryRun     bool
)

func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to weft.hcl (default <root>/weft.hcl)")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Resolve and report without touching the filesystem")
}

var rootCmd = &cobra.Command{
	Use:   "weft [root]",
	Short: "Weft: dependency sync for linked Logseq graphs",
	Long: `Weft scans a root directory for Logseq graphs, resolves the dependency
graph declared in each graph's dependencies.json, and materializes the
matching pages into each dependent graph. Runs are idempotent: re-running
on an unchanged tree changes nothing.`,
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		root := "."
		if len(args) == 1 {
			root = args[0]
		}

		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
		ctx := ctxlog.With(cmd.Context(), logger)

		cfgPath := configPath
		if cfgPath == "" {
			cfgPath = filepath.Join(root, "weft.hcl")
		}
		cfg, err := config.Load(cfgPath)
		if err != nil {
			return err
		}

		started := time.Now()

		// Resolution runs to completion before any materialization; a
		// cycle aborts here with the filesystem untouched.
		set, err := resolve.Build(ctx, root)
		if err != nil {
			return err
		}

		engine := materialize.New(osfs.New("/"))
		engine.DryRun = dryRun
		engine.Provenance = materialize.Provenance{
			Enabled: !cfg.Provenance.Disabled,
			Scheme:  cfg.Provenance.Scheme,
		}
		rep := engine.Run(ctx, set)

		logger.Info("run complete", "graphs", len(set.Graphs), "edges", len(set.Edges))
		fmt.Println(rep.Summary())

		if cfg.ReportDB != "" && !dryRun {
			dbPath := cfg.ReportDB
			if !filepath.IsAbs(dbPath) {
				dbPath = filepath.Join(set.Root, dbPath)
			}
			led, err := ledger.Open(dbPath)
			if err != nil {
				logger.Error("cannot open run ledger", "err", err)
			} else {
				defer led.Close()
				if err := led.Record(ctx, set.Root, started, time.Now(), rep); err != nil {
					logger.Error("cannot record run", "err", err)
				}
			}
		}

		// Per-file failures are reported above but do not change the exit
		// code. Declaration failures do.
		if len(set.DeclErrs) > 0 {
			return fmt.Errorf("%d declaration(s) failed to parse", len(set.DeclErrs))
		}
		return nil
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
