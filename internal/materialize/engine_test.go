package materialize

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentic-research/weft/internal/resolve"
)

func writeGraph(t *testing.T, root, name, decl string, pages map[string]string) string {
	t.Helper()
	dir := filepath.Join(root, name)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, resolve.MarkerDir), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, resolve.PagesDir), 0o755))
	if decl != "" {
		require.NoError(t, os.WriteFile(filepath.Join(dir, resolve.DeclarationFile), []byte(decl), 0o644))
	}
	for name, content := range pages {
		require.NoError(t, os.WriteFile(filepath.Join(dir, resolve.PagesDir, name), []byte(content), 0o644))
	}
	return dir
}

const workDecl = `{
  "dependent-graphs": [
    {
      "local-graph-path": "../python",
      "namespaces-to-sync": [
        {
          "source-namespace-name": "Python",
          "target-namespace-name": "Python",
          "overwrite-if-source-is-newer": true
        }
      ]
    }
  ]
}`

// TestEngine_EndToEnd walks the full two-graph scenario: first run copies
// the namespace with provenance headers, touching one source re-syncs
// only that page.
func TestEngine_EndToEnd(t *testing.T) {
	root := t.TempDir()
	pythonDir := writeGraph(t, root, "python", "", map[string]string{
		"Python.md":        "- python page\n",
		"Python___sort.md": "- sorting\n",
		"Unrelated.md":     "- not synced\n",
	})
	workDir := writeGraph(t, root, "work", workDecl, map[string]string{
		"work.md": "- local page\n",
	})

	ctx := context.Background()
	set, err := resolve.Build(ctx, root)
	require.NoError(t, err)

	engine := New(osfs.New("/"))
	rep := engine.Run(ctx, set)

	assert.Equal(t, 2, rep.Synced)
	assert.Zero(t, rep.Failed())

	sortPath := filepath.Join(workDir, "pages", "Python___sort.md")
	sortBefore, err := os.ReadFile(sortPath)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(sortBefore), "logseq-remote-page:: true\n"))
	assert.Contains(t, string(sortBefore), "logseq://graph/python?page=Python%2Fsort")
	assert.Contains(t, string(sortBefore), "- sorting\n")

	// The unmatched page stays put.
	_, err = os.Stat(filepath.Join(workDir, "pages", "Unrelated.md"))
	assert.True(t, os.IsNotExist(err))

	// Second run: nothing is newer, nothing is copied.
	rep = engine.Run(ctx, set)
	assert.Zero(t, rep.Synced)

	// Touch one source page into the future and re-run: only it re-syncs.
	future := time.Now().Add(2 * time.Hour)
	require.NoError(t, os.Chtimes(filepath.Join(pythonDir, "pages", "Python.md"), future, future))

	rep = engine.Run(ctx, set)
	assert.Equal(t, 1, rep.Synced)

	sortAfter, err := os.ReadFile(sortPath)
	require.NoError(t, err)
	assert.Equal(t, string(sortBefore), string(sortAfter), "untouched page must keep its previous bytes")

	mainAfter, err := os.ReadFile(filepath.Join(workDir, "pages", "Python.md"))
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(mainAfter), "logseq-remote-page:: true"),
		"provenance header is injected exactly once per copy")
}

// TestEngine_CycleLeavesFilesystemUntouched is the acyclicity gate:
// resolution fails before the engine ever runs, so no pages move.
func TestEngine_CycleLeavesFilesystemUntouched(t *testing.T) {
	root := t.TempDir()
	aDecl := `{"dependent-graphs": [{"local-graph-path": "../b", "only-files-beginning-with": "B"}]}`
	bDecl := `{"dependent-graphs": [{"local-graph-path": "../a", "only-files-beginning-with": "A"}]}`
	aDir := writeGraph(t, root, "a", aDecl, map[string]string{"A.md": "a\n"})
	bDir := writeGraph(t, root, "b", bDecl, map[string]string{"B.md": "b\n"})

	_, err := resolve.Build(context.Background(), root)
	var cerr *resolve.CycleError
	require.ErrorAs(t, err, &cerr)

	for _, dir := range []string{aDir, bDir} {
		entries, err := os.ReadDir(filepath.Join(dir, "pages"))
		require.NoError(t, err)
		require.Len(t, entries, 1, "no pages may be created once a cycle is detected")
	}
}

func TestEngine_LinkEdgeIsIdempotent(t *testing.T) {
	root := t.TempDir()
	linkDecl := `{"dependent-graphs": [{"local-graph-path": "../python", "only-files-beginning-with": "Python"}]}`
	pythonDir := writeGraph(t, root, "python", "", map[string]string{
		"Python.md": "- page\n",
	})
	workDir := writeGraph(t, root, "work", linkDecl, nil)

	ctx := context.Background()
	set, err := resolve.Build(ctx, root)
	require.NoError(t, err)

	engine := New(osfs.New("/"))
	rep := engine.Run(ctx, set)
	require.Equal(t, 1, rep.Synced)

	linkPath := filepath.Join(workDir, "pages", "Python.md")
	target, err := os.Readlink(linkPath)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(pythonDir, "pages", "Python.md"), target)

	rep = engine.Run(ctx, set)
	assert.Zero(t, rep.Synced, "second run must be a no-op")
	assert.Equal(t, 1, rep.Skipped)
}

// TestEngine_PerFileFailureDoesNotAbortRun drives the engine through a
// mid-run I/O failure: one copy target is occupied by a directory, so
// writing it fails, but the sibling page still materializes and the
// failure is accumulated on the report.
func TestEngine_PerFileFailureDoesNotAbortRun(t *testing.T) {
	root := t.TempDir()
	pythonDir := writeGraph(t, root, "python", "", map[string]string{
		"Python.md":        "- python page\n",
		"Python___sort.md": "- sorting\n",
	})
	workDir := writeGraph(t, root, "work", workDecl, nil)

	// A directory squatting on the first copy target. The rule allows
	// overwrite, and the source is strictly newer, so the engine attempts
	// the write and fails on this one file only.
	require.NoError(t, os.MkdirAll(filepath.Join(workDir, "pages", "Python.md"), 0o755))
	future := time.Now().Add(2 * time.Hour)
	require.NoError(t, os.Chtimes(filepath.Join(pythonDir, "pages", "Python.md"), future, future))

	ctx := context.Background()
	set, err := resolve.Build(ctx, root)
	require.NoError(t, err)

	rep := New(osfs.New("/")).Run(ctx, set)

	require.Equal(t, 1, rep.Failed())
	assert.Contains(t, rep.Failures[0].Target, "Python.md")
	assert.Equal(t, 1, rep.Synced, "remaining files must still materialize")

	got, err := os.ReadFile(filepath.Join(workDir, "pages", "Python___sort.md"))
	require.NoError(t, err)
	assert.Contains(t, string(got), "- sorting\n")
}

func TestEngine_DanglingEdgeWarnsAndContinues(t *testing.T) {
	root := t.TempDir()
	decl := `{"dependent-graphs": [{"local-graph-path": "../missing", "only-files-beginning-with": "X"}]}`
	writeGraph(t, root, "work", decl, nil)

	ctx := context.Background()
	set, err := resolve.Build(ctx, root)
	require.NoError(t, err)

	rep := New(osfs.New("/")).Run(ctx, set)
	assert.Equal(t, 1, rep.Warnings)
	assert.Zero(t, rep.Failed())
}

func TestEngine_MissingSourcePagesDirIsANoOp(t *testing.T) {
	root := t.TempDir()
	decl := `{"dependent-graphs": [{"local-graph-path": "../bare", "only-files-beginning-with": "X"}]}`
	// A directory without pages/ still resolves; it just has nothing to sync.
	bare := filepath.Join(root, "bare")
	require.NoError(t, os.MkdirAll(filepath.Join(bare, resolve.MarkerDir), 0o755))
	writeGraph(t, root, "work", decl, nil)

	ctx := context.Background()
	set, err := resolve.Build(ctx, root)
	require.NoError(t, err)

	rep := New(osfs.New("/")).Run(ctx, set)
	assert.Zero(t, rep.Failed())
	assert.Zero(t, rep.Synced)
}

func TestEngine_DryRunMutatesNothing(t *testing.T) {
	root := t.TempDir()
	writeGraph(t, root, "python", "", map[string]string{"Python.md": "- page\n"})
	workDir := writeGraph(t, root, "work", workDecl, nil)

	ctx := context.Background()
	set, err := resolve.Build(ctx, root)
	require.NoError(t, err)

	engine := New(osfs.New("/"))
	engine.DryRun = true
	rep := engine.Run(ctx, set)

	assert.Zero(t, rep.Synced)
	entries, err := os.ReadDir(filepath.Join(workDir, "pages"))
	require.NoError(t, err)
	assert.Empty(t, entries)
}
