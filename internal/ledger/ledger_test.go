package ledger

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentic-research/weft/internal/materialize"
)

func TestLedger_RecordsRuns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.db")

	led, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = led.Close() })

	ctx := context.Background()
	started := time.Now().Add(-time.Minute)
	rep := &materialize.Report{Synced: 2, Skipped: 3, Warnings: 1}
	rep.Failures = append(rep.Failures, &materialize.FileOperationError{Source: "a", Target: "b"})

	require.NoError(t, led.Record(ctx, "/graphs", started, time.Now(), rep))
	require.NoError(t, led.Record(ctx, "/graphs", started, time.Now(), &materialize.Report{}))

	var count int
	require.NoError(t, led.db.QueryRow(`SELECT COUNT(*) FROM runs`).Scan(&count))
	assert.Equal(t, 2, count)

	var synced, failed int
	var root string
	require.NoError(t, led.db.QueryRow(
		`SELECT root, synced, failed FROM runs ORDER BY id LIMIT 1`).Scan(&root, &synced, &failed))
	assert.Equal(t, "/graphs", root)
	assert.Equal(t, 2, synced)
	assert.Equal(t, 1, failed)
}

func TestLedger_OpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.db")

	led, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, led.Close())

	// Re-opening an existing ledger must not fail on the schema.
	led, err = Open(path)
	require.NoError(t, err)
	require.NoError(t, led.Close())
}
