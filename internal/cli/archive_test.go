package cli

import (
	"bytes"
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/blastseq/internal/store"
	"github.com/roach88/blastseq/internal/testutil"
)

func TestArchiveRunsReplayRoundTrip(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "runs.db")

	cmd := NewArchiveCommand(&RootOptions{Format: "json"})
	out, err := runCommand(t, cmd, chainPath, "--db", dbPath, "--run-id", "run-1", "--label", "first")
	require.NoError(t, err)

	var run store.Run
	decodeData(t, out, &run)
	assert.Equal(t, "run-1", run.ID)
	assert.Equal(t, int64(1), run.Seq)
	assert.Equal(t, "first", run.Label)
	assert.Equal(t, "flagged", run.RootRule)
	assert.NotEmpty(t, run.ScheduleFingerprint)
	assert.NotEmpty(t, run.TimelineFingerprint)

	cmd = NewArchiveCommand(&RootOptions{Format: "text"})
	out, err = runCommand(t, cmd, filepath.Join("testdata", "unreachable.yaml"), "--db", dbPath, "--run-id", "run-2")
	require.NoError(t, err)
	assert.Contains(t, out, "Archived run run-2 (seq 2)")

	cmd = NewRunsCommand(&RootOptions{Format: "json"})
	out, err = runCommand(t, cmd, "--db", dbPath)
	require.NoError(t, err)

	var runs []RunSummary
	decodeData(t, out, &runs)
	require.Len(t, runs, 2)
	assert.Equal(t, "run-1", runs[0].ID)
	assert.Equal(t, 3, runs[0].Holes)
	assert.Equal(t, int64(1300), runs[0].DurationMs)
	assert.Equal(t, "run-2", runs[1].ID)
	assert.Equal(t, 4, runs[1].Holes)

	cmd = NewReplayCommand(&RootOptions{Format: "json"})
	out, err = runCommand(t, cmd, "--db", dbPath)
	require.NoError(t, err)

	var replay ReplayOutput
	env := decodeData(t, out, &replay)
	assert.Equal(t, "ok", env.Status)
	assert.Equal(t, 2, replay.TotalRuns)
	assert.True(t, replay.AllIdentical)
	for _, r := range replay.Runs {
		assert.True(t, r.Identical, "run %s", r.RunID)
	}
}

func TestArchiveGeneratesRunID(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "runs.db")

	opts := &RootOptions{Format: "text"}
	cmd := NewArchiveCommand(opts)
	_, err := runCommand(t, cmd, chainPath, "--db", dbPath)
	require.NoError(t, err)

	st, err := store.Open(dbPath)
	require.NoError(t, err)
	defer st.Close()
	runs, err := st.ListRuns(context.Background())
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Len(t, runs[0].ID, 36)
}

func TestArchiveWithInjectedGenerator(t *testing.T) {
	opts := &ArchiveOptions{
		RootOptions: &RootOptions{Format: "text"},
		Database:    filepath.Join(t.TempDir(), "runs.db"),
		idGen:       testutil.NewSequentialRunIDGenerator(),
	}

	for _, want := range []string{"Archived run run-0001 (seq 1)", "Archived run run-0002 (seq 2)"} {
		out := &bytes.Buffer{}
		cmd := NewArchiveCommand(opts.RootOptions)
		cmd.SetOut(out)
		require.NoError(t, runArchive(context.Background(), opts, chainPath, cmd))
		assert.Contains(t, out.String(), want)
	}
}

func TestArchiveFixedGeneratorCollides(t *testing.T) {
	opts := &ArchiveOptions{
		RootOptions: &RootOptions{Format: "text"},
		Database:    filepath.Join(t.TempDir(), "runs.db"),
		idGen:       testutil.NewFixedRunIDGenerator("same"),
	}

	cmd := NewArchiveCommand(opts.RootOptions)
	cmd.SetOut(&bytes.Buffer{})
	require.NoError(t, runArchive(context.Background(), opts, chainPath, cmd))

	err := runArchive(context.Background(), opts, chainPath, cmd)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), ErrCodeStore)
}

func TestReplayDetectsTampering(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "runs.db")

	cmd := NewArchiveCommand(&RootOptions{Format: "text"})
	_, err := runCommand(t, cmd, chainPath, "--db", dbPath, "--run-id", "run-1")
	require.NoError(t, err)

	db, err := sql.Open("sqlite3", dbPath)
	require.NoError(t, err)
	_, err = db.Exec(`UPDATE runs SET timeline_fingerprint = 'deadbeef' WHERE id = 'run-1'`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	cmd = NewReplayCommand(&RootOptions{Format: "text"})
	out, err := runCommand(t, cmd, "--db", dbPath)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "\u2717 run-1")
	assert.Contains(t, out, "timeline: stored deadbeef")
	assert.Contains(t, out, "all identical: false")

	cmd = NewReplayCommand(&RootOptions{Format: "json"})
	out, err = runCommand(t, cmd, "--db", dbPath, "--run", "run-1")
	require.Error(t, err)
	env := decodeData(t, out, nil)
	assert.Equal(t, "error", env.Status)
	assert.Equal(t, "E_REPLAY_MISMATCH", env.Error.Code)
}

func TestReplayUnknownRun(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "runs.db")

	cmd := NewReplayCommand(&RootOptions{Format: "text"})
	_, err := runCommand(t, cmd, "--db", dbPath, "--run", "missing")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), ErrCodeRunNotFound)
}

func TestRunsEmptyDatabase(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "runs.db")

	cmd := NewRunsCommand(&RootOptions{Format: "text"})
	out, err := runCommand(t, cmd, "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "No runs found in database.")

	cmd = NewReplayCommand(&RootOptions{Format: "text"})
	out, err = runCommand(t, cmd, "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "No runs found in database.")
}

func TestArchiveRequiresDB(t *testing.T) {
	cmd := NewArchiveCommand(&RootOptions{Format: "text"})
	_, err := runCommand(t, cmd, chainPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db")
}
