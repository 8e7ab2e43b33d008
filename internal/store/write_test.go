package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/blastseq/internal/schedule"
	"github.com/roach88/blastseq/internal/testutil"
)

func TestWriteRun_Header(t *testing.T) {
	s := createTestStore(t)
	sched := schedule.Compute(testutil.ChainNetwork(t))

	run, err := s.WriteRun(context.Background(), "run-1", "chain", sched)
	require.NoError(t, err)

	assert.Equal(t, "run-1", run.ID)
	assert.Equal(t, int64(1), run.Seq)
	assert.Equal(t, "chain", run.Label)
	assert.Equal(t, "flagged", run.RootRule)
	assert.Equal(t, sched.Fingerprint(), run.ScheduleFingerprint)
	assert.Equal(t, sched.Network().Fingerprint(), run.NetworkFingerprint)
	assert.NotEmpty(t, run.TimelineFingerprint)
	assert.Equal(t, int64(1300), run.Metrics.TotalBlastDurationMs)
	assert.Empty(t, run.Diagnostics)
}

func TestWriteRun_SeqIncrements(t *testing.T) {
	s := createTestStore(t)

	first := writeChainRun(t, s, "run-a")
	second := writeChainRun(t, s, "run-b")

	assert.Equal(t, int64(1), first.Seq)
	assert.Equal(t, int64(2), second.Seq)
}

func TestWriteRun_DuplicateIDRollsBack(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	writeChainRun(t, s, "run-1")

	sched := schedule.Compute(testutil.CycleNetwork(t))
	_, err := s.WriteRun(ctx, "run-1", "cycle", sched)
	require.Error(t, err)

	runs, err := s.ListRuns(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "chain", runs[0].Label)

	var events int
	require.NoError(t, s.db.QueryRow("SELECT COUNT(*) FROM events").Scan(&events))
	assert.Equal(t, 8, events)
}

func TestWriteRun_Diagnostics(t *testing.T) {
	s := createTestStore(t)
	sched := schedule.Compute(testutil.CycleNetwork(t))

	run, err := s.WriteRun(context.Background(), "run-cycle", "", sched)
	require.NoError(t, err)

	got, err := s.ReadRun(context.Background(), run.ID)
	require.NoError(t, err)
	require.Len(t, got.Diagnostics, 1)
	assert.Equal(t, schedule.DiagDegenerateRootSelection, got.Diagnostics[0].Code)
	assert.Equal(t, "first_connector", got.RootRule)
}
