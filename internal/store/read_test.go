package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/blastseq/internal/network"
	"github.com/roach88/blastseq/internal/schedule"
	"github.com/roach88/blastseq/internal/sim"
	"github.com/roach88/blastseq/internal/testutil"
)

func TestReadRun_RoundTrip(t *testing.T) {
	s := createTestStore(t)
	written := writeChainRun(t, s, "run-1")

	got, err := s.ReadRun(context.Background(), "run-1")
	require.NoError(t, err)
	assert.Equal(t, written, got)

	n, err := got.Network.Build()
	require.NoError(t, err)
	assert.Equal(t, written.NetworkFingerprint, n.Fingerprint())
}

func TestReadRun_NotFound(t *testing.T) {
	s := createTestStore(t)

	_, err := s.ReadRun(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrRunNotFound))
}

func TestListRuns_OrderedBySeq(t *testing.T) {
	s := createTestStore(t)
	// ids sort the other way round from write order
	writeChainRun(t, s, "run-z")
	writeChainRun(t, s, "run-a")

	runs, err := s.ListRuns(context.Background())
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "run-z", runs[0].ID)
	assert.Equal(t, "run-a", runs[1].ID)
}

func TestListRuns_Empty(t *testing.T) {
	s := createTestStore(t)

	runs, err := s.ListRuns(context.Background())
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestReadActivations(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	// D is isolated and never reached.
	n := testutil.MustBuild(t, testutil.Holes("A", "B", "D"), []network.ConnectorRecord{
		testutil.Connector("ab", "A", "B", 100),
	})
	_, err := s.WriteRun(ctx, "run-1", "", schedule.Compute(n))
	require.NoError(t, err)

	rows, err := s.ReadActivations(ctx, "run-1")
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "A", rows[0].HoleID)
	require.NotNil(t, rows[0].ActivationMs)
	assert.Equal(t, int64(0), *rows[0].ActivationMs)
	assert.Empty(t, rows[0].CauseConnectorID)

	assert.Equal(t, "B", rows[1].HoleID)
	require.NotNil(t, rows[1].ActivationMs)
	assert.Equal(t, int64(600), *rows[1].ActivationMs)
	assert.Equal(t, "ab", rows[1].CauseConnectorID)

	assert.Equal(t, "D", rows[2].HoleID)
	assert.Nil(t, rows[2].ActivationMs)
}

func TestReadWindows(t *testing.T) {
	s := createTestStore(t)
	writeChainRun(t, s, "run-1")

	rows, err := s.ReadWindows(context.Background(), "run-1")
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "ab", rows[0].ConnectorID)
	require.NotNil(t, rows[0].StartMs)
	assert.Equal(t, int64(0), *rows[0].StartMs)
	assert.Equal(t, int64(100), *rows[0].EndMs)
	assert.Equal(t, 1, rows[0].Wave)

	assert.Equal(t, "bc", rows[1].ConnectorID)
	assert.Equal(t, int64(600), *rows[1].StartMs)
	assert.Equal(t, int64(800), *rows[1].EndMs)
	assert.Equal(t, 2, rows[1].Wave)
}

func TestReadEvents_MatchesGenerated(t *testing.T) {
	s := createTestStore(t)
	writeChainRun(t, s, "run-1")

	got, err := s.ReadEvents(context.Background(), "run-1")
	require.NoError(t, err)

	want := sim.GenerateEvents(schedule.Compute(testutil.ChainNetwork(t)))
	assert.Equal(t, want, got)
	require.Len(t, got, 8)
	assert.Equal(t, sim.HoleDetonate{At: 0, HoleID: "A"}, got[0])
	assert.Equal(t, sim.SignalArrive{At: 100, ConnectorID: "ab", ToHoleID: "B"}, got[2])
}

func TestDeleteRun_Cascades(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	writeChainRun(t, s, "run-1")

	require.NoError(t, s.DeleteRun(ctx, "run-1"))

	for _, table := range []string{"activations", "windows", "events"} {
		var count int
		require.NoError(t, s.db.QueryRow("SELECT COUNT(*) FROM "+table).Scan(&count))
		assert.Zero(t, count, table)
	}

	err := s.DeleteRun(ctx, "run-1")
	assert.ErrorIs(t, err, ErrRunNotFound)
}
