package testutil

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/blastseq/internal/network"
)

// Holes returns hole records for ids, spaced one unit apart on the x axis.
func Holes(ids ...string) []network.HoleRecord {
	recs := make([]network.HoleRecord, len(ids))
	for i, id := range ids {
		recs[i] = network.HoleRecord{ID: id, X: float64(i), Y: 0}
	}
	return recs
}

// Connector returns a detonating-cord connector record.
func Connector(id, from, to string, delayMs int64) network.ConnectorRecord {
	return network.ConnectorRecord{ID: id, SourceHoleID: from, TargetHoleID: to, DelayMs: delayMs}
}

// MustBuild builds a network and fails the test on error.
func MustBuild(t testing.TB, holes []network.HoleRecord, connectors []network.ConnectorRecord) *network.Network {
	t.Helper()
	n, err := network.Build(holes, connectors)
	require.NoError(t, err)
	return n
}

// ChainNetwork is A -> B (100ms, root) -> C (200ms).
// Activations: A=0, B=600, C=1300.
func ChainNetwork(t testing.TB) *network.Network {
	root := Connector("ab", "A", "B", 100)
	root.IsRoot = true
	root.Sequence = 1
	next := Connector("bc", "B", "C", 200)
	next.Sequence = 2
	return MustBuild(t, Holes("A", "B", "C"), []network.ConnectorRecord{root, next})
}

// CycleNetwork is A -> B -> A with 50ms connectors and no flagged root.
func CycleNetwork(t testing.TB) *network.Network {
	return MustBuild(t, Holes("A", "B"), []network.ConnectorRecord{
		Connector("ab", "A", "B", 50),
		Connector("ba", "B", "A", 50),
	})
}

// FanOutNetwork connects root R to targets T1..Tk, every connector with the
// same delay, so all k signals arrive together.
func FanOutNetwork(t testing.TB, k int, delayMs int64) *network.Network {
	ids := []string{"R"}
	var conns []network.ConnectorRecord
	for i := 1; i <= k; i++ {
		target := fmt.Sprintf("T%d", i)
		ids = append(ids, target)
		conns = append(conns, Connector(fmt.Sprintf("r%d", i), "R", target, delayMs))
	}
	return MustBuild(t, Holes(ids...), conns)
}

// EmptyNetwork has holes but no connectors.
func EmptyNetwork(t testing.TB) *network.Network {
	return MustBuild(t, Holes("A", "B"), nil)
}
