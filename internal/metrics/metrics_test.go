package metrics

import (
	"bytes"
	"testing"

	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/blastseq/internal/analysis"
	"github.com/roach88/blastseq/internal/network"
	"github.com/roach88/blastseq/internal/schedule"
	"github.com/roach88/blastseq/internal/testutil"
)

func TestAggregate_Chain(t *testing.T) {
	m := Aggregate(schedule.Compute(testutil.ChainNetwork(t)))

	assert.Equal(t, int64(1300), m.TotalBlastDurationMs)
	assert.Equal(t, 3, m.TotalHoles)
	assert.Equal(t, 2, m.TotalConnections)
	assert.Equal(t, 150.0, m.AverageDelayMs)
	assert.InDelta(t, 0.6667, m.ConnectionsPerHole, 0.0001)
	assert.Equal(t, 2, m.WaveCount)
	assert.Equal(t, 1, m.MaxSimultaneousDetonations)
	assert.Equal(t, 650.0, m.AverageDetonationIntervalMs)
}

func TestAggregate_FanOut(t *testing.T) {
	m := Aggregate(schedule.Compute(testutil.FanOutNetwork(t, 4, 100)))

	assert.Equal(t, int64(600), m.TotalBlastDurationMs)
	assert.Equal(t, 5, m.TotalHoles)
	assert.Equal(t, 0.8, m.ConnectionsPerHole)
	assert.Equal(t, 1, m.WaveCount)
	assert.Equal(t, 4, m.MaxSimultaneousDetonations)
	assert.Equal(t, 150.0, m.AverageDetonationIntervalMs)
}

func TestAggregate_WaveCountIsStructural(t *testing.T) {
	// The fast path through B lowers C's activation but C stays one hop
	// from the root, so the network has two waves, not three.
	n := testutil.MustBuild(t, testutil.Holes("A", "B", "C", "D"), []network.ConnectorRecord{
		testutil.Connector("ac", "A", "C", 2000),
		testutil.Connector("ab", "A", "B", 100),
		testutil.Connector("bc", "B", "C", 100),
		testutil.Connector("cd", "C", "D", 0),
	})
	m := Aggregate(schedule.Compute(n))

	assert.Equal(t, 2, m.WaveCount)
	assert.Equal(t, int64(1700), m.TotalBlastDurationMs)
}

func TestAggregate_Empty(t *testing.T) {
	m := Aggregate(schedule.Compute(testutil.EmptyNetwork(t)))
	assert.Equal(t, Metrics{}, m)
	assert.Equal(t, 0, m.TotalHoles)
	assert.Equal(t, 0.0, m.AverageDelayMs)
}

func TestAggregate_IgnoresOrphans(t *testing.T) {
	n := testutil.MustBuild(t, testutil.Holes("A", "B", "lonely"), []network.ConnectorRecord{
		testutil.Connector("ab", "A", "B", 40),
	})
	m := Aggregate(schedule.Compute(n))

	assert.Equal(t, 2, m.TotalHoles)
	assert.Equal(t, 0.5, m.ConnectionsPerHole)
}

func observe(t *testing.T, e *Exporter, s *schedule.Schedule) {
	t.Helper()
	e.Observe(Aggregate(s), analysis.Waves(s), analysis.Conflicts(s), analysis.Validate(s))
}

func TestExporter_Observe(t *testing.T) {
	e := NewExporter()
	observe(t, e, schedule.Compute(testutil.FanOutNetwork(t, 4, 100)))

	assert.Equal(t, 600.0, promtest.ToFloat64(e.BlastDuration))
	assert.Equal(t, 5.0, promtest.ToFloat64(e.Holes))
	assert.Equal(t, 4.0, promtest.ToFloat64(e.SimultaneousMax))
	assert.Equal(t, 1.0, promtest.ToFloat64(e.ConflictsBySeverity.WithLabelValues("high")))
	assert.Equal(t, 0.0, promtest.ToFloat64(e.ConflictsBySeverity.WithLabelValues("medium")))
	assert.Equal(t, 1.0, promtest.ToFloat64(e.ValidationFindings.WithLabelValues("timing_overlap")))

	gauge, err := e.WaveConnectors.GetMetricWithLabelValues("1")
	require.NoError(t, err)
	var metric dto.Metric
	require.NoError(t, gauge.Write(&metric))
	assert.Equal(t, 4.0, metric.GetGauge().GetValue())
}

func TestExporter_ObserveReplacesLabels(t *testing.T) {
	e := NewExporter()
	observe(t, e, schedule.Compute(testutil.ChainNetwork(t)))
	assert.Equal(t, 2, promtest.CollectAndCount(e.WaveConnectors))

	observe(t, e, schedule.Compute(testutil.FanOutNetwork(t, 2, 10)))
	assert.Equal(t, 1, promtest.CollectAndCount(e.WaveConnectors))
	assert.Equal(t, 1.0, promtest.ToFloat64(e.ConflictsBySeverity.WithLabelValues("medium")))
}

func TestExporter_WriteText(t *testing.T) {
	e := NewExporter()
	observe(t, e, schedule.Compute(testutil.ChainNetwork(t)))

	var buf bytes.Buffer
	require.NoError(t, e.WriteText(&buf))

	out := buf.String()
	assert.Contains(t, out, "# TYPE blastseq_total_blast_duration_milliseconds gauge")
	assert.Contains(t, out, "blastseq_total_blast_duration_milliseconds 1300")
	assert.Contains(t, out, `blastseq_wave_connectors{wave="2"} 1`)
}
