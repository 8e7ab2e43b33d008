package metrics

import (
	"fmt"
	"io"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/common/expfmt"

	"github.com/roach88/blastseq/internal/analysis"
)

// Exporter publishes schedule summaries as Prometheus gauges.
type Exporter struct {
	registry *prometheus.Registry

	BlastDuration       prometheus.Gauge
	Holes               prometheus.Gauge
	Connections         prometheus.Gauge
	AverageDelay        prometheus.Gauge
	ConnectionsPerHole  prometheus.Gauge
	Waves               prometheus.Gauge
	SimultaneousMax     prometheus.Gauge
	DetonationInterval  prometheus.Gauge
	WaveConnectors      *prometheus.GaugeVec
	ConflictsBySeverity *prometheus.GaugeVec
	ValidationFindings  *prometheus.GaugeVec
}

// NewExporter creates an Exporter with its own registry.
func NewExporter() *Exporter {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &Exporter{
		registry: reg,
		BlastDuration: f.NewGauge(prometheus.GaugeOpts{
			Name: "blastseq_total_blast_duration_milliseconds",
			Help: "Latest hole activation time",
		}),
		Holes: f.NewGauge(prometheus.GaugeOpts{
			Name: "blastseq_holes_total",
			Help: "Holes referenced by at least one connector",
		}),
		Connections: f.NewGauge(prometheus.GaugeOpts{
			Name: "blastseq_connections_total",
			Help: "Connectors in the network",
		}),
		AverageDelay: f.NewGauge(prometheus.GaugeOpts{
			Name: "blastseq_average_delay_milliseconds",
			Help: "Mean connector delay",
		}),
		ConnectionsPerHole: f.NewGauge(prometheus.GaugeOpts{
			Name: "blastseq_connections_per_hole",
			Help: "Connectors divided by referenced holes",
		}),
		Waves: f.NewGauge(prometheus.GaugeOpts{
			Name: "blastseq_waves_total",
			Help: "Causal waves in the sequence",
		}),
		SimultaneousMax: f.NewGauge(prometheus.GaugeOpts{
			Name: "blastseq_max_simultaneous_detonations",
			Help: "Largest number of holes activating at the same instant",
		}),
		DetonationInterval: f.NewGauge(prometheus.GaugeOpts{
			Name: "blastseq_average_detonation_interval_milliseconds",
			Help: "Mean gap between consecutive hole activations",
		}),
		WaveConnectors: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "blastseq_wave_connectors",
			Help: "Connectors per wave",
		}, []string{"wave"}),
		ConflictsBySeverity: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "blastseq_conflicts",
			Help: "Simultaneous-arrival conflicts by severity",
		}, []string{"severity"}), // high, medium
		ValidationFindings: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "blastseq_validation_findings",
			Help: "Validation findings by type",
		}, []string{"type"}),
	}
}

// Observe sets every gauge from m and the analysis results. Previous label
// values are cleared so a second Observe reflects only the new schedule.
func (e *Exporter) Observe(m Metrics, waves []analysis.Wave, conflicts []analysis.Conflict, v analysis.Validation) {
	e.BlastDuration.Set(float64(m.TotalBlastDurationMs))
	e.Holes.Set(float64(m.TotalHoles))
	e.Connections.Set(float64(m.TotalConnections))
	e.AverageDelay.Set(m.AverageDelayMs)
	e.ConnectionsPerHole.Set(m.ConnectionsPerHole)
	e.Waves.Set(float64(m.WaveCount))
	e.SimultaneousMax.Set(float64(m.MaxSimultaneousDetonations))
	e.DetonationInterval.Set(m.AverageDetonationIntervalMs)

	e.WaveConnectors.Reset()
	for _, w := range waves {
		e.WaveConnectors.WithLabelValues(strconv.Itoa(w.Number)).Set(float64(w.Count))
	}

	e.ConflictsBySeverity.Reset()
	e.ConflictsBySeverity.WithLabelValues(string(analysis.SeverityHigh)).Set(0)
	e.ConflictsBySeverity.WithLabelValues(string(analysis.SeverityMedium)).Set(0)
	for _, c := range conflicts {
		e.ConflictsBySeverity.WithLabelValues(string(c.Severity)).Inc()
	}

	e.ValidationFindings.Reset()
	for _, f := range append(append([]analysis.Finding{}, v.Errors...), v.Warnings...) {
		e.ValidationFindings.WithLabelValues(string(f.Type)).Inc()
	}
}

// Registry returns the underlying registry, for callers that serve it.
func (e *Exporter) Registry() *prometheus.Registry {
	return e.registry
}

// WriteText writes every gathered metric family in the text exposition format.
func (e *Exporter) WriteText(w io.Writer) error {
	families, err := e.registry.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("write metric family %s: %w", mf.GetName(), err)
		}
	}
	return nil
}
