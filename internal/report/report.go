// Package report assembles a blast sequence report from a schedule and
// renders it as text, JSON or CSV.
package report

import (
	"github.com/roach88/blastseq/internal/analysis"
	"github.com/roach88/blastseq/internal/metrics"
	"github.com/roach88/blastseq/internal/network"
	"github.com/roach88/blastseq/internal/schedule"
)

// HoleRow is one line of the holes table. ActivationMs is nil for holes
// propagation never reached.
type HoleRow struct {
	ID           string  `json:"id"`
	X            float64 `json:"x"`
	Y            float64 `json:"y"`
	ActivationMs *int64  `json:"activation_ms"`
	Root         bool    `json:"root"`
}

// ConnectionRow is one line of the connections table. StartMs and ArrivalMs
// are nil for connectors whose source was never reached.
type ConnectionRow struct {
	ID        string `json:"id"`
	From      string `json:"from"`
	To        string `json:"to"`
	Kind      string `json:"kind"`
	DelayMs   int64  `json:"delay_ms"`
	Sequence  int    `json:"sequence"`
	StartMs   *int64 `json:"start_ms"`
	ArrivalMs *int64 `json:"arrival_ms"`
	Wave      int    `json:"wave"`
}

// Report is everything a renderer needs.
type Report struct {
	Title       string                `json:"title"`
	Project     string                `json:"project,omitempty"`
	Network     string                `json:"network_fingerprint"`
	Schedule    string                `json:"schedule_fingerprint"`
	RootRule    string                `json:"root_rule"`
	Holes       []HoleRow             `json:"holes"`
	Connections []ConnectionRow       `json:"connections"`
	Metrics     metrics.Metrics       `json:"metrics"`
	Waves       []analysis.Wave       `json:"waves"`
	Conflicts   []analysis.Conflict   `json:"conflicts"`
	Validation  analysis.Validation   `json:"validation"`
	Diagnostics []schedule.Diagnostic `json:"diagnostics"`
	Markers     []analysis.Marker     `json:"markers"`
}

// Option configures Build.
type Option func(*Report)

// WithProject sets the project name shown in the report header.
func WithProject(name string) Option {
	return func(r *Report) { r.Project = name }
}

// Build assembles a Report. Slices are never nil so JSON output uses [].
func Build(s *schedule.Schedule, opts ...Option) Report {
	n := s.Network()
	r := Report{
		Title:       "Blast Sequence Simulation Report",
		Network:     n.Fingerprint(),
		Schedule:    s.Fingerprint(),
		RootRule:    s.RootRule().String(),
		Holes:       make([]HoleRow, 0, n.HoleCount()),
		Connections: make([]ConnectionRow, 0, n.ConnectorCount()),
		Metrics:     metrics.Aggregate(s),
		Waves:       nonNil(analysis.Waves(s)),
		Conflicts:   nonNil(analysis.Conflicts(s)),
		Validation:  analysis.Validate(s),
		Diagnostics: nonNil(s.Diagnostics()),
		Markers:     analysis.TimelineMarkers(s),
	}
	for _, opt := range opts {
		opt(&r)
	}

	for h := 0; h < n.HoleCount(); h++ {
		hh := network.HoleHandle(h)
		hole := n.Hole(hh)
		row := HoleRow{ID: hole.ID, X: hole.X, Y: hole.Y, Root: s.IsRoot(hh)}
		if at, ok := s.Activation(hh); ok {
			row.ActivationMs = &at
		}
		r.Holes = append(r.Holes, row)
	}

	depths := analysis.ConnectorDepths(s)
	for c := 0; c < n.ConnectorCount(); c++ {
		ch := network.ConnectorHandle(c)
		conn := n.Connector(ch)
		row := ConnectionRow{
			ID:       conn.ID,
			From:     n.HoleID(conn.Source),
			To:       n.HoleID(conn.Target),
			Kind:     conn.Kind.DisplayName(),
			DelayMs:  conn.DelayMs,
			Sequence: conn.Sequence,
			Wave:     depths[c],
		}
		if w, ok := s.Window(ch); ok {
			row.StartMs, row.ArrivalMs = &w.StartMs, &w.EndMs
		}
		r.Connections = append(r.Connections, row)
	}

	return r
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
