// Package metrics derives scalar summaries from a schedule and exports them
// in the Prometheus exposition format.
package metrics

import (
	"sort"

	"github.com/roach88/blastseq/internal/analysis"
	"github.com/roach88/blastseq/internal/network"
	"github.com/roach88/blastseq/internal/schedule"
)

// Metrics summarizes one schedule. Every field is zero for a network without
// connectors.
type Metrics struct {
	TotalBlastDurationMs        int64   `json:"total_blast_duration_ms"`
	TotalHoles                  int     `json:"total_holes"`
	TotalConnections            int     `json:"total_connections"`
	AverageDelayMs              float64 `json:"average_delay_ms"`
	ConnectionsPerHole          float64 `json:"connections_per_hole"`
	WaveCount                   int     `json:"wave_count"`
	MaxSimultaneousDetonations  int     `json:"max_simultaneous_detonations"`
	AverageDetonationIntervalMs float64 `json:"average_detonation_interval_ms"`
}

// Aggregate computes Metrics. TotalHoles counts only holes touched by a
// connector.
func Aggregate(s *schedule.Schedule) Metrics {
	n := s.Network()
	if n.IsEmpty() {
		return Metrics{}
	}

	m := Metrics{
		TotalBlastDurationMs: s.MaxActivationMs(),
		TotalHoles:           len(n.ReferencedHoles()),
		TotalConnections:     n.ConnectorCount(),
		WaveCount:            len(analysis.Waves(s)),
	}

	var delaySum int64
	for c := 0; c < n.ConnectorCount(); c++ {
		delaySum += n.Connector(network.ConnectorHandle(c)).DelayMs
	}
	m.AverageDelayMs = float64(delaySum) / float64(m.TotalConnections)
	m.ConnectionsPerHole = float64(m.TotalConnections) / float64(m.TotalHoles)

	var times []int64
	for h := 0; h < n.HoleCount(); h++ {
		if at, ok := s.Activation(network.HoleHandle(h)); ok {
			times = append(times, at)
		}
	}
	sort.Slice(times, func(i, j int) bool { return times[i] < times[j] })

	run := 0
	for i := range times {
		if i > 0 && times[i] == times[i-1] {
			run++
		} else {
			run = 1
		}
		if run > m.MaxSimultaneousDetonations {
			m.MaxSimultaneousDetonations = run
		}
	}
	if len(times) > 1 {
		m.AverageDetonationIntervalMs = float64(times[len(times)-1]-times[0]) / float64(len(times)-1)
	}

	return m
}
