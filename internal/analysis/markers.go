package analysis

import (
	"fmt"
	"sort"
	"strings"

	"github.com/roach88/blastseq/internal/network"
	"github.com/roach88/blastseq/internal/schedule"
)

// MarkerType categorizes a timeline marker.
type MarkerType string

const (
	MarkerSequenceStart MarkerType = "sequence_start"
	MarkerWave          MarkerType = "wave"
	MarkerHoleBlast     MarkerType = "hole_blast"
	MarkerSequenceEnd   MarkerType = "sequence_end"
)

// Marker is a labelled point on the playback timeline.
type Marker struct {
	TimeMs int64      `json:"time_ms"`
	Type   MarkerType `json:"type"`
	Label  string     `json:"label"`
}

// TimelineMarkers returns the start marker, one marker per wave, one per
// reached hole and the end marker at the horizon, ordered by time. Markers
// sharing a time keep that order. An empty schedule yields only the start
// marker.
func TimelineMarkers(s *schedule.Schedule) []Marker {
	markers := []Marker{{TimeMs: 0, Type: MarkerSequenceStart, Label: "Blast Start"}}
	if s.IsEmpty() {
		return markers
	}
	n := s.Network()

	for _, w := range Waves(s) {
		parts := make([]string, 0, len(w.ConnectorIDs))
		for _, id := range w.ConnectorIDs {
			c, _ := n.LookupConnector(id)
			conn := n.Connector(c)
			parts = append(parts, fmt.Sprintf("%s %dms", conn.Kind.DisplayName(), conn.DelayMs))
		}
		markers = append(markers, Marker{
			TimeMs: w.StartMs,
			Type:   MarkerWave,
			Label:  fmt.Sprintf("Wave %d: %s", w.Number, strings.Join(parts, ", ")),
		})
	}

	for h := 0; h < n.HoleCount(); h++ {
		at, ok := s.Activation(network.HoleHandle(h))
		if !ok {
			continue
		}
		markers = append(markers, Marker{
			TimeMs: at,
			Type:   MarkerHoleBlast,
			Label:  n.HoleID(network.HoleHandle(h)) + " Detonation",
		})
	}

	markers = append(markers, Marker{TimeMs: s.HorizonMs(), Type: MarkerSequenceEnd, Label: "Blast Complete"})

	sort.SliceStable(markers, func(i, j int) bool { return markers[i].TimeMs < markers[j].TimeMs })
	return markers
}
