package analysis

import (
	"fmt"
	"sort"

	"github.com/roach88/blastseq/internal/network"
	"github.com/roach88/blastseq/internal/schedule"
)

// Severity grades a finding.
type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
)

// Conflict thresholds on the number of connectors arriving together.
const (
	highConflictAbove = 3
	mediumConflictMin = 2
)

// Conflict is a set of connectors whose signals arrive at the same instant.
type Conflict struct {
	TimeMs       int64    `json:"time_ms"`
	Severity     Severity `json:"severity"`
	Count        int      `json:"count"`
	ConnectorIDs []string `json:"connector_ids"`
	HoleIDs      []string `json:"hole_ids"`
}

// Message describes the conflict for reports and validation output.
func (c Conflict) Message() string {
	return fmt.Sprintf("%d connectors arrive simultaneously at %dms", c.Count, c.TimeMs)
}

// Conflicts buckets windowed connectors by arrival time. A bucket of more
// than three is high severity, two or three is medium, and a single
// connector is not reported. Results are ordered by time.
func Conflicts(s *schedule.Schedule) []Conflict {
	n := s.Network()
	buckets := make(map[int64][]network.ConnectorHandle)
	for c := 0; c < n.ConnectorCount(); c++ {
		w, ok := s.Window(network.ConnectorHandle(c))
		if !ok {
			continue
		}
		buckets[w.EndMs] = append(buckets[w.EndMs], network.ConnectorHandle(c))
	}

	var out []Conflict
	for at, conns := range buckets {
		if len(conns) < mediumConflictMin {
			continue
		}
		sev := SeverityMedium
		if len(conns) > highConflictAbove {
			sev = SeverityHigh
		}

		cf := Conflict{TimeMs: at, Severity: sev, Count: len(conns)}
		seen := make(map[network.HoleHandle]bool)
		for _, c := range conns {
			conn := n.Connector(c)
			cf.ConnectorIDs = append(cf.ConnectorIDs, conn.ID)
			if !seen[conn.Target] {
				seen[conn.Target] = true
				cf.HoleIDs = append(cf.HoleIDs, n.HoleID(conn.Target))
			}
		}
		out = append(out, cf)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].TimeMs < out[j].TimeMs })
	return out
}
