package analysis

import (
	"fmt"
	"math"

	"github.com/roach88/blastseq/internal/network"
	"github.com/roach88/blastseq/internal/schedule"
)

// FindingType categorizes a validation finding.
type FindingType string

const (
	FindingConnectionMissing FindingType = "connection_missing"
	FindingUnreachable       FindingType = "unreachable_holes"
	FindingDegenerateRoot    FindingType = "degenerate_root_selection"
	FindingTimingOverlap     FindingType = "timing_overlap"
	FindingCycle             FindingType = "cycle"
)

// Finding is a validation error or warning.
type Finding struct {
	Type         FindingType `json:"type"`
	Severity     Severity    `json:"severity"`
	Message      string      `json:"message"`
	HoleIDs      []string    `json:"hole_ids,omitempty"`
	ConnectorIDs []string    `json:"connector_ids,omitempty"`
}

// Suggestion is an optimization hint.
type Suggestion struct {
	Type                 string   `json:"type"`
	Message              string   `json:"message"`
	Priority             Severity `json:"priority"`
	PotentialImprovement int      `json:"potential_improvement"`
	ConnectorIDs         []string `json:"connector_ids,omitempty"`
}

// Validation is the result of Validate. A sequence is valid when every
// connected hole is scheduled.
type Validation struct {
	Valid       bool         `json:"valid"`
	Errors      []Finding    `json:"errors"`
	Warnings    []Finding    `json:"warnings"`
	Suggestions []Suggestion `json:"suggestions"`
}

// Total blast durations above longDurationMs get a reduce_total_time
// suggestion measured against targetDurationMs.
const (
	longDurationMs   = 5000
	targetDurationMs = 3000
)

// Validate collects findings about a schedule. Networks without connectors
// are valid and produce no findings.
func Validate(s *schedule.Schedule) Validation {
	v := Validation{Valid: true, Errors: []Finding{}, Warnings: []Finding{}, Suggestions: []Suggestion{}}
	n := s.Network()
	if n.IsEmpty() {
		return v
	}

	if unreached := s.Unreachable(); len(unreached) > 0 {
		v.Errors = append(v.Errors, Finding{
			Type:     FindingUnreachable,
			Severity: SeverityHigh,
			Message:  fmt.Sprintf("%d holes are never reached by the blast sequence", len(unreached)),
			HoleIDs:  holeIDs(n, unreached),
		})
	}

	if s.HasDiagnostic(schedule.DiagDegenerateRootSelection) {
		v.Warnings = append(v.Warnings, Finding{
			Type:     FindingDegenerateRoot,
			Severity: SeverityMedium,
			Message:  "no hole is free of incoming connectors; the first connector's source was used as the start",
			HoleIDs:  holeIDs(n, s.Roots()),
		})
	}

	for _, cf := range Conflicts(s) {
		v.Warnings = append(v.Warnings, Finding{
			Type:         FindingTimingOverlap,
			Severity:     cf.Severity,
			Message:      cf.Message(),
			HoleIDs:      cf.HoleIDs,
			ConnectorIDs: cf.ConnectorIDs,
		})
	}

	if orphans := n.OrphanedHoles(); len(orphans) > 0 {
		v.Warnings = append(v.Warnings, Finding{
			Type:     FindingConnectionMissing,
			Severity: SeverityMedium,
			Message:  fmt.Sprintf("%d holes are not connected to the blast sequence", len(orphans)),
			HoleIDs:  holeIDs(n, orphans),
		})
	}

	for _, cyc := range DetectCycles(n) {
		v.Warnings = append(v.Warnings, Finding{
			Type:     FindingCycle,
			Severity: SeverityMedium,
			Message:  "connectors form a cycle: " + cyc.String(),
			HoleIDs:  cyc,
		})
	}

	if total := s.MaxActivationMs(); total > longDurationMs {
		ids := make([]string, n.ConnectorCount())
		for c := range ids {
			ids[c] = n.ConnectorID(network.ConnectorHandle(c))
		}
		v.Suggestions = append(v.Suggestions, Suggestion{
			Type:                 "reduce_total_time",
			Message:              "Consider reducing delay times to improve blast efficiency",
			Priority:             SeverityHigh,
			PotentialImprovement: int(math.Round(float64(total-targetDurationMs) / float64(total) * 100)),
			ConnectorIDs:         ids,
		})
	}

	v.Valid = len(v.Errors) == 0
	return v
}

func holeIDs(n *network.Network, hs []network.HoleHandle) []string {
	ids := make([]string, len(hs))
	for i, h := range hs {
		ids[i] = n.HoleID(h)
	}
	return ids
}
