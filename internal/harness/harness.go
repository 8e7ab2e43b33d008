package harness

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"

	"github.com/roach88/blastseq/internal/analysis"
	"github.com/roach88/blastseq/internal/metrics"
	"github.com/roach88/blastseq/internal/network"
	"github.com/roach88/blastseq/internal/schedule"
	"github.com/roach88/blastseq/internal/sim"
)

// anyInvalidGraph is the expect_error value that matches every build error.
const anyInvalidGraph = "INVALID_GRAPH"

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Run executes a scenario and returns the result.
//
// Execution flow:
// 1. Build the network (dropping dangling connectors if asked)
// 2. Compute the schedule and the event timeline
// 3. Check expectations against the schedule, analysis and metrics
// 4. Evaluate assertions against the timeline
//
// A build failure the scenario did not expect is returned as an error.
// Expectation mismatches are reported on the result, not as errors.
func Run(scenario *Scenario) (*Result, error) {
	result := NewResult()

	def := scenario.Network
	if scenario.DropDangling {
		def.Connectors, _ = network.DropDangling(def.Holes, def.Connectors)
	}

	n, err := def.Build()
	if scenario.ExpectError != "" {
		checkBuildError(result, scenario.ExpectError, err)
		return result, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to build network: %w", err)
	}

	s := schedule.NewCalculator(schedule.WithLogger(discardLogger())).Compute(n)
	timeline := sim.GenerateEvents(s)

	result.timeline = timeline
	result.Events = sim.Records(timeline)
	result.ScheduleFingerprint = s.Fingerprint()
	result.TimelineFingerprint = sim.TimelineFingerprint(timeline)

	if scenario.Expect != nil {
		checkExpectations(result, s, scenario.Expect)
	}

	for _, msg := range EvaluateAssertions(s, timeline, scenario.Assertions) {
		result.AddError(msg)
	}

	return result, nil
}

func checkBuildError(result *Result, want string, err error) {
	if err == nil {
		result.AddError(fmt.Sprintf("expected build error %s, network built", want))
		return
	}
	var ige *network.InvalidGraphError
	if !errors.As(err, &ige) {
		result.AddError(fmt.Sprintf("expected build error %s, got %v", want, err))
		return
	}
	if want != anyInvalidGraph && string(ige.Code) != want {
		result.AddError(fmt.Sprintf("expected build error %s, got %s", want, ige.Code))
	}
}

func checkExpectations(result *Result, s *schedule.Schedule, e *Expectations) {
	n := s.Network()

	if e.RootRule != "" && s.RootRule().String() != e.RootRule {
		result.AddError(fmt.Sprintf("root_rule: expected %s, got %s", e.RootRule, s.RootRule()))
	}

	if e.Roots != nil {
		got := holeIDs(n, s.Roots())
		if !slices.Equal(got, e.Roots) {
			result.AddError(fmt.Sprintf("roots: expected %v, got %v", e.Roots, got))
		}
	}

	for _, id := range sortedKeys(e.Activations) {
		want := e.Activations[id]
		h, ok := n.LookupHole(id)
		if !ok {
			result.AddError(fmt.Sprintf("activations: unknown hole %s", id))
			continue
		}
		got, reached := s.Activation(h)
		switch {
		case want == nil && reached:
			result.AddError(fmt.Sprintf("activations[%s]: expected unreached, got %d", id, got))
		case want != nil && !reached:
			result.AddError(fmt.Sprintf("activations[%s]: expected %d, got unreached", id, *want))
		case want != nil && got != *want:
			result.AddError(fmt.Sprintf("activations[%s]: expected %d, got %d", id, *want, got))
		}
	}

	for _, id := range sortedKeys(e.Windows) {
		want := e.Windows[id]
		c, ok := n.LookupConnector(id)
		if !ok {
			result.AddError(fmt.Sprintf("windows: unknown connector %s", id))
			continue
		}
		got, windowed := s.Window(c)
		switch {
		case want == nil && windowed:
			result.AddError(fmt.Sprintf("windows[%s]: expected none, got [%d, %d]", id, got.StartMs, got.EndMs))
		case want != nil && !windowed:
			result.AddError(fmt.Sprintf("windows[%s]: expected [%d, %d], got none", id, want.StartMs, want.EndMs))
		case want != nil && (got.StartMs != want.StartMs || got.EndMs != want.EndMs):
			result.AddError(fmt.Sprintf("windows[%s]: expected [%d, %d], got [%d, %d]",
				id, want.StartMs, want.EndMs, got.StartMs, got.EndMs))
		}
	}

	if e.Diagnostics != nil {
		var got []string
		for _, d := range s.Diagnostics() {
			got = append(got, string(d.Code))
		}
		if !slices.Equal(got, e.Diagnostics) {
			result.AddError(fmt.Sprintf("diagnostics: expected %v, got %v", e.Diagnostics, got))
		}
	}

	if e.Unreachable != nil {
		got := holeIDs(n, s.Unreachable())
		if !slices.Equal(got, e.Unreachable) {
			result.AddError(fmt.Sprintf("unreachable: expected %v, got %v", e.Unreachable, got))
		}
	}

	if e.MaxTimeMs != nil && s.MaxTimeMs() != *e.MaxTimeMs {
		result.AddError(fmt.Sprintf("max_time_ms: expected %d, got %d", *e.MaxTimeMs, s.MaxTimeMs()))
	}
	if e.HorizonMs != nil && s.HorizonMs() != *e.HorizonMs {
		result.AddError(fmt.Sprintf("horizon_ms: expected %d, got %d", *e.HorizonMs, s.HorizonMs()))
	}

	if e.Waves != nil {
		if got := len(analysis.Waves(s)); got != *e.Waves {
			result.AddError(fmt.Sprintf("waves: expected %d, got %d", *e.Waves, got))
		}
	}

	if e.Conflicts != nil {
		checkConflicts(result, analysis.Conflicts(s), e.Conflicts)
	}

	if e.Valid != nil {
		v := analysis.Validate(s)
		if v.Valid != *e.Valid {
			result.AddError(fmt.Sprintf("valid: expected %t, got %t", *e.Valid, v.Valid))
		}
	}

	if e.Metrics != nil {
		checkMetrics(result, metrics.Aggregate(s), e.Metrics)
	}
}

func checkConflicts(result *Result, got []analysis.Conflict, want []ConflictExpect) {
	if len(got) != len(want) {
		result.AddError(fmt.Sprintf("conflicts: expected %d, got %d", len(want), len(got)))
		return
	}
	for i := range want {
		g, w := got[i], want[i]
		if g.TimeMs != w.TimeMs || string(g.Severity) != w.Severity || g.Count != w.Count {
			result.AddError(fmt.Sprintf("conflicts[%d]: expected %d connectors at %dms (%s), got %d at %dms (%s)",
				i, w.Count, w.TimeMs, w.Severity, g.Count, g.TimeMs, g.Severity))
		}
	}
}

func checkMetrics(result *Result, got metrics.Metrics, want *MetricsExpect) {
	var mismatches []string
	if want.TotalBlastDurationMs != nil && got.TotalBlastDurationMs != *want.TotalBlastDurationMs {
		mismatches = append(mismatches, fmt.Sprintf("total_blast_duration_ms %d != %d", got.TotalBlastDurationMs, *want.TotalBlastDurationMs))
	}
	if want.TotalHoles != nil && got.TotalHoles != *want.TotalHoles {
		mismatches = append(mismatches, fmt.Sprintf("total_holes %d != %d", got.TotalHoles, *want.TotalHoles))
	}
	if want.TotalConnections != nil && got.TotalConnections != *want.TotalConnections {
		mismatches = append(mismatches, fmt.Sprintf("total_connections %d != %d", got.TotalConnections, *want.TotalConnections))
	}
	if want.AverageDelayMs != nil && got.AverageDelayMs != *want.AverageDelayMs {
		mismatches = append(mismatches, fmt.Sprintf("average_delay_ms %g != %g", got.AverageDelayMs, *want.AverageDelayMs))
	}
	if want.WaveCount != nil && got.WaveCount != *want.WaveCount {
		mismatches = append(mismatches, fmt.Sprintf("wave_count %d != %d", got.WaveCount, *want.WaveCount))
	}
	if want.MaxSimultaneousDetonations != nil && got.MaxSimultaneousDetonations != *want.MaxSimultaneousDetonations {
		mismatches = append(mismatches, fmt.Sprintf("max_simultaneous_detonations %d != %d", got.MaxSimultaneousDetonations, *want.MaxSimultaneousDetonations))
	}
	if len(mismatches) > 0 {
		result.AddError("metrics: " + strings.Join(mismatches, "; "))
	}
}

func holeIDs(n *network.Network, hs []network.HoleHandle) []string {
	ids := make([]string, len(hs))
	for i, h := range hs {
		ids[i] = n.HoleID(h)
	}
	return ids
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
