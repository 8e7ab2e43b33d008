package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/blastseq/internal/network"
	"github.com/roach88/blastseq/internal/schedule"
	"github.com/roach88/blastseq/internal/testutil"
)

func TestWaves_Chain(t *testing.T) {
	s := schedule.Compute(testutil.ChainNetwork(t))

	waves := Waves(s)
	require.Len(t, waves, 2)
	assert.Equal(t, Wave{Number: 1, StartMs: 0, Count: 1, ConnectorIDs: []string{"ab"}}, waves[0])
	assert.Equal(t, Wave{Number: 2, StartMs: 600, Count: 1, ConnectorIDs: []string{"bc"}}, waves[1])
}

func TestWaves_DepthIsGraphDistance(t *testing.T) {
	// C is one hop from A. The later, faster path through B changes C's
	// activation time but not its distance, so cd is in wave 2.
	n := testutil.MustBuild(t, testutil.Holes("A", "B", "C", "D"), []network.ConnectorRecord{
		testutil.Connector("ac", "A", "C", 2000),
		testutil.Connector("ab", "A", "B", 100),
		testutil.Connector("bc", "B", "C", 100),
		testutil.Connector("cd", "C", "D", 0),
	})
	s := schedule.Compute(n)

	c, _ := n.LookupHole("C")
	at, _ := s.Activation(c)
	require.Equal(t, int64(1200), at)

	waves := Waves(s)
	require.Len(t, waves, 2)
	assert.Equal(t, []string{"ac", "ab"}, waves[0].ConnectorIDs)
	assert.Equal(t, int64(0), waves[0].StartMs)
	assert.Equal(t, []string{"bc", "cd"}, waves[1].ConnectorIDs)
	assert.Equal(t, int64(600), waves[1].StartMs)
	assert.Equal(t, 2, waves[1].Count)
	assert.Equal(t, []int{1, 1, 2, 2}, ConnectorDepths(s))
}

func TestWaves_DepthIgnoresDelays(t *testing.T) {
	// A zero-delay chain A->B->C and a slow direct A->C: C is one hop away.
	n := testutil.MustBuild(t, testutil.Holes("A", "B", "C", "D"), []network.ConnectorRecord{
		testutil.Connector("ab", "A", "B", 0),
		testutil.Connector("bc", "B", "C", 0),
		testutil.Connector("ac", "A", "C", 5000),
		testutil.Connector("cd", "C", "D", 10),
	})
	s := schedule.Compute(n)

	assert.Equal(t, []int{1, 2, 1, 2}, ConnectorDepths(s))
	assert.Len(t, Waves(s), 2)
}

func TestWaves_SkipsUnwindowed(t *testing.T) {
	n := testutil.MustBuild(t, testutil.Holes("A", "B", "C"), []network.ConnectorRecord{
		testutil.Connector("ab", "A", "B", 10),
		{ID: "bc", SourceHoleID: "B", TargetHoleID: "C", DelayMs: 10, IsRoot: true},
	})
	s := schedule.Compute(n)

	waves := Waves(s)
	require.Len(t, waves, 1)
	assert.Equal(t, []string{"bc"}, waves[0].ConnectorIDs)
	assert.Equal(t, []int{0, 1}, ConnectorDepths(s))
}

func TestWaves_Empty(t *testing.T) {
	assert.Empty(t, Waves(schedule.Compute(testutil.EmptyNetwork(t))))
}

func TestConflicts_Thresholds(t *testing.T) {
	tests := []struct {
		name     string
		k        int
		expected []Severity
	}{
		{name: "single", k: 1, expected: nil},
		{name: "pair", k: 2, expected: []Severity{SeverityMedium}},
		{name: "three", k: 3, expected: []Severity{SeverityMedium}},
		{name: "four", k: 4, expected: []Severity{SeverityHigh}},
		{name: "six", k: 6, expected: []Severity{SeverityHigh}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := schedule.Compute(testutil.FanOutNetwork(t, tt.k, 100))
			conflicts := Conflicts(s)

			var got []Severity
			for _, c := range conflicts {
				got = append(got, c.Severity)
				assert.Equal(t, int64(100), c.TimeMs)
				assert.Equal(t, tt.k, c.Count)
				assert.Len(t, c.ConnectorIDs, tt.k)
			}
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestConflicts_SortedAndDistinctTargets(t *testing.T) {
	n := testutil.MustBuild(t, testutil.Holes("R", "X", "Y"), []network.ConnectorRecord{
		testutil.Connector("late1", "R", "X", 300),
		testutil.Connector("late2", "R", "X", 300),
		testutil.Connector("early1", "R", "X", 100),
		testutil.Connector("early2", "R", "Y", 100),
	})
	conflicts := Conflicts(schedule.Compute(n))

	require.Len(t, conflicts, 2)
	assert.Equal(t, int64(100), conflicts[0].TimeMs)
	assert.Equal(t, []string{"early1", "early2"}, conflicts[0].ConnectorIDs)
	assert.Equal(t, []string{"X", "Y"}, conflicts[0].HoleIDs)

	assert.Equal(t, int64(300), conflicts[1].TimeMs)
	assert.Equal(t, []string{"X"}, conflicts[1].HoleIDs)
	assert.Equal(t, "2 connectors arrive simultaneously at 300ms", conflicts[1].Message())
}

func TestDetectCycles(t *testing.T) {
	cycles := DetectCycles(testutil.CycleNetwork(t))
	assert.Equal(t, []Cycle{{"A", "B"}}, cycles)

	assert.Empty(t, DetectCycles(testutil.ChainNetwork(t)))
}

func TestDetectCycles_SelfLoopAndTriangle(t *testing.T) {
	n := testutil.MustBuild(t, testutil.Holes("A", "B", "C", "S"), []network.ConnectorRecord{
		testutil.Connector("ab", "A", "B", 1),
		testutil.Connector("bc", "B", "C", 1),
		testutil.Connector("ca", "C", "A", 1),
		testutil.Connector("ss", "S", "S", 1),
	})

	assert.Equal(t, []Cycle{{"A", "B", "C"}, {"S"}}, DetectCycles(n))
}

func TestValidate_CleanChain(t *testing.T) {
	v := Validate(schedule.Compute(testutil.ChainNetwork(t)))

	assert.True(t, v.Valid)
	assert.Empty(t, v.Errors)
	assert.Empty(t, v.Warnings)
	assert.Empty(t, v.Suggestions)
}

func TestValidate_Cycle(t *testing.T) {
	v := Validate(schedule.Compute(testutil.CycleNetwork(t)))

	assert.True(t, v.Valid)
	require.Len(t, v.Warnings, 2)
	assert.Equal(t, FindingDegenerateRoot, v.Warnings[0].Type)
	assert.Equal(t, []string{"A"}, v.Warnings[0].HoleIDs)
	assert.Equal(t, FindingCycle, v.Warnings[1].Type)
	assert.Equal(t, "connectors form a cycle: A -> B -> A", v.Warnings[1].Message)
}

func TestValidate_UnreachableIsError(t *testing.T) {
	n := testutil.MustBuild(t, testutil.Holes("A", "B", "C"), []network.ConnectorRecord{
		testutil.Connector("ab", "A", "B", 10),
		{ID: "bc", SourceHoleID: "B", TargetHoleID: "C", DelayMs: 10, IsRoot: true},
	})
	v := Validate(schedule.Compute(n))

	assert.False(t, v.Valid)
	require.Len(t, v.Errors, 1)
	assert.Equal(t, FindingUnreachable, v.Errors[0].Type)
	assert.Equal(t, []string{"A"}, v.Errors[0].HoleIDs)
}

func TestValidate_OrphansAndConflicts(t *testing.T) {
	n := testutil.MustBuild(t, testutil.Holes("R", "X", "Y", "lonely"), []network.ConnectorRecord{
		testutil.Connector("rx", "R", "X", 100),
		testutil.Connector("ry", "R", "Y", 100),
	})
	v := Validate(schedule.Compute(n))

	assert.True(t, v.Valid)
	require.Len(t, v.Warnings, 2)
	assert.Equal(t, FindingTimingOverlap, v.Warnings[0].Type)
	assert.Equal(t, SeverityMedium, v.Warnings[0].Severity)
	assert.Equal(t, FindingConnectionMissing, v.Warnings[1].Type)
	assert.Equal(t, "1 holes are not connected to the blast sequence", v.Warnings[1].Message)
	assert.Equal(t, []string{"lonely"}, v.Warnings[1].HoleIDs)
}

func TestValidate_LongSequenceSuggestion(t *testing.T) {
	n := testutil.MustBuild(t, testutil.Holes("A", "B"), []network.ConnectorRecord{
		testutil.Connector("ab", "A", "B", 5000),
	})
	v := Validate(schedule.Compute(n))

	require.Len(t, v.Suggestions, 1)
	sg := v.Suggestions[0]
	assert.Equal(t, "reduce_total_time", sg.Type)
	assert.Equal(t, 45, sg.PotentialImprovement, "round((5500-3000)/5500*100)")
	assert.Equal(t, []string{"ab"}, sg.ConnectorIDs)
}

func TestValidate_Empty(t *testing.T) {
	v := Validate(schedule.Compute(testutil.EmptyNetwork(t)))

	assert.True(t, v.Valid)
	assert.Empty(t, v.Warnings)
	assert.NotNil(t, v.Warnings, "empty slices marshal as []")
}

func TestTimelineMarkers_Chain(t *testing.T) {
	markers := TimelineMarkers(schedule.Compute(testutil.ChainNetwork(t)))

	expected := []Marker{
		{TimeMs: 0, Type: MarkerSequenceStart, Label: "Blast Start"},
		{TimeMs: 0, Type: MarkerWave, Label: "Wave 1: Detonating Cord 100ms"},
		{TimeMs: 0, Type: MarkerHoleBlast, Label: "A Detonation"},
		{TimeMs: 600, Type: MarkerWave, Label: "Wave 2: Detonating Cord 200ms"},
		{TimeMs: 600, Type: MarkerHoleBlast, Label: "B Detonation"},
		{TimeMs: 1300, Type: MarkerHoleBlast, Label: "C Detonation"},
		{TimeMs: 1800, Type: MarkerSequenceEnd, Label: "Blast Complete"},
	}
	assert.Equal(t, expected, markers)
}

func TestTimelineMarkers_Empty(t *testing.T) {
	markers := TimelineMarkers(schedule.Compute(testutil.EmptyNetwork(t)))
	assert.Equal(t, []Marker{{TimeMs: 0, Type: MarkerSequenceStart, Label: "Blast Start"}}, markers)
}
