package harness

import (
	"fmt"
	"strings"

	"github.com/roach88/blastseq/internal/schedule"
	"github.com/roach88/blastseq/internal/sim"
)

// AssertionError is returned when an assertion fails.
// It includes the timeline to help debug the failure.
type AssertionError struct {
	Type     string      // Assertion type for categorization
	Expected string      // Human-readable expected outcome
	Actual   string      // Human-readable actual outcome
	Timeline []sim.Event // Full timeline for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Timeline) > 0 {
		fmt.Fprintf(&buf, "\nFull timeline:\n")
		for i, ev := range e.Timeline {
			fmt.Fprintf(&buf, "  [%d] %dms %s %s\n", i+1, ev.AtMs(), ev.Type(), ev.Subject())
		}
	}

	return buf.String()
}

// EvaluateAssertions runs every assertion and returns the failure messages.
func EvaluateAssertions(s *schedule.Schedule, timeline []sim.Event, assertions []Assertion) []string {
	var errs []string
	for i, a := range assertions {
		var err error
		switch a.Type {
		case AssertEventContains:
			err = assertEventContains(timeline, a)
		case AssertEventOrder:
			err = assertEventOrder(timeline, a)
		case AssertEventCount:
			err = assertEventCount(timeline, a)
		case AssertStateAt:
			err = assertStateAt(s, a)
		default:
			err = fmt.Errorf("unknown assertion type %q", a.Type)
		}
		if err != nil {
			errs = append(errs, fmt.Sprintf("assertions[%d]: %v", i, err))
		}
	}
	return errs
}

// assertEventContains checks that the timeline holds an event of the given
// type about the given subject, at the given time if one is set.
func assertEventContains(timeline []sim.Event, a Assertion) error {
	for _, ev := range timeline {
		if ev.Type().String() != a.Event || ev.Subject() != a.Subject {
			continue
		}
		if a.AtMs == nil || float64(ev.AtMs()) == *a.AtMs {
			return nil
		}
	}

	expected := fmt.Sprintf("%s for %s", a.Event, a.Subject)
	if a.AtMs != nil {
		expected += fmt.Sprintf(" at %gms", *a.AtMs)
	}
	return &AssertionError{
		Type:     AssertEventContains,
		Expected: expected,
		Actual:   "not found in timeline",
		Timeline: timeline,
	}
}

// assertEventOrder checks that subjects first appear in the given order.
// Intervening events are allowed.
func assertEventOrder(timeline []sim.Event, a Assertion) error {
	positions := make(map[string]int)
	for i, ev := range timeline {
		if a.Event != "" && ev.Type().String() != a.Event {
			continue
		}
		if _, seen := positions[ev.Subject()]; !seen {
			positions[ev.Subject()] = i + 1 // 1-indexed for readability
		}
	}

	for _, subject := range a.Subjects {
		if positions[subject] == 0 {
			return &AssertionError{
				Type:     AssertEventOrder,
				Expected: fmt.Sprintf("all subjects present: %v", a.Subjects),
				Actual:   fmt.Sprintf("missing subject: %s", subject),
				Timeline: timeline,
			}
		}
	}

	for i := 1; i < len(a.Subjects); i++ {
		prev, curr := a.Subjects[i-1], a.Subjects[i]
		if positions[prev] >= positions[curr] {
			return &AssertionError{
				Type:     AssertEventOrder,
				Expected: fmt.Sprintf("subjects in order: %v", a.Subjects),
				Actual: fmt.Sprintf("%s (pos %d) should be before %s (pos %d)",
					prev, positions[prev], curr, positions[curr]),
				Timeline: timeline,
			}
		}
	}

	return nil
}

// assertEventCount checks the number of events of one type.
func assertEventCount(timeline []sim.Event, a Assertion) error {
	count := 0
	for _, ev := range timeline {
		if ev.Type().String() == a.Event {
			count++
		}
	}

	if count != a.Count {
		return &AssertionError{
			Type:     AssertEventCount,
			Expected: fmt.Sprintf("%d %s events", a.Count, a.Event),
			Actual:   fmt.Sprintf("%d events", count),
			Timeline: timeline,
		}
	}
	return nil
}

// assertStateAt seeks a fresh driver to at_ms and checks one state.
func assertStateAt(s *schedule.Schedule, a Assertion) error {
	d := sim.NewDriver(s, sim.WithLogger(discardLogger()))
	f, err := d.Seek(*a.AtMs)
	if err != nil {
		return err
	}

	var (
		subject string
		actual  string
		found   bool
	)
	if a.Hole != "" {
		subject = a.Hole
		var st sim.HoleState
		st, found = f.HoleStateByID(a.Hole)
		actual = st.String()
	} else {
		subject = a.Connector
		var st sim.ConnectorState
		st, found = f.ConnectorStateByID(a.Connector)
		actual = st.String()
	}
	if !found {
		return fmt.Errorf("state_at: unknown id %q", subject)
	}

	if actual != a.State {
		return &AssertionError{
			Type:     AssertStateAt,
			Expected: fmt.Sprintf("%s %s at %gms", subject, a.State, f.TimeMs()),
			Actual:   actual,
		}
	}
	return nil
}
