package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/blastseq/internal/network"
	"github.com/roach88/blastseq/internal/schedule"
)

// Scenario defines a conformance test scenario: a network and what its
// schedule and timeline must look like.
type Scenario struct {
	// Name uniquely identifies this scenario. It also names the golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Network is the input network.
	Network network.Definition `yaml:"network"`

	// DropDangling removes connectors with unknown endpoints before building
	// instead of failing.
	DropDangling bool `yaml:"drop_dangling,omitempty"`

	// ExpectError is the InvalidGraphError code the build must fail with.
	// INVALID_GRAPH matches any code.
	ExpectError string `yaml:"expect_error,omitempty"`

	// Expect holds schedule-level expectations.
	Expect *Expectations `yaml:"expect,omitempty"`

	// Assertions validate the event timeline and animation states.
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// Expectations lists what the computed schedule must contain. Every field is
// optional; only the fields present are checked.
type Expectations struct {
	RootRule string   `yaml:"root_rule,omitempty"`
	Roots    []string `yaml:"roots,omitempty"`

	// Activations maps hole id to activation ms. A null value means the
	// hole must stay unreached.
	Activations map[string]*int64 `yaml:"activations,omitempty"`

	// Windows maps connector id to its window. A null value means the
	// connector must never carry a signal.
	Windows map[string]*WindowExpect `yaml:"windows,omitempty"`

	// Diagnostics are the expected diagnostic codes, in order. An empty
	// list asserts there are none.
	Diagnostics []string `yaml:"diagnostics"`

	Unreachable []string `yaml:"unreachable,omitempty"`

	MaxTimeMs *int64 `yaml:"max_time_ms,omitempty"`
	HorizonMs *int64 `yaml:"horizon_ms,omitempty"`

	Waves     *int             `yaml:"waves,omitempty"`
	Conflicts []ConflictExpect `yaml:"conflicts,omitempty"`
	Valid     *bool            `yaml:"valid,omitempty"`
	Metrics   *MetricsExpect   `yaml:"metrics,omitempty"`
}

// WindowExpect is an expected connector window.
type WindowExpect struct {
	StartMs int64 `yaml:"start_ms"`
	EndMs   int64 `yaml:"end_ms"`
}

// ConflictExpect is an expected simultaneous-arrival conflict.
type ConflictExpect struct {
	TimeMs   int64  `yaml:"time_ms"`
	Severity string `yaml:"severity"`
	Count    int    `yaml:"count"`
}

// MetricsExpect lists expected aggregate metrics.
type MetricsExpect struct {
	TotalBlastDurationMs       *int64   `yaml:"total_blast_duration_ms,omitempty"`
	TotalHoles                 *int     `yaml:"total_holes,omitempty"`
	TotalConnections           *int     `yaml:"total_connections,omitempty"`
	AverageDelayMs             *float64 `yaml:"average_delay_ms,omitempty"`
	WaveCount                  *int     `yaml:"wave_count,omitempty"`
	MaxSimultaneousDetonations *int     `yaml:"max_simultaneous_detonations,omitempty"`
}

// Assertion validates the event timeline or an animation state.
type Assertion struct {
	// Type specifies the assertion type:
	// - "event_contains": event of Event type with Subject exists (at AtMs if set)
	// - "event_order": Subjects first appear in order among Event events
	// - "event_count": exactly Count events of Event type
	// - "state_at": Hole or Connector is in State at AtMs
	Type string `yaml:"type"`

	// Event is the event type name, e.g. "hole_detonate".
	Event string `yaml:"event,omitempty"`

	// Subject is the hole or connector id an event is about.
	Subject string `yaml:"subject,omitempty"`

	Subjects []string `yaml:"subjects,omitempty"`

	Count int `yaml:"count,omitempty"`

	AtMs *float64 `yaml:"at_ms,omitempty"`

	Hole      string `yaml:"hole,omitempty"`
	Connector string `yaml:"connector,omitempty"`
	State     string `yaml:"state,omitempty"`
}

// Assertion type constants.
const (
	AssertEventContains = "event_contains"
	AssertEventOrder    = "event_order"
	AssertEventCount    = "event_count"
	AssertStateAt       = "state_at"
)

var eventTypes = map[string]bool{
	"signal_arrive": true,
	"hole_detonate": true,
	"effect_start":  true,
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	// Reject unknown fields so that typos like "assertion:" fail loudly.
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if s.ExpectError != "" {
		if s.Expect != nil || len(s.Assertions) > 0 {
			return fmt.Errorf("expect_error cannot be combined with expect or assertions")
		}
		return nil
	}

	if s.Expect == nil && len(s.Assertions) == 0 {
		return fmt.Errorf("expect or assertions is required")
	}

	if s.Expect != nil && s.Expect.RootRule != "" {
		switch s.Expect.RootRule {
		case schedule.RootRuleNone.String(), schedule.RootRuleFlagged.String(),
			schedule.RootRuleNoIncoming.String(), schedule.RootRuleFirstConnector.String():
		default:
			return fmt.Errorf("expect.root_rule: unknown rule %q", s.Expect.RootRule)
		}
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}

	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertEventContains:
		if !eventTypes[a.Event] {
			return fmt.Errorf("assertions[%d]: unknown event type %q", index, a.Event)
		}
		if a.Subject == "" {
			return fmt.Errorf("assertions[%d]: subject is required for event_contains", index)
		}
	case AssertEventOrder:
		if a.Event != "" && !eventTypes[a.Event] {
			return fmt.Errorf("assertions[%d]: unknown event type %q", index, a.Event)
		}
		if len(a.Subjects) == 0 {
			return fmt.Errorf("assertions[%d]: subjects list is required for event_order", index)
		}
	case AssertEventCount:
		if !eventTypes[a.Event] {
			return fmt.Errorf("assertions[%d]: unknown event type %q", index, a.Event)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for event_count", index)
		}
	case AssertStateAt:
		if a.AtMs == nil {
			return fmt.Errorf("assertions[%d]: at_ms is required for state_at", index)
		}
		if (a.Hole == "") == (a.Connector == "") {
			return fmt.Errorf("assertions[%d]: exactly one of hole or connector is required for state_at", index)
		}
		if a.State == "" {
			return fmt.Errorf("assertions[%d]: state is required for state_at", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
