// Package harness provides conformance testing for blast networks.
//
// The harness loads a scenario, computes the schedule for its network, and
// checks the schedule, analysis, metrics and event timeline against the
// scenario's expectations.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: scenario_name
//	description: "What this scenario validates"
//	network:
//	  holes:
//	    - { id: A, x: 0, y: 0 }
//	  connectors:
//	    - { id: ab, source_hole_id: A, target_hole_id: B, delay_ms: 100, is_root: true }
//	expect:
//	  root_rule: flagged
//	  roots: [A]
//	  activations: { A: 0, B: 600, D: null }
//	  windows: { ab: { start_ms: 0, end_ms: 100 } }
//	  diagnostics: [UNREACHABLE_HOLES]
//	assertions:
//	  - type: event_order
//	    event: hole_detonate
//	    subjects: [A, B]
//	  - type: state_at
//	    at_ms: 650
//	    hole: B
//	    state: DETONATING
//
// A scenario whose network must fail to build sets expect_error to the
// InvalidGraphError code (or INVALID_GRAPH for any code) and omits expect.
//
// # Assertion Types
//
//   - event_contains: an event of the given type and subject exists, at at_ms if set
//   - event_order: subjects first appear in the given order among events of a type
//   - event_count: exactly count events of the given type
//   - state_at: a hole or connector is in the given state at at_ms
//
// # Golden Timelines
//
// RunWithGolden writes the canonical event timeline to
// testdata/golden/{name}.golden. Regenerate with:
//
//	go test ./internal/harness -update
package harness
