package harness

import "github.com/roach88/blastseq/internal/sim"

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true when every expectation and assertion held.
	Pass bool `json:"pass"`

	// Events is the scenario's timeline in order. Empty when the network
	// failed to build.
	Events []sim.EventRecord `json:"events"`

	// Errors contains validation error messages. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	ScheduleFingerprint string `json:"schedule_fingerprint,omitempty"`
	TimelineFingerprint string `json:"timeline_fingerprint,omitempty"`

	timeline []sim.Event
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Events: []sim.EventRecord{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// Timeline returns the typed events behind Events.
func (r *Result) Timeline() []sim.Event {
	return r.timeline
}
