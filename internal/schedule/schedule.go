package schedule

import (
	"log/slog"

	"github.com/roach88/blastseq/internal/canonical"
	"github.com/roach88/blastseq/internal/network"
)

// RearmGapMs is the settling time between a signal arriving at a hole and that
// hole activating. It is fixed for every connector.
const RearmGapMs int64 = 500

// TrailingBufferMs is added to the last scheduled time to form the horizon,
// leaving room for the final detonation to play out.
const TrailingBufferMs int64 = 500

// RootRule records which root-selection rule produced the root set.
type RootRule int

const (
	// RootRuleNone means the network has no connectors and no roots.
	RootRuleNone RootRule = iota
	// RootRuleFlagged means roots came from connectors flagged is_root.
	RootRuleFlagged
	// RootRuleNoIncoming means roots are sources with no incoming connector.
	RootRuleNoIncoming
	// RootRuleFirstConnector is the degenerate fallback.
	RootRuleFirstConnector
)

func (r RootRule) String() string {
	switch r {
	case RootRuleFlagged:
		return "flagged"
	case RootRuleNoIncoming:
		return "no_incoming"
	case RootRuleFirstConnector:
		return "first_connector"
	default:
		return "none"
	}
}

// Window is the signal window of a connector: the signal leaves the source at
// StartMs and arrives at the target at EndMs.
type Window struct {
	StartMs int64 `json:"start_ms"`
	EndMs   int64 `json:"end_ms"`
}

// Schedule is the result of propagation over one Network.
//
// INVARIANTS:
//   - every root has activation 0
//   - for a reached non-root hole h, Activation(h) == Window(Cause(h)).EndMs + RearmGapMs
//   - StartMs <= EndMs for every window
type Schedule struct {
	net *network.Network

	activation []int64
	reached    []bool
	cause      []network.ConnectorHandle

	windows  []Window
	windowed []bool

	roots       []network.HoleHandle
	rule        RootRule
	unreachable []network.HoleHandle
	diagnostics []Diagnostic
}

// CalculatorOption configures a Calculator.
type CalculatorOption func(*Calculator)

// WithLogger sets the logger used for diagnostics.
func WithLogger(l *slog.Logger) CalculatorOption {
	return func(c *Calculator) {
		if l != nil {
			c.logger = l
		}
	}
}

// Calculator computes schedules. The zero value is not usable; use
// NewCalculator.
type Calculator struct {
	logger *slog.Logger
}

// NewCalculator creates a Calculator.
func NewCalculator(opts ...CalculatorOption) *Calculator {
	c := &Calculator{logger: slog.Default()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compute runs propagation with a default Calculator.
func Compute(n *network.Network) *Schedule {
	return NewCalculator().Compute(n)
}

// Compute selects roots, propagates activation times and collects
// diagnostics. It never fails: structural errors are rejected by
// network.Build before a Network exists.
func (calc *Calculator) Compute(n *network.Network) *Schedule {
	s := &Schedule{
		net:        n,
		activation: make([]int64, n.HoleCount()),
		reached:    make([]bool, n.HoleCount()),
		cause:      make([]network.ConnectorHandle, n.HoleCount()),
		windows:    make([]Window, n.ConnectorCount()),
		windowed:   make([]bool, n.ConnectorCount()),
	}
	for i := range s.cause {
		s.cause[i] = network.NoConnector
	}
	if n.IsEmpty() {
		return s
	}

	s.roots, s.rule = selectRoots(n)
	if s.rule == RootRuleFirstConnector {
		d := degenerateRootDiagnostic(n.HoleID(s.roots[0]), n.ConnectorID(0))
		s.diagnostics = append(s.diagnostics, d)
		calc.logger.Warn("degenerate root selection",
			"root", n.HoleID(s.roots[0]),
			"connector", n.ConnectorID(0))
	}

	s.propagate()

	for _, h := range n.ReferencedHoles() {
		if !s.reached[h] {
			s.unreachable = append(s.unreachable, h)
		}
	}
	if len(s.unreachable) > 0 {
		ids := make([]string, len(s.unreachable))
		for i, h := range s.unreachable {
			ids[i] = n.HoleID(h)
		}
		s.diagnostics = append(s.diagnostics, unreachableDiagnostic(ids))
		calc.logger.Warn("unreachable holes", "count", len(ids), "holes", ids)
	}

	calc.logger.Debug("schedule computed",
		"holes", n.HoleCount(),
		"connectors", n.ConnectorCount(),
		"roots", len(s.roots),
		"root_rule", s.rule.String(),
		"max_time_ms", s.MaxTimeMs())

	return s
}

// selectRoots applies the three root rules in order. Roots are returned in
// order of first appearance as a connector source.
func selectRoots(n *network.Network) ([]network.HoleHandle, RootRule) {
	var roots []network.HoleHandle
	seen := make(map[network.HoleHandle]bool)
	add := func(h network.HoleHandle) {
		if !seen[h] {
			seen[h] = true
			roots = append(roots, h)
		}
	}

	for c := 0; c < n.ConnectorCount(); c++ {
		if conn := n.Connector(network.ConnectorHandle(c)); conn.IsRoot {
			add(conn.Source)
		}
	}
	if len(roots) > 0 {
		return roots, RootRuleFlagged
	}

	for c := 0; c < n.ConnectorCount(); c++ {
		conn := n.Connector(network.ConnectorHandle(c))
		if len(n.Incoming(conn.Source)) == 0 {
			add(conn.Source)
		}
	}
	if len(roots) > 0 {
		return roots, RootRuleNoIncoming
	}

	return []network.HoleHandle{n.Connector(0).Source}, RootRuleFirstConnector
}

// propagate is the first-arrival relaxation. Each hole is processed with its
// current activation; queue entries made stale by a later decrease are
// skipped, since the decrease enqueued a fresh entry.
func (s *Schedule) propagate() {
	n := s.net
	q := newHoleQueue(n.HoleCount())

	for _, r := range s.roots {
		s.activation[r] = 0
		s.reached[r] = true
		q.Enqueue(r, 0)
	}

	for {
		e, ok := q.TryDequeue()
		if !ok {
			break
		}
		if e.timeMs != s.activation[e.hole] {
			continue
		}

		start := s.activation[e.hole]
		for _, c := range n.Outgoing(e.hole) {
			conn := n.Connector(c)
			arrival := start + conn.DelayMs
			s.windows[c] = Window{StartMs: start, EndMs: arrival}
			s.windowed[c] = true

			candidate := arrival + RearmGapMs
			if !s.reached[conn.Target] || candidate < s.activation[conn.Target] {
				s.activation[conn.Target] = candidate
				s.reached[conn.Target] = true
				s.cause[conn.Target] = c
				q.Enqueue(conn.Target, candidate)
			}
		}
	}
}

// Network returns the network the schedule was computed from.
func (s *Schedule) Network() *network.Network { return s.net }

// Activation returns the activation time of h and whether h was reached.
func (s *Schedule) Activation(h network.HoleHandle) (int64, bool) {
	return s.activation[h], s.reached[h]
}

// Window returns the signal window of c and whether its source was reached.
func (s *Schedule) Window(c network.ConnectorHandle) (Window, bool) {
	return s.windows[c], s.windowed[c]
}

// Cause returns the connector that produced h's activation time, or
// network.NoConnector for roots and unreached holes.
func (s *Schedule) Cause(h network.HoleHandle) network.ConnectorHandle {
	return s.cause[h]
}

// IsRoot reports whether h is in the root set.
func (s *Schedule) IsRoot(h network.HoleHandle) bool {
	for _, r := range s.roots {
		if r == h {
			return true
		}
	}
	return false
}

// Roots returns the root set in selection order.
func (s *Schedule) Roots() []network.HoleHandle { return s.roots }

// RootRule returns the rule that produced the root set.
func (s *Schedule) RootRule() RootRule { return s.rule }

// Unreachable returns referenced holes that propagation never reached.
func (s *Schedule) Unreachable() []network.HoleHandle { return s.unreachable }

// Diagnostics returns the non-fatal findings, degenerate root selection first.
func (s *Schedule) Diagnostics() []Diagnostic { return s.diagnostics }

// HasDiagnostic reports whether a diagnostic with the given code was emitted.
func (s *Schedule) HasDiagnostic(code DiagnosticCode) bool {
	for _, d := range s.diagnostics {
		if d.Code == code {
			return true
		}
	}
	return false
}

// IsEmpty reports whether the schedule has no connectors.
func (s *Schedule) IsEmpty() bool { return s.net.IsEmpty() }

// MaxActivationMs returns the latest hole activation, or 0 if none.
func (s *Schedule) MaxActivationMs() int64 {
	var latest int64
	for h, ok := range s.reached {
		if ok && s.activation[h] > latest {
			latest = s.activation[h]
		}
	}
	return latest
}

// MaxTimeMs returns the latest activation or connector arrival, or 0 if none.
func (s *Schedule) MaxTimeMs() int64 {
	latest := s.MaxActivationMs()
	for c, ok := range s.windowed {
		if ok && s.windows[c].EndMs > latest {
			latest = s.windows[c].EndMs
		}
	}
	return latest
}

// HorizonMs returns the simulated time at which playback ends:
// MaxTimeMs plus TrailingBufferMs, or 0 for an empty schedule.
func (s *Schedule) HorizonMs() int64 {
	if s.IsEmpty() {
		return 0
	}
	return s.MaxTimeMs() + TrailingBufferMs
}

// Fingerprint returns a content hash of roots, activations and windows.
// Two Compute calls over the same Network return the same fingerprint.
func (s *Schedule) Fingerprint() string {
	n := s.net
	roots := make([]string, len(s.roots))
	for i, r := range s.roots {
		roots[i] = n.HoleID(r)
	}
	activations := make(map[string]any)
	for h, ok := range s.reached {
		if ok {
			activations[n.HoleID(network.HoleHandle(h))] = s.activation[h]
		}
	}
	windows := make(map[string]any)
	for c, ok := range s.windowed {
		if ok {
			w := s.windows[c]
			windows[n.ConnectorID(network.ConnectorHandle(c))] = []int64{w.StartMs, w.EndMs}
		}
	}
	return canonical.MustFingerprint(canonical.DomainSchedule, map[string]any{
		"network":     n.Fingerprint(),
		"root_rule":   s.rule.String(),
		"roots":       roots,
		"activations": activations,
		"windows":     windows,
	})
}
