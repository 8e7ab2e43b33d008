package sim

import (
	"encoding/json"
	"math"

	"github.com/roach88/blastseq/internal/canonical"
	"github.com/roach88/blastseq/internal/network"
	"github.com/roach88/blastseq/internal/schedule"
)

// Frame is an immutable snapshot of every hole and connector at one
// simulated time. Accessors return copies.
type Frame struct {
	net        *network.Network
	timeMs     float64
	holes      []HoleState
	connectors []ConnectorState
	effects    []Effect
	terminal   bool
}

// buildFrame derives the full state at time t from the schedule.
func buildFrame(s *schedule.Schedule, t float64, terminal bool) Frame {
	n := s.Network()
	f := Frame{
		net:        n,
		timeMs:     t,
		holes:      make([]HoleState, n.HoleCount()),
		connectors: make([]ConnectorState, n.ConnectorCount()),
		terminal:   terminal,
	}
	for h := range f.holes {
		at, ok := s.Activation(network.HoleHandle(h))
		f.holes[h] = holeStateAt(at, ok, t)
		if !ok {
			continue
		}
		e := Effect{Kind: EffectExplosion, HoleID: n.HoleID(network.HoleHandle(h)), StartMs: at, DurationMs: ExplosionDurationMs}
		if e.ActiveAt(t) {
			f.effects = append(f.effects, e)
		}
	}
	for c := range f.connectors {
		w, ok := s.Window(network.ConnectorHandle(c))
		f.connectors[c] = connectorStateAt(w, ok, t)
	}
	return f
}

// TimeMs returns the simulated time of the frame.
func (f Frame) TimeMs() float64 { return f.timeMs }

// Terminal reports whether this is the last frame of the session.
func (f Frame) Terminal() bool { return f.terminal }

// HoleState returns the state of h.
func (f Frame) HoleState(h network.HoleHandle) HoleState { return f.holes[h] }

// ConnectorState returns the state of c.
func (f Frame) ConnectorState(c network.ConnectorHandle) ConnectorState { return f.connectors[c] }

// HoleStateByID returns the state of the hole with the given id.
func (f Frame) HoleStateByID(id string) (HoleState, bool) {
	h, ok := f.net.LookupHole(id)
	if !ok {
		return HoleReady, false
	}
	return f.holes[h], true
}

// ConnectorStateByID returns the state of the connector with the given id.
func (f Frame) ConnectorStateByID(id string) (ConnectorState, bool) {
	c, ok := f.net.LookupConnector(id)
	if !ok {
		return ConnectorInactive, false
	}
	return f.connectors[c], true
}

// Effects returns the effects active at the frame's time, in hole order.
func (f Frame) Effects() []Effect {
	return append([]Effect(nil), f.effects...)
}

// CountHoles returns how many holes are in state st.
func (f Frame) CountHoles(st HoleState) int {
	var n int
	for _, s := range f.holes {
		if s == st {
			n++
		}
	}
	return n
}

// frameJSON is the wire form of a Frame with states keyed by external id.
type frameJSON struct {
	TimeMs     float64           `json:"time_ms"`
	Terminal   bool              `json:"terminal"`
	Holes      map[string]string `json:"holes"`
	Connectors map[string]string `json:"connectors"`
	Effects    []Effect          `json:"effects"`
}

// MarshalJSON implements json.Marshaler.
func (f Frame) MarshalJSON() ([]byte, error) {
	out := frameJSON{
		TimeMs:     f.timeMs,
		Terminal:   f.terminal,
		Holes:      make(map[string]string, len(f.holes)),
		Connectors: make(map[string]string, len(f.connectors)),
		Effects:    f.Effects(),
	}
	if out.Effects == nil {
		out.Effects = []Effect{}
	}
	for h, st := range f.holes {
		out.Holes[f.net.HoleID(network.HoleHandle(h))] = st.String()
	}
	for c, st := range f.connectors {
		out.Connectors[f.net.ConnectorID(network.ConnectorHandle(c))] = st.String()
	}
	return json.Marshal(out)
}

// Fingerprint returns a content hash of the frame. Time is encoded in whole
// microseconds.
func (f Frame) Fingerprint() string {
	holes := make(map[string]any, len(f.holes))
	for h, st := range f.holes {
		holes[f.net.HoleID(network.HoleHandle(h))] = st.String()
	}
	connectors := make(map[string]any, len(f.connectors))
	for c, st := range f.connectors {
		connectors[f.net.ConnectorID(network.ConnectorHandle(c))] = st.String()
	}
	effects := make([]any, len(f.effects))
	for i, e := range f.effects {
		effects[i] = map[string]any{
			"kind":        string(e.Kind),
			"hole_id":     e.HoleID,
			"start_ms":    e.StartMs,
			"duration_ms": e.DurationMs,
		}
	}
	return canonical.MustFingerprint(canonical.DomainFrame, map[string]any{
		"time_us":    int64(math.Round(f.timeMs * 1000)),
		"terminal":   f.terminal,
		"holes":      holes,
		"connectors": connectors,
		"effects":    effects,
	})
}
