package sim

import "github.com/roach88/blastseq/internal/schedule"

// ActivationWindowMs is how long a hole stays DETONATING before it is BLASTED.
const ActivationWindowMs = 100

// ExplosionDurationMs is the lifetime of the explosion effect started when a
// hole detonates.
const ExplosionDurationMs = 1000

// HoleState is the animation state of a hole.
type HoleState int

const (
	HoleReady HoleState = iota
	HoleDetonating
	HoleBlasted
)

func (s HoleState) String() string {
	switch s {
	case HoleDetonating:
		return "DETONATING"
	case HoleBlasted:
		return "BLASTED"
	default:
		return "READY"
	}
}

// ConnectorState is the animation state of a connector.
type ConnectorState int

const (
	ConnectorInactive ConnectorState = iota
	ConnectorPropagating
	ConnectorTransmitted
)

func (s ConnectorState) String() string {
	switch s {
	case ConnectorPropagating:
		return "PROPAGATING"
	case ConnectorTransmitted:
		return "TRANSMITTED"
	default:
		return "INACTIVE"
	}
}

// holeStateAt derives a hole's state at time t. Unreached holes stay READY.
func holeStateAt(activationMs int64, reached bool, t float64) HoleState {
	switch {
	case !reached || t < float64(activationMs):
		return HoleReady
	case t < float64(activationMs+ActivationWindowMs):
		return HoleDetonating
	default:
		return HoleBlasted
	}
}

// connectorStateAt derives a connector's state at time t. Connectors without
// a window stay INACTIVE.
func connectorStateAt(w schedule.Window, windowed bool, t float64) ConnectorState {
	switch {
	case !windowed || t < float64(w.StartMs):
		return ConnectorInactive
	case t < float64(w.EndMs):
		return ConnectorPropagating
	default:
		return ConnectorTransmitted
	}
}

// EffectKind names a visual effect.
type EffectKind string

// EffectExplosion is started at every detonation.
const EffectExplosion EffectKind = "explosion"

// Effect is a timed visual effect. It is active while
// StartMs <= t < StartMs+DurationMs.
type Effect struct {
	Kind       EffectKind `json:"kind"`
	HoleID     string     `json:"hole_id"`
	StartMs    int64      `json:"start_ms"`
	DurationMs int64      `json:"duration_ms"`
}

// ActiveAt reports whether the effect is visible at time t.
func (e Effect) ActiveAt(t float64) bool {
	return t >= float64(e.StartMs) && t < float64(e.StartMs+e.DurationMs)
}
