package sim

import "github.com/roach88/blastseq/internal/schedule"

// Status is the lifecycle state of a Session.
type Status int

const (
	// StatusReady means no frame has been produced yet.
	StatusReady Status = iota
	StatusRunning
	StatusPaused
	// StatusHalted means the terminal frame has been produced.
	StatusHalted
	// StatusStopped means the driver discarded its session.
	StatusStopped
)

func (s Status) String() string {
	switch s {
	case StatusRunning:
		return "running"
	case StatusPaused:
		return "paused"
	case StatusHalted:
		return "halted"
	case StatusStopped:
		return "stopped"
	default:
		return "ready"
	}
}

// Session owns every piece of mutable state for one playback run. It is
// never reused: resetting a Driver replaces its Session.
type Session struct {
	sched  *schedule.Schedule
	clock  *Clock
	speed  float64
	status Status
	quota  *frameQuota
}

func newSession(s *schedule.Schedule, speed float64, maxFrames int) *Session {
	return &Session{
		sched: s,
		clock: NewClock(s.HorizonMs()),
		speed: speed,
		quota: newFrameQuota(maxFrames),
	}
}

// Status returns the session's lifecycle state.
func (ss *Session) Status() Status { return ss.status }

// TimeMs returns the current simulated time.
func (ss *Session) TimeMs() float64 { return ss.clock.Now() }

// HorizonMs returns the time at which the session halts.
func (ss *Session) HorizonMs() float64 { return ss.clock.Horizon() }

// Speed returns the playback speed multiplier.
func (ss *Session) Speed() float64 { return ss.speed }

// Frames returns how many frames the session has produced.
func (ss *Session) Frames() int { return ss.quota.Current() }
