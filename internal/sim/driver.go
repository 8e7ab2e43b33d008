package sim

import (
	"context"
	"errors"
	"log/slog"
	"math"

	"github.com/roach88/blastseq/internal/schedule"
)

// DriverOption configures a Driver.
type DriverOption func(*Driver)

// WithPlaybackSpeed sets the initial speed multiplier applied to elapsed
// time. Non-positive values are ignored.
func WithPlaybackSpeed(x float64) DriverOption {
	return func(d *Driver) {
		if x > 0 && !math.IsInf(x, 0) {
			d.speed = x
		}
	}
}

// WithMaxFrames sets the per-session frame quota.
//
// Default: DefaultMaxFrames.
func WithMaxFrames(n int) DriverOption {
	return func(d *Driver) {
		if n > 0 {
			d.maxFrames = n
		}
	}
}

// WithLogger sets the logger for session lifecycle messages.
func WithLogger(l *slog.Logger) DriverOption {
	return func(d *Driver) {
		if l != nil {
			d.logger = l
		}
	}
}

// Driver plays back one schedule. It is driven entirely by the caller and
// is not safe for concurrent use.
type Driver struct {
	sched  *schedule.Schedule
	events []Event

	speed     float64
	maxFrames int
	logger    *slog.Logger

	session *Session
}

// NewDriver creates a driver with a fresh session. The event timeline is
// generated once here.
func NewDriver(s *schedule.Schedule, opts ...DriverOption) *Driver {
	d := &Driver{
		sched:     s,
		speed:     1,
		maxFrames: DefaultMaxFrames,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.events = GenerateEvents(s)
	d.session = newSession(s, d.speed, d.maxFrames)
	return d
}

// Schedule returns the schedule being played.
func (d *Driver) Schedule() *schedule.Schedule { return d.sched }

// Events returns the eagerly generated timeline, or nil after Stop.
func (d *Driver) Events() []Event {
	return append([]Event(nil), d.events...)
}

// Session returns the current session, or nil after Stop.
func (d *Driver) Session() *Session { return d.session }

// Status returns the current session's status.
func (d *Driver) Status() Status {
	if d.session == nil {
		return StatusStopped
	}
	return d.session.status
}

// Tick advances the clock by elapsedMs times the playback speed and returns
// the frame at the new time. A paused session returns the frame at the
// current time without advancing.
//
// The frame produced when the clock reaches the horizon is terminal; every
// later Tick returns ErrHalted. An empty schedule halts on its first frame.
func (d *Driver) Tick(elapsedMs float64) (Frame, error) {
	ss := d.session
	if ss == nil {
		return Frame{}, ErrStopped
	}
	if ss.status == StatusHalted {
		return Frame{}, ErrHalted
	}
	if err := ss.quota.Check(); err != nil {
		ss.status = StatusHalted
		d.logger.Error("frame quota exceeded",
			"frames", ss.quota.Current(),
			"limit", d.maxFrames)
		return Frame{}, err
	}

	if ss.status != StatusPaused {
		ss.status = StatusRunning
		if !math.IsNaN(elapsedMs) {
			ss.clock.Advance(elapsedMs * ss.speed)
		}
	}

	terminal := ss.status != StatusPaused && ss.clock.AtHorizon()
	f := buildFrame(d.sched, ss.clock.Now(), terminal)
	if terminal {
		ss.status = StatusHalted
		d.logger.Debug("session halted",
			"time_ms", ss.clock.Now(),
			"frames", ss.quota.Current())
	}
	return f, nil
}

// Stop halts tick processing and discards the session and its timeline.
// Tick returns ErrStopped until Reset.
func (d *Driver) Stop() {
	d.session = nil
	d.events = nil
	d.logger.Debug("session stopped")
}

// Reset discards the session and starts a fresh one from the same schedule
// at time 0, keeping the current playback speed. A timeline discarded by
// Stop is generated again.
func (d *Driver) Reset() {
	if d.events == nil {
		d.events = GenerateEvents(d.sched)
	}
	d.session = newSession(d.sched, d.speed, d.maxFrames)
	d.logger.Debug("session reset", "horizon_ms", d.session.HorizonMs())
}

// Pause freezes the clock. Ticks keep returning frames at the paused time.
func (d *Driver) Pause() error {
	switch d.Status() {
	case StatusStopped:
		return ErrStopped
	case StatusHalted:
		return ErrHalted
	}
	d.session.status = StatusPaused
	return nil
}

// Resume undoes Pause. It is a no-op for a session that is not paused.
func (d *Driver) Resume() error {
	switch d.Status() {
	case StatusStopped:
		return ErrStopped
	case StatusPaused:
		d.session.status = StatusRunning
	}
	return nil
}

// Seek moves the clock to ms, clamped to [0, horizon], and returns the frame
// there. Seeking a halted session back before the horizon lets it play again.
func (d *Driver) Seek(ms float64) (Frame, error) {
	ss := d.session
	if ss == nil {
		return Frame{}, ErrStopped
	}
	if math.IsNaN(ms) {
		ms = 0
	}
	ss.clock.Seek(ms)
	if ss.status == StatusHalted && !ss.clock.AtHorizon() {
		ss.status = StatusRunning
	}
	return buildFrame(d.sched, ss.clock.Now(), false), nil
}

// SetPlaybackSpeed changes the speed multiplier for the current session and
// any session created by a later Reset.
func (d *Driver) SetPlaybackSpeed(x float64) error {
	if !(x > 0) || math.IsInf(x, 0) {
		return ErrInvalidSpeed
	}
	d.speed = x
	if d.session != nil {
		d.session.speed = x
	}
	return nil
}

// Run ticks the driver with a fixed step until the terminal frame, calling fn
// for every frame. It returns nil once the session halts, ctx.Err() when the
// context is cancelled between ticks, or the first error from Tick or fn.
func (d *Driver) Run(ctx context.Context, stepMs float64, fn func(Frame) error) error {
	if !(stepMs > 0) {
		return ErrInvalidStep
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		f, err := d.Tick(stepMs)
		if errors.Is(err, ErrHalted) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := fn(f); err != nil {
			return err
		}
		if f.Terminal() {
			return nil
		}
	}
}

// Collect runs the driver to completion and returns every frame.
func (d *Driver) Collect(ctx context.Context, stepMs float64) ([]Frame, error) {
	var frames []Frame
	err := d.Run(ctx, stepMs, func(f Frame) error {
		frames = append(frames, f)
		return nil
	})
	return frames, err
}
