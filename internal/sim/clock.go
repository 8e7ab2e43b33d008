package sim

// Clock is the simulated time of one session, in milliseconds.
//
// The clock never moves outside [0, horizon]. It is owned by a single
// Session and is not safe for concurrent use.
type Clock struct {
	nowMs     float64
	horizonMs float64
}

// NewClock creates a clock at 0 that stops at horizonMs.
func NewClock(horizonMs int64) *Clock {
	return &Clock{horizonMs: float64(horizonMs)}
}

// Advance moves the clock forward by deltaMs, stopping at the horizon, and
// returns the new time. Negative deltas are ignored.
func (c *Clock) Advance(deltaMs float64) float64 {
	if deltaMs > 0 {
		c.nowMs += deltaMs
	}
	if c.nowMs > c.horizonMs {
		c.nowMs = c.horizonMs
	}
	return c.nowMs
}

// Seek sets the clock to ms clamped to [0, horizon] and returns the new time.
func (c *Clock) Seek(ms float64) float64 {
	switch {
	case ms < 0:
		c.nowMs = 0
	case ms > c.horizonMs:
		c.nowMs = c.horizonMs
	default:
		c.nowMs = ms
	}
	return c.nowMs
}

// Now returns the current simulated time.
func (c *Clock) Now() float64 {
	return c.nowMs
}

// Horizon returns the time at which the clock stops.
func (c *Clock) Horizon() float64 {
	return c.horizonMs
}

// AtHorizon reports whether the clock has reached its horizon.
func (c *Clock) AtHorizon() bool {
	return c.nowMs >= c.horizonMs
}
