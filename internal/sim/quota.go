package sim

// DefaultMaxFrames bounds a single session. At a 16ms step this covers more
// than half an hour of simulated time.
const DefaultMaxFrames = 120000

// frameQuota counts frames emitted by one session and enforces a maximum.
//
// The clock stops at the horizon, so a running session always halts. A
// paused session never does, and the quota is what ends a Run loop that
// keeps ticking it.
type frameQuota struct {
	max     int
	current int
}

func newFrameQuota(limit int) *frameQuota {
	return &frameQuota{max: limit}
}

// Check counts one frame and returns FramesExceededError past the limit.
func (q *frameQuota) Check() error {
	q.current++
	if q.current > q.max {
		return &FramesExceededError{Frames: q.current, Limit: q.max}
	}
	return nil
}

// Current returns the number of frames counted so far.
func (q *frameQuota) Current() int {
	return q.current
}
