package sim

import (
	"context"
	"fmt"

	"github.com/roach88/blastseq/internal/schedule"
)

// VerifyDeterminism plays the schedule to completion, resets the driver,
// plays it again and compares the two frame sequences by fingerprint.
//
// Returns *DivergenceError for the first differing frame. The frame counts
// of both runs are returned on success.
func VerifyDeterminism(ctx context.Context, s *schedule.Schedule, stepMs float64, opts ...DriverOption) (int, error) {
	d := NewDriver(s, opts...)

	first, err := d.Collect(ctx, stepMs)
	if err != nil {
		return 0, fmt.Errorf("first run: %w", err)
	}

	d.Reset()
	second, err := d.Collect(ctx, stepMs)
	if err != nil {
		return 0, fmt.Errorf("second run: %w", err)
	}

	limit := len(first)
	if len(second) < limit {
		limit = len(second)
	}
	for i := 0; i < limit; i++ {
		want, got := first[i].Fingerprint(), second[i].Fingerprint()
		if want != got {
			return i, &DivergenceError{Frame: i, Expected: want, Actual: got}
		}
	}
	if len(first) != len(second) {
		return limit, &DivergenceError{
			Frame:    limit,
			Expected: fmt.Sprintf("%d frames", len(first)),
			Actual:   fmt.Sprintf("%d frames", len(second)),
		}
	}
	return len(first), nil
}
