package store

import (
	"context"
	"fmt"

	"github.com/roach88/blastseq/internal/schedule"
	"github.com/roach88/blastseq/internal/sim"
)

// ReplayResult compares an archived run against a fresh computation of its
// stored network.
type ReplayResult struct {
	RunID               string `json:"run_id"`
	Identical           bool   `json:"identical"`
	ScheduleFingerprint string `json:"schedule_fingerprint"`
	TimelineFingerprint string `json:"timeline_fingerprint"`
	StoredSchedule      string `json:"stored_schedule_fingerprint"`
	StoredTimeline      string `json:"stored_timeline_fingerprint"`
	StoredEventsMatch   bool   `json:"stored_events_match"`
}

// VerifyRun rebuilds the archived network, recomputes its schedule and
// timeline, and compares both fingerprints with the stored ones. The stored
// event rows are also re-fingerprinted so a tampered timeline is caught.
func (s *Store) VerifyRun(ctx context.Context, id string, calc *schedule.Calculator) (ReplayResult, error) {
	run, err := s.ReadRun(ctx, id)
	if err != nil {
		return ReplayResult{}, err
	}

	n, err := run.Network.Build()
	if err != nil {
		return ReplayResult{}, fmt.Errorf("verify run %s: rebuild network: %w", id, err)
	}
	if calc == nil {
		calc = schedule.NewCalculator()
	}
	sched := calc.Compute(n)

	stored, err := s.ReadEvents(ctx, id)
	if err != nil {
		return ReplayResult{}, fmt.Errorf("verify run %s: %w", id, err)
	}

	res := ReplayResult{
		RunID:               id,
		ScheduleFingerprint: sched.Fingerprint(),
		TimelineFingerprint: sim.TimelineFingerprint(sim.GenerateEvents(sched)),
		StoredSchedule:      run.ScheduleFingerprint,
		StoredTimeline:      run.TimelineFingerprint,
	}
	res.StoredEventsMatch = sim.TimelineFingerprint(stored) == run.TimelineFingerprint
	res.Identical = res.ScheduleFingerprint == res.StoredSchedule &&
		res.TimelineFingerprint == res.StoredTimeline &&
		res.StoredEventsMatch
	return res, nil
}
