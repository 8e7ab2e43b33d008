package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/roach88/blastseq/internal/analysis"
	"github.com/roach88/blastseq/internal/metrics"
	"github.com/roach88/blastseq/internal/network"
	"github.com/roach88/blastseq/internal/schedule"
	"github.com/roach88/blastseq/internal/sim"
)

// WriteRun archives a schedule under id: the network, every activation and
// window, the event timeline and the metrics. All rows are written in one
// transaction; on error nothing persists.
//
// Returns the stored Run header.
func (s *Store) WriteRun(ctx context.Context, id, label string, sched *schedule.Schedule) (Run, error) {
	n := sched.Network()
	events := sim.GenerateEvents(sched)

	run := Run{
		ID:                  id,
		Label:               label,
		Network:             n.Definition(),
		NetworkFingerprint:  n.Fingerprint(),
		ScheduleFingerprint: sched.Fingerprint(),
		TimelineFingerprint: sim.TimelineFingerprint(events),
		RootRule:            sched.RootRule().String(),
		Metrics:             metrics.Aggregate(sched),
		Diagnostics:         sched.Diagnostics(),
	}
	if run.Diagnostics == nil {
		run.Diagnostics = []schedule.Diagnostic{}
	}

	networkJSON, err := marshalNetwork(run.Network)
	if err != nil {
		return Run{}, fmt.Errorf("write run: %w", err)
	}
	metricsJSON, err := marshalMetrics(run.Metrics)
	if err != nil {
		return Run{}, fmt.Errorf("write run: %w", err)
	}
	diagJSON, err := marshalDiagnostics(run.Diagnostics)
	if err != nil {
		return Run{}, fmt.Errorf("write run: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Run{}, fmt.Errorf("write run: begin: %w", err)
	}
	defer tx.Rollback()

	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) + 1 FROM runs`).Scan(&run.Seq); err != nil {
		return Run{}, fmt.Errorf("write run: next seq: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs
		(id, seq, label, network, network_fingerprint, schedule_fingerprint, timeline_fingerprint, root_rule, metrics, diagnostics)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		run.ID,
		run.Seq,
		run.Label,
		networkJSON,
		run.NetworkFingerprint,
		run.ScheduleFingerprint,
		run.TimelineFingerprint,
		run.RootRule,
		metricsJSON,
		diagJSON,
	)
	if err != nil {
		return Run{}, fmt.Errorf("write run: %w", err)
	}

	if err := writeActivations(ctx, tx, id, sched); err != nil {
		return Run{}, fmt.Errorf("write run: %w", err)
	}
	if err := writeWindows(ctx, tx, id, sched); err != nil {
		return Run{}, fmt.Errorf("write run: %w", err)
	}
	if err := writeEvents(ctx, tx, id, events); err != nil {
		return Run{}, fmt.Errorf("write run: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return Run{}, fmt.Errorf("write run: commit: %w", err)
	}
	return run, nil
}

func writeActivations(ctx context.Context, tx *sql.Tx, runID string, sched *schedule.Schedule) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO activations (run_id, ord, hole_id, activation_ms, cause_connector_id)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare activations: %w", err)
	}
	defer stmt.Close()

	n := sched.Network()
	for h := 0; h < n.HoleCount(); h++ {
		hh := network.HoleHandle(h)
		var at sql.NullInt64
		if v, ok := sched.Activation(hh); ok {
			at = sql.NullInt64{Int64: v, Valid: true}
		}
		var cause string
		if c := sched.Cause(hh); c != network.NoConnector {
			cause = n.ConnectorID(c)
		}
		if _, err := stmt.ExecContext(ctx, runID, h, n.HoleID(hh), at, cause); err != nil {
			return fmt.Errorf("insert activation %s: %w", n.HoleID(hh), err)
		}
	}
	return nil
}

func writeWindows(ctx context.Context, tx *sql.Tx, runID string, sched *schedule.Schedule) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO windows (run_id, ord, connector_id, start_ms, end_ms, wave)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare windows: %w", err)
	}
	defer stmt.Close()

	n := sched.Network()
	depths := analysis.ConnectorDepths(sched)
	for c := 0; c < n.ConnectorCount(); c++ {
		ch := network.ConnectorHandle(c)
		var start, end sql.NullInt64
		if w, ok := sched.Window(ch); ok {
			start = sql.NullInt64{Int64: w.StartMs, Valid: true}
			end = sql.NullInt64{Int64: w.EndMs, Valid: true}
		}
		if _, err := stmt.ExecContext(ctx, runID, c, n.ConnectorID(ch), start, end, depths[c]); err != nil {
			return fmt.Errorf("insert window %s: %w", n.ConnectorID(ch), err)
		}
	}
	return nil
}

func writeEvents(ctx context.Context, tx *sql.Tx, runID string, events []sim.Event) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO events (run_id, seq, at_ms, type, connector_id, hole_id, triggered_by, effect, duration_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare events: %w", err)
	}
	defer stmt.Close()

	for i, e := range events {
		r := sim.Record(e)
		if _, err := stmt.ExecContext(ctx, runID, i+1, r.AtMs, r.Type, r.ConnectorID, r.HoleID, r.TriggeredBy, r.Effect, r.DurationMs); err != nil {
			return fmt.Errorf("insert event %d: %w", i+1, err)
		}
	}
	return nil
}
