package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/blastseq/internal/metrics"
	"github.com/roach88/blastseq/internal/network"
	"github.com/roach88/blastseq/internal/schedule"
	"github.com/roach88/blastseq/internal/sim"
)

// Run is the header row of an archived schedule run.
type Run struct {
	ID                  string                `json:"id"`
	Seq                 int64                 `json:"seq"`
	Label               string                `json:"label"`
	Network             network.Definition    `json:"network"`
	NetworkFingerprint  string                `json:"network_fingerprint"`
	ScheduleFingerprint string                `json:"schedule_fingerprint"`
	TimelineFingerprint string                `json:"timeline_fingerprint"`
	RootRule            string                `json:"root_rule"`
	Metrics             metrics.Metrics       `json:"metrics"`
	Diagnostics         []schedule.Diagnostic `json:"diagnostics"`
}

// ActivationRow is one archived hole activation. ActivationMs is nil for
// holes that were never reached.
type ActivationRow struct {
	HoleID           string `json:"hole_id"`
	ActivationMs     *int64 `json:"activation_ms"`
	CauseConnectorID string `json:"cause_connector_id,omitempty"`
}

// WindowRow is one archived connector window. StartMs and EndMs are nil for
// connectors that never carried a signal.
type WindowRow struct {
	ConnectorID string `json:"connector_id"`
	StartMs     *int64 `json:"start_ms"`
	EndMs       *int64 `json:"end_ms"`
	Wave        int    `json:"wave"`
}

const runColumns = `id, seq, label, network, network_fingerprint, schedule_fingerprint,
	timeline_fingerprint, root_rule, metrics, diagnostics`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (Run, error) {
	var (
		r                               Run
		networkJSON, metricsJSON, diags string
	)
	err := row.Scan(
		&r.ID,
		&r.Seq,
		&r.Label,
		&networkJSON,
		&r.NetworkFingerprint,
		&r.ScheduleFingerprint,
		&r.TimelineFingerprint,
		&r.RootRule,
		&metricsJSON,
		&diags,
	)
	if err != nil {
		return Run{}, err
	}
	if r.Network, err = unmarshalNetwork(networkJSON); err != nil {
		return Run{}, err
	}
	if r.Metrics, err = unmarshalMetrics(metricsJSON); err != nil {
		return Run{}, err
	}
	if r.Diagnostics, err = unmarshalDiagnostics(diags); err != nil {
		return Run{}, err
	}
	return r, nil
}

// ReadRun returns the run with the given id, or ErrRunNotFound.
func (s *Store) ReadRun(ctx context.Context, id string) (Run, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return Run{}, fmt.Errorf("read run %s: %w", id, err)
	}
	return r, nil
}

// ListRuns returns every archived run in write order.
func (s *Store) ListRuns(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+runColumns+` FROM runs ORDER BY seq ASC`)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("list runs: %w", err)
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return runs, nil
}

// DeleteRun removes a run and, through the cascade, all of its rows.
func (s *Store) DeleteRun(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete run %s: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete run %s: %w", id, err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	return nil
}

// ReadActivations returns a run's activations in hole input order.
func (s *Store) ReadActivations(ctx context.Context, runID string) ([]ActivationRow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT hole_id, activation_ms, cause_connector_id
		FROM activations
		WHERE run_id = ?
		ORDER BY ord ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("read activations: %w", err)
	}
	defer rows.Close()

	var out []ActivationRow
	for rows.Next() {
		var (
			a  ActivationRow
			at sql.NullInt64
		)
		if err := rows.Scan(&a.HoleID, &at, &a.CauseConnectorID); err != nil {
			return nil, fmt.Errorf("scan activation: %w", err)
		}
		a.ActivationMs = nullableInt(at)
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read activations: %w", err)
	}
	return out, nil
}

// ReadWindows returns a run's connector windows in connector input order.
func (s *Store) ReadWindows(ctx context.Context, runID string) ([]WindowRow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT connector_id, start_ms, end_ms, wave
		FROM windows
		WHERE run_id = ?
		ORDER BY ord ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("read windows: %w", err)
	}
	defer rows.Close()

	var out []WindowRow
	for rows.Next() {
		var (
			w          WindowRow
			start, end sql.NullInt64
		)
		if err := rows.Scan(&w.ConnectorID, &start, &end, &w.Wave); err != nil {
			return nil, fmt.Errorf("scan window: %w", err)
		}
		w.StartMs = nullableInt(start)
		w.EndMs = nullableInt(end)
		out = append(out, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read windows: %w", err)
	}
	return out, nil
}

// ReadEvents returns a run's timeline in its original order.
func (s *Store) ReadEvents(ctx context.Context, runID string) ([]sim.Event, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT at_ms, type, connector_id, hole_id, triggered_by, effect, duration_ms
		FROM events
		WHERE run_id = ?
		ORDER BY seq ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("read events: %w", err)
	}
	defer rows.Close()

	var out []sim.Event
	for rows.Next() {
		var r sim.EventRecord
		if err := rows.Scan(&r.AtMs, &r.Type, &r.ConnectorID, &r.HoleID, &r.TriggeredBy, &r.Effect, &r.DurationMs); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		e, err := sim.FromRecord(r)
		if err != nil {
			return nil, fmt.Errorf("read events: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read events: %w", err)
	}
	return out, nil
}

func nullableInt(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	x := v.Int64
	return &x
}
