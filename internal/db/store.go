package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// RunRecord is a persisted pipeline run.
type RunRecord struct {
	RunID        string `json:"run_id"`
	TaskID       string `json:"task_id"`
	CreatedAt    string `json:"created_at"`
	Verdict      string `json:"verdict"`
	FailedGate   string `json:"failed_gate,omitempty"`
	TopFix       string `json:"top_fix,omitempty"`
	EvidenceJSON string `json:"-"`
}

// SweepRecord is a persisted sweep invocation and its summary.
type SweepRecord struct {
	SweepID     string `json:"sweep_id"`
	TaskID      string `json:"task_id"`
	N           int    `json:"n"`
	Seed        int64  `json:"seed"`
	CreatedAt   string `json:"created_at"`
	SummaryJSON string `json:"-"`
}

// Store provides persistence for runs and sweeps.
type Store struct {
	db *sql.DB
}

// NewStore creates a store over an open database handle.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// InsertRun persists one pipeline run.
func (s *Store) InsertRun(ctx context.Context, rec RunRecord) error {
	if _, err := s.db.ExecContext(ctx, `INSERT INTO runs(run_id, task_id, created_at, verdict, failed_gate, top_fix, evidence_json)
		VALUES(?, ?, ?, ?, ?, ?, ?)`,
		rec.RunID, rec.TaskID, rec.CreatedAt, rec.Verdict,
		nullableString(rec.FailedGate), nullableString(rec.TopFix), rec.EvidenceJSON); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// GetRun returns the run with the given id, or ErrNotFound.
func (s *Store) GetRun(ctx context.Context, runID string) (RunRecord, error) {
	row := s.db.QueryRowContext(ctx, `SELECT run_id, task_id, created_at, verdict, failed_gate, top_fix, evidence_json
		FROM runs WHERE run_id=?`, runID)
	rec, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return RunRecord{}, fmt.Errorf("run %s: %w", runID, ErrNotFound)
	}
	if err != nil {
		return RunRecord{}, fmt.Errorf("read run: %w", err)
	}
	return rec, nil
}

// ListRecentRuns returns up to limit runs, newest first.
func (s *Store) ListRecentRuns(ctx context.Context, limit int) ([]RunRecord, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT run_id, task_id, created_at, verdict, failed_gate, top_fix, evidence_json
		FROM runs ORDER BY created_at DESC, run_id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []RunRecord
	for rows.Next() {
		rec, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return out, nil
}

// InsertSweep persists one sweep record.
func (s *Store) InsertSweep(ctx context.Context, rec SweepRecord) error {
	if _, err := s.db.ExecContext(ctx, `INSERT INTO sweeps(sweep_id, task_id, n, seed, created_at, summary_json)
		VALUES(?, ?, ?, ?, ?, ?)`,
		rec.SweepID, rec.TaskID, rec.N, rec.Seed, rec.CreatedAt, rec.SummaryJSON); err != nil {
		return fmt.Errorf("insert sweep: %w", err)
	}
	return nil
}

// GetSweep returns the sweep with the given id, or ErrNotFound.
func (s *Store) GetSweep(ctx context.Context, sweepID string) (SweepRecord, error) {
	var rec SweepRecord
	row := s.db.QueryRowContext(ctx, `SELECT sweep_id, task_id, n, seed, created_at, summary_json
		FROM sweeps WHERE sweep_id=?`, sweepID)
	err := row.Scan(&rec.SweepID, &rec.TaskID, &rec.N, &rec.Seed, &rec.CreatedAt, &rec.SummaryJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return SweepRecord{}, fmt.Errorf("sweep %s: %w", sweepID, ErrNotFound)
	}
	if err != nil {
		return SweepRecord{}, fmt.Errorf("read sweep: %w", err)
	}
	return rec, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (RunRecord, error) {
	var rec RunRecord
	var failedGate, topFix sql.NullString
	if err := row.Scan(&rec.RunID, &rec.TaskID, &rec.CreatedAt, &rec.Verdict, &failedGate, &topFix, &rec.EvidenceJSON); err != nil {
		return RunRecord{}, err
	}
	rec.FailedGate = failedGate.String
	rec.TopFix = topFix.String
	return rec, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
