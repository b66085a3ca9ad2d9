package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/okian/nrr/internal/domain/aggregate"
	"github.com/okian/nrr/internal/domain/model"
	"github.com/okian/nrr/internal/domain/outcome"
	"github.com/okian/nrr/internal/domain/standings"
	"github.com/okian/nrr/pkg/metrics"
)

// SQLiteStore persists snapshots in a SQLite database.
type SQLiteStore struct {
	db   *sql.DB
	opts options
}

// NewSQLiteStore opens or creates the database at path.
func NewSQLiteStore(ctx context.Context, path string, opts ...Option) (*SQLiteStore, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create snapshot directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open snapshot database: %w", err)
	}
	db.SetMaxOpenConns(1) // single writer; pragmas below are per connection
	for _, pragma := range []string{`PRAGMA journal_mode=WAL`, `PRAGMA foreign_keys=ON`} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("%s: %w", pragma, err)
		}
	}
	s := &SQLiteStore{db: db, opts: o}
	if err := s.createTables(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create snapshot tables: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) createTables(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS snapshots (
			id          TEXT PRIMARY KEY,
			fingerprint TEXT NOT NULL UNIQUE,
			created_at  INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS snapshot_totals (
			snapshot_id   TEXT NOT NULL REFERENCES snapshots(id) ON DELETE CASCADE,
			team          TEXT NOT NULL,
			runs_for      INTEGER NOT NULL,
			balls_for     INTEGER NOT NULL,
			runs_against  INTEGER NOT NULL,
			balls_against INTEGER NOT NULL,
			PRIMARY KEY (snapshot_id, team)
		)`,
		`CREATE TABLE IF NOT EXISTS snapshot_records (
			snapshot_id TEXT NOT NULL REFERENCES snapshots(id) ON DELETE CASCADE,
			team        TEXT NOT NULL,
			won         INTEGER NOT NULL,
			lost        INTEGER NOT NULL,
			tied        INTEGER NOT NULL,
			no_result   INTEGER NOT NULL,
			bonus       INTEGER NOT NULL,
			PRIMARY KEY (snapshot_id, team)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_snapshots_created_at ON snapshots(created_at)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// Get implements Store.Get.
func (s *SQLiteStore) Get(ctx context.Context, fingerprint string) (Snapshot, error) {
	snap := Snapshot{Fingerprint: fingerprint}
	var created int64
	err := s.db.QueryRowContext(ctx,
		`SELECT id, created_at FROM snapshots WHERE fingerprint = ?`, fingerprint,
	).Scan(&snap.ID, &created)
	if errors.Is(err, sql.ErrNoRows) {
		metrics.RecordSnapshotMiss()
		return Snapshot{}, ErrNotFound
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("query snapshot: %w", err)
	}
	snap.CreatedAt = time.Unix(0, created).UTC()

	totals, err := s.loadTotals(ctx, snap.ID)
	if err != nil {
		return Snapshot{}, err
	}
	records, err := s.loadRecords(ctx, snap.ID)
	if err != nil {
		return Snapshot{}, err
	}
	snap.Base = standings.Base{Totals: totals, Records: records}
	metrics.RecordSnapshotHit()
	return snap, nil
}

func (s *SQLiteStore) loadTotals(ctx context.Context, id string) (aggregate.Table, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT team, runs_for, balls_for, runs_against, balls_against
		FROM snapshot_totals WHERE snapshot_id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("query totals: %w", err)
	}
	defer rows.Close()

	out := make(aggregate.Table)
	for rows.Next() {
		var (
			team string
			t    model.Totals
		)
		if err := rows.Scan(&team, &t.RunsFor, &t.BallsFor, &t.RunsAgainst, &t.BallsAgainst); err != nil {
			return nil, fmt.Errorf("scan totals: %w", err)
		}
		out[team] = t
	}
	return out, rows.Err()
}

func (s *SQLiteStore) loadRecords(ctx context.Context, id string) (outcome.Table, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT team, won, lost, tied, no_result, bonus
		FROM snapshot_records WHERE snapshot_id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	out := make(outcome.Table)
	for rows.Next() {
		var (
			team string
			r    model.Record
		)
		if err := rows.Scan(&team, &r.Won, &r.Lost, &r.Tied, &r.NoResult, &r.Bonus); err != nil {
			return nil, fmt.Errorf("scan records: %w", err)
		}
		out[team] = r
	}
	return out, rows.Err()
}

// Put implements Store.Put.
func (s *SQLiteStore) Put(ctx context.Context, snap Snapshot) (Snapshot, error) {
	if snap.Fingerprint == "" {
		return Snapshot{}, ErrNoFingerprint
	}
	snap.ID = uuid.NewString()
	snap.CreatedAt = s.opts.now().UTC()
	snap.Base = cloneBase(snap.Base)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Snapshot{}, fmt.Errorf("begin snapshot: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, `DELETE FROM snapshots WHERE fingerprint = ?`, snap.Fingerprint); err != nil {
		return Snapshot{}, fmt.Errorf("replace snapshot: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO snapshots (id, fingerprint, created_at) VALUES (?,?,?)`,
		snap.ID, snap.Fingerprint, snap.CreatedAt.UnixNano(),
	); err != nil {
		return Snapshot{}, fmt.Errorf("insert snapshot: %w", err)
	}
	for team, t := range snap.Base.Totals {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO snapshot_totals (snapshot_id, team, runs_for, balls_for, runs_against, balls_against)
			VALUES (?,?,?,?,?,?)`,
			snap.ID, team, t.RunsFor, t.BallsFor, t.RunsAgainst, t.BallsAgainst,
		); err != nil {
			return Snapshot{}, fmt.Errorf("insert totals for %s: %w", team, err)
		}
	}
	for team, r := range snap.Base.Records {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO snapshot_records (snapshot_id, team, won, lost, tied, no_result, bonus)
			VALUES (?,?,?,?,?,?,?)`,
			snap.ID, team, r.Won, r.Lost, r.Tied, r.NoResult, r.Bonus,
		); err != nil {
			return Snapshot{}, fmt.Errorf("insert records for %s: %w", team, err)
		}
	}
	if _, err := tx.ExecContext(ctx, `
		DELETE FROM snapshots WHERE id NOT IN (
			SELECT id FROM snapshots ORDER BY created_at DESC, rowid DESC LIMIT ?
		)`, s.opts.retain); err != nil {
		return Snapshot{}, fmt.Errorf("rotate snapshots: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return Snapshot{}, fmt.Errorf("commit snapshot: %w", err)
	}
	metrics.RecordSnapshotSave()
	return snap, nil
}

// Count implements Store.Count.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM snapshots`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count snapshots: %w", err)
	}
	return n, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
