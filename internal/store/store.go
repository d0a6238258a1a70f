// Package store persists per-document run history in SQLite: one row per
// translation run with its outcome counts, plus a record of every
// occurrence that fell back to its original text, so a caller can decide
// whether a re-run is worthwhile.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

type Store struct {
	db *sql.DB
}

// Run is one completed document translation run.
type Run struct {
	ID         string
	InputFile  string
	OutputFile string
	SourceLang string
	TargetLang string
	Total      int
	Translated int
	Skipped    int
	Fallback   int
	CacheHits  int
	CreatedAt  time.Time
}

// Fallback records one occurrence that kept its original text.
type Fallback struct {
	RunID  string
	Text   string
	Reason string
}

func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}
	return s, nil
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		input_file TEXT NOT NULL,
		output_file TEXT NOT NULL,
		source_lang TEXT NOT NULL,
		target_lang TEXT NOT NULL,
		total INTEGER NOT NULL,
		translated INTEGER NOT NULL,
		skipped INTEGER NOT NULL,
		fallback INTEGER NOT NULL,
		cache_hits INTEGER NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS run_fallbacks (
		run_id TEXT NOT NULL,
		text TEXT NOT NULL,
		reason TEXT NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (run_id) REFERENCES runs(id)
	);

	CREATE INDEX IF NOT EXISTS idx_fallbacks_run ON run_fallbacks(run_id);
	`
	_, err := s.db.Exec(schema)
	return err
}

// SaveRun inserts one run record.
func (s *Store) SaveRun(ctx context.Context, run Run) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, input_file, output_file, source_lang, target_lang, total, translated, skipped, fallback, cache_hits, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.InputFile, run.OutputFile, run.SourceLang, run.TargetLang,
		run.Total, run.Translated, run.Skipped, run.Fallback, run.CacheHits, run.CreatedAt)
	return err
}

// SaveFallbacks records the occurrences of a run that kept their original
// text.
func (s *Store) SaveFallbacks(ctx context.Context, fallbacks []Fallback) error {
	for _, f := range fallbacks {
		_, err := s.db.ExecContext(ctx,
			`INSERT INTO run_fallbacks (run_id, text, reason) VALUES (?, ?, ?)`,
			f.RunID, f.Text, f.Reason)
		if err != nil {
			return err
		}
	}
	return nil
}

// ListRuns returns all runs, most recent first.
func (s *Store) ListRuns(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, input_file, output_file, source_lang, target_lang, total, translated, skipped, fallback, cache_hits, created_at
		 FROM runs ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.InputFile, &r.OutputFile, &r.SourceLang, &r.TargetLang,
			&r.Total, &r.Translated, &r.Skipped, &r.Fallback, &r.CacheHits, &r.CreatedAt); err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// ListFallbacks returns the fallback records of one run.
func (s *Store) ListFallbacks(ctx context.Context, runID string) ([]Fallback, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, text, reason FROM run_fallbacks WHERE run_id = ?`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Fallback
	for rows.Next() {
		var f Fallback
		if err := rows.Scan(&f.RunID, &f.Text, &f.Reason); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// ClearRuns removes all run history.
func (s *Store) ClearRuns(ctx context.Context) (int64, error) {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM run_fallbacks`); err != nil {
		return 0, err
	}
	res, err := s.db.ExecContext(ctx, `DELETE FROM runs`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *Store) Close() error {
	return s.db.Close()
}
