package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/placematch/internal/match"
)

// SQLiteSink writes match results to an embedded SQLite file, for runs where
// no Postgres is available.
type SQLiteSink struct {
	db *sql.DB
}

// NewSQLiteSink opens (or creates) the database file and ensures the schema
// exists.
func NewSQLiteSink(path string) (*SQLiteSink, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database %s: %w", path, err)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS match_run (
		run_id       TEXT PRIMARY KEY,
		run_label    TEXT NOT NULL,
		started_at   TIMESTAMP NOT NULL,
		completed_at TIMESTAMP,
		processed    INTEGER NOT NULL,
		matched      INTEGER NOT NULL,
		unmatched    INTEGER NOT NULL
	);
	CREATE TABLE IF NOT EXISTS match_result (
		run_id          TEXT NOT NULL,
		place_id        TEXT NOT NULL,
		building_id     TEXT,
		composite_score REAL NOT NULL,
		quality_tier    TEXT NOT NULL,
		metrics         TEXT,
		PRIMARY KEY (run_id, place_id)
	);`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &SQLiteSink{db: db}, nil
}

// Close closes the database file.
func (s *SQLiteSink) Close() error {
	return s.db.Close()
}

// SaveRun writes the run record and all results in one transaction.
func (s *SQLiteSink) SaveRun(run *match.MatchRun, results []*match.MatchResult) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT OR REPLACE INTO match_run (run_id, run_label, started_at, completed_at, processed, matched, unmatched)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, run.RunID, run.Label, run.StartedAt, run.CompletedAt,
		run.Stats.Processed, run.Stats.Matched, run.Stats.Unmatched)
	if err != nil {
		return fmt.Errorf("failed to insert match run: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO match_result (run_id, place_id, building_id, composite_score, quality_tier, metrics)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare result insert: %w", err)
	}
	defer stmt.Close()

	for _, result := range results {
		var metricsJSON interface{}
		if result.Metrics != nil {
			data, err := json.Marshal(result.Metrics)
			if err != nil {
				return fmt.Errorf("failed to marshal metrics for place %s: %w", result.PlaceID, err)
			}
			metricsJSON = string(data)
		}

		var buildingID interface{}
		if result.BuildingID != nil {
			buildingID = *result.BuildingID
		}

		if _, err := stmt.Exec(run.RunID, result.PlaceID, buildingID,
			result.CompositeScore, result.QualityTier, metricsJSON); err != nil {
			return fmt.Errorf("failed to insert result for place %s: %w", result.PlaceID, err)
		}
	}

	return tx.Commit()
}
