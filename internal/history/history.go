// Package history keeps a SQLite log of extraction runs.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/spboyer/tagx/internal/tagcounter"
)

// DefaultTopTags is how many leading tags NewRun keeps.
const DefaultTopTags = 10

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id              INTEGER PRIMARY KEY AUTOINCREMENT,
	run_at          TEXT    NOT NULL,
	text_path       TEXT    NOT NULL,
	stop_words_path TEXT    NOT NULL,
	distinct_tags   INTEGER NOT NULL,
	total_tags      INTEGER NOT NULL,
	top_tags        TEXT    NOT NULL
)`

// Run summarizes one extraction.
type Run struct {
	ID            int64            `json:"id"`
	RunAt         time.Time        `json:"runAt"`
	TextPath      string           `json:"textPath"`
	StopWordsPath string           `json:"stopWordsPath"`
	Distinct      int              `json:"distinct"`
	Total         int              `json:"total"`
	Top           []tagcounter.Tag `json:"top"`
}

// NewRun summarizes table, keeping the topN most frequent tags.
func NewRun(textPath, stopWordsPath string, table *tagcounter.FrequencyTable, topN int) Run {
	top := table.Sorted(tagcounter.SortCount)
	if topN > 0 && len(top) > topN {
		top = top[:topN]
	}
	return Run{
		RunAt:         time.Now().UTC(),
		TextPath:      textPath,
		StopWordsPath: stopWordsPath,
		Distinct:      table.Len(),
		Total:         table.Total(),
		Top:           top,
	}
}

// Store is a run log backed by a SQLite file.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at path and ensures the schema exists.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening history %q: %w", path, err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close() //nolint:errcheck
		return nil, fmt.Errorf("migrating history %q: %w", path, err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Record appends run to the log.
func (s *Store) Record(ctx context.Context, run Run) error {
	top, err := json.Marshal(run.Top)
	if err != nil {
		return fmt.Errorf("marshaling top tags: %w", err)
	}
	if run.RunAt.IsZero() {
		run.RunAt = time.Now().UTC()
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO runs (run_at, text_path, stop_words_path, distinct_tags, total_tags, top_tags)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		run.RunAt.Format(time.RFC3339Nano), run.TextPath, run.StopWordsPath, run.Distinct, run.Total, string(top))
	if err != nil {
		return fmt.Errorf("recording run: %w", err)
	}
	return nil
}

// List returns up to limit runs, newest first. A limit of 0 returns all.
func (s *Store) List(ctx context.Context, limit int) ([]Run, error) {
	query := `SELECT id, run_at, text_path, stop_words_path, distinct_tags, total_tags, top_tags
		FROM runs ORDER BY id DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	var runs []Run
	for rows.Next() {
		var (
			run   Run
			runAt string
			top   string
		)
		if err := rows.Scan(&run.ID, &runAt, &run.TextPath, &run.StopWordsPath, &run.Distinct, &run.Total, &top); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		if run.RunAt, err = time.Parse(time.RFC3339Nano, runAt); err != nil {
			return nil, fmt.Errorf("parsing run time %q: %w", runAt, err)
		}
		if err := json.Unmarshal([]byte(top), &run.Top); err != nil {
			return nil, fmt.Errorf("parsing top tags of run %d: %w", run.ID, err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
