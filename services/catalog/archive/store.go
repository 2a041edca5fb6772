// Package archive keeps a local sqlite copy of every merged generation.
// The sheet is rewritten wholesale each run, so this is the only place
// an older generation survives.
package archive

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"cinescrape/services/catalog"

	_ "modernc.org/sqlite"
)

const Schema = `
CREATE TABLE snapshots (
	run_started_at INTEGER NOT NULL,
	title TEXT NOT NULL,
	record_json TEXT NOT NULL,
	PRIMARY KEY (run_started_at, title)
);
`

type Store struct {
	db *sql.DB
}

func NewStore(database *sql.DB) Store {
	return Store{db: database}
}

// Push records one merged generation under the run's start time, in a
// single transaction. Pushing the same run time twice replaces it.
func (s Store) Push(ctx context.Context, runStartedAt time.Time, records []catalog.MovieRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`DELETE FROM snapshots WHERE run_started_at = ?`, runStartedAt.Unix())
	if err != nil {
		return err
	}

	for _, record := range records {
		encoded, err := json.Marshal(record)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO snapshots (run_started_at, title, record_json) VALUES (?, ?, ?)`,
			runStartedAt.Unix(), record.Title, string(encoded))
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Latest returns the newest generation keyed by title, with the run
// time it was pushed under. No generations at all yields a zero time
// and an empty map.
func (s Store) Latest(ctx context.Context) (time.Time, map[string]catalog.MovieRecord, error) {
	records := map[string]catalog.MovieRecord{}

	var newest sql.NullInt64
	err := s.db.QueryRowContext(ctx,
		`SELECT MAX(run_started_at) FROM snapshots`).Scan(&newest)
	if err != nil {
		return time.Time{}, nil, err
	}
	if !newest.Valid {
		return time.Time{}, records, nil
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT record_json FROM snapshots WHERE run_started_at = ?`, newest.Int64)
	if err != nil {
		return time.Time{}, nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var encoded string
		err = rows.Scan(&encoded)
		if err != nil {
			return time.Time{}, nil, err
		}
		var record catalog.MovieRecord
		err = json.Unmarshal([]byte(encoded), &record)
		if err != nil {
			return time.Time{}, nil, err
		}
		records[record.Title] = record
	}
	if err := rows.Err(); err != nil {
		return time.Time{}, nil, err
	}

	return time.Unix(newest.Int64, 0), records, nil
}
