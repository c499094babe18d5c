package budget

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Store is the persistent usage journal: one row per completion, accumulated
// across sessions. It backs the --usage report.
type Store struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS completions (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	ts         TEXT    NOT NULL,
	model      TEXT    NOT NULL,
	tokens_in  INTEGER NOT NULL,
	tokens_out INTEGER NOT NULL,
	cost       REAL    NOT NULL
);
`

// DefaultStorePath returns the per-user usage database location.
func DefaultStorePath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("locating home directory: %w", err)
	}
	return filepath.Join(home, ".editguru", "usage.db"), nil
}

// OpenStore opens (creating if needed) the usage database at path.
func OpenStore(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating usage directory: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening usage database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing usage database: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// RecordCompletion appends one completion to the journal.
func (s *Store) RecordCompletion(model string, tokensIn, tokensOut int, cost float64) error {
	_, err := s.db.Exec(
		`INSERT INTO completions (ts, model, tokens_in, tokens_out, cost) VALUES (?, ?, ?, ?, ?)`,
		time.Now().UTC().Format(time.RFC3339), model, tokensIn, tokensOut, cost,
	)
	if err != nil {
		return fmt.Errorf("recording completion: %w", err)
	}
	return nil
}

// ModelUsage is the accumulated usage for one model.
type ModelUsage struct {
	Model     string
	Count     int
	TokensIn  int64
	TokensOut int64
	Cost      float64
}

// Summary aggregates the journal per model, ordered by model name.
func (s *Store) Summary() ([]ModelUsage, error) {
	rows, err := s.db.Query(
		`SELECT model, COUNT(*), SUM(tokens_in), SUM(tokens_out), SUM(cost)
		 FROM completions GROUP BY model ORDER BY model`,
	)
	if err != nil {
		return nil, fmt.Errorf("querying usage: %w", err)
	}
	defer rows.Close()

	var out []ModelUsage
	for rows.Next() {
		var u ModelUsage
		if err := rows.Scan(&u.Model, &u.Count, &u.TokensIn, &u.TokensOut, &u.Cost); err != nil {
			return nil, fmt.Errorf("scanning usage row: %w", err)
		}
		out = append(out, u)
	}
	return out, rows.Err()
}
