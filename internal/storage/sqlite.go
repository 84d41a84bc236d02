// Package storage provides SQLite-based persistence for game replays.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/tui-snake/internal/grid"
	"github.com/vovakirdan/tui-snake/internal/session"
)

// ErrNotFound is returned when a replay ID does not exist.
var ErrNotFound = errors.New("storage: replay not found")

// Store manages the SQLite database connection for replay persistence.
type Store struct {
	db *sql.DB
}

// Replay is a stored game journal plus its final outcome.
type Replay struct {
	ID        string
	Seed      int64
	Rows      int
	Cols      int
	StartRow  int
	StartCol  int
	Moves     string
	Ticks     int
	Length    int
	Outcome   string // engine status: "game_over" or "won"
	CreatedAt time.Time
}

// Journal converts the record back into a replayable journal.
func (r Replay) Journal() session.Journal {
	return session.Journal{
		Seed:  r.Seed,
		Rows:  r.Rows,
		Cols:  r.Cols,
		Start: grid.C(r.StartRow, r.StartCol),
		Moves: r.Moves,
	}
}

// FromResult builds a record from a finished session game.
func FromResult(res session.Result) Replay {
	j := res.Journal
	return Replay{
		Seed:     j.Seed,
		Rows:     j.Rows,
		Cols:     j.Cols,
		StartRow: j.Start.Row,
		StartCol: j.Start.Col,
		Moves:    j.Moves,
		Ticks:    len(j.Moves),
		Length:   res.Final.Length,
		Outcome:  res.Final.Status.String(),
	}
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS replays (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			seed INTEGER NOT NULL,
			board_rows INTEGER NOT NULL,
			board_cols INTEGER NOT NULL,
			start_row INTEGER NOT NULL,
			start_col INTEGER NOT NULL,
			moves TEXT NOT NULL,
			ticks INTEGER NOT NULL,
			length INTEGER NOT NULL,
			outcome TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_replays_created ON replays(created_at DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveReplay records a finished game and returns its generated ID.
func (s *Store) SaveReplay(r Replay) (string, error) {
	id := uuid.NewString()
	_, err := s.db.Exec(
		`INSERT INTO replays (id, seed, board_rows, board_cols, start_row, start_col, moves, ticks, length, outcome)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, r.Seed, r.Rows, r.Cols, r.StartRow, r.StartCol, r.Moves, r.Ticks, r.Length, r.Outcome,
	)
	if err != nil {
		return "", fmt.Errorf("storage: cannot save replay: %w", err)
	}
	return id, nil
}

// GetReplay loads a replay by ID. Returns ErrNotFound if missing.
func (s *Store) GetReplay(id string) (*Replay, error) {
	row := s.db.QueryRow(
		`SELECT id, seed, board_rows, board_cols, start_row, start_col, moves, ticks, length, outcome, created_at
		 FROM replays
		 WHERE id = ?`,
		id,
	)

	r, err := scanReplay(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query replay: %w", err)
	}
	return r, nil
}

// RecentReplays returns up to limit replays, newest first.
func (s *Store) RecentReplays(limit int) ([]Replay, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT id, seed, board_rows, board_cols, start_row, start_col, moves, ticks, length, outcome, created_at
		 FROM replays
		 ORDER BY seq DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query replays: %w", err)
	}
	defer rows.Close()

	var replays []Replay
	for rows.Next() {
		r, err := scanReplay(rows)
		if err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		replays = append(replays, *r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return replays, nil
}

// DeleteReplay removes a replay. Returns ErrNotFound if missing.
func (s *Store) DeleteReplay(id string) error {
	result, err := s.db.Exec("DELETE FROM replays WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("storage: cannot delete replay: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("storage: cannot get affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanReplay(sc scanner) (*Replay, error) {
	var r Replay
	var createdAt any
	if err := sc.Scan(
		&r.ID,
		&r.Seed,
		&r.Rows,
		&r.Cols,
		&r.StartRow,
		&r.StartCol,
		&r.Moves,
		&r.Ticks,
		&r.Length,
		&r.Outcome,
		&createdAt,
	); err != nil {
		return nil, err
	}

	// Parse the datetime - handle both time.Time and string
	switch v := createdAt.(type) {
	case time.Time:
		r.CreatedAt = v
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", v); err == nil {
			r.CreatedAt = parsed
		}
	}
	return &r, nil
}
