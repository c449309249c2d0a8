// Package storage provides SQLite-based persistence for the completion
// history: every solved level, by whom, in how many steps and how long.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Store manages the SQLite database connection for the completion history.
type Store struct {
	db *sql.DB
}

// Completion is one solved level.
type Completion struct {
	ID         int64
	LevelID    string
	PlayerName string
	Steps      int
	Elapsed    time.Duration
	CreatedAt  time.Time
}

// LevelStats contains aggregated statistics for a level.
type LevelStats struct {
	LevelID     string
	Completions int
	Players     int
	BestSteps   int
	BestElapsed time.Duration // Fastest completion, regardless of steps
	AvgSteps    float64
	LastPlayed  time.Time
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

	// SSH sessions write concurrently; SQLite allows one writer at a time.
	db.SetMaxOpenConns(1)

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
		CREATE TABLE IF NOT EXISTS completions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			level_id TEXT NOT NULL,
			player_name TEXT NOT NULL,
			steps INTEGER NOT NULL,
			elapsed_ms INTEGER NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_completions_level_id ON completions(level_id);
		CREATE INDEX IF NOT EXISTS idx_completions_top ON completions(level_id, steps, elapsed_ms);
		CREATE INDEX IF NOT EXISTS idx_completions_player ON completions(player_name);
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

// SaveCompletion records a solved level.
// Returns the ID of the inserted record.
func (s *Store) SaveCompletion(c Completion) (int64, error) {
	if c.LevelID == "" {
		return 0, errors.New("storage: completion has no level id")
	}

	result, err := s.db.Exec(
		"INSERT INTO completions (level_id, player_name, steps, elapsed_ms) VALUES (?, ?, ?, ?)",
		c.LevelID, c.PlayerName, c.Steps, c.Elapsed.Milliseconds(),
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save completion: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// TopCompletions retrieves the best N completions of a level.
// Results are ordered by steps, then by time.
func (s *Store) TopCompletions(levelID string, limit int) ([]Completion, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT id, level_id, player_name, steps, elapsed_ms, created_at
		 FROM completions
		 WHERE level_id = ?
		 ORDER BY steps ASC, elapsed_ms ASC, id ASC
		 LIMIT ?`,
		levelID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query completions: %w", err)
	}
	return scanCompletions(rows)
}

// RecentCompletions retrieves the latest completions across all levels.
func (s *Store) RecentCompletions(limit int) ([]Completion, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT id, level_id, player_name, steps, elapsed_ms, created_at
		 FROM completions
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query completions: %w", err)
	}
	return scanCompletions(rows)
}

// PlayerCompletions retrieves the latest completions of one player.
func (s *Store) PlayerCompletions(player string, limit int) ([]Completion, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT id, level_id, player_name, steps, elapsed_ms, created_at
		 FROM completions
		 WHERE player_name = ?
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
		player, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query player completions: %w", err)
	}
	return scanCompletions(rows)
}

// scanCompletions reads every row and closes rows.
func scanCompletions(rows *sql.Rows) ([]Completion, error) {
	defer rows.Close()

	var entries []Completion
	for rows.Next() {
		var c Completion
		var elapsedMS int64
		var createdAt any
		if err := rows.Scan(&c.ID, &c.LevelID, &c.PlayerName, &c.Steps, &elapsedMS, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		c.Elapsed = time.Duration(elapsedMS) * time.Millisecond
		c.CreatedAt = parseTime(createdAt)
		entries = append(entries, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return entries, nil
}

// ClearLevel deletes the history of one level.
func (s *Store) ClearLevel(levelID string) error {
	_, err := s.db.Exec("DELETE FROM completions WHERE level_id = ?", levelID)
	if err != nil {
		return fmt.Errorf("storage: cannot clear completions: %w", err)
	}
	return nil
}

// LevelStats retrieves aggregated statistics for one level.
// A level that was never completed yields zero stats.
func (s *Store) LevelStats(levelID string) (*LevelStats, error) {
	stats := &LevelStats{LevelID: levelID}

	var bestElapsedMS int64
	var lastPlayed any
	err := s.db.QueryRow(
		`SELECT COUNT(*), COUNT(DISTINCT player_name), COALESCE(MIN(steps), 0),
		        COALESCE(MIN(elapsed_ms), 0), COALESCE(AVG(steps), 0), MAX(created_at)
		 FROM completions WHERE level_id = ?`,
		levelID,
	).Scan(&stats.Completions, &stats.Players, &stats.BestSteps, &bestElapsedMS, &stats.AvgSteps, &lastPlayed)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get level stats: %w", err)
	}

	stats.BestElapsed = time.Duration(bestElapsedMS) * time.Millisecond
	stats.LastPlayed = parseTime(lastPlayed)
	return stats, nil
}

// AllLevelStats retrieves statistics for every level that has been completed.
func (s *Store) AllLevelStats() (map[string]*LevelStats, error) {
	rows, err := s.db.Query(
		`SELECT level_id, COUNT(*), COUNT(DISTINCT player_name), MIN(steps),
		        MIN(elapsed_ms), AVG(steps), MAX(created_at)
		 FROM completions
		 GROUP BY level_id`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get all level stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]*LevelStats)
	for rows.Next() {
		var ls LevelStats
		var bestElapsedMS int64
		var lastPlayed any
		if err := rows.Scan(&ls.LevelID, &ls.Completions, &ls.Players, &ls.BestSteps,
			&bestElapsedMS, &ls.AvgSteps, &lastPlayed); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		ls.BestElapsed = time.Duration(bestElapsedMS) * time.Millisecond
		ls.LastPlayed = parseTime(lastPlayed)
		stats[ls.LevelID] = &ls
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return stats, nil
}

// parseTime handles created_at values, which the driver returns either as
// time.Time or as text depending on the query.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	case []byte:
		if parsed, err := time.Parse("2006-01-02 15:04:05", string(t)); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
