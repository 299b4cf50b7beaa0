// Package storage keeps the match history in SQLite.
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

	"github.com/vovakirdan/tankduel/internal/core"
	"github.com/vovakirdan/tankduel/internal/loop"
)

// sqliteTime is the layout CURRENT_TIMESTAMP produces.
const sqliteTime = "2006-01-02 15:04:05"

// Store manages the SQLite database connection for match history.
type Store struct {
	db *sql.DB
}

// Match is one recorded match.
type Match struct {
	ID        int64
	MatchID   string
	MapName   string
	Source    string
	Winner    int    // 1 or 2, zero for a draw or an abandoned match
	EndReason string // "completed" or "abandoned"
	Lives1    int
	Lives2    int
	Ticks     int64
	Duration  time.Duration
	StartedAt time.Time
	CreatedAt time.Time
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
		CREATE TABLE IF NOT EXISTS matches (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			match_id TEXT NOT NULL UNIQUE,
			map_name TEXT NOT NULL,
			source TEXT NOT NULL DEFAULT 'local',
			winner INTEGER NOT NULL DEFAULT 0,
			end_reason TEXT NOT NULL,
			lives1 INTEGER NOT NULL DEFAULT 0,
			lives2 INTEGER NOT NULL DEFAULT 0,
			ticks INTEGER NOT NULL DEFAULT 0,
			duration_ms INTEGER NOT NULL DEFAULT 0,
			started_at TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_matches_map_name ON matches(map_name);
		CREATE INDEX IF NOT EXISTS idx_matches_created_at ON matches(created_at DESC);
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

// SaveMatch records a match. Returns the ID of the inserted record.
func (s *Store) SaveMatch(m Match) (int64, error) {
	var startedAt any
	if !m.StartedAt.IsZero() {
		startedAt = m.StartedAt.UTC().Format(time.RFC3339Nano)
	}

	res, err := s.db.Exec(
		`INSERT INTO matches
		 (match_id, map_name, source, winner, end_reason, lives1, lives2, ticks, duration_ms, started_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.MatchID,
		m.MapName,
		m.Source,
		m.Winner,
		m.EndReason,
		m.Lives1,
		m.Lives2,
		m.Ticks,
		m.Duration.Milliseconds(),
		startedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save match: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

const matchColumns = `id, match_id, map_name, source, winner, end_reason,
		        lives1, lives2, ticks, duration_ms, started_at, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMatch(row rowScanner) (Match, error) {
	var m Match
	var durationMs int64
	var startedAt sql.NullString
	var createdAt any

	if err := row.Scan(
		&m.ID,
		&m.MatchID,
		&m.MapName,
		&m.Source,
		&m.Winner,
		&m.EndReason,
		&m.Lives1,
		&m.Lives2,
		&m.Ticks,
		&durationMs,
		&startedAt,
		&createdAt,
	); err != nil {
		return Match{}, err
	}

	m.Duration = time.Duration(durationMs) * time.Millisecond
	if startedAt.Valid {
		if parsed, err := time.Parse(time.RFC3339Nano, startedAt.String); err == nil {
			m.StartedAt = parsed
		}
	}
	m.CreatedAt = parseTime(createdAt)
	return m, nil
}

// parseTime handles both driver-parsed times and raw SQLite strings.
func parseTime(v any) time.Time {
	switch v := v.(type) {
	case time.Time:
		return v
	case string:
		if parsed, err := time.Parse(sqliteTime, v); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

// MatchByID retrieves a match by its match ID. Returns nil if not found.
func (s *Store) MatchByID(matchID string) (*Match, error) {
	row := s.db.QueryRow(
		`SELECT `+matchColumns+`
		 FROM matches
		 WHERE match_id = ?`,
		matchID,
	)

	m, err := scanMatch(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query match: %w", err)
	}
	return &m, nil
}

// RecentMatches retrieves the most recent matches, newest first.
// An empty mapName matches every map.
func (s *Store) RecentMatches(mapName string, limit int) ([]Match, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT `+matchColumns+`
		 FROM matches
		 WHERE ? = '' OR map_name = ?
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
		mapName, mapName, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query matches: %w", err)
	}
	defer rows.Close()

	var matches []Match
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		matches = append(matches, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return matches, nil
}

// ClearMatches deletes the history of one map, or of every map when
// mapName is empty. Returns the number of deleted matches.
func (s *Store) ClearMatches(mapName string) (int64, error) {
	res, err := s.db.Exec("DELETE FROM matches WHERE ? = '' OR map_name = ?", mapName, mapName)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot clear matches: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot count deleted matches: %w", err)
	}
	return n, nil
}

// SaveMatchResult implements loop.MatchResultSaver.
func (s *Store) SaveMatchResult(r loop.MatchResult) error {
	_, err := s.SaveMatch(Match{
		MatchID:   r.MatchID,
		MapName:   r.MapName,
		Source:    r.Source,
		Winner:    int(r.Winner),
		EndReason: string(r.Reason),
		Lives1:    r.Lives[core.Player1.Index()],
		Lives2:    r.Lives[core.Player2.Index()],
		Ticks:     int64(r.Ticks),
		Duration:  r.Duration,
		StartedAt: r.StartedAt,
	})
	return err
}

// Ensure Store implements MatchResultSaver
var _ loop.MatchResultSaver = (*Store)(nil)

// MapStats contains aggregated results for one map.
type MapStats struct {
	MapName    string
	Matches    int
	Wins1      int
	Wins2      int
	Draws      int
	Abandoned  int
	AvgTicks   float64
	LastPlayed time.Time
}

const statsColumns = `COUNT(*),
		        COALESCE(SUM(CASE WHEN end_reason = 'completed' AND winner = 1 THEN 1 ELSE 0 END), 0),
		        COALESCE(SUM(CASE WHEN end_reason = 'completed' AND winner = 2 THEN 1 ELSE 0 END), 0),
		        COALESCE(SUM(CASE WHEN end_reason = 'completed' AND winner = 0 THEN 1 ELSE 0 END), 0),
		        COALESCE(SUM(CASE WHEN end_reason <> 'completed' THEN 1 ELSE 0 END), 0),
		        COALESCE(AVG(CASE WHEN end_reason = 'completed' THEN ticks END), 0),
		        MAX(created_at)`

// Stats retrieves aggregated results for a map.
func (s *Store) Stats(mapName string) (*MapStats, error) {
	stats := &MapStats{MapName: mapName}
	var lastPlayed any

	err := s.db.QueryRow(
		`SELECT `+statsColumns+`
		 FROM matches WHERE map_name = ?`,
		mapName,
	).Scan(&stats.Matches, &stats.Wins1, &stats.Wins2, &stats.Draws, &stats.Abandoned, &stats.AvgTicks, &lastPlayed)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get map stats: %w", err)
	}
	stats.LastPlayed = parseTime(lastPlayed)

	return stats, nil
}

// AllStats retrieves statistics for every map that has been played.
func (s *Store) AllStats() (map[string]*MapStats, error) {
	rows, err := s.db.Query(
		`SELECT map_name, ` + statsColumns + `
		 FROM matches
		 GROUP BY map_name`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get all map stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]*MapStats)
	for rows.Next() {
		var st MapStats
		var lastPlayed any
		if err := rows.Scan(&st.MapName, &st.Matches, &st.Wins1, &st.Wins2, &st.Draws, &st.Abandoned, &st.AvgTicks, &lastPlayed); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		st.LastPlayed = parseTime(lastPlayed)
		stats[st.MapName] = &st
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return stats, nil
}
