// Package storage provides SQLite-based persistence for finished games.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"crypto/rand"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("storage: not found")

// Store manages the SQLite database connection.
type Store struct {
	db *sql.DB
}

// GameRecord is one finished or abandoned game.
type GameRecord struct {
	ID        string // ULID, sortable by creation time
	Variant   string // registry game ID, e.g. "klondike"
	Solvable  bool
	DrawCount int
	Won       bool
	Score     int
	Moves     int
	Duration  time.Duration
	Player    string
	CreatedAt time.Time
}

// NewID returns a new ULID string for the current time.
func NewID() string {
	return ulid.MustNew(ulid.Now(), rand.Reader).String()
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
		CREATE TABLE IF NOT EXISTS games (
			id TEXT PRIMARY KEY,
			variant TEXT NOT NULL,
			solvable INTEGER NOT NULL DEFAULT 0,
			draw_count INTEGER NOT NULL DEFAULT 3,
			won INTEGER NOT NULL DEFAULT 0,
			score INTEGER NOT NULL,
			moves INTEGER NOT NULL DEFAULT 0,
			duration_secs INTEGER NOT NULL DEFAULT 0,
			player TEXT NOT NULL DEFAULT '',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_games_variant ON games(variant);
		CREATE INDEX IF NOT EXISTS idx_games_top ON games(variant, score DESC);
		CREATE INDEX IF NOT EXISTS idx_games_player ON games(player);
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

const gameColumns = `id, variant, solvable, draw_count, won, score, moves, duration_secs, player, created_at`

// SaveGame records a game. An empty ID is filled with a new ULID.
// Returns the record ID.
func (s *Store) SaveGame(g GameRecord) (string, error) {
	if g.ID == "" {
		g.ID = NewID()
	} else if _, err := ulid.Parse(g.ID); err != nil {
		return "", fmt.Errorf("storage: invalid game id %q: %w", g.ID, err)
	}

	_, err := s.db.Exec(
		`INSERT INTO games (id, variant, solvable, draw_count, won, score, moves, duration_secs, player)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		g.ID, g.Variant, g.Solvable, g.DrawCount, g.Won, g.Score, g.Moves,
		int64(g.Duration/time.Second), g.Player,
	)
	if err != nil {
		return "", fmt.Errorf("storage: cannot save game: %w", err)
	}
	return g.ID, nil
}

// GameByID retrieves a game by its ULID. Returns ErrNotFound if missing.
func (s *Store) GameByID(id string) (*GameRecord, error) {
	if _, err := ulid.Parse(id); err != nil {
		return nil, fmt.Errorf("storage: invalid game id %q: %w", id, err)
	}

	row := s.db.QueryRow(`SELECT `+gameColumns+` FROM games WHERE id = ?`, id)
	g, err := scanGame(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query game: %w", err)
	}
	return &g, nil
}

// RecentGames retrieves the most recent games across all variants.
func (s *Store) RecentGames(limit int) ([]GameRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	// ULIDs sort by creation time.
	return s.queryGames(`SELECT `+gameColumns+` FROM games ORDER BY id DESC LIMIT ?`, limit)
}

// PlayerGames retrieves the most recent games of one player.
func (s *Store) PlayerGames(player string, limit int) ([]GameRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.queryGames(`SELECT `+gameColumns+` FROM games WHERE player = ? ORDER BY id DESC LIMIT ?`, player, limit)
}

// TopScores retrieves the top N games of a variant by score.
func (s *Store) TopScores(variant string, limit int) ([]GameRecord, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.queryGames(
		`SELECT `+gameColumns+`
		 FROM games
		 WHERE variant = ?
		 ORDER BY score DESC, id ASC
		 LIMIT ?`,
		variant, limit,
	)
}

// AllScores retrieves every game of a variant, best score first.
func (s *Store) AllScores(variant string) ([]GameRecord, error) {
	return s.queryGames(
		`SELECT `+gameColumns+` FROM games WHERE variant = ? ORDER BY score DESC, id ASC`,
		variant,
	)
}

// HighScore returns the highest score for a variant, or 0 if none exist.
func (s *Store) HighScore(variant string) (int, error) {
	var score sql.NullInt64
	err := s.db.QueryRow(
		"SELECT MAX(score) FROM games WHERE variant = ?",
		variant,
	).Scan(&score)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot query high score: %w", err)
	}

	if !score.Valid {
		return 0, nil
	}
	return int(score.Int64), nil
}

// ClearScores deletes all games of a variant.
func (s *Store) ClearScores(variant string) error {
	_, err := s.db.Exec("DELETE FROM games WHERE variant = ?", variant)
	if err != nil {
		return fmt.Errorf("storage: cannot clear scores: %w", err)
	}
	return nil
}

// WinRate returns the fraction of won games for a variant, and the number of
// games it is based on.
func (s *Store) WinRate(variant string) (float64, int, error) {
	var total, won int
	err := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(SUM(won), 0) FROM games WHERE variant = ?`,
		variant,
	).Scan(&total, &won)
	if err != nil {
		return 0, 0, fmt.Errorf("storage: cannot query win rate: %w", err)
	}
	if total == 0 {
		return 0, 0, nil
	}
	return float64(won) / float64(total), total, nil
}

// GameStats contains aggregated statistics for a variant.
type GameStats struct {
	Variant    string
	GamesCount int
	Wins       int
	HighScore  int
	AvgScore   float64
	BestTime   time.Duration // fastest win, 0 without wins
	LastPlayed time.Time
}

// WinRate returns Wins/GamesCount.
func (st GameStats) WinRate() float64 {
	if st.GamesCount == 0 {
		return 0
	}
	return float64(st.Wins) / float64(st.GamesCount)
}

const statsColumns = `variant, COUNT(*), COALESCE(SUM(won), 0), COALESCE(MAX(score), 0), COALESCE(AVG(score), 0),
	COALESCE(MIN(CASE WHEN won = 1 THEN duration_secs END), 0), MAX(created_at)`

// GetGameStats retrieves aggregated statistics for a variant.
func (s *Store) GetGameStats(variant string) (*GameStats, error) {
	rows, err := s.db.Query(`SELECT `+statsColumns+` FROM games WHERE variant = ? GROUP BY variant`, variant)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get game stats: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("storage: cannot get game stats: %w", err)
		}
		return &GameStats{Variant: variant}, nil
	}
	st, err := scanStats(rows)
	if err != nil {
		return nil, err
	}
	return &st, nil
}

// GetAllGamesStats retrieves statistics for every variant that has been played.
func (s *Store) GetAllGamesStats() (map[string]*GameStats, error) {
	rows, err := s.db.Query(`SELECT ` + statsColumns + ` FROM games GROUP BY variant`)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get all games stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]*GameStats)
	for rows.Next() {
		st, err := scanStats(rows)
		if err != nil {
			return nil, err
		}
		stats[st.Variant] = &st
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return stats, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func (s *Store) queryGames(query string, args ...any) ([]GameRecord, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query games: %w", err)
	}
	defer rows.Close()

	var games []GameRecord
	for rows.Next() {
		g, err := scanGame(rows)
		if err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		games = append(games, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return games, nil
}

func scanGame(row scanner) (GameRecord, error) {
	var g GameRecord
	var durationSecs int64
	var createdAt any
	err := row.Scan(&g.ID, &g.Variant, &g.Solvable, &g.DrawCount, &g.Won, &g.Score, &g.Moves,
		&durationSecs, &g.Player, &createdAt)
	if err != nil {
		return g, err
	}
	g.Duration = time.Duration(durationSecs) * time.Second
	g.CreatedAt = parseTime(createdAt)
	return g, nil
}

func scanStats(row scanner) (GameStats, error) {
	var st GameStats
	var bestSecs int64
	var lastPlayed any
	err := row.Scan(&st.Variant, &st.GamesCount, &st.Wins, &st.HighScore, &st.AvgScore, &bestSecs, &lastPlayed)
	if err != nil {
		return st, fmt.Errorf("storage: cannot scan stats row: %w", err)
	}
	st.BestTime = time.Duration(bestSecs) * time.Second
	st.LastPlayed = parseTime(lastPlayed)
	return st, nil
}

// parseTime handles both time.Time and string datetimes from the driver.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
