package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"
	_ "modernc.org/sqlite"

	"github.com/valpere/lingo/internal"
)

type Store struct {
	db *sql.DB
}

// busyTimeoutMs is how long a writer waits on a locked database before
// giving up with SQLITE_BUSY.
const busyTimeoutMs = 5000

func New(dbPath string) (*Store, error) {
	dsn := fmt.Sprintf("%s?_pragma=busy_timeout(%d)&_pragma=journal_mode(WAL)", dbPath, busyTimeoutMs)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// SQLite allows one writer at a time; concurrent requests queue on the
	// pool instead of racing for the file lock.
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}

	return s, nil
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS interactions (
		id TEXT PRIMARY KEY,
		action TEXT NOT NULL,
		text TEXT NOT NULL,
		target_language TEXT,
		target_level TEXT,
		detected_lang TEXT,
		prompt TEXT NOT NULL,
		response TEXT,
		service TEXT,
		latency_ms INTEGER,
		error TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_interactions_created ON interactions(created_at);
	CREATE INDEX IF NOT EXISTS idx_interactions_action ON interactions(action);
	`

	_, err := s.db.Exec(schema)
	return err
}

// SaveInteraction stores it and returns the ID it was stored under. A missing
// ID or timestamp is filled in.
func (s *Store) SaveInteraction(ctx context.Context, it internal.Interaction) (string, error) {
	if it.ID == "" {
		it.ID = uuid.New().String()
	}
	if it.Timestamp.IsZero() {
		it.Timestamp = time.Now()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO interactions (id, action, text, target_language, target_level, detected_lang, prompt, response, service, latency_ms, error, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		it.ID, it.Action, normalizeText(it.Text), it.TargetLanguage, it.TargetLevel, it.DetectedLang,
		it.Prompt, it.Response, it.Service, it.Latency.Milliseconds(), it.Error, it.Timestamp)
	if err != nil {
		return "", err
	}
	return it.ID, nil
}

// Record satisfies the gateway's history recorder.
func (s *Store) Record(ctx context.Context, it internal.Interaction) error {
	_, err := s.SaveInteraction(ctx, it)
	return err
}

const selectColumns = `id, action, text, COALESCE(target_language, ''), COALESCE(target_level, ''), COALESCE(detected_lang, ''),
	prompt, COALESCE(response, ''), COALESCE(service, ''), COALESCE(latency_ms, 0), COALESCE(error, ''), created_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanInteraction(row scanner) (internal.Interaction, error) {
	var it internal.Interaction
	var latencyMs int64
	err := row.Scan(&it.ID, &it.Action, &it.Text, &it.TargetLanguage, &it.TargetLevel, &it.DetectedLang,
		&it.Prompt, &it.Response, &it.Service, &latencyMs, &it.Error, &it.Timestamp)
	it.Latency = time.Duration(latencyMs) * time.Millisecond
	return it, err
}

// GetInteraction returns the entry with the given ID, or false when absent.
func (s *Store) GetInteraction(ctx context.Context, id string) (*internal.Interaction, bool, error) {
	it, err := scanInteraction(s.db.QueryRowContext(ctx,
		`SELECT `+selectColumns+` FROM interactions WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return &it, true, nil
}

// ListInteractions returns the most recent entries first. limit <= 0 returns all.
func (s *Store) ListInteractions(ctx context.Context, limit int) ([]internal.Interaction, error) {
	query := `SELECT ` + selectColumns + ` FROM interactions ORDER BY created_at DESC`
	var args []interface{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []internal.Interaction
	for rows.Next() {
		it, err := scanInteraction(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, it)
	}

	return results, rows.Err()
}

// DeleteInteraction permanently removes an entry by ID.
func (s *Store) DeleteInteraction(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM interactions WHERE id = ?`, id)
	return err
}

// Clear removes all entries.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM interactions`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Stats summarises the history.
type Stats struct {
	Total     int
	Succeeded int
	Failed    int
	ByAction  map[string]int
}

func (s *Store) Stats(ctx context.Context) (*Stats, error) {
	stats := &Stats{ByAction: make(map[string]int)}

	err := s.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN COALESCE(error, '') = '' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN COALESCE(error, '') != '' THEN 1 ELSE 0 END), 0)
		FROM interactions`).Scan(&stats.Total, &stats.Succeeded, &stats.Failed)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `SELECT action, COUNT(*) FROM interactions GROUP BY action`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var action string
		var n int
		if err := rows.Scan(&action, &n); err != nil {
			return nil, err
		}
		stats.ByAction[action] = n
	}
	return stats, rows.Err()
}

func (s *Store) Close() error {
	return s.db.Close()
}

// normalizeText trims whitespace and applies Unicode NFC normalization so the
// same text typed on different platforms is stored identically.
func normalizeText(text string) string {
	return norm.NFC.String(strings.TrimSpace(text))
}
