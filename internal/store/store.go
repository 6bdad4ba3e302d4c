package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"reelcheck/internal/services"
)

// Record is a stored fact-check.
type Record struct {
	ID           string
	URL          string
	Transcript   string
	Language     string
	Backend      string
	Strategy     string
	AnalysisJSON string
	Rating       float64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Shortcode returns the reel shortcode the record is keyed by.
func (r Record) Shortcode() string { return r.ID }

// ChatTurn is one stored question and answer.
type ChatTurn struct {
	UserMessage       string
	AssistantResponse string
	CreatedAt         time.Time
}

// Store manages fact-check persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

const (
	sqliteBusyCode          = 5
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
)

// Open initializes or connects to the database at path.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.ExecContext(ctx, pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}
	store := &Store{db: db, path: path}
	if err := store.initSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string { return s.path }

// Get returns the record for id, or nil when none exists.
func (s *Store) Get(ctx context.Context, id string) (*Record, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+recordColumns+` FROM fact_checks WHERE id = ?`, id)
	record, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get fact check: %w", err)
	}
	return record, nil
}

// Put inserts or replaces the record keyed by rec.ID and returns the id.
// CreatedAt of an existing record is preserved.
func (s *Store) Put(ctx context.Context, rec Record) (string, error) {
	id := strings.TrimSpace(rec.ID)
	if id == "" {
		return "", services.Wrap(services.ErrValidation, "store", "put", "record id is empty", nil)
	}
	now := time.Now().UTC()
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = now
	}
	_, err := s.execWithRetry(ctx,
		`INSERT INTO fact_checks (
            id, reel_url, transcript, language, backend, strategy,
            analysis_json, rating, created_at, updated_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT(id) DO UPDATE SET
            reel_url = excluded.reel_url,
            transcript = excluded.transcript,
            language = excluded.language,
            backend = excluded.backend,
            strategy = excluded.strategy,
            analysis_json = excluded.analysis_json,
            rating = excluded.rating,
            updated_at = excluded.updated_at`,
		id,
		rec.URL,
		rec.Transcript,
		rec.Language,
		nullableString(rec.Backend),
		nullableString(rec.Strategy),
		rec.AnalysisJSON,
		rec.Rating,
		rec.CreatedAt.UTC().Format(time.RFC3339Nano),
		now.Format(time.RFC3339Nano),
	)
	if err != nil {
		return "", fmt.Errorf("put fact check: %w", err)
	}
	return id, nil
}

// List returns up to limit records, newest first. A limit <= 0 returns all.
func (s *Store) List(ctx context.Context, limit int) ([]Record, error) {
	query := `SELECT ` + recordColumns + ` FROM fact_checks ORDER BY created_at DESC, id`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list fact checks: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan fact check: %w", err)
		}
		records = append(records, *record)
	}
	return records, rows.Err()
}

// Delete removes a record and its chat history.
func (s *Store) Delete(ctx context.Context, id string) (bool, error) {
	res, err := s.execWithRetry(ctx, `DELETE FROM fact_checks WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete fact check: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}

// AppendChat records a question and answer for the fact check id.
func (s *Store) AppendChat(ctx context.Context, id, userMessage, assistantResponse string) error {
	_, err := s.execWithRetry(ctx,
		`INSERT INTO chat_messages (fact_check_id, user_message, assistant_response, created_at)
         VALUES (?, ?, ?, ?)`,
		id, userMessage, assistantResponse, time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		if strings.Contains(err.Error(), "FOREIGN KEY") {
			return services.Wrap(services.ErrNotFound, "store", "append chat", "no fact check "+id, err)
		}
		return fmt.Errorf("append chat: %w", err)
	}
	return nil
}

// ChatHistory returns the chat turns for id, oldest first.
func (s *Store) ChatHistory(ctx context.Context, id string) ([]ChatTurn, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT user_message, assistant_response, created_at
         FROM chat_messages WHERE fact_check_id = ? ORDER BY id`, id)
	if err != nil {
		return nil, fmt.Errorf("chat history: %w", err)
	}
	defer rows.Close()

	var turns []ChatTurn
	for rows.Next() {
		var (
			turn       ChatTurn
			createdRaw string
		)
		if err := rows.Scan(&turn.UserMessage, &turn.AssistantResponse, &createdRaw); err != nil {
			return nil, fmt.Errorf("scan chat turn: %w", err)
		}
		turn.CreatedAt = parseTime(createdRaw)
		turns = append(turns, turn)
	}
	return turns, rows.Err()
}

// Count returns the number of stored records.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM fact_checks`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count fact checks: %w", err)
	}
	return n, nil
}
