// Package store persists the correction table, the translation history and
// small key/value settings in a local sqlite database.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

type Store struct {
	db *sql.DB
}

func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}
	return s, nil
}

func (s *Store) migrate() error {
	schema := `
	-- corrections is the curated exact-match override table. AI translation
	-- is skipped entirely when a key matches.
	CREATE TABLE IF NOT EXISTS corrections (
		id TEXT PRIMARY KEY,
		source_text TEXT NOT NULL,
		source_lang TEXT NOT NULL,
		target_lang TEXT NOT NULL,
		translation TEXT NOT NULL,
		category TEXT NOT NULL DEFAULT 'general',
		priority INTEGER NOT NULL DEFAULT 1,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(source_text, source_lang, target_lang)
	);

	-- history is an append-only audit log of AI-produced translations.
	-- Correction-table hits are never recorded here.
	CREATE TABLE IF NOT EXISTS history (
		id TEXT PRIMARY KEY,
		original_text TEXT NOT NULL,
		translated_text TEXT NOT NULL,
		source_lang TEXT NOT NULL,
		target_lang TEXT NOT NULL,
		provider TEXT NOT NULL,
		model TEXT,
		file_name TEXT,
		seconds REAL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS settings (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_corrections_lookup ON corrections(source_text, source_lang, target_lang);
	CREATE INDEX IF NOT EXISTS idx_history_created ON history(created_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Correction is one row of the curated override table. At most one active
// row exists per (source_text, source_lang, target_lang) key.
type Correction struct {
	ID          string
	SourceText  string
	SourceLang  string
	TargetLang  string
	Translation string
	Category    string
	Priority    int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// UpsertCorrection inserts a correction or, when the key already exists,
// replaces its translation, category and priority and refreshes updated_at.
// The write is one statement, atomic with respect to the uniqueness
// invariant.
func (s *Store) UpsertCorrection(ctx context.Context, c Correction) error {
	if c.Category == "" {
		c.Category = "general"
	}
	if c.Priority == 0 {
		c.Priority = 1
	}
	now := time.Now().UTC()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO corrections (id, source_text, source_lang, target_lang, translation, category, priority, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(source_text, source_lang, target_lang) DO UPDATE SET
			translation = excluded.translation,
			category = excluded.category,
			priority = excluded.priority,
			updated_at = excluded.updated_at`,
		uuid.New().String(), c.SourceText, c.SourceLang, c.TargetLang,
		c.Translation, c.Category, c.Priority, now, now)
	if err != nil {
		return fmt.Errorf("upsert correction: %w", err)
	}
	return nil
}

// LookupCorrection returns the approved translation for an exact
// (text, source, target) key, or found=false. No normalization and no fuzzy
// matching: the override table means exactly what it says. Should legacy
// data ever hold several rows for one key, the highest-priority, most
// recently updated one wins.
func (s *Store) LookupCorrection(ctx context.Context, text, sourceLang, targetLang string) (string, bool, error) {
	var translation string
	err := s.db.QueryRowContext(ctx, `
		SELECT translation FROM corrections
		WHERE source_text = ? AND source_lang = ? AND target_lang = ?
		ORDER BY priority DESC, updated_at DESC
		LIMIT 1`,
		text, sourceLang, targetLang).Scan(&translation)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("lookup correction: %w", err)
	}
	return translation, true, nil
}

// ListCorrections returns corrections ordered by priority desc then recency,
// optionally filtered by language pair (pass empty strings for no filter).
func (s *Store) ListCorrections(ctx context.Context, sourceLang, targetLang string) ([]Correction, error) {
	query := `SELECT id, source_text, source_lang, target_lang, translation, category, priority, created_at, updated_at FROM corrections`
	var args []any
	switch {
	case sourceLang != "" && targetLang != "":
		query += ` WHERE source_lang = ? AND target_lang = ?`
		args = append(args, sourceLang, targetLang)
	case sourceLang != "":
		query += ` WHERE source_lang = ?`
		args = append(args, sourceLang)
	case targetLang != "":
		query += ` WHERE target_lang = ?`
		args = append(args, targetLang)
	}
	query += ` ORDER BY priority DESC, updated_at DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list corrections: %w", err)
	}
	defer rows.Close()

	var out []Correction
	for rows.Next() {
		var c Correction
		if err := rows.Scan(&c.ID, &c.SourceText, &c.SourceLang, &c.TargetLang,
			&c.Translation, &c.Category, &c.Priority, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// DeleteCorrection removes a correction by ID and reports whether a row was
// actually deleted.
func (s *Store) DeleteCorrection(ctx context.Context, id string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM corrections WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete correction: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// HistoryRecord is one append-only audit entry for an AI-invoked
// translation. Seconds is the measured wall-clock duration of the call.
type HistoryRecord struct {
	ID             string
	OriginalText   string
	TranslatedText string
	SourceLang     string
	TargetLang     string
	Provider       string
	Model          string
	FileName       string
	Seconds        float64
	CreatedAt      time.Time
}

// AppendHistory records one AI translation event.
func (s *Store) AppendHistory(ctx context.Context, rec HistoryRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO history (id, original_text, translated_text, source_lang, target_lang, provider, model, file_name, seconds)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.OriginalText, rec.TranslatedText, rec.SourceLang, rec.TargetLang,
		rec.Provider, rec.Model, rec.FileName, rec.Seconds)
	if err != nil {
		return fmt.Errorf("append history: %w", err)
	}
	return nil
}

// ListHistory returns up to limit history records, newest first.
func (s *Store) ListHistory(ctx context.Context, limit int) ([]HistoryRecord, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, original_text, translated_text, source_lang, target_lang, provider, COALESCE(model, ''), COALESCE(file_name, ''), COALESCE(seconds, 0), created_at
		FROM history ORDER BY created_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	defer rows.Close()

	var out []HistoryRecord
	for rows.Next() {
		var r HistoryRecord
		if err := rows.Scan(&r.ID, &r.OriginalText, &r.TranslatedText, &r.SourceLang, &r.TargetLang,
			&r.Provider, &r.Model, &r.FileName, &r.Seconds, &r.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// SetSetting stores a key/value application setting, replacing any previous
// value.
func (s *Store) SetSetting(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO settings (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("set setting: %w", err)
	}
	return nil
}

// GetSetting returns a stored setting value, or found=false.
func (s *Store) GetSetting(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get setting: %w", err)
	}
	return value, true, nil
}
