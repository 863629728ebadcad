package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// ErrPromptNotFound is returned when a referenced prompt id does not resolve.
var ErrPromptNotFound = errors.New("prompt not found")

// ErrNameRequired is returned when a prompt is saved without a name.
var ErrNameRequired = errors.New("prompt name is required")

// Store handles persistence of analysis prompts and bot settings using SQLite
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// NewStore creates a new SQLite-backed store at the given path
func NewStore(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set WAL mode: %w", err)
	}

	s := &Store{db: db}

	if err := s.init(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return s, nil
}

// init creates the necessary tables if they don't exist
func (s *Store) init() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS prompts (
			id             TEXT PRIMARY KEY,
			name           TEXT NOT NULL,
			system_prompt  TEXT NOT NULL,
			user_prompt    TEXT NOT NULL,
			analysis_type  TEXT NOT NULL,
			created_at     TEXT NOT NULL,
			updated_at     TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS bot_settings (
			id                 TEXT PRIMARY KEY,
			default_prompt_id  TEXT,
			created_at         TEXT NOT NULL,
			updated_at         TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_prompts_created ON prompts(created_at);
		CREATE INDEX IF NOT EXISTS idx_prompts_type ON prompts(analysis_type);
	`)
	return err
}

// CreatePrompt inserts a new prompt and returns it with id and timestamps set.
func (s *Store) CreatePrompt(fields PromptFields) (*Prompt, error) {
	if strings.TrimSpace(fields.Name) == "" {
		return nil, ErrNameRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	nowStr := now.Format(time.RFC3339)
	id := uuid.NewString()

	_, err := s.db.Exec(`
		INSERT INTO prompts (id, name, system_prompt, user_prompt, analysis_type, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, id, fields.Name, fields.SystemPrompt, fields.UserPrompt, fields.AnalysisType, nowStr, nowStr)
	if err != nil {
		return nil, err
	}

	return &Prompt{
		ID:           id,
		Name:         fields.Name,
		SystemPrompt: fields.SystemPrompt,
		UserPrompt:   fields.UserPrompt,
		AnalysisType: fields.AnalysisType,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// GetPrompt returns the prompt with the given id, or nil when it does not exist.
func (s *Store) GetPrompt(id string) (*Prompt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRow(`
		SELECT id, name, system_prompt, user_prompt, analysis_type, created_at, updated_at
		FROM prompts
		WHERE id = ?
	`, id)

	p, err := scanPrompt(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return p, err
}

// ListPrompts returns all prompts, newest-created first.
func (s *Store) ListPrompts() ([]*Prompt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	// rowid tiebreak keeps same-second inserts in insertion order
	rows, err := s.db.Query(`
		SELECT id, name, system_prompt, user_prompt, analysis_type, created_at, updated_at
		FROM prompts
		ORDER BY created_at DESC, rowid DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var prompts []*Prompt
	for rows.Next() {
		p, err := scanPrompt(rows)
		if err != nil {
			return nil, err
		}
		prompts = append(prompts, p)
	}

	return prompts, rows.Err()
}

// UpdatePrompt overwrites the four content fields of a prompt.
func (s *Store) UpdatePrompt(id string, fields PromptFields) (*Prompt, error) {
	if strings.TrimSpace(fields.Name) == "" {
		return nil, ErrNameRequired
	}

	s.mu.Lock()

	nowStr := time.Now().Format(time.RFC3339)
	result, err := s.db.Exec(`
		UPDATE prompts
		SET name = ?, system_prompt = ?, user_prompt = ?, analysis_type = ?, updated_at = ?
		WHERE id = ?
	`, fields.Name, fields.SystemPrompt, fields.UserPrompt, fields.AnalysisType, nowStr, id)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		s.mu.Unlock()
		return nil, ErrPromptNotFound
	}
	s.mu.Unlock()

	return s.GetPrompt(id)
}

// DeletePrompt removes a prompt. Deleting an unknown id is not an error.
func (s *Store) DeletePrompt(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`DELETE FROM prompts WHERE id = ?`, id)
	return err
}

// GetSettings returns the singleton settings row, or nil when none exists yet.
func (s *Store) GetSettings() (*Settings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.getSettingsInternal()
}

func (s *Store) getSettingsInternal() (*Settings, error) {
	row := s.db.QueryRow(`
		SELECT id, default_prompt_id, created_at, updated_at
		FROM bot_settings
		LIMIT 1
	`)

	var st Settings
	var defaultPromptID sql.NullString
	var createdAt, updatedAt string

	err := row.Scan(&st.ID, &defaultPromptID, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	st.DefaultPromptID = defaultPromptID.String
	if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
		st.CreatedAt = t
	}
	if t, err := time.Parse(time.RFC3339, updatedAt); err == nil {
		st.UpdatedAt = t
	}

	return &st, nil
}

// SaveSettings sets the default prompt id, creating the singleton row on
// first save. A non-empty id must resolve to an existing prompt; the check
// runs before any write so a failed save leaves the row untouched. An empty
// id clears the default.
func (s *Store) SaveSettings(defaultPromptID string) (*Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if defaultPromptID != "" {
		var exists string
		err := s.db.QueryRow(`SELECT id FROM prompts WHERE id = ?`, defaultPromptID).Scan(&exists)
		if err == sql.ErrNoRows {
			return nil, ErrPromptNotFound
		}
		if err != nil {
			return nil, err
		}
	}

	existing, err := s.getSettingsInternal()
	if err != nil {
		return nil, err
	}

	nowStr := time.Now().Format(time.RFC3339)
	stored := sql.NullString{String: defaultPromptID, Valid: defaultPromptID != ""}

	if existing != nil {
		_, err = s.db.Exec(`
			UPDATE bot_settings SET default_prompt_id = ?, updated_at = ? WHERE id = ?
		`, stored, nowStr, existing.ID)
	} else {
		_, err = s.db.Exec(`
			INSERT INTO bot_settings (id, default_prompt_id, created_at, updated_at)
			VALUES (?, ?, ?, ?)
		`, uuid.NewString(), stored, nowStr, nowStr)
	}
	if err != nil {
		return nil, err
	}

	return s.getSettingsInternal()
}

// GetStats summarizes prompt counts for today, the current month, and by category.
func (s *Store) GetStats(now time.Time) (*Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	stats := &Stats{TypeStats: map[string]int{}}

	if err := s.db.QueryRow(`SELECT COUNT(*) FROM prompts`).Scan(&stats.TotalPrompts); err != nil {
		return nil, err
	}
	if err := s.db.QueryRow(`
		SELECT COUNT(*) FROM prompts WHERE created_at >= ? AND created_at < ?
	`, startOfDay.Format(time.RFC3339), startOfDay.AddDate(0, 0, 1).Format(time.RFC3339)).Scan(&stats.TodayPrompts); err != nil {
		return nil, err
	}
	if err := s.db.QueryRow(`
		SELECT COUNT(*) FROM prompts WHERE created_at >= ? AND created_at < ?
	`, startOfMonth.Format(time.RFC3339), startOfMonth.AddDate(0, 1, 0).Format(time.RFC3339)).Scan(&stats.MonthPrompts); err != nil {
		return nil, err
	}

	rows, err := s.db.Query(`SELECT analysis_type, COUNT(*) FROM prompts GROUP BY analysis_type`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var typ string
		var count int
		if err := rows.Scan(&typ, &count); err != nil {
			return nil, err
		}
		stats.TypeStats[typ] = count
	}

	return stats, rows.Err()
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPrompt(row rowScanner) (*Prompt, error) {
	var p Prompt
	var createdAt, updatedAt string

	err := row.Scan(&p.ID, &p.Name, &p.SystemPrompt, &p.UserPrompt, &p.AnalysisType, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
		p.CreatedAt = t
	}
	if t, err := time.Parse(time.RFC3339, updatedAt); err == nil {
		p.UpdatedAt = t
	}

	return &p, nil
}
