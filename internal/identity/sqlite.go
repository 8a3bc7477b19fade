package identity

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStore is the default persistent Store, backed by a single-file
// sqlite database.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite creates or opens the identity database at path.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS identities (
		user_id TEXT PRIMARY KEY,
		email TEXT NOT NULL,
		updated_at DATETIME NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteStore) Remember(ctx context.Context, chatUserID, email string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO identities (user_id, email, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			email = excluded.email,
			updated_at = excluded.updated_at
	`, chatUserID, email, time.Now())
	if err != nil {
		return fmt.Errorf("failed to save identity: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Forget(ctx context.Context, chatUserID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM identities WHERE user_id = ?`, chatUserID)
	if err != nil {
		return fmt.Errorf("failed to delete identity: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Lookup(ctx context.Context, chatUserID string) (string, bool, error) {
	var email string
	err := s.db.QueryRowContext(ctx, `SELECT email FROM identities WHERE user_id = ?`, chatUserID).Scan(&email)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to load identity: %w", err)
	}
	return email, true, nil
}
