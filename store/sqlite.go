package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/ecotrip/orchestrator/domain"
)

// SQLiteStore implements Store using SQLite, with session and snapshot
// records stored as JSON documents.
type SQLiteStore struct {
	db *sql.DB
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore creates a new SQLite store.
func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// migrate runs database migrations.
func (s *SQLiteStore) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			session_id TEXT PRIMARY KEY,
			data TEXT NOT NULL,
			last_active DATETIME NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS snapshots (
			key TEXT PRIMARY KEY,
			data TEXT NOT NULL,
			updated_at DATETIME NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_last_active ON sessions(last_active)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}

	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Get retrieves a session by ID, returning (nil, nil) when absent.
func (s *SQLiteStore) Get(ctx context.Context, sessionID string) (*domain.Session, error) {
	var data string
	err := s.db.QueryRowContext(ctx,
		`SELECT data FROM sessions WHERE session_id = ?`, sessionID).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	var session domain.Session
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}

	return &session, nil
}

// Put stores the full session record, replacing any previous one.
func (s *SQLiteStore) Put(ctx context.Context, session *domain.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	return upsert(ctx, s.db,
		`UPDATE sessions SET data = ?, last_active = ? WHERE session_id = ?`,
		`INSERT INTO sessions (session_id, data, last_active) VALUES (?, ?, ?)`,
		session.SessionID, string(data), session.LastActive)
}

// Update merges the patch into the stored record inside a transaction,
// creating a fresh record when absent, and refreshes last_active.
func (s *SQLiteStore) Update(ctx context.Context, sessionID string, patch *Patch) (*domain.Session, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var session *domain.Session
	var data string
	err = tx.QueryRowContext(ctx,
		`SELECT data FROM sessions WHERE session_id = ?`, sessionID).Scan(&data)
	switch {
	case err == sql.ErrNoRows:
		session = domain.NewSession(sessionID, "")
	case err != nil:
		return nil, fmt.Errorf("failed to get session: %w", err)
	default:
		session = &domain.Session{}
		if err := json.Unmarshal([]byte(data), session); err != nil {
			return nil, fmt.Errorf("failed to decode session: %w", err)
		}
	}

	patch.Apply(session)

	encoded, err := json.Marshal(session)
	if err != nil {
		return nil, fmt.Errorf("failed to encode session: %w", err)
	}

	if err := upsert(ctx, tx,
		`UPDATE sessions SET data = ?, last_active = ? WHERE session_id = ?`,
		`INSERT INTO sessions (session_id, data, last_active) VALUES (?, ?, ?)`,
		sessionID, string(encoded), session.LastActive); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return session, nil
}

// Delete removes a session record. Deleting an absent record is not an error.
func (s *SQLiteStore) Delete(ctx context.Context, sessionID string) error {
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM sessions WHERE session_id = ?`, sessionID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// PutSnapshot stores the snapshot at key, replacing any previous one.
func (s *SQLiteStore) PutSnapshot(ctx context.Context, key string, snap *domain.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	return upsert(ctx, s.db,
		`UPDATE snapshots SET data = ?, updated_at = ? WHERE key = ?`,
		`INSERT INTO snapshots (key, data, updated_at) VALUES (?, ?, ?)`,
		key, string(data), time.Now().UTC())
}

// GetSnapshot retrieves a snapshot by key, returning (nil, nil) when absent.
func (s *SQLiteStore) GetSnapshot(ctx context.Context, key string) (*domain.Snapshot, error) {
	var data string
	err := s.db.QueryRowContext(ctx,
		`SELECT data FROM snapshots WHERE key = ?`, key).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get snapshot: %w", err)
	}

	var snap domain.Snapshot
	if err := json.Unmarshal([]byte(data), &snap); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}

	return &snap, nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// upsert runs the UPDATE statement first and falls back to INSERT when no row
// matched.
func upsert(ctx context.Context, db execer, update, insert, id, data string, ts time.Time) error {
	res, err := db.ExecContext(ctx, update, data, ts, id)
	if err != nil {
		return fmt.Errorf("failed to update record: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected > 0 {
		return nil
	}

	if _, err := db.ExecContext(ctx, insert, id, data, ts); err != nil {
		return fmt.Errorf("failed to insert record: %w", err)
	}
	return nil
}
