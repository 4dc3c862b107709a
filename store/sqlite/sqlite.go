/*
Package sqlite provides a SQLite-backed implementation of the storage interfaces.

PURPOSE:
  Implements wage.BlobStore (the engine's flat settings+state record) and
  a celebration history log using SQLite.

KEY TABLES:
  kv_state:     Key-value records. The engine's blob lives under
                wage.StorageKey as JSON text.
  celebrations: Append-only log of milestone celebrations, newest first
                when listed.

CORRUPT RECORDS:
  A kv_state value that is not valid JSON for wage.Blob is reported as
  wage.ErrCorruptBlob. The engine then clears it and falls back to defaults.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. The engine is the single writer.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging):
  - Readers don't block the writer
  - Better crash recovery

USAGE:
  store, err := sqlite.New("./wage.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  engine := wage.NewEngine(wage.Options{Store: store})

MIGRATION:
  Schema is auto-migrated on New().

SEE ALSO:
  - wage/store.go: BlobStore interface and Blob format
  - wage/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
	"github.com/warp/wage-watcher/wage"
)

// Store implements wage.BlobStore and the celebration log using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex

	// Key is the kv_state key used for the blob.
	Key string
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// A single connection keeps ":memory:" databases shared.
	db.SetMaxOpenConns(1)

	store := &Store{db: db, Key: wage.StorageKey}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Key-value records (engine state blob)
	CREATE TABLE IF NOT EXISTS kv_state (
		key TEXT PRIMARY KEY,
		value_json TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	-- Celebration history (append-only)
	CREATE TABLE IF NOT EXISTS celebrations (
		id TEXT PRIMARY KEY,
		celebrated_at TEXT NOT NULL,
		earnings TEXT NOT NULL,
		milestone TEXT NOT NULL,
		threshold TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_celebrations_at
		ON celebrations(celebrated_at DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// BLOB STORE
// =============================================================================

// Load returns the stored blob, or nil when none exists.
func (s *Store) Load(ctx context.Context) (*wage.Blob, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var raw string
	err := s.db.QueryRowContext(ctx,
		"SELECT value_json FROM kv_state WHERE key = ?", s.Key,
	).Scan(&raw)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load state: %w", err)
	}

	var b wage.Blob
	if err := json.Unmarshal([]byte(raw), &b); err != nil {
		return nil, fmt.Errorf("%w: %v", wage.ErrCorruptBlob, err)
	}
	return &b, nil
}

// Save replaces the stored blob.
func (s *Store) Save(ctx context.Context, b wage.Blob) error {
	data, err := json.Marshal(b)
	if err != nil {
		return fmt.Errorf("failed to encode state: %w", err)
	}
	return s.SaveRaw(ctx, string(data))
}

// SaveRaw stores an already-encoded record under Key.
func (s *Store) SaveRaw(ctx context.Context, raw string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO kv_state (key, value_json, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value_json = excluded.value_json,
			updated_at = excluded.updated_at
	`
	_, err := s.db.ExecContext(ctx, query, s.Key, raw, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to save state: %w", err)
	}
	return nil
}

// Clear removes the stored blob.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.ExecContext(ctx, "DELETE FROM kv_state WHERE key = ?", s.Key); err != nil {
		return fmt.Errorf("failed to clear state: %w", err)
	}
	return nil
}

// =============================================================================
// CELEBRATION LOG
// =============================================================================

// timeLayout is fixed-width so that celebrated_at sorts as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// CelebrationRecord is a stored celebration.
type CelebrationRecord struct {
	ID        string
	At        time.Time
	Earnings  decimal.Decimal
	Milestone decimal.Decimal
	Threshold decimal.Decimal
	CreatedAt time.Time
}

// SaveCelebration appends a celebration to the log. Saving the same ID twice
// is a no-op.
func (s *Store) SaveCelebration(ctx context.Context, c wage.Celebration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO celebrations (id, celebrated_at, earnings, milestone, threshold, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`
	_, err := s.db.ExecContext(ctx, query,
		c.ID,
		c.At.UTC().Format(timeLayout),
		c.Earnings.String(),
		c.Milestone.String(),
		c.Threshold.String(),
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to save celebration: %w", err)
	}
	return nil
}

// ListCelebrations returns the most recent celebrations, newest first.
// A limit of zero or less returns all of them.
func (s *Store) ListCelebrations(ctx context.Context, limit int) ([]CelebrationRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT id, celebrated_at, earnings, milestone, threshold, created_at
		FROM celebrations
		ORDER BY celebrated_at DESC
	`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []CelebrationRecord
	for rows.Next() {
		var r CelebrationRecord
		var at, earnings, milestone, threshold, createdAt string
		if err := rows.Scan(&r.ID, &at, &earnings, &milestone, &threshold, &createdAt); err != nil {
			return nil, err
		}
		r.At, _ = time.Parse(timeLayout, at)
		r.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		r.Earnings = mustParseDecimal(earnings)
		r.Milestone = mustParseDecimal(milestone)
		r.Threshold = mustParseDecimal(threshold)
		records = append(records, r)
	}
	return records, rows.Err()
}

// =============================================================================
// UTILITIES
// =============================================================================

// ClearCelebrations deletes the celebration history. The blob is kept.
func (s *Store) ClearCelebrations(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.ExecContext(ctx, "DELETE FROM celebrations"); err != nil {
		return fmt.Errorf("failed to clear celebrations: %w", err)
	}
	return nil
}

func mustParseDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

var _ wage.BlobStore = (*Store)(nil)
