package scancache

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is bumped when the schema changes; users clear the database
// to adopt the new layout.
const schemaVersion = 1

// ErrSchemaMismatch indicates the database schema version doesn't match the expected version.
var ErrSchemaMismatch = errors.New("schema version mismatch")

// Entry is one recorded disc open.
type Entry struct {
	ID          int64
	Locator     string
	VolumeID    string
	Label       string
	TitleCount  int
	Title       int
	TitleSet    int
	TotalBlocks int64
	ByteSize    int64
	ScannedAt   time.Time
}

// Store manages scan history persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the scan database at path.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("ensure cache directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.initSchema(context.Background()); err != nil {
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

// Path reports the database file location.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) initSchema(ctx context.Context) error {
	var tableExists int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableExists)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}

	if tableExists == 0 {
		return s.createSchema(ctx)
	}

	var version int
	err = s.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version)
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version != schemaVersion {
		return fmt.Errorf("%w: database has version %d, expected %d (run 'dvdstream cache clear' or delete the file)",
			ErrSchemaMismatch, version, schemaVersion)
	}
	return nil
}

func (s *Store) createSchema(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}
	return tx.Commit()
}

// Record inserts a scan entry and returns it with ID and timestamp filled in.
func (s *Store) Record(ctx context.Context, entry Entry) (*Entry, error) {
	now := time.Now().UTC()
	res, err := s.db.ExecContext(
		ctx,
		`INSERT INTO scans (
            locator, volume_id, label, title_count, title, title_set,
            total_blocks, byte_size, scanned_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.Locator,
		entry.VolumeID,
		entry.Label,
		entry.TitleCount,
		entry.Title,
		entry.TitleSet,
		entry.TotalBlocks,
		entry.ByteSize,
		now.Format(time.RFC3339Nano),
	)
	if err != nil {
		return nil, fmt.Errorf("insert scan: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	entry.ID = id
	entry.ScannedAt = now
	return &entry, nil
}

// List returns scan entries newest first, capped at limit when limit > 0.
func (s *Store) List(ctx context.Context, limit int) ([]Entry, error) {
	query := `SELECT id, locator, volume_id, label, title_count, title, title_set,
        total_blocks, byte_size, scanned_at FROM scans ORDER BY scanned_at DESC, id DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query scans: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var entry Entry
		var stamp string
		if err := rows.Scan(
			&entry.ID, &entry.Locator, &entry.VolumeID, &entry.Label,
			&entry.TitleCount, &entry.Title, &entry.TitleSet,
			&entry.TotalBlocks, &entry.ByteSize, &stamp,
		); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		if parsed, perr := time.Parse(time.RFC3339Nano, stamp); perr == nil {
			entry.ScannedAt = parsed
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate scans: %w", err)
	}
	return entries, nil
}

// Clear removes every recorded scan and reports how many were dropped.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM scans")
	if err != nil {
		return 0, fmt.Errorf("clear scans: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return affected, nil
}
