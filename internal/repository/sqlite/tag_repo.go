// Package sqlite provides a SQLite-backed TagRepository for single-node deployments.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"tjbot/internal/domain"

	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

const schema = `
CREATE TABLE IF NOT EXISTS tags (
	id         TEXT PRIMARY KEY,
	content    TEXT NOT NULL,
	created_at INTEGER NOT NULL,
	updated_at INTEGER NOT NULL
)`

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Store persists tags in SQLite.
type Store struct {
	sqlDB *sql.DB
	now   func() time.Time
}

// Open opens a SQLite database at path and applies the schema.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// SQLite allows a single writer.
	sqlDB.SetMaxOpenConns(1)
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("create tags table: %w", err)
	}
	return &Store{sqlDB: sqlDB, now: time.Now}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

func (s *Store) Has(ctx context.Context, id string) (bool, error) {
	var exists bool
	if err := s.sqlDB.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM tags WHERE id = ?)`, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("check tag: %w", err)
	}
	return exists, nil
}

func (s *Store) Get(ctx context.Context, id string) (string, error) {
	var content string
	err := s.sqlDB.QueryRowContext(ctx, `SELECT content FROM tags WHERE id = ?`, id).Scan(&content)
	if errors.Is(err, sql.ErrNoRows) {
		return "", domain.ErrTagNotFound
	}
	if err != nil {
		return "", fmt.Errorf("get tag: %w", err)
	}
	return content, nil
}

func (s *Store) Put(ctx context.Context, id, content string, mode domain.PutMode) error {
	now := toMillis(s.now())
	var (
		result sql.Result
		err    error
	)
	switch mode {
	case domain.PutCreate:
		result, err = s.sqlDB.ExecContext(ctx,
			`INSERT INTO tags (id, content, created_at, updated_at) VALUES (?, ?, ?, ?) ON CONFLICT (id) DO NOTHING`,
			id, content, now, now)
	case domain.PutUpdate:
		result, err = s.sqlDB.ExecContext(ctx, `UPDATE tags SET content = ?, updated_at = ? WHERE id = ?`, content, now, id)
	case domain.PutUpsert:
		_, err = s.sqlDB.ExecContext(ctx,
			`INSERT INTO tags (id, content, created_at, updated_at) VALUES (?, ?, ?, ?)
			 ON CONFLICT (id) DO UPDATE SET content = excluded.content, updated_at = excluded.updated_at`,
			id, content, now, now)
		if err != nil {
			return fmt.Errorf("upsert tag: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("%w: put mode %d", domain.ErrInvalidInput, mode)
	}
	if err != nil {
		if isConstraintViolation(err) {
			return domain.ErrTagExists
		}
		return fmt.Errorf("%s tag: %w", mode, err)
	}
	rows, err := affectedRows(result, mode.String()+" tag")
	if err != nil {
		return err
	}
	if rows == 0 {
		if mode == domain.PutCreate {
			return domain.ErrTagExists
		}
		return domain.ErrTagNotFound
	}
	return nil
}

func (s *Store) Remove(ctx context.Context, id string) error {
	result, err := s.sqlDB.ExecContext(ctx, `DELETE FROM tags WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete tag: %w", err)
	}
	rows, err := affectedRows(result, "delete tag")
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrTagNotFound
	}
	return nil
}

func affectedRows(result sql.Result, op string) (int64, error) {
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return rows, nil
}

func (s *Store) List(ctx context.Context, params domain.PaginationParams) ([]*domain.Tag, int, error) {
	var total int
	if err := s.sqlDB.QueryRowContext(ctx, `SELECT COUNT(*) FROM tags`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count tags: %w", err)
	}
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT id, content, created_at, updated_at FROM tags ORDER BY id LIMIT ? OFFSET ?`,
		params.Limit(), params.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("list tags: %w", err)
	}
	defer rows.Close()

	tags := []*domain.Tag{}
	for rows.Next() {
		var (
			t                  domain.Tag
			createdAt, updated int64
		)
		if err := rows.Scan(&t.ID, &t.Content, &createdAt, &updated); err != nil {
			return nil, 0, fmt.Errorf("scan tag: %w", err)
		}
		t.CreatedAt = fromMillis(createdAt)
		t.UpdatedAt = fromMillis(updated)
		tags = append(tags, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate tags: %w", err)
	}
	return tags, total, nil
}

func isConstraintViolation(err error) bool {
	var sqliteErr *msqlite.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	switch sqliteErr.Code() {
	case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
		return true
	default:
		return false
	}
}

var _ domain.TagRepository = (*Store)(nil)
