package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"tjbot/internal/domain"

	"github.com/lib/pq"
)

// uniqueViolation is the Postgres SQLSTATE for unique_violation.
const uniqueViolation = "23505"

type tagRepository struct {
	DB  *sql.DB
	now func() time.Time
}

// NewTagRepository returns a domain.TagRepository implemented with Postgres.
func NewTagRepository(db *sql.DB) domain.TagRepository {
	return &tagRepository{DB: db, now: time.Now}
}

func (r *tagRepository) Has(ctx context.Context, id string) (bool, error) {
	var exists bool
	if err := r.DB.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM tags WHERE id = $1)`, id).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *tagRepository) Get(ctx context.Context, id string) (string, error) {
	var content string
	err := r.DB.QueryRowContext(ctx, `SELECT content FROM tags WHERE id = $1`, id).Scan(&content)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", domain.ErrTagNotFound
		}
		return "", err
	}
	return content, nil
}

func (r *tagRepository) Put(ctx context.Context, id, content string, mode domain.PutMode) error {
	now := r.now().UTC()
	switch mode {
	case domain.PutCreate:
		result, err := r.DB.ExecContext(ctx,
			`INSERT INTO tags (id, content, created_at, updated_at) VALUES ($1, $2, $3, $3) ON CONFLICT (id) DO NOTHING`,
			id, content, now)
		if err != nil {
			var perr *pq.Error
			if errors.As(err, &perr) && perr.Code == uniqueViolation {
				return domain.ErrTagExists
			}
			return err
		}
		rows, err := rowsAffected(result)
		if err != nil {
			return err
		}
		if rows == 0 {
			return domain.ErrTagExists
		}
		return nil
	case domain.PutUpdate:
		result, err := r.DB.ExecContext(ctx, `UPDATE tags SET content = $2, updated_at = $3 WHERE id = $1`, id, content, now)
		if err != nil {
			return err
		}
		rows, err := rowsAffected(result)
		if err != nil {
			return err
		}
		if rows == 0 {
			return domain.ErrTagNotFound
		}
		return nil
	case domain.PutUpsert:
		_, err := r.DB.ExecContext(ctx,
			`INSERT INTO tags (id, content, created_at, updated_at) VALUES ($1, $2, $3, $3)
			 ON CONFLICT (id) DO UPDATE SET content = EXCLUDED.content, updated_at = EXCLUDED.updated_at`,
			id, content, now)
		return err
	default:
		return fmt.Errorf("%w: put mode %d", domain.ErrInvalidInput, mode)
	}
}

func (r *tagRepository) Remove(ctx context.Context, id string) error {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM tags WHERE id = $1`, id)
	if err != nil {
		return err
	}
	rows, err := rowsAffected(result)
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrTagNotFound
	}
	return nil
}

func rowsAffected(result sql.Result) (int64, error) {
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return rows, nil
}

func (r *tagRepository) List(ctx context.Context, params domain.PaginationParams) ([]*domain.Tag, int, error) {
	var total int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM tags`).Scan(&total); err != nil {
		return nil, 0, err
	}

	var limit any
	if l := params.Limit(); l >= 0 {
		limit = l
	}
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, content, created_at, updated_at FROM tags ORDER BY id LIMIT $1 OFFSET $2`,
		limit, params.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	tags := []*domain.Tag{}
	for rows.Next() {
		var tag domain.Tag
		if err := rows.Scan(&tag.ID, &tag.Content, &tag.CreatedAt, &tag.UpdatedAt); err != nil {
			return nil, 0, err
		}
		tags = append(tags, &tag)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return tags, total, nil
}
