// Package memory provides an in-process TagRepository for tests and local runs.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"tjbot/internal/domain"
)

type tagRepository struct {
	mu   sync.RWMutex
	tags map[string]domain.Tag
	now  func() time.Time
}

// NewTagRepository returns a domain.TagRepository backed by a mutex-guarded map.
func NewTagRepository() domain.TagRepository {
	return &tagRepository{tags: make(map[string]domain.Tag), now: time.Now}
}

func (r *tagRepository) Has(ctx context.Context, id string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.tags[id]
	return ok, nil
}

func (r *tagRepository) Get(ctx context.Context, id string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	tag, ok := r.tags[id]
	if !ok {
		return "", domain.ErrTagNotFound
	}
	return tag.Content, nil
}

func (r *tagRepository) Put(ctx context.Context, id, content string, mode domain.PutMode) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.tags[id]
	switch {
	case mode == domain.PutCreate && ok:
		return domain.ErrTagExists
	case mode == domain.PutUpdate && !ok:
		return domain.ErrTagNotFound
	}
	now := r.now()
	if !ok {
		existing = domain.Tag{ID: id, CreatedAt: now}
	}
	existing.Content = content
	existing.UpdatedAt = now
	r.tags[id] = existing
	return nil
}

func (r *tagRepository) Remove(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tags[id]; !ok {
		return domain.ErrTagNotFound
	}
	delete(r.tags, id)
	return nil
}

func (r *tagRepository) List(ctx context.Context, params domain.PaginationParams) ([]*domain.Tag, int, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.tags))
	for id := range r.tags {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	total := len(ids)
	start := min(params.Offset(), total)
	end := total
	if limit := params.Limit(); limit >= 0 {
		end = min(start+limit, total)
	}
	tags := make([]*domain.Tag, 0, end-start)
	for _, id := range ids[start:end] {
		tag := r.tags[id]
		tags = append(tags, &tag)
	}
	return tags, total, nil
}
