package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"tjbot/internal/domain"
)

type tagAdminService struct {
	repo domain.TagRepository
}

// NewTagAdminService creates the tag service backing the admin API.
func NewTagAdminService(repo domain.TagRepository) domain.TagAdminService {
	return &tagAdminService{repo: repo}
}

func (s *tagAdminService) ListTags(ctx context.Context, params domain.PaginationParams) ([]*domain.Tag, int, error) {
	tags, total, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, 0, fmt.Errorf("list tags: %w", err)
	}
	if tags == nil {
		tags = []*domain.Tag{}
	}
	return tags, total, nil
}

func (s *tagAdminService) GetTag(ctx context.Context, id string) (*domain.Tag, error) {
	content, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrTagNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get tag: %w", err)
	}
	return &domain.Tag{ID: id, Content: content}, nil
}

func (s *tagAdminService) SaveTag(ctx context.Context, id, content string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%w: id is required", domain.ErrInvalidInput)
	}
	if err := s.repo.Put(ctx, id, content, domain.PutUpsert); err != nil {
		return fmt.Errorf("save tag: %w", err)
	}
	return nil
}

func (s *tagAdminService) DeleteTag(ctx context.Context, id string) error {
	if err := s.repo.Remove(ctx, id); err != nil {
		if errors.Is(err, domain.ErrTagNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete tag: %w", err)
	}
	return nil
}
