package services

import (
	"context"
	"errors"
	"testing"

	"tjbot/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// listingTagRepo overrides List on top of fakeTagRepo.
type listingTagRepo struct {
	*fakeTagRepo
	page    []*domain.Tag
	total   int
	listErr error
	params  domain.PaginationParams
}

func (l *listingTagRepo) List(ctx context.Context, params domain.PaginationParams) ([]*domain.Tag, int, error) {
	l.params = params
	return l.page, l.total, l.listErr
}

func TestTagAdminService_ListTags(t *testing.T) {
	ctx := context.Background()

	t.Run("passes pagination and returns page", func(t *testing.T) {
		repo := &listingTagRepo{fakeTagRepo: newFakeTagRepo(), page: []*domain.Tag{{ID: "a"}}, total: 7}
		svc := NewTagAdminService(repo)

		tags, total, err := svc.ListTags(ctx, domain.PaginationParams{Page: 2, PageSize: 1})
		require.NoError(t, err)
		assert.Equal(t, 7, total)
		assert.Equal(t, []*domain.Tag{{ID: "a"}}, tags)
		assert.Equal(t, domain.PaginationParams{Page: 2, PageSize: 1}, repo.params)
	})

	t.Run("nil page becomes empty slice", func(t *testing.T) {
		svc := NewTagAdminService(&listingTagRepo{fakeTagRepo: newFakeTagRepo()})

		tags, _, err := svc.ListTags(ctx, domain.PaginationParams{Page: 1, PageSize: 20})
		require.NoError(t, err)
		assert.NotNil(t, tags)
		assert.Empty(t, tags)
	})

	t.Run("error is wrapped", func(t *testing.T) {
		svc := NewTagAdminService(&listingTagRepo{fakeTagRepo: newFakeTagRepo(), listErr: errors.New("db down")})

		_, _, err := svc.ListTags(ctx, domain.PaginationParams{Page: 1, PageSize: 20})
		require.ErrorContains(t, err, "list tags")
	})
}

func TestTagAdminService_GetTag(t *testing.T) {
	ctx := context.Background()
	repo := newFakeTagRepo()
	repo.tags["foo"] = "bar"
	svc := NewTagAdminService(repo)

	tag, err := svc.GetTag(ctx, "foo")
	require.NoError(t, err)
	assert.Equal(t, &domain.Tag{ID: "foo", Content: "bar"}, tag)

	_, err = svc.GetTag(ctx, "missing")
	require.ErrorIs(t, err, domain.ErrNotFound)

	repo.getErr = errors.New("db down")
	_, err = svc.GetTag(ctx, "foo")
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrNotFound)
}

func TestTagAdminService_SaveTag(t *testing.T) {
	ctx := context.Background()
	repo := newFakeTagRepo()
	svc := NewTagAdminService(repo)

	require.NoError(t, svc.SaveTag(ctx, "foo", "bar"))
	require.NoError(t, svc.SaveTag(ctx, "foo", "baz"))
	assert.Equal(t, "baz", repo.tags["foo"])

	require.ErrorIs(t, svc.SaveTag(ctx, " ", "x"), domain.ErrInvalidInput)

	repo.putErr = errors.New("db down")
	require.ErrorContains(t, svc.SaveTag(ctx, "foo", "x"), "save tag")
}

func TestTagAdminService_DeleteTag(t *testing.T) {
	ctx := context.Background()
	repo := newFakeTagRepo()
	repo.tags["foo"] = "bar"
	svc := NewTagAdminService(repo)

	require.NoError(t, svc.DeleteTag(ctx, "foo"))
	require.ErrorIs(t, svc.DeleteTag(ctx, "foo"), domain.ErrNotFound)

	repo.removeErr = errors.New("db down")
	err := svc.DeleteTag(ctx, "foo")
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrNotFound)
}
