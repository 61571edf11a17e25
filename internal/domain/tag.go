package domain

import (
	"context"
	"errors"
	"time"
)

// Sentinel errors for tag storage.
var (
	ErrTagNotFound = errors.New("tag not found")
	ErrTagExists   = errors.New("tag already exists")
)

// Tag is a named piece of text content that can be posted on demand.
// swagger:model Tag
type Tag struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PutMode selects the existence condition under which TagRepository.Put writes.
type PutMode int

const (
	// PutUpsert inserts the tag or overwrites its content.
	PutUpsert PutMode = iota
	// PutCreate inserts only if no tag with the id exists, else ErrTagExists.
	PutCreate
	// PutUpdate overwrites only if a tag with the id exists, else ErrTagNotFound.
	PutUpdate
)

func (m PutMode) String() string {
	switch m {
	case PutCreate:
		return "create"
	case PutUpdate:
		return "update"
	default:
		return "upsert"
	}
}

// TagRepository is the shared tag table. Implementations must make every call
// atomic per id, so the conditional Put modes and Remove decide existence and
// mutate in one step.
type TagRepository interface {
	// Has reports whether a tag with the given id exists.
	Has(ctx context.Context, id string) (bool, error)
	// Get returns the content of the tag, or ErrTagNotFound.
	Get(ctx context.Context, id string) (string, error)
	// Put writes content for id according to mode.
	Put(ctx context.Context, id, content string, mode PutMode) error
	// Remove deletes the tag, or returns ErrTagNotFound.
	Remove(ctx context.Context, id string) error
	// List returns one page of tags ordered by id and the total number of tags.
	List(ctx context.Context, params PaginationParams) ([]*Tag, int, error)
}

// TagAdminService backs the operator admin API. It bypasses the role gate of tag-manage.
type TagAdminService interface {
	ListTags(ctx context.Context, params PaginationParams) ([]*Tag, int, error)
	GetTag(ctx context.Context, id string) (*Tag, error)
	// SaveTag creates or overwrites a tag.
	SaveTag(ctx context.Context, id, content string) error
	DeleteTag(ctx context.Context, id string) error
}
