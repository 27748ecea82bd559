package storage

import (
	"context"
	"errors"

	"blogapi/internal/models"
)

// ErrNotFound is returned by any operation addressing a post id that is
// not present in the store.
var ErrNotFound = errors.New("post not found")

// UpdateFields carries the mutable fields for UpdatePost. A nil field is
// left untouched; a non-nil pointer overwrites, an empty string included.
type UpdateFields struct {
	Title   *string
	Content *string
}

//go:generate mockgen -source=storage.go -destination=./poststore_mock.go -package=storage blogapi/internal/storage PostStore

// PostStore is the persistence boundary for posts. Implementations assign
// ids from a monotonic sequence and never reuse one after a delete, keep
// timestamps in UTC, and list records in insertion order. UpdatePost
// refreshes UpdatedAt on every successful call, whether or not a field
// actually changed.
type PostStore interface {
	ListPosts(ctx context.Context) ([]models.Post, error)
	GetPostByID(ctx context.Context, id int64) (models.Post, error)
	CreatePost(ctx context.Context, title, content string) (models.Post, error)
	UpdatePost(ctx context.Context, id int64, fields UpdateFields) (models.Post, error)
	DeletePost(ctx context.Context, id int64) error
}
