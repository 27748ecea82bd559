package postgres

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"blogapi/internal/models"
	"blogapi/internal/storage"
)

//go:embed schema.sql
var schemaSQL string

var ErrBuildingQuery = errors.New("error building sql-query")

const returningPost = "RETURNING id, title, content, created_at, updated_at"

// PostStore persists posts in Postgres. Ids come from the table's
// sequence, which never hands out a value twice, so deleted ids are
// not reused.
type PostStore struct {
	db *sqlx.DB
}

// NewPostStore applies the embedded schema and returns a store backed
// by db.
func NewPostStore(ctx context.Context, db *sqlx.DB) (*PostStore, error) {
	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		return nil, fmt.Errorf("postgres: apply schema: %w", err)
	}
	return &PostStore{db: db}, nil
}

func (s *PostStore) ListPosts(ctx context.Context) ([]models.Post, error) {
	query, args, err := sq.
		Select("id", "title", "content", "created_at", "updated_at").
		From("posts").
		OrderBy("id ASC").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBuildingQuery, err)
	}

	posts := make([]models.Post, 0)
	if err := s.db.SelectContext(ctx, &posts, query, args...); err != nil {
		return nil, fmt.Errorf("postgres: select posts: %w", err)
	}
	return posts, nil
}

func (s *PostStore) GetPostByID(ctx context.Context, id int64) (models.Post, error) {
	query, args, err := sq.
		Select("id", "title", "content", "created_at", "updated_at").
		From("posts").
		Where(sq.Eq{"id": id}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return models.Post{}, fmt.Errorf("%w: %v", ErrBuildingQuery, err)
	}

	var out models.Post
	if err := s.db.GetContext(ctx, &out, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Post{}, storage.ErrNotFound
		}
		return models.Post{}, fmt.Errorf("postgres: select post %d: %w", id, err)
	}
	return out, nil
}

func (s *PostStore) CreatePost(ctx context.Context, title, content string) (models.Post, error) {
	now := time.Now().UTC()

	query, args, err := sq.
		Insert("posts").
		Columns("title", "content", "created_at", "updated_at").
		Values(title, content, now, now).
		Suffix(returningPost).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return models.Post{}, fmt.Errorf("%w: %v", ErrBuildingQuery, err)
	}

	var out models.Post
	if err := s.db.GetContext(ctx, &out, query, args...); err != nil {
		return models.Post{}, fmt.Errorf("postgres: insert post: %w", err)
	}
	return out, nil
}

func (s *PostStore) UpdatePost(ctx context.Context, id int64, fields storage.UpdateFields) (models.Post, error) {
	// updated_at moves on every call, field changes or not.
	qb := sq.
		Update("posts").
		Set("updated_at", time.Now().UTC())
	if fields.Title != nil {
		qb = qb.Set("title", *fields.Title)
	}
	if fields.Content != nil {
		qb = qb.Set("content", *fields.Content)
	}

	query, args, err := qb.
		Where(sq.Eq{"id": id}).
		Suffix(returningPost).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return models.Post{}, fmt.Errorf("%w: %v", ErrBuildingQuery, err)
	}

	var out models.Post
	if err := s.db.GetContext(ctx, &out, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Post{}, storage.ErrNotFound
		}
		return models.Post{}, fmt.Errorf("postgres: update post %d: %w", id, err)
	}
	return out, nil
}

func (s *PostStore) DeletePost(ctx context.Context, id int64) error {
	query, args, err := sq.
		Delete("posts").
		Where(sq.Eq{"id": id}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBuildingQuery, err)
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("postgres: delete post %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("postgres: delete post %d: %w", id, err)
	}
	if n == 0 {
		return storage.ErrNotFound
	}
	return nil
}
