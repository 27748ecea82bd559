package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"blogapi/internal/models"
	"blogapi/internal/storage"
)

//go:embed schema.sql
var schemaSQL string

const selectPost = "SELECT id, title, content, created_at, updated_at FROM posts"

// PostStore persists posts in a SQLite file.
type PostStore struct {
	db *sqlx.DB
}

// NewPostStore applies the embedded schema and returns a store backed
// by db.
func NewPostStore(ctx context.Context, db *sqlx.DB) (*PostStore, error) {
	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		return nil, fmt.Errorf("sqlite: apply schema: %w", err)
	}
	return &PostStore{db: db}, nil
}

// postRow mirrors the posts table. Timestamps are stored as RFC 3339
// text and parsed back on the way out.
type postRow struct {
	ID        int64  `db:"id"`
	Title     string `db:"title"`
	Content   string `db:"content"`
	CreatedAt string `db:"created_at"`
	UpdatedAt string `db:"updated_at"`
}

func (r postRow) toPost() (models.Post, error) {
	created, err := time.Parse(time.RFC3339Nano, r.CreatedAt)
	if err != nil {
		return models.Post{}, fmt.Errorf("sqlite: parse created_at of post %d: %w", r.ID, err)
	}
	updated, err := time.Parse(time.RFC3339Nano, r.UpdatedAt)
	if err != nil {
		return models.Post{}, fmt.Errorf("sqlite: parse updated_at of post %d: %w", r.ID, err)
	}
	return models.Post{
		ID:        r.ID,
		Title:     r.Title,
		Content:   r.Content,
		CreatedAt: created,
		UpdatedAt: updated,
	}, nil
}

func (s *PostStore) ListPosts(ctx context.Context) ([]models.Post, error) {
	var rows []postRow
	if err := s.db.SelectContext(ctx, &rows, selectPost+" ORDER BY id ASC"); err != nil {
		return nil, fmt.Errorf("sqlite: select posts: %w", err)
	}

	posts := make([]models.Post, 0, len(rows))
	for _, r := range rows {
		p, err := r.toPost()
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, nil
}

func (s *PostStore) GetPostByID(ctx context.Context, id int64) (models.Post, error) {
	var row postRow
	if err := s.db.GetContext(ctx, &row, selectPost+" WHERE id = ?", id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Post{}, storage.ErrNotFound
		}
		return models.Post{}, fmt.Errorf("sqlite: select post %d: %w", id, err)
	}
	return row.toPost()
}

func (s *PostStore) CreatePost(ctx context.Context, title, content string) (models.Post, error) {
	stamp := time.Now().UTC().Format(time.RFC3339Nano)

	res, err := s.db.ExecContext(ctx,
		"INSERT INTO posts (title, content, created_at, updated_at) VALUES (?, ?, ?, ?)",
		title, content, stamp, stamp,
	)
	if err != nil {
		return models.Post{}, fmt.Errorf("sqlite: insert post: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.Post{}, fmt.Errorf("sqlite: insert post: %w", err)
	}

	return postRow{
		ID:        id,
		Title:     title,
		Content:   content,
		CreatedAt: stamp,
		UpdatedAt: stamp,
	}.toPost()
}

func (s *PostStore) UpdatePost(ctx context.Context, id int64, fields storage.UpdateFields) (models.Post, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return models.Post{}, fmt.Errorf("sqlite: begin update: %w", err)
	}
	defer tx.Rollback()

	// updated_at moves on every call, field changes or not.
	sets := []string{"updated_at = ?"}
	args := []any{time.Now().UTC().Format(time.RFC3339Nano)}
	if fields.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, *fields.Title)
	}
	if fields.Content != nil {
		sets = append(sets, "content = ?")
		args = append(args, *fields.Content)
	}
	args = append(args, id)

	res, err := tx.ExecContext(ctx,
		"UPDATE posts SET "+strings.Join(sets, ", ")+" WHERE id = ?",
		args...,
	)
	if err != nil {
		return models.Post{}, fmt.Errorf("sqlite: update post %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return models.Post{}, fmt.Errorf("sqlite: update post %d: %w", id, err)
	}
	if n == 0 {
		return models.Post{}, storage.ErrNotFound
	}

	var row postRow
	if err := tx.GetContext(ctx, &row, selectPost+" WHERE id = ?", id); err != nil {
		return models.Post{}, fmt.Errorf("sqlite: reload post %d: %w", id, err)
	}
	if err := tx.Commit(); err != nil {
		return models.Post{}, fmt.Errorf("sqlite: commit update: %w", err)
	}
	return row.toPost()
}

func (s *PostStore) DeletePost(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM posts WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("sqlite: delete post %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: delete post %d: %w", id, err)
	}
	if n == 0 {
		return storage.ErrNotFound
	}
	return nil
}
