package inmemory

import (
	"context"
	"slices"
	"sync"
	"time"

	"blogapi/internal/models"
	"blogapi/internal/storage"
)

// PostStore keeps posts in process memory. Intended for dev runs and
// tests; contents vanish on restart.
type PostStore struct {
	mu     sync.RWMutex
	posts  map[int64]models.Post
	nextID int64
}

func NewPostStore() *PostStore {
	return &PostStore{posts: make(map[int64]models.Post)}
}

func (s *PostStore) ListPosts(_ context.Context) ([]models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]int64, 0, len(s.posts))
	for id := range s.posts {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	out := make([]models.Post, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.posts[id])
	}
	return out, nil
}

func (s *PostStore) GetPostByID(_ context.Context, id int64) (models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	post, ok := s.posts[id]
	if !ok {
		return models.Post{}, storage.ErrNotFound
	}
	return post, nil
}

func (s *PostStore) CreatePost(_ context.Context, title, content string) (models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// nextID only ever grows, so deleted ids are not handed out again.
	s.nextID++
	now := time.Now().UTC()
	post := models.Post{
		ID:        s.nextID,
		Title:     title,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.posts[post.ID] = post
	return post, nil
}

func (s *PostStore) UpdatePost(_ context.Context, id int64, fields storage.UpdateFields) (models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	post, ok := s.posts[id]
	if !ok {
		return models.Post{}, storage.ErrNotFound
	}
	if fields.Title != nil {
		post.Title = *fields.Title
	}
	if fields.Content != nil {
		post.Content = *fields.Content
	}
	post.UpdatedAt = time.Now().UTC()
	s.posts[id] = post
	return post, nil
}

func (s *PostStore) DeletePost(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.posts[id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.posts, id)
	return nil
}
