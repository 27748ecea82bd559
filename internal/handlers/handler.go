package handlers

import (
	"github.com/go-chi/chi/v5"

	"blogapi/internal/storage"
)

type Handler struct {
	Posts *PostHandler
}

func NewHandler(store storage.PostStore) *Handler {
	return &Handler{
		Posts: NewPostHandler(store),
	}
}

// Mount attaches every resource route to r. The id parameter is
// constrained to digits, so a non-integer segment 404s at the router.
func (h *Handler) Mount(r chi.Router) {
	r.Get("/posts", h.Posts.GetPosts)
	r.Post("/posts", h.Posts.CreatePost)
	r.Get("/posts/{id:[0-9]+}", h.Posts.GetPostByID)
	r.Put("/posts/{id:[0-9]+}", h.Posts.UpdatePost)
	r.Delete("/posts/{id:[0-9]+}", h.Posts.DeletePost)
}
