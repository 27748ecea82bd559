package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"blogapi/internal/models"
	"blogapi/internal/storage"
	"blogapi/internal/utils"
	"blogapi/pkg/logger"
)

const (
	msgPostNotFound   = "Post not found"
	msgFieldsRequired = "Title and content are required."
	msgNoData         = "No data provided."
	msgPostDeleted    = "Post deleted successfully."
)

type PostHandler struct {
	store    storage.PostStore
	validate *validator.Validate
}

func NewPostHandler(store storage.PostStore) *PostHandler {
	return &PostHandler{
		store:    store,
		validate: validator.New(),
	}
}

// createPostRequest checks presence, not content: pointer fields with
// "required" reject an absent key but accept an empty string.
type createPostRequest struct {
	Title   *string `json:"title" validate:"required"`
	Content *string `json:"content" validate:"required"`
}

type updatePostRequest struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
}

func postID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

func (h *PostHandler) storageError(w http.ResponseWriter, r *http.Request, err error) {
	logger.FromContext(r.Context()).Error("storage failure", "error", err)
	utils.JSONError(w, http.StatusInternalServerError, err.Error())
}

// ---------------------- CREATE ----------------------

func (h *PostHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	var body createPostRequest
	if err := utils.DecodeJSON(r, &body); err != nil {
		utils.JSONError(w, http.StatusBadRequest, msgFieldsRequired)
		return
	}
	if err := h.validate.Struct(body); err != nil {
		utils.JSONError(w, http.StatusBadRequest, msgFieldsRequired)
		return
	}

	post, err := h.store.CreatePost(r.Context(), *body.Title, *body.Content)
	if err != nil {
		h.storageError(w, r, err)
		return
	}

	utils.JSON(w, http.StatusCreated, post.Response())
}

// ---------------------- GET ONE ----------------------

func (h *PostHandler) GetPostByID(w http.ResponseWriter, r *http.Request) {
	id, err := postID(r)
	if err != nil {
		utils.JSONError(w, http.StatusNotFound, msgPostNotFound)
		return
	}

	post, err := h.store.GetPostByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			utils.JSONError(w, http.StatusNotFound, msgPostNotFound)
			return
		}
		h.storageError(w, r, err)
		return
	}

	utils.JSON(w, http.StatusOK, post.Response())
}

// ---------------------- LIST ----------------------

func (h *PostHandler) GetPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.store.ListPosts(r.Context())
	if err != nil {
		h.storageError(w, r, err)
		return
	}

	out := make([]models.PostResponse, 0, len(posts))
	for _, p := range posts {
		out = append(out, p.Response())
	}

	utils.JSON(w, http.StatusOK, out)
}

// ---------------------- UPDATE ----------------------

func (h *PostHandler) UpdatePost(w http.ResponseWriter, r *http.Request) {
	id, err := postID(r)
	if err != nil {
		utils.JSONError(w, http.StatusNotFound, msgPostNotFound)
		return
	}

	// Existence is checked before the body is read, so a bad payload
	// against a missing id still yields 404.
	if _, err := h.store.GetPostByID(r.Context(), id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			utils.JSONError(w, http.StatusNotFound, msgPostNotFound)
			return
		}
		h.storageError(w, r, err)
		return
	}

	// A body of {} is a valid no-op update; only a missing, null or
	// unparseable body is rejected.
	var body *updatePostRequest
	if err := utils.DecodeJSON(r, &body); err != nil || body == nil {
		utils.JSONError(w, http.StatusBadRequest, msgNoData)
		return
	}

	post, err := h.store.UpdatePost(r.Context(), id, storage.UpdateFields{
		Title:   body.Title,
		Content: body.Content,
	})
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			utils.JSONError(w, http.StatusNotFound, msgPostNotFound)
			return
		}
		h.storageError(w, r, err)
		return
	}

	utils.JSON(w, http.StatusOK, post.Response())
}

// ---------------------- DELETE ----------------------

func (h *PostHandler) DeletePost(w http.ResponseWriter, r *http.Request) {
	id, err := postID(r)
	if err != nil {
		utils.JSONError(w, http.StatusNotFound, msgPostNotFound)
		return
	}

	if err := h.store.DeletePost(r.Context(), id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			utils.JSONError(w, http.StatusNotFound, msgPostNotFound)
			return
		}
		h.storageError(w, r, err)
		return
	}

	utils.JSON(w, http.StatusOK, map[string]string{"message": msgPostDeleted})
}
