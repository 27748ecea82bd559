package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"blogapi/internal/models"
	"blogapi/internal/storage"
	"blogapi/internal/storage/inmemory"
)

func newRouter(store storage.PostStore) *chi.Mux {
	r := chi.NewRouter()
	NewHandler(store).Mount(r)
	return r
}

func doRequest(t *testing.T, router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodePost(t *testing.T, rec *httptest.ResponseRecorder) models.PostResponse {
	t.Helper()

	var out models.PostResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func parseStamp(t *testing.T, s string) time.Time {
	t.Helper()

	ts, err := time.Parse(time.RFC3339Nano, s)
	require.NoError(t, err)
	return ts
}

func TestPostHandler_CreatePost(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantErrMsg string
	}{
		{
			name:       "valid",
			body:       `{"title":"A","content":"B"}`,
			wantStatus: http.StatusCreated,
		},
		{
			name:       "empty strings pass presence check",
			body:       `{"title":"","content":""}`,
			wantStatus: http.StatusCreated,
		},
		{
			name:       "unknown fields tolerated",
			body:       `{"title":"A","content":"B","author":"nobody"}`,
			wantStatus: http.StatusCreated,
		},
		{
			name:       "missing content",
			body:       `{"title":"A"}`,
			wantStatus: http.StatusBadRequest,
			wantErrMsg: "Title and content are required.",
		},
		{
			name:       "missing title",
			body:       `{"content":"B"}`,
			wantStatus: http.StatusBadRequest,
			wantErrMsg: "Title and content are required.",
		},
		{
			name:       "malformed json",
			body:       `{"title":`,
			wantStatus: http.StatusBadRequest,
			wantErrMsg: "Title and content are required.",
		},
		{
			name:       "absent body",
			body:       "",
			wantStatus: http.StatusBadRequest,
			wantErrMsg: "Title and content are required.",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			router := newRouter(inmemory.NewPostStore())

			rec := doRequest(t, router, http.MethodPost, "/posts", tt.body)
			require.Equal(t, tt.wantStatus, rec.Code)
			require.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			if tt.wantErrMsg != "" {
				require.JSONEq(t, `{"error":"`+tt.wantErrMsg+`"}`, rec.Body.String())
			}
		})
	}
}

func TestPostHandler_CreatePost_FirstIDIsOne(t *testing.T) {
	t.Parallel()

	router := newRouter(inmemory.NewPostStore())

	rec := doRequest(t, router, http.MethodPost, "/posts", `{"title":"A","content":"B"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	post := decodePost(t, rec)
	require.Equal(t, int64(1), post.ID)
	require.Equal(t, "A", post.Title)
	require.Equal(t, "B", post.Content)
	require.Equal(t, post.CreatedAt, post.UpdatedAt)
	parseStamp(t, post.CreatedAt)
}

func TestPostHandler_GetPostByID(t *testing.T) {
	t.Parallel()

	router := newRouter(inmemory.NewPostStore())

	created := decodePost(t, doRequest(t, router, http.MethodPost, "/posts", `{"title":"A","content":"B"}`))

	rec := doRequest(t, router, http.MethodGet, "/posts/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, created, decodePost(t, rec))

	rec = doRequest(t, router, http.MethodGet, "/posts/999", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.JSONEq(t, `{"error":"Post not found"}`, rec.Body.String())

	// Non-integer segment never reaches the handler.
	rec = doRequest(t, router, http.MethodGet, "/posts/abc", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPostHandler_GetPosts(t *testing.T) {
	t.Parallel()

	router := newRouter(inmemory.NewPostStore())

	rec := doRequest(t, router, http.MethodGet, "/posts", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `[]`, rec.Body.String())

	doRequest(t, router, http.MethodPost, "/posts", `{"title":"first","content":"1"}`)
	doRequest(t, router, http.MethodPost, "/posts", `{"title":"second","content":"2"}`)
	doRequest(t, router, http.MethodPost, "/posts", `{"title":"third","content":"3"}`)
	rec = doRequest(t, router, http.MethodDelete, "/posts/2", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, router, http.MethodGet, "/posts", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var posts []models.PostResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &posts))
	require.Len(t, posts, 2)
	require.Equal(t, "first", posts[0].Title)
	require.Equal(t, "third", posts[1].Title)
}

func TestPostHandler_UpdatePost(t *testing.T) {
	t.Parallel()

	router := newRouter(inmemory.NewPostStore())

	created := decodePost(t, doRequest(t, router, http.MethodPost, "/posts", `{"title":"A","content":"B"}`))

	time.Sleep(5 * time.Millisecond)

	rec := doRequest(t, router, http.MethodPut, "/posts/1", `{"content":"new"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	updated := decodePost(t, rec)
	require.Equal(t, "A", updated.Title)
	require.Equal(t, "new", updated.Content)
	require.Equal(t, created.CreatedAt, updated.CreatedAt)
	require.True(t, parseStamp(t, updated.UpdatedAt).After(parseStamp(t, created.UpdatedAt)))
}

func TestPostHandler_UpdatePost_BodyHandling(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantErrMsg string
	}{
		{
			name:       "empty object is a no-op update",
			body:       `{}`,
			wantStatus: http.StatusOK,
		},
		{
			name:       "unrecognized fields only is a no-op update",
			body:       `{"author":"nobody"}`,
			wantStatus: http.StatusOK,
		},
		{
			name:       "empty string overwrites",
			body:       `{"title":""}`,
			wantStatus: http.StatusOK,
		},
		{
			name:       "absent body",
			body:       "",
			wantStatus: http.StatusBadRequest,
			wantErrMsg: "No data provided.",
		},
		{
			name:       "malformed json",
			body:       `{"title"`,
			wantStatus: http.StatusBadRequest,
			wantErrMsg: "No data provided.",
		},
		{
			name:       "json null",
			body:       `null`,
			wantStatus: http.StatusBadRequest,
			wantErrMsg: "No data provided.",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			router := newRouter(inmemory.NewPostStore())

			created := decodePost(t, doRequest(t, router, http.MethodPost, "/posts", `{"title":"A","content":"B"}`))
			time.Sleep(5 * time.Millisecond)

			rec := doRequest(t, router, http.MethodPut, "/posts/1", tt.body)
			require.Equal(t, tt.wantStatus, rec.Code)

			if tt.wantErrMsg != "" {
				require.JSONEq(t, `{"error":"`+tt.wantErrMsg+`"}`, rec.Body.String())
				return
			}

			updated := decodePost(t, rec)
			require.True(t, parseStamp(t, updated.UpdatedAt).After(parseStamp(t, created.UpdatedAt)))
		})
	}
}

func TestPostHandler_UpdatePost_MissingIDBeatsBadBody(t *testing.T) {
	t.Parallel()

	router := newRouter(inmemory.NewPostStore())

	// 404 wins even when the body would be rejected afterwards.
	rec := doRequest(t, router, http.MethodPut, "/posts/999", `not json`)
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.JSONEq(t, `{"error":"Post not found"}`, rec.Body.String())
}

func TestPostHandler_DeletePost(t *testing.T) {
	t.Parallel()

	router := newRouter(inmemory.NewPostStore())

	doRequest(t, router, http.MethodPost, "/posts", `{"title":"A","content":"B"}`)

	rec := doRequest(t, router, http.MethodDelete, "/posts/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"message":"Post deleted successfully."}`, rec.Body.String())

	rec = doRequest(t, router, http.MethodGet, "/posts/1", "")
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = doRequest(t, router, http.MethodDelete, "/posts/1", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.JSONEq(t, `{"error":"Post not found"}`, rec.Body.String())
}

func TestPostHandler_StorageFaults(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")

	tests := []struct {
		name   string
		expect func(m *storage.MockPostStore)
		method string
		path   string
		body   string
	}{
		{
			name: "list",
			expect: func(m *storage.MockPostStore) {
				m.EXPECT().ListPosts(gomock.Any()).Return(nil, boom)
			},
			method: http.MethodGet,
			path:   "/posts",
		},
		{
			name: "get",
			expect: func(m *storage.MockPostStore) {
				m.EXPECT().GetPostByID(gomock.Any(), int64(1)).Return(models.Post{}, boom)
			},
			method: http.MethodGet,
			path:   "/posts/1",
		},
		{
			name: "create",
			expect: func(m *storage.MockPostStore) {
				m.EXPECT().CreatePost(gomock.Any(), "A", "B").Return(models.Post{}, boom)
			},
			method: http.MethodPost,
			path:   "/posts",
			body:   `{"title":"A","content":"B"}`,
		},
		{
			name: "update existence check",
			expect: func(m *storage.MockPostStore) {
				m.EXPECT().GetPostByID(gomock.Any(), int64(1)).Return(models.Post{}, boom)
			},
			method: http.MethodPut,
			path:   "/posts/1",
			body:   `{"title":"A"}`,
		},
		{
			name: "update",
			expect: func(m *storage.MockPostStore) {
				m.EXPECT().GetPostByID(gomock.Any(), int64(1)).Return(models.Post{ID: 1}, nil)
				m.EXPECT().UpdatePost(gomock.Any(), int64(1), gomock.Any()).Return(models.Post{}, boom)
			},
			method: http.MethodPut,
			path:   "/posts/1",
			body:   `{"title":"A"}`,
		},
		{
			name: "delete",
			expect: func(m *storage.MockPostStore) {
				m.EXPECT().DeletePost(gomock.Any(), int64(1)).Return(boom)
			},
			method: http.MethodDelete,
			path:   "/posts/1",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockStore := storage.NewMockPostStore(ctrl)
			tt.expect(mockStore)

			rec := doRequest(t, newRouter(mockStore), tt.method, tt.path, tt.body)
			require.Equal(t, http.StatusInternalServerError, rec.Code)
			require.JSONEq(t, `{"error":"boom"}`, rec.Body.String())
		})
	}
}
