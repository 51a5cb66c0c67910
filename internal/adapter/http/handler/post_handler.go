package handler

import (
	"net/http"
	"strconv"

	"github.com/AryanSachan1st/Blog-Application-for-Vit-Chennai/internal/adapter/http/middleware"
	"github.com/AryanSachan1st/Blog-Application-for-Vit-Chennai/internal/adapter/http/response"
	"github.com/AryanSachan1st/Blog-Application-for-Vit-Chennai/internal/entity"
	"github.com/AryanSachan1st/Blog-Application-for-Vit-Chennai/internal/usecase"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type PostHandler struct {
	posts  PostService
	logger *zap.Logger
}

func NewPostHandler(posts PostService, logger *zap.Logger) *PostHandler {
	return &PostHandler{
		posts:  posts,
		logger: logger.Named("PostHTTPHandler"),
	}
}

type postRequest struct {
	Title  string `json:"title"`
	Body   string `json:"body"`
	Source string `json:"source"`
}

// queryInt parses a positive integer query parameter; anything else yields 0
// and the use case falls back to its default.
func queryInt(r *http.Request, key string) int {
	v, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil || v < 1 {
		return 0
	}
	return v
}

func postViews(posts []*entity.Post) []postView {
	out := make([]postView, 0, len(posts))
	for _, p := range posts {
		out = append(out, newPostView(p))
	}
	return out
}

func (h *PostHandler) List(w http.ResponseWriter, r *http.Request) {
	out, err := h.posts.ListPosts(r.Context(), usecase.ListPostsInput{
		Page:  queryInt(r, "page"),
		Limit: queryInt(r, "limit"),
	})
	if err != nil {
		h.logger.Error("Failed to list posts", zap.Error(err))
		response.Fail(w, err)
		return
	}
	response.Page(w, postViews(out.Posts), out.Pagination)
}

func (h *PostHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	out, err := h.posts.SearchPosts(r.Context(), query, queryInt(r, "page"), queryInt(r, "limit"))
	if err != nil {
		h.logger.Error("Failed to search posts", zap.String("query", query), zap.Error(err))
		response.Fail(w, err)
		return
	}
	response.Page(w, postViews(out.Posts), out.Pagination)
}

func (h *PostHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	post, err := h.posts.GetPost(r.Context(), id)
	if err != nil {
		response.Fail(w, err)
		return
	}
	response.Data(w, http.StatusOK, newPostView(post))
}

func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		response.Fail(w, usecase.ErrMissingToken)
		return
	}
	var req postRequest
	if err := decodeJSON(w, r, &req, true); err != nil {
		h.logger.Warn("Failed to decode request body for Create", zap.Error(err))
		writeDecodeError(w, err)
		return
	}

	post, err := h.posts.CreatePost(r.Context(), user, usecase.CreatePostInput{
		Title:  req.Title,
		Body:   req.Body,
		Source: req.Source,
	})
	if err != nil {
		response.Fail(w, err)
		return
	}
	h.logger.Info("Post created", zap.String("post_id", post.ID), zap.String("author_id", user.ID))
	response.Data(w, http.StatusCreated, newPostView(post))
}

func (h *PostHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		response.Fail(w, usecase.ErrMissingToken)
		return
	}
	var req postRequest
	if err := decodeJSON(w, r, &req, true); err != nil {
		h.logger.Warn("Failed to decode request body for Update", zap.Error(err))
		writeDecodeError(w, err)
		return
	}

	id := chi.URLParam(r, "id")
	post, err := h.posts.UpdatePost(r.Context(), user, id, usecase.UpdatePostInput{
		Title:  req.Title,
		Body:   req.Body,
		Source: req.Source,
	})
	if err != nil {
		response.Fail(w, err)
		return
	}
	response.Data(w, http.StatusOK, newPostView(post))
}

func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		response.Fail(w, usecase.ErrMissingToken)
		return
	}
	id := chi.URLParam(r, "id")
	if err := h.posts.DeletePost(r.Context(), user, id); err != nil {
		response.Fail(w, err)
		return
	}
	response.Message(w, http.StatusOK, "Blog post deleted successfully")
}
