package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/inkwell-sh/inkwell/internal/auth"
	"github.com/inkwell-sh/inkwell/internal/metrics"
	"github.com/inkwell-sh/inkwell/internal/store"
)

// postsAPIHandler provides REST handlers for posts. Mutations are gated by
// an author check: only the identity that created a post may change it.
type postsAPIHandler struct {
	posts store.PostStoreIface
}

// registerPostRoutes registers post routes on r. Listing is public; create,
// delete, and update-title require a verified bearer credential.
func registerPostRoutes(r chi.Router, bearer *auth.BearerMiddleware, posts store.PostStoreIface) {
	h := &postsAPIHandler{posts: posts}
	r.Get("/", h.List)
	r.With(bearer.RequireUser).Post("/", h.Create)
	r.With(bearer.RequireUser).Delete("/{id}", h.Delete)
	r.With(bearer.RequireUser).Put("/update-title/{id}", h.UpdateTitle)
}

// List returns every post with the author's username projected in.
// GET /api/v1/posts
//
// @Summary      List posts
// @Description  Returns all posts, newest last, each with its author's username. No authentication required.
// @Tags         Posts
// @Produce      json
// @Success      200  {array}   PostResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /posts [get]
func (h *postsAPIHandler) List(w http.ResponseWriter, r *http.Request) {
	posts, err := h.posts.ListAll(r.Context())
	if err != nil {
		log.Printf("api: list posts: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error", "INTERNAL_ERROR")
		return
	}

	resp := make([]*PostResponse, 0, len(posts))
	for _, p := range posts {
		pr := toPostResponse(&p.Post)
		pr.Author = &AuthorResponse{Username: p.AuthorUsername}
		resp = append(resp, pr)
	}

	writeJSON(w, http.StatusOK, resp)
}

// Create creates a post with the authenticated user as its permanent author.
// POST /api/v1/posts
//
// @Summary      Create a post
// @Description  Creates a post. The caller becomes the post's author and the only identity allowed to mutate it.
// @Tags         Posts
// @Accept       json
// @Produce      json
// @Param        body  body      CreatePostRequest  true  "Post to create"
// @Success      201   {object}  PostResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      401   {object}  ErrorResponse
// @Failure      500   {object}  ErrorResponse
// @Security     BearerToken
// @Router       /posts [post]
func (h *postsAPIHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized", "UNAUTHORIZED")
		return
	}

	var req CreatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
		return
	}
	if req.Title == "" {
		writeError(w, http.StatusBadRequest, "title is required", "BAD_REQUEST")
		return
	}
	if req.Content == "" {
		writeError(w, http.StatusBadRequest, "content is required", "BAD_REQUEST")
		return
	}

	post, err := h.posts.Create(r.Context(), req.Title, req.Content, user.ID)
	if err != nil {
		log.Printf("api: create post: %v", err)
		if isDBLockError(err) {
			writeError(w, http.StatusServiceUnavailable, "server is busy, please retry", "DB_BUSY")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal error", "INTERNAL_ERROR")
		return
	}

	metrics.PostsCreatedTotal.Inc()
	writeJSON(w, http.StatusCreated, toPostResponse(post))
}

// Delete removes a post. Author only.
// DELETE /api/v1/posts/{id}
//
// @Summary      Delete a post
// @Description  Deletes a post by ID. Only the post's author may delete it.
// @Tags         Posts
// @Produce      json
// @Param        id   path      string  true  "Post ID"
// @Success      200  {object}  MessageResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Security     BearerToken
// @Router       /posts/{id} [delete]
func (h *postsAPIHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized", "UNAUTHORIZED")
		return
	}

	post, ok := h.loadOwnedPost(w, r, user)
	if !ok {
		return
	}

	if err := h.posts.Delete(r.Context(), post.ID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Lost a race with a concurrent delete.
			writeError(w, http.StatusNotFound, "Post not found", "NOT_FOUND")
			return
		}
		log.Printf("api: delete post %s: %v", post.ID, err)
		writeError(w, http.StatusInternalServerError, "internal error", "INTERNAL_ERROR")
		return
	}

	metrics.PostsDeletedTotal.Inc()
	writeJSON(w, http.StatusOK, MessageResponse{Message: "Post deleted successfully"})
}

// UpdateTitle overwrites a post's title. Author only; content, author, and id
// are untouched.
// PUT /api/v1/posts/update-title/{id}
//
// @Summary      Update a post's title
// @Description  Overwrites the title of a post. Only the post's author may update it.
// @Tags         Posts
// @Accept       json
// @Produce      json
// @Param        id    path      string              true  "Post ID"
// @Param        body  body      UpdateTitleRequest  true  "New title"
// @Success      200   {object}  UpdateTitleResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      401   {object}  ErrorResponse
// @Failure      403   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse
// @Failure      500   {object}  ErrorResponse
// @Security     BearerToken
// @Router       /posts/update-title/{id} [put]
func (h *postsAPIHandler) UpdateTitle(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized", "UNAUTHORIZED")
		return
	}

	post, ok := h.loadOwnedPost(w, r, user)
	if !ok {
		return
	}

	var req UpdateTitleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
		return
	}
	if req.Title == "" {
		writeError(w, http.StatusBadRequest, "title is required", "BAD_REQUEST")
		return
	}

	updated, err := h.posts.UpdateTitle(r.Context(), post.ID, req.Title)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Post not found", "NOT_FOUND")
			return
		}
		log.Printf("api: update title of post %s: %v", post.ID, err)
		writeError(w, http.StatusInternalServerError, "internal error", "INTERNAL_ERROR")
		return
	}

	metrics.PostsTitleUpdatesTotal.Inc()
	writeJSON(w, http.StatusOK, UpdateTitleResponse{
		Message: "Post title updated successfully",
		Post:    toPostResponse(updated),
	})
}

// loadOwnedPost fetches the target post and enforces the author check for
// mutating requests. Existence is checked before ownership, so a missing id
// reads the same to authors and non-authors. The author comparison is plain
// string equality of the stored author id and the verified caller id.
func (h *postsAPIHandler) loadOwnedPost(w http.ResponseWriter, r *http.Request, user *store.User) (*store.Post, bool) {
	id := chi.URLParam(r, "id")
	post, err := h.posts.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			metrics.MutationsDeniedTotal.WithLabelValues("not_found").Inc()
			writeError(w, http.StatusNotFound, "Post not found", "NOT_FOUND")
			return nil, false
		}
		log.Printf("api: load post %s: %v", id, err)
		writeError(w, http.StatusInternalServerError, "internal error", "INTERNAL_ERROR")
		return nil, false
	}

	if post.AuthorID != user.ID {
		metrics.MutationsDeniedTotal.WithLabelValues("forbidden").Inc()
		writeError(w, http.StatusForbidden, "Access denied. You are not the author of this post.", "FORBIDDEN")
		return nil, false
	}

	return post, true
}

func toPostResponse(p *store.Post) *PostResponse {
	return &PostResponse{
		ID:        p.ID,
		Title:     p.Title,
		Content:   p.Content,
		AuthorID:  p.AuthorID,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}
