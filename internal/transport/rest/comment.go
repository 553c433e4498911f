package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/dsmolkin/feedline/internal/domain"
	"github.com/dsmolkin/feedline/internal/service/comment"
)

// commentService defines the minimal interface needed by CommentHandler.
type commentService interface {
	List(ctx context.Context, postID uuid.UUID) ([]*domain.Comment, error)
	Get(ctx context.Context, postID, id uuid.UUID) (*domain.Comment, error)
	Create(ctx context.Context, postID uuid.UUID, input comment.CreateInput) (*domain.Comment, error)
	Update(ctx context.Context, postID, id uuid.UUID, input comment.UpdateInput, partial bool) (*domain.Comment, error)
	Delete(ctx context.Context, postID, id uuid.UUID) error
}

// CommentHandler serves comment REST endpoints nested under a post.
type CommentHandler struct {
	svc commentService
	log *slog.Logger
}

// NewCommentHandler creates a CommentHandler.
func NewCommentHandler(svc commentService, logger *slog.Logger) *CommentHandler {
	return &CommentHandler{svc: svc, log: logger.With("handler", "comment")}
}

type commentRequest struct {
	Text *string `json:"text"`
}

type commentResponse struct {
	ID      string    `json:"id"`
	Author  string    `json:"author"`
	Post    string    `json:"post"`
	Text    string    `json:"text"`
	Created time.Time `json:"created"`
}

func toCommentResponse(c *domain.Comment) commentResponse {
	return commentResponse{
		ID:      c.ID.String(),
		Author:  c.Author,
		Post:    c.PostID.String(),
		Text:    c.Text,
		Created: c.Created,
	}
}

func toCommentResponses(comments []*domain.Comment) []commentResponse {
	out := make([]commentResponse, 0, len(comments))
	for _, c := range comments {
		out = append(out, toCommentResponse(c))
	}
	return out
}

// List handles GET /api/v1/posts/{post_id}/comments.
func (h *CommentHandler) List(w http.ResponseWriter, r *http.Request) {
	postID, ok := pathID(r, "post_id")
	if !ok {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	comments, err := h.svc.List(r.Context(), postID)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toCommentResponses(comments))
}

// Get handles GET /api/v1/posts/{post_id}/comments/{id}.
func (h *CommentHandler) Get(w http.ResponseWriter, r *http.Request) {
	postID, id, ok := h.pathIDs(r)
	if !ok {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	c, err := h.svc.Get(r.Context(), postID, id)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toCommentResponse(c))
}

// Create handles POST /api/v1/posts/{post_id}/comments.
func (h *CommentHandler) Create(w http.ResponseWriter, r *http.Request) {
	postID, ok := pathID(r, "post_id")
	if !ok {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	var req commentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	input := comment.CreateInput{}
	if req.Text != nil {
		input.Text = *req.Text
	}

	created, err := h.svc.Create(r.Context(), postID, input)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusCreated, toCommentResponse(created))
}

// Update handles PUT /api/v1/posts/{post_id}/comments/{id}.
func (h *CommentHandler) Update(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, false)
}

// PartialUpdate handles PATCH /api/v1/posts/{post_id}/comments/{id}.
func (h *CommentHandler) PartialUpdate(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, true)
}

func (h *CommentHandler) update(w http.ResponseWriter, r *http.Request, partial bool) {
	postID, id, ok := h.pathIDs(r)
	if !ok {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	var req commentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	updated, err := h.svc.Update(r.Context(), postID, id, comment.UpdateInput{Text: req.Text}, partial)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toCommentResponse(updated))
}

// Delete handles DELETE /api/v1/posts/{post_id}/comments/{id}.
func (h *CommentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	postID, id, ok := h.pathIDs(r)
	if !ok {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	if err := h.svc.Delete(r.Context(), postID, id); err != nil {
		handleError(w, r, h.log, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *CommentHandler) pathIDs(r *http.Request) (postID, id uuid.UUID, ok bool) {
	postID, ok = pathID(r, "post_id")
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}
	id, ok = pathID(r, "id")
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}
	return postID, id, true
}
