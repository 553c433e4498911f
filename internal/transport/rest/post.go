package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/dsmolkin/feedline/internal/domain"
	"github.com/dsmolkin/feedline/internal/service/post"
)

// postService defines the minimal interface needed by PostHandler.
type postService interface {
	List(ctx context.Context, input post.ListInput) ([]*domain.Post, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Post, error)
	Create(ctx context.Context, input post.CreateInput) (*domain.Post, error)
	Update(ctx context.Context, id uuid.UUID, input post.UpdateInput, partial bool) (*domain.Post, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// PostHandler serves post REST endpoints.
type PostHandler struct {
	svc postService
	log *slog.Logger
}

// NewPostHandler creates a PostHandler.
func NewPostHandler(svc postService, logger *slog.Logger) *PostHandler {
	return &PostHandler{svc: svc, log: logger.With("handler", "post")}
}

type postRequest struct {
	Text  *string `json:"text"`
	Image *string `json:"image"`
	Group *string `json:"group"`
}

type postResponse struct {
	ID      string    `json:"id"`
	Author  string    `json:"author"`
	Text    string    `json:"text"`
	PubDate time.Time `json:"pub_date"`
	Image   *string   `json:"image"`
	Group   *string   `json:"group"`
}

func toPostResponse(p *domain.Post) postResponse {
	resp := postResponse{
		ID:      p.ID.String(),
		Author:  p.Author,
		Text:    p.Text,
		PubDate: p.PubDate,
		Image:   p.Image,
	}
	if p.GroupID != nil {
		g := p.GroupID.String()
		resp.Group = &g
	}
	return resp
}

func toPostResponses(posts []*domain.Post) []postResponse {
	out := make([]postResponse, 0, len(posts))
	for _, p := range posts {
		out = append(out, toPostResponse(p))
	}
	return out
}

// List handles GET /api/v1/posts.
// Query: author (username), group (slug), limit, offset.
func (h *PostHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	input := post.ListInput{
		Author:    q.Get("author"),
		GroupSlug: q.Get("group"),
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "limit must be an integer")
			return
		}
		input.Limit = n
	}
	if v := q.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "offset must be an integer")
			return
		}
		input.Offset = n
	}

	posts, err := h.svc.List(r.Context(), input)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toPostResponses(posts))
}

// Get handles GET /api/v1/posts/{id}.
func (h *PostHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	p, err := h.svc.Get(r.Context(), id)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toPostResponse(p))
}

// Create handles POST /api/v1/posts.
func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req postRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	input := post.CreateInput{Image: req.Image, GroupSlug: req.Group}
	if req.Text != nil {
		input.Text = *req.Text
	}

	created, err := h.svc.Create(r.Context(), input)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusCreated, toPostResponse(created))
}

// Update handles PUT /api/v1/posts/{id}.
func (h *PostHandler) Update(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, false)
}

// PartialUpdate handles PATCH /api/v1/posts/{id}.
func (h *PostHandler) PartialUpdate(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, true)
}

func (h *PostHandler) update(w http.ResponseWriter, r *http.Request, partial bool) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	var req postRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	input := post.UpdateInput{Text: req.Text, Image: req.Image}
	if req.Group != nil {
		if *req.Group == "" {
			input.GroupClear = true
		} else {
			input.GroupSlug = req.Group
		}
	}

	updated, err := h.svc.Update(r.Context(), id, input, partial)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toPostResponse(updated))
}

// Delete handles DELETE /api/v1/posts/{id}.
func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		handleError(w, r, h.log, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
