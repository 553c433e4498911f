package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/dsmolkin/feedline/internal/domain"
	"github.com/dsmolkin/feedline/internal/service/follow"
)

// followService defines the minimal interface needed by FollowHandler.
type followService interface {
	List(ctx context.Context, search string) ([]*domain.Follow, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Follow, error)
	Create(ctx context.Context, input follow.CreateInput) (*domain.Follow, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// FollowHandler serves follow REST endpoints.
type FollowHandler struct {
	svc followService
	log *slog.Logger
}

// NewFollowHandler creates a FollowHandler.
func NewFollowHandler(svc followService, logger *slog.Logger) *FollowHandler {
	return &FollowHandler{svc: svc, log: logger.With("handler", "follow")}
}

type followRequest struct {
	Following string `json:"following"`
}

type followResponse struct {
	ID        string `json:"id"`
	User      string `json:"user"`
	Following string `json:"following"`
}

func toFollowResponse(f *domain.Follow) followResponse {
	return followResponse{
		ID:        f.ID.String(),
		User:      f.User,
		Following: f.Following,
	}
}

// List handles GET /api/v1/follow. Query: search (substring of the
// followed username).
func (h *FollowHandler) List(w http.ResponseWriter, r *http.Request) {
	follows, err := h.svc.List(r.Context(), r.URL.Query().Get("search"))
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	out := make([]followResponse, 0, len(follows))
	for _, f := range follows {
		out = append(out, toFollowResponse(f))
	}
	writeJSON(w, http.StatusOK, out)
}

// Get handles GET /api/v1/follow/{id}.
func (h *FollowHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	f, err := h.svc.Get(r.Context(), id)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toFollowResponse(f))
}

// Create handles POST /api/v1/follow.
func (h *FollowHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req followRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	created, err := h.svc.Create(r.Context(), follow.CreateInput{Following: req.Following})
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusCreated, toFollowResponse(created))
}

// Delete handles DELETE /api/v1/follow/{id}.
func (h *FollowHandler) Delete(w http.ResponseWriter, r *http.Request) {
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
