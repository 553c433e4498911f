package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/dsmolkin/feedline/internal/domain"
	"github.com/dsmolkin/feedline/internal/service/group"
)

// groupService defines the minimal interface needed by GroupHandler.
type groupService interface {
	List(ctx context.Context) ([]*domain.Group, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Group, error)
	Create(ctx context.Context) error
	Update(ctx context.Context, id uuid.UUID, input group.UpdateInput, partial bool) (*domain.Group, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// GroupHandler serves group REST endpoints.
type GroupHandler struct {
	svc groupService
	log *slog.Logger
}

// NewGroupHandler creates a GroupHandler.
func NewGroupHandler(svc groupService, logger *slog.Logger) *GroupHandler {
	return &GroupHandler{svc: svc, log: logger.With("handler", "group")}
}

type groupRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Slug        *string `json:"slug"`
}

type groupResponse struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Slug        string `json:"slug"`
}

func toGroupResponse(g *domain.Group) groupResponse {
	return groupResponse{
		ID:          g.ID.String(),
		Title:       g.Title,
		Description: g.Description,
		Slug:        g.Slug,
	}
}

// List handles GET /api/v1/groups.
func (h *GroupHandler) List(w http.ResponseWriter, r *http.Request) {
	groups, err := h.svc.List(r.Context())
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	out := make([]groupResponse, 0, len(groups))
	for _, g := range groups {
		out = append(out, toGroupResponse(g))
	}
	writeJSON(w, http.StatusOK, out)
}

// Get handles GET /api/v1/groups/{id}.
func (h *GroupHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	g, err := h.svc.Get(r.Context(), id)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toGroupResponse(g))
}

// Create handles POST /api/v1/groups. Always a 405: groups are
// provisioned out of band.
func (h *GroupHandler) Create(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Create(r.Context()); err != nil {
		handleError(w, r, h.log, err)
		return
	}
}

// Update handles PUT /api/v1/groups/{id}.
func (h *GroupHandler) Update(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, false)
}

// PartialUpdate handles PATCH /api/v1/groups/{id}.
func (h *GroupHandler) PartialUpdate(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, true)
}

func (h *GroupHandler) update(w http.ResponseWriter, r *http.Request, partial bool) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	var req groupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	updated, err := h.svc.Update(r.Context(), id, group.UpdateInput{
		Title:       req.Title,
		Description: req.Description,
		Slug:        req.Slug,
	}, partial)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toGroupResponse(updated))
}

// Delete handles DELETE /api/v1/groups/{id}.
func (h *GroupHandler) Delete(w http.ResponseWriter, r *http.Request) {
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
