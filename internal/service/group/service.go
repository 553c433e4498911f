// Package group implements the thematic group operations.
package group

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/dsmolkin/feedline/internal/domain"
	"github.com/dsmolkin/feedline/internal/policy"
	"github.com/dsmolkin/feedline/pkg/ctxutil"
)

// groupRepo defines the group repository interface needed by this service.
type groupRepo interface {
	List(ctx context.Context) ([]*domain.Group, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Group, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Group, error)
	Update(ctx context.Context, id uuid.UUID, title, description, slug string) (*domain.Group, error)
	DeleteCascade(ctx context.Context, id uuid.UUID) error
}

// txManager defines the transaction manager interface needed by this service.
type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Service provides group operations. Groups are curated out of band:
// the API never creates them, it only reads and maintains them.
type Service struct {
	groups groupRepo
	tx     txManager
	access policy.Policy
	log    *slog.Logger
}

// NewService creates a new group service.
func NewService(logger *slog.Logger, groups groupRepo, tx txManager) *Service {
	return &Service{
		groups: groups,
		tx:     tx,
		access: policy.AuthenticatedWrite,
		log:    logger.With("service", "group"),
	}
}

func actorFrom(ctx context.Context) uuid.UUID {
	id, _ := ctxutil.UserIDFromCtx(ctx)
	return id
}
