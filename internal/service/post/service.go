// Package post implements the post resource operations.
package post

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/dsmolkin/feedline/internal/config"
	"github.com/dsmolkin/feedline/internal/domain"
	"github.com/dsmolkin/feedline/internal/policy"
	"github.com/dsmolkin/feedline/pkg/ctxutil"
)

// postRepo defines the post repository interface needed by this service.
type postRepo interface {
	List(ctx context.Context, filter domain.PostFilter) ([]*domain.Post, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Post, error)
	Create(ctx context.Context, p *domain.Post) (*domain.Post, error)
	Update(ctx context.Context, id uuid.UUID, text string, image *string, groupID *uuid.UUID) (*domain.Post, error)
	DeleteCascade(ctx context.Context, id uuid.UUID) error
}

// groupRepo resolves group slugs supplied on create/update.
type groupRepo interface {
	GetBySlug(ctx context.Context, slug string) (*domain.Group, error)
}

// txManager defines the transaction manager interface needed by this service.
type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Service provides post CRUD under the owner-or-read-only access model.
type Service struct {
	posts  postRepo
	groups groupRepo
	tx     txManager
	access policy.Policy
	cfg    config.APIConfig
	log    *slog.Logger
}

// NewService creates a new post service.
func NewService(
	logger *slog.Logger,
	posts postRepo,
	groups groupRepo,
	tx txManager,
	cfg config.APIConfig,
) *Service {
	return &Service{
		posts:  posts,
		groups: groups,
		tx:     tx,
		access: policy.OwnerOrReadOnly,
		cfg:    cfg,
		log:    logger.With("service", "post"),
	}
}

// actorFrom returns the acting user, uuid.Nil for anonymous requests.
func actorFrom(ctx context.Context) uuid.UUID {
	id, _ := ctxutil.UserIDFromCtx(ctx)
	return id
}
