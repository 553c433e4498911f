// Package comment implements comment operations scoped to a parent post.
package comment

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/dsmolkin/feedline/internal/config"
	"github.com/dsmolkin/feedline/internal/domain"
	"github.com/dsmolkin/feedline/internal/policy"
	"github.com/dsmolkin/feedline/pkg/ctxutil"
)

// commentRepo defines the comment repository interface needed by this service.
type commentRepo interface {
	ListByPost(ctx context.Context, postID uuid.UUID) ([]*domain.Comment, error)
	GetByID(ctx context.Context, postID, id uuid.UUID) (*domain.Comment, error)
	Create(ctx context.Context, c *domain.Comment) (*domain.Comment, error)
	Update(ctx context.Context, postID, id uuid.UUID, text string) (*domain.Comment, error)
	Delete(ctx context.Context, postID, id uuid.UUID) error
}

// postRepo checks that the parent post exists.
type postRepo interface {
	ExistsByID(ctx context.Context, id uuid.UUID) (bool, error)
}

// Service provides comment CRUD under the owner-or-read-only access model.
type Service struct {
	comments commentRepo
	posts    postRepo
	access   policy.Policy
	cfg      config.APIConfig
	log      *slog.Logger
}

// NewService creates a new comment service.
func NewService(
	logger *slog.Logger,
	comments commentRepo,
	posts postRepo,
	cfg config.APIConfig,
) *Service {
	return &Service{
		comments: comments,
		posts:    posts,
		access:   policy.OwnerOrReadOnly,
		cfg:      cfg,
		log:      logger.With("service", "comment"),
	}
}

// resolvePost fails with ErrNotFound before any comment logic runs when
// the parent post is absent.
func (s *Service) resolvePost(ctx context.Context, postID uuid.UUID) error {
	ok, err := s.posts.ExistsByID(ctx, postID)
	if err != nil {
		return fmt.Errorf("check post: %w", err)
	}
	if !ok {
		return fmt.Errorf("post %s: %w", postID, domain.ErrNotFound)
	}
	return nil
}

func actorFrom(ctx context.Context) uuid.UUID {
	id, _ := ctxutil.UserIDFromCtx(ctx)
	return id
}
