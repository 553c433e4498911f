// Package follow implements the follow relationship operations. Every
// operation is scoped to the acting user: nobody sees or edits another
// user's subscriptions.
package follow

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/dsmolkin/feedline/internal/domain"
	"github.com/dsmolkin/feedline/internal/policy"
	"github.com/dsmolkin/feedline/pkg/ctxutil"
)

// followRepo defines the follow repository interface needed by this service.
type followRepo interface {
	ListByUser(ctx context.Context, userID uuid.UUID, search string) ([]*domain.Follow, error)
	GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Follow, error)
	PairExists(ctx context.Context, userID, followingID uuid.UUID) (bool, error)
	Create(ctx context.Context, f *domain.Follow) (*domain.Follow, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

// userRepo resolves the followed user by username.
type userRepo interface {
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
}

// Service provides follow operations under the authenticated-only
// access model.
type Service struct {
	follows followRepo
	users   userRepo
	access  policy.Policy
	guard   *policy.FollowGuard
	log     *slog.Logger
}

// NewService creates a new follow service.
func NewService(logger *slog.Logger, follows followRepo, users userRepo) *Service {
	return &Service{
		follows: follows,
		users:   users,
		access:  policy.AuthenticatedOnly,
		guard:   policy.NewFollowGuard(follows.PairExists),
		log:     logger.With("service", "follow"),
	}
}

func actorFrom(ctx context.Context) uuid.UUID {
	id, _ := ctxutil.UserIDFromCtx(ctx)
	return id
}
