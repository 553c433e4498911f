// Package user implements the account profile operations.
package user

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/dsmolkin/feedline/internal/domain"
	"github.com/dsmolkin/feedline/pkg/ctxutil"
)

// userRepo defines the user repository interface needed by this service.
type userRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	DeleteCascade(ctx context.Context, id uuid.UUID) error
}

// txManager defines the transaction manager interface needed by this service.
type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Service provides operations on the acting user's own account.
type Service struct {
	users userRepo
	tx    txManager
	log   *slog.Logger
}

// NewService creates a new user service.
func NewService(logger *slog.Logger, users userRepo, tx txManager) *Service {
	return &Service{
		users: users,
		tx:    tx,
		log:   logger.With("service", "user"),
	}
}

// Profile returns the acting user's account.
func (s *Service) Profile(ctx context.Context) (*domain.User, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("user.Profile: %w", err)
	}
	return user, nil
}

// DeleteAccount removes the acting user and everything they authored:
// posts with their comments, standalone comments, and follow edges in
// both directions.
func (s *Service) DeleteAccount(ctx context.Context) error {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return domain.ErrUnauthorized
	}

	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		return s.users.DeleteCascade(txCtx, userID)
	})
	if err != nil {
		return fmt.Errorf("user.DeleteAccount: %w", err)
	}

	s.log.InfoContext(ctx, "account deleted", slog.String("user_id", userID.String()))

	return nil
}
