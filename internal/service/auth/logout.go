package auth

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dsmolkin/feedline/internal/domain"
	"github.com/dsmolkin/feedline/pkg/ctxutil"
)

// Logout revokes all of the acting user's refresh tokens.
func (s *Service) Logout(ctx context.Context) error {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return domain.ErrUnauthorized
	}

	if err := s.tokens.RevokeAllByUser(ctx, userID); err != nil {
		return fmt.Errorf("auth.Logout revoke tokens: %w", err)
	}

	s.log.InfoContext(ctx, "user logged out",
		slog.String("user_id", userID.String()))

	return nil
}
