package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	authtoken "github.com/dsmolkin/feedline/internal/auth"
	"github.com/dsmolkin/feedline/internal/domain"
)

// Refresh rotates a refresh token: the presented token is revoked and a
// fresh access/refresh pair is issued. A revoked, expired or unknown
// token is an authentication failure.
func (s *Service) Refresh(ctx context.Context, input RefreshInput) (*Result, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	stored, err := s.tokens.GetByHash(ctx, authtoken.HashToken(input.RefreshToken))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, fmt.Errorf("auth.Refresh get token: %w", err)
	}

	if stored.IsRevoked() || stored.IsExpired(time.Now().UTC()) {
		return nil, domain.ErrUnauthorized
	}

	user, err := s.users.GetByID(ctx, stored.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, fmt.Errorf("auth.Refresh get user: %w", err)
	}

	if err := s.tokens.RevokeByID(ctx, stored.ID); err != nil {
		return nil, fmt.Errorf("auth.Refresh revoke token: %w", err)
	}

	result, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("auth.Refresh issue tokens: %w", err)
	}

	s.log.InfoContext(ctx, "tokens refreshed",
		slog.String("user_id", user.ID.String()))

	return result, nil
}
