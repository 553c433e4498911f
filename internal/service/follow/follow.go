package follow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dsmolkin/feedline/internal/domain"
	"github.com/dsmolkin/feedline/internal/policy"
)

// CreateInput holds the parameters for creating a follow edge. Following
// addresses the target by username.
type CreateInput struct {
	Following string
}

// List returns the acting user's follow edges, optionally filtered by a
// case-insensitive substring of the followed username.
func (s *Service) List(ctx context.Context, search string) ([]*domain.Follow, error) {
	actor := actorFrom(ctx)

	verdict := s.access.Decide(policy.Request{Actor: actor, Action: policy.ActionList})
	if err := verdict.Err(); err != nil {
		return nil, err
	}

	follows, err := s.follows.ListByUser(ctx, actor, search)
	if err != nil {
		return nil, fmt.Errorf("follow.List: %w", err)
	}
	return follows, nil
}

// Get returns one of the acting user's follow edges. Another user's
// edge is indistinguishable from an absent one.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*domain.Follow, error) {
	actor := actorFrom(ctx)

	verdict := s.access.Decide(policy.Request{Actor: actor, Action: policy.ActionRetrieve})
	if err := verdict.Err(); err != nil {
		return nil, err
	}

	follow, err := s.follows.GetByID(ctx, actor, id)
	if err != nil {
		return nil, fmt.Errorf("follow.Get: %w", err)
	}
	return follow, nil
}

// Create subscribes the acting user to another user. The follower side
// is always the actor, regardless of the payload.
func (s *Service) Create(ctx context.Context, input CreateInput) (*domain.Follow, error) {
	actor := actorFrom(ctx)

	verdict := s.access.Decide(policy.Request{Actor: actor, Action: policy.ActionCreate})
	if err := verdict.Err(); err != nil {
		return nil, err
	}

	username := strings.TrimSpace(input.Following)
	if username == "" {
		return nil, domain.NewValidationError("following", "required")
	}

	target, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("follow.Create resolve user: %w", err)
	}

	if err := s.guard.Validate(ctx, actor, target.ID); err != nil {
		return nil, err
	}

	follow, err := s.follows.Create(ctx, &domain.Follow{
		ID:          uuid.New(),
		UserID:      actor,
		FollowingID: target.ID,
		CreatedAt:   time.Now().UTC(),
	})
	if err != nil {
		// A race past the guard lands on the unique index; surface it
		// the same way the guard would have.
		if errors.Is(err, domain.ErrAlreadyExists) {
			return nil, domain.NewValidationError("following", policy.DuplicateFollowMessage)
		}
		return nil, fmt.Errorf("follow.Create: %w", err)
	}

	s.log.InfoContext(ctx, "follow created",
		slog.String("user_id", actor.String()),
		slog.String("following_id", target.ID.String()))

	return follow, nil
}

// Delete removes one of the acting user's follow edges.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	actor := actorFrom(ctx)

	verdict := s.access.Decide(policy.Request{Actor: actor, Action: policy.ActionDelete})
	if err := verdict.Err(); err != nil {
		return err
	}

	if err := s.follows.Delete(ctx, actor, id); err != nil {
		return fmt.Errorf("follow.Delete: %w", err)
	}

	s.log.InfoContext(ctx, "follow deleted",
		slog.String("user_id", actor.String()),
		slog.String("follow_id", id.String()))

	return nil
}
