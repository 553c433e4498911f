package post

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/dsmolkin/feedline/internal/domain"
	"github.com/dsmolkin/feedline/internal/policy"
)

// Update modifies a post. Full updates (PUT) require text; partial
// updates (PATCH) keep any field the input leaves nil. Only the author
// may update, and mutating someone else's post is a permission error,
// never a silent no-op.
func (s *Service) Update(ctx context.Context, id uuid.UUID, input UpdateInput, partial bool) (*domain.Post, error) {
	if err := input.validate(s.cfg.MaxTextLength, !partial); err != nil {
		return nil, err
	}

	current, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get post: %w", err)
	}

	verdict := s.access.Decide(policy.Request{
		Actor:  actorFrom(ctx),
		Action: policy.ActionUpdate,
		Owner:  current.OwnedBy(),
	})
	if err := verdict.Err(); err != nil {
		return nil, err
	}

	text := current.Text
	if input.Text != nil {
		text = strings.TrimSpace(*input.Text)
	}

	image := current.Image
	if input.Image != nil {
		image = input.Image
	}

	groupID := current.GroupID
	switch {
	case input.GroupClear:
		groupID = nil
	case input.GroupSlug != nil:
		group, err := s.groups.GetBySlug(ctx, strings.TrimSpace(*input.GroupSlug))
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, fmt.Errorf("group %q: %w", *input.GroupSlug, domain.ErrNotFound)
			}
			return nil, fmt.Errorf("resolve group: %w", err)
		}
		groupID = &group.ID
	}

	updated, err := s.posts.Update(ctx, id, text, image, groupID)
	if err != nil {
		return nil, fmt.Errorf("update post: %w", err)
	}

	s.log.InfoContext(ctx, "post updated",
		slog.String("post_id", id.String()))

	return updated, nil
}
