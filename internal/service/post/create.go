package post

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

// Create publishes a new post. The author is forced to the acting user
// regardless of anything in the request payload, and the publication
// date is server-assigned.
func (s *Service) Create(ctx context.Context, input CreateInput) (*domain.Post, error) {
	actor := actorFrom(ctx)

	verdict := s.access.Decide(policy.Request{Actor: actor, Action: policy.ActionCreate})
	if err := verdict.Err(); err != nil {
		return nil, err
	}

	if err := input.validate(s.cfg.MaxTextLength); err != nil {
		return nil, err
	}

	var groupID *uuid.UUID
	if input.GroupSlug != nil {
		group, err := s.groups.GetBySlug(ctx, strings.TrimSpace(*input.GroupSlug))
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, fmt.Errorf("group %q: %w", *input.GroupSlug, domain.ErrNotFound)
			}
			return nil, fmt.Errorf("resolve group: %w", err)
		}
		groupID = &group.ID
	}

	created, err := s.posts.Create(ctx, &domain.Post{
		ID:       uuid.New(),
		Text:     strings.TrimSpace(input.Text),
		PubDate:  time.Now().UTC(),
		AuthorID: actor,
		Image:    input.Image,
		GroupID:  groupID,
	})
	if err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}

	s.log.InfoContext(ctx, "post created",
		slog.String("post_id", created.ID.String()),
		slog.String("author_id", actor.String()),
	)

	return created, nil
}
