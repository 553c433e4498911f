package comment

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/dsmolkin/feedline/internal/domain"
	"github.com/dsmolkin/feedline/internal/policy"
)

// Update edits a comment's text. Only the author may edit.
func (s *Service) Update(ctx context.Context, postID, id uuid.UUID, input UpdateInput, partial bool) (*domain.Comment, error) {
	if err := s.resolvePost(ctx, postID); err != nil {
		return nil, fmt.Errorf("comment.Update: %w", err)
	}

	if err := input.validate(s.cfg.MaxTextLength, !partial); err != nil {
		return nil, err
	}

	current, err := s.comments.GetByID(ctx, postID, id)
	if err != nil {
		return nil, fmt.Errorf("comment.Update: %w", err)
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
		text = *input.Text
	}

	updated, err := s.comments.Update(ctx, postID, id, text)
	if err != nil {
		return nil, fmt.Errorf("comment.Update: %w", err)
	}

	s.log.InfoContext(ctx, "comment updated",
		slog.String("comment_id", id.String()),
		slog.String("post_id", postID.String()))

	return updated, nil
}
