package comment

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/dsmolkin/feedline/internal/policy"
)

// Delete removes a comment. Only the author may delete.
func (s *Service) Delete(ctx context.Context, postID, id uuid.UUID) error {
	if err := s.resolvePost(ctx, postID); err != nil {
		return fmt.Errorf("comment.Delete: %w", err)
	}

	current, err := s.comments.GetByID(ctx, postID, id)
	if err != nil {
		return fmt.Errorf("comment.Delete: %w", err)
	}

	verdict := s.access.Decide(policy.Request{
		Actor:  actorFrom(ctx),
		Action: policy.ActionDelete,
		Owner:  current.OwnedBy(),
	})
	if err := verdict.Err(); err != nil {
		return err
	}

	if err := s.comments.Delete(ctx, postID, id); err != nil {
		return fmt.Errorf("comment.Delete: %w", err)
	}

	s.log.InfoContext(ctx, "comment deleted",
		slog.String("comment_id", id.String()),
		slog.String("post_id", postID.String()))

	return nil
}
