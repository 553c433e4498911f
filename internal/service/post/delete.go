package post

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/dsmolkin/feedline/internal/policy"
)

// Delete removes a post and its comments in one transaction. Only the
// author may delete.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	current, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get post: %w", err)
	}

	verdict := s.access.Decide(policy.Request{
		Actor:  actorFrom(ctx),
		Action: policy.ActionDelete,
		Owner:  current.OwnedBy(),
	})
	if err := verdict.Err(); err != nil {
		return err
	}

	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		return s.posts.DeleteCascade(txCtx, id)
	})
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}

	s.log.InfoContext(ctx, "post deleted",
		slog.String("post_id", id.String()))

	return nil
}
