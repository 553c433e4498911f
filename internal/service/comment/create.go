package comment

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dsmolkin/feedline/internal/domain"
	"github.com/dsmolkin/feedline/internal/policy"
)

// Create adds a comment to a post. The author is always the acting user
// and the post is always the addressed one, regardless of the payload.
func (s *Service) Create(ctx context.Context, postID uuid.UUID, input CreateInput) (*domain.Comment, error) {
	actor := actorFrom(ctx)

	verdict := s.access.Decide(policy.Request{
		Actor:  actor,
		Action: policy.ActionCreate,
	})
	if err := verdict.Err(); err != nil {
		return nil, err
	}

	if err := s.resolvePost(ctx, postID); err != nil {
		return nil, fmt.Errorf("comment.Create: %w", err)
	}

	if err := input.validate(s.cfg.MaxTextLength); err != nil {
		return nil, err
	}

	comment, err := s.comments.Create(ctx, &domain.Comment{
		ID:       uuid.New(),
		AuthorID: actor,
		PostID:   postID,
		Text:     input.Text,
		Created:  time.Now().UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("comment.Create: %w", err)
	}

	s.log.InfoContext(ctx, "comment created",
		slog.String("comment_id", comment.ID.String()),
		slog.String("post_id", postID.String()),
		slog.String("author_id", actor.String()))

	return comment, nil
}
