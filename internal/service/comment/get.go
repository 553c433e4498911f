package comment

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/dsmolkin/feedline/internal/domain"
	"github.com/dsmolkin/feedline/internal/policy"
)

// List returns the comments of a post in creation order.
func (s *Service) List(ctx context.Context, postID uuid.UUID) ([]*domain.Comment, error) {
	verdict := s.access.Decide(policy.Request{
		Actor:  actorFrom(ctx),
		Action: policy.ActionList,
	})
	if err := verdict.Err(); err != nil {
		return nil, err
	}

	if err := s.resolvePost(ctx, postID); err != nil {
		return nil, fmt.Errorf("comment.List: %w", err)
	}

	comments, err := s.comments.ListByPost(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("comment.List: %w", err)
	}
	return comments, nil
}

// Get returns a single comment of a post.
func (s *Service) Get(ctx context.Context, postID, id uuid.UUID) (*domain.Comment, error) {
	verdict := s.access.Decide(policy.Request{
		Actor:  actorFrom(ctx),
		Action: policy.ActionRetrieve,
	})
	if err := verdict.Err(); err != nil {
		return nil, err
	}

	if err := s.resolvePost(ctx, postID); err != nil {
		return nil, fmt.Errorf("comment.Get: %w", err)
	}

	comment, err := s.comments.GetByID(ctx, postID, id)
	if err != nil {
		return nil, fmt.Errorf("comment.Get: %w", err)
	}
	return comment, nil
}
