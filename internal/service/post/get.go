package post

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/dsmolkin/feedline/internal/domain"
	"github.com/dsmolkin/feedline/internal/policy"
)

// List returns posts matching the filters. Reads are open to everyone,
// including anonymous callers.
func (s *Service) List(ctx context.Context, input ListInput) ([]*domain.Post, error) {
	verdict := s.access.Decide(policy.Request{Actor: actorFrom(ctx), Action: policy.ActionList})
	if err := verdict.Err(); err != nil {
		return nil, err
	}

	if err := input.validate(s.cfg.MaxPageSize); err != nil {
		return nil, err
	}

	limit := input.Limit
	if limit == 0 {
		limit = s.cfg.DefaultPageSize
	}

	posts, err := s.posts.List(ctx, domain.PostFilter{
		Author:    input.Author,
		GroupSlug: input.GroupSlug,
		Limit:     limit,
		Offset:    input.Offset,
	})
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}

	return posts, nil
}

// Get returns a single post by id.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*domain.Post, error) {
	verdict := s.access.Decide(policy.Request{Actor: actorFrom(ctx), Action: policy.ActionRetrieve})
	if err := verdict.Err(); err != nil {
		return nil, err
	}

	p, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get post: %w", err)
	}

	return p, nil
}
