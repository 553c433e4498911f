package group

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/dsmolkin/feedline/internal/domain"
	"github.com/dsmolkin/feedline/internal/policy"
)

// List returns all groups.
func (s *Service) List(ctx context.Context) ([]*domain.Group, error) {
	verdict := s.access.Decide(policy.Request{
		Actor:  actorFrom(ctx),
		Action: policy.ActionList,
	})
	if err := verdict.Err(); err != nil {
		return nil, err
	}

	groups, err := s.groups.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("group.List: %w", err)
	}
	return groups, nil
}

// Get returns a single group.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*domain.Group, error) {
	verdict := s.access.Decide(policy.Request{
		Actor:  actorFrom(ctx),
		Action: policy.ActionRetrieve,
	})
	if err := verdict.Err(); err != nil {
		return nil, err
	}

	group, err := s.groups.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("group.Get: %w", err)
	}
	return group, nil
}

// Create is not supported: groups are provisioned out of band.
func (s *Service) Create(ctx context.Context) error {
	return fmt.Errorf("group.Create: %w", domain.ErrMethodNotAllowed)
}

// Update edits a group's title, description or slug.
func (s *Service) Update(ctx context.Context, id uuid.UUID, input UpdateInput, partial bool) (*domain.Group, error) {
	verdict := s.access.Decide(policy.Request{
		Actor:  actorFrom(ctx),
		Action: policy.ActionUpdate,
	})
	if err := verdict.Err(); err != nil {
		return nil, err
	}

	if err := input.validate(!partial); err != nil {
		return nil, err
	}

	current, err := s.groups.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("group.Update: %w", err)
	}

	title, description, slug := current.Title, current.Description, current.Slug
	if input.Title != nil {
		title = *input.Title
	}
	if input.Description != nil {
		description = *input.Description
	}
	if input.Slug != nil {
		slug = *input.Slug
	}

	updated, err := s.groups.Update(ctx, id, title, description, slug)
	if err != nil {
		return nil, fmt.Errorf("group.Update: %w", err)
	}

	s.log.InfoContext(ctx, "group updated", slog.String("group_id", id.String()))

	return updated, nil
}

// Delete removes a group and everything posted under it.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	verdict := s.access.Decide(policy.Request{
		Actor:  actorFrom(ctx),
		Action: policy.ActionDelete,
	})
	if err := verdict.Err(); err != nil {
		return err
	}

	if _, err := s.groups.GetByID(ctx, id); err != nil {
		return fmt.Errorf("group.Delete: %w", err)
	}

	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		return s.groups.DeleteCascade(txCtx, id)
	})
	if err != nil {
		return fmt.Errorf("group.Delete: %w", err)
	}

	s.log.InfoContext(ctx, "group deleted", slog.String("group_id", id.String()))

	return nil
}
