package policy

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/dsmolkin/feedline/internal/domain"
)

// SelfFollowMessage is the fixed, machine-checkable message returned when
// a user attempts to follow themselves.
const SelfFollowMessage = "You cant follow by yourself!"

// DuplicateFollowMessage is returned when the (user, following) pair
// already exists.
const DuplicateFollowMessage = "already following this user"

// PairExists reports whether a follow edge for the pair is persisted.
type PairExists func(ctx context.Context, userID, followingID uuid.UUID) (bool, error)

// FollowGuard validates a candidate follow edge before the store is
// touched. The store's unique constraint remains the backstop for races;
// callers must remap its violation to the same validation error.
type FollowGuard struct {
	exists PairExists
}

// NewFollowGuard creates a FollowGuard backed by the given pair lookup.
func NewFollowGuard(exists PairExists) *FollowGuard {
	return &FollowGuard{exists: exists}
}

// Validate applies the relationship rules in order; the first failure
// wins. Both failures are validation errors, never storage faults.
func (g *FollowGuard) Validate(ctx context.Context, userID, followingID uuid.UUID) error {
	if userID == followingID {
		return domain.NewValidationError("following", SelfFollowMessage)
	}

	exists, err := g.exists(ctx, userID, followingID)
	if err != nil {
		return fmt.Errorf("check follow pair: %w", err)
	}
	if exists {
		return domain.NewValidationError("following", DuplicateFollowMessage)
	}

	return nil
}
