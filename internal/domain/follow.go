package domain

import (
	"time"

	"github.com/google/uuid"
)

// Follow is a directed edge from UserID (the follower) to FollowingID.
// Invariants: UserID != FollowingID, and the (UserID, FollowingID) pair
// is unique. Follows are create/list/delete only.
type Follow struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	FollowingID uuid.UUID
	// User and Following are usernames, resolved by the store on reads.
	User      string
	Following string
	CreatedAt time.Time
}
