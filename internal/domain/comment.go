package domain

import (
	"time"

	"github.com/google/uuid"
)

// Comment exists only in the context of exactly one post. Created is
// server-assigned, immutable, and the default ordering key (oldest first).
type Comment struct {
	ID       uuid.UUID
	AuthorID uuid.UUID
	// Author is the author's username, resolved by the store on reads.
	Author  string
	PostID  uuid.UUID
	Text    string
	Created time.Time
}

// OwnedBy reports the owning user for authorization decisions.
func (c *Comment) OwnedBy() uuid.UUID { return c.AuthorID }
