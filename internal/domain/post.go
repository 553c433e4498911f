package domain

import (
	"time"

	"github.com/google/uuid"
)

// Post is a publication authored by a user, optionally tagged to a group
// and optionally carrying an image reference.
//
// AuthorID is fixed at creation time to the acting user and is never
// reassigned. PubDate is server-assigned and immutable.
type Post struct {
	ID       uuid.UUID
	Text     string
	PubDate  time.Time
	AuthorID uuid.UUID
	// Author is the author's username, resolved by the store on reads.
	Author  string
	Image   *string
	GroupID *uuid.UUID
}

// OwnedBy reports the owning user for authorization decisions.
func (p *Post) OwnedBy() uuid.UUID { return p.AuthorID }

// PostFilter narrows a post listing. Zero values mean "no filter".
// Both filters are exact matches and combine with AND.
type PostFilter struct {
	Author    string // author username
	GroupSlug string
	Limit     int
	Offset    int
}
