package domain

import (
	"time"

	"github.com/google/uuid"
)

// Group is a community posts can be tagged to. Groups have no author and
// are provisioned out-of-band; the API never creates them.
type Group struct {
	ID          uuid.UUID
	Title       string
	Description string
	Slug        string
	CreatedAt   time.Time
}
