package policy

import "github.com/dsmolkin/feedline/internal/domain"

// Err converts a denial into the matching domain error: a missing actor
// is an authentication failure, everything else is a permission failure.
// A denied existing resource therefore never reads as absent.
func (v Verdict) Err() error {
	if v.Allow {
		return nil
	}
	if v.Reason == ReasonUnauthenticated {
		return domain.ErrUnauthorized
	}
	return domain.ErrForbidden
}
