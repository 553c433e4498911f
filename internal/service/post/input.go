package post

import (
	"strings"

	"github.com/dsmolkin/feedline/internal/domain"
)

// CreateInput holds the parameters for creating a post. The author is
// never part of the input; it is always the acting user.
type CreateInput struct {
	Text      string
	Image     *string
	GroupSlug *string
}

// Validate checks all fields against the configured limits.
func (i CreateInput) validate(maxText int) error {
	var errs []domain.FieldError

	text := strings.TrimSpace(i.Text)
	if text == "" {
		errs = append(errs, domain.FieldError{Field: "text", Message: "required"})
	} else if len(text) > maxText {
		errs = append(errs, domain.FieldError{Field: "text", Message: "too long"})
	}

	if i.GroupSlug != nil && strings.TrimSpace(*i.GroupSlug) == "" {
		errs = append(errs, domain.FieldError{Field: "group", Message: "must not be blank"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// UpdateInput holds the parameters for updating a post. Nil fields mean
// "keep the current value", which makes one input serve both full and
// partial updates: full updates require Text, partial ones do not.
type UpdateInput struct {
	Text  *string
	Image *string
	// GroupSlug updates the group tag; GroupClear removes it.
	GroupSlug  *string
	GroupClear bool
}

func (i UpdateInput) validate(maxText int, requireText bool) error {
	var errs []domain.FieldError

	if requireText && i.Text == nil {
		errs = append(errs, domain.FieldError{Field: "text", Message: "required"})
	}
	if i.Text != nil {
		text := strings.TrimSpace(*i.Text)
		if text == "" {
			errs = append(errs, domain.FieldError{Field: "text", Message: "must not be blank"})
		} else if len(text) > maxText {
			errs = append(errs, domain.FieldError{Field: "text", Message: "too long"})
		}
	}
	if i.GroupSlug != nil && i.GroupClear {
		errs = append(errs, domain.FieldError{Field: "group", Message: "cannot both set and clear"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// ListInput narrows and pages a post listing.
type ListInput struct {
	Author    string
	GroupSlug string
	Limit     int
	Offset    int
}

func (i ListInput) validate(maxPage int) error {
	var errs []domain.FieldError
	if i.Limit < 0 {
		errs = append(errs, domain.FieldError{Field: "limit", Message: "must be non-negative"})
	}
	if i.Limit > maxPage {
		errs = append(errs, domain.FieldError{Field: "limit", Message: "too large"})
	}
	if i.Offset < 0 {
		errs = append(errs, domain.FieldError{Field: "offset", Message: "must be non-negative"})
	}
	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}
