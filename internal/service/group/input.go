package group

import (
	"strings"

	"github.com/dsmolkin/feedline/internal/domain"
)

const (
	maxTitleLength = 200
	maxSlugLength  = 50
)

// UpdateInput holds the parameters for editing a group. Unset fields
// keep their current value on partial updates.
type UpdateInput struct {
	Title       *string
	Description *string
	Slug        *string
}

func (i UpdateInput) validate(requireAll bool) error {
	var errs []domain.FieldError

	if i.Title == nil {
		if requireAll {
			errs = append(errs, domain.FieldError{Field: "title", Message: "required"})
		}
	} else if title := strings.TrimSpace(*i.Title); title == "" {
		errs = append(errs, domain.FieldError{Field: "title", Message: "required"})
	} else if len(title) > maxTitleLength {
		errs = append(errs, domain.FieldError{Field: "title", Message: "max 200 characters"})
	}

	if i.Slug == nil {
		if requireAll {
			errs = append(errs, domain.FieldError{Field: "slug", Message: "required"})
		}
	} else if slug := *i.Slug; slug == "" {
		errs = append(errs, domain.FieldError{Field: "slug", Message: "required"})
	} else if len(slug) > maxSlugLength {
		errs = append(errs, domain.FieldError{Field: "slug", Message: "max 50 characters"})
	} else if !validSlug(slug) {
		errs = append(errs, domain.FieldError{Field: "slug", Message: "lowercase letters, digits and hyphen only"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

func validSlug(s string) bool {
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= '0' && r <= '9':
		case r == '-':
		default:
			return false
		}
	}
	return true
}
