package comment

import (
	"fmt"
	"strings"

	"github.com/dsmolkin/feedline/internal/domain"
)

// CreateInput holds the parameters for creating a comment.
type CreateInput struct {
	Text string
}

func (i CreateInput) validate(maxText int) error {
	return validateText(i.Text, maxText)
}

// UpdateInput holds the parameters for editing a comment. A full update
// requires text; a partial one may leave it unset.
type UpdateInput struct {
	Text *string
}

func (i UpdateInput) validate(maxText int, requireText bool) error {
	if i.Text == nil {
		if requireText {
			return domain.NewValidationError("text", "required")
		}
		return nil
	}
	return validateText(*i.Text, maxText)
}

func validateText(text string, maxText int) error {
	if strings.TrimSpace(text) == "" {
		return domain.NewValidationError("text", "required")
	}
	if len(text) > maxText {
		return domain.NewValidationError("text", fmt.Sprintf("max %d characters", maxText))
	}
	return nil
}
