package auth

import "github.com/dsmolkin/feedline/internal/domain"

// Result carries issued tokens and the authenticated user.
type Result struct {
	AccessToken  string
	RefreshToken string
	User         *domain.User
}
