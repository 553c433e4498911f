package config

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Validate performs business-rule validation on the loaded configuration.
// Load calls it automatically.
func (c *Config) Validate() error {
	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("auth.jwt_secret must be at least 32 characters (got %d)", len(c.Auth.JWTSecret))
	}
	if c.Auth.AccessTokenTTL <= 0 {
		return fmt.Errorf("auth.access_token_ttl must be positive (got %v)", c.Auth.AccessTokenTTL)
	}
	if c.Auth.RefreshTokenTTL <= c.Auth.AccessTokenTTL {
		return fmt.Errorf("auth.refresh_token_ttl must exceed access_token_ttl (got %v)", c.Auth.RefreshTokenTTL)
	}
	if c.Auth.PasswordHashCost < bcrypt.MinCost || c.Auth.PasswordHashCost > bcrypt.MaxCost {
		return fmt.Errorf("auth.password_hash_cost must be in [%d, %d] (got %d)",
			bcrypt.MinCost, bcrypt.MaxCost, c.Auth.PasswordHashCost)
	}

	if c.API.DefaultPageSize <= 0 {
		return fmt.Errorf("api.default_page_size must be positive (got %d)", c.API.DefaultPageSize)
	}
	if c.API.MaxPageSize < c.API.DefaultPageSize {
		return fmt.Errorf("api.max_page_size must be >= default_page_size (got %d < %d)",
			c.API.MaxPageSize, c.API.DefaultPageSize)
	}
	if c.API.MaxTextLength <= 0 {
		return fmt.Errorf("api.max_text_length must be positive (got %d)", c.API.MaxTextLength)
	}

	if c.RateLimit.Enabled {
		if c.RateLimit.MaxPerMinute <= 0 {
			return fmt.Errorf("rate_limit.max_per_minute must be positive (got %d)", c.RateLimit.MaxPerMinute)
		}
		if c.RateLimit.CleanupInterval <= 0 {
			return fmt.Errorf("rate_limit.cleanup_interval must be positive (got %v)", c.RateLimit.CleanupInterval)
		}
	}

	return nil
}
