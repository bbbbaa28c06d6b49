// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"
	"time"

	"github.com/family-budget/backend/internal/domain/entity"
)

// TokenService turns the authentication provider's bearer tokens into sessions.
type TokenService interface {
	// ParseSession validates an access token and returns the session it carries.
	ParseSession(ctx context.Context, token string) (*entity.Session, error)

	// IssueToken signs an access token for a user. Used by tooling and tests.
	IssueToken(userID, email string, ttl time.Duration) (string, error)
}
