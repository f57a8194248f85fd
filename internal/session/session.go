// Package session issues the opaque tokens handed to clients after a
// successful login.
package session

import (
	"context"
	"time"

	"github.com/hongminglow/km-agri-be/internal/models"
)

// CookieName is the cookie carrying the session token.
const CookieName = "km-agri-session"

// Manager issues, resolves and revokes session tokens.
// auth.TokenManager and RedisStore both satisfy it.
type Manager interface {
	Issue(ctx context.Context, user models.User) (string, error)
	Resolve(ctx context.Context, token string) (string, error)
	Revoke(ctx context.Context, token string) error
	TTL() time.Duration
}
