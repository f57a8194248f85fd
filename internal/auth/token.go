package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/hongminglow/km-agri-be/internal/models"
)

// ErrInvalidToken indicates a session token that is malformed, expired or
// signed with another key.
var ErrInvalidToken = errors.New("invalid session token")

// TokenManager issues signed JWTs that reference a user id. It is the
// stateless session backend: revocation only clears the client cookie.
type TokenManager struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

// NewTokenManager creates a manager with the provided secret, issuer, and lifetime.
func NewTokenManager(secret, issuer string, ttl time.Duration) *TokenManager {
	return &TokenManager{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
	}
}

// Issue returns a signed JWT string for the provided user.
func (t *TokenManager) Issue(_ context.Context, user models.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"iss":   t.issuer,
		"sub":   user.ID.Hex(),
		"phone": user.Phone,
		"role":  user.Role,
		"iat":   now.Unix(),
		"nbf":   now.Unix(),
		"exp":   now.Add(t.ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

// Resolve validates token and returns the user id it was issued for.
func (t *TokenManager) Resolve(_ context.Context, token string) (string, error) {
	parsed, err := jwt.Parse(token, func(tok *jwt.Token) (any, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", tok.Header["alg"])
		}
		return t.secret, nil
	}, jwt.WithIssuer(t.issuer), jwt.WithExpirationRequired())
	if err != nil || !parsed.Valid {
		return "", ErrInvalidToken
	}
	sub, err := parsed.Claims.GetSubject()
	if err != nil || sub == "" {
		return "", ErrInvalidToken
	}
	return sub, nil
}

// Revoke is a no-op; signed tokens expire on their own.
func (t *TokenManager) Revoke(context.Context, string) error {
	return nil
}

// TTL is the lifetime of issued tokens.
func (t *TokenManager) TTL() time.Duration {
	return t.ttl
}
