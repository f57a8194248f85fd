package auth

import (
	"errors"
	"strings"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength is the shortest password accepted on create or update.
const MinPasswordLength = 6

// ErrWeakPassword indicates a password shorter than MinPasswordLength.
var ErrWeakPassword = errors.New("password must be at least 6 characters long")

// HashPassword validates and bcrypt-hashes password.
func HashPassword(password string) (string, error) {
	if len(strings.TrimSpace(password)) < MinPasswordLength {
		return "", ErrWeakPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// dummyHash is compared against when there is no real hash, so a missing
// account costs the same bcrypt work as a wrong password.
var dummyHash = sync.OnceValue(func() []byte {
	hash, err := bcrypt.GenerateFromPassword([]byte("km-agri-no-account"), bcrypt.DefaultCost)
	if err != nil {
		panic(err)
	}
	return hash
})

// CheckPassword reports whether password matches hash. An empty hash never
// matches but still runs a full bcrypt comparison.
func CheckPassword(hash, password string) bool {
	if hash == "" {
		_ = bcrypt.CompareHashAndPassword(dummyHash(), []byte(password))
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
