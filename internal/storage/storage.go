package storage

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/hongminglow/km-agri-be/internal/models"
)

// ErrNotFound indicates a record does not exist.
var ErrNotFound = errors.New("record not found")

// ErrAlreadyExists indicates a uniqueness conflict.
var ErrAlreadyExists = errors.New("record already exists")

// UserFilter narrows ListUsers. Zero values mean "no constraint".
type UserFilter struct {
	Role     string
	IsActive *bool
	// Search matches name, email or phone, case-insensitively.
	Search string
	Offset int
	Limit  int
}

// UserStore captures persistence operations needed by handlers. Users are
// read and written as whole documents.
type UserStore interface {
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	FindByID(ctx context.Context, id string) (models.User, error)
	FindByPhone(ctx context.Context, phone string) (models.User, error)
	FindByEmail(ctx context.Context, email string) (models.User, error)
	ListUsers(ctx context.Context, filter UserFilter) ([]models.User, int, error)
	SaveUser(ctx context.Context, user models.User) (models.User, error)
	DeleteUser(ctx context.Context, id string) error
}

// SearchExpr quotes search for use inside a regular expression. Mongo and
// Postgres apply it case-insensitively.
func SearchExpr(search string) string {
	return regexp.QuoteMeta(strings.TrimSpace(search))
}

// SearchPattern returns a case-insensitive regular expression matching
// search literally.
func SearchPattern(search string) *regexp.Regexp {
	return regexp.MustCompile("(?i)" + SearchExpr(search))
}
