package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/hongminglow/km-agri-be/internal/models"
	"github.com/hongminglow/km-agri-be/internal/storage"
)

// Ensure Store satisfies the storage.UserStore interface at compile time.
var _ storage.UserStore = (*Store)(nil)

// Store provides Postgres-backed persistence for users. Each row holds
// the full user document as BSON next to the columns that are queried or
// must stay unique.
type Store struct {
	pool *pgxpool.Pool
}

// NewUserStore creates a new Store and runs migrations.
func NewUserStore(ctx context.Context, databaseURL string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	s := &Store{pool: pool}
	if err := s.migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return s, nil
}

// Close releases database resources.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

func (s *Store) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			phone TEXT NOT NULL,
			email TEXT,
			role TEXT NOT NULL DEFAULT 'customer',
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			doc BYTEA NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE UNIQUE INDEX IF NOT EXISTS users_phone_unique_idx ON users (phone);`,
		`CREATE UNIQUE INDEX IF NOT EXISTS users_email_unique_idx ON users (email) WHERE email IS NOT NULL;`,
		`CREATE INDEX IF NOT EXISTS users_role_idx ON users (role);`,
		`CREATE INDEX IF NOT EXISTS users_is_active_idx ON users (is_active);`,
	}
	for _, stmt := range stmts {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply migrations: %w", err)
		}
	}
	return nil
}

// CreateUser inserts a new user row.
func (s *Store) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	user.Normalize()
	doc, err := bson.Marshal(user)
	if err != nil {
		return models.User{}, fmt.Errorf("encode user: %w", err)
	}

	const query = `
		INSERT INTO users (id, name, phone, email, role, is_active, doc, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING doc;
	`
	row := s.pool.QueryRow(ctx, query,
		user.ID.Hex(), user.Name, user.Phone, nullable(user.Email), user.Role, user.IsActive, doc, user.CreatedAt, user.UpdatedAt)
	created, err := scanUser(row)
	if err != nil {
		if isUniqueViolation(err) {
			return models.User{}, storage.ErrAlreadyExists
		}
		return models.User{}, err
	}
	return created, nil
}

// FindByID fetches a user by id.
func (s *Store) FindByID(ctx context.Context, id string) (models.User, error) {
	row := s.pool.QueryRow(ctx, `SELECT doc FROM users WHERE id = $1;`, id)
	return scanUser(row)
}

// FindByPhone fetches a user by phone number.
func (s *Store) FindByPhone(ctx context.Context, phone string) (models.User, error) {
	row := s.pool.QueryRow(ctx, `SELECT doc FROM users WHERE phone = $1;`, phone)
	return scanUser(row)
}

// FindByEmail fetches a user by email address.
func (s *Store) FindByEmail(ctx context.Context, email string) (models.User, error) {
	if email == "" {
		return models.User{}, storage.ErrNotFound
	}
	row := s.pool.QueryRow(ctx, `SELECT doc FROM users WHERE email = $1;`, email)
	return scanUser(row)
}

// ListUsers returns matching users newest first along with the match count.
func (s *Store) ListUsers(ctx context.Context, f storage.UserFilter) ([]models.User, int, error) {
	var where []string
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}
	if f.Role != "" {
		where = append(where, "role = "+arg(f.Role))
	}
	if f.IsActive != nil {
		where = append(where, "is_active = "+arg(*f.IsActive))
	}
	if f.Search != "" {
		p := arg(storage.SearchExpr(f.Search))
		where = append(where, fmt.Sprintf("(name ~* %[1]s OR COALESCE(email, '') ~* %[1]s OR phone ~* %[1]s)", p))
	}
	clause := ""
	if len(where) > 0 {
		clause = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`+clause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	query := `SELECT doc FROM users` + clause + ` ORDER BY created_at DESC OFFSET ` + arg(max(f.Offset, 0))
	if f.Limit > 0 {
		query += ` LIMIT ` + arg(f.Limit)
	}
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	return users, total, nil
}

// SaveUser replaces the stored document and its indexed columns.
func (s *Store) SaveUser(ctx context.Context, user models.User) (models.User, error) {
	user.Normalize()
	doc, err := bson.Marshal(user)
	if err != nil {
		return models.User{}, fmt.Errorf("encode user: %w", err)
	}

	const query = `
		UPDATE users
		SET name = $2, phone = $3, email = $4, role = $5, is_active = $6, doc = $7, updated_at = $8
		WHERE id = $1
		RETURNING doc;
	`
	row := s.pool.QueryRow(ctx, query,
		user.ID.Hex(), user.Name, user.Phone, nullable(user.Email), user.Role, user.IsActive, doc, user.UpdatedAt)
	saved, err := scanUser(row)
	if err != nil {
		if isUniqueViolation(err) {
			return models.User{}, storage.ErrAlreadyExists
		}
		return models.User{}, err
	}
	return saved, nil
}

// DeleteUser removes a user row.
func (s *Store) DeleteUser(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM users WHERE id = $1;`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func scanUser(row pgx.Row) (models.User, error) {
	var doc []byte
	if err := row.Scan(&doc); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, storage.ErrNotFound
		}
		return models.User{}, err
	}
	var user models.User
	if err := bson.Unmarshal(doc, &user); err != nil {
		return models.User{}, fmt.Errorf("decode user: %w", err)
	}
	user.Normalize()
	return user, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
