// Package memory is an in-process UserStore used by tests and local runs.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/hongminglow/km-agri-be/internal/models"
	"github.com/hongminglow/km-agri-be/internal/storage"
)

// Ensure Store satisfies the storage.UserStore interface at compile time.
var _ storage.UserStore = (*Store)(nil)

// Store keeps users as encoded BSON documents so callers never share
// slices with the stored copy.
type Store struct {
	mu    sync.RWMutex
	users map[primitive.ObjectID][]byte
}

// NewUserStore returns an empty store.
func NewUserStore() *Store {
	return &Store{users: make(map[primitive.ObjectID][]byte)}
}

// Close is a no-op.
func (s *Store) Close() {}

// CreateUser inserts user, enforcing unique phone and email.
func (s *Store) CreateUser(_ context.Context, user models.User) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	if _, ok := s.users[user.ID]; ok {
		return models.User{}, storage.ErrAlreadyExists
	}
	if s.conflicts(user) {
		return models.User{}, storage.ErrAlreadyExists
	}
	return s.put(user)
}

// FindByID fetches a user by hex id.
func (s *Store) FindByID(_ context.Context, id string) (models.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.User{}, storage.ErrNotFound
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	raw, ok := s.users[oid]
	if !ok {
		return models.User{}, storage.ErrNotFound
	}
	return decode(raw)
}

// FindByPhone fetches a user by phone number.
func (s *Store) FindByPhone(_ context.Context, phone string) (models.User, error) {
	return s.findFirst(func(u models.User) bool { return u.Phone == phone })
}

// FindByEmail fetches a user by email address.
func (s *Store) FindByEmail(_ context.Context, email string) (models.User, error) {
	if email == "" {
		return models.User{}, storage.ErrNotFound
	}
	return s.findFirst(func(u models.User) bool { return u.Email == email })
}

// ListUsers returns matching users newest first along with the match count.
func (s *Store) ListUsers(_ context.Context, f storage.UserFilter) ([]models.User, int, error) {
	all, err := s.snapshot()
	if err != nil {
		return nil, 0, err
	}

	matched := make([]models.User, 0, len(all))
	pattern := storage.SearchPattern(f.Search)
	for _, u := range all {
		if f.Role != "" && u.Role != f.Role {
			continue
		}
		if f.IsActive != nil && u.IsActive != *f.IsActive {
			continue
		}
		if f.Search != "" && !pattern.MatchString(u.Name) && !pattern.MatchString(u.Email) && !pattern.MatchString(u.Phone) {
			continue
		}
		matched = append(matched, u)
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := len(matched)
	start := min(max(f.Offset, 0), total)
	end := total
	if f.Limit > 0 {
		end = start + min(f.Limit, total-start)
	}
	return matched[start:end], total, nil
}

// SaveUser replaces the stored document of an existing user.
func (s *Store) SaveUser(_ context.Context, user models.User) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[user.ID]; !ok {
		return models.User{}, storage.ErrNotFound
	}
	if s.conflicts(user) {
		return models.User{}, storage.ErrAlreadyExists
	}
	return s.put(user)
}

// DeleteUser removes a user permanently.
func (s *Store) DeleteUser(_ context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return storage.ErrNotFound
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[oid]; !ok {
		return storage.ErrNotFound
	}
	delete(s.users, oid)
	return nil
}

// conflicts reports whether another user holds user's phone or email.
// Callers hold the lock.
func (s *Store) conflicts(user models.User) bool {
	for id, raw := range s.users {
		if id == user.ID {
			continue
		}
		other, err := decode(raw)
		if err != nil {
			continue
		}
		if other.Phone == user.Phone || (user.Email != "" && other.Email == user.Email) {
			return true
		}
	}
	return false
}

func (s *Store) put(user models.User) (models.User, error) {
	user.Normalize()
	raw, err := bson.Marshal(user)
	if err != nil {
		return models.User{}, fmt.Errorf("encode user: %w", err)
	}
	s.users[user.ID] = raw
	return decode(raw)
}

func (s *Store) findFirst(match func(models.User) bool) (models.User, error) {
	all, err := s.snapshot()
	if err != nil {
		return models.User{}, err
	}
	for _, u := range all {
		if match(u) {
			return u, nil
		}
	}
	return models.User{}, storage.ErrNotFound
}

func (s *Store) snapshot() ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.User, 0, len(s.users))
	for _, raw := range s.users {
		u, err := decode(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, nil
}

func decode(raw []byte) (models.User, error) {
	var u models.User
	if err := bson.Unmarshal(raw, &u); err != nil {
		return models.User{}, fmt.Errorf("decode user: %w", err)
	}
	u.Normalize()
	return u, nil
}
