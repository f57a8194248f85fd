package memory

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hongminglow/km-agri-be/internal/models"
	"github.com/hongminglow/km-agri-be/internal/storage"
	"github.com/hongminglow/km-agri-be/internal/storage/storagetest"
)

func newUser(name, phone, email string, created time.Time) models.User {
	u := models.NewUser(name, phone, created)
	u.Email = email
	return u
}

func TestCreateUserRejectsDuplicatePhoneAndEmail(t *testing.T) {
	ctx := context.Background()
	s := NewUserStore()
	now := time.Now()

	_, err := s.CreateUser(ctx, newUser("Asha", "9999999999", "asha@example.com", now))
	require.NoError(t, err)

	_, err = s.CreateUser(ctx, newUser("Ravi", "9999999999", "", now))
	assert.ErrorIs(t, err, storage.ErrAlreadyExists)

	_, err = s.CreateUser(ctx, newUser("Ravi", "8888888888", "asha@example.com", now))
	assert.ErrorIs(t, err, storage.ErrAlreadyExists)

	_, err = s.CreateUser(ctx, newUser("Ravi", "8888888888", "", now))
	require.NoError(t, err)
	_, err = s.CreateUser(ctx, newUser("Meera", "7777777777", "", now))
	require.NoError(t, err, "users without email must not collide")
}

func TestSaveUserDoesNotShareSlices(t *testing.T) {
	ctx := context.Background()
	s := NewUserStore()
	created, err := s.CreateUser(ctx, newUser("Asha", "9999999999", "", time.Now()))
	require.NoError(t, err)

	created.Cart = append(created.Cart, models.CartItem{ProductID: "1", Quantity: 1, Price: 10})
	stored, err := s.FindByID(ctx, created.ID.Hex())
	require.NoError(t, err)
	assert.Empty(t, stored.Cart)

	_, err = s.SaveUser(ctx, created)
	require.NoError(t, err)
	stored, err = s.FindByID(ctx, created.ID.Hex())
	require.NoError(t, err)
	assert.Len(t, stored.Cart, 1)
}

func TestFindAndDelete(t *testing.T) {
	ctx := context.Background()
	s := NewUserStore()
	u, err := s.CreateUser(ctx, newUser("Asha", "9999999999", "asha@example.com", time.Now()))
	require.NoError(t, err)

	byPhone, err := s.FindByPhone(ctx, "9999999999")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byPhone.ID)

	byEmail, err := s.FindByEmail(ctx, "asha@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byEmail.ID)

	_, err = s.FindByID(ctx, "not-hex")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	require.NoError(t, s.DeleteUser(ctx, u.ID.Hex()))
	assert.ErrorIs(t, s.DeleteUser(ctx, u.ID.Hex()), storage.ErrNotFound)
	_, err = s.FindByPhone(ctx, "9999999999")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestListUsersFiltersAndPaginates(t *testing.T) {
	ctx := context.Background()
	s := NewUserStore()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	admin := newUser("Kiran Admin", "1111111111", "kiran@agri.example", base)
	admin.Role = models.RoleAdmin
	inactive := newUser("Old Farmer", "2222222222", "", base.Add(time.Hour))
	inactive.IsActive = false
	for _, u := range []models.User{admin, inactive, newUser("Asha", "3333333333", "", base.Add(2*time.Hour))} {
		_, err := s.CreateUser(ctx, u)
		require.NoError(t, err)
	}

	users, total, err := s.ListUsers(ctx, storage.UserFilter{})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Equal(t, "Asha", users[0].Name)

	users, total, err = s.ListUsers(ctx, storage.UserFilter{Role: models.RoleAdmin})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, "Kiran Admin", users[0].Name)

	active := false
	_, total, err = s.ListUsers(ctx, storage.UserFilter{IsActive: &active})
	require.NoError(t, err)
	assert.Equal(t, 1, total)

	users, total, err = s.ListUsers(ctx, storage.UserFilter{Search: "AGRI.ex"})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, "Kiran Admin", users[0].Name)

	users, total, err = s.ListUsers(ctx, storage.UserFilter{Offset: 2, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, users, 1)
	assert.Equal(t, "Kiran Admin", users[0].Name)

	users, total, err = s.ListUsers(ctx, storage.UserFilter{Offset: 1, Limit: math.MaxInt})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Len(t, users, 2)
}

func TestStoreSuite(t *testing.T) {
	storagetest.Run(t, NewUserStore())
}
