// Package storagetest holds behaviour checks every storage.UserStore
// backend must pass.
package storagetest

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hongminglow/km-agri-be/internal/models"
	"github.com/hongminglow/km-agri-be/internal/storage"
)

var seq atomic.Int64

// uniquePhone returns a 10 digit phone unlikely to exist in a shared database.
func uniquePhone() string {
	n := (time.Now().UnixNano()/1000 + seq.Add(1)) % 10_000_000_000
	return fmt.Sprintf("%010d", n)
}

func newUser(name string) models.User {
	u := models.NewUser(name, uniquePhone(), time.Now().UTC().Truncate(time.Millisecond))
	return u
}

// Run executes the suite against store.
func Run(t *testing.T, store storage.UserStore) {
	t.Run("CreateAndFind", func(t *testing.T) { testCreateAndFind(t, store) })
	t.Run("UniquePhoneAndEmail", func(t *testing.T) { testUnique(t, store) })
	t.Run("SaveEmbeddedState", func(t *testing.T) { testSaveEmbedded(t, store) })
	t.Run("ListFilters", func(t *testing.T) { testList(t, store) })
	t.Run("Delete", func(t *testing.T) { testDelete(t, store) })
}

func testCreateAndFind(t *testing.T, store storage.UserStore) {
	ctx := context.Background()
	u := newUser("Asha Patil")
	u.Email = fmt.Sprintf("asha.%s@example.com", u.Phone)
	u.PasswordHash = "$2a$10$hash"

	created, err := store.CreateUser(ctx, u)
	require.NoError(t, err)
	assert.Equal(t, u.ID, created.ID)

	byID, err := store.FindByID(ctx, u.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, u.Phone, byID.Phone)
	assert.Equal(t, "$2a$10$hash", byID.PasswordHash)
	assert.NotNil(t, byID.Cart)

	byPhone, err := store.FindByPhone(ctx, u.Phone)
	require.NoError(t, err)
	assert.Equal(t, u.ID, byPhone.ID)

	byEmail, err := store.FindByEmail(ctx, u.Email)
	require.NoError(t, err)
	assert.Equal(t, u.ID, byEmail.ID)

	_, err = store.FindByPhone(ctx, uniquePhone())
	assert.ErrorIs(t, err, storage.ErrNotFound)
	_, err = store.FindByEmail(ctx, "")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func testUnique(t *testing.T, store storage.UserStore) {
	ctx := context.Background()
	first := newUser("First")
	first.Email = fmt.Sprintf("first.%s@example.com", first.Phone)
	_, err := store.CreateUser(ctx, first)
	require.NoError(t, err)

	samePhone := newUser("Second")
	samePhone.Phone = first.Phone
	_, err = store.CreateUser(ctx, samePhone)
	assert.ErrorIs(t, err, storage.ErrAlreadyExists)

	sameEmail := newUser("Third")
	sameEmail.Email = first.Email
	_, err = store.CreateUser(ctx, sameEmail)
	assert.ErrorIs(t, err, storage.ErrAlreadyExists)

	noEmailA, noEmailB := newUser("NoMailA"), newUser("NoMailB")
	_, err = store.CreateUser(ctx, noEmailA)
	require.NoError(t, err)
	_, err = store.CreateUser(ctx, noEmailB)
	require.NoError(t, err)

	noEmailB.Phone = first.Phone
	_, err = store.SaveUser(ctx, noEmailB)
	assert.ErrorIs(t, err, storage.ErrAlreadyExists)
}

func testSaveEmbedded(t *testing.T, store storage.UserStore) {
	ctx := context.Background()
	u, err := store.CreateUser(ctx, newUser("Cart Owner"))
	require.NoError(t, err)

	w := 2.5
	u.Cart = append(u.Cart, models.CartItem{ProductID: "1", ProductName: "Rice", Quantity: 1, Price: 80, Weight: &w, AddedAt: time.Now().UTC().Truncate(time.Millisecond)})
	u.PurchaseHistory = append(u.PurchaseHistory, models.Order{
		OrderID: "ord-1", TotalAmount: 80, Status: models.OrderPending,
		Products:        []models.OrderProduct{{ProductID: "1", ProductName: "Rice", Quantity: 1, Price: 80}},
		ShippingAddress: models.Address{Type: "home", Address: "1 Main", City: "Nashik", State: "MH", Pincode: "422001"},
		OrderDate:       time.Now().UTC().Truncate(time.Millisecond),
	})
	u.Addresses = []models.Address{
		{Type: "home", Address: "1 Main", City: "Nashik", State: "MH", Pincode: "422001", IsDefault: true},
		{Type: "work", Address: "2 Mill", City: "Nashik", State: "MH", Pincode: "422002", IsDefault: true},
	}
	_, err = store.SaveUser(ctx, u)
	require.NoError(t, err)

	got, err := store.FindByID(ctx, u.ID.Hex())
	require.NoError(t, err)
	require.Len(t, got.Cart, 1)
	require.NotNil(t, got.Cart[0].Weight)
	assert.Equal(t, 2.5, *got.Cart[0].Weight)
	require.Len(t, got.PurchaseHistory, 1)
	assert.Equal(t, "ord-1", got.PurchaseHistory[0].OrderID)
	assert.True(t, got.Addresses[0].IsDefault)
	assert.False(t, got.Addresses[1].IsDefault)

	missing := newUser("Ghost")
	_, err = store.SaveUser(ctx, missing)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func testList(t *testing.T, store storage.UserStore) {
	ctx := context.Background()
	tag := fmt.Sprintf("zq%d", time.Now().UnixNano())
	base := time.Now().UTC().Truncate(time.Millisecond)

	for i, role := range []string{models.RoleCustomer, models.RoleVendor, models.RoleVendor} {
		u := newUser(fmt.Sprintf("%s user %d", tag, i))
		u.Role = role
		u.CreatedAt = base.Add(time.Duration(i) * time.Second)
		u.IsActive = i != 2
		_, err := store.CreateUser(ctx, u)
		require.NoError(t, err)
	}

	users, total, err := store.ListUsers(ctx, storage.UserFilter{Search: tag})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, users, 3)
	assert.Equal(t, tag+" user 2", users[0].Name)

	_, total, err = store.ListUsers(ctx, storage.UserFilter{Search: tag, Role: models.RoleVendor})
	require.NoError(t, err)
	assert.Equal(t, 2, total)

	active := true
	_, total, err = store.ListUsers(ctx, storage.UserFilter{Search: tag, Role: models.RoleVendor, IsActive: &active})
	require.NoError(t, err)
	assert.Equal(t, 1, total)

	users, total, err = store.ListUsers(ctx, storage.UserFilter{Search: tag, Offset: 1, Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, users, 1)
	assert.Equal(t, tag+" user 1", users[0].Name)
}

func testDelete(t *testing.T, store storage.UserStore) {
	ctx := context.Background()
	u, err := store.CreateUser(ctx, newUser("Leaving"))
	require.NoError(t, err)

	require.NoError(t, store.DeleteUser(ctx, u.ID.Hex()))
	_, err = store.FindByID(ctx, u.ID.Hex())
	assert.ErrorIs(t, err, storage.ErrNotFound)
	assert.ErrorIs(t, store.DeleteUser(ctx, u.ID.Hex()), storage.ErrNotFound)
}
