package orders

import (
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hongminglow/km-agri-be/internal/models"
)

var base = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

var shipTo = models.Address{Type: models.AddressHome, Address: "12 Farm Rd", City: "Pune", State: "MH", Pincode: "411001"}

func order(id, status string, day int, total float64) models.Order {
	return models.Order{
		OrderID:         id,
		Products:        []models.OrderProduct{{ProductID: "p1", ProductName: "Seeds", Quantity: 1, Price: total}},
		TotalAmount:     total,
		OrderDate:       base.AddDate(0, 0, day),
		Status:          status,
		ShippingAddress: shipTo,
	}
}

func sampleHistory() []models.Order {
	return []models.Order{
		order("o1", models.OrderDelivered, 1, 100),
		order("o2", models.OrderPending, 5, 50),
		order("o3", models.OrderDelivered, 3, 25),
		order("o4", models.OrderDelivered, 9, 10),
		order("o5", models.OrderCancelled, 7, 5),
	}
}

func ids(orders []models.Order) []string {
	out := make([]string, 0, len(orders))
	for _, o := range orders {
		out = append(out, o.OrderID)
	}
	return out
}

func TestListSortsNewestFirst(t *testing.T) {
	h := List(sampleHistory(), Query{})
	assert.Equal(t, []string{"o4", "o5", "o2", "o3", "o1"}, ids(h.Orders))
	assert.Equal(t, 5, h.TotalOrders)
	assert.Equal(t, models.Pagination{Total: 5, Page: 1, Limit: 10, TotalPages: 1}, h.Pagination)
}

func TestListFilterKeepsTotalSpentUnfiltered(t *testing.T) {
	h := List(sampleHistory(), Query{Status: models.OrderDelivered, Page: 1, Limit: 2})

	assert.Equal(t, []string{"o4", "o3"}, ids(h.Orders))
	assert.Equal(t, 3, h.TotalOrders)
	assert.Equal(t, 190.0, h.TotalSpent)
	assert.Equal(t, 2, h.Pagination.TotalPages)

	h = List(sampleHistory(), Query{Status: models.OrderDelivered, Page: 2, Limit: 2})
	assert.Equal(t, []string{"o1"}, ids(h.Orders))
	assert.Equal(t, 190.0, h.TotalSpent)
}

func TestListPageBeyondEnd(t *testing.T) {
	h := List(sampleHistory(), Query{Page: 9, Limit: 2})
	assert.Empty(t, h.Orders)
	assert.NotNil(t, h.Orders)
	assert.Equal(t, 5, h.TotalOrders)
}

func TestListHugePageAndLimit(t *testing.T) {
	h := List(sampleHistory(), Query{Page: 2, Limit: math.MaxInt})
	assert.Empty(t, h.Orders)
	assert.Equal(t, models.MaxLimit, h.Pagination.Limit)

	h = List(sampleHistory(), Query{Page: math.MaxInt, Limit: 1})
	assert.Empty(t, h.Orders)
	assert.Equal(t, 5, h.Pagination.TotalPages)
}

func TestListDoesNotReorderInput(t *testing.T) {
	history := sampleHistory()
	List(history, Query{})
	assert.Equal(t, []string{"o1", "o2", "o3", "o4", "o5"}, ids(history))
}


func TestAppendDefaults(t *testing.T) {
	now := base.AddDate(0, 1, 0)
	o := order("new", "", 0, 42)
	o.OrderDate = time.Time{}

	out, created, err := Append(nil, o, now)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, models.OrderPending, created.Status)
	assert.Equal(t, now, created.OrderDate)
}

func TestAppendDuplicateOrderID(t *testing.T) {
	history := sampleHistory()
	_, _, err := Append(history, order("o2", "", 0, 1), base)
	assert.ErrorIs(t, err, ErrDuplicateOrder)
}

func TestAppendValidation(t *testing.T) {
	noProducts := order("x", "", 0, 1)
	noProducts.Products = nil
	noAddress := order("x", "", 0, 1)
	noAddress.ShippingAddress = models.Address{}

	for i, o := range []models.Order{order("", "", 0, 1), order("x", "", 0, 0), noProducts, noAddress} {
		t.Run(fmt.Sprint(i), func(t *testing.T) {
			_, _, err := Append(nil, o, base)
			assert.ErrorIs(t, err, ErrInvalidOrder)
		})
	}

	_, _, err := Append(nil, order("x", "lost", 0, 1), base)
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestUpdateStatusPartial(t *testing.T) {
	history := sampleHistory()
	tracking := "TRK-1"

	out, updated, err := UpdateStatus(history, StatusUpdate{OrderID: "o2", TrackingNumber: &tracking})
	require.NoError(t, err)
	assert.Equal(t, models.OrderPending, updated.Status)
	assert.Equal(t, "TRK-1", out[1].TrackingNumber)
	assert.Empty(t, history[1].TrackingNumber)

	shipped := models.OrderShipped
	_, updated, err = UpdateStatus(out, StatusUpdate{OrderID: "o2", Status: &shipped})
	require.NoError(t, err)
	assert.Equal(t, models.OrderShipped, updated.Status)
	assert.Equal(t, "TRK-1", updated.TrackingNumber)
}

func TestUpdateStatusErrors(t *testing.T) {
	shipped := models.OrderShipped
	_, _, err := UpdateStatus(sampleHistory(), StatusUpdate{OrderID: "nope", Status: &shipped})
	assert.ErrorIs(t, err, ErrOrderNotFound)

	bad := "teleported"
	_, _, err = UpdateStatus(sampleHistory(), StatusUpdate{OrderID: "o1", Status: &bad})
	assert.ErrorIs(t, err, ErrInvalidStatus)
}
