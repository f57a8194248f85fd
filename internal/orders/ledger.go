// Package orders implements the purchase history ledger embedded in a
// user document.
package orders

import (
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/hongminglow/km-agri-be/internal/models"
)

var (
	// ErrOrderNotFound indicates no order with the requested id exists for the user.
	ErrOrderNotFound = errors.New("order not found")
	// ErrDuplicateOrder indicates the order id is already in the user's history.
	ErrDuplicateOrder = errors.New("order with this ID already exists")
	// ErrInvalidStatus indicates a status outside the known set.
	ErrInvalidStatus = errors.New("invalid order status")
	// ErrInvalidOrder indicates a missing id, products, total or shipping address.
	ErrInvalidOrder = errors.New("order ID, products, total amount, and shipping address are required")
)

// Query selects a page of orders.
type Query struct {
	Status string
	Page   int
	Limit  int
}

// History is a page of a user's orders plus account-wide totals.
type History struct {
	Orders      []models.Order    `json:"orders"`
	TotalOrders int               `json:"totalOrders"`
	TotalSpent  float64           `json:"totalSpent"`
	Pagination  models.Pagination `json:"pagination"`
}

// List sorts newest first, filters by status and paginates. TotalSpent
// always covers the whole history, whatever the filter.
func List(history []models.Order, q Query) History {
	sorted := make([]models.Order, len(history))
	copy(sorted, history)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].OrderDate.After(sorted[j].OrderDate)
	})

	filtered := sorted[:0:0]
	for _, o := range sorted {
		if q.Status == "" || o.Status == q.Status {
			filtered = append(filtered, o)
		}
	}

	p := models.NewPagination(len(filtered), q.Page, q.Limit)
	start := min(p.Offset(), len(filtered))
	end := min(start+p.Limit, len(filtered))

	page := make([]models.Order, end-start)
	copy(page, filtered[start:end])

	return History{
		Orders:      page,
		TotalOrders: len(filtered),
		TotalSpent:  TotalSpent(history),
		Pagination:  p,
	}
}

// TotalSpent sums TotalAmount over every order.
func TotalSpent(history []models.Order) float64 {
	sum := decimal.Zero
	for _, o := range history {
		sum = sum.Add(decimal.NewFromFloat(o.TotalAmount))
	}
	return sum.InexactFloat64()
}

// Append adds order to the history. Status defaults to pending and
// OrderDate to now. TotalAmount is taken as given.
func Append(history []models.Order, order models.Order, now time.Time) ([]models.Order, models.Order, error) {
	order.OrderID = strings.TrimSpace(order.OrderID)
	if order.OrderID == "" || len(order.Products) == 0 || order.TotalAmount <= 0 || order.ShippingAddress.Address == "" {
		return history, models.Order{}, ErrInvalidOrder
	}
	if order.Status == "" {
		order.Status = models.OrderPending
	}
	if !models.ValidOrderStatus(order.Status) {
		return history, models.Order{}, ErrInvalidStatus
	}
	if indexOf(history, order.OrderID) >= 0 {
		return history, models.Order{}, ErrDuplicateOrder
	}
	if order.OrderDate.IsZero() {
		order.OrderDate = now
	}
	if order.ShippingAddress.Type == "" {
		order.ShippingAddress.Type = models.AddressHome
	}

	out := make([]models.Order, len(history), len(history)+1)
	copy(out, history)
	return append(out, order), order, nil
}

// StatusUpdate carries the fields an order update may change.
type StatusUpdate struct {
	OrderID        string
	Status         *string
	TrackingNumber *string
}

// UpdateStatus applies the supplied fields to the matching order.
func UpdateStatus(history []models.Order, u StatusUpdate) ([]models.Order, models.Order, error) {
	if u.Status != nil && !models.ValidOrderStatus(*u.Status) {
		return history, models.Order{}, ErrInvalidStatus
	}
	i := indexOf(history, u.OrderID)
	if i < 0 {
		return history, models.Order{}, ErrOrderNotFound
	}

	out := make([]models.Order, len(history))
	copy(out, history)
	if u.Status != nil {
		out[i].Status = *u.Status
	}
	if u.TrackingNumber != nil {
		out[i].TrackingNumber = *u.TrackingNumber
	}
	return out, out[i], nil
}

func indexOf(history []models.Order, orderID string) int {
	for i, o := range history {
		if o.OrderID == orderID {
			return i
		}
	}
	return -1
}
