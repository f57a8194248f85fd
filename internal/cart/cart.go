// Package cart implements the operations on a user's embedded cart.
// Functions take the current lines and return the new lines; callers
// persist the owning user document.
package cart

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/hongminglow/km-agri-be/internal/models"
)

var (
	// ErrItemNotFound indicates no cart line matched the request.
	ErrItemNotFound = errors.New("item not found in cart")
	// ErrInvalidWeight indicates a weight outside (0, 50] kg.
	ErrInvalidWeight = errors.New("weight must be greater than 0 and at most 50 kg")
	// ErrInvalidQuantity indicates an add with quantity below one.
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	// ErrInvalidPrice indicates a negative or zero unit price.
	ErrInvalidPrice = errors.New("price must be greater than 0")
	// ErrNothingToUpdate indicates an update carrying neither quantity nor weight.
	ErrNothingToUpdate = errors.New("quantity or weight is required")
)

// Summary is the cart view returned to clients.
type Summary struct {
	Cart        []models.CartItem `json:"cart"`
	ItemCount   int               `json:"itemCount"`
	TotalAmount float64           `json:"totalAmount"`
}

// Summarize derives the line count and total of a cart.
func Summarize(items []models.CartItem) Summary {
	if items == nil {
		items = []models.CartItem{}
	}
	return Summary{Cart: items, ItemCount: len(items), TotalAmount: Total(items)}
}

// LineTotal is price x weight for weighed lines and price x quantity otherwise.
func LineTotal(item models.CartItem) decimal.Decimal {
	price := decimal.NewFromFloat(item.Price)
	if item.Weight != nil {
		return price.Mul(decimal.NewFromFloat(*item.Weight))
	}
	return price.Mul(decimal.NewFromInt(int64(item.Quantity)))
}

// Total sums LineTotal over every line.
func Total(items []models.CartItem) float64 {
	sum := decimal.Zero
	for _, item := range items {
		sum = sum.Add(LineTotal(item))
	}
	return sum.InexactFloat64()
}

// ValidWeight reports whether w is an acceptable line weight.
func ValidWeight(w float64) bool {
	return w > 0 && w <= models.MaxItemWeight
}

// Add merges item into the cart. A line with the same product and weight
// has its quantity increased and its price refreshed; anything else is
// appended with AddedAt set to now.
func Add(items []models.CartItem, item models.CartItem, now time.Time) ([]models.CartItem, error) {
	if item.Quantity < 1 {
		return items, ErrInvalidQuantity
	}
	if item.Price <= 0 {
		return items, ErrInvalidPrice
	}
	if item.Weight != nil && !ValidWeight(*item.Weight) {
		return items, ErrInvalidWeight
	}

	out := clone(items)
	if i := indexOf(out, item.ProductID, item.Weight, true); i >= 0 {
		out[i].Quantity += item.Quantity
		out[i].Price = item.Price
		return out, nil
	}
	item.AddedAt = now
	return append(out, item), nil
}

// Update describes a change to one cart line.
type Update struct {
	ProductID string
	Quantity  *int
	Weight    *float64
	// OldWeight selects the line when the product sits in the cart at
	// several weights. Without it the first line of the product is used.
	OldWeight *float64
}

// Apply changes the quantity and/or weight of one line. A quantity of zero
// or less removes the line. Moving a line onto a weight already held by
// another line of the same product merges the two.
func Apply(items []models.CartItem, u Update) ([]models.CartItem, error) {
	if u.Quantity == nil && u.Weight == nil {
		return items, ErrNothingToUpdate
	}
	if u.Weight != nil && !ValidWeight(*u.Weight) {
		return items, ErrInvalidWeight
	}

	out := clone(items)
	i := indexOf(out, u.ProductID, u.OldWeight, u.OldWeight != nil)
	if i < 0 {
		return items, ErrItemNotFound
	}
	if u.Quantity != nil && *u.Quantity <= 0 {
		return removeAt(out, i), nil
	}
	if u.Quantity != nil {
		out[i].Quantity = *u.Quantity
	}
	if u.Weight != nil {
		w := *u.Weight
		if j := indexOf(out, u.ProductID, &w, true); j >= 0 && j != i {
			out[j].Quantity += out[i].Quantity
			out[j].Price = out[i].Price
			return removeAt(out, i), nil
		}
		out[i].Weight = &w
	}
	return out, nil
}

// Remove deletes the first line of productID, restricted to the given
// weight when one is supplied.
func Remove(items []models.CartItem, productID string, weight *float64) ([]models.CartItem, error) {
	out := clone(items)
	i := indexOf(out, productID, weight, weight != nil)
	if i < 0 {
		return items, ErrItemNotFound
	}
	return removeAt(out, i), nil
}

// Clear returns an empty cart.
func Clear() []models.CartItem {
	return []models.CartItem{}
}

func indexOf(items []models.CartItem, productID string, weight *float64, matchWeight bool) int {
	for i, item := range items {
		if item.ProductID != productID {
			continue
		}
		if !matchWeight || sameWeight(item.Weight, weight) {
			return i
		}
	}
	return -1
}

func sameWeight(a, b *float64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func removeAt(items []models.CartItem, i int) []models.CartItem {
	return append(items[:i], items[i+1:]...)
}

func clone(items []models.CartItem) []models.CartItem {
	out := make([]models.CartItem, len(items))
	copy(out, items)
	return out
}
