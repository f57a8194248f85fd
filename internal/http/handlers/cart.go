package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hongminglow/km-agri-be/internal/cart"
	"github.com/hongminglow/km-agri-be/internal/http/respond"
	"github.com/hongminglow/km-agri-be/internal/models"
	"github.com/hongminglow/km-agri-be/internal/models/dto"
	"github.com/hongminglow/km-agri-be/internal/storage"
)

// CartHandler serves the embedded cart of a user.
type CartHandler struct {
	store storage.UserStore
	now   func() time.Time
}

// NewCartHandler constructs the handler.
func NewCartHandler(store storage.UserStore) *CartHandler {
	return &CartHandler{store: store, now: time.Now}
}

// Register attaches cart routes to the router.
func (h *CartHandler) Register(r chi.Router) {
	r.Get("/users/cart/{id}", h.handleGet)
	r.Post("/users/cart/{id}", h.handleAdd)
	r.Put("/users/cart/{id}", h.handleUpdate)
	r.Delete("/users/cart/{id}", h.handleRemove)
}

func (h *CartHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	user, ok := loadUser(w, r, h.store, "Failed to fetch cart")
	if !ok {
		return
	}
	respond.JSON(w, http.StatusOK, "Cart fetched successfully", cart.Summarize(user.Cart))
}

func (h *CartHandler) handleAdd(w http.ResponseWriter, r *http.Request) {
	if _, ok := userIDParam(w, r); !ok {
		return
	}
	var req dto.AddCartItemRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.ProductID = strings.TrimSpace(req.ProductID)
	req.ProductName = strings.TrimSpace(req.ProductName)
	if err := validate.Struct(req); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	item := models.CartItem{
		ProductID:   req.ProductID,
		ProductName: req.ProductName,
		Quantity:    req.Quantity,
		Price:       req.Price,
		Weight:      req.Weight,
	}
	h.mutate(w, r, "Item added to cart successfully", "Failed to add item to cart", func(items []models.CartItem) ([]models.CartItem, error) {
		return cart.Add(items, item, h.now())
	})
}

func (h *CartHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	if _, ok := userIDParam(w, r); !ok {
		return
	}
	var req dto.UpdateCartItemRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.ProductID = strings.TrimSpace(req.ProductID)
	if err := validate.Struct(req); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	update := cart.Update{
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
		Weight:    req.Weight,
		OldWeight: req.OldWeight,
	}
	h.mutate(w, r, "Cart updated successfully", "Failed to update cart", func(items []models.CartItem) ([]models.CartItem, error) {
		return cart.Apply(items, update)
	})
}

func (h *CartHandler) handleRemove(w http.ResponseWriter, r *http.Request) {
	if _, ok := userIDParam(w, r); !ok {
		return
	}
	q := r.URL.Query()
	if q.Get("clearAll") == "true" {
		h.mutate(w, r, "Cart cleared successfully", "Failed to remove item from cart", func([]models.CartItem) ([]models.CartItem, error) {
			return cart.Clear(), nil
		})
		return
	}

	productID := strings.TrimSpace(q.Get("productId"))
	if productID == "" {
		respond.Error(w, http.StatusBadRequest, "Please provide productId or set clearAll=true")
		return
	}
	var weight *float64
	if raw := strings.TrimSpace(q.Get("weight")); raw != "" {
		wv, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			respond.Error(w, http.StatusBadRequest, "weight must be a number")
			return
		}
		weight = &wv
	}
	h.mutate(w, r, "Item removed from cart successfully", "Failed to remove item from cart", func(items []models.CartItem) ([]models.CartItem, error) {
		return cart.Remove(items, productID, weight)
	})
}

// mutate loads the user, applies op to the cart and writes the whole
// document back, answering with the new cart summary.
func (h *CartHandler) mutate(w http.ResponseWriter, r *http.Request, success, failure string, op func([]models.CartItem) ([]models.CartItem, error)) {
	user, ok := loadUser(w, r, h.store, failure)
	if !ok {
		return
	}
	items, err := op(user.Cart)
	if err != nil {
		switch {
		case errors.Is(err, cart.ErrItemNotFound):
			respond.Error(w, http.StatusNotFound, "Item not found in cart")
		case errors.Is(err, cart.ErrInvalidWeight), errors.Is(err, cart.ErrInvalidQuantity),
			errors.Is(err, cart.ErrInvalidPrice), errors.Is(err, cart.ErrNothingToUpdate):
			respond.Error(w, http.StatusBadRequest, err.Error())
		default:
			respond.Internal(w, failure, err)
		}
		return
	}

	user.Cart = items
	user.UpdatedAt = h.now()
	saved, err := h.store.SaveUser(r.Context(), user)
	if err != nil {
		respond.Internal(w, failure, err)
		return
	}
	respond.JSON(w, http.StatusOK, success, cart.Summarize(saved.Cart))
}
