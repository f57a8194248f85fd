package handlers

import (
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hongminglow/km-agri-be/internal/http/respond"
	"github.com/hongminglow/km-agri-be/internal/models/dto"
	"github.com/hongminglow/km-agri-be/internal/storage"
)

// WishlistHandler serves the product ids a user has saved.
type WishlistHandler struct {
	store storage.UserStore
	now   func() time.Time
}

// NewWishlistHandler constructs the handler.
func NewWishlistHandler(store storage.UserStore) *WishlistHandler {
	return &WishlistHandler{store: store, now: time.Now}
}

// Register attaches wishlist routes to the router.
func (h *WishlistHandler) Register(r chi.Router) {
	r.Get("/users/wishlist/{id}", h.handleGet)
	r.Post("/users/wishlist/{id}", h.handleAdd)
	r.Delete("/users/wishlist/{id}", h.handleRemove)
}

func (h *WishlistHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	user, ok := loadUser(w, r, h.store, "Failed to fetch wishlist")
	if !ok {
		return
	}
	respond.JSON(w, http.StatusOK, "Wishlist fetched successfully", user.Wishlist)
}

func (h *WishlistHandler) handleAdd(w http.ResponseWriter, r *http.Request) {
	if _, ok := userIDParam(w, r); !ok {
		return
	}
	var req dto.WishlistRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.ProductID = strings.TrimSpace(req.ProductID)
	if err := validate.Struct(req); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	user, ok := loadUser(w, r, h.store, "Failed to update wishlist")
	if !ok {
		return
	}
	if slices.Contains(user.Wishlist, req.ProductID) {
		respond.JSON(w, http.StatusOK, "Product already in wishlist", user.Wishlist)
		return
	}
	user.Wishlist = append(user.Wishlist, req.ProductID)
	user.UpdatedAt = h.now()
	saved, err := h.store.SaveUser(r.Context(), user)
	if err != nil {
		respond.Internal(w, "Failed to update wishlist", err)
		return
	}
	respond.JSON(w, http.StatusOK, "Product added to wishlist", saved.Wishlist)
}

func (h *WishlistHandler) handleRemove(w http.ResponseWriter, r *http.Request) {
	if _, ok := userIDParam(w, r); !ok {
		return
	}
	productID := strings.TrimSpace(r.URL.Query().Get("productId"))
	if productID == "" {
		respond.Error(w, http.StatusBadRequest, "productId is required")
		return
	}

	user, ok := loadUser(w, r, h.store, "Failed to update wishlist")
	if !ok {
		return
	}
	i := slices.Index(user.Wishlist, productID)
	if i < 0 {
		respond.Error(w, http.StatusNotFound, "Product not found in wishlist")
		return
	}
	user.Wishlist = slices.Delete(user.Wishlist, i, i+1)
	user.UpdatedAt = h.now()
	saved, err := h.store.SaveUser(r.Context(), user)
	if err != nil {
		respond.Internal(w, "Failed to update wishlist", err)
		return
	}
	respond.JSON(w, http.StatusOK, "Product removed from wishlist", saved.Wishlist)
}
