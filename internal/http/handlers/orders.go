package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hongminglow/km-agri-be/internal/http/respond"
	"github.com/hongminglow/km-agri-be/internal/models"
	"github.com/hongminglow/km-agri-be/internal/models/dto"
	"github.com/hongminglow/km-agri-be/internal/notify"
	"github.com/hongminglow/km-agri-be/internal/orders"
	"github.com/hongminglow/km-agri-be/internal/storage"
)

// OrderHandler serves a user's purchase history.
type OrderHandler struct {
	store  storage.UserStore
	events notify.Publisher
	now    func() time.Time
}

// NewOrderHandler constructs the handler.
func NewOrderHandler(store storage.UserStore, events notify.Publisher) *OrderHandler {
	return &OrderHandler{store: store, events: events, now: time.Now}
}

// Register attaches order routes to the router.
func (h *OrderHandler) Register(r chi.Router) {
	r.Get("/users/orders/{id}", h.handleList)
	r.Post("/users/orders/{id}", h.handleAppend)
	r.Put("/users/orders/{id}", h.handleUpdate)
}

func (h *OrderHandler) handleList(w http.ResponseWriter, r *http.Request) {
	user, ok := loadUser(w, r, h.store, "Failed to fetch purchase history")
	if !ok {
		return
	}
	status := strings.TrimSpace(r.URL.Query().Get("status"))
	if status != "" && !models.ValidOrderStatus(status) {
		respond.Error(w, http.StatusBadRequest, "Invalid order status")
		return
	}
	history := orders.List(user.PurchaseHistory, orders.Query{
		Status: status,
		Page:   queryInt(r, "page"),
		Limit:  queryInt(r, "limit"),
	})
	respond.JSON(w, http.StatusOK, "Purchase history fetched successfully", history)
}

func (h *OrderHandler) handleAppend(w http.ResponseWriter, r *http.Request) {
	if _, ok := userIDParam(w, r); !ok {
		return
	}
	var req dto.AppendOrderRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.OrderID = strings.TrimSpace(req.OrderID)
	if req.OrderID == "" || len(req.Products) == 0 || req.TotalAmount <= 0 || req.ShippingAddress == nil {
		respond.Error(w, http.StatusBadRequest, "Order ID, products, total amount, and shipping address are required")
		return
	}
	*req.ShippingAddress = trimAddress(*req.ShippingAddress)
	if err := validate.Struct(req); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	user, ok := loadUser(w, r, h.store, "Failed to add order to purchase history")
	if !ok {
		return
	}

	order := models.Order{
		OrderID:         req.OrderID,
		Products:        req.Products,
		TotalAmount:     req.TotalAmount,
		Status:          strings.TrimSpace(req.Status),
		ShippingAddress: *req.ShippingAddress,
		PaymentMethod:   strings.TrimSpace(req.PaymentMethod),
		TrackingNumber:  strings.TrimSpace(req.TrackingNumber),
	}
	if req.OrderDate != nil {
		order.OrderDate = *req.OrderDate
	}

	now := h.now()
	history, placed, err := orders.Append(user.PurchaseHistory, order, now)
	if err != nil {
		h.ledgerError(w, err, "Failed to add order to purchase history")
		return
	}
	user.PurchaseHistory = history
	user.UpdatedAt = now
	if _, err := h.store.SaveUser(r.Context(), user); err != nil {
		respond.Internal(w, "Failed to add order to purchase history", err)
		return
	}

	publish(r.Context(), h.events, notify.NewEvent(notify.EventOrderPlaced, user.ID.Hex(), user.Phone, orderPayload(placed), now))
	respond.JSON(w, http.StatusCreated, "Order added to purchase history successfully", placed)
}

func (h *OrderHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	if _, ok := userIDParam(w, r); !ok {
		return
	}
	var req dto.UpdateOrderRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.OrderID = strings.TrimSpace(req.OrderID)
	if req.OrderID == "" {
		respond.Error(w, http.StatusBadRequest, "Order ID is required")
		return
	}

	user, ok := loadUser(w, r, h.store, "Failed to update order")
	if !ok {
		return
	}
	history, updated, err := orders.UpdateStatus(user.PurchaseHistory, orders.StatusUpdate{
		OrderID:        req.OrderID,
		Status:         req.Status,
		TrackingNumber: req.TrackingNumber,
	})
	if err != nil {
		h.ledgerError(w, err, "Failed to update order")
		return
	}
	now := h.now()
	user.PurchaseHistory = history
	user.UpdatedAt = now
	if _, err := h.store.SaveUser(r.Context(), user); err != nil {
		respond.Internal(w, "Failed to update order", err)
		return
	}

	publish(r.Context(), h.events, notify.NewEvent(notify.EventOrderUpdated, user.ID.Hex(), user.Phone, orderPayload(updated), now))
	respond.JSON(w, http.StatusOK, "Order updated successfully", updated)
}

func (h *OrderHandler) ledgerError(w http.ResponseWriter, err error, failure string) {
	switch {
	case errors.Is(err, orders.ErrOrderNotFound):
		respond.Error(w, http.StatusNotFound, "Order not found")
	case errors.Is(err, orders.ErrDuplicateOrder):
		respond.Error(w, http.StatusConflict, "Order with this ID already exists")
	case errors.Is(err, orders.ErrInvalidStatus):
		respond.Error(w, http.StatusBadRequest, "Invalid order status")
	case errors.Is(err, orders.ErrInvalidOrder):
		respond.Error(w, http.StatusBadRequest, "Order ID, products, total amount, and shipping address are required")
	default:
		respond.Internal(w, failure, err)
	}
}

func orderPayload(o models.Order) notify.OrderPayload {
	return notify.OrderPayload{
		OrderID:        o.OrderID,
		Status:         o.Status,
		TotalAmount:    o.TotalAmount,
		TrackingNumber: o.TrackingNumber,
	}
}
