package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hongminglow/km-agri-be/internal/auth"
	"github.com/hongminglow/km-agri-be/internal/http/respond"
	"github.com/hongminglow/km-agri-be/internal/models"
	"github.com/hongminglow/km-agri-be/internal/models/dto"
	"github.com/hongminglow/km-agri-be/internal/storage"
	"github.com/hongminglow/km-agri-be/internal/validation"
)

// UserHandler serves account CRUD.
type UserHandler struct {
	store storage.UserStore
	now   func() time.Time
}

// NewUserHandler constructs the handler.
func NewUserHandler(store storage.UserStore) *UserHandler {
	return &UserHandler{store: store, now: time.Now}
}

// Register attaches user routes to the router.
func (h *UserHandler) Register(r chi.Router) {
	r.Get("/users", h.handleList)
	r.Post("/users", h.handleCreate)
	r.Get("/users/{id}", h.handleGet)
	r.Put("/users/{id}", h.handleUpdate)
	r.Delete("/users/{id}", h.handleDelete)
}

func (h *UserHandler) handleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := storage.UserFilter{
		Role:   strings.TrimSpace(q.Get("role")),
		Search: strings.TrimSpace(q.Get("search")),
	}
	if filter.Role != "" && !models.ValidRole(filter.Role) {
		respond.Error(w, http.StatusBadRequest, "Invalid role")
		return
	}
	if active, err := strconv.ParseBool(q.Get("isActive")); err == nil {
		filter.IsActive = &active
	}

	page := models.NewPagination(0, queryInt(r, "page"), queryInt(r, "limit"))
	filter.Offset, filter.Limit = page.Offset(), page.Limit

	users, total, err := h.store.ListUsers(r.Context(), filter)
	if err != nil {
		respond.Internal(w, "Failed to fetch users", err)
		return
	}
	respond.Page(w, http.StatusOK, "Users fetched successfully", users,
		models.NewPagination(total, page.Page, page.Limit))
}

func (h *UserHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateUserRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = validation.NormalizeEmail(req.Email)
	req.Phone = validation.CleanPhone(req.Phone)
	if req.Address != nil {
		*req.Address = trimAddress(*req.Address)
	}
	if err := validate.Struct(req); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	user := models.NewUser(req.Name, req.Phone, h.now())
	user.Email = req.Email
	user.ProfilePhoto = strings.TrimSpace(req.ProfilePhoto)
	if req.Role != "" {
		user.Role = req.Role
	}
	if req.Password != "" {
		hash, err := auth.HashPassword(req.Password)
		if err != nil {
			respond.Internal(w, "Failed to create user", err)
			return
		}
		user.PasswordHash = hash
	}
	if req.Address != nil {
		addr := *req.Address
		addr.IsDefault = true
		user.Addresses = []models.Address{addr}
	}

	created, err := h.store.CreateUser(r.Context(), user)
	if err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			respond.Error(w, http.StatusConflict, "User with this email or phone already exists")
			return
		}
		respond.Internal(w, "Failed to create user", err)
		return
	}
	respond.JSON(w, http.StatusCreated, "User created successfully", created)
}

func (h *UserHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	user, ok := loadUser(w, r, h.store, "Failed to fetch user")
	if !ok {
		return
	}
	respond.JSON(w, http.StatusOK, "User fetched successfully", user)
}

func (h *UserHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := userIDParam(w, r)
	if !ok {
		return
	}
	var req dto.UpdateUserRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Name != nil {
		*req.Name = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil {
		*req.Email = validation.NormalizeEmail(*req.Email)
	}
	if req.Phone != nil {
		*req.Phone = validation.CleanPhone(*req.Phone)
	}
	for i := range req.Addresses {
		req.Addresses[i] = trimAddress(req.Addresses[i])
	}
	if err := validate.Struct(req); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.store.FindByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respond.Error(w, http.StatusNotFound, "User not found")
			return
		}
		respond.Internal(w, "Failed to update user", err)
		return
	}

	if req.Email != nil && *req.Email != "" && *req.Email != user.Email {
		if h.taken(w, r, h.store.FindByEmail, *req.Email, "Email already in use") {
			return
		}
	}
	if req.Phone != nil && *req.Phone != user.Phone {
		if h.taken(w, r, h.store.FindByPhone, *req.Phone, "Phone number already in use") {
			return
		}
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}
	if req.ProfilePhoto != nil {
		user.ProfilePhoto = strings.TrimSpace(*req.ProfilePhoto)
	}
	if req.Role != nil {
		user.Role = *req.Role
	}
	if req.Addresses != nil {
		user.Addresses = models.NormalizeDefaultAddress(req.Addresses)
	}
	if req.Password != nil {
		hash, err := auth.HashPassword(*req.Password)
		if err != nil {
			respond.Internal(w, "Failed to update user", err)
			return
		}
		user.PasswordHash = hash
	}
	user.UpdatedAt = h.now()

	saved, err := h.store.SaveUser(r.Context(), user)
	if err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			respond.Error(w, http.StatusConflict, "User with this email or phone already exists")
			return
		}
		respond.Internal(w, "Failed to update user", err)
		return
	}
	respond.JSON(w, http.StatusOK, "User updated successfully", saved)
}

// taken writes a 409 when lookup finds an existing holder of value.
func (h *UserHandler) taken(w http.ResponseWriter, r *http.Request, lookup func(ctx context.Context, v string) (models.User, error), value, message string) bool {
	_, err := lookup(r.Context(), value)
	switch {
	case err == nil:
		respond.Error(w, http.StatusConflict, message)
		return true
	case errors.Is(err, storage.ErrNotFound):
		return false
	default:
		respond.Internal(w, "Failed to update user", err)
		return true
	}
}

func (h *UserHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := userIDParam(w, r)
	if !ok {
		return
	}
	if r.URL.Query().Get("permanent") == "true" {
		if err := h.store.DeleteUser(r.Context(), id); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				respond.Error(w, http.StatusNotFound, "User not found")
				return
			}
			respond.Internal(w, "Failed to delete user", err)
			return
		}
		respond.JSON(w, http.StatusOK, "User permanently deleted", nil)
		return
	}

	user, ok := loadUser(w, r, h.store, "Failed to delete user")
	if !ok {
		return
	}
	user.IsActive = false
	user.UpdatedAt = h.now()
	saved, err := h.store.SaveUser(r.Context(), user)
	if err != nil {
		respond.Internal(w, "Failed to delete user", err)
		return
	}
	respond.JSON(w, http.StatusOK, "User deactivated successfully", saved)
}

func trimAddress(a models.Address) models.Address {
	a.Type = strings.TrimSpace(a.Type)
	a.Address = strings.TrimSpace(a.Address)
	a.City = strings.TrimSpace(a.City)
	a.State = strings.TrimSpace(a.State)
	a.Pincode = strings.TrimSpace(a.Pincode)
	return a
}
