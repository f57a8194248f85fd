package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hongminglow/km-agri-be/internal/auth"
	"github.com/hongminglow/km-agri-be/internal/http/respond"
	"github.com/hongminglow/km-agri-be/internal/models"
	"github.com/hongminglow/km-agri-be/internal/models/dto"
	"github.com/hongminglow/km-agri-be/internal/notify"
	"github.com/hongminglow/km-agri-be/internal/session"
	"github.com/hongminglow/km-agri-be/internal/storage"
	"github.com/hongminglow/km-agri-be/internal/validation"
)

// AuthHandler owns the password, OTP and session endpoints.
type AuthHandler struct {
	store        storage.UserStore
	sessions     session.Manager
	otps         *auth.OTPIssuer
	events       notify.Publisher
	cookieSecure bool
	now          func() time.Time
}

// NewAuthHandler constructs the handler.
func NewAuthHandler(store storage.UserStore, sessions session.Manager, otps *auth.OTPIssuer, events notify.Publisher, cookieSecure bool) *AuthHandler {
	return &AuthHandler{
		store:        store,
		sessions:     sessions,
		otps:         otps,
		events:       events,
		cookieSecure: cookieSecure,
		now:          time.Now,
	}
}

// Register attaches auth routes to the router.
func (h *AuthHandler) Register(r chi.Router) {
	r.Post("/auth/login", h.handleLogin)
	r.Post("/auth/otp/send", h.handleOTPSend)
	r.Post("/auth/otp/verify", h.handleOTPVerify)
	r.Get("/auth/session", h.handleSession)
	r.Delete("/auth/session", h.handleLogout)
}

func (h *AuthHandler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	email := validation.NormalizeEmail(req.Email)
	hasPhone := strings.TrimSpace(req.Phone) != ""
	phone := validation.CleanPhone(req.Phone)

	switch {
	case email == "" && !hasPhone:
		respond.Error(w, http.StatusBadRequest, "Please provide either email or phone number")
		return
	case email != "" && hasPhone:
		respond.Error(w, http.StatusBadRequest, "Please provide either email or phone number, not both")
		return
	case strings.TrimSpace(req.Password) == "":
		respond.Error(w, http.StatusBadRequest, "Password is required")
		return
	case email != "" && !validation.ValidEmail(email):
		respond.Error(w, http.StatusBadRequest, "Please provide a valid email address")
		return
	case email == "" && !validation.ValidPhone(phone):
		respond.Error(w, http.StatusBadRequest, "Please provide a valid 10-digit phone number")
		return
	}

	var (
		user models.User
		err  error
	)
	if email != "" {
		user, err = h.store.FindByEmail(r.Context(), email)
	} else {
		user, err = h.store.FindByPhone(r.Context(), phone)
	}
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			auth.CheckPassword("", req.Password)
			respond.Error(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		respond.Internal(w, "Login failed", err)
		return
	}
	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		respond.Error(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if !user.IsActive {
		respond.Error(w, http.StatusForbidden, "Account is deactivated")
		return
	}

	now := h.now()
	user.LastLogin = &now
	user.UpdatedAt = now
	user, err = h.store.SaveUser(r.Context(), user)
	if err != nil {
		respond.Internal(w, "Login failed", err)
		return
	}
	h.startSession(w, r, user)
}

func (h *AuthHandler) handleOTPSend(w http.ResponseWriter, r *http.Request) {
	var req dto.OTPSendRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.Phone = validation.CleanPhone(req.Phone)
	if err := validate.Struct(req); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.store.FindByPhone(r.Context(), req.Phone)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respond.Error(w, http.StatusNotFound, "User not found. Please register first.")
			return
		}
		respond.Internal(w, "Failed to send OTP", err)
		return
	}

	code, err := h.otps.Issue(&user)
	if err != nil {
		respond.Internal(w, "Failed to send OTP", err)
		return
	}
	user.UpdatedAt = h.now()
	if _, err := h.store.SaveUser(r.Context(), user); err != nil {
		respond.Internal(w, "Failed to send OTP", err)
		return
	}

	expiresAt := *user.OTPExpiry
	publish(r.Context(), h.events, notify.NewEvent(notify.EventOTPRequested, user.ID.Hex(), user.Phone,
		notify.OTPPayload{Code: code, ExpiresAt: expiresAt}, h.now()))

	minutes := int(h.otps.TTL().Minutes())
	respond.JSON(w, http.StatusOK,
		fmt.Sprintf("OTP sent successfully to your phone number. Valid for %d minutes.", minutes),
		dto.OTPSentResponse{Phone: user.Phone, ExpiresAt: expiresAt})
}

func (h *AuthHandler) handleOTPVerify(w http.ResponseWriter, r *http.Request) {
	var req dto.OTPVerifyRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.Phone = validation.CleanPhone(req.Phone)
	req.OTP = strings.TrimSpace(req.OTP)
	if err := validate.Struct(req); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.store.FindByPhone(r.Context(), req.Phone)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respond.Error(w, http.StatusNotFound, "User not found")
			return
		}
		respond.Internal(w, "Failed to verify OTP", err)
		return
	}

	if err := h.otps.Verify(&user, req.OTP); err != nil {
		switch {
		case errors.Is(err, auth.ErrOTPMissing):
			respond.Error(w, http.StatusBadRequest, "No OTP found. Please request a new OTP.")
		case errors.Is(err, auth.ErrOTPExpired):
			respond.Error(w, http.StatusBadRequest, "OTP has expired. Please request a new OTP.")
		case errors.Is(err, auth.ErrOTPMismatch):
			respond.Error(w, http.StatusBadRequest, "Invalid OTP. Please try again.")
		default:
			respond.Internal(w, "Failed to verify OTP", err)
		}
		return
	}

	user.UpdatedAt = h.now()
	user, err = h.store.SaveUser(r.Context(), user)
	if err != nil {
		respond.Internal(w, "Failed to verify OTP", err)
		return
	}
	h.startSession(w, r, user)
}

func (h *AuthHandler) handleSession(w http.ResponseWriter, r *http.Request) {
	token := sessionToken(r)
	if token == "" {
		respond.Error(w, http.StatusUnauthorized, "Not authenticated")
		return
	}
	userID, err := h.sessions.Resolve(r.Context(), token)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidToken) {
			h.clearCookie(w)
			respond.Error(w, http.StatusUnauthorized, "Not authenticated")
			return
		}
		respond.Internal(w, "Failed to load session", err)
		return
	}
	user, err := h.store.FindByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			h.clearCookie(w)
			respond.Error(w, http.StatusNotFound, "User not found")
			return
		}
		respond.Internal(w, "Failed to load session", err)
		return
	}
	respond.JSON(w, http.StatusOK, "Session active", user)
}

func (h *AuthHandler) handleLogout(w http.ResponseWriter, r *http.Request) {
	if token := sessionToken(r); token != "" {
		if err := h.sessions.Revoke(r.Context(), token); err != nil {
			respond.Internal(w, "Logout failed", err)
			return
		}
	}
	h.clearCookie(w)
	respond.JSON(w, http.StatusOK, "Logout successful", nil)
}

func (h *AuthHandler) startSession(w http.ResponseWriter, r *http.Request, user models.User) {
	token, err := h.sessions.Issue(r.Context(), user)
	if err != nil {
		respond.Internal(w, "Failed to create session", err)
		return
	}
	ttl := h.sessions.TTL()
	http.SetCookie(w, &http.Cookie{
		Name:     session.CookieName,
		Value:    token,
		Path:     "/",
		Expires:  h.now().Add(ttl),
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	respond.JSON(w, http.StatusOK, "Login successful", dto.AuthResponse{Token: token, User: user})
}

func (h *AuthHandler) clearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     session.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

// sessionToken reads the session cookie, then a bearer token.
func sessionToken(r *http.Request) string {
	if c, err := r.Cookie(session.CookieName); err == nil && c.Value != "" {
		return c.Value
	}
	if token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}
