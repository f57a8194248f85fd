package dto

import (
	"time"

	"github.com/hongminglow/km-agri-be/internal/models"
)

// LoginRequest takes exactly one of Email or Phone.
type LoginRequest struct {
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

type OTPSendRequest struct {
	Phone string `json:"phone" validate:"required,phone10"`
}

type OTPVerifyRequest struct {
	Phone string `json:"phone" validate:"required,phone10"`
	OTP   string `json:"otp" validate:"required,otp6"`
}

type OTPSentResponse struct {
	Phone     string    `json:"phone"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// AuthResponse is returned by both login paths.
type AuthResponse struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}
