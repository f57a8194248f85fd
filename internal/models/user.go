package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is the storefront account document. Addresses, cart and purchase
// history are embedded so one write persists every change to them.
type User struct {
	ID              primitive.ObjectID `json:"id" bson:"_id"`
	Name            string             `json:"name" bson:"name"`
	Email           string             `json:"email,omitempty" bson:"email,omitempty"`
	Phone           string             `json:"phone" bson:"phone"`
	PasswordHash    string             `json:"-" bson:"password,omitempty"`
	ProfilePhoto    string             `json:"profilePhoto" bson:"profilePhoto"`
	Role            string             `json:"role" bson:"role"`
	Addresses       []Address          `json:"addresses" bson:"addresses"`
	Cart            []CartItem         `json:"cart" bson:"cart"`
	PurchaseHistory []Order            `json:"purchaseHistory" bson:"purchaseHistory"`
	Wishlist        []string           `json:"wishlist" bson:"wishlist"`
	RefreshToken    string             `json:"-" bson:"refreshToken,omitempty"`
	EmailVerified   bool               `json:"emailVerified" bson:"emailVerified"`
	PhoneVerified   bool               `json:"phoneVerified" bson:"phoneVerified"`
	IsActive        bool               `json:"isActive" bson:"isActive"`
	LastLogin       *time.Time         `json:"lastLogin,omitempty" bson:"lastLogin,omitempty"`
	OTP             string             `json:"-" bson:"otp,omitempty"`
	OTPExpiry       *time.Time         `json:"-" bson:"otpExpiry,omitempty"`
	CreatedAt       time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt       time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// NewUser returns an active customer with empty embedded collections.
func NewUser(name, phone string, now time.Time) User {
	return User{
		ID:              primitive.NewObjectID(),
		Name:            name,
		Phone:           phone,
		Role:            RoleCustomer,
		Addresses:       []Address{},
		Cart:            []CartItem{},
		PurchaseHistory: []Order{},
		Wishlist:        []string{},
		IsActive:        true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// Normalize fills nil collections and keeps a single default address.
// Stores call it before every write.
func (u *User) Normalize() {
	if u.Addresses == nil {
		u.Addresses = []Address{}
	}
	if u.Cart == nil {
		u.Cart = []CartItem{}
	}
	if u.PurchaseHistory == nil {
		u.PurchaseHistory = []Order{}
	}
	if u.Wishlist == nil {
		u.Wishlist = []string{}
	}
	u.Addresses = NormalizeDefaultAddress(u.Addresses)
}

// ClearOTP drops any outstanding one-time code.
func (u *User) ClearOTP() {
	u.OTP = ""
	u.OTPExpiry = nil
}
