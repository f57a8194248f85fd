package dto

import "github.com/hongminglow/km-agri-be/internal/models"

// CreateUserRequest registers an account. Address, when given, becomes
// the default address.
type CreateUserRequest struct {
	Name         string          `json:"name" validate:"required,min=2,max=100"`
	Email        string          `json:"email" validate:"omitempty,storeemail"`
	Phone        string          `json:"phone" validate:"required,phone10"`
	Password     string          `json:"password" validate:"omitempty,min=6"`
	Role         string          `json:"role" validate:"omitempty,oneof=customer admin vendor"`
	ProfilePhoto string          `json:"profilePhoto"`
	Address      *models.Address `json:"address"`
}

// UpdateUserRequest is a partial update; nil fields are left alone.
type UpdateUserRequest struct {
	Name         *string          `json:"name" validate:"omitnil,min=2,max=100"`
	Email        *string          `json:"email" validate:"omitempty,storeemail"`
	Phone        *string          `json:"phone" validate:"omitnil,phone10"`
	Password     *string          `json:"password" validate:"omitnil,min=6"`
	Role         *string          `json:"role" validate:"omitnil,oneof=customer admin vendor"`
	ProfilePhoto *string          `json:"profilePhoto"`
	Addresses    []models.Address `json:"addresses" validate:"omitempty,dive"`
}
