package dto

type WishlistRequest struct {
	ProductID string `json:"productId" validate:"required"`
}
