package dto

// AddCartItemRequest adds a line or tops up the matching one. Quantity,
// price and weight bounds are checked by the cart engine.
type AddCartItemRequest struct {
	ProductID   string   `json:"productId" validate:"required"`
	ProductName string   `json:"productName" validate:"required"`
	Quantity    int      `json:"quantity"`
	Price       float64  `json:"price"`
	Weight      *float64 `json:"weight"`
}

// UpdateCartItemRequest changes one line. OldWeight selects among lines
// of the same product.
type UpdateCartItemRequest struct {
	ProductID string   `json:"productId" validate:"required"`
	Quantity  *int     `json:"quantity"`
	Weight    *float64 `json:"weight"`
	OldWeight *float64 `json:"oldWeight"`
}
