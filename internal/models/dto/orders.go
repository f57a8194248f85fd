package dto

import (
	"time"

	"github.com/hongminglow/km-agri-be/internal/models"
)

type AppendOrderRequest struct {
	OrderID         string                `json:"orderId"`
	Products        []models.OrderProduct `json:"products" validate:"omitempty,dive"`
	TotalAmount     float64               `json:"totalAmount"`
	OrderDate       *time.Time            `json:"orderDate"`
	Status          string                `json:"status"`
	ShippingAddress *models.Address       `json:"shippingAddress"`
	PaymentMethod   string                `json:"paymentMethod"`
	TrackingNumber  string                `json:"trackingNumber"`
}

type UpdateOrderRequest struct {
	OrderID        string  `json:"orderId" validate:"required"`
	Status         *string `json:"status"`
	TrackingNumber *string `json:"trackingNumber"`
}
