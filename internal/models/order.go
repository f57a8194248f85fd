package models

import "time"

// Order statuses.
const (
	OrderPending    = "pending"
	OrderProcessing = "processing"
	OrderShipped    = "shipped"
	OrderDelivered  = "delivered"
	OrderCancelled  = "cancelled"
)

// ValidOrderStatus reports whether status is a known order status.
func ValidOrderStatus(status string) bool {
	switch status {
	case OrderPending, OrderProcessing, OrderShipped, OrderDelivered, OrderCancelled:
		return true
	}
	return false
}

// OrderProduct is a product snapshot inside an order.
type OrderProduct struct {
	ProductID   string  `json:"productId" bson:"productId" validate:"required"`
	ProductName string  `json:"productName" bson:"productName" validate:"required"`
	Quantity    int     `json:"quantity" bson:"quantity" validate:"min=1"`
	Price       float64 `json:"price" bson:"price" validate:"gte=0"`
}

// Order is an entry of a user's purchase history.
type Order struct {
	OrderID         string         `json:"orderId" bson:"orderId"`
	Products        []OrderProduct `json:"products" bson:"products"`
	TotalAmount     float64        `json:"totalAmount" bson:"totalAmount"`
	OrderDate       time.Time      `json:"orderDate" bson:"orderDate"`
	Status          string         `json:"status" bson:"status"`
	ShippingAddress Address        `json:"shippingAddress" bson:"shippingAddress"`
	PaymentMethod   string         `json:"paymentMethod,omitempty" bson:"paymentMethod,omitempty"`
	TrackingNumber  string         `json:"trackingNumber,omitempty" bson:"trackingNumber,omitempty"`
}
