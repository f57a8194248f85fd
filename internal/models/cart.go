package models

import "time"

// MaxItemWeight is the heaviest weight, in kg, a cart line may carry.
const MaxItemWeight = 50.0

// CartItem is one cart line. ProductName and Price are snapshots taken
// when the line was added, not live catalog references.
type CartItem struct {
	ProductID   string    `json:"productId" bson:"productId"`
	ProductName string    `json:"productName" bson:"productName"`
	Quantity    int       `json:"quantity" bson:"quantity"`
	Price       float64   `json:"price" bson:"price"`
	Weight      *float64  `json:"weight,omitempty" bson:"weight,omitempty"`
	AddedAt     time.Time `json:"addedAt" bson:"addedAt"`
}
