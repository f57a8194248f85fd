package models

// Address types.
const (
	AddressHome  = "home"
	AddressWork  = "work"
	AddressOther = "other"
)

// Address is a shipping address owned by a user. Orders keep a copy.
type Address struct {
	Type      string `json:"type" bson:"type" validate:"omitempty,oneof=home work other"`
	Address   string `json:"address" bson:"address" validate:"required"`
	City      string `json:"city" bson:"city" validate:"required"`
	State     string `json:"state" bson:"state" validate:"required"`
	Pincode   string `json:"pincode" bson:"pincode" validate:"required,pincode"`
	IsDefault bool   `json:"isDefault" bson:"isDefault"`
}

// NormalizeDefaultAddress keeps only the first address flagged as default.
func NormalizeDefaultAddress(addrs []Address) []Address {
	seen := false
	for i := range addrs {
		if addrs[i].Type == "" {
			addrs[i].Type = AddressHome
		}
		if !addrs[i].IsDefault {
			continue
		}
		if seen {
			addrs[i].IsDefault = false
		}
		seen = true
	}
	return addrs
}
