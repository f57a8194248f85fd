package models

// Roles a user account can hold.
const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
	RoleVendor   = "vendor"
)

// ValidRole reports whether role is one of the known account roles.
func ValidRole(role string) bool {
	switch role {
	case RoleCustomer, RoleAdmin, RoleVendor:
		return true
	}
	return false
}
