package domain

import "time"

// Role differentiates the kinds of people known to the service.
type Role string

const (
	RoleTenant   Role = "TENANT"
	RoleAdmin    Role = "ADMIN"
	RoleProvider Role = "PROVIDER"
)

// ValidRole reports whether the value is a known role.
func ValidRole(r Role) bool {
	switch r {
	case RoleTenant, RoleAdmin, RoleProvider:
		return true
	}
	return false
}

// Person is anyone who can log in: tenants, administrators, service providers.
type Person struct {
	ID        string
	Name      string
	Role      Role
	Phone     string
	Email     string
	AvatarURL string
	CreatedAt time.Time
}
