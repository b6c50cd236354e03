package user

import "fmt"

// Role is the coarse authorization level attached to an authenticated user.
type Role string

const (
	RoleCustomer Role = "CUSTOMER"
	RoleDriver   Role = "DRIVER"
	RoleAdmin    Role = "ADMIN"
)

// ParseRole maps a wire value onto a known role.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleCustomer, RoleDriver, RoleAdmin:
		return Role(s), nil
	default:
		return "", fmt.Errorf("user: unknown role %q", s)
	}
}

// User is the authenticated actor handed to the core by the transport layer.
// The core never authenticates; it only consults identity and role.
type User struct {
	ID    string
	Email string
	Name  string
	Role  Role
}

func (u *User) IsAdmin() bool { return u != nil && u.Role == RoleAdmin }
