package user

import "strings"

type Role string

const (
	RoleEmployee Role = "employee"
	RoleAdmin    Role = "admin" // Reviews leave, sees everyone's attendance and payroll
)

// ParseRole normalizes a role claim. Unknown values fall back to employee.
func ParseRole(s string) Role {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleAdmin:
		return RoleAdmin
	default:
		return RoleEmployee
	}
}

// Identity is the authenticated actor handed to every operation.
// It comes from the identity provider and is trusted as given.
type Identity struct {
	UserID string
	Email  string
	Name   string
	Role   Role
}

// IsAdmin checks if the actor has the admin role
func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}
