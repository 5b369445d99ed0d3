package user

import (
	"errors"
	"strings"
)

// Role is the closed set of account kinds.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleSeller Role = "seller"
	RoleUser   Role = "user"
)

var ErrInvalidRole = errors.New("invalid role")

func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleSeller, RoleUser:
		return true
	default:
		return false
	}
}

func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}

// CanSell reports whether the role may manage its own product listings.
func (r Role) CanSell() bool {
	return r == RoleSeller || r == RoleAdmin
}

// ParseRole normalizes s (request body, token claim, DB column) into a Role.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if !r.IsValid() {
		return "", ErrInvalidRole
	}
	return r, nil
}

// CanChangeRole decides whether executor may move target to role.
// Only admins assign roles, and nobody changes their own.
func CanChangeRole(executor *User, target *User, role Role) bool {
	if executor == nil || target == nil {
		return false
	}
	if !executor.Role.IsAdmin() {
		return false
	}
	if executor.ID == target.ID {
		return false
	}
	return role.IsValid()
}
