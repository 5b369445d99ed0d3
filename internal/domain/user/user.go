package user

import "time"

type User struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	Phone        string
	Address      string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type ListUsersFilter struct {
	Role *Role
}
