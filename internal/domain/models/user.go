package models

import "time"

// UserStatus is the role assigned to a user account.
type UserStatus string

const (
	StatusUser    UserStatus = "user"
	StatusAdmin   UserStatus = "admin"
	StatusDeliver UserStatus = "deliver"
)

// Valid reports whether the value is one of the known roles.
func (s UserStatus) Valid() bool {
	switch s {
	case StatusUser, StatusAdmin, StatusDeliver:
		return true
	}
	return false
}

// User represents a registered account. PassHash is never serialized.
type User struct {
	ID        int64      `json:"id"`
	FirstName string     `json:"first_name"`
	LastName  string     `json:"last_name"`
	Username  string     `json:"username"`
	Email     string     `json:"email"`
	PassHash  []byte     `json:"-"`
	Status    UserStatus `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}
