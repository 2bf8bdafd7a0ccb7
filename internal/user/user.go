package user

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/mandi/internal/apperr"
)

var ErrNotFound = fmt.Errorf("user %w", apperr.ErrNotFound)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User is a person who signs in with their mobile number.
// Name and State stay empty until the profile is registered.
type User struct {
	ID           uuid.UUID
	Name         string
	MobileNumber string
	State        string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (u *User) Registered() bool {
	return u.Name != ""
}
