package auth

import (
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/mandi/internal/user"
)

type userResponse struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	MobileNumber string    `json:"mobileNumber"`
	State        string    `json:"state"`
	Role         user.Role `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
}

func toUserResponse(u *user.User) userResponse {
	return userResponse{
		ID:           u.ID,
		Name:         u.Name,
		MobileNumber: u.MobileNumber,
		State:        u.State,
		Role:         u.Role,
		CreatedAt:    u.CreatedAt,
	}
}
