package truck

import (
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/mandi/internal/truck"
	"github.com/MrJamesThe3rd/mandi/internal/truck/register"
)

type importResponse struct {
	Created  int                  `json:"created"`
	Updated  int                  `json:"updated"`
	Rejected []register.Rejection `json:"rejected"`
	Charset  string               `json:"charset"`
}

type truckResponse struct {
	ID                  uuid.UUID `json:"id"`
	TruckNumber         string    `json:"truckNumber"`
	OwnerName           string    `json:"ownerName"`
	OwnerContactNumber  string    `json:"ownerContactNumber"`
	DriverName          string    `json:"driverName"`
	DriverContactNumber string    `json:"driverContactNumber"`
	ClaimCount          int       `json:"claimCount"`
	HasClaims           bool      `json:"hasClaims"`
	CreatedAt           time.Time `json:"createdAt"`
	UpdatedAt           time.Time `json:"updatedAt"`
}

func toResponse(t *truck.Truck) truckResponse {
	return truckResponse{
		ID:                  t.ID,
		TruckNumber:         t.TruckNumber,
		OwnerName:           t.OwnerName,
		OwnerContactNumber:  t.OwnerContactNumber,
		DriverName:          t.DriverName,
		DriverContactNumber: t.DriverContactNumber,
		ClaimCount:          t.ClaimCount,
		HasClaims:           t.HasClaims(),
		CreatedAt:           t.CreatedAt,
		UpdatedAt:           t.UpdatedAt,
	}
}
