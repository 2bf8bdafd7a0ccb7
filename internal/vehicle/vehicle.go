package vehicle

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/mandi/internal/apperr"
)

var ErrNotFound = fmt.Errorf("vehicle condition %w", apperr.ErrNotFound)

// Condition is the latest manual inspection recorded for a vehicle.
type Condition struct {
	ID               uuid.UUID
	VehicleNumber    string
	PermitStatus     bool
	DriverLicense    bool
	VehicleCondition bool
	ChallanClear     bool
	EMIClear         bool
	FitnessClear     bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (c *Condition) Passed() bool {
	return c.PermitStatus &&
		c.DriverLicense &&
		c.VehicleCondition &&
		c.ChallanClear &&
		c.EMIClear &&
		c.FitnessClear
}

// Claim history labels.
const (
	ClaimFound      = "Claim Found"
	NoClaim         = "No Claim"
	NoTruckRecorded = "Auto Verified (No Truck Record)"
)

const (
	ReasonPreviousClaim = "Truck has previous claim"
	ReasonChecksFailed  = "One or more vehicle checks failed"
)

type Details struct {
	Permit           string `json:"permit"`
	DriverLicense    string `json:"driverLicense"`
	VehicleCondition string `json:"vehicleCondition"`
	Challan          string `json:"challan"`
	EMI              string `json:"emi"`
	Fitness          string `json:"fitness"`
	Claim            string `json:"claim"`
}

type Verification struct {
	VehicleNumber string  `json:"vehicleNumber"`
	Details       Details `json:"details"`
	Verified      bool    `json:"verified"`
	Reason        *string `json:"reason"`
}

func label(ok bool, yes, no string) string {
	if ok {
		return yes
	}

	return no
}

func verify(c *Condition, claimCount *int) *Verification {
	hasClaim := claimCount != nil && *claimCount > 0

	claim := NoTruckRecorded
	if claimCount != nil {
		claim = label(hasClaim, ClaimFound, NoClaim)
	}

	v := &Verification{
		VehicleNumber: c.VehicleNumber,
		Details: Details{
			Permit:           label(c.PermitStatus, "Active", "Inactive"),
			DriverLicense:    label(c.DriverLicense, "Available", "Not Available"),
			VehicleCondition: label(c.VehicleCondition, "OK", "Not OK"),
			Challan:          label(c.ChallanClear, "No Challan", "Challan Found"),
			EMI:              label(c.EMIClear, "Paid", "Due"),
			Fitness:          label(c.FitnessClear, "Fit", "Unfit"),
			Claim:            claim,
		},
		Verified: c.Passed() && !hasClaim,
	}

	if !v.Verified {
		reason := ReasonChecksFailed
		if hasClaim {
			reason = ReasonPreviousClaim
		}

		v.Reason = &reason
	}

	return v
}
