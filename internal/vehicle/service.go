package vehicle

import (
	"context"
	"errors"
	"fmt"

	"github.com/MrJamesThe3rd/mandi/internal/apperr"
	"github.com/MrJamesThe3rd/mandi/internal/truck"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=vehicle
type Repository interface {
	GetCondition(ctx context.Context, vehicleNumber string) (*Condition, error)
	// UpsertCondition replaces the checks stored for c.VehicleNumber and loads the saved row into c.
	UpsertCondition(ctx context.Context, c *Condition) error
}

type Trucks interface {
	GetByNumber(ctx context.Context, number string) (*truck.Truck, error)
}

type Service struct {
	repo   Repository
	trucks Trucks
}

func NewService(repo Repository, trucks Trucks) *Service {
	return &Service{repo: repo, trucks: trucks}
}

type UpsertInput struct {
	VehicleNumber    string
	PermitStatus     bool
	DriverLicense    bool
	VehicleCondition bool
	ChallanClear     bool
	EMIClear         bool
	FitnessClear     bool
}

func (s *Service) Upsert(ctx context.Context, in UpsertInput) (*Condition, error) {
	number := truck.NormalizeNumber(in.VehicleNumber)
	if number == "" {
		return nil, fmt.Errorf("%w: vehicle number is required", apperr.ErrInvalidInput)
	}

	c := &Condition{
		VehicleNumber:    number,
		PermitStatus:     in.PermitStatus,
		DriverLicense:    in.DriverLicense,
		VehicleCondition: in.VehicleCondition,
		ChallanClear:     in.ChallanClear,
		EMIClear:         in.EMIClear,
		FitnessClear:     in.FitnessClear,
	}
	if err := s.repo.UpsertCondition(ctx, c); err != nil {
		return nil, fmt.Errorf("saving vehicle condition: %w", err)
	}

	return c, nil
}

// Verify combines the stored checks with the truck's claim history. A vehicle with no
// truck record is treated as claim-free.
func (s *Service) Verify(ctx context.Context, number string) (*Verification, error) {
	number = truck.NormalizeNumber(number)

	var claimCount *int

	t, err := s.trucks.GetByNumber(ctx, number)

	switch {
	case err == nil:
		claimCount = &t.ClaimCount
	case !errors.Is(err, truck.ErrNotFound):
		return nil, err
	}

	c, err := s.repo.GetCondition(ctx, number)
	if err != nil {
		return nil, err
	}

	return verify(c, claimCount), nil
}

func (s *Service) WhatsappMessage(ctx context.Context, number string) (string, error) {
	v, err := s.Verify(ctx, number)
	if err != nil {
		return "", err
	}

	return WhatsappText(v), nil
}
