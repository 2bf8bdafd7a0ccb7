package truck

import (
	"context"
	"errors"
	"fmt"

	"github.com/MrJamesThe3rd/mandi/internal/apperr"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=truck
type Repository interface {
	GetTruckByNumber(ctx context.Context, number string) (*Truck, error)
	// EnsureTruck inserts t unless its number already exists, then loads the stored row into t.
	EnsureTruck(ctx context.Context, t *Truck) error
	ListTrucks(ctx context.Context) ([]*Truck, error)
	// UpsertContacts writes all rows in one transaction and reports how many trucks were new.
	UpsertContacts(ctx context.Context, rows []Contacts) (int, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) GetByNumber(ctx context.Context, number string) (*Truck, error) {
	return s.repo.GetTruckByNumber(ctx, NormalizeNumber(number))
}

func (s *Service) List(ctx context.Context) ([]*Truck, error) {
	return s.repo.ListTrucks(ctx)
}

// Resolve returns the truck registered under number, creating it with placeholder
// contacts when it has never been seen.
func (s *Service) Resolve(ctx context.Context, number string) (*Truck, error) {
	number = NormalizeNumber(number)
	if number == "" {
		return nil, fmt.Errorf("%w: truck number is required", apperr.ErrInvalidInput)
	}

	t, err := s.repo.GetTruckByNumber(ctx, number)
	if err == nil {
		return t, nil
	}

	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	t = &Truck{
		TruckNumber:         number,
		OwnerName:           PlaceholderName,
		OwnerContactNumber:  PlaceholderContact,
		DriverName:          PlaceholderName,
		DriverContactNumber: PlaceholderContact,
	}
	if err := s.repo.EnsureTruck(ctx, t); err != nil {
		return nil, fmt.Errorf("creating truck %s: %w", number, err)
	}

	return t, nil
}

// Import merges register rows into the truck table. Numbers are normalized and a
// number listed twice keeps its last row. Claim counts are never touched.
func (s *Service) Import(ctx context.Context, rows []Contacts) (*ImportResult, error) {
	merged := make([]Contacts, 0, len(rows))
	index := make(map[string]int, len(rows))

	for _, row := range rows {
		row.TruckNumber = NormalizeNumber(row.TruckNumber)
		if row.TruckNumber == "" {
			continue
		}

		if i, ok := index[row.TruckNumber]; ok {
			merged[i] = row
			continue
		}

		index[row.TruckNumber] = len(merged)
		merged = append(merged, row)
	}

	if len(merged) == 0 {
		return nil, fmt.Errorf("%w: register has no truck numbers", apperr.ErrInvalidInput)
	}

	created, err := s.repo.UpsertContacts(ctx, merged)
	if err != nil {
		return nil, fmt.Errorf("importing trucks: %w", err)
	}

	return &ImportResult{Created: created, Updated: len(merged) - created}, nil
}
