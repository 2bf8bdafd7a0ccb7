package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/mandi/internal/vehicle"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

const selectConditionColumns = `
	id, vehicle_number, permit_status, driver_license, vehicle_condition,
	challan_clear, emi_clear, fitness_clear, created_at, updated_at
`

type scanner interface {
	Scan(dest ...any) error
}

func scanCondition(s scanner, c *vehicle.Condition) error {
	return s.Scan(
		&c.ID, &c.VehicleNumber, &c.PermitStatus, &c.DriverLicense, &c.VehicleCondition,
		&c.ChallanClear, &c.EMIClear, &c.FitnessClear, &c.CreatedAt, &c.UpdatedAt,
	)
}

func (s *Store) GetCondition(ctx context.Context, vehicleNumber string) (*vehicle.Condition, error) {
	query := `SELECT ` + selectConditionColumns + ` FROM vehicle_conditions WHERE vehicle_number = $1`

	var c vehicle.Condition
	if err := scanCondition(s.db.QueryRowContext(ctx, query, vehicleNumber), &c); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, vehicle.ErrNotFound
		}

		return nil, fmt.Errorf("getting vehicle condition: %w", err)
	}

	return &c, nil
}

func (s *Store) UpsertCondition(ctx context.Context, c *vehicle.Condition) error {
	query := `
		INSERT INTO vehicle_conditions (
			id, vehicle_number, permit_status, driver_license, vehicle_condition,
			challan_clear, emi_clear, fitness_clear
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (vehicle_number) DO UPDATE SET
			permit_status = EXCLUDED.permit_status,
			driver_license = EXCLUDED.driver_license,
			vehicle_condition = EXCLUDED.vehicle_condition,
			challan_clear = EXCLUDED.challan_clear,
			emi_clear = EXCLUDED.emi_clear,
			fitness_clear = EXCLUDED.fitness_clear,
			updated_at = NOW()
		RETURNING ` + selectConditionColumns

	row := s.db.QueryRowContext(ctx, query,
		uuid.New(), c.VehicleNumber, c.PermitStatus, c.DriverLicense, c.VehicleCondition,
		c.ChallanClear, c.EMIClear, c.FitnessClear,
	)
	if err := scanCondition(row, c); err != nil {
		return fmt.Errorf("upserting vehicle condition: %w", err)
	}

	return nil
}
