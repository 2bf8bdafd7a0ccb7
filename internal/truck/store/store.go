package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/mandi/internal/truck"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

const selectTruckColumns = `
	id, truck_number, owner_name, owner_contact_number, driver_name, driver_contact_number,
	claim_count, created_at, updated_at
`

func scanTruck(s scanner) (*truck.Truck, error) {
	var t truck.Truck

	if err := s.Scan(
		&t.ID, &t.TruckNumber, &t.OwnerName, &t.OwnerContactNumber, &t.DriverName, &t.DriverContactNumber,
		&t.ClaimCount, &t.CreatedAt, &t.UpdatedAt,
	); err != nil {
		return nil, err
	}

	return &t, nil
}

func (s *Store) GetTruckByNumber(ctx context.Context, number string) (*truck.Truck, error) {
	query := `SELECT ` + selectTruckColumns + ` FROM trucks WHERE truck_number = $1`

	t, err := scanTruck(s.db.QueryRowContext(ctx, query, number))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, truck.ErrNotFound
		}

		return nil, fmt.Errorf("getting truck: %w", err)
	}

	return t, nil
}

func (s *Store) EnsureTruck(ctx context.Context, t *truck.Truck) error {
	insert := `
		INSERT INTO trucks (id, truck_number, owner_name, owner_contact_number, driver_name, driver_contact_number, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		ON CONFLICT (truck_number) DO NOTHING
	`

	if _, err := s.db.ExecContext(ctx, insert,
		uuid.New(),
		t.TruckNumber,
		t.OwnerName,
		t.OwnerContactNumber,
		t.DriverName,
		t.DriverContactNumber,
	); err != nil {
		return fmt.Errorf("inserting truck: %w", err)
	}

	stored, err := s.GetTruckByNumber(ctx, t.TruckNumber)
	if err != nil {
		return err
	}

	*t = *stored

	return nil
}

func (s *Store) ListTrucks(ctx context.Context) ([]*truck.Truck, error) {
	query := `SELECT ` + selectTruckColumns + ` FROM trucks ORDER BY truck_number ASC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing trucks: %w", err)
	}
	defer rows.Close()

	var trucks []*truck.Truck

	for rows.Next() {
		t, err := scanTruck(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning truck: %w", err)
		}

		trucks = append(trucks, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating trucks: %w", err)
	}

	return trucks, nil
}

// OpenClaim is the single place a claim is counted against a truck. It flags the
// invoice as a claim and bumps its truck's counter the first time it runs for that
// invoice; later calls are no-ops. It reports whether this call did the counting.
func OpenClaim(ctx context.Context, tx *sql.Tx, invoiceID uuid.UUID) (bool, error) {
	var truckID *uuid.UUID

	err := tx.QueryRowContext(ctx, `
		UPDATE invoices
		SET is_claim = TRUE, claim_counted_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND claim_counted_at IS NULL
		RETURNING truck_id
	`, invoiceID).Scan(&truckID)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}

	if err != nil {
		return false, fmt.Errorf("flagging invoice claim: %w", err)
	}

	if truckID == nil {
		return true, nil
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE trucks SET claim_count = claim_count + 1, updated_at = NOW() WHERE id = $1
	`, *truckID); err != nil {
		return false, fmt.Errorf("incrementing claim count: %w", err)
	}

	return true, nil
}

// UpsertContacts inserts unknown trucks with placeholders for blank cells and
// overwrites only the non-blank contact fields of known ones.
func (s *Store) UpsertContacts(ctx context.Context, rows []truck.Contacts) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO trucks (id, truck_number, owner_name, owner_contact_number, driver_name, driver_contact_number, created_at, updated_at)
		VALUES ($1, $2, COALESCE(NULLIF($3, ''), $7), COALESCE(NULLIF($4, ''), $8), COALESCE(NULLIF($5, ''), $7), COALESCE(NULLIF($6, ''), $8), NOW(), NOW())
		ON CONFLICT (truck_number) DO UPDATE SET
			owner_name = COALESCE(NULLIF($3, ''), trucks.owner_name),
			owner_contact_number = COALESCE(NULLIF($4, ''), trucks.owner_contact_number),
			driver_name = COALESCE(NULLIF($5, ''), trucks.driver_name),
			driver_contact_number = COALESCE(NULLIF($6, ''), trucks.driver_contact_number),
			updated_at = NOW()
		RETURNING (xmax = 0)
	`)
	if err != nil {
		return 0, fmt.Errorf("preparing upsert: %w", err)
	}
	defer stmt.Close()

	created := 0

	for _, row := range rows {
		var inserted bool

		if err := stmt.QueryRowContext(ctx,
			uuid.New(),
			row.TruckNumber,
			row.OwnerName,
			row.OwnerContactNumber,
			row.DriverName,
			row.DriverContactNumber,
			truck.PlaceholderName,
			truck.PlaceholderContact,
		).Scan(&inserted); err != nil {
			return 0, fmt.Errorf("upserting truck %s: %w", row.TruckNumber, err)
		}

		if inserted {
			created++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing import: %w", err)
	}

	return created, nil
}
