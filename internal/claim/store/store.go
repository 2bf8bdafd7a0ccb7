package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/mandi/internal/claim"
	"github.com/MrJamesThe3rd/mandi/internal/database"
	"github.com/MrJamesThe3rd/mandi/internal/truck"
	truckstore "github.com/MrJamesThe3rd/mandi/internal/truck/store"
)

const invoiceConstraint = "claim_requests_invoice_id_key"

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

const selectClaimColumns = `
	c.id, c.invoice_id, c.status, c.supported_media, c.claim_form_url, c.description, c.claim_amount,
	c.surveyor_name, c.surveyor_contact, c.notes, c.created_at, c.updated_at,
	i.invoice_number, i.invoice_date, i.supplier_name, i.bill_to_name, i.product_name, i.quantity, i.amount,
	i.pdf_url, COALESCE(t.truck_number, i.vehicle_number), i.user_id, COALESCE(u.name, ''), COALESCE(u.mobile_number, '')
`

const fromClaims = `
	FROM claim_requests c
	JOIN invoices i ON i.id = c.invoice_id
	LEFT JOIN trucks t ON t.id = i.truck_id
	LEFT JOIN users u ON u.id = i.user_id
`

func scanClaim(s scanner) (*claim.Claim, error) {
	var c claim.Claim

	var inv claim.Invoice

	var status string

	var amount decimal.NullDecimal

	if err := s.Scan(
		&c.ID, &c.InvoiceID, &status, database.TextArray(&c.SupportedMedia), &c.ClaimFormURL, &c.Description, &amount,
		&c.SurveyorName, &c.SurveyorContact, &c.Notes, &c.CreatedAt, &c.UpdatedAt,
		&inv.InvoiceNumber, &inv.InvoiceDate, &inv.SupplierName, &inv.BillToName, &inv.ProductName, &inv.Quantity, &inv.Amount,
		&inv.PDFURL, &inv.TruckNumber, &inv.UserID, &inv.UserName, &inv.UserMobile,
	); err != nil {
		return nil, err
	}

	c.Status = claim.Status(status)

	if amount.Valid {
		c.ClaimAmount = &amount.Decimal
	}

	inv.ID = c.InvoiceID
	c.Invoice = &inv

	return &c, nil
}

func (s *Store) GetClaim(ctx context.Context, id uuid.UUID) (*claim.Claim, error) {
	query := `SELECT ` + selectClaimColumns + fromClaims + `WHERE c.id = $1`

	c, err := scanClaim(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, claim.ErrNotFound
		}

		return nil, fmt.Errorf("getting claim request: %w", err)
	}

	return c, nil
}

func (s *Store) ListClaims(ctx context.Context, filter claim.ListFilter) ([]*claim.Claim, error) {
	query := `SELECT ` + selectClaimColumns + fromClaims + `WHERE TRUE`

	var args []any

	argIdx := 1

	if filter.Status != nil {
		query += fmt.Sprintf(" AND c.status = $%d", argIdx)

		args = append(args, *filter.Status)
		argIdx++
	}

	if filter.InvoiceID != nil {
		query += fmt.Sprintf(" AND c.invoice_id = $%d", argIdx)

		args = append(args, *filter.InvoiceID)
		argIdx++
	}

	if filter.TruckNumber != "" {
		query += fmt.Sprintf(" AND t.truck_number ILIKE $%d", argIdx)

		args = append(args, "%"+escapeLike(filter.TruckNumber)+"%")
		argIdx++
	}

	if filter.UserID != nil {
		query += fmt.Sprintf(" AND i.user_id = $%d", argIdx)

		args = append(args, *filter.UserID)
	}

	query += " ORDER BY c.created_at DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing claim requests: %w", err)
	}
	defer rows.Close()

	var claims []*claim.Claim

	for rows.Next() {
		c, err := scanClaim(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning claim request: %w", err)
		}

		claims = append(claims, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating claim requests: %w", err)
	}

	return claims, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func (s *Store) UpdateStatus(ctx context.Context, c *claim.Claim) error {
	query := `
		UPDATE claim_requests
		SET status = $1, surveyor_name = $2, surveyor_contact = $3, notes = $4, updated_at = NOW()
		WHERE id = $5
		RETURNING updated_at
	`

	err := s.db.QueryRowContext(ctx, query, c.Status, c.SurveyorName, c.SurveyorContact, c.Notes, c.ID).Scan(&c.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return claim.ErrNotFound
		}

		return fmt.Errorf("updating claim status: %w", err)
	}

	return nil
}

func (s *Store) AppendMedia(ctx context.Context, id uuid.UUID, urls []string) ([]string, error) {
	query := `
		UPDATE claim_requests
		SET supported_media = supported_media || $1::text[], updated_at = NOW()
		WHERE id = $2
		RETURNING supported_media
	`

	var all []string

	err := s.db.QueryRowContext(ctx, query, database.Strings(urls), id).Scan(database.TextArray(&all))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, claim.ErrNotFound
		}

		return nil, fmt.Errorf("appending supporting media: %w", err)
	}

	return all, nil
}

func (s *Store) UpdateClaimFormURL(ctx context.Context, id uuid.UUID, url string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE claim_requests SET claim_form_url = $1, updated_at = NOW() WHERE id = $2`, url, id)
	if err != nil {
		return fmt.Errorf("updating claim form url: %w", err)
	}

	return requireRow(res)
}

type createTx struct {
	tx *sql.Tx
}

func (s *Store) BeginCreate(ctx context.Context) (claim.CreateTx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning claim tx: %w", err)
	}

	return &createTx{tx: tx}, nil
}

func (c *createTx) Commit() error   { return c.tx.Commit() }
func (c *createTx) Rollback() error { return c.tx.Rollback() }

// LockTruck holds the truck row until commit, so claims for one truck are created one at a time.
func (c *createTx) LockTruck(ctx context.Context, number string) (uuid.UUID, error) {
	var id uuid.UUID

	err := c.tx.QueryRowContext(ctx, `SELECT id FROM trucks WHERE truck_number = $1 FOR UPDATE`, number).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return uuid.Nil, truck.ErrNotFound
		}

		return uuid.Nil, fmt.Errorf("locking truck: %w", err)
	}

	return id, nil
}

func (c *createTx) LatestInvoice(ctx context.Context, truckID uuid.UUID) (uuid.UUID, error) {
	var id uuid.UUID

	err := c.tx.QueryRowContext(ctx, `
		SELECT id FROM invoices WHERE truck_id = $1 ORDER BY created_at DESC LIMIT 1
	`, truckID).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return uuid.Nil, claim.ErrNoInvoice
		}

		return uuid.Nil, fmt.Errorf("finding latest invoice: %w", err)
	}

	return id, nil
}

func (c *createTx) ClaimExists(ctx context.Context, invoiceID uuid.UUID) (bool, error) {
	var exists bool

	err := c.tx.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM claim_requests WHERE invoice_id = $1)`, invoiceID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking existing claim: %w", err)
	}

	return exists, nil
}

func (c *createTx) OpenClaim(ctx context.Context, invoiceID uuid.UUID) (bool, error) {
	return truckstore.OpenClaim(ctx, c.tx, invoiceID)
}

func (c *createTx) CreateClaim(ctx context.Context, cl *claim.Claim) error {
	if cl.ID == uuid.Nil {
		cl.ID = uuid.New()
	}

	query := `
		INSERT INTO claim_requests (id, invoice_id, status, supported_media, description, claim_amount, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		RETURNING created_at, updated_at
	`

	var amount decimal.NullDecimal
	if cl.ClaimAmount != nil {
		amount = decimal.NewNullDecimal(*cl.ClaimAmount)
	}

	err := c.tx.QueryRowContext(ctx, query,
		cl.ID, cl.InvoiceID, cl.Status, database.Strings(cl.SupportedMedia), cl.Description, amount,
	).Scan(&cl.CreatedAt, &cl.UpdatedAt)
	if err != nil {
		if database.IsUniqueViolation(err, invoiceConstraint) {
			return claim.ErrAlreadyClaimed
		}

		return fmt.Errorf("creating claim request: %w", err)
	}

	return nil
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading affected rows: %w", err)
	}

	if n == 0 {
		return claim.ErrNotFound
	}

	return nil
}
