package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/mandi/internal/database"
	"github.com/MrJamesThe3rd/mandi/internal/invoice"
	truckstore "github.com/MrJamesThe3rd/mandi/internal/truck/store"
)

const numberConstraint = "invoices_invoice_number_key"

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

const selectInvoiceColumns = `
	i.id, i.invoice_number, i.invoice_date, i.terms, i.invoice_type,
	i.supplier_name, i.supplier_address, i.place_of_supply,
	i.bill_to_name, i.bill_to_address, i.ship_to_name, i.ship_to_address,
	i.product_name, i.hsn_code, i.quantity, i.rate, i.amount, i.premium_amount,
	i.user_id, i.truck_id, COALESCE(t.truck_number, ''), i.owner_name, i.vehicle_number,
	i.weighment_slip_note, i.weighment_slip_urls, i.is_claim, i.claim_details, i.pdf_url,
	i.is_verified, i.verified_at, i.whatsapp_sent, i.whatsapp_sent_at, i.created_at, i.updated_at
`

const fromInvoices = `
	FROM invoices i
	LEFT JOIN trucks t ON t.id = i.truck_id
`

func scanInvoice(s scanner) (*invoice.Invoice, error) {
	var inv invoice.Invoice

	var invoiceType string

	if err := s.Scan(
		&inv.ID, &inv.InvoiceNumber, &inv.InvoiceDate, &inv.Terms, &invoiceType,
		&inv.SupplierName, database.TextArray(&inv.SupplierAddress), &inv.PlaceOfSupply,
		&inv.BillToName, database.TextArray(&inv.BillToAddress), &inv.ShipToName, database.TextArray(&inv.ShipToAddress),
		&inv.ProductName, &inv.HSNCode, &inv.Quantity, &inv.Rate, &inv.Amount, &inv.PremiumAmount,
		&inv.UserID, &inv.TruckID, &inv.TruckNumber, &inv.OwnerName, &inv.VehicleNumber,
		&inv.WeighmentSlipNote, database.TextArray(&inv.WeighmentSlipURLs), &inv.IsClaim, &inv.ClaimDetails, &inv.PDFURL,
		&inv.IsVerified, &inv.VerifiedAt, &inv.WhatsappSent, &inv.WhatsappSentAt, &inv.CreatedAt, &inv.UpdatedAt,
	); err != nil {
		return nil, err
	}

	inv.InvoiceType = invoice.Type(invoiceType)

	return &inv, nil
}

func (s *Store) GetInvoice(ctx context.Context, id uuid.UUID) (*invoice.Invoice, error) {
	query := `SELECT ` + selectInvoiceColumns + fromInvoices + `WHERE i.id = $1`

	inv, err := scanInvoice(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, invoice.ErrNotFound
		}

		return nil, fmt.Errorf("getting invoice: %w", err)
	}

	return inv, nil
}

func (s *Store) ListInvoices(ctx context.Context, filter invoice.ListFilter) ([]*invoice.Invoice, error) {
	query := `SELECT ` + selectInvoiceColumns + fromInvoices + `WHERE TRUE`

	var args []any

	argIdx := 1

	if filter.InvoiceType != nil {
		query += fmt.Sprintf(" AND i.invoice_type = $%d", argIdx)

		args = append(args, *filter.InvoiceType)
		argIdx++
	}

	if filter.StartDate != nil {
		query += fmt.Sprintf(" AND i.invoice_date >= $%d", argIdx)

		args = append(args, *filter.StartDate)
		argIdx++
	}

	if filter.EndDate != nil {
		query += fmt.Sprintf(" AND i.invoice_date <= $%d", argIdx)

		args = append(args, *filter.EndDate)
		argIdx++
	}

	if filter.SupplierName != "" {
		query += fmt.Sprintf(" AND i.supplier_name ILIKE $%d", argIdx)

		args = append(args, "%"+escapeLike(filter.SupplierName)+"%")
		argIdx++
	}

	if filter.BuyerName != "" {
		query += fmt.Sprintf(" AND i.bill_to_name ILIKE $%d", argIdx)

		args = append(args, "%"+escapeLike(filter.BuyerName)+"%")
		argIdx++
	}

	if filter.UserID != nil {
		query += fmt.Sprintf(" AND i.user_id = $%d", argIdx)

		args = append(args, *filter.UserID)
		argIdx++
	}

	if len(filter.IDs) > 0 {
		query += fmt.Sprintf(" AND i.id = ANY($%d::uuid[])", argIdx)

		ids := make([]string, len(filter.IDs))
		for n, id := range filter.IDs {
			ids[n] = id.String()
		}

		args = append(args, ids)
	}

	query += " ORDER BY i.created_at DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing invoices: %w", err)
	}
	defer rows.Close()

	var invoices []*invoice.Invoice

	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning invoice: %w", err)
		}

		invoices = append(invoices, inv)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating invoices: %w", err)
	}

	return invoices, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func (s *Store) DeleteInvoice(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM invoices WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting invoice: %w", err)
	}

	return requireRow(res)
}

func (s *Store) UpdatePDFURL(ctx context.Context, id uuid.UUID, url string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE invoices SET pdf_url = $1, updated_at = NOW() WHERE id = $2`, url, id)
	if err != nil {
		return fmt.Errorf("updating pdf url: %w", err)
	}

	return requireRow(res)
}

func (s *Store) MarkWhatsappSent(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE invoices SET whatsapp_sent = TRUE, whatsapp_sent_at = NOW(), updated_at = NOW() WHERE id = $1
	`, id)
	if err != nil {
		return fmt.Errorf("marking whatsapp sent: %w", err)
	}

	return requireRow(res)
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading affected rows: %w", err)
	}

	if n == 0 {
		return invoice.ErrNotFound
	}

	return nil
}

// NextSequence bumps the per-year counter. The first allocation of a year seeds the
// counter from the highest number already stored, so rows written before the counter
// existed keep their place in the series.
func (s *Store) NextSequence(ctx context.Context, year int) (int, error) {
	query := `
		INSERT INTO invoice_sequences (year, last_value)
		VALUES ($1, COALESCE((
			SELECT MAX(CAST(SUBSTRING(invoice_number FROM LENGTH($2) + 1) AS INTEGER))
			FROM invoices
			WHERE invoice_number LIKE $2 || '%'
		), 0) + 1)
		ON CONFLICT (year) DO UPDATE SET last_value = invoice_sequences.last_value + 1
		RETURNING last_value
	`

	var seq int
	if err := s.db.QueryRowContext(ctx, query, year, invoice.NumberPrefix(year)).Scan(&seq); err != nil {
		return 0, fmt.Errorf("allocating invoice sequence: %w", err)
	}

	return seq, nil
}

type writeTx struct {
	tx *sql.Tx
}

func (s *Store) BeginWrite(ctx context.Context) (invoice.WriteTx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning invoice tx: %w", err)
	}

	return &writeTx{tx: tx}, nil
}

func (w *writeTx) Commit() error   { return w.tx.Commit() }
func (w *writeTx) Rollback() error { return w.tx.Rollback() }

func (w *writeTx) CreateInvoice(ctx context.Context, inv *invoice.Invoice) error {
	if inv.ID == uuid.Nil {
		inv.ID = uuid.New()
	}

	query := `
		INSERT INTO invoices (
			id, invoice_number, invoice_date, terms, invoice_type,
			supplier_name, supplier_address, place_of_supply,
			bill_to_name, bill_to_address, ship_to_name, ship_to_address,
			product_name, hsn_code, quantity, rate, amount, premium_amount,
			user_id, truck_id, owner_name, vehicle_number,
			weighment_slip_note, weighment_slip_urls, is_claim, claim_details,
			created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18,
			$19, $20, $21, $22, $23, $24, $25, $26, NOW(), NOW())
		RETURNING created_at, updated_at
	`

	err := w.tx.QueryRowContext(ctx, query,
		inv.ID, inv.InvoiceNumber, inv.InvoiceDate, inv.Terms, inv.InvoiceType,
		inv.SupplierName, database.Strings(inv.SupplierAddress), inv.PlaceOfSupply,
		inv.BillToName, database.Strings(inv.BillToAddress), inv.ShipToName, database.Strings(inv.ShipToAddress),
		inv.ProductName, inv.HSNCode, inv.Quantity, inv.Rate, inv.Amount, inv.PremiumAmount,
		inv.UserID, inv.TruckID, inv.OwnerName, inv.VehicleNumber,
		inv.WeighmentSlipNote, database.Strings(inv.WeighmentSlipURLs), inv.IsClaim, inv.ClaimDetails,
	).Scan(&inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		if database.IsUniqueViolation(err, numberConstraint) {
			return invoice.ErrDuplicateNumber
		}

		return fmt.Errorf("creating invoice: %w", err)
	}

	return nil
}

// UpdateInvoice rewrites every mutable column. invoice_number and the pdf/claim
// bookkeeping columns are owned by other paths and left alone.
func (w *writeTx) UpdateInvoice(ctx context.Context, inv *invoice.Invoice) error {
	query := `
		UPDATE invoices SET
			invoice_date = $1, terms = $2, invoice_type = $3,
			supplier_name = $4, supplier_address = $5, place_of_supply = $6,
			bill_to_name = $7, bill_to_address = $8, ship_to_name = $9, ship_to_address = $10,
			product_name = $11, hsn_code = $12, quantity = $13, rate = $14, amount = $15, premium_amount = $16,
			truck_id = $17, owner_name = $18, vehicle_number = $19,
			weighment_slip_note = $20, weighment_slip_urls = $21, is_claim = $22, claim_details = $23,
			updated_at = NOW()
		WHERE id = $24
		RETURNING updated_at
	`

	err := w.tx.QueryRowContext(ctx, query,
		inv.InvoiceDate, inv.Terms, inv.InvoiceType,
		inv.SupplierName, database.Strings(inv.SupplierAddress), inv.PlaceOfSupply,
		inv.BillToName, database.Strings(inv.BillToAddress), inv.ShipToName, database.Strings(inv.ShipToAddress),
		inv.ProductName, inv.HSNCode, inv.Quantity, inv.Rate, inv.Amount, inv.PremiumAmount,
		inv.TruckID, inv.OwnerName, inv.VehicleNumber,
		inv.WeighmentSlipNote, database.Strings(inv.WeighmentSlipURLs), inv.IsClaim, inv.ClaimDetails,
		inv.ID,
	).Scan(&inv.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return invoice.ErrNotFound
		}

		return fmt.Errorf("updating invoice: %w", err)
	}

	return nil
}

func (w *writeTx) OpenClaim(ctx context.Context, id uuid.UUID) (bool, error) {
	return truckstore.OpenClaim(ctx, w.tx, id)
}
