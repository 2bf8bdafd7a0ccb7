package invoice

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/MrJamesThe3rd/mandi/internal/apperr"
	"github.com/MrJamesThe3rd/mandi/internal/media"
	"github.com/MrJamesThe3rd/mandi/internal/truck"
	"github.com/MrJamesThe3rd/mandi/internal/user"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=invoice
type Repository interface {
	GetInvoice(ctx context.Context, id uuid.UUID) (*Invoice, error)
	ListInvoices(ctx context.Context, filter ListFilter) ([]*Invoice, error)
	DeleteInvoice(ctx context.Context, id uuid.UUID) error
	UpdatePDFURL(ctx context.Context, id uuid.UUID, url string) error
	MarkWhatsappSent(ctx context.Context, id uuid.UUID) error
	// NextSequence atomically allocates the next sequence value for year.
	NextSequence(ctx context.Context, year int) (int, error)
	BeginWrite(ctx context.Context) (WriteTx, error)
}

type WriteTx interface {
	CreateInvoice(ctx context.Context, inv *Invoice) error
	UpdateInvoice(ctx context.Context, inv *Invoice) error
	OpenClaim(ctx context.Context, id uuid.UUID) (bool, error)
	Commit() error
	Rollback() error
}

type Users interface {
	Get(ctx context.Context, id uuid.UUID) (*user.User, error)
}

type Trucks interface {
	Resolve(ctx context.Context, number string) (*truck.Truck, error)
}

type Jobs interface {
	Enqueue(ctx context.Context, queue, jobType string, payload any) error
}

// Messenger delivers a rendered invoice to its supplier on WhatsApp.
type Messenger interface {
	SendInvoice(ctx context.Context, d Delivery) error
}

type Service struct {
	repo      Repository
	users     Users
	trucks    Trucks
	media     media.Store
	jobs      Jobs
	messenger Messenger
	logger    *zap.Logger
	now       func() time.Time
}

// NewService builds the invoice service. A nil messenger disables WhatsApp delivery.
func NewService(repo Repository, users Users, trucks Trucks, store media.Store, jobs Jobs, messenger Messenger, logger *zap.Logger) *Service {
	return &Service{
		repo:      repo,
		users:     users,
		trucks:    trucks,
		media:     store,
		jobs:      jobs,
		messenger: messenger,
		logger:    logger.With(zap.String("component", "invoice")),
		now:       time.Now,
	}
}

type CreateParams struct {
	UserID            uuid.UUID
	InvoiceDate       string
	Terms             string
	InvoiceType       Type
	SupplierName      string
	SupplierAddress   []string
	PlaceOfSupply     string
	BillToName        string
	BillToAddress     []string
	ShipToName        string
	ShipToAddress     []string
	ProductName       []string
	HSNCode           string
	Quantity          decimal.Decimal
	Rate              decimal.Decimal
	Amount            decimal.Decimal
	PremiumAmount     decimal.Decimal
	TruckNumber       string
	OwnerName         string
	VehicleNumber     string
	WeighmentSlipNote string
	IsClaim           bool
	ClaimDetails      string
}

// UpdateParams replaces only the fields that are set. InvoiceNumber is accepted
// so clients can echo a full invoice back, but it is never applied.
type UpdateParams struct {
	InvoiceNumber     *string
	InvoiceDate       *string
	Terms             *string
	InvoiceType       *Type
	SupplierName      *string
	SupplierAddress   []string
	PlaceOfSupply     *string
	BillToName        *string
	BillToAddress     []string
	ShipToName        *string
	ShipToAddress     []string
	ProductName       []string
	HSNCode           *string
	Quantity          *decimal.Decimal
	Rate              *decimal.Decimal
	Amount            *decimal.Decimal
	PremiumAmount     *decimal.Decimal
	TruckNumber       *string
	OwnerName         *string
	VehicleNumber     *string
	WeighmentSlipNote *string
	IsClaim           *bool
	ClaimDetails      *string
}

type ListFilter struct {
	InvoiceType  *Type
	StartDate    *time.Time
	EndDate      *time.Time
	SupplierName string // case-insensitive substring
	BuyerName    string // case-insensitive substring of bill-to name
	UserID       *uuid.UUID
	IDs          []uuid.UUID
}

type ExportFilter struct {
	InvoiceType *Type
	StartDate   *time.Time
	EndDate     *time.Time
	InvoiceIDs  []uuid.UUID
}

func (s *Service) Create(ctx context.Context, params CreateParams, slips []media.File) (*Invoice, error) {
	if _, err := s.users.Get(ctx, params.UserID); err != nil {
		return nil, err
	}

	inv := &Invoice{
		Terms:             params.Terms,
		InvoiceType:       params.InvoiceType,
		SupplierName:      params.SupplierName,
		SupplierAddress:   params.SupplierAddress,
		PlaceOfSupply:     params.PlaceOfSupply,
		BillToName:        params.BillToName,
		BillToAddress:     params.BillToAddress,
		ShipToName:        params.ShipToName,
		ShipToAddress:     params.ShipToAddress,
		HSNCode:           params.HSNCode,
		Quantity:          params.Quantity,
		Rate:              params.Rate,
		Amount:            params.Amount,
		PremiumAmount:     params.PremiumAmount,
		UserID:            &params.UserID,
		OwnerName:         params.OwnerName,
		VehicleNumber:     params.VehicleNumber,
		WeighmentSlipNote: params.WeighmentSlipNote,
		IsClaim:           params.IsClaim,
		ClaimDetails:      params.ClaimDetails,
	}

	if inv.Terms == "" {
		inv.Terms = DefaultTerms
	}

	if inv.InvoiceType == "" {
		inv.InvoiceType = TypeSupplier
	}

	if !inv.InvoiceType.Valid() {
		return nil, fmt.Errorf("%w: unknown invoice type %q", apperr.ErrInvalidInput, inv.InvoiceType)
	}

	var err error

	if inv.InvoiceDate, err = ParseDate(params.InvoiceDate); err != nil {
		return nil, err
	}

	if inv.ProductName, err = ProductName(params.ProductName); err != nil {
		return nil, err
	}

	if params.TruckNumber != "" {
		t, err := s.trucks.Resolve(ctx, params.TruckNumber)
		if err != nil {
			return nil, err
		}

		inv.TruckID = &t.ID
		inv.TruckNumber = t.TruckNumber
	}

	if len(slips) > 0 {
		urls, err := s.media.UploadMultiple(ctx, slips, media.FolderWeighmentSlips)
		if err != nil {
			return nil, fmt.Errorf("uploading weighment slips: %w", err)
		}

		inv.WeighmentSlipURLs = urls
	}

	if err := s.createNumbered(ctx, inv); err != nil {
		return nil, err
	}

	s.enqueuePDF(ctx, inv.ID)

	return inv, nil
}

// createNumbered allocates a number and inserts. A collision on the number
// (a row written outside the counter, or a reseeded year) is retried once with a
// fresh number; a second collision is reported as a conflict.
func (s *Service) createNumbered(ctx context.Context, inv *Invoice) error {
	year := s.now().Year()

	for attempt := 1; ; attempt++ {
		seq, err := s.repo.NextSequence(ctx, year)
		if err != nil {
			return fmt.Errorf("allocating invoice number: %w", err)
		}

		inv.InvoiceNumber = FormatNumber(year, seq)

		err = s.write(ctx, inv, true)
		if err == nil {
			return nil
		}

		if !errors.Is(err, ErrDuplicateNumber) {
			return err
		}

		if attempt == 2 {
			return fmt.Errorf("%w: invoice number %s already taken", apperr.ErrConflict, inv.InvoiceNumber)
		}

		s.logger.Warn("invoice number collision, retrying", zap.String("invoice_number", inv.InvoiceNumber))
	}
}

// write persists inv and, for claim invoices on a truck, counts the claim, in one transaction.
func (s *Service) write(ctx context.Context, inv *Invoice, create bool) error {
	tx, err := s.repo.BeginWrite(ctx)
	if err != nil {
		return fmt.Errorf("beginning invoice write: %w", err)
	}
	defer tx.Rollback()

	if create {
		err = tx.CreateInvoice(ctx, inv)
	} else {
		err = tx.UpdateInvoice(ctx, inv)
	}

	if err != nil {
		return err
	}

	if inv.IsClaim && inv.TruckID != nil {
		if _, err := tx.OpenClaim(ctx, inv.ID); err != nil {
			return fmt.Errorf("opening claim: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing invoice: %w", err)
	}

	return nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, params UpdateParams, slips []media.File) (*Invoice, error) {
	inv, err := s.repo.GetInvoice(ctx, id)
	if err != nil {
		return nil, err
	}

	if params.TruckNumber != nil && *params.TruckNumber != "" {
		t, err := s.trucks.Resolve(ctx, *params.TruckNumber)
		if err != nil {
			return nil, err
		}

		inv.TruckID = &t.ID
		inv.TruckNumber = t.TruckNumber
	}

	if err := apply(inv, params); err != nil {
		return nil, err
	}

	if len(slips) > 0 {
		urls, err := s.media.UploadMultiple(ctx, slips, media.FolderWeighmentSlips)
		if err != nil {
			return nil, fmt.Errorf("uploading weighment slips: %w", err)
		}

		inv.WeighmentSlipURLs = append(inv.WeighmentSlipURLs, urls...)
	}

	if err := s.write(ctx, inv, false); err != nil {
		return nil, err
	}

	s.enqueuePDF(ctx, inv.ID)

	return inv, nil
}

func apply(inv *Invoice, p UpdateParams) error {
	if p.InvoiceDate != nil {
		d, err := ParseDate(*p.InvoiceDate)
		if err != nil {
			return err
		}

		inv.InvoiceDate = d
	}

	if p.ProductName != nil {
		name, err := ProductName(p.ProductName)
		if err != nil {
			return err
		}

		inv.ProductName = name
	}

	if p.InvoiceType != nil {
		if !p.InvoiceType.Valid() {
			return fmt.Errorf("%w: unknown invoice type %q", apperr.ErrInvalidInput, *p.InvoiceType)
		}

		inv.InvoiceType = *p.InvoiceType
	}

	setString(&inv.Terms, p.Terms)
	setString(&inv.SupplierName, p.SupplierName)
	setString(&inv.PlaceOfSupply, p.PlaceOfSupply)
	setString(&inv.BillToName, p.BillToName)
	setString(&inv.ShipToName, p.ShipToName)
	setString(&inv.HSNCode, p.HSNCode)
	setString(&inv.OwnerName, p.OwnerName)
	setString(&inv.VehicleNumber, p.VehicleNumber)
	setString(&inv.WeighmentSlipNote, p.WeighmentSlipNote)
	setString(&inv.ClaimDetails, p.ClaimDetails)

	if p.SupplierAddress != nil {
		inv.SupplierAddress = p.SupplierAddress
	}

	if p.BillToAddress != nil {
		inv.BillToAddress = p.BillToAddress
	}

	if p.ShipToAddress != nil {
		inv.ShipToAddress = p.ShipToAddress
	}

	setDecimal(&inv.Quantity, p.Quantity)
	setDecimal(&inv.Rate, p.Rate)
	setDecimal(&inv.Amount, p.Amount)
	setDecimal(&inv.PremiumAmount, p.PremiumAmount)

	// A claim flag, once raised, stays: the truck has already been counted.
	if p.IsClaim != nil && *p.IsClaim {
		inv.IsClaim = true
	}

	return nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setDecimal(dst *decimal.Decimal, v *decimal.Decimal) {
	if v != nil {
		*dst = *v
	}
}

func (s *Service) enqueuePDF(ctx context.Context, id uuid.UUID) {
	if err := s.jobs.Enqueue(ctx, QueuePDF, JobGeneratePDF, PDFJob{InvoiceID: id}); err != nil {
		s.logger.Error("failed to enqueue invoice pdf", zap.String("invoice_id", id.String()), zap.Error(err))
	}
}

// RequeuePDF schedules a fresh render, e.g. after a render job exhausted its retries.
func (s *Service) RequeuePDF(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.GetInvoice(ctx, id); err != nil {
		return err
	}

	if err := s.jobs.Enqueue(ctx, QueuePDF, JobGeneratePDF, PDFJob{InvoiceID: id}); err != nil {
		return fmt.Errorf("enqueueing invoice pdf: %w", err)
	}

	return nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Invoice, error) {
	return s.repo.GetInvoice(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]*Invoice, error) {
	return s.repo.ListInvoices(ctx, ListFilter{})
}

func (s *Service) ListByUser(ctx context.Context, userID uuid.UUID) ([]*Invoice, error) {
	return s.repo.ListInvoices(ctx, ListFilter{UserID: &userID})
}

func (s *Service) Filter(ctx context.Context, filter ListFilter) ([]*Invoice, error) {
	return s.repo.ListInvoices(ctx, filter)
}

// ExportList selects the invoices for a spreadsheet export. The caller must name
// the invoices or bound the export by a full date range.
func (s *Service) ExportList(ctx context.Context, filter ExportFilter) ([]*Invoice, error) {
	if len(filter.InvoiceIDs) == 0 && (filter.StartDate == nil || filter.EndDate == nil) {
		return nil, fmt.Errorf("%w: either invoice ids or both start and end dates are required", apperr.ErrInvalidInput)
	}

	return s.repo.ListInvoices(ctx, ListFilter{
		InvoiceType: filter.InvoiceType,
		StartDate:   filter.StartDate,
		EndDate:     filter.EndDate,
		IDs:         filter.InvoiceIDs,
	})
}

func (s *Service) Remove(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteInvoice(ctx, id)
}

func (s *Service) SetPDFURL(ctx context.Context, id uuid.UUID, url string) error {
	return s.repo.UpdatePDFURL(ctx, id, url)
}

func (s *Service) MarkWhatsappSent(ctx context.Context, id uuid.UUID) error {
	return s.repo.MarkWhatsappSent(ctx, id)
}

// SendWhatsapp pushes the rendered PDF to the invoice owner's WhatsApp and records the send.
func (s *Service) SendWhatsapp(ctx context.Context, id uuid.UUID) error {
	if s.messenger == nil {
		return ErrDeliveryDisabled
	}

	inv, err := s.repo.GetInvoice(ctx, id)
	if err != nil {
		return err
	}

	if inv.PDFURL == nil || *inv.PDFURL == "" {
		return ErrPDFNotReady
	}

	if inv.UserID == nil {
		return fmt.Errorf("%w: invoice %s has no user to message", apperr.ErrInvalidInput, inv.InvoiceNumber)
	}

	u, err := s.users.Get(ctx, *inv.UserID)
	if err != nil {
		return err
	}

	if err := s.messenger.SendInvoice(ctx, Delivery{
		Phone:         u.MobileNumber,
		SupplierName:  inv.SupplierName,
		InvoiceNumber: inv.InvoiceNumber,
		PDFURL:        *inv.PDFURL,
	}); err != nil {
		return fmt.Errorf("sending invoice %s on whatsapp: %w", inv.InvoiceNumber, err)
	}

	if err := s.repo.MarkWhatsappSent(ctx, id); err != nil {
		return err
	}

	s.logger.Info("invoice sent on whatsapp", zap.String("invoice_number", inv.InvoiceNumber))

	return nil
}
