package invoice

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/mandi/internal/apperr"
)

var (
	ErrNotFound = fmt.Errorf("invoice %w", apperr.ErrNotFound)
	// ErrDuplicateNumber is returned by the store when an insert collides on invoice_number.
	ErrDuplicateNumber = errors.New("duplicate invoice number")

	ErrPDFNotReady      = fmt.Errorf("%w: invoice PDF has not been generated yet", apperr.ErrConflict)
	ErrDeliveryDisabled = fmt.Errorf("%w: WhatsApp delivery is not configured", apperr.ErrConflict)
)

type Type string

const (
	TypeSupplier Type = "SUPPLIER_INVOICE"
	TypeBuyer    Type = "BUYER_INVOICE"
)

func (t Type) Valid() bool {
	return t == TypeSupplier || t == TypeBuyer
}

const DefaultTerms = "CUSTOM"

// Render job handed to the PDF workers after every create or update.
const (
	QueuePDF       = "invoice-pdf"
	JobGeneratePDF = "generate-pdf"
)

// Delivery is what the supplier receives when an invoice goes out on WhatsApp.
type Delivery struct {
	Phone         string
	SupplierName  string
	InvoiceNumber string
	PDFURL        string
}

type PDFJob struct {
	InvoiceID uuid.UUID `json:"invoiceId"`
}

type Invoice struct {
	ID                uuid.UUID
	InvoiceNumber     string
	InvoiceDate       time.Time
	Terms             string
	InvoiceType       Type
	SupplierName      string
	SupplierAddress   []string
	PlaceOfSupply     string
	BillToName        string
	BillToAddress     []string
	ShipToName        string
	ShipToAddress     []string
	ProductName       string
	HSNCode           string
	Quantity          decimal.Decimal
	Rate              decimal.Decimal
	Amount            decimal.Decimal
	PremiumAmount     decimal.Decimal
	UserID            *uuid.UUID
	TruckID           *uuid.UUID
	TruckNumber       string // loaded via JOIN
	OwnerName         string
	VehicleNumber     string
	WeighmentSlipNote string
	WeighmentSlipURLs []string
	IsClaim           bool
	ClaimDetails      string
	PDFURL            *string
	IsVerified        bool
	VerifiedAt        *time.Time
	WhatsappSent      bool
	WhatsappSentAt    *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Vehicle is the registration printed on documents: the linked truck when there is one,
// otherwise the free-text vehicle number.
func (i *Invoice) Vehicle() string {
	if i.TruckNumber != "" {
		return i.TruckNumber
	}

	return i.VehicleNumber
}
