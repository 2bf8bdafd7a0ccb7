package claim

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/mandi/internal/apperr"
)

var (
	ErrNotFound       = fmt.Errorf("claim request %w", apperr.ErrNotFound)
	ErrNoInvoice      = fmt.Errorf("invoice for truck %w", apperr.ErrNotFound)
	ErrAlreadyClaimed = fmt.Errorf("%w: claim request already exists for this invoice", apperr.ErrConflict)
)

type Status string

const (
	StatusPending          Status = "PENDING"
	StatusSurveyorAssigned Status = "SURVEYOR_ASSIGNED"
	StatusInProgress       Status = "IN_PROGRESS"
	StatusApproved         Status = "APPROVED"
	StatusRejected         Status = "REJECTED"
	StatusSettled          Status = "SETTLED"
)

var Statuses = []Status{
	StatusPending,
	StatusSurveyorAssigned,
	StatusInProgress,
	StatusApproved,
	StatusRejected,
	StatusSettled,
}

func ParseStatus(s string) (Status, error) {
	for _, st := range Statuses {
		if string(st) == s {
			return st, nil
		}
	}

	return "", fmt.Errorf("%w: unknown claim status %q", apperr.ErrInvalidInput, s)
}

func (s Status) Terminal() bool {
	return s == StatusApproved || s == StatusRejected || s == StatusSettled
}

// Damage certificate render job.
const (
	QueueClaimForm       = "claim-form-pdf"
	JobDamageCertificate = "generate-damage-certificate"
)

type Claim struct {
	ID              uuid.UUID
	InvoiceID       uuid.UUID
	Status          Status
	SupportedMedia  []string
	ClaimFormURL    *string
	Description     string
	ClaimAmount     *decimal.Decimal
	SurveyorName    string
	SurveyorContact string
	Notes           string
	CreatedAt       time.Time
	UpdatedAt       time.Time

	Invoice *Invoice // loaded via JOIN
}

// Invoice is the slice of the claimed invoice that claim views and documents need.
type Invoice struct {
	ID            uuid.UUID
	InvoiceNumber string
	InvoiceDate   time.Time
	SupplierName  string
	BillToName    string
	ProductName   string
	Quantity      decimal.Decimal
	Amount        decimal.Decimal
	PDFURL        *string
	TruckNumber   string
	UserID        *uuid.UUID
	UserName      string
	UserMobile    string
}

// DamageForm holds the fields an operator submits for a damage certificate.
type DamageForm struct {
	DamageCertificateDate    string           `json:"damageCertificateDate"`
	TransportReceiptMemoNo   string           `json:"transportReceiptMemoNo"`
	TransportReceiptDate     string           `json:"transportReceiptDate"`
	LoadedWeightKg           decimal.Decimal  `json:"loadedWeightKg"`
	ProductName              string           `json:"productName"`
	FromParty                string           `json:"fromParty"`
	ForParty                 string           `json:"forParty"`
	AccidentDate             string           `json:"accidentDate"`
	AccidentLocation         string           `json:"accidentLocation"`
	AccidentDescription      string           `json:"accidentDescription"`
	AgreedDamageAmountNumber *decimal.Decimal `json:"agreedDamageAmountNumber,omitempty"`
	AgreedDamageAmountWords  string           `json:"agreedDamageAmountWords,omitempty"`
	AuthorizedSignatoryName  string           `json:"authorizedSignatoryName,omitempty"`
}

// DamageCertificateJob is the queued payload. The invoice fields are a snapshot taken
// at submission; the worker reloads the claim and prefers current values.
type DamageCertificateJob struct {
	ClaimRequestID uuid.UUID `json:"claimRequestId"`
	DamageForm

	InvoiceNumber    string `json:"invoiceNumber,omitempty"`
	InvoiceDate      string `json:"invoiceDate,omitempty"`
	TruckNumber      string `json:"truckNumber,omitempty"`
	UserMobileNumber string `json:"userMobileNumber,omitempty"`
}
