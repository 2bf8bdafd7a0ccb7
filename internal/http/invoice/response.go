package invoice

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/mandi/internal/invoice"
)

type invoiceResponse struct {
	ID                uuid.UUID       `json:"id"`
	InvoiceNumber     string          `json:"invoiceNumber"`
	InvoiceDate       string          `json:"invoiceDate"`
	Terms             string          `json:"terms"`
	InvoiceType       invoice.Type    `json:"invoiceType"`
	SupplierName      string          `json:"supplierName"`
	SupplierAddress   []string        `json:"supplierAddress"`
	PlaceOfSupply     string          `json:"placeOfSupply"`
	BillToName        string          `json:"billToName"`
	BillToAddress     []string        `json:"billToAddress"`
	ShipToName        string          `json:"shipToName"`
	ShipToAddress     []string        `json:"shipToAddress"`
	ProductName       string          `json:"productName"`
	HSNCode           string          `json:"hsnCode,omitempty"`
	Quantity          decimal.Decimal `json:"quantity"`
	Rate              decimal.Decimal `json:"rate"`
	Amount            decimal.Decimal `json:"amount"`
	PremiumAmount     decimal.Decimal `json:"premiumAmount"`
	UserID            *uuid.UUID      `json:"userId"`
	TruckID           *uuid.UUID      `json:"truckId"`
	TruckNumber       string          `json:"truckNumber,omitempty"`
	OwnerName         string          `json:"ownerName,omitempty"`
	VehicleNumber     string          `json:"vehicleNumber,omitempty"`
	WeighmentSlipNote string          `json:"weighmentSlipNote,omitempty"`
	WeighmentSlipURLs []string        `json:"weighmentSlipUrls"`
	IsClaim           bool            `json:"isClaim"`
	ClaimDetails      string          `json:"claimDetails,omitempty"`
	PDFURL            *string         `json:"pdfUrl"`
	IsVerified        bool            `json:"isVerified"`
	VerifiedAt        *time.Time      `json:"verifiedAt,omitempty"`
	WhatsappSent      bool            `json:"whatsappSent"`
	WhatsappSentAt    *time.Time      `json:"whatsappSentAt,omitempty"`
	CreatedAt         time.Time       `json:"createdAt"`
	UpdatedAt         time.Time       `json:"updatedAt"`
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}

	return s
}

func toResponse(inv *invoice.Invoice) invoiceResponse {
	return invoiceResponse{
		ID:                inv.ID,
		InvoiceNumber:     inv.InvoiceNumber,
		InvoiceDate:       inv.InvoiceDate.Format(time.DateOnly),
		Terms:             inv.Terms,
		InvoiceType:       inv.InvoiceType,
		SupplierName:      inv.SupplierName,
		SupplierAddress:   orEmpty(inv.SupplierAddress),
		PlaceOfSupply:     inv.PlaceOfSupply,
		BillToName:        inv.BillToName,
		BillToAddress:     orEmpty(inv.BillToAddress),
		ShipToName:        inv.ShipToName,
		ShipToAddress:     orEmpty(inv.ShipToAddress),
		ProductName:       inv.ProductName,
		HSNCode:           inv.HSNCode,
		Quantity:          inv.Quantity,
		Rate:              inv.Rate,
		Amount:            inv.Amount,
		PremiumAmount:     inv.PremiumAmount,
		UserID:            inv.UserID,
		TruckID:           inv.TruckID,
		TruckNumber:       inv.TruckNumber,
		OwnerName:         inv.OwnerName,
		VehicleNumber:     inv.VehicleNumber,
		WeighmentSlipNote: inv.WeighmentSlipNote,
		WeighmentSlipURLs: orEmpty(inv.WeighmentSlipURLs),
		IsClaim:           inv.IsClaim,
		ClaimDetails:      inv.ClaimDetails,
		PDFURL:            inv.PDFURL,
		IsVerified:        inv.IsVerified,
		VerifiedAt:        inv.VerifiedAt,
		WhatsappSent:      inv.WhatsappSent,
		WhatsappSentAt:    inv.WhatsappSentAt,
		CreatedAt:         inv.CreatedAt,
		UpdatedAt:         inv.UpdatedAt,
	}
}

func toResponseList(invoices []*invoice.Invoice) []invoiceResponse {
	resp := make([]invoiceResponse, len(invoices))
	for i, inv := range invoices {
		resp[i] = toResponse(inv)
	}

	return resp
}
