package claim

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/mandi/internal/claim"
)

type claimResponse struct {
	ID              uuid.UUID        `json:"id"`
	InvoiceID       uuid.UUID        `json:"invoiceId"`
	Status          claim.Status     `json:"status"`
	SupportedMedia  []string         `json:"supportedMedia"`
	ClaimFormURL    *string          `json:"claimFormUrl"`
	Description     string           `json:"description,omitempty"`
	ClaimAmount     *decimal.Decimal `json:"claimAmount,omitempty"`
	SurveyorName    string           `json:"surveyorName,omitempty"`
	SurveyorContact string           `json:"surveyorContact,omitempty"`
	Notes           string           `json:"notes,omitempty"`
	CreatedAt       time.Time        `json:"createdAt"`
	UpdatedAt       time.Time        `json:"updatedAt"`
	Invoice         *invoiceResponse `json:"invoice,omitempty"`
}

type invoiceResponse struct {
	ID            uuid.UUID       `json:"id"`
	InvoiceNumber string          `json:"invoiceNumber"`
	InvoiceDate   string          `json:"invoiceDate"`
	SupplierName  string          `json:"supplierName"`
	BillToName    string          `json:"billToName"`
	ProductName   string          `json:"productName"`
	Quantity      decimal.Decimal `json:"quantity"`
	Amount        decimal.Decimal `json:"amount"`
	PDFURL        *string         `json:"pdfUrl"`
	TruckNumber   string          `json:"truckNumber,omitempty"`
	UserID        *uuid.UUID      `json:"userId,omitempty"`
	UserName      string          `json:"userName,omitempty"`
	UserMobile    string          `json:"userMobileNumber,omitempty"`
}

func toResponse(c *claim.Claim) claimResponse {
	resp := claimResponse{
		ID:              c.ID,
		InvoiceID:       c.InvoiceID,
		Status:          c.Status,
		SupportedMedia:  c.SupportedMedia,
		ClaimFormURL:    c.ClaimFormURL,
		Description:     c.Description,
		ClaimAmount:     c.ClaimAmount,
		SurveyorName:    c.SurveyorName,
		SurveyorContact: c.SurveyorContact,
		Notes:           c.Notes,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
	}

	if resp.SupportedMedia == nil {
		resp.SupportedMedia = []string{}
	}

	if inv := c.Invoice; inv != nil {
		resp.Invoice = &invoiceResponse{
			ID:            inv.ID,
			InvoiceNumber: inv.InvoiceNumber,
			InvoiceDate:   inv.InvoiceDate.Format(time.DateOnly),
			SupplierName:  inv.SupplierName,
			BillToName:    inv.BillToName,
			ProductName:   inv.ProductName,
			Quantity:      inv.Quantity,
			Amount:        inv.Amount,
			PDFURL:        inv.PDFURL,
			TruckNumber:   inv.TruckNumber,
			UserID:        inv.UserID,
			UserName:      inv.UserName,
			UserMobile:    inv.UserMobile,
		}
	}

	return resp
}

func toResponseList(claims []*claim.Claim) []claimResponse {
	resp := make([]claimResponse, len(claims))
	for i, c := range claims {
		resp[i] = toResponse(c)
	}

	return resp
}
