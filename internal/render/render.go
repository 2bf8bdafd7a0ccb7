// Package render holds the queue handlers that turn invoices and damage forms into PDFs.
package render

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/MrJamesThe3rd/mandi/internal/apperr"
	"github.com/MrJamesThe3rd/mandi/internal/claim"
	"github.com/MrJamesThe3rd/mandi/internal/invoice"
	"github.com/MrJamesThe3rd/mandi/internal/media"
	"github.com/MrJamesThe3rd/mandi/internal/pdf"
	"github.com/MrJamesThe3rd/mandi/internal/queue"
)

//go:generate mockgen -source=render.go -destination=render_mock.go -package=render
type Invoices interface {
	Get(ctx context.Context, id uuid.UUID) (*invoice.Invoice, error)
	SetPDFURL(ctx context.Context, id uuid.UUID, url string) error
}

type Claims interface {
	FindOne(ctx context.Context, id uuid.UUID) (*claim.Claim, error)
	SetClaimFormURL(ctx context.Context, id uuid.UUID, url string) error
}

type Renderer interface {
	RenderInvoice(ctx context.Context, data pdf.InvoiceData, slipURLs []string, stampURL string) ([]byte, error)
	RenderDamageCertificate(ctx context.Context, data pdf.DamageCertificateData) ([]byte, error)
}

const displayDate = "02/01/2006"

func upload(ctx context.Context, store media.Store, name, folder string, data []byte) (string, error) {
	url, err := store.Upload(ctx, media.File{Name: name, ContentType: "application/pdf", Data: data}, folder)
	if err != nil {
		return "", fmt.Errorf("uploading %s: %w", name, err)
	}

	return url, nil
}

// renderFailure fails the job for good when the document itself cannot be laid out.
func renderFailure(err error) error {
	if errors.Is(err, pdf.ErrInvalidLayout) {
		return queue.Permanent(err)
	}

	return err
}

type InvoicePDFHandler struct {
	invoices Invoices
	renderer Renderer
	store    media.Store
	stampURL string
	logger   *zap.Logger
	now      func() time.Time
}

func NewInvoicePDFHandler(invoices Invoices, renderer Renderer, store media.Store, stampURL string, logger *zap.Logger) *InvoicePDFHandler {
	return &InvoicePDFHandler{
		invoices: invoices,
		renderer: renderer,
		store:    store,
		stampURL: stampURL,
		logger:   logger.With(zap.String("component", "invoice-pdf")),
		now:      time.Now,
	}
}

func (h *InvoicePDFHandler) Handle(ctx context.Context, j *queue.Job) error {
	var payload invoice.PDFJob
	if err := j.Decode(&payload); err != nil {
		return err
	}

	inv, err := h.invoices.Get(ctx, payload.InvoiceID)
	if errors.Is(err, apperr.ErrNotFound) {
		h.logger.Warn("invoice no longer exists, skipping job", zap.String("invoice_id", payload.InvoiceID.String()))
		return nil
	}

	if err != nil {
		return fmt.Errorf("loading invoice: %w", err)
	}

	doc, err := h.renderer.RenderInvoice(ctx, invoiceData(inv), inv.WeighmentSlipURLs, h.stampURL)
	if err != nil {
		return renderFailure(err)
	}

	name := fmt.Sprintf("invoice-%s-%d.pdf", inv.InvoiceNumber, h.now().UnixMilli())

	url, err := upload(ctx, h.store, name, media.FolderInvoices, doc)
	if err != nil {
		return err
	}

	if err := h.invoices.SetPDFURL(ctx, inv.ID, url); err != nil {
		return fmt.Errorf("saving pdf url: %w", err)
	}

	h.logger.Info("invoice pdf generated",
		zap.String("invoice_id", inv.ID.String()),
		zap.String("invoice_number", inv.InvoiceNumber),
		zap.String("url", url))

	return nil
}

func invoiceData(inv *invoice.Invoice) pdf.InvoiceData {
	return pdf.InvoiceData{
		InvoiceNumber:     inv.InvoiceNumber,
		InvoiceDate:       inv.InvoiceDate,
		Terms:             inv.Terms,
		SupplierName:      inv.SupplierName,
		SupplierAddress:   inv.SupplierAddress,
		PlaceOfSupply:     inv.PlaceOfSupply,
		BillToName:        inv.BillToName,
		BillToAddress:     inv.BillToAddress,
		ShipToName:        inv.ShipToName,
		ShipToAddress:     inv.ShipToAddress,
		ProductName:       inv.ProductName,
		HSNCode:           inv.HSNCode,
		Quantity:          inv.Quantity,
		Rate:              inv.Rate,
		Amount:            inv.Amount,
		VehicleNumber:     inv.Vehicle(),
		WeighmentSlipNote: inv.WeighmentSlipNote,
	}
}

type DamageCertificateHandler struct {
	claims   Claims
	renderer Renderer
	store    media.Store
	logger   *zap.Logger
	now      func() time.Time
}

func NewDamageCertificateHandler(claims Claims, renderer Renderer, store media.Store, logger *zap.Logger) *DamageCertificateHandler {
	return &DamageCertificateHandler{
		claims:   claims,
		renderer: renderer,
		store:    store,
		logger:   logger.With(zap.String("component", "damage-certificate")),
		now:      time.Now,
	}
}

func (h *DamageCertificateHandler) Handle(ctx context.Context, j *queue.Job) error {
	var payload claim.DamageCertificateJob
	if err := j.Decode(&payload); err != nil {
		return err
	}

	c, err := h.claims.FindOne(ctx, payload.ClaimRequestID)
	if errors.Is(err, apperr.ErrNotFound) {
		h.logger.Warn("claim request no longer exists, skipping job", zap.String("claim_id", payload.ClaimRequestID.String()))
		return nil
	}

	if err != nil {
		return fmt.Errorf("loading claim request: %w", err)
	}

	data := certificateData(c, payload)

	doc, err := h.renderer.RenderDamageCertificate(ctx, data)
	if err != nil {
		return renderFailure(err)
	}

	name := fmt.Sprintf("damage-certificate-%s-%d.pdf", data.InvoiceNumber, h.now().UnixMilli())

	url, err := upload(ctx, h.store, name, media.FolderClaimForms, doc)
	if err != nil {
		return err
	}

	if err := h.claims.SetClaimFormURL(ctx, c.ID, url); err != nil {
		return fmt.Errorf("saving claim form url: %w", err)
	}

	h.logger.Info("damage certificate generated",
		zap.String("claim_id", c.ID.String()),
		zap.String("url", url))

	return nil
}

// certificateData merges the submitted form with the claim's current invoice.
// The snapshot in the payload only fills fields the invoice no longer supplies.
func certificateData(c *claim.Claim, p claim.DamageCertificateJob) pdf.DamageCertificateData {
	d := pdf.DamageCertificateData{
		CertificateDate:         p.DamageCertificateDate,
		InvoiceNumber:           p.InvoiceNumber,
		InvoiceDate:             p.InvoiceDate,
		TruckNumber:             p.TruckNumber,
		UserMobileNumber:        p.UserMobileNumber,
		TransportReceiptMemoNo:  p.TransportReceiptMemoNo,
		TransportReceiptDate:    p.TransportReceiptDate,
		LoadedWeightKg:          p.LoadedWeightKg,
		ProductName:             p.ProductName,
		FromParty:               p.FromParty,
		ForParty:                p.ForParty,
		AccidentDate:            p.AccidentDate,
		AccidentLocation:        p.AccidentLocation,
		AccidentDescription:     p.AccidentDescription,
		AgreedAmount:            p.AgreedDamageAmountNumber,
		AgreedAmountWords:       p.AgreedDamageAmountWords,
		AuthorizedSignatoryName: p.AuthorizedSignatoryName,
	}

	inv := c.Invoice
	if inv == nil {
		return d
	}

	d.InvoiceNumber = inv.InvoiceNumber
	d.InvoiceDate = inv.InvoiceDate.Format(displayDate)

	if inv.TruckNumber != "" {
		d.TruckNumber = inv.TruckNumber
	}

	if inv.UserMobile != "" {
		d.UserMobileNumber = inv.UserMobile
	}

	if d.ProductName == "" {
		d.ProductName = inv.ProductName
	}

	return d
}
