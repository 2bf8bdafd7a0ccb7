package invoice

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/mandi/internal/apperr"
	"github.com/MrJamesThe3rd/mandi/internal/http/form"
	"github.com/MrJamesThe3rd/mandi/internal/http/respond"
	"github.com/MrJamesThe3rd/mandi/internal/invoice"
	"github.com/MrJamesThe3rd/mandi/internal/media"
)

const slipField = "weighmentSlips"

//go:generate mockgen -source=handler.go -destination=service_mock.go -package=invoice
type Service interface {
	Create(ctx context.Context, params invoice.CreateParams, slips []media.File) (*invoice.Invoice, error)
	Update(ctx context.Context, id uuid.UUID, params invoice.UpdateParams, slips []media.File) (*invoice.Invoice, error)
	Get(ctx context.Context, id uuid.UUID) (*invoice.Invoice, error)
	List(ctx context.Context) ([]*invoice.Invoice, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*invoice.Invoice, error)
	Filter(ctx context.Context, filter invoice.ListFilter) ([]*invoice.Invoice, error)
	Remove(ctx context.Context, id uuid.UUID) error
	RequeuePDF(ctx context.Context, id uuid.UUID) error
	MarkWhatsappSent(ctx context.Context, id uuid.UUID) error
	SendWhatsapp(ctx context.Context, id uuid.UUID) error
}

type Handler struct {
	svc       Service
	maxUpload int64
}

func NewHandler(svc Service, maxUpload int64) *Handler {
	return &Handler{svc: svc, maxUpload: maxUpload}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/user/{userId}", h.listByUser)
	r.Get("/{id}", h.get)
	r.Patch("/{id}", h.update)
	r.Delete("/{id}", h.delete)
}

func (h *Handler) AdminRoutes(r chi.Router) {
	r.Get("/filter", h.filter)
	r.Post("/{id}/regenerate-pdf", h.regeneratePDF)
	r.Post("/{id}/whatsapp-sent", h.whatsappSent)
	r.Post("/{id}/send-whatsapp", h.sendWhatsapp)
}

var formFields = form.Fields{
	Arrays: map[string]bool{
		"supplierAddress": true,
		"billToAddress":   true,
		"shipToAddress":   true,
		"productName":     true,
	},
	Bools: map[string]bool{"isClaim": true},
}

type createInvoiceRequest struct {
	UserID            uuid.UUID       `json:"userId" validate:"required"`
	InvoiceDate       string          `json:"invoiceDate" validate:"required"`
	Terms             string          `json:"terms"`
	InvoiceType       invoice.Type    `json:"invoiceType" validate:"omitempty,oneof=SUPPLIER_INVOICE BUYER_INVOICE"`
	SupplierName      string          `json:"supplierName" validate:"required"`
	SupplierAddress   form.StringList `json:"supplierAddress" validate:"required,min=1"`
	PlaceOfSupply     string          `json:"placeOfSupply" validate:"required"`
	BillToName        string          `json:"billToName" validate:"required"`
	BillToAddress     form.StringList `json:"billToAddress" validate:"required,min=1"`
	ShipToName        string          `json:"shipToName" validate:"required"`
	ShipToAddress     form.StringList `json:"shipToAddress" validate:"required,min=1"`
	ProductName       form.StringList `json:"productName" validate:"required,min=1"`
	HSNCode           string          `json:"hsnCode"`
	Quantity          decimal.Decimal `json:"quantity"`
	Rate              decimal.Decimal `json:"rate"`
	Amount            decimal.Decimal `json:"amount"`
	PremiumAmount     decimal.Decimal `json:"premiumAmount"`
	TruckNumber       string          `json:"truckNumber"`
	OwnerName         string          `json:"ownerName"`
	VehicleNumber     string          `json:"vehicleNumber"`
	WeighmentSlipNote string          `json:"weighmentSlipNote"`
	IsClaim           bool            `json:"isClaim"`
	ClaimDetails      string          `json:"claimDetails"`
}

func (req createInvoiceRequest) check() error {
	if !req.Quantity.IsPositive() || !req.Rate.IsPositive() || req.Amount.IsNegative() || req.PremiumAmount.IsNegative() {
		return fmt.Errorf("%w: quantity and rate must be positive, amounts must not be negative", apperr.ErrInvalidInput)
	}

	return nil
}

func (req createInvoiceRequest) params() invoice.CreateParams {
	return invoice.CreateParams{
		UserID:            req.UserID,
		InvoiceDate:       req.InvoiceDate,
		Terms:             req.Terms,
		InvoiceType:       req.InvoiceType,
		SupplierName:      req.SupplierName,
		SupplierAddress:   req.SupplierAddress,
		PlaceOfSupply:     req.PlaceOfSupply,
		BillToName:        req.BillToName,
		BillToAddress:     req.BillToAddress,
		ShipToName:        req.ShipToName,
		ShipToAddress:     req.ShipToAddress,
		ProductName:       req.ProductName,
		HSNCode:           req.HSNCode,
		Quantity:          req.Quantity,
		Rate:              req.Rate,
		Amount:            req.Amount,
		PremiumAmount:     req.PremiumAmount,
		TruckNumber:       req.TruckNumber,
		OwnerName:         req.OwnerName,
		VehicleNumber:     req.VehicleNumber,
		WeighmentSlipNote: req.WeighmentSlipNote,
		IsClaim:           req.IsClaim,
		ClaimDetails:      req.ClaimDetails,
	}
}

// decode reads a JSON body, or a multipart form with the slips attached.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v any) ([]media.File, error) {
	if !form.IsMultipart(r) {
		return nil, respond.Decode(r, v)
	}

	if err := form.Parse(w, r, h.maxUpload); err != nil {
		return nil, err
	}

	if err := formFields.Decode(r.MultipartForm.Value, v); err != nil {
		return nil, err
	}

	if err := respond.Validate(v); err != nil {
		return nil, err
	}

	return form.Files(r, slipField)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createInvoiceRequest

	slips, err := h.decode(w, r, &req)
	if err != nil {
		respond.Err(w, r, err)
		return
	}

	if err := req.check(); err != nil {
		respond.Err(w, r, err)
		return
	}

	inv, err := h.svc.Create(r.Context(), req.params(), slips)
	if err != nil {
		respond.Err(w, r, err)
		return
	}

	respond.JSON(w, http.StatusCreated, toResponse(inv))
}

type updateInvoiceRequest struct {
	InvoiceNumber     *string          `json:"invoiceNumber"`
	InvoiceDate       *string          `json:"invoiceDate"`
	Terms             *string          `json:"terms"`
	InvoiceType       *invoice.Type    `json:"invoiceType" validate:"omitempty,oneof=SUPPLIER_INVOICE BUYER_INVOICE"`
	SupplierName      *string          `json:"supplierName" validate:"omitempty,min=1"`
	SupplierAddress   form.StringList  `json:"supplierAddress"`
	PlaceOfSupply     *string          `json:"placeOfSupply"`
	BillToName        *string          `json:"billToName" validate:"omitempty,min=1"`
	BillToAddress     form.StringList  `json:"billToAddress"`
	ShipToName        *string          `json:"shipToName" validate:"omitempty,min=1"`
	ShipToAddress     form.StringList  `json:"shipToAddress"`
	ProductName       form.StringList  `json:"productName"`
	HSNCode           *string          `json:"hsnCode"`
	Quantity          *decimal.Decimal `json:"quantity"`
	Rate              *decimal.Decimal `json:"rate"`
	Amount            *decimal.Decimal `json:"amount"`
	PremiumAmount     *decimal.Decimal `json:"premiumAmount"`
	TruckNumber       *string          `json:"truckNumber"`
	OwnerName         *string          `json:"ownerName"`
	VehicleNumber     *string          `json:"vehicleNumber"`
	WeighmentSlipNote *string          `json:"weighmentSlipNote"`
	IsClaim           *bool            `json:"isClaim"`
	ClaimDetails      *string          `json:"claimDetails"`
}

func (req updateInvoiceRequest) params() invoice.UpdateParams {
	return invoice.UpdateParams{
		InvoiceNumber:     req.InvoiceNumber,
		InvoiceDate:       req.InvoiceDate,
		Terms:             req.Terms,
		InvoiceType:       req.InvoiceType,
		SupplierName:      req.SupplierName,
		SupplierAddress:   req.SupplierAddress,
		PlaceOfSupply:     req.PlaceOfSupply,
		BillToName:        req.BillToName,
		BillToAddress:     req.BillToAddress,
		ShipToName:        req.ShipToName,
		ShipToAddress:     req.ShipToAddress,
		ProductName:       req.ProductName,
		HSNCode:           req.HSNCode,
		Quantity:          req.Quantity,
		Rate:              req.Rate,
		Amount:            req.Amount,
		PremiumAmount:     req.PremiumAmount,
		TruckNumber:       req.TruckNumber,
		OwnerName:         req.OwnerName,
		VehicleNumber:     req.VehicleNumber,
		WeighmentSlipNote: req.WeighmentSlipNote,
		IsClaim:           req.IsClaim,
		ClaimDetails:      req.ClaimDetails,
	}
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := respond.UUIDParam(r, "id")
	if err != nil {
		respond.Err(w, r, err)
		return
	}

	var req updateInvoiceRequest

	slips, err := h.decode(w, r, &req)
	if err != nil {
		respond.Err(w, r, err)
		return
	}

	inv, err := h.svc.Update(r.Context(), id, req.params(), slips)
	if err != nil {
		respond.Err(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(inv))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	invoices, err := h.svc.List(r.Context())
	if err != nil {
		respond.Err(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponseList(invoices))
}

func (h *Handler) listByUser(w http.ResponseWriter, r *http.Request) {
	userID, err := respond.UUIDParam(r, "userId")
	if err != nil {
		respond.Err(w, r, err)
		return
	}

	invoices, err := h.svc.ListByUser(r.Context(), userID)
	if err != nil {
		respond.Err(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponseList(invoices))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := respond.UUIDParam(r, "id")
	if err != nil {
		respond.Err(w, r, err)
		return
	}

	inv, err := h.svc.Get(r.Context(), id)
	if err != nil {
		respond.Err(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(inv))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := respond.UUIDParam(r, "id")
	if err != nil {
		respond.Err(w, r, err)
		return
	}

	if err := h.svc.Remove(r.Context(), id); err != nil {
		respond.Err(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func parseDateParam(r *http.Request, name string) (*time.Time, error) {
	s := r.URL.Query().Get(name)
	if s == "" {
		return nil, nil
	}

	t, err := invoice.ParseDate(s)
	if err != nil {
		return nil, err
	}

	return &t, nil
}

func (h *Handler) filter(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := invoice.ListFilter{
		SupplierName: q.Get("supplierName"),
		BuyerName:    q.Get("buyerName"),
	}

	if s := q.Get("invoiceType"); s != "" {
		t := invoice.Type(s)
		if !t.Valid() {
			respond.Err(w, r, fmt.Errorf("%w: unknown invoice type %q", apperr.ErrInvalidInput, s))
			return
		}

		filter.InvoiceType = &t
	}

	var err error

	if filter.StartDate, err = parseDateParam(r, "startDate"); err != nil {
		respond.Err(w, r, err)
		return
	}

	if filter.EndDate, err = parseDateParam(r, "endDate"); err != nil {
		respond.Err(w, r, err)
		return
	}

	invoices, err := h.svc.Filter(r.Context(), filter)
	if err != nil {
		respond.Err(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponseList(invoices))
}

func (h *Handler) regeneratePDF(w http.ResponseWriter, r *http.Request) {
	id, err := respond.UUIDParam(r, "id")
	if err != nil {
		respond.Err(w, r, err)
		return
	}

	if err := h.svc.RequeuePDF(r.Context(), id); err != nil {
		respond.Err(w, r, err)
		return
	}

	respond.JSON(w, http.StatusAccepted, map[string]string{"message": "PDF regeneration queued"})
}

func (h *Handler) whatsappSent(w http.ResponseWriter, r *http.Request) {
	id, err := respond.UUIDParam(r, "id")
	if err != nil {
		respond.Err(w, r, err)
		return
	}

	if err := h.svc.MarkWhatsappSent(r.Context(), id); err != nil {
		respond.Err(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) sendWhatsapp(w http.ResponseWriter, r *http.Request) {
	id, err := respond.UUIDParam(r, "id")
	if err != nil {
		respond.Err(w, r, err)
		return
	}

	if err := h.svc.SendWhatsapp(r.Context(), id); err != nil {
		respond.Err(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, map[string]string{"message": "Invoice sent on WhatsApp"})
}
