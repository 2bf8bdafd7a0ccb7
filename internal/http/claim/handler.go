package claim

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/mandi/internal/apperr"
	"github.com/MrJamesThe3rd/mandi/internal/claim"
	"github.com/MrJamesThe3rd/mandi/internal/http/form"
	"github.com/MrJamesThe3rd/mandi/internal/http/respond"
	"github.com/MrJamesThe3rd/mandi/internal/media"
)

const mediaField = "files"

//go:generate mockgen -source=handler.go -destination=service_mock.go -package=claim
type Service interface {
	CreateByTruck(ctx context.Context, truckNumber string) (*claim.Claim, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, upd claim.StatusUpdate) (*claim.Claim, error)
	UploadSupportingMedia(ctx context.Context, id uuid.UUID, files []media.File) (*claim.Claim, error)
	SubmitDamageForm(ctx context.Context, id uuid.UUID, df claim.DamageForm) error
	FindAll(ctx context.Context, filter claim.ListFilter) ([]*claim.Claim, error)
	FindOne(ctx context.Context, id uuid.UUID) (*claim.Claim, error)
	FindByStatus(ctx context.Context, status string) ([]*claim.Claim, error)
	FindByUser(ctx context.Context, userID uuid.UUID) ([]*claim.Claim, error)
}

type Handler struct {
	svc       Service
	maxUpload int64
}

func NewHandler(svc Service, maxUpload int64) *Handler {
	return &Handler{svc: svc, maxUpload: maxUpload}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/by-truck", h.createByTruck)
	r.Get("/user/{userId}", h.listByUser)
	r.Get("/{id}", h.get)
	r.Post("/{id}/supporting-media", h.uploadMedia)
	r.Post("/{id}/damage-form", h.damageForm)
}

func (h *Handler) AdminRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/status/{status}", h.listByStatus)
	r.Patch("/{id}/status", h.updateStatus)
}

type createByTruckRequest struct {
	TruckNumber string `json:"truckNumber" validate:"required"`
}

func (h *Handler) createByTruck(w http.ResponseWriter, r *http.Request) {
	var req createByTruckRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Err(w, r, err)
		return
	}

	c, err := h.svc.CreateByTruck(r.Context(), req.TruckNumber)
	if err != nil {
		respond.Err(w, r, err)
		return
	}

	respond.JSON(w, http.StatusCreated, toResponse(c))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := claim.ListFilter{TruckNumber: q.Get("truckNumber")}

	if s := q.Get("status"); s != "" {
		st, err := claim.ParseStatus(s)
		if err != nil {
			respond.Err(w, r, err)
			return
		}

		filter.Status = &st
	}

	if s := q.Get("invoiceId"); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			respond.Err(w, r, fmt.Errorf("%w: invalid invoiceId", apperr.ErrInvalidInput))
			return
		}

		filter.InvoiceID = &id
	}

	claims, err := h.svc.FindAll(r.Context(), filter)
	if err != nil {
		respond.Err(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponseList(claims))
}

func (h *Handler) listByStatus(w http.ResponseWriter, r *http.Request) {
	claims, err := h.svc.FindByStatus(r.Context(), chi.URLParam(r, "status"))
	if err != nil {
		respond.Err(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponseList(claims))
}

func (h *Handler) listByUser(w http.ResponseWriter, r *http.Request) {
	userID, err := respond.UUIDParam(r, "userId")
	if err != nil {
		respond.Err(w, r, err)
		return
	}

	claims, err := h.svc.FindByUser(r.Context(), userID)
	if err != nil {
		respond.Err(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponseList(claims))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := respond.UUIDParam(r, "id")
	if err != nil {
		respond.Err(w, r, err)
		return
	}

	c, err := h.svc.FindOne(r.Context(), id)
	if err != nil {
		respond.Err(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(c))
}

type updateStatusRequest struct {
	Status          string  `json:"status" validate:"required"`
	SurveyorName    *string `json:"surveyorName"`
	SurveyorContact *string `json:"surveyorContact"`
	Notes           *string `json:"notes"`
}

func (h *Handler) updateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := respond.UUIDParam(r, "id")
	if err != nil {
		respond.Err(w, r, err)
		return
	}

	var req updateStatusRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Err(w, r, err)
		return
	}

	c, err := h.svc.UpdateStatus(r.Context(), id, claim.StatusUpdate{
		Status:          req.Status,
		SurveyorName:    req.SurveyorName,
		SurveyorContact: req.SurveyorContact,
		Notes:           req.Notes,
	})
	if err != nil {
		respond.Err(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(c))
}

func (h *Handler) uploadMedia(w http.ResponseWriter, r *http.Request) {
	id, err := respond.UUIDParam(r, "id")
	if err != nil {
		respond.Err(w, r, err)
		return
	}

	if !form.IsMultipart(r) {
		respond.Err(w, r, fmt.Errorf("%w: multipart/form-data with %q files is required", apperr.ErrInvalidInput, mediaField))
		return
	}

	if err := form.Parse(w, r, h.maxUpload); err != nil {
		respond.Err(w, r, err)
		return
	}

	files, err := form.Files(r, mediaField)
	if err != nil {
		respond.Err(w, r, err)
		return
	}

	c, err := h.svc.UploadSupportingMedia(r.Context(), id, files)
	if err != nil {
		respond.Err(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(c))
}

type damageFormRequest struct {
	DamageCertificateDate    string           `json:"damageCertificateDate" validate:"required"`
	TransportReceiptMemoNo   string           `json:"transportReceiptMemoNo" validate:"required"`
	TransportReceiptDate     string           `json:"transportReceiptDate" validate:"required"`
	LoadedWeightKg           decimal.Decimal  `json:"loadedWeightKg"`
	ProductName              string           `json:"productName" validate:"required"`
	FromParty                string           `json:"fromParty" validate:"required"`
	ForParty                 string           `json:"forParty" validate:"required"`
	AccidentDate             string           `json:"accidentDate" validate:"required"`
	AccidentLocation         string           `json:"accidentLocation" validate:"required"`
	AccidentDescription      string           `json:"accidentDescription" validate:"required"`
	AgreedDamageAmountNumber *decimal.Decimal `json:"agreedDamageAmountNumber"`
	AgreedDamageAmountWords  string           `json:"agreedDamageAmountWords"`
	AuthorizedSignatoryName  string           `json:"authorizedSignatoryName"`
}

func (h *Handler) damageForm(w http.ResponseWriter, r *http.Request) {
	id, err := respond.UUIDParam(r, "id")
	if err != nil {
		respond.Err(w, r, err)
		return
	}

	var req damageFormRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Err(w, r, err)
		return
	}

	if !req.LoadedWeightKg.IsPositive() {
		respond.Err(w, r, fmt.Errorf("%w: loadedWeightKg must be positive", apperr.ErrInvalidInput))
		return
	}

	err = h.svc.SubmitDamageForm(r.Context(), id, claim.DamageForm{
		DamageCertificateDate:    req.DamageCertificateDate,
		TransportReceiptMemoNo:   req.TransportReceiptMemoNo,
		TransportReceiptDate:     req.TransportReceiptDate,
		LoadedWeightKg:           req.LoadedWeightKg,
		ProductName:              req.ProductName,
		FromParty:                req.FromParty,
		ForParty:                 req.ForParty,
		AccidentDate:             req.AccidentDate,
		AccidentLocation:         req.AccidentLocation,
		AccidentDescription:      req.AccidentDescription,
		AgreedDamageAmountNumber: req.AgreedDamageAmountNumber,
		AgreedDamageAmountWords:  req.AgreedDamageAmountWords,
		AuthorizedSignatoryName:  req.AuthorizedSignatoryName,
	})
	if err != nil {
		respond.Err(w, r, err)
		return
	}

	respond.JSON(w, http.StatusAccepted, map[string]string{
		"message": "Damage certificate generation queued",
	})
}
