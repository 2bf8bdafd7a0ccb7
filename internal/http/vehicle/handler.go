package vehicle

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/mandi/internal/http/respond"
	"github.com/MrJamesThe3rd/mandi/internal/vehicle"
)

//go:generate mockgen -source=handler.go -destination=service_mock.go -package=vehicle
type Service interface {
	Upsert(ctx context.Context, in vehicle.UpsertInput) (*vehicle.Condition, error)
	Verify(ctx context.Context, number string) (*vehicle.Verification, error)
	WhatsappMessage(ctx context.Context, number string) (string, error)
}

type Handler struct {
	svc Service
}

func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.upsert)
	r.Get("/{vehicleNumber}/verify", h.verify)
	r.Get("/{vehicleNumber}/whatsapp", h.whatsapp)
}

// Checks are pointers so that an omitted check fails validation instead of reading as false.
type upsertRequest struct {
	VehicleNumber    string `json:"vehicleNumber" validate:"required"`
	PermitStatus     *bool  `json:"permitStatus" validate:"required"`
	DriverLicense    *bool  `json:"driverLicense" validate:"required"`
	VehicleCondition *bool  `json:"vehicleCondition" validate:"required"`
	ChallanClear     *bool  `json:"challanClear" validate:"required"`
	EMIClear         *bool  `json:"emiClear" validate:"required"`
	FitnessClear     *bool  `json:"fitnessClear" validate:"required"`
}

type conditionResponse struct {
	ID               uuid.UUID `json:"id"`
	VehicleNumber    string    `json:"vehicleNumber"`
	PermitStatus     bool      `json:"permitStatus"`
	DriverLicense    bool      `json:"driverLicense"`
	VehicleCondition bool      `json:"vehicleCondition"`
	ChallanClear     bool      `json:"challanClear"`
	EMIClear         bool      `json:"emiClear"`
	FitnessClear     bool      `json:"fitnessClear"`
	Passed           bool      `json:"passed"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

func (h *Handler) upsert(w http.ResponseWriter, r *http.Request) {
	var req upsertRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Err(w, r, err)
		return
	}

	c, err := h.svc.Upsert(r.Context(), vehicle.UpsertInput{
		VehicleNumber:    req.VehicleNumber,
		PermitStatus:     *req.PermitStatus,
		DriverLicense:    *req.DriverLicense,
		VehicleCondition: *req.VehicleCondition,
		ChallanClear:     *req.ChallanClear,
		EMIClear:         *req.EMIClear,
		FitnessClear:     *req.FitnessClear,
	})
	if err != nil {
		respond.Err(w, r, err)
		return
	}

	respond.JSON(w, http.StatusCreated, conditionResponse{
		ID:               c.ID,
		VehicleNumber:    c.VehicleNumber,
		PermitStatus:     c.PermitStatus,
		DriverLicense:    c.DriverLicense,
		VehicleCondition: c.VehicleCondition,
		ChallanClear:     c.ChallanClear,
		EMIClear:         c.EMIClear,
		FitnessClear:     c.FitnessClear,
		Passed:           c.Passed(),
		CreatedAt:        c.CreatedAt,
		UpdatedAt:        c.UpdatedAt,
	})
}

func (h *Handler) verify(w http.ResponseWriter, r *http.Request) {
	v, err := h.svc.Verify(r.Context(), chi.URLParam(r, "vehicleNumber"))
	if err != nil {
		respond.Err(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, v)
}

func (h *Handler) whatsapp(w http.ResponseWriter, r *http.Request) {
	number := chi.URLParam(r, "vehicleNumber")

	msg, err := h.svc.WhatsappMessage(r.Context(), number)
	if err != nil {
		respond.Err(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, map[string]string{
		"vehicleNumber": number,
		"message":       msg,
	})
}
