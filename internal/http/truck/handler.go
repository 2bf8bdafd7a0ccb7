package truck

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/mandi/internal/apperr"
	"github.com/MrJamesThe3rd/mandi/internal/http/form"
	"github.com/MrJamesThe3rd/mandi/internal/http/respond"
	"github.com/MrJamesThe3rd/mandi/internal/tracking"
	"github.com/MrJamesThe3rd/mandi/internal/truck"
	"github.com/MrJamesThe3rd/mandi/internal/truck/register"
)

const registerField = "file"

//go:generate mockgen -source=handler.go -destination=service_mock.go -package=truck
type Service interface {
	List(ctx context.Context) ([]*truck.Truck, error)
	Import(ctx context.Context, rows []truck.Contacts) (*truck.ImportResult, error)
}

type Tracker interface {
	TruckLocation(ctx context.Context, vehicleNumber string) (*tracking.Status, error)
}

type Handler struct {
	svc       Service
	tracker   Tracker
	maxUpload int64
}

func NewHandler(svc Service, tracker Tracker, maxUpload int64) *Handler {
	return &Handler{svc: svc, tracker: tracker, maxUpload: maxUpload}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/track/{vehicleNumber}", h.track)
}

func (h *Handler) AdminRoutes(r chi.Router) {
	r.Post("/import", h.importRegister)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	trucks, err := h.svc.List(r.Context())
	if err != nil {
		respond.Err(w, r, err)
		return
	}

	resp := make([]truckResponse, len(trucks))
	for i, t := range trucks {
		resp[i] = toResponse(t)
	}

	respond.JSON(w, http.StatusOK, resp)
}

// track always answers 200; an unknown or silent vehicle comes back offline.
func (h *Handler) track(w http.ResponseWriter, r *http.Request) {
	status, err := h.tracker.TruckLocation(r.Context(), chi.URLParam(r, "vehicleNumber"))
	if err != nil {
		respond.Err(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, status)
}

func (h *Handler) importRegister(w http.ResponseWriter, r *http.Request) {
	if !form.IsMultipart(r) {
		respond.Err(w, r, fmt.Errorf("%w: multipart/form-data with a %q file is required", apperr.ErrInvalidInput, registerField))
		return
	}

	if err := form.Parse(w, r, h.maxUpload); err != nil {
		respond.Err(w, r, err)
		return
	}

	f, _, err := r.FormFile(registerField)
	if err != nil {
		respond.Err(w, r, fmt.Errorf("%w: %q file is required", apperr.ErrInvalidInput, registerField))
		return
	}
	defer f.Close()

	sheet, err := register.Parse(f)
	if err != nil {
		respond.Err(w, r, err)
		return
	}

	resp := importResponse{Rejected: sheet.Rejected, Charset: sheet.Charset}
	if resp.Rejected == nil {
		resp.Rejected = []register.Rejection{}
	}

	if len(sheet.Rows) > 0 {
		res, err := h.svc.Import(r.Context(), sheet.Rows)
		if err != nil {
			respond.Err(w, r, err)
			return
		}

		resp.Created, resp.Updated = res.Created, res.Updated
	}

	respond.JSON(w, http.StatusOK, resp)
}
