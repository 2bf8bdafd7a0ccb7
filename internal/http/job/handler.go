package job

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/mandi/internal/apperr"
	"github.com/MrJamesThe3rd/mandi/internal/http/respond"
	"github.com/MrJamesThe3rd/mandi/internal/queue"
)

//go:generate mockgen -source=handler.go -destination=service_mock.go -package=job
type Service interface {
	List(ctx context.Context, filter queue.ListFilter) ([]*queue.Job, error)
	Retry(ctx context.Context, id uuid.UUID) (*queue.Job, error)
}

type Handler struct {
	svc Service
}

func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/{id}/retry", h.retry)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := queue.ListFilter{Queue: q.Get("queue")}

	if s := q.Get("status"); s != "" {
		st, err := queue.ParseStatus(s)
		if err != nil {
			respond.Err(w, r, err)
			return
		}

		filter.Status = &st
	}

	if s := q.Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			respond.Err(w, r, fmt.Errorf("%w: limit must be a number", apperr.ErrInvalidInput))
			return
		}

		filter.Limit = n
	}

	jobs, err := h.svc.List(r.Context(), filter)
	if err != nil {
		respond.Err(w, r, err)
		return
	}

	if jobs == nil {
		jobs = []*queue.Job{}
	}

	respond.JSON(w, http.StatusOK, jobs)
}

func (h *Handler) retry(w http.ResponseWriter, r *http.Request) {
	id, err := respond.UUIDParam(r, "id")
	if err != nil {
		respond.Err(w, r, err)
		return
	}

	j, err := h.svc.Retry(r.Context(), id)
	if err != nil {
		respond.Err(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, j)
}
