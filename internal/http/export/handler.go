package export

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/mandi/internal/apperr"
	"github.com/MrJamesThe3rd/mandi/internal/http/respond"
	"github.com/MrJamesThe3rd/mandi/internal/invoice"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

//go:generate mockgen -source=handler.go -destination=service_mock.go -package=export
type Service interface {
	Spreadsheet(ctx context.Context, filter invoice.ExportFilter) ([]byte, error)
	Archive(ctx context.Context, filter invoice.ExportFilter, w io.Writer) error
}

type Handler struct {
	svc Service
	now func() time.Time
}

func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc, now: time.Now}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.spreadsheet)
	r.Post("/archive", h.archive)
}

type exportRequest struct {
	InvoiceIDs  []uuid.UUID   `json:"invoiceIds"`
	StartDate   string        `json:"startDate"`
	EndDate     string        `json:"endDate"`
	InvoiceType *invoice.Type `json:"invoiceType"`
}

func (req exportRequest) filter() (invoice.ExportFilter, error) {
	f := invoice.ExportFilter{InvoiceIDs: req.InvoiceIDs, InvoiceType: req.InvoiceType}

	if f.InvoiceType != nil && !f.InvoiceType.Valid() {
		return f, fmt.Errorf("%w: unknown invoice type %q", apperr.ErrInvalidInput, *f.InvoiceType)
	}

	for _, d := range []struct {
		raw string
		dst **time.Time
	}{
		{req.StartDate, &f.StartDate},
		{req.EndDate, &f.EndDate},
	} {
		if d.raw == "" {
			continue
		}

		t, err := invoice.ParseDate(d.raw)
		if err != nil {
			return f, err
		}

		*d.dst = &t
	}

	return f, nil
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request) (invoice.ExportFilter, bool) {
	var req exportRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Err(w, r, err)
		return invoice.ExportFilter{}, false
	}

	f, err := req.filter()
	if err != nil {
		respond.Err(w, r, err)
		return f, false
	}

	return f, true
}

func (h *Handler) spreadsheet(w http.ResponseWriter, r *http.Request) {
	f, ok := h.decode(w, r)
	if !ok {
		return
	}

	data, err := h.svc.Spreadsheet(r.Context(), f)
	if err != nil {
		respond.Err(w, r, err)
		return
	}

	h.attachment(w, xlsxContentType, "xlsx", data)
}

// archive buffers the zip so a failed PDF download still yields a JSON error.
func (h *Handler) archive(w http.ResponseWriter, r *http.Request) {
	f, ok := h.decode(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := h.svc.Archive(r.Context(), f, &buf); err != nil {
		respond.Err(w, r, err)
		return
	}

	h.attachment(w, "application/zip", "zip", buf.Bytes())
}

func (h *Handler) attachment(w http.ResponseWriter, contentType, ext string, data []byte) {
	name := fmt.Sprintf("invoices-%s.%s", h.now().Format("20060102-150405"), ext)

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
