// Package client talks to the back-office REST API on behalf of the console.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/mandi/internal/queue"
)

type Claim struct {
	ID              uuid.UUID     `json:"id"`
	InvoiceID       uuid.UUID     `json:"invoiceId"`
	Status          string        `json:"status"`
	SupportedMedia  []string      `json:"supportedMedia"`
	ClaimFormURL    *string       `json:"claimFormUrl"`
	SurveyorName    string        `json:"surveyorName"`
	SurveyorContact string        `json:"surveyorContact"`
	Notes           string        `json:"notes"`
	CreatedAt       time.Time     `json:"createdAt"`
	Invoice         *ClaimInvoice `json:"invoice"`
}

type ClaimInvoice struct {
	InvoiceNumber string `json:"invoiceNumber"`
	InvoiceDate   string `json:"invoiceDate"`
	SupplierName  string `json:"supplierName"`
	TruckNumber   string `json:"truckNumber"`
	UserName      string `json:"userName"`
	UserMobile    string `json:"userMobileNumber"`
}

type StatusUpdate struct {
	Status          string  `json:"status"`
	SurveyorName    *string `json:"surveyorName,omitempty"`
	SurveyorContact *string `json:"surveyorContact,omitempty"`
	Notes           *string `json:"notes,omitempty"`
}

type Invoice struct {
	ID            uuid.UUID       `json:"id"`
	InvoiceNumber string          `json:"invoiceNumber"`
	InvoiceDate   string          `json:"invoiceDate"`
	InvoiceType   string          `json:"invoiceType"`
	SupplierName  string          `json:"supplierName"`
	BillToName    string          `json:"billToName"`
	TruckNumber   string          `json:"truckNumber"`
	Amount        decimal.Decimal `json:"amount"`
	PDFURL        *string         `json:"pdfUrl"`
	IsClaim       bool            `json:"isClaim"`
	WhatsappSent  bool            `json:"whatsappSent"`
}

// Error is a non-2xx answer from the API.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("api: %d %s", e.Status, e.Message)
}

type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// New expects baseURL without the /api/v1 suffix. token must carry the admin role.
func New(baseURL, token string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/") + "/api/v1",
		token:   token,
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	resp, err := c.send(ctx, method, path, query, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if out == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s %s: %w", method, path, err)
	}

	return nil
}

// send returns the response only for 2xx statuses; the caller closes its body.
func (c *Client) send(ctx context.Context, method, path string, query url.Values, body any) (*http.Response, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader

	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encoding request: %w", err)
		}

		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp, nil
	}

	defer resp.Body.Close()

	apiErr := &Error{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}

	var payload struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil && payload.Error != "" {
		apiErr.Message = payload.Error
	}

	return nil, apiErr
}

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

func (c *Client) Claims(ctx context.Context, status, truckNumber string) ([]Claim, error) {
	q := url.Values{}
	if status != "" {
		q.Set("status", status)
	}

	if truckNumber != "" {
		q.Set("truckNumber", truckNumber)
	}

	var claims []Claim
	if err := c.do(ctx, http.MethodGet, "/admin/claim-requests", q, nil, &claims); err != nil {
		return nil, err
	}

	return claims, nil
}

func (c *Client) UpdateClaimStatus(ctx context.Context, id uuid.UUID, upd StatusUpdate) (*Claim, error) {
	var claim Claim
	if err := c.do(ctx, http.MethodPatch, "/admin/claim-requests/"+id.String()+"/status", nil, upd, &claim); err != nil {
		return nil, err
	}

	return &claim, nil
}

// Invoices lists invoices dated within [start, end]. Zero times leave that side open.
func (c *Client) Invoices(ctx context.Context, start, end time.Time) ([]Invoice, error) {
	q := url.Values{}
	if !start.IsZero() {
		q.Set("startDate", start.Format(time.DateOnly))
	}

	if !end.IsZero() {
		q.Set("endDate", end.Format(time.DateOnly))
	}

	var invoices []Invoice
	if err := c.do(ctx, http.MethodGet, "/admin/invoices/filter", q, nil, &invoices); err != nil {
		return nil, err
	}

	return invoices, nil
}

func (c *Client) RegeneratePDF(ctx context.Context, id uuid.UUID) error {
	return c.do(ctx, http.MethodPost, "/admin/invoices/"+id.String()+"/regenerate-pdf", nil, nil, nil)
}

func (c *Client) MarkWhatsappSent(ctx context.Context, id uuid.UUID) error {
	return c.do(ctx, http.MethodPost, "/admin/invoices/"+id.String()+"/whatsapp-sent", nil, nil, nil)
}

// SendWhatsapp asks the API to deliver the invoice PDF to its supplier.
func (c *Client) SendWhatsapp(ctx context.Context, id uuid.UUID) error {
	return c.do(ctx, http.MethodPost, "/admin/invoices/"+id.String()+"/send-whatsapp", nil, nil, nil)
}

// ExportArchive downloads the zip export for invoices dated within [start, end].
func (c *Client) ExportArchive(ctx context.Context, start, end time.Time) ([]byte, error) {
	body := map[string]string{
		"startDate": start.Format(time.DateOnly),
		"endDate":   end.Format(time.DateOnly),
	}

	resp, err := c.send(ctx, http.MethodPost, "/admin/invoices/export/archive", nil, body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading archive: %w", err)
	}

	return data, nil
}

func (c *Client) Jobs(ctx context.Context, status string) ([]*queue.Job, error) {
	q := url.Values{}
	if status != "" {
		q.Set("status", status)
	}

	var jobs []*queue.Job
	if err := c.do(ctx, http.MethodGet, "/admin/jobs", q, nil, &jobs); err != nil {
		return nil, err
	}

	return jobs, nil
}

func (c *Client) RetryJob(ctx context.Context, id uuid.UUID) (*queue.Job, error) {
	var j queue.Job
	if err := c.do(ctx, http.MethodPost, "/admin/jobs/"+id.String()+"/retry", nil, nil, &j); err != nil {
		return nil, err
	}

	return &j, nil
}
