// Package chatrace delivers invoices through a Chatrace WhatsApp flow.
package chatrace

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/MrJamesThe3rd/mandi/internal/invoice"
)

const DefaultBaseURL = "https://api.chatrace.com"

type Config struct {
	BaseURL string
	APIKey  string
	FlowID  int64
	Timeout time.Duration
}

type Client struct {
	cfg  Config
	http *http.Client
}

func New(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("chatrace API key is required")
	}

	if cfg.FlowID == 0 {
		return nil, errors.New("chatrace flow id is required")
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}

	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}

	return &Client{cfg: cfg, http: &http.Client{Timeout: cfg.Timeout}}, nil
}

type action struct {
	Action    string `json:"action"`
	FieldName string `json:"field_name,omitempty"`
	Value     string `json:"value,omitempty"`
	FlowID    int64  `json:"flow_id,omitempty"`
}

type contact struct {
	Phone     string   `json:"phone"`
	FirstName string   `json:"first_name"`
	LastName  string   `json:"last_name"`
	Gender    string   `json:"gender"`
	Actions   []action `json:"actions"`
}

// SendInvoice upserts the supplier as a Chatrace contact, fills the invoice fields and starts the flow.
func (c *Client) SendInvoice(ctx context.Context, d invoice.Delivery) error {
	body, err := json.Marshal(payload(d, c.cfg.FlowID))
	if err != nil {
		return fmt.Errorf("encoding chatrace payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/users", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building chatrace request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-ACCESS-TOKEN", c.cfg.APIKey)

	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("calling chatrace: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode >= http.StatusBadRequest {
		msg, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return fmt.Errorf("chatrace returned status %d: %s", res.StatusCode, strings.TrimSpace(string(msg)))
	}

	return nil
}

func payload(d invoice.Delivery, flowID int64) contact {
	supplier := strings.TrimSpace(d.SupplierName)
	if supplier == "" {
		supplier = "Customer"
	}

	return contact{
		Phone:     phone(d.Phone),
		FirstName: supplier,
		Gender:    "male",
		Actions: []action{
			{Action: "set_field_value", FieldName: "supplier_name", Value: supplier},
			{Action: "set_field_value", FieldName: "invoice_number", Value: strings.TrimSpace(d.InvoiceNumber)},
			{Action: "set_field_value", FieldName: "invoice_pdf", Value: strings.TrimSpace(d.PDFURL)},
			{Action: "send_flow", FlowID: flowID},
		},
	}
}

// phone adds the India country code Chatrace expects.
func phone(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "+") {
		return raw
	}

	return "+91" + raw
}
