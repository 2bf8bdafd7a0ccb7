// Package twofactor sends and checks SMS one-time passwords through the 2Factor.in API.
package twofactor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const DefaultBaseURL = "https://2factor.in/API/V1"

type Config struct {
	BaseURL  string
	APIKey   string
	Template string
	Timeout  time.Duration
}

type Client struct {
	cfg  Config
	http *http.Client
}

func New(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("2Factor API key is required")
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

type response struct {
	Status  string `json:"Status"`
	Details string `json:"Details"`
}

func (r response) ok() bool {
	return r.Status == "Success"
}

// Send asks 2Factor to generate and text a code; the returned session id is needed to verify it.
func (c *Client) Send(ctx context.Context, mobile string) (string, error) {
	path := []string{c.cfg.APIKey, "SMS", mobile, "AUTOGEN"}
	if c.cfg.Template != "" {
		path = append(path, c.cfg.Template)
	}

	resp, err := c.get(ctx, path...)
	if err != nil {
		return "", err
	}

	if !resp.ok() {
		return "", fmt.Errorf("2factor send failed: %s", resp.Details)
	}

	return resp.Details, nil
}

// Verify reports whether code matches the session. A mismatch is not an error.
func (c *Client) Verify(ctx context.Context, sessionID, code string) (bool, error) {
	resp, err := c.get(ctx, c.cfg.APIKey, "SMS", "VERIFY", sessionID, code)
	if err != nil {
		return false, err
	}

	return resp.ok(), nil
}

func (c *Client) get(ctx context.Context, segments ...string) (response, error) {
	escaped := make([]string, len(segments))
	for i, s := range segments {
		escaped[i] = url.PathEscape(s)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+"/"+strings.Join(escaped, "/"), nil)
	if err != nil {
		return response{}, fmt.Errorf("building 2factor request: %w", err)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return response{}, fmt.Errorf("calling 2factor: %w", err)
	}
	defer res.Body.Close()

	// 2Factor reports failures in the body, sometimes with a 4xx status.
	var body response
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return response{}, fmt.Errorf("decoding 2factor response (status %d): %w", res.StatusCode, err)
	}

	if res.StatusCode >= http.StatusInternalServerError {
		return response{}, fmt.Errorf("2factor returned status %d: %s", res.StatusCode, body.Details)
	}

	return body, nil
}
