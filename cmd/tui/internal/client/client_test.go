package client_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/mandi/cmd/tui/internal/client"
	"github.com/MrJamesThe3rd/mandi/internal/queue"
)

func newClient(t *testing.T, h http.HandlerFunc) *client.Client {
	t.Helper()

	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	return client.New(srv.URL+"/", "admin-token", 5*time.Second)
}

func TestClient_Claims(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/admin/claim-requests", r.URL.Path)
		assert.Equal(t, "Bearer admin-token", r.Header.Get("Authorization"))
		assert.Equal(t, "PENDING", r.URL.Query().Get("status"))
		assert.Equal(t, "MH12", r.URL.Query().Get("truckNumber"))

		_, _ = io.WriteString(w, `[{"id":"`+uuid.NewString()+`","status":"PENDING","supportedMedia":[],
			"invoice":{"invoiceNumber":"INV-2024-000001","truckNumber":"MH12AB1234"}}]`)
	})

	claims, err := c.Claims(context.Background(), "PENDING", "MH12")
	require.NoError(t, err)
	require.Len(t, claims, 1)
	assert.Equal(t, "MH12AB1234", claims[0].Invoice.TruckNumber)
}

func TestClient_UpdateClaimStatus(t *testing.T) {
	id := uuid.New()
	name := "R. Shah"

	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/api/v1/admin/claim-requests/"+id.String()+"/status", r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, map[string]any{"status": "SURVEYOR_ASSIGNED", "surveyorName": "R. Shah"}, body)

		_, _ = io.WriteString(w, `{"id":"`+id.String()+`","status":"SURVEYOR_ASSIGNED"}`)
	})

	got, err := c.UpdateClaimStatus(context.Background(), id, client.StatusUpdate{Status: "SURVEYOR_ASSIGNED", SurveyorName: &name})
	require.NoError(t, err)
	assert.Equal(t, "SURVEYOR_ASSIGNED", got.Status)
}

func TestClient_ErrorBody(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"error":"job not found"}`)
	})

	_, err := c.RetryJob(context.Background(), uuid.New())
	require.Error(t, err)
	assert.True(t, client.IsNotFound(err))
	assert.EqualError(t, err, "api: 404 job not found")
}

func TestClient_Invoices(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/admin/invoices/filter", r.URL.Path)
		assert.Equal(t, "2024-03-01", r.URL.Query().Get("startDate"))
		assert.False(t, r.URL.Query().Has("endDate"))

		_, _ = io.WriteString(w, `[{"invoiceNumber":"INV-2024-000001","amount":"1250.50","pdfUrl":null}]`)
	})

	invoices, err := c.Invoices(context.Background(), time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), time.Time{})
	require.NoError(t, err)
	require.Len(t, invoices, 1)
	assert.Equal(t, "1250.5", invoices[0].Amount.String())
	assert.Nil(t, invoices[0].PDFURL)
}

func TestClient_ExportArchive(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/admin/invoices/export/archive", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, map[string]string{"startDate": "2024-03-01", "endDate": "2024-03-31"}, body)

		w.Header().Set("Content-Type", "application/zip")
		_, _ = io.WriteString(w, "PK\x03\x04")
	})

	data, err := c.ExportArchive(context.Background(),
		time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 3, 31, 23, 59, 59, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, "PK\x03\x04", string(data))
}

func TestClient_Jobs(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "failed", r.URL.Query().Get("status"))
		_, _ = io.WriteString(w, `[{"id":"`+uuid.NewString()+`","queue":"invoice-pdf","jobType":"generate-pdf","status":"failed","attempts":5}]`)
	})

	jobs, err := c.Jobs(context.Background(), "failed")
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, queue.StatusFailed, jobs[0].Status)
	assert.Equal(t, "generate-pdf", jobs[0].Type)
}

func TestClient_SendWhatsapp(t *testing.T) {
	id := uuid.New()

	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/admin/invoices/"+id.String()+"/send-whatsapp", r.URL.Path)

		w.WriteHeader(http.StatusConflict)
		_, _ = io.WriteString(w, `{"error":"conflict: invoice PDF has not been generated yet"}`)
	})

	err := c.SendWhatsapp(context.Background(), id)
	require.Error(t, err)
	assert.False(t, client.IsNotFound(err))
	assert.Contains(t, err.Error(), "409")
}
