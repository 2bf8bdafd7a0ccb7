package nominatim_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/mandi/internal/tracking/nominatim"
)

func TestClient_PlaceName(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/reverse", r.URL.Path)
		assert.Equal(t, "19.07", r.URL.Query().Get("lat"))
		assert.Equal(t, "72.87", r.URL.Query().Get("lon"))
		assert.Equal(t, "json", r.URL.Query().Get("format"))
		assert.Equal(t, "test-agent", r.Header.Get("User-Agent"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"display_name":"Bandra, Mumbai, Maharashtra, India"}`))
	}))
	defer srv.Close()

	c := nominatim.New(nominatim.Config{BaseURL: srv.URL + "/", UserAgent: "test-agent"})

	got, err := c.PlaceName(context.Background(), 19.07, 72.87)
	require.NoError(t, err)
	assert.Equal(t, "Bandra, Mumbai, Maharashtra, India", got)
}

func TestClient_PlaceName_Failures(t *testing.T) {
	tests := map[string]http.HandlerFunc{
		"ServerError": func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		},
		"BadBody": func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`<html>`))
		},
		"Slow": func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-time.After(time.Second):
			case <-r.Context().Done():
			}
		},
	}

	for name, h := range tests {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(h)
			defer srv.Close()

			c := nominatim.New(nominatim.Config{BaseURL: srv.URL, Timeout: 50 * time.Millisecond})

			_, err := c.PlaceName(context.Background(), 1, 2)
			assert.Error(t, err)
		})
	}
}
