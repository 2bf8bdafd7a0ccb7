package twofactor_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/mandi/internal/auth/twofactor"
)

func newClient(t *testing.T, h http.HandlerFunc) *twofactor.Client {
	t.Helper()

	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c, err := twofactor.New(twofactor.Config{BaseURL: srv.URL, APIKey: "key", Template: "OTP1"})
	require.NoError(t, err)

	return c
}

func TestClient_Send(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/key/SMS/9876543210/AUTOGEN/OTP1", r.URL.Path)
		_, _ = w.Write([]byte(`{"Status":"Success","Details":"sess-123"}`))
	})

	got, err := c.Send(context.Background(), "9876543210")
	require.NoError(t, err)
	assert.Equal(t, "sess-123", got)
}

func TestClient_Send_Rejected(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"Status":"Error","Details":"Invalid Phone Number"}`))
	})

	_, err := c.Send(context.Background(), "1")
	assert.ErrorContains(t, err, "Invalid Phone Number")
}

func TestClient_Verify(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		want    bool
		wantErr bool
	}{
		{name: "Matched", status: http.StatusOK, body: `{"Status":"Success","Details":"OTP Matched"}`, want: true},
		{name: "Mismatch", status: http.StatusBadRequest, body: `{"Status":"Error","Details":"OTP Mismatch"}`},
		{name: "ProviderDown", status: http.StatusBadGateway, body: `{"Status":"Error","Details":"down"}`, wantErr: true},
		{name: "Garbage", status: http.StatusOK, body: `not json`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/key/SMS/VERIFY/sess-123/1234", r.URL.Path)
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			got, err := c.Verify(context.Background(), "sess-123", "1234")
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNew_RequiresKey(t *testing.T) {
	_, err := twofactor.New(twofactor.Config{})
	assert.Error(t, err)
}
