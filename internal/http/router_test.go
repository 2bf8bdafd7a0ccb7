package http_test

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/mandi/internal/auth"
	mandiHttp "github.com/MrJamesThe3rd/mandi/internal/http"
	authHandler "github.com/MrJamesThe3rd/mandi/internal/http/auth"
	"github.com/MrJamesThe3rd/mandi/internal/http/claim"
	"github.com/MrJamesThe3rd/mandi/internal/http/export"
	"github.com/MrJamesThe3rd/mandi/internal/http/invoice"
	"github.com/MrJamesThe3rd/mandi/internal/http/job"
	"github.com/MrJamesThe3rd/mandi/internal/http/truck"
	"github.com/MrJamesThe3rd/mandi/internal/http/vehicle"
	"github.com/MrJamesThe3rd/mandi/internal/queue"
	"github.com/MrJamesThe3rd/mandi/internal/user"
)

type fixture struct {
	router http.Handler
	tokens *auth.Tokens
	jobs   *job.MockService
	trucks *truck.MockService
}

func newFixture(t *testing.T, mediaDir string) fixture {
	ctrl := gomock.NewController(t)
	tokens := auth.NewTokens("router-secret", time.Hour)

	f := fixture{
		tokens: tokens,
		jobs:   job.NewMockService(ctrl),
		trucks: truck.NewMockService(ctrl),
	}

	f.router = mandiHttp.New(mandiHttp.Handlers{
		Invoices: invoice.NewHandler(invoice.NewMockService(ctrl), 1<<20),
		Claims:   claim.NewHandler(claim.NewMockService(ctrl), 1<<20),
		Trucks:   truck.NewHandler(f.trucks, truck.NewMockTracker(ctrl), 1<<20),
		Vehicles: vehicle.NewHandler(vehicle.NewMockService(ctrl)),
		Auth:     authHandler.NewHandler(authHandler.NewMockService(ctrl), auth.Middleware(tokens)),
		Jobs:     job.NewHandler(f.jobs),
		Export:   export.NewHandler(export.NewMockService(ctrl)),
	}, mandiHttp.Options{
		Tokens:         tokens,
		AllowedOrigins: []string{"https://admin.example.com"},
		MediaDir:       mediaDir,
	})

	return f
}

func (f fixture) token(t *testing.T, role user.Role) string {
	tok, err := f.tokens.Issue(&user.User{ID: uuid.New(), Role: role})
	require.NoError(t, err)

	return tok
}

func TestRouter_Health(t *testing.T) {
	f := newFixture(t, "")

	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestRouter_AdminRequiresAdminRole(t *testing.T) {
	f := newFixture(t, "")

	type testCase struct {
		name       string
		role       user.Role
		wantStatus int
	}

	tests := []testCase{
		{name: "NoToken", wantStatus: http.StatusUnauthorized},
		{name: "User", role: user.RoleUser, wantStatus: http.StatusForbidden},
		{name: "Admin", role: user.RoleAdmin, wantStatus: http.StatusOK},
	}

	f.jobs.EXPECT().List(gomock.Any(), gomock.Any()).Return([]*queue.Job{}, nil)

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/jobs", nil)
			if tc.role != "" {
				req.Header.Set("Authorization", "Bearer "+f.token(t, tc.role))
			}

			w := httptest.NewRecorder()
			f.router.ServeHTTP(w, req)

			assert.Equal(t, tc.wantStatus, w.Code)
		})
	}
}

func TestRouter_PublicRoutesNeedNoToken(t *testing.T) {
	f := newFixture(t, "")
	f.trucks.EXPECT().List(gomock.Any()).Return(nil, nil)

	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/trucks", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("Content-Type"))
}

func TestRouter_CORSPreflight(t *testing.T) {
	f := newFixture(t, "")

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/trucks", nil)
	req.Header.Set("Origin", "https://admin.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)

	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	assert.Equal(t, "https://admin.example.com", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouter_ServesLocalMedia(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "invoices"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "invoices", "a.pdf"), []byte("%PDF-1.3"), 0o644))

	f := newFixture(t, dir)

	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/media/invoices/a.pdf", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "%PDF-1.3", w.Body.String())
}
