package truck_test

import (
	"bytes"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	handler "github.com/MrJamesThe3rd/mandi/internal/http/truck"
	"github.com/MrJamesThe3rd/mandi/internal/tracking"
	"github.com/MrJamesThe3rd/mandi/internal/truck"
)

type mocks struct {
	svc     *handler.MockService
	tracker *handler.MockTracker
}

func newRouter(t *testing.T) (http.Handler, mocks) {
	ctrl := gomock.NewController(t)
	m := mocks{
		svc:     handler.NewMockService(ctrl),
		tracker: handler.NewMockTracker(ctrl),
	}

	h := handler.NewHandler(m.svc, m.tracker, 1<<20)

	r := chi.NewRouter()
	r.Route("/trucks", h.Routes)
	r.Route("/admin/trucks", h.AdminRoutes)

	return r, m
}

func TestHandler_List(t *testing.T) {
	router, m := newRouter(t)
	m.svc.EXPECT().List(gomock.Any()).Return([]*truck.Truck{
		{ID: uuid.New(), TruckNumber: "MH12AB1234", OwnerName: "Unknown", ClaimCount: 2},
	}, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/trucks", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"truckNumber":"MH12AB1234"`)
	assert.Contains(t, w.Body.String(), `"hasClaims":true`)
}

func TestHandler_Track(t *testing.T) {
	type testCase struct {
		name       string
		setupMock  func(m mocks)
		wantStatus int
		wantBody   string
	}

	tests := []testCase{
		{
			name: "Online",
			setupMock: func(m mocks) {
				m.tracker.EXPECT().TruckLocation(gomock.Any(), "MH12AB1234").Return(&tracking.Status{
					VehicleNumber: "MH12AB1234",
					Status:        tracking.StatusOnline,
					Location:      &tracking.LocationView{Lat: 23.1, Lng: 72.5},
				}, nil)
			},
			wantStatus: http.StatusOK,
			wantBody:   `"status":"online"`,
		},
		{
			name: "UnknownVehicleIsOffline",
			setupMock: func(m mocks) {
				m.tracker.EXPECT().TruckLocation(gomock.Any(), "MH12AB1234").Return(&tracking.Status{
					VehicleNumber: "MH12AB1234",
					Status:        tracking.StatusOffline,
					Message:       "Vehicle not found",
				}, nil)
			},
			wantStatus: http.StatusOK,
			wantBody:   `"location":null`,
		},
		{
			name: "ProviderFailure",
			setupMock: func(m mocks) {
				m.tracker.EXPECT().TruckLocation(gomock.Any(), "MH12AB1234").Return(nil, errors.New("rtdb down"))
			},
			wantStatus: http.StatusInternalServerError,
			wantBody:   `"error":"rtdb down"`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			router, m := newRouter(t)
			tc.setupMock(m)

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/trucks/track/MH12AB1234", nil))

			assert.Equal(t, tc.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), tc.wantBody)
		})
	}
}

func multipartBody(t *testing.T, field, content string) (*bytes.Buffer, string) {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	fw, err := mw.CreateFormFile(field, "register.csv")
	require.NoError(t, err)
	_, err = fw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	return &body, mw.FormDataContentType()
}

func TestHandler_ImportRegister(t *testing.T) {
	type testCase struct {
		name        string
		field       string
		content     string
		contentType string
		setupMock   func(m mocks)
		wantStatus  int
		wantBody    []string
	}

	tests := []testCase{
		{
			name:    "ImportsValidRowsAndReportsRejected",
			field:   "file",
			content: "Truck Number,Owner Name,Owner Mobile\nMH12AB1234,Sandeep,9876543210\nGJ01XY9,Mohan,123\n",
			setupMock: func(m mocks) {
				m.svc.EXPECT().Import(gomock.Any(), []truck.Contacts{
					{TruckNumber: "MH12AB1234", OwnerName: "Sandeep", OwnerContactNumber: "9876543210"},
				}).Return(&truck.ImportResult{Created: 1}, nil)
			},
			wantStatus: http.StatusOK,
			wantBody: []string{
				`"created":1`,
				`"updated":0`,
				`"rejected":[{"line":3,"truckNumber":"GJ01XY9","reason":"invalid owner contact \"123\""}]`,
				`"charset":"UTF-8"`,
			},
		},
		{
			name:       "OnlyRejectedRowsSkipsService",
			field:      "file",
			content:    "Truck Number,Driver Mobile\nMH12AB1234,abc\n",
			setupMock:  func(m mocks) {},
			wantStatus: http.StatusOK,
			wantBody:   []string{`"created":0`, `"line":2`},
		},
		{
			name:       "NoTruckColumn",
			field:      "file",
			content:    "Name,Phone\nRavi,9876543210\n",
			setupMock:  func(m mocks) {},
			wantStatus: http.StatusBadRequest,
			wantBody:   []string{"no truck number column"},
		},
		{
			name:       "MissingFile",
			field:      "other",
			content:    "Truck Number\nMH12AB1234\n",
			setupMock:  func(m mocks) {},
			wantStatus: http.StatusBadRequest,
			wantBody:   []string{`\"file\" file is required`},
		},
		{
			name:        "NotMultipart",
			contentType: "text/csv",
			setupMock:   func(m mocks) {},
			wantStatus:  http.StatusBadRequest,
			wantBody:    []string{"multipart/form-data"},
		},
		{
			name:    "StoreFailure",
			field:   "file",
			content: "Truck Number\nMH12AB1234\n",
			setupMock: func(m mocks) {
				m.svc.EXPECT().Import(gomock.Any(), gomock.Any()).Return(nil, errors.New("db down"))
			},
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			router, m := newRouter(t)
			tc.setupMock(m)

			var req *http.Request

			if tc.contentType != "" {
				req = httptest.NewRequest(http.MethodPost, "/admin/trucks/import", bytes.NewBufferString("Truck Number\n"))
				req.Header.Set("Content-Type", tc.contentType)
			} else {
				body, ct := multipartBody(t, tc.field, tc.content)
				req = httptest.NewRequest(http.MethodPost, "/admin/trucks/import", body)
				req.Header.Set("Content-Type", ct)
			}

			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tc.wantStatus, w.Code)

			for _, want := range tc.wantBody {
				assert.Contains(t, w.Body.String(), want)
			}
		})
	}
}
