package vehicle_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	handler "github.com/MrJamesThe3rd/mandi/internal/http/vehicle"
	"github.com/MrJamesThe3rd/mandi/internal/vehicle"
)

func newRouter(t *testing.T) (http.Handler, *handler.MockService) {
	ctrl := gomock.NewController(t)
	svc := handler.NewMockService(ctrl)

	r := chi.NewRouter()
	r.Route("/vehicle-condition", handler.NewHandler(svc).Routes)

	return r, svc
}

func serve(router http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	return w
}

func TestHandler_Upsert(t *testing.T) {
	type testCase struct {
		name       string
		body       string
		setupMock  func(svc *handler.MockService)
		wantStatus int
		wantBody   string
	}

	tests := []testCase{
		{
			name: "Saved",
			body: `{"vehicleNumber":"mh12 ab 1234","permitStatus":true,"driverLicense":true,"vehicleCondition":true,"challanClear":true,"emiClear":false,"fitnessClear":true}`,
			setupMock: func(svc *handler.MockService) {
				svc.EXPECT().
					Upsert(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, in vehicle.UpsertInput) (*vehicle.Condition, error) {
						assert.Equal(t, "mh12 ab 1234", in.VehicleNumber)
						assert.True(t, in.PermitStatus)
						assert.False(t, in.EMIClear)

						return &vehicle.Condition{VehicleNumber: "MH12AB1234", PermitStatus: true}, nil
					})
			},
			wantStatus: http.StatusCreated,
			wantBody:   `"passed":false`,
		},
		{
			name:       "MissingCheck",
			body:       `{"vehicleNumber":"MH12AB1234","permitStatus":true}`,
			setupMock:  func(*handler.MockService) {},
			wantStatus: http.StatusBadRequest,
			wantBody:   `"emiClear":"required"`,
		},
		{
			name:       "ExplicitFalseIsAccepted",
			body:       `{"vehicleNumber":"MH12AB1234","permitStatus":false,"driverLicense":false,"vehicleCondition":false,"challanClear":false,"emiClear":false,"fitnessClear":false}`,
			wantStatus: http.StatusCreated,
			setupMock: func(svc *handler.MockService) {
				svc.EXPECT().Upsert(gomock.Any(), vehicle.UpsertInput{VehicleNumber: "MH12AB1234"}).
					Return(&vehicle.Condition{VehicleNumber: "MH12AB1234"}, nil)
			},
			wantBody: `"vehicleNumber":"MH12AB1234"`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			router, svc := newRouter(t)
			tc.setupMock(svc)

			w := serve(router, httptest.NewRequest(http.MethodPost, "/vehicle-condition", strings.NewReader(tc.body)))
			assert.Equal(t, tc.wantStatus, w.Code, w.Body.String())
			assert.Contains(t, w.Body.String(), tc.wantBody)
		})
	}
}

func TestHandler_Verify(t *testing.T) {
	router, svc := newRouter(t)

	reason := vehicle.ReasonPreviousClaim
	svc.EXPECT().Verify(gomock.Any(), "MH12AB1234").Return(&vehicle.Verification{
		VehicleNumber: "MH12AB1234",
		Details:       vehicle.Details{Claim: vehicle.ClaimFound},
		Reason:        &reason,
	}, nil)
	svc.EXPECT().Verify(gomock.Any(), "GJ01XX0001").Return(nil, vehicle.ErrNotFound)

	w := serve(router, httptest.NewRequest(http.MethodGet, "/vehicle-condition/MH12AB1234/verify", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"verified":false`)
	assert.Contains(t, w.Body.String(), `"reason":"Truck has previous claim"`)

	w = serve(router, httptest.NewRequest(http.MethodGet, "/vehicle-condition/GJ01XX0001/verify", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandler_Whatsapp(t *testing.T) {
	router, svc := newRouter(t)
	svc.EXPECT().WhatsappMessage(gomock.Any(), "MH12AB1234").Return("Vehicle verified", nil)

	w := serve(router, httptest.NewRequest(http.MethodGet, "/vehicle-condition/MH12AB1234/whatsapp", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"vehicleNumber":"MH12AB1234","message":"Vehicle verified"}`, w.Body.String())
}
