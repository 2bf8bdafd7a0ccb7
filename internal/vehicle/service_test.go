package vehicle_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/mandi/internal/apperr"
	"github.com/MrJamesThe3rd/mandi/internal/truck"
	"github.com/MrJamesThe3rd/mandi/internal/vehicle"
)

func allClear(number string) *vehicle.Condition {
	return &vehicle.Condition{
		VehicleNumber:    number,
		PermitStatus:     true,
		DriverLicense:    true,
		VehicleCondition: true,
		ChallanClear:     true,
		EMIClear:         true,
		FitnessClear:     true,
	}
}

func TestService_Upsert(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := vehicle.NewMockRepository(ctrl)
	svc := vehicle.NewService(repo, vehicle.NewMockTrucks(ctrl))

	repo.EXPECT().UpsertCondition(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, c *vehicle.Condition) error {
			assert.Equal(t, "UP32GH4589", c.VehicleNumber)
			assert.True(t, c.EMIClear)
			assert.False(t, c.FitnessClear)

			return nil
		})

	got, err := svc.Upsert(context.Background(), vehicle.UpsertInput{VehicleNumber: "up 32-gh 4589", EMIClear: true})
	require.NoError(t, err)
	assert.Equal(t, "UP32GH4589", got.VehicleNumber)

	_, err = svc.Upsert(context.Background(), vehicle.UpsertInput{VehicleNumber: " - "})
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)
}

func TestService_Verify(t *testing.T) {
	const number = "UP32GH4589"

	type testCase struct {
		name       string
		setupMock  func(repo *vehicle.MockRepository, trucks *vehicle.MockTrucks)
		wantClaim  string
		wantOK     bool
		wantReason string
		wantErr    error
	}

	tests := []testCase{
		{
			name: "ClearWithoutClaims",
			setupMock: func(repo *vehicle.MockRepository, trucks *vehicle.MockTrucks) {
				trucks.EXPECT().GetByNumber(gomock.Any(), number).Return(&truck.Truck{ClaimCount: 0}, nil)
				repo.EXPECT().GetCondition(gomock.Any(), number).Return(allClear(number), nil)
			},
			wantClaim: vehicle.NoClaim,
			wantOK:    true,
		},
		{
			name: "NoTruckRecord",
			setupMock: func(repo *vehicle.MockRepository, trucks *vehicle.MockTrucks) {
				trucks.EXPECT().GetByNumber(gomock.Any(), number).Return(nil, truck.ErrNotFound)
				repo.EXPECT().GetCondition(gomock.Any(), number).Return(allClear(number), nil)
			},
			wantClaim: vehicle.NoTruckRecorded,
			wantOK:    true,
		},
		{
			name: "PreviousClaim",
			setupMock: func(repo *vehicle.MockRepository, trucks *vehicle.MockTrucks) {
				trucks.EXPECT().GetByNumber(gomock.Any(), number).Return(&truck.Truck{ClaimCount: 2}, nil)
				repo.EXPECT().GetCondition(gomock.Any(), number).Return(allClear(number), nil)
			},
			wantClaim:  vehicle.ClaimFound,
			wantReason: vehicle.ReasonPreviousClaim,
		},
		{
			name: "FailedCheck",
			setupMock: func(repo *vehicle.MockRepository, trucks *vehicle.MockTrucks) {
				c := allClear(number)
				c.ChallanClear = false

				trucks.EXPECT().GetByNumber(gomock.Any(), number).Return(&truck.Truck{}, nil)
				repo.EXPECT().GetCondition(gomock.Any(), number).Return(c, nil)
			},
			wantClaim:  vehicle.NoClaim,
			wantReason: vehicle.ReasonChecksFailed,
		},
		{
			name: "NoConditionRecorded",
			setupMock: func(repo *vehicle.MockRepository, trucks *vehicle.MockTrucks) {
				trucks.EXPECT().GetByNumber(gomock.Any(), number).Return(nil, truck.ErrNotFound)
				repo.EXPECT().GetCondition(gomock.Any(), number).Return(nil, vehicle.ErrNotFound)
			},
			wantErr: apperr.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			repo := vehicle.NewMockRepository(ctrl)
			trucks := vehicle.NewMockTrucks(ctrl)
			tt.setupMock(repo, trucks)

			got, err := vehicle.NewService(repo, trucks).Verify(context.Background(), "up32 gh4589")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantClaim, got.Details.Claim)
			assert.Equal(t, tt.wantOK, got.Verified)

			if tt.wantReason == "" {
				assert.Nil(t, got.Reason)
			} else {
				require.NotNil(t, got.Reason)
				assert.Equal(t, tt.wantReason, *got.Reason)
			}
		})
	}
}

func TestWhatsappText(t *testing.T) {
	v := &vehicle.Verification{
		Details: vehicle.Details{
			Permit:           "Active",
			DriverLicense:    "Available",
			VehicleCondition: "OK",
			Challan:          "Challan Found",
			EMI:              "Paid",
			Fitness:          "Fit",
			Claim:            vehicle.NoClaim,
		},
	}

	got := vehicle.WhatsappText(v)

	assert.Contains(t, got, "Permit – Active\nपरमिट – एक्टिव\n")
	assert.Contains(t, got, "Challan – Challan Found\nचालान – चालान मौजूद\n")
	assert.Contains(t, got, "❌ You cannot take **MandiPlus Verified Vehicle**")
	assert.True(t, len(got) > 0 && got[len(got)-1] != '\n')

	v.Verified = true
	assert.Contains(t, vehicle.WhatsappText(v), "✅ आप **MandiPlus सत्यापित वाहन** ले सकते हैं")
}
