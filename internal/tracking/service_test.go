package tracking_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"github.com/MrJamesThe3rd/mandi/internal/apperr"
	"github.com/MrJamesThe3rd/mandi/internal/tracking"
)

func TestService_TruckLocation(t *testing.T) {
	heading := 90.0

	type testCase struct {
		name      string
		setupMock func(p *tracking.MockLocationProvider, g *tracking.MockGeocoder)
		check     func(t *testing.T, st *tracking.Status)
		wantErr   error
	}

	tests := []testCase{
		{
			name: "UnknownVehicleIsOffline",
			setupMock: func(p *tracking.MockLocationProvider, g *tracking.MockGeocoder) {
				p.EXPECT().LatestLocation(gomock.Any(), "MH12AB1234").Return(nil, nil)
			},
			check: func(t *testing.T, st *tracking.Status) {
				assert.Equal(t, tracking.StatusOffline, st.Status)
				assert.Equal(t, "MH12AB1234", st.VehicleNumber)
				assert.Equal(t, "1970-01-01T00:00:00.000Z", st.LastSeenFormatted)
				assert.Nil(t, st.Location)
			},
		},
		{
			name: "NoSessionIsOffline",
			setupMock: func(p *tracking.MockLocationProvider, g *tracking.MockGeocoder) {
				p.EXPECT().LatestLocation(gomock.Any(), "MH12AB1234").
					Return(&tracking.Snapshot{VehicleID: "v1", VehicleNumber: "MH12AB1234"}, nil)
			},
			check: func(t *testing.T, st *tracking.Status) {
				assert.Equal(t, tracking.StatusOffline, st.Status)
				assert.Equal(t, "v1", st.VehicleID)
				assert.Equal(t, "No sessions found for this vehicle", st.Message)
			},
		},
		{
			name: "OnlineWithPlaceName",
			setupMock: func(p *tracking.MockLocationProvider, g *tracking.MockGeocoder) {
				p.EXPECT().LatestLocation(gomock.Any(), "MH12AB1234").Return(&tracking.Snapshot{
					VehicleID:     "v1",
					VehicleNumber: "MH12AB1234",
					Session:       &tracking.Session{ID: "s9", Active: true, Status: "online", LastSeen: 1700000000000},
					Location:      &tracking.Location{Lat: 19.07, Lng: 72.87, Speed: 10, Heading: &heading, Timestamp: 1700000000000},
				}, nil)
				g.EXPECT().PlaceName(gomock.Any(), 19.07, 72.87).Return("Mumbai", nil)
			},
			check: func(t *testing.T, st *tracking.Status) {
				assert.Equal(t, tracking.StatusOnline, st.Status)
				assert.Equal(t, "s9", st.SessionID)
				require.NotNil(t, st.Location)
				require.NotNil(t, st.Location.SpeedKmh)
				assert.Equal(t, "36.00", *st.Location.SpeedKmh)
				require.NotNil(t, st.Location.PlaceName)
				assert.Equal(t, "Mumbai", *st.Location.PlaceName)
				assert.Equal(t, "2023-11-14T22:13:20.000Z", st.Location.TimestampFormatted)
			},
		},
		{
			name: "GeocoderFailureKeepsLocation",
			setupMock: func(p *tracking.MockLocationProvider, g *tracking.MockGeocoder) {
				p.EXPECT().LatestLocation(gomock.Any(), "MH12AB1234").Return(&tracking.Snapshot{
					VehicleID: "v1",
					Session:   &tracking.Session{ID: "s9", Active: true, Status: "paused"},
					Location:  &tracking.Location{Lat: 19.07, Lng: 72.87},
				}, nil)
				g.EXPECT().PlaceName(gomock.Any(), 19.07, 72.87).Return("", errors.New("timeout"))
			},
			check: func(t *testing.T, st *tracking.Status) {
				assert.Equal(t, tracking.StatusOffline, st.Status)
				require.NotNil(t, st.Location)
				assert.Nil(t, st.Location.PlaceName)
				assert.Nil(t, st.Location.SpeedKmh)
			},
		},
		{
			name: "ProviderDown",
			setupMock: func(p *tracking.MockLocationProvider, g *tracking.MockGeocoder) {
				p.EXPECT().LatestLocation(gomock.Any(), "MH12AB1234").Return(nil, errors.New("unavailable"))
			},
			wantErr: errors.New("fetching truck location: unavailable"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			p := tracking.NewMockLocationProvider(ctrl)
			g := tracking.NewMockGeocoder(ctrl)
			tt.setupMock(p, g)

			st, err := tracking.NewService(p, g, 0, zap.NewNop()).TruckLocation(context.Background(), " MH12AB1234 ")
			if tt.wantErr != nil {
				assert.EqualError(t, err, tt.wantErr.Error())
				return
			}

			require.NoError(t, err)
			tt.check(t, st)
		})
	}
}

func TestService_TruckLocation_Blank(t *testing.T) {
	svc := tracking.NewService(nil, nil, 0, zap.NewNop())

	_, err := svc.TruckLocation(context.Background(), "  ")
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)
}

func TestService_TruckLocation_ProviderDeadline(t *testing.T) {
	ctrl := gomock.NewController(t)
	p := tracking.NewMockLocationProvider(ctrl)

	start := time.Now()

	p.EXPECT().LatestLocation(gomock.Any(), "MH12AB1234").
		DoAndReturn(func(ctx context.Context, _ string) (*tracking.Snapshot, error) {
			deadline, ok := ctx.Deadline()
			require.True(t, ok)
			assert.WithinDuration(t, start.Add(2*time.Second), deadline, time.Second)
			return nil, nil
		})

	st, err := tracking.NewService(p, nil, 2*time.Second, zap.NewNop()).TruckLocation(context.Background(), "MH12AB1234")
	require.NoError(t, err)
	assert.Equal(t, tracking.StatusOffline, st.Status)
}

func TestService_TruckLocation_ProviderTimeout(t *testing.T) {
	ctrl := gomock.NewController(t)
	p := tracking.NewMockLocationProvider(ctrl)

	p.EXPECT().LatestLocation(gomock.Any(), "MH12AB1234").
		DoAndReturn(func(ctx context.Context, _ string) (*tracking.Snapshot, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		})

	_, err := tracking.NewService(p, nil, 20*time.Millisecond, zap.NewNop()).TruckLocation(context.Background(), "MH12AB1234")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
