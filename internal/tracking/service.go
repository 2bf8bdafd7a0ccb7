package tracking

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/MrJamesThe3rd/mandi/internal/apperr"
)

const defaultProviderTimeout = 5 * time.Second

type Service struct {
	provider LocationProvider
	geocoder Geocoder
	timeout  time.Duration
	logger   *zap.Logger
}

// NewService accepts a nil geocoder, in which case place names are omitted. Each
// provider read is bounded by timeout, 5s when zero.
func NewService(provider LocationProvider, geocoder Geocoder, timeout time.Duration, logger *zap.Logger) *Service {
	if timeout <= 0 {
		timeout = defaultProviderTimeout
	}

	return &Service{
		provider: provider,
		geocoder: geocoder,
		timeout:  timeout,
		logger:   logger.With(zap.String("component", "tracking")),
	}
}

// TruckLocation reports the latest known position of a vehicle. Missing vehicles,
// sessions or fixes are reported as offline rather than as errors.
func (s *Service) TruckLocation(ctx context.Context, vehicleNumber string) (*Status, error) {
	vehicleNumber = strings.TrimSpace(vehicleNumber)
	if vehicleNumber == "" {
		return nil, fmt.Errorf("%w: vehicle number is required", apperr.ErrInvalidInput)
	}

	snap, err := s.latest(ctx, vehicleNumber)
	if err != nil {
		return nil, fmt.Errorf("fetching truck location: %w", err)
	}

	if snap == nil {
		return offline(vehicleNumber, "", "Vehicle not found"), nil
	}

	if snap.Session == nil {
		return offline(snap.VehicleNumber, snap.VehicleID, "No sessions found for this vehicle"), nil
	}

	st := &Status{
		VehicleNumber:     snap.VehicleNumber,
		VehicleID:         snap.VehicleID,
		SessionID:         snap.Session.ID,
		Status:            StatusOffline,
		LastSeen:          snap.Session.LastSeen,
		LastSeenFormatted: formatMillis(snap.Session.LastSeen),
	}

	if snap.Session.Online() {
		st.Status = StatusOnline
	}

	if snap.Location != nil {
		st.Location = s.view(ctx, snap.Location)
	}

	return st, nil
}

func (s *Service) latest(ctx context.Context, vehicleNumber string) (*Snapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	return s.provider.LatestLocation(ctx, vehicleNumber)
}

func offline(number, vehicleID, msg string) *Status {
	return &Status{
		VehicleNumber:     number,
		VehicleID:         vehicleID,
		Status:            StatusOffline,
		LastSeenFormatted: formatMillis(0),
		Message:           msg,
	}
}

func (s *Service) view(ctx context.Context, loc *Location) *LocationView {
	v := &LocationView{
		Lat:                loc.Lat,
		Lng:                loc.Lng,
		Speed:              loc.Speed,
		Heading:            loc.Heading,
		Timestamp:          loc.Timestamp,
		TimestampFormatted: formatMillis(loc.Timestamp),
	}

	if loc.Speed != 0 {
		kmh := fmt.Sprintf("%.2f", loc.Speed*3.6)
		v.SpeedKmh = &kmh
	}

	if s.geocoder == nil || loc.Lat == 0 || loc.Lng == 0 {
		return v
	}

	name, err := s.geocoder.PlaceName(ctx, loc.Lat, loc.Lng)
	if err != nil {
		s.logger.Warn("reverse geocoding failed", zap.Error(err))
		return v
	}

	if name != "" {
		v.PlaceName = &name
	}

	return v
}
