package tracking

import (
	"context"
	"time"
)

// Snapshot is what the realtime store knows about a vehicle. Session and Location are
// nil when the vehicle has never reported.
type Snapshot struct {
	VehicleID     string
	VehicleNumber string
	Session       *Session
	Location      *Location
}

type Session struct {
	ID        string
	Active    bool
	Status    string
	StartedAt int64 // unix millis
	LastSeen  int64 // unix millis
}

func (s *Session) Online() bool {
	return s.Active && s.Status == "online"
}

type Location struct {
	Lat       float64
	Lng       float64
	Speed     float64 // m/s
	Heading   *float64
	Timestamp int64 // unix millis
}

//go:generate mockgen -source=tracking.go -destination=tracking_mock.go -package=tracking
type LocationProvider interface {
	// LatestLocation returns nil when the vehicle is unknown to the provider.
	LatestLocation(ctx context.Context, vehicleNumber string) (*Snapshot, error)
}

type Geocoder interface {
	PlaceName(ctx context.Context, lat, lng float64) (string, error)
}

const (
	StatusOnline  = "online"
	StatusOffline = "offline"
)

type Status struct {
	VehicleNumber     string        `json:"vehicleNumber"`
	VehicleID         string        `json:"vehicleId,omitempty"`
	SessionID         string        `json:"sessionId,omitempty"`
	Status            string        `json:"status"`
	LastSeen          int64         `json:"lastSeen"`
	LastSeenFormatted string        `json:"lastSeenFormatted"`
	Location          *LocationView `json:"location"`
	Message           string        `json:"message,omitempty"`
}

type LocationView struct {
	Lat                float64  `json:"lat"`
	Lng                float64  `json:"lng"`
	Speed              float64  `json:"speed"`
	SpeedKmh           *string  `json:"speedKmh"`
	Heading            *float64 `json:"heading"`
	Timestamp          int64    `json:"timestamp"`
	TimestampFormatted string   `json:"timestampFormatted"`
	PlaceName          *string  `json:"placeName"`
}

func formatMillis(ms int64) string {
	return time.UnixMilli(ms).UTC().Format("2006-01-02T15:04:05.000Z")
}
