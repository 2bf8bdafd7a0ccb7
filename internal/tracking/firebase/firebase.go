// Package firebase reads live vehicle positions from the tracker app's Firebase Realtime Database.
package firebase

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	fb "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/db"
	"google.golang.org/api/option"

	"github.com/MrJamesThe3rd/mandi/internal/tracking"
	"github.com/MrJamesThe3rd/mandi/internal/truck"
)

type Config struct {
	DatabaseURL    string
	CredentialsB64 string // base64 service-account JSON; empty uses application default credentials
}

// database is the subset of RTDB reads the provider makes.
type database interface {
	Get(ctx context.Context, path string, v any) error
	GetEqual(ctx context.Context, path, child, value string, v any) error
}

type rtdb struct {
	client *db.Client
}

func (r rtdb) Get(ctx context.Context, path string, v any) error {
	return r.client.NewRef(path).Get(ctx, v)
}

func (r rtdb) GetEqual(ctx context.Context, path, child, value string, v any) error {
	return r.client.NewRef(path).OrderByChild(child).EqualTo(value).Get(ctx, v)
}

type Provider struct {
	db database
}

func New(ctx context.Context, cfg Config) (*Provider, error) {
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("firebase database url is required")
	}

	var opts []option.ClientOption

	if cfg.CredentialsB64 != "" {
		creds, err := decodeCredentials(cfg.CredentialsB64)
		if err != nil {
			return nil, err
		}

		opts = append(opts, option.WithCredentialsJSON(creds))
	}

	app, err := fb.NewApp(ctx, &fb.Config{DatabaseURL: cfg.DatabaseURL}, opts...)
	if err != nil {
		return nil, fmt.Errorf("initializing firebase app: %w", err)
	}

	client, err := app.Database(ctx)
	if err != nil {
		return nil, fmt.Errorf("opening realtime database: %w", err)
	}

	return &Provider{db: rtdb{client: client}}, nil
}

// decodeCredentials unwraps the base64 service account and restores escaped newlines in
// the private key, which env files tend to flatten.
func decodeCredentials(b64 string) ([]byte, error) {
	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(b64))
	if err != nil {
		return nil, fmt.Errorf("decoding firebase credentials: %w", err)
	}

	var account map[string]any
	if err := json.Unmarshal(raw, &account); err != nil {
		return nil, fmt.Errorf("parsing firebase credentials: %w", err)
	}

	if key, ok := account["private_key"].(string); ok {
		account["private_key"] = strings.ReplaceAll(key, `\n`, "\n")
	}

	return json.Marshal(account)
}

type vehicleRecord struct {
	VehicleNumber string `json:"vehicleNumber"`
}

type sessionRecord struct {
	VehicleID string `json:"vehicleId"`
	IsActive  bool   `json:"isActive"`
	Status    string `json:"status"`
	StartedAt int64  `json:"startedAt"`
	LastSeen  int64  `json:"lastSeen"`
}

type locationRecord struct {
	Lat       float64  `json:"lat"`
	Lng       float64  `json:"lng"`
	Speed     float64  `json:"speed"`
	Heading   *float64 `json:"heading"`
	Timestamp int64    `json:"timestamp"`
}

func (p *Provider) LatestLocation(ctx context.Context, vehicleNumber string) (*tracking.Snapshot, error) {
	var vehicles map[string]vehicleRecord
	if err := p.db.Get(ctx, "vehicles", &vehicles); err != nil {
		return nil, fmt.Errorf("reading vehicles: %w", err)
	}

	want := truck.NormalizeNumber(vehicleNumber)

	snap := findVehicle(vehicles, want)
	if snap == nil {
		return nil, nil
	}

	var sessions map[string]sessionRecord
	if err := p.db.GetEqual(ctx, "sessions", "vehicleId", snap.VehicleID, &sessions); err != nil {
		return nil, fmt.Errorf("reading sessions: %w", err)
	}

	snap.Session = latestSession(sessions)
	if snap.Session == nil {
		return snap, nil
	}

	var loc *locationRecord
	if err := p.db.Get(ctx, "locations/latest/"+snap.Session.ID, &loc); err != nil {
		return nil, fmt.Errorf("reading latest location: %w", err)
	}

	if loc != nil {
		snap.Location = &tracking.Location{
			Lat:       loc.Lat,
			Lng:       loc.Lng,
			Speed:     loc.Speed,
			Heading:   loc.Heading,
			Timestamp: loc.Timestamp,
		}
	}

	return snap, nil
}

func findVehicle(vehicles map[string]vehicleRecord, number string) *tracking.Snapshot {
	for id, v := range vehicles {
		if truck.NormalizeNumber(v.VehicleNumber) == number {
			return &tracking.Snapshot{VehicleID: id, VehicleNumber: v.VehicleNumber}
		}
	}

	return nil
}

// latestSession picks the most recently started session, active or not.
func latestSession(sessions map[string]sessionRecord) *tracking.Session {
	var latest *tracking.Session

	for id, s := range sessions {
		if latest != nil && s.StartedAt <= latest.StartedAt {
			continue
		}

		latest = &tracking.Session{
			ID:        id,
			Active:    s.IsActive,
			Status:    s.Status,
			StartedAt: s.StartedAt,
			LastSeen:  s.LastSeen,
		}
	}

	return latest
}
