package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App struct {
		Name string `envconfig:"APP_NAME" default:"Mandi"`
		Port int    `envconfig:"PORT" default:"8080"`
	}

	DB struct {
		Host     string `envconfig:"DB_HOST" default:"localhost"`
		Port     int    `envconfig:"DB_PORT" default:"5432"`
		User     string `envconfig:"DB_USER" default:"postgres"`
		Password string `envconfig:"DB_PASSWORD" default:""`
		Name     string `envconfig:"DB_NAME" default:"mandi"`
		SSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`
	}

	Server struct {
		Timeout        time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
		AllowedOrigins []string      `envconfig:"CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
		MaxUploadBytes int64         `envconfig:"MAX_UPLOAD_BYTES" default:"52428800"`
	}

	Log struct {
		Level  string `envconfig:"LOG_LEVEL" default:"info"`
		Format string `envconfig:"LOG_FORMAT" default:"json"`
		Output string `envconfig:"LOG_OUTPUT" default:"stdout"`
	}

	Auth struct {
		JWTSecret   string        `envconfig:"JWT_SECRET"`
		TokenTTL    time.Duration `envconfig:"JWT_TTL" default:"720h"`
		OTPAPIKey   string        `envconfig:"TWO_FACTOR_API_KEY"`
		OTPBaseURL  string        `envconfig:"TWO_FACTOR_BASE_URL" default:"https://2factor.in/API/V1"`
		OTPTemplate string        `envconfig:"TWO_FACTOR_TEMPLATE" default:"OTP1"`
		OTPTTL      time.Duration `envconfig:"OTP_TTL" default:"10m"`
	}

	Storage struct {
		Driver        string `envconfig:"STORAGE_DRIVER" default:"local"`
		Bucket        string `envconfig:"S3_BUCKET"`
		Region        string `envconfig:"S3_REGION" default:"ap-south-1"`
		Endpoint      string `envconfig:"S3_ENDPOINT"`
		AccessKey     string `envconfig:"S3_ACCESS_KEY_ID"`
		SecretKey     string `envconfig:"S3_SECRET_ACCESS_KEY"`
		PublicBaseURL string `envconfig:"STORAGE_PUBLIC_BASE_URL" default:"http://localhost:8080/media"`
		LocalRoot     string `envconfig:"STORAGE_LOCAL_ROOT" default:"./data/media"`
	}

	Chatrace struct {
		APIKey  string        `envconfig:"CHATRACE_API_KEY"`
		FlowID  int64         `envconfig:"CHATRACE_FLOW_ID"`
		BaseURL string        `envconfig:"CHATRACE_BASE_URL" default:"https://api.chatrace.com"`
		Timeout time.Duration `envconfig:"CHATRACE_TIMEOUT" default:"10s"`
	}

	Firebase struct {
		DatabaseURL    string        `envconfig:"FIREBASE_DATABASE_URL"`
		CredentialsB64 string        `envconfig:"FIREBASE_CREDENTIALS_BASE64"`
		Timeout        time.Duration `envconfig:"FIREBASE_TIMEOUT" default:"5s"`
	}

	Geocoder struct {
		BaseURL   string        `envconfig:"GEOCODER_BASE_URL" default:"https://nominatim.openstreetmap.org"`
		UserAgent string        `envconfig:"GEOCODER_USER_AGENT" default:"mandi-tracker/1.0"`
		Timeout   time.Duration `envconfig:"GEOCODER_TIMEOUT" default:"5s"`
	}

	Worker struct {
		Enabled        bool          `envconfig:"WORKER_ENABLED" default:"true"`
		PollInterval   time.Duration `envconfig:"WORKER_POLL_INTERVAL" default:"2s"`
		BatchSize      int           `envconfig:"WORKER_BATCH_SIZE" default:"5"`
		ProcessTimeout time.Duration `envconfig:"WORKER_PROCESS_TIMEOUT" default:"2m"`
		Lease          time.Duration `envconfig:"WORKER_LEASE" default:"10m"`
		MaxAttempts    int           `envconfig:"WORKER_MAX_ATTEMPTS" default:"5"`
		BaseBackoff    time.Duration `envconfig:"WORKER_BASE_BACKOFF" default:"5s"`
		MaxBackoff     time.Duration `envconfig:"WORKER_MAX_BACKOFF" default:"10m"`
		Jitter         bool          `envconfig:"WORKER_JITTER" default:"true"`
	}

	PDF struct {
		LogoURL      string        `envconfig:"PDF_LOGO_URL"`
		StampURL     string        `envconfig:"PDF_STAMP_URL"`
		FetchTimeout time.Duration `envconfig:"PDF_FETCH_TIMEOUT" default:"10s"`
	}
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name, c.DB.SSLMode)
}

func (c *Config) Validate() error {
	var errs []error

	if c.Auth.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}

	switch c.Storage.Driver {
	case "local":
	case "s3":
		if c.Storage.Bucket == "" {
			errs = append(errs, errors.New("S3_BUCKET is required for the s3 storage driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown STORAGE_DRIVER %q", c.Storage.Driver))
	}

	return errors.Join(errs...)
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}
