package claim

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/MrJamesThe3rd/mandi/internal/apperr"
	"github.com/MrJamesThe3rd/mandi/internal/media"
	"github.com/MrJamesThe3rd/mandi/internal/truck"
)

const (
	MaxMediaFiles     = 10
	MaxMediaFileBytes = 10 << 20
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=claim
type Repository interface {
	GetClaim(ctx context.Context, id uuid.UUID) (*Claim, error)
	ListClaims(ctx context.Context, filter ListFilter) ([]*Claim, error)
	UpdateStatus(ctx context.Context, c *Claim) error
	// AppendMedia adds urls after the existing ones and returns the full list.
	AppendMedia(ctx context.Context, id uuid.UUID, urls []string) ([]string, error)
	UpdateClaimFormURL(ctx context.Context, id uuid.UUID, url string) error
	BeginCreate(ctx context.Context) (CreateTx, error)
}

// CreateTx spans claim creation so a failed step leaves no partial counter bump behind.
type CreateTx interface {
	LockTruck(ctx context.Context, number string) (uuid.UUID, error)
	LatestInvoice(ctx context.Context, truckID uuid.UUID) (uuid.UUID, error)
	ClaimExists(ctx context.Context, invoiceID uuid.UUID) (bool, error)
	OpenClaim(ctx context.Context, invoiceID uuid.UUID) (bool, error)
	CreateClaim(ctx context.Context, c *Claim) error
	Commit() error
	Rollback() error
}

type Jobs interface {
	Enqueue(ctx context.Context, queue, jobType string, payload any) error
}

type Service struct {
	repo   Repository
	media  media.Store
	jobs   Jobs
	logger *zap.Logger
}

func NewService(repo Repository, store media.Store, jobs Jobs, logger *zap.Logger) *Service {
	return &Service{
		repo:   repo,
		media:  store,
		jobs:   jobs,
		logger: logger.With(zap.String("component", "claim")),
	}
}

type ListFilter struct {
	Status      *Status
	InvoiceID   *uuid.UUID
	TruckNumber string // case-insensitive substring
	UserID      *uuid.UUID
}

type StatusUpdate struct {
	Status          string
	SurveyorName    *string
	SurveyorContact *string
	Notes           *string
}

// CreateByTruck opens a claim against the most recent invoice of a truck.
func (s *Service) CreateByTruck(ctx context.Context, truckNumber string) (*Claim, error) {
	number := truck.NormalizeNumber(truckNumber)
	if number == "" {
		return nil, fmt.Errorf("%w: truck number is required", apperr.ErrInvalidInput)
	}

	tx, err := s.repo.BeginCreate(ctx)
	if err != nil {
		return nil, fmt.Errorf("beginning claim creation: %w", err)
	}
	defer tx.Rollback()

	truckID, err := tx.LockTruck(ctx, number)
	if err != nil {
		return nil, err
	}

	invoiceID, err := tx.LatestInvoice(ctx, truckID)
	if err != nil {
		return nil, err
	}

	exists, err := tx.ClaimExists(ctx, invoiceID)
	if err != nil {
		return nil, err
	}

	if exists {
		return nil, ErrAlreadyClaimed
	}

	counted, err := tx.OpenClaim(ctx, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("opening claim: %w", err)
	}

	c := &Claim{
		InvoiceID:      invoiceID,
		Status:         StatusPending,
		SupportedMedia: []string{},
	}
	if err := tx.CreateClaim(ctx, c); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing claim: %w", err)
	}

	s.logger.Info("claim opened",
		zap.String("claim_id", c.ID.String()),
		zap.String("truck_number", number),
		zap.Bool("claim_counted", counted))

	return s.repo.GetClaim(ctx, c.ID)
}

// UpdateStatus sets any status from any other. Assigning a surveyor requires
// both surveyor fields in the same request.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, upd StatusUpdate) (*Claim, error) {
	c, err := s.repo.GetClaim(ctx, id)
	if err != nil {
		return nil, err
	}

	status, err := ParseStatus(upd.Status)
	if err != nil {
		return nil, err
	}

	if status == StatusSurveyorAssigned && (blank(upd.SurveyorName) || blank(upd.SurveyorContact)) {
		return nil, fmt.Errorf("%w: surveyor name and contact are required when assigning a surveyor", apperr.ErrInvalidInput)
	}

	c.Status = status

	if upd.SurveyorName != nil {
		c.SurveyorName = strings.TrimSpace(*upd.SurveyorName)
	}

	if upd.SurveyorContact != nil {
		c.SurveyorContact = strings.TrimSpace(*upd.SurveyorContact)
	}

	if upd.Notes != nil {
		c.Notes = *upd.Notes
	}

	if err := s.repo.UpdateStatus(ctx, c); err != nil {
		return nil, err
	}

	return c, nil
}

func blank(s *string) bool {
	return s == nil || strings.TrimSpace(*s) == ""
}

func (s *Service) UploadSupportingMedia(ctx context.Context, id uuid.UUID, files []media.File) (*Claim, error) {
	c, err := s.repo.GetClaim(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := validateMedia(files); err != nil {
		return nil, err
	}

	urls, err := s.media.UploadMultiple(ctx, files, media.FolderClaimMedia)
	if err != nil {
		return nil, fmt.Errorf("uploading supporting media: %w", err)
	}

	all, err := s.repo.AppendMedia(ctx, id, urls)
	if err != nil {
		return nil, err
	}

	c.SupportedMedia = all

	return c, nil
}

var allowedMediaPrefixes = []string{"image/", "video/", "application/pdf"}

func validateMedia(files []media.File) error {
	if len(files) == 0 {
		return fmt.Errorf("%w: at least one file is required", apperr.ErrInvalidInput)
	}

	if len(files) > MaxMediaFiles {
		return fmt.Errorf("%w: at most %d files per upload", apperr.ErrInvalidInput, MaxMediaFiles)
	}

	for _, f := range files {
		if len(f.Data) > MaxMediaFileBytes {
			return fmt.Errorf("%w: %s exceeds %d bytes", apperr.ErrInvalidInput, f.Name, MaxMediaFileBytes)
		}

		if f.ContentType == "" {
			continue
		}

		allowed := false

		for _, p := range allowedMediaPrefixes {
			if strings.HasPrefix(f.ContentType, p) {
				allowed = true
				break
			}
		}

		if !allowed {
			return fmt.Errorf("%w: %s has unsupported type %s", apperr.ErrInvalidInput, f.Name, f.ContentType)
		}
	}

	return nil
}

// SubmitDamageForm queues a damage certificate render and returns without waiting for it.
func (s *Service) SubmitDamageForm(ctx context.Context, id uuid.UUID, form DamageForm) error {
	c, err := s.repo.GetClaim(ctx, id)
	if err != nil {
		return err
	}

	if c.Invoice == nil {
		return fmt.Errorf("%w: claim request has no linked invoice", apperr.ErrInvalidInput)
	}

	job := DamageCertificateJob{
		ClaimRequestID:   c.ID,
		DamageForm:       form,
		InvoiceNumber:    c.Invoice.InvoiceNumber,
		InvoiceDate:      c.Invoice.InvoiceDate.Format(time.DateOnly),
		TruckNumber:      c.Invoice.TruckNumber,
		UserMobileNumber: c.Invoice.UserMobile,
	}

	if err := s.jobs.Enqueue(ctx, QueueClaimForm, JobDamageCertificate, job); err != nil {
		return fmt.Errorf("enqueueing damage certificate: %w", err)
	}

	return nil
}

func (s *Service) FindAll(ctx context.Context, filter ListFilter) ([]*Claim, error) {
	return s.repo.ListClaims(ctx, filter)
}

func (s *Service) FindOne(ctx context.Context, id uuid.UUID) (*Claim, error) {
	return s.repo.GetClaim(ctx, id)
}

func (s *Service) FindByStatus(ctx context.Context, status string) ([]*Claim, error) {
	st, err := ParseStatus(status)
	if err != nil {
		return nil, err
	}

	return s.repo.ListClaims(ctx, ListFilter{Status: &st})
}

func (s *Service) FindByUser(ctx context.Context, userID uuid.UUID) ([]*Claim, error) {
	return s.repo.ListClaims(ctx, ListFilter{UserID: &userID})
}

func (s *Service) SetClaimFormURL(ctx context.Context, id uuid.UUID, url string) error {
	return s.repo.UpdateClaimFormURL(ctx, id, url)
}
