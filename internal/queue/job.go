package queue

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/mandi/internal/apperr"
)

var (
	ErrNotFound = fmt.Errorf("job %w", apperr.ErrNotFound)
	// ErrPermanent marks a handler failure that retrying cannot fix.
	ErrPermanent = errors.New("permanent failure")
)

// Permanent wraps err so the worker fails the job without further attempts.
func Permanent(err error) error {
	return fmt.Errorf("%w: %w", ErrPermanent, err)
}

type Status string

const (
	StatusPending Status = "pending"
	StatusRunning Status = "running"
	StatusDone    Status = "done"
	StatusFailed  Status = "failed"
)

type Job struct {
	ID          uuid.UUID       `json:"id"`
	Queue       string          `json:"queue"`
	Type        string          `json:"jobType"`
	Payload     json.RawMessage `json:"payload"`
	Status      Status          `json:"status"`
	Attempts    int             `json:"attempts"`
	MaxAttempts int             `json:"maxAttempts"`
	LastError   string          `json:"lastError,omitempty"`
	RunAt       time.Time       `json:"runAt"`
	LockedAt    *time.Time      `json:"lockedAt,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

func (j *Job) Decode(v any) error {
	if err := json.Unmarshal(j.Payload, v); err != nil {
		return Permanent(fmt.Errorf("decoding %s payload: %w", j.Type, err))
	}

	return nil
}

// Exhausted reports whether the attempt just made was the last one allowed.
func (j *Job) Exhausted() bool {
	return j.Attempts >= j.MaxAttempts
}

type ListFilter struct {
	Queue  string
	Status *Status
	Limit  int
}
