package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/mandi/internal/apperr"
)

//go:generate mockgen -source=client.go -destination=repository_mock.go -package=queue
type Repository interface {
	InsertJob(ctx context.Context, j *Job) error
	// ClaimJobs locks up to limit due jobs of queue, including running ones whose lease
	// expired, marks them running and counts the attempt.
	ClaimJobs(ctx context.Context, queue string, limit int, lease time.Duration) ([]*Job, error)
	CompleteJob(ctx context.Context, id uuid.UUID) error
	RescheduleJob(ctx context.Context, id uuid.UUID, runAt time.Time, lastError string) error
	FailJob(ctx context.Context, id uuid.UUID, lastError string) error
	ListJobs(ctx context.Context, filter ListFilter) ([]*Job, error)
	// RetryJob puts a job back to pending with a fresh attempt budget.
	RetryJob(ctx context.Context, id uuid.UUID) (*Job, error)
}

// Client is the producer side of the job queue.
type Client struct {
	repo        Repository
	maxAttempts int
	now         func() time.Time
}

func NewClient(repo Repository, maxAttempts int) *Client {
	if maxAttempts <= 0 {
		maxAttempts = 1
	}

	return &Client{repo: repo, maxAttempts: maxAttempts, now: time.Now}
}

// Enqueue stores a job for the workers of queue. It returns once the job is durable;
// processing happens later and at least once.
func (c *Client) Enqueue(ctx context.Context, queue, jobType string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encoding %s payload: %w", jobType, err)
	}

	j := &Job{
		ID:          uuid.New(),
		Queue:       queue,
		Type:        jobType,
		Payload:     body,
		Status:      StatusPending,
		MaxAttempts: c.maxAttempts,
		RunAt:       c.now(),
	}
	if err := c.repo.InsertJob(ctx, j); err != nil {
		return fmt.Errorf("enqueueing %s on %s: %w", jobType, queue, err)
	}

	return nil
}

func (c *Client) List(ctx context.Context, filter ListFilter) ([]*Job, error) {
	if filter.Status != nil {
		if _, err := ParseStatus(string(*filter.Status)); err != nil {
			return nil, err
		}
	}

	if filter.Limit <= 0 || filter.Limit > 500 {
		filter.Limit = 100
	}

	return c.repo.ListJobs(ctx, filter)
}

func (c *Client) Retry(ctx context.Context, id uuid.UUID) (*Job, error) {
	return c.repo.RetryJob(ctx, id)
}

func ParseStatus(s string) (Status, error) {
	switch st := Status(strings.ToLower(s)); st {
	case StatusPending, StatusRunning, StatusDone, StatusFailed:
		return st, nil
	}

	return "", fmt.Errorf("%w: unknown job status %q", apperr.ErrInvalidInput, s)
}
