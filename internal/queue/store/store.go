package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/mandi/internal/queue"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

const selectJobColumns = `
	id, queue, job_type, payload, status, attempts, max_attempts, last_error,
	run_at, locked_at, created_at, updated_at
`

type scanner interface {
	Scan(dest ...any) error
}

func scanJob(s scanner) (*queue.Job, error) {
	var (
		j        queue.Job
		payload  []byte
		lockedAt sql.NullTime
	)

	if err := s.Scan(
		&j.ID, &j.Queue, &j.Type, &payload, &j.Status, &j.Attempts, &j.MaxAttempts, &j.LastError,
		&j.RunAt, &lockedAt, &j.CreatedAt, &j.UpdatedAt,
	); err != nil {
		return nil, err
	}

	j.Payload = payload

	if lockedAt.Valid {
		j.LockedAt = &lockedAt.Time
	}

	return &j, nil
}

func scanJobs(rows *sql.Rows) ([]*queue.Job, error) {
	defer rows.Close()

	var jobs []*queue.Job

	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning job: %w", err)
		}

		jobs = append(jobs, j)
	}

	return jobs, rows.Err()
}

func (s *Store) InsertJob(ctx context.Context, j *queue.Job) error {
	query := `
		INSERT INTO jobs (id, queue, job_type, payload, status, max_attempts, run_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`

	if err := s.db.QueryRowContext(ctx, query,
		j.ID, j.Queue, j.Type, []byte(j.Payload), j.Status, j.MaxAttempts, j.RunAt,
	).Scan(&j.CreatedAt, &j.UpdatedAt); err != nil {
		return fmt.Errorf("inserting job: %w", err)
	}

	return nil
}

// ClaimJobs uses SKIP LOCKED so concurrent workers never take the same row. Running jobs
// past their lease are picked up again, which is what makes delivery at-least-once.
func (s *Store) ClaimJobs(ctx context.Context, queueName string, limit int, lease time.Duration) ([]*queue.Job, error) {
	query := `
		UPDATE jobs SET
			status = 'running',
			attempts = attempts + 1,
			locked_at = NOW(),
			updated_at = NOW()
		WHERE id IN (
			SELECT id FROM jobs
			WHERE queue = $1
			  AND (
				(status = 'pending' AND run_at <= NOW())
				OR (status = 'running' AND locked_at < NOW() - make_interval(secs => $3))
			  )
			ORDER BY run_at
			LIMIT $2
			FOR UPDATE SKIP LOCKED
		)
		RETURNING ` + selectJobColumns

	rows, err := s.db.QueryContext(ctx, query, queueName, limit, lease.Seconds())
	if err != nil {
		return nil, fmt.Errorf("claiming jobs: %w", err)
	}

	return scanJobs(rows)
}

func (s *Store) CompleteJob(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE jobs SET status = 'done', locked_at = NULL, last_error = '', updated_at = NOW()
		WHERE id = $1
	`

	return s.exec(ctx, "completing job", query, id)
}

func (s *Store) RescheduleJob(ctx context.Context, id uuid.UUID, runAt time.Time, lastError string) error {
	query := `
		UPDATE jobs SET status = 'pending', run_at = $2, last_error = $3, locked_at = NULL, updated_at = NOW()
		WHERE id = $1
	`

	return s.exec(ctx, "rescheduling job", query, id, runAt, lastError)
}

func (s *Store) FailJob(ctx context.Context, id uuid.UUID, lastError string) error {
	query := `
		UPDATE jobs SET status = 'failed', last_error = $2, locked_at = NULL, updated_at = NOW()
		WHERE id = $1
	`

	return s.exec(ctx, "failing job", query, id, lastError)
}

func (s *Store) exec(ctx context.Context, what, query string, args ...any) error {
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", what, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", what, err)
	}

	if n == 0 {
		return queue.ErrNotFound
	}

	return nil
}

func (s *Store) ListJobs(ctx context.Context, filter queue.ListFilter) ([]*queue.Job, error) {
	var (
		conds []string
		args  []any
	)

	if filter.Queue != "" {
		args = append(args, filter.Queue)
		conds = append(conds, fmt.Sprintf("queue = $%d", len(args)))
	}

	if filter.Status != nil {
		args = append(args, *filter.Status)
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}

	query := `SELECT ` + selectJobColumns + ` FROM jobs`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}

	args = append(args, filter.Limit)
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d`, len(args))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing jobs: %w", err)
	}

	return scanJobs(rows)
}

func (s *Store) RetryJob(ctx context.Context, id uuid.UUID) (*queue.Job, error) {
	query := `
		UPDATE jobs SET
			status = 'pending', attempts = 0, run_at = NOW(), locked_at = NULL, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + selectJobColumns

	j, err := scanJob(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, queue.ErrNotFound
		}

		return nil, fmt.Errorf("retrying job: %w", err)
	}

	return j, nil
}
