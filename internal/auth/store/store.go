package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/mandi/internal/apperr"
	"github.com/MrJamesThe3rd/mandi/internal/auth"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) CreateOTPSession(ctx context.Context, sess *auth.OTPSession) error {
	sess.ID = uuid.New()

	query := `
		INSERT INTO otp_sessions (id, mobile_number, session_id, expires_at)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`

	if err := s.db.QueryRowContext(ctx, query,
		sess.ID, sess.MobileNumber, sess.SessionID, sess.ExpiresAt,
	).Scan(&sess.CreatedAt); err != nil {
		return fmt.Errorf("inserting otp session: %w", err)
	}

	return nil
}

func (s *Store) LatestOTPSession(ctx context.Context, mobile string) (*auth.OTPSession, error) {
	query := `
		SELECT id, mobile_number, session_id, is_used, expires_at, created_at
		FROM otp_sessions
		WHERE mobile_number = $1 AND NOT is_used
		ORDER BY created_at DESC
		LIMIT 1
	`

	var sess auth.OTPSession

	err := s.db.QueryRowContext(ctx, query, mobile).Scan(
		&sess.ID, &sess.MobileNumber, &sess.SessionID, &sess.Used, &sess.ExpiresAt, &sess.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("otp session %w", apperr.ErrNotFound)
		}

		return nil, fmt.Errorf("getting otp session: %w", err)
	}

	return &sess, nil
}

// MarkOTPSessionUsed consumes a pending session. A session that another verification
// consumed first yields auth.ErrInvalidOTP.
func (s *Store) MarkOTPSessionUsed(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `UPDATE otp_sessions SET is_used = TRUE WHERE id = $1 AND NOT is_used`, id)
	if err != nil {
		return fmt.Errorf("marking otp session used: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading affected rows: %w", err)
	}

	if n == 0 {
		return auth.ErrInvalidOTP
	}

	return nil
}
