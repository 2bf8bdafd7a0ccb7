package auth

import (
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/mandi/internal/apperr"
)

var (
	ErrInvalidOTP      = fmt.Errorf("%w: invalid or expired OTP", apperr.ErrInvalidInput)
	ErrSessionNotFound = fmt.Errorf("%w: OTP session not found", apperr.ErrInvalidInput)
	ErrUnauthorized    = errors.New("unauthorized")
	ErrForbidden       = errors.New("forbidden")
)

var (
	mobilePattern = regexp.MustCompile(`^[6-9]\d{9}$`)
	otpPattern    = regexp.MustCompile(`^\d{4,6}$`)
)

// Next step the client should show after an auth call.
const (
	NextLoginVerify = "LOGIN_VERIFY"
	NextRegister    = "REGISTER"
	NextHome        = "HOME"
)

// OTPSession links a mobile number to the provider's session for the code sent to it.
type OTPSession struct {
	ID           uuid.UUID
	MobileNumber string
	SessionID    string
	Used         bool
	ExpiresAt    time.Time
	CreatedAt    time.Time
}

func (s *OTPSession) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
