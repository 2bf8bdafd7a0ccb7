package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/MrJamesThe3rd/mandi/internal/apperr"
	"github.com/MrJamesThe3rd/mandi/internal/user"
)

//go:generate mockgen -source=service.go -destination=service_mock.go -package=auth
type OTPProvider interface {
	Send(ctx context.Context, mobile string) (string, error)
	Verify(ctx context.Context, sessionID, code string) (bool, error)
}

type SessionRepository interface {
	CreateOTPSession(ctx context.Context, s *OTPSession) error
	// LatestOTPSession returns the newest unused session for mobile.
	LatestOTPSession(ctx context.Context, mobile string) (*OTPSession, error)
	MarkOTPSessionUsed(ctx context.Context, id uuid.UUID) error
}

type Users interface {
	GetByMobile(ctx context.Context, mobile string) (*user.User, error)
	FindOrCreate(ctx context.Context, mobile string) (*user.User, bool, error)
	Register(ctx context.Context, id uuid.UUID, name, state string) (*user.User, error)
}

type Service struct {
	otp      OTPProvider
	sessions SessionRepository
	users    Users
	tokens   *Tokens
	otpTTL   time.Duration
	now      func() time.Time
	logger   *zap.Logger
}

func NewService(otp OTPProvider, sessions SessionRepository, users Users, tokens *Tokens, otpTTL time.Duration, logger *zap.Logger) *Service {
	return &Service{
		otp:      otp,
		sessions: sessions,
		users:    users,
		tokens:   tokens,
		otpTTL:   otpTTL,
		now:      time.Now,
		logger:   logger.With(zap.String("component", "auth")),
	}
}

type SendResult struct {
	Message string `json:"message"`
	Next    string `json:"next"`
}

type Login struct {
	AccessToken string     `json:"accessToken"`
	User        *user.User `json:"user"`
	IsNewUser   bool       `json:"isNewUser"`
	Next        string     `json:"next"`
}

func validMobile(mobile string) (string, error) {
	mobile = user.NormalizeMobile(mobile)
	if !mobilePattern.MatchString(mobile) {
		return "", fmt.Errorf("%w: invalid mobile number", apperr.ErrInvalidInput)
	}

	return mobile, nil
}

func (s *Service) SendOTP(ctx context.Context, mobile string) (*SendResult, error) {
	mobile, err := validMobile(mobile)
	if err != nil {
		return nil, err
	}

	next := NextLoginVerify

	if _, err := s.users.GetByMobile(ctx, mobile); err != nil {
		if !errors.Is(err, user.ErrNotFound) {
			return nil, err
		}

		next = NextRegister
	}

	sessionID, err := s.otp.Send(ctx, mobile)
	if err != nil {
		return nil, fmt.Errorf("sending OTP: %w", err)
	}

	if err := s.sessions.CreateOTPSession(ctx, &OTPSession{
		MobileNumber: mobile,
		SessionID:    sessionID,
		ExpiresAt:    s.now().Add(s.otpTTL),
	}); err != nil {
		return nil, fmt.Errorf("saving OTP session: %w", err)
	}

	return &SendResult{Message: "OTP sent", Next: next}, nil
}

// VerifyOTP checks code against the newest pending session for mobile and signs the user in,
// creating an unregistered account on first login.
func (s *Service) VerifyOTP(ctx context.Context, mobile, code string) (*Login, error) {
	mobile, err := validMobile(mobile)
	if err != nil {
		return nil, err
	}

	if !otpPattern.MatchString(code) {
		return nil, fmt.Errorf("%w: OTP must be 4 to 6 digits", apperr.ErrInvalidInput)
	}

	sess, err := s.sessions.LatestOTPSession(ctx, mobile)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, ErrSessionNotFound
		}

		return nil, err
	}

	if sess.Expired(s.now()) {
		return nil, ErrInvalidOTP
	}

	ok, err := s.otp.Verify(ctx, sess.SessionID, code)
	if err != nil {
		return nil, fmt.Errorf("verifying OTP: %w", err)
	}

	if !ok {
		return nil, ErrInvalidOTP
	}

	if err := s.sessions.MarkOTPSessionUsed(ctx, sess.ID); err != nil {
		if errors.Is(err, ErrInvalidOTP) {
			return nil, ErrInvalidOTP
		}

		return nil, fmt.Errorf("consuming OTP session: %w", err)
	}

	u, created, err := s.users.FindOrCreate(ctx, mobile)
	if err != nil {
		return nil, err
	}

	token, err := s.tokens.Issue(u)
	if err != nil {
		return nil, err
	}

	login := &Login{AccessToken: token, User: u, IsNewUser: created, Next: NextHome}
	if !u.Registered() {
		login.Next = NextRegister
	}

	s.logger.Info("user signed in", zap.String("user_id", u.ID.String()), zap.Bool("new_user", created))

	return login, nil
}

// Register completes the profile of the signed-in user.
func (s *Service) Register(ctx context.Context, userID uuid.UUID, name, state string) (*user.User, error) {
	return s.users.Register(ctx, userID, name, state)
}
