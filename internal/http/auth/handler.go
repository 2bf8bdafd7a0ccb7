package auth

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/mandi/internal/auth"
	"github.com/MrJamesThe3rd/mandi/internal/http/respond"
	"github.com/MrJamesThe3rd/mandi/internal/user"
)

//go:generate mockgen -source=handler.go -destination=service_mock.go -package=auth
type Service interface {
	SendOTP(ctx context.Context, mobile string) (*auth.SendResult, error)
	VerifyOTP(ctx context.Context, mobile, code string) (*auth.Login, error)
	Register(ctx context.Context, userID uuid.UUID, name, state string) (*user.User, error)
}

type Handler struct {
	svc          Service
	authenticate func(http.Handler) http.Handler
}

// NewHandler wires the OTP flow. authenticate guards the registration step, which
// needs the token handed out by verify-otp.
func NewHandler(svc Service, authenticate func(http.Handler) http.Handler) *Handler {
	return &Handler{svc: svc, authenticate: authenticate}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/send-otp", h.sendOTP)
	r.Post("/verify-otp", h.verifyOTP)
	r.With(h.authenticate).Post("/register", h.register)
}

type sendOTPRequest struct {
	MobileNumber string `json:"mobileNumber" validate:"required"`
}

func (h *Handler) sendOTP(w http.ResponseWriter, r *http.Request) {
	var req sendOTPRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Err(w, r, err)
		return
	}

	res, err := h.svc.SendOTP(r.Context(), req.MobileNumber)
	if err != nil {
		respond.Err(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, res)
}

type verifyOTPRequest struct {
	MobileNumber string `json:"mobileNumber" validate:"required"`
	OTP          string `json:"otp" validate:"required"`
}

type loginResponse struct {
	AccessToken string       `json:"accessToken"`
	User        userResponse `json:"user"`
	IsNewUser   bool         `json:"isNewUser"`
	Next        string       `json:"next"`
}

func (h *Handler) verifyOTP(w http.ResponseWriter, r *http.Request) {
	var req verifyOTPRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Err(w, r, err)
		return
	}

	login, err := h.svc.VerifyOTP(r.Context(), req.MobileNumber, req.OTP)
	if err != nil {
		respond.Err(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, loginResponse{
		AccessToken: login.AccessToken,
		User:        toUserResponse(login.User),
		IsNewUser:   login.IsNewUser,
		Next:        login.Next,
	})
}

type registerRequest struct {
	Name  string `json:"name" validate:"required"`
	State string `json:"state" validate:"required"`
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFrom(r.Context())
	if !ok {
		respond.Err(w, r, auth.ErrUnauthorized)
		return
	}

	userID, err := claims.UserID()
	if err != nil {
		respond.Err(w, r, fmt.Errorf("%w: token subject is not a user id", auth.ErrUnauthorized))
		return
	}

	var req registerRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Err(w, r, err)
		return
	}

	u, err := h.svc.Register(r.Context(), userID, req.Name, req.State)
	if err != nil {
		respond.Err(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, map[string]any{
		"user": toUserResponse(u),
		"next": auth.NextHome,
	})
}
