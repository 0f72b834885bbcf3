package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/fieldreport-auth/internal/api/dto"
	"github.com/spec-kit/fieldreport-auth/internal/domain"
	"github.com/spec-kit/fieldreport-auth/internal/service"
	apperrors "github.com/spec-kit/fieldreport-auth/pkg/util"
)

// Success messages.
const (
	MsgUserCreated    = "User created successfully"
	MsgOTPSent        = "OTP sent successfully"
	MsgSignupPending  = "User is already registered. Sign up is pending."
	MsgSignedIn       = "User signed in successfully"
	MsgSignedUp       = "User signed up successfully"
	MsgOTPResent      = "OTP resend successfully"
	MsgTokenRefreshed = "Token refreshed successfully"
	MsgLoggedOut      = "Logged out successfully"
)

// AuthHandler exposes the phone sign-in endpoints.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// SignIn handles POST /auth/signin. Without a code it sends one; with a
// code it verifies it and either issues tokens or asks for sign-up.
func (h *AuthHandler) SignIn(c *fiber.Ctx) error {
	var req dto.SignInRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewBadRequest(dto.MsgInvalidPayload)
	}
	if err := req.Validate(); err != nil {
		return err
	}

	res, err := h.auth.SignIn(c.UserContext(), req.PhoneNumber, req.Code)
	if err != nil {
		return err
	}

	switch {
	case res.Tokens != nil:
		return c.JSON(dto.Envelope{
			Message: MsgSignedIn,
			Result: dto.SignInResponse{
				AccessToken:           res.Tokens.AccessToken,
				RefreshToken:          res.Tokens.RefreshToken,
				ShowOnboardingModules: res.ShowOnboardingModules,
			},
		})
	case res.Action == domain.ActionProceedWithSignup:
		return c.JSON(dto.Envelope{Message: MsgSignupPending, Result: dto.ActionResponse{Action: res.Action}})
	case res.Created:
		return c.Status(http.StatusCreated).JSON(dto.Envelope{Message: MsgUserCreated, Result: dto.ActionResponse{Action: res.Action}})
	default:
		return c.JSON(dto.Envelope{Message: MsgOTPSent, Result: dto.ActionResponse{Action: res.Action}})
	}
}

// SignUp handles POST /auth/signup.
func (h *AuthHandler) SignUp(c *fiber.Ctx) error {
	var req dto.SignupRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewBadRequest(dto.MsgInvalidPayload)
	}
	if err := req.Validate(); err != nil {
		return err
	}

	res, err := h.auth.CompleteSignup(c.UserContext(), service.SignupInput{
		PhoneNumber: req.PhoneNumber,
		Profile:     req.Profile(),
		ExpiresIn:   req.ExpiresInString(),
	})
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(dto.Envelope{
		Message: MsgSignedUp,
		Result: dto.SignInResponse{
			AccessToken:           res.Tokens.AccessToken,
			RefreshToken:          res.Tokens.RefreshToken,
			ShowOnboardingModules: res.ShowOnboardingModules,
		},
	})
}

// Resend handles POST /auth/resend.
func (h *AuthHandler) Resend(c *fiber.Ctx) error {
	var req dto.ResendRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewBadRequest(dto.MsgInvalidPayload)
	}
	if err := req.Validate(); err != nil {
		return err
	}

	if err := h.auth.ResendCode(c.UserContext(), req.PhoneNumber); err != nil {
		return err
	}
	return c.JSON(dto.Envelope{Message: MsgOTPResent})
}

// RefreshToken handles POST /auth/refresh-token.
func (h *AuthHandler) RefreshToken(c *fiber.Ctx) error {
	var req dto.RefreshTokenRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewBadRequest(dto.MsgInvalidPayload)
	}
	if err := req.Validate(); err != nil {
		return err
	}

	access, err := h.auth.Refresh(c.UserContext(), req.RefreshToken)
	if err != nil {
		return err
	}
	return c.JSON(dto.Envelope{Message: MsgTokenRefreshed, Result: access})
}

// Logout handles POST /auth/logout. Every refresh credential of the owner is revoked.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	var req dto.RefreshTokenRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewBadRequest(dto.MsgInvalidPayload)
	}
	if err := req.Validate(); err != nil {
		return apperrors.NewValidationError(dto.MsgLogoutInvalid, nil)
	}

	if err := h.auth.Logout(c.UserContext(), req.RefreshToken); err != nil {
		return err
	}
	return c.JSON(dto.Envelope{Message: MsgLoggedOut})
}
