package handlers

import (
	"net/url"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/example/storefront/internal/config"
	"github.com/example/storefront/internal/models"
	"github.com/example/storefront/internal/services"
	"github.com/example/storefront/internal/utils"
)

const otpSentMessage = "We send you a verification code to your email."

// AuthHandler bundles the OTP and identity services behind the guest-only
// authentication endpoints.
type AuthHandler struct {
	otp  *services.OTPService
	auth *services.AuthService
	cfg  *config.Config
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(otp *services.OTPService, auth *services.AuthService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{otp: otp, auth: auth, cfg: cfg}
}

type sendOTPRequest struct {
	Email          string `json:"email" validate:"required,email"`
	VerificationID string `json:"verification_id"`
}

// SendOTP creates a verification record, or with ?resend=true regenerates
// the code of an existing one.
func (h *AuthHandler) SendOTP(c *fiber.Ctx) error {
	var req sendOTPRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if fields := utils.ValidateStruct(req); fields != nil {
		return utils.ValidationError(c, fields)
	}

	if c.Query("resend") == "true" {
		id, err := uuid.Parse(req.VerificationID)
		if err != nil {
			return services.ErrVerificationNotFound
		}
		if err := h.otp.Resend(id); err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"verification_id": req.VerificationID,
			"message":         otpSentMessage,
		})
	}

	verification, err := h.otp.Generate(req.Email)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"verification_id": verification.ID,
		"message":         otpSentMessage,
	})
}

type verifyOTPRequest struct {
	VerificationID   string `json:"verification_id" validate:"required"`
	VerificationCode int    `json:"verification_code" validate:"required"`
}

// VerifyOTP consumes a code and exchanges the verified email for an access
// token, creating the account on first verification.
func (h *AuthHandler) VerifyOTP(c *fiber.Ctx) error {
	var req verifyOTPRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if fields := utils.ValidateStruct(req); fields != nil {
		return utils.ValidationError(c, fields)
	}

	id, err := uuid.Parse(req.VerificationID)
	if err != nil {
		return services.ErrVerificationNotFound
	}

	email, err := h.otp.Verify(id, req.VerificationCode)
	if err != nil {
		return err
	}

	token, err := h.auth.Authenticate(email, models.ProviderEmail)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"token":   token,
		"message": "Email verified successfully!",
	})
}

// Redirect returns the stateless authorize URL for an external identity
// provider.
func (h *AuthHandler) Redirect(c *fiber.Ctx) error {
	var redirect string

	switch c.Params("provider") {
	case models.ProviderGoogle:
		q := url.Values{}
		q.Set("client_id", h.cfg.GoogleClientID)
		q.Set("redirect_uri", h.cfg.GoogleRedirectURL)
		q.Set("response_type", "code")
		q.Set("scope", "openid email profile")
		redirect = "https://accounts.google.com/o/oauth2/v2/auth?" + q.Encode()
	case models.ProviderFacebook:
		q := url.Values{}
		q.Set("client_id", h.cfg.FacebookClientID)
		q.Set("redirect_uri", h.cfg.FacebookRedirectURL)
		q.Set("scope", "email")
		redirect = "https://www.facebook.com/v18.0/dialog/oauth?" + q.Encode()
	default:
		return services.ErrInvalidProvider
	}

	return c.Status(fiber.StatusTemporaryRedirect).JSON(fiber.Map{
		"redirect": redirect,
	})
}
