package services

import (
	"crypto/rand"
	"errors"
	"math/big"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/example/storefront/internal/logger"
	"github.com/example/storefront/internal/models"
)

// OTP failure modes, each carrying the HTTP status it renders with.
var (
	ErrVerificationNotFound = fiber.NewError(fiber.StatusNotFound, "Verification OTP not found!")
	ErrVerificationExpired  = fiber.NewError(fiber.StatusConflict, "The verification code is expired!")
	ErrInvalidCode          = fiber.NewError(fiber.StatusBadRequest, "Invalid verification code!")
)

// OTPService generates, resends and verifies one-time passcodes backed by
// the verifications table.
type OTPService struct {
	db   *gorm.DB
	mail *MailService
	ttl  time.Duration
}

// NewOTPService constructs an OTPService.
func NewOTPService(db *gorm.DB, mail *MailService, ttl time.Duration) *OTPService {
	return &OTPService{db: db, mail: mail, ttl: ttl}
}

// Generate persists a fresh verification record for the email and triggers
// delivery of its code.
func (s *OTPService) Generate(email string) (*models.Verification, error) {
	code, err := generateVerificationCode()
	if err != nil {
		return nil, err
	}

	verification := models.Verification{
		Email:     email,
		Code:      code,
		ExpiredAt: time.Now().Add(s.ttl),
	}
	if err := s.db.Create(&verification).Error; err != nil {
		return nil, err
	}

	s.deliver(email, code)
	return &verification, nil
}

// Resend regenerates the code and expiry of an existing unconsumed record.
// The record id stays the same; the previous code stops verifying.
func (s *OTPService) Resend(verificationID uuid.UUID) error {
	verification, err := s.getUnconsumed(verificationID)
	if err != nil {
		return err
	}

	code, err := generateVerificationCode()
	if err != nil {
		return err
	}

	verification.Code = code
	verification.ExpiredAt = time.Now().Add(s.ttl)
	if err := s.db.Save(verification).Error; err != nil {
		return err
	}

	s.deliver(verification.Email, code)
	return nil
}

// Verify consumes the record and returns its email. Expiry is checked before
// the code comparison, so a correct-but-late code still reads as expired.
func (s *OTPService) Verify(verificationID uuid.UUID, code int) (string, error) {
	verification, err := s.getUnconsumed(verificationID)
	if err != nil {
		return "", err
	}

	if time.Now().After(verification.ExpiredAt) {
		return "", ErrVerificationExpired
	}

	if verification.Code != code {
		return "", ErrInvalidCode
	}

	// Conditional update: concurrent verify attempts get at most one winner.
	res := s.db.Model(&models.Verification{}).
		Where("id = ? AND verified = ?", verificationID, false).
		Update("verified", true)
	if res.Error != nil {
		return "", res.Error
	}
	if res.RowsAffected == 0 {
		return "", ErrVerificationNotFound
	}

	return verification.Email, nil
}

func (s *OTPService) getUnconsumed(id uuid.UUID) (*models.Verification, error) {
	var verification models.Verification
	err := s.db.First(&verification, "id = ? AND verified = ?", id, false).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVerificationNotFound
		}
		return nil, err
	}
	return &verification, nil
}

func (s *OTPService) deliver(email string, code int) {
	if s.mail == nil {
		return
	}
	go func() {
		if err := s.mail.SendOTP(email, code); err != nil {
			logger.L().Error("OTP mail delivery failed",
				zap.String("email", email), zap.Error(err))
		}
	}()
}

// generateVerificationCode returns a uniform 5-digit code in [10000, 99999].
func generateVerificationCode() (int, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(90000))
	if err != nil {
		return 0, err
	}
	return int(n.Int64()) + 10000, nil
}
