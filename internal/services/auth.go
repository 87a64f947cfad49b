package services

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/storefront/internal/config"
	"github.com/example/storefront/internal/models"
	"github.com/example/storefront/internal/utils"
)

// ErrInvalidProvider is returned when authentication is attempted with a
// provider that cannot create accounts here.
var ErrInvalidProvider = fiber.NewError(fiber.StatusBadRequest, "Invalid provider")

// AuthService upgrades a verified email into an authenticated session.
type AuthService struct {
	db  *gorm.DB
	cfg *config.Config
}

// NewAuthService constructs an AuthService.
func NewAuthService(db *gorm.DB, cfg *config.Config) *AuthService {
	return &AuthService{db: db, cfg: cfg}
}

// Authenticate looks up the user by (email, provider) and issues an access
// token. Email accounts are created lazily on first authentication; other
// providers only authenticate accounts that already exist.
func (s *AuthService) Authenticate(email, provider string) (string, error) {
	var user models.User
	err := s.db.First(&user, "email = ? AND provider = ?", email, provider).Error
	switch {
	case err == nil:
	case errors.Is(err, gorm.ErrRecordNotFound):
		if provider != models.ProviderEmail {
			return "", ErrInvalidProvider
		}
		user = models.User{
			Email:    email,
			Provider: provider,
			Role:     models.RoleCustomer,
		}
		// FirstOrCreate keyed on the unique (email, provider) pair: a
		// concurrent first login re-fetches instead of double-inserting.
		if err := s.db.Where("email = ? AND provider = ?", email, provider).
			FirstOrCreate(&user).Error; err != nil {
			return "", err
		}
	default:
		return "", err
	}

	return utils.GenerateToken(s.cfg.JWTSecret, user.ID, s.cfg.TokenExpires)
}
