package services

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/storefront/internal/models"
)

// UserService manages profile mutations.
type UserService struct {
	db *gorm.DB
}

// NewUserService constructs a UserService.
func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// ProfileSetup carries the fields a user fills in to complete their profile.
type ProfileSetup struct {
	Firstname     string
	Lastname      string
	ContactNumber string
	Address       string
}

// SetupProfile writes the profile fields and marks the account as set up.
func (s *UserService) SetupProfile(userID uuid.UUID, setup ProfileSetup) error {
	return s.db.Model(&models.User{}).Where("id = ?", userID).Updates(map[string]interface{}{
		"firstname":      setup.Firstname,
		"lastname":       setup.Lastname,
		"contact_number": setup.ContactNumber,
		"address":        setup.Address,
		"is_setup":       true,
	}).Error
}
