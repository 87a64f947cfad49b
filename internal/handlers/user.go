package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/example/storefront/internal/middleware"
	"github.com/example/storefront/internal/services"
	"github.com/example/storefront/internal/utils"
)

// UserHandler manages the current-user endpoints.
type UserHandler struct {
	users *services.UserService
}

// NewUserHandler constructs a UserHandler.
func NewUserHandler(users *services.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// GetUser returns the authenticated user's profile. The details block only
// appears after profile setup.
func (h *UserHandler) GetUser(c *fiber.Ctx) error {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	resp := fiber.Map{
		"id":       user.ID,
		"email":    user.Email,
		"role":     user.Role,
		"is_setup": user.IsSetup,
		"provider": user.Provider,
	}

	if user.IsSetup {
		resp["details"] = fiber.Map{
			"fullname":       user.Firstname + " " + user.Lastname,
			"firstname":      user.Firstname,
			"lastname":       user.Lastname,
			"address":        user.Address,
			"contact_number": user.ContactNumber,
			"avatar":         user.ProfilePicture,
		}
	}

	return c.JSON(resp)
}

type setupUserRequest struct {
	Firstname     string `json:"firstname" validate:"required"`
	Lastname      string `json:"lastname" validate:"required"`
	ContactNumber string `json:"contact_number" validate:"required"`
	Address       string `json:"address" validate:"required"`
}

// SetupUser completes the profile and flips is_setup.
func (h *UserHandler) SetupUser(c *fiber.Ctx) error {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req setupUserRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if fields := utils.ValidateStruct(req); fields != nil {
		return utils.ValidationError(c, fields)
	}

	if err := h.users.SetupProfile(user.ID, services.ProfileSetup{
		Firstname:     req.Firstname,
		Lastname:      req.Lastname,
		ContactNumber: req.ContactNumber,
		Address:       req.Address,
	}); err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Setup successful!",
	})
}
