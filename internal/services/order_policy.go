package services

import (
	"github.com/gofiber/fiber/v2"

	"github.com/example/storefront/internal/models"
)

// ErrUnauthorized is returned by every failed role or ownership check.
var ErrUnauthorized = fiber.NewError(fiber.StatusUnauthorized, "This action is unauthorized!")

// CanSetStatus reports whether the user may move the order to the target
// status. Accepting or declining is an admin capability; pending and
// canceled belong to the order owner. The check is keyed on the target
// status only, not the current one.
func CanSetStatus(user *models.User, order *models.Order, status string) bool {
	switch status {
	case models.OrderStatusAccepted, models.OrderStatusDeclined:
		return user.Role == models.RoleAdmin
	case models.OrderStatusPending, models.OrderStatusCanceled:
		return user.ID == order.UserID
	}
	return false
}

// CanViewAll reports whether the user may list every order in the store.
func CanViewAll(user *models.User) bool {
	return user.Role == models.RoleAdmin
}

// CanView reports whether the user may read the order.
func CanView(user *models.User, order *models.Order) bool {
	return user.ID == order.UserID || user.Role == models.RoleAdmin
}

// CanUpdate reports whether the user may change the order at all; status
// changes are additionally gated by CanSetStatus.
func CanUpdate(user *models.User, order *models.Order) bool {
	return user.ID == order.UserID || user.Role == models.RoleAdmin
}

// CanDelete reports whether the user may delete the order.
func CanDelete(user *models.User, order *models.Order) bool {
	return user.ID == order.UserID || user.Role == models.RoleAdmin
}
