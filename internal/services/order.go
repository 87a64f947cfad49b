package services

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/storefront/internal/models"
)

// StatusFilterAll widens a listing to every status.
const StatusFilterAll = "all"

// ErrOrderNotFound is returned when an order id resolves to nothing.
var ErrOrderNotFound = fiber.NewError(fiber.StatusNotFound, "Order not found!")

// OrderService prices carts against the live catalog and manages order
// persistence and lifecycle updates.
type OrderService struct {
	db *gorm.DB
}

// NewOrderService constructs an OrderService.
func NewOrderService(db *gorm.DB) *OrderService {
	return &OrderService{db: db}
}

// CartLine is one client-submitted cart entry. Quantity below 1 means the
// client omitted it and defaults to 1.
type CartLine struct {
	ProductID string
	Quantity  int
}

// OrderInput is everything needed to price and persist a new order.
type OrderInput struct {
	Cart    []CartLine
	Payment string
	Message string
}

// OrderFilter selects orders for a listing.
type OrderFilter struct {
	Status    string
	ViewScope string
}

// OrderUpdate is a partial update; nil fields are left untouched.
type OrderUpdate struct {
	Payment *string
	Status  *string
	Message *string
}

// CreateOrder recomputes every line total from the current catalog, never
// trusting client-side prices, and persists the order with its items in one
// transaction. Cart lines whose product id does not resolve are dropped
// without error.
func (s *OrderService) CreateOrder(input OrderInput, user *models.User) (*models.Order, error) {
	ids := make([]uuid.UUID, 0, len(input.Cart))
	for _, line := range input.Cart {
		if id, err := uuid.Parse(line.ProductID); err == nil {
			ids = append(ids, id)
		}
	}

	catalog := make(map[uuid.UUID]models.Product, len(ids))
	if len(ids) > 0 {
		var products []models.Product
		if err := s.db.Find(&products, "id IN ?", ids).Error; err != nil {
			return nil, err
		}
		for _, product := range products {
			catalog[product.ID] = product
		}
	}

	order := models.Order{
		UserID:  user.ID,
		Payment: input.Payment,
		Status:  models.OrderStatusPending,
		Message: input.Message,
	}

	var grandTotal float64
	for _, line := range input.Cart {
		id, err := uuid.Parse(line.ProductID)
		if err != nil {
			continue
		}
		product, ok := catalog[id]
		if !ok {
			continue
		}

		quantity := line.Quantity
		if quantity < 1 {
			quantity = 1
		}

		totalPrice := product.Price * float64(quantity)
		order.Items = append(order.Items, models.OrderItem{
			ProductID:  product.ID,
			Quantity:   quantity,
			TotalPrice: totalPrice,
		})
		grandTotal += totalPrice
	}
	order.GrandTotal = grandTotal

	// Order and items land together or not at all.
	if err := s.db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&order).Error
	}); err != nil {
		return nil, err
	}

	return s.GetOrderByID(order.ID)
}

// GetOrderByID loads an order with its items and their products attached.
func (s *OrderService) GetOrderByID(id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := s.db.Preload("Items.Product").First(&order, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}

// GetOrdersByStatus lists orders for the filter. Anything but an admin view
// scope is pinned to the requester's own orders, no matter what scope the
// caller claimed.
func (s *OrderService) GetOrdersByStatus(filter OrderFilter, user *models.User) ([]models.Order, error) {
	query := s.db.Model(&models.Order{}).
		Preload("User").
		Preload("Items.Product")

	if filter.Status != StatusFilterAll {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.ViewScope != models.RoleAdmin {
		query = query.Where("user_id = ?", user.ID)
	}

	var orders []models.Order
	if err := query.Order("created_at desc").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// UpdateOrderFields applies a partial payment/status/message update. The
// caller has already passed the coarse owner-or-admin check; status changes
// are re-checked here against the per-status policy so an owner cannot
// accept their own order through this path.
func (s *OrderService) UpdateOrderFields(update OrderUpdate, order *models.Order, user *models.User) error {
	fields := map[string]interface{}{}
	if update.Payment != nil {
		fields["payment"] = *update.Payment
	}
	if update.Status != nil {
		if !CanSetStatus(user, order, *update.Status) {
			return ErrUnauthorized
		}
		fields["status"] = *update.Status
	}
	if update.Message != nil {
		fields["message"] = *update.Message
	}

	if len(fields) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "No fields to update")
	}

	return s.db.Model(order).Updates(fields).Error
}
