package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/example/storefront/internal/middleware"
	"github.com/example/storefront/internal/models"
	"github.com/example/storefront/internal/services"
	"github.com/example/storefront/internal/utils"
)

// OrderHandler manages order listing, creation and lifecycle updates.
type OrderHandler struct {
	orders *services.OrderService
}

// NewOrderHandler constructs an OrderHandler.
func NewOrderHandler(orders *services.OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

type showOrdersRequest struct {
	ViewScope string `json:"view_scope" validate:"required,oneof=customer admin"`
	Status    string `json:"status" validate:"required,oneof=pending canceled declined accepted all"`
}

// ListOrders returns orders matching the status filter. The admin view scope
// is re-validated against the requester's actual role before it widens
// anything.
func (h *OrderHandler) ListOrders(c *fiber.Ctx) error {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req showOrdersRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if fields := utils.ValidateStruct(req); fields != nil {
		return utils.ValidationError(c, fields)
	}

	if req.ViewScope == models.RoleAdmin && !services.CanViewAll(user) {
		return services.ErrUnauthorized
	}

	orders, err := h.orders.GetOrdersByStatus(services.OrderFilter{
		Status:    req.Status,
		ViewScope: req.ViewScope,
	}, user)
	if err != nil {
		return err
	}

	data := make([]fiber.Map, 0, len(orders))
	for _, order := range orders {
		data = append(data, orderResponse(order))
	}

	return c.JSON(fiber.Map{
		"message": "Get " + req.Status + " orders successful!",
		"data":    data,
	})
}

type cartItemRequest struct {
	ID       string `json:"id" validate:"required"`
	Quantity *int   `json:"quantity" validate:"omitempty,min=1"`
}

type paymentRequest struct {
	Code string `json:"code" validate:"required,oneof=cod gcash other"`
}

type createOrderRequest struct {
	Cart    []cartItemRequest `json:"cart" validate:"required,min=1,dive"`
	Message string            `json:"message" validate:"omitempty,max=500"`
	Payment paymentRequest    `json:"payment"`
}

// CreateOrder prices the submitted cart against the catalog and persists the
// order in pending state.
func (h *OrderHandler) CreateOrder(c *fiber.Ctx) error {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req createOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if fields := utils.ValidateStruct(req); fields != nil {
		return utils.ValidationError(c, fields)
	}

	input := services.OrderInput{
		Payment: req.Payment.Code,
		Message: req.Message,
		Cart:    make([]services.CartLine, 0, len(req.Cart)),
	}
	for _, item := range req.Cart {
		quantity := 1
		if item.Quantity != nil {
			quantity = *item.Quantity
		}
		input.Cart = append(input.Cart, services.CartLine{
			ProductID: item.ID,
			Quantity:  quantity,
		})
	}

	order, err := h.orders.CreateOrder(input, user)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Your order is successful. wait seller to respond!",
		"data":    orderResponse(*order),
	})
}

type orderUpdateRequest struct {
	Payment *string `json:"payment" validate:"omitempty,oneof=cod gcash other"`
	Status  *string `json:"status" validate:"omitempty,oneof=pending declined canceled accepted"`
	Message *string `json:"message" validate:"omitempty,max=500"`
}

type updateOrderRequest struct {
	OrderID string             `json:"order_id" validate:"required,uuid"`
	Update  orderUpdateRequest `json:"update"`
}

// UpdateOrder applies a partial update after the coarse owner-or-admin
// check; the per-status policy is enforced again inside the service.
func (h *OrderHandler) UpdateOrder(c *fiber.Ctx) error {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req updateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if fields := utils.ValidateStruct(req); fields != nil {
		return utils.ValidationError(c, fields)
	}

	order, err := h.orders.GetOrderByID(uuid.MustParse(req.OrderID))
	if err != nil {
		return err
	}

	if !services.CanUpdate(user, order) {
		return services.ErrUnauthorized
	}

	if err := h.orders.UpdateOrderFields(services.OrderUpdate{
		Payment: req.Update.Payment,
		Status:  req.Update.Status,
		Message: req.Update.Message,
	}, order, user); err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Order update successful!",
	})
}

func orderResponse(order models.Order) fiber.Map {
	items := make([]fiber.Map, 0, len(order.Items))
	for _, item := range order.Items {
		entry := fiber.Map{
			"id":          item.ID,
			"order_id":    item.OrderID,
			"quantity":    item.Quantity,
			"total_price": item.TotalPrice,
		}
		if item.Product != nil {
			entry["product"] = fiber.Map{
				"id":    item.Product.ID,
				"name":  item.Product.Name,
				"price": item.Product.Price,
			}
		}
		items = append(items, entry)
	}

	return fiber.Map{
		"order_id":    order.ID,
		"payment":     order.Payment,
		"grand_total": order.GrandTotal,
		"status":      order.Status,
		"message":     order.Message,
		"created_at":  order.CreatedAt,
		"updated_at":  order.UpdatedAt,
		"order_items": items,
	}
}
