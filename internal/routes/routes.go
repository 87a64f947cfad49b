package routes

import (
	"errors"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/example/storefront/internal/config"
	"github.com/example/storefront/internal/handlers"
	"github.com/example/storefront/internal/middleware"
	"github.com/example/storefront/internal/services"
)

// NewApp builds the Fiber application with middleware, the error envelope
// and every route registered.
func NewApp(db *gorm.DB, cfg *config.Config) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "Storefront API",
		ErrorHandler: errorHandler,
	})

	app.Use(recover.New())
	app.Use(fiberlogger.New())
	app.Use(middleware.Metrics())

	Register(app, db, cfg)
	return app
}

// Register wires up all HTTP routes.
func Register(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	mail := services.NewMailService(cfg)
	otpService := services.NewOTPService(db, mail, cfg.OTPExpires)
	authService := services.NewAuthService(db, cfg)
	userService := services.NewUserService(db)
	orderService := services.NewOrderService(db)

	authHandler := handlers.NewAuthHandler(otpService, authService, cfg)
	userHandler := handlers.NewUserHandler(userService)
	productHandler := handlers.NewProductHandler(db, cfg)
	orderHandler := handlers.NewOrderHandler(orderService)

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	app.Static("/storage", cfg.StorageDir)

	app.Get("/products/getAll", productHandler.GetAllProducts)

	// Guest routes
	authenticate := app.Group("/authenticate", middleware.GuestOnly(cfg))
	authenticate.Post("/send_otp", authHandler.SendOTP)
	authenticate.Post("/verify_otp", authHandler.VerifyOTP)
	authenticate.Get("/redirect/:provider", authHandler.Redirect)

	// Protected routes
	protected := app.Group("", middleware.AuthMiddleware(db, cfg))

	user := protected.Group("/user")
	user.Get("/", userHandler.GetUser)
	user.Patch("/setup", userHandler.SetupUser)

	order := protected.Group("/order")
	order.Post("/", orderHandler.ListOrders)
	order.Post("/create", orderHandler.CreateOrder)
	order.Post("/update", orderHandler.UpdateOrder)

	// Admin routes
	admin := protected.Group("/products", middleware.RequireAdmin())
	admin.Post("/add", productHandler.AddProduct)
	admin.Post("/edit", productHandler.EditProduct)
}

// errorHandler renders every error through the flat envelope, honoring the
// status carried on fiber errors.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "internal server error"

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		code = fiberErr.Code
		message = fiberErr.Message
	}

	return c.Status(code).JSON(fiber.Map{
		"ok":      false,
		"message": message,
	})
}
