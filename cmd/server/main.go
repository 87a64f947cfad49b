package main

import (
	"go.uber.org/zap"

	"github.com/example/storefront/internal/config"
	"github.com/example/storefront/internal/database"
	"github.com/example/storefront/internal/logger"
	"github.com/example/storefront/internal/routes"
)

func main() {
	cfg := config.Load()
	logger.Init(cfg.AppEnv, cfg.LogLevel)
	defer logger.Sync()

	db := database.Connect(cfg.DatabaseURL)
	app := routes.NewApp(db, cfg)

	logger.L().Info("starting server", zap.String("port", cfg.AppPort))
	if err := app.Listen(":" + cfg.AppPort); err != nil {
		logger.L().Fatal("fiber.Listen error", zap.Error(err))
	}
}
