package services

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/example/storefront/internal/config"
	"github.com/example/storefront/internal/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Verification{},
		&models.Product{},
		&models.Order{},
		&models.OrderItem{},
	))

	return db
}

func newTestConfig() *config.Config {
	return &config.Config{
		JWTSecret:    "test-secret",
		TokenExpires: time.Hour,
		OTPExpires:   10 * time.Minute,
	}
}

func createUser(t *testing.T, db *gorm.DB, email, role string) *models.User {
	t.Helper()

	user := models.User{Email: email, Provider: models.ProviderEmail, Role: role}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func createProduct(t *testing.T, db *gorm.DB, name string, price float64) *models.Product {
	t.Helper()

	product := models.Product{Name: name, Price: price, Image: "images/products/" + name + ".png"}
	require.NoError(t, db.Create(&product).Error)
	return &product
}
