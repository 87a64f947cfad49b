package handlers

import (
	"errors"
	"mime/multipart"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/storefront/internal/config"
	"github.com/example/storefront/internal/models"
	"github.com/example/storefront/internal/utils"
)

// ProductHandler manages the public catalog listing and the admin product
// endpoints.
type ProductHandler struct {
	db  *gorm.DB
	cfg *config.Config
}

// NewProductHandler constructs a ProductHandler.
func NewProductHandler(db *gorm.DB, cfg *config.Config) *ProductHandler {
	return &ProductHandler{db: db, cfg: cfg}
}

// GetAllProducts returns the full catalog.
func (h *ProductHandler) GetAllProducts(c *fiber.Ctx) error {
	var products []models.Product
	if err := h.db.Order("created_at desc").Find(&products).Error; err != nil {
		return err
	}

	data := make([]fiber.Map, 0, len(products))
	for _, product := range products {
		data = append(data, h.productResponse(c, product))
	}

	return c.JSON(fiber.Map{"data": data})
}

type addProductRequest struct {
	Name  string  `form:"name" validate:"required"`
	Price float64 `form:"price" validate:"required,min=1"`
}

// AddProduct creates a catalog entry from a multipart form with an image
// upload.
func (h *ProductHandler) AddProduct(c *fiber.Ctx) error {
	var req addProductRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if fields := utils.ValidateStruct(req); fields != nil {
		return utils.ValidationError(c, fields)
	}

	file, err := c.FormFile("image")
	if err != nil {
		return utils.ValidationError(c, map[string]string{"image": "this field is required"})
	}

	image, err := h.storeImage(c, file)
	if err != nil {
		return err
	}

	product := models.Product{Name: req.Name, Price: req.Price, Image: image}
	if err := h.db.Create(&product).Error; err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Product added successfully!",
		"data":    h.productResponse(c, product),
	})
}

type editProductRequest struct {
	ID    string  `form:"id" validate:"required,uuid"`
	Name  string  `form:"name" validate:"required"`
	Price float64 `form:"price" validate:"required,min=1"`
}

// imageSource is the resolved image input of an edit: either an
// already-hosted URL or a fresh upload, decided once at the boundary.
type imageSource struct {
	url    string
	upload *multipart.FileHeader
}

// EditProduct upserts a catalog entry by id. The image_url field carries
// either the product's existing hosted URL or a replacement upload.
func (h *ProductHandler) EditProduct(c *fiber.Ctx) error {
	var req editProductRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if fields := utils.ValidateStruct(req); fields != nil {
		return utils.ValidationError(c, fields)
	}

	source, ok := resolveImageSource(c)
	if !ok {
		return utils.ValidationError(c, map[string]string{
			"image_url": "must be a valid URL or an image file",
		})
	}

	image := ""
	if source.upload != nil {
		stored, err := h.storeImage(c, source.upload)
		if err != nil {
			return err
		}
		image = stored
	}

	id := uuid.MustParse(req.ID)
	product, err := h.upsertProduct(id, req.Name, req.Price, image)
	if err != nil {
		return err
	}

	imageURL := source.url
	if source.upload != nil {
		imageURL = h.baseURL(c) + "/storage/" + product.Image
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Product edit successfully!",
		"data": fiber.Map{
			"id":        product.ID,
			"name":      product.Name,
			"price":     product.Price,
			"image_url": imageURL,
		},
	})
}

func (h *ProductHandler) upsertProduct(id uuid.UUID, name string, price float64, image string) (*models.Product, error) {
	var product models.Product
	err := h.db.First(&product, "id = ?", id).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		product = models.Product{Name: name, Price: price, Image: image}
		product.ID = id
		if err := h.db.Create(&product).Error; err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	default:
		updates := map[string]interface{}{"name": name, "price": price}
		if image != "" {
			updates["image"] = image
		}
		if err := h.db.Model(&product).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return &product, nil
}

// resolveImageSource collapses the polymorphic image_url field into an
// explicit variant.
func resolveImageSource(c *fiber.Ctx) (imageSource, bool) {
	if file, err := c.FormFile("image_url"); err == nil && file != nil {
		return imageSource{upload: file}, true
	}

	raw := strings.TrimSpace(c.FormValue("image_url"))
	if raw == "" {
		return imageSource{}, false
	}
	if parsed, err := url.ParseRequestURI(raw); err != nil || parsed.Host == "" {
		return imageSource{}, false
	}
	return imageSource{url: raw}, true
}

func (h *ProductHandler) storeImage(c *fiber.Ctx, file *multipart.FileHeader) (string, error) {
	name := filepath.Join("images", "products", uuid.NewString()+filepath.Ext(file.Filename))
	dest := filepath.Join(h.cfg.StorageDir, name)

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return "", err
	}
	if err := c.SaveFile(file, dest); err != nil {
		return "", err
	}

	return filepath.ToSlash(name), nil
}

func (h *ProductHandler) productResponse(c *fiber.Ctx, product models.Product) fiber.Map {
	imageURL := product.Image
	if imageURL != "" && !strings.HasPrefix(imageURL, "http") {
		imageURL = h.baseURL(c) + "/storage/" + imageURL
	}

	return fiber.Map{
		"id":        product.ID,
		"name":      product.Name,
		"price":     product.Price,
		"image_url": imageURL,
	}
}

func (h *ProductHandler) baseURL(c *fiber.Ctx) string {
	if h.cfg.BaseURL != "" {
		return h.cfg.BaseURL
	}
	return c.Protocol() + "://" + c.Hostname()
}
