package handlers_test

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/example/storefront/internal/models"
)

func multipartRequest(t *testing.T, target, token string, fields map[string]string, fileField, fileName string) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for key, value := range fields {
		require.NoError(t, writer.WriteField(key, value))
	}
	if fileField != "" {
		part, err := writer.CreateFormFile(fileField, fileName)
		require.NoError(t, err)
		_, err = part.Write([]byte("fake-image-bytes"))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, target, &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func TestGetAllProductsIsPublic(t *testing.T) {
	app, db, _ := newTestApp(t)

	createProduct(t, db, "p1", 10.00)
	createProduct(t, db, "p2", 5.00)

	resp, body := doRequest(t, app, jsonRequest(t, http.MethodGet, "/products/getAll", nil, ""))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	data := body["data"].([]interface{})
	require.Len(t, data, 2)

	entry := data[0].(map[string]interface{})
	require.Contains(t, entry, "image_url")
	require.Contains(t, entry["image_url"], "http://shop.test/storage/")
}

func TestAddProductRequiresAdmin(t *testing.T) {
	app, db, cfg := newTestApp(t)

	customer := createUser(t, db, "c@x.com", models.RoleCustomer)

	resp, _ := doRequest(t, app, multipartRequest(t, "/products/add", authToken(t, cfg, customer),
		map[string]string{"name": "Mug", "price": "25"}, "image", "mug.png"))
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAddProductStoresUpload(t *testing.T) {
	app, db, cfg := newTestApp(t)

	admin := createUser(t, db, "admin@x.com", models.RoleAdmin)

	resp, body := doRequest(t, app, multipartRequest(t, "/products/add", authToken(t, cfg, admin),
		map[string]string{"name": "Mug", "price": "25"}, "image", "mug.png"))
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	data := body["data"].(map[string]interface{})
	require.Equal(t, "Mug", data["name"])
	require.Equal(t, 25.00, data["price"])
	require.Contains(t, data["image_url"], "http://shop.test/storage/images/products/")

	var product models.Product
	require.NoError(t, db.First(&product, "name = ?", "Mug").Error)
	require.NotEmpty(t, product.Image)
}

func TestAddProductValidation(t *testing.T) {
	app, db, cfg := newTestApp(t)

	admin := createUser(t, db, "admin@x.com", models.RoleAdmin)
	token := authToken(t, cfg, admin)

	// Price below 1.
	resp, _ := doRequest(t, app, multipartRequest(t, "/products/add", token,
		map[string]string{"name": "Mug", "price": "0.5"}, "image", "mug.png"))
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	// Missing image.
	resp, body := doRequest(t, app, multipartRequest(t, "/products/add", token,
		map[string]string{"name": "Mug", "price": "25"}, "", ""))
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	require.Contains(t, body, "errors")
}

func TestEditProductWithHostedURL(t *testing.T) {
	app, db, cfg := newTestApp(t)

	admin := createUser(t, db, "admin@x.com", models.RoleAdmin)
	product := createProduct(t, db, "Mug", 25.00)

	resp, body := doRequest(t, app, multipartRequest(t, "/products/edit", authToken(t, cfg, admin),
		map[string]string{
			"id":        product.ID.String(),
			"name":      "Big Mug",
			"price":     "30",
			"image_url": "http://shop.test/storage/images/products/Mug.png",
		}, "", ""))
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	data := body["data"].(map[string]interface{})
	require.Equal(t, "Big Mug", data["name"])
	require.Equal(t, 30.00, data["price"])
	require.Equal(t, "http://shop.test/storage/images/products/Mug.png", data["image_url"])

	var stored models.Product
	require.NoError(t, db.First(&stored, "id = ?", product.ID).Error)
	require.Equal(t, "Big Mug", stored.Name)
	require.Equal(t, 30.00, stored.Price)
	// The hosted URL did not clobber the stored path.
	require.Equal(t, product.Image, stored.Image)
}

func TestEditProductWithNewUpload(t *testing.T) {
	app, db, cfg := newTestApp(t)

	admin := createUser(t, db, "admin@x.com", models.RoleAdmin)
	product := createProduct(t, db, "Mug", 25.00)

	resp, body := doRequest(t, app, multipartRequest(t, "/products/edit", authToken(t, cfg, admin),
		map[string]string{
			"id":    product.ID.String(),
			"name":  "Mug",
			"price": "25",
		}, "image_url", "new-mug.png"))
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	data := body["data"].(map[string]interface{})
	require.Contains(t, data["image_url"], "http://shop.test/storage/images/products/")

	var stored models.Product
	require.NoError(t, db.First(&stored, "id = ?", product.ID).Error)
	require.NotEqual(t, product.Image, stored.Image)
}

func TestEditProductRejectsBadImageInput(t *testing.T) {
	app, db, cfg := newTestApp(t)

	admin := createUser(t, db, "admin@x.com", models.RoleAdmin)
	product := createProduct(t, db, "Mug", 25.00)

	resp, _ := doRequest(t, app, multipartRequest(t, "/products/edit", authToken(t, cfg, admin),
		map[string]string{
			"id":        product.ID.String(),
			"name":      "Mug",
			"price":     "25",
			"image_url": "not a url",
		}, "", ""))
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}
