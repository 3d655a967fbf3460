package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func productRow(id int64, name, slugVal, category string, price float64, stock int) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "name", "slug", "description", "price", "image_url", "category",
		"is_new_arrival", "is_hot_sale", "sale_percent",
		"stock_quantity", "low_stock_threshold", "track_inventory",
		"created_at", "updated_at",
	}).AddRow(id, name, slugVal, nil, price, nil, category,
		false, false, 0.0, stock, 5, true, now, now)
}

func TestListProducts_CategoryFilter(t *testing.T) {
	h, mock := newTestHandlers(t)

	mock.ExpectQuery("FROM products").
		WithArgs("solar-products").
		WillReturnRows(productRow(4, "100W Solar Panel", "100w-solar-panel", "solar-products", 120, 8))

	c, w := newTestContext(t, http.MethodGet, "/products?category=solar-products", nil)
	h.ListProducts(c)

	require.Equal(t, http.StatusOK, w.Code)
	products := decodeBody(t, w)["products"].([]any)
	require.Len(t, products, 1)
	assert.Equal(t, "100W Solar Panel", products[0].(map[string]any)["name"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetProduct_NotFound(t *testing.T) {
	h, mock := newTestHandlers(t)

	mock.ExpectQuery("FROM products").
		WithArgs("99").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	c, w := newTestContext(t, http.MethodGet, "/products/99", nil)
	c.Params = gin.Params{{Key: "id", Value: "99"}}
	h.GetProduct(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Product not found", decodeBody(t, w)["error"])
}

func TestCreateProduct_Success(t *testing.T) {
	h, mock := newTestHandlers(t)

	mock.ExpectExec("INSERT INTO products").
		WillReturnResult(sqlmock.NewResult(4, 1))
	mock.ExpectQuery("FROM products").
		WithArgs(int64(4)).
		WillReturnRows(productRow(4, "100W Solar Panel", "100w-solar-panel", "solar-products", 120, 8))

	c, w := newTestContext(t, http.MethodPost, "/products", map[string]any{
		"name":            "100W Solar Panel",
		"price":           120.0,
		"category":        "solar-products",
		"stock_quantity":  8,
		"track_inventory": true,
	})
	h.CreateProduct(c)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	product := decodeBody(t, w)["product"].(map[string]any)
	assert.Equal(t, "100w-solar-panel", product["slug"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateProduct_InvalidCategory(t *testing.T) {
	h, _ := newTestHandlers(t)

	c, w := newTestContext(t, http.MethodPost, "/products", map[string]any{
		"name":     "Mystery Box",
		"price":    9.99,
		"category": "mystery",
	})
	h.CreateProduct(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid category", decodeBody(t, w)["error"])
}

func TestCreateProduct_MissingRequiredFields(t *testing.T) {
	h, _ := newTestHandlers(t)

	c, w := newTestContext(t, http.MethodPost, "/products", map[string]any{
		"name": "No price or category",
	})
	h.CreateProduct(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateProduct_SyncsSlugOnRename(t *testing.T) {
	h, mock := newTestHandlers(t)

	mock.ExpectExec("UPDATE products SET").
		WithArgs("Bluetooth Speaker XL", "bluetooth-speaker-xl", "7").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("FROM products").
		WithArgs("7").
		WillReturnRows(productRow(7, "Bluetooth Speaker XL", "bluetooth-speaker-xl", "bluetooth-speakers", 45, 3))

	c, w := newTestContext(t, http.MethodPut, "/products/7", map[string]any{
		"name": "Bluetooth Speaker XL",
	})
	c.Params = gin.Params{{Key: "id", Value: "7"}}
	h.UpdateProduct(c)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	product := decodeBody(t, w)["product"].(map[string]any)
	assert.Equal(t, "bluetooth-speaker-xl", product["slug"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateProduct_NoFields(t *testing.T) {
	h, _ := newTestHandlers(t)

	c, w := newTestContext(t, http.MethodPut, "/products/7", map[string]any{
		"stock_quantity": 50, // inventory fields go through /admin/inventory, not here
	})
	c.Params = gin.Params{{Key: "id", Value: "7"}}
	h.UpdateProduct(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "No fields to update", decodeBody(t, w)["error"])
}

func TestDeleteProduct_NotFound(t *testing.T) {
	h, mock := newTestHandlers(t)

	mock.ExpectExec("DELETE FROM products").
		WithArgs("99").
		WillReturnResult(sqlmock.NewResult(0, 0))

	c, w := newTestContext(t, http.MethodDelete, "/products/99", nil)
	c.Params = gin.Params{{Key: "id", Value: "99"}}
	h.DeleteProduct(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteProduct_Success(t *testing.T) {
	h, mock := newTestHandlers(t)

	mock.ExpectExec("DELETE FROM products").
		WithArgs("7").
		WillReturnResult(sqlmock.NewResult(0, 1))

	c, w := newTestContext(t, http.MethodDelete, "/products/7", nil)
	c.Params = gin.Params{{Key: "id", Value: "7"}}
	h.DeleteProduct(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Product deleted successfully", decodeBody(t, w)["message"])
}
