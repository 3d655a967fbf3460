package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func inventoryRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "name", "category", "price",
		"stock_quantity", "low_stock_threshold", "track_inventory",
		"is_low_stock", "is_out_of_stock", "updated_at",
	})
}

func TestGetInventory_ReturnsItemsAndAlerts(t *testing.T) {
	h, mock := newTestHandlers(t)

	now := time.Now()
	mock.ExpectQuery("FROM products").
		WillReturnRows(inventoryRows().
			AddRow(1, "Solar Lamp", "solar-products", 10.0, 0, 5, true, true, true, now).
			AddRow(2, "Laptop", "computers", 900.0, 20, 5, true, false, false, now))
	mock.ExpectQuery("FROM services").
		WillReturnRows(inventoryRows().
			AddRow(3, "Consultation", "consultation", 50.0, 2, 5, true, true, false, now))
	mock.ExpectQuery("UNION ALL").
		WillReturnRows(sqlmock.NewRows([]string{"type", "out_of_stock", "low_stock"}).
			AddRow("product", 1, 0).
			AddRow("service", 0, 1))

	c, w := newTestContext(t, http.MethodGet, "/admin/inventory", nil)
	h.GetInventory(c)

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)

	products := body["products"].([]any)
	require.Len(t, products, 2)
	assert.Equal(t, true, products[0].(map[string]any)["is_out_of_stock"])

	alerts := body["alerts"].([]any)
	require.Len(t, alerts, 2)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateInventory_ZeroStockWithTrackingReadsOutOfStock(t *testing.T) {
	h, mock := newTestHandlers(t)

	mock.ExpectExec("UPDATE products SET").
		WithArgs(0, true, int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("FROM products").
		WithArgs(int64(5)).
		WillReturnRows(inventoryRows().
			AddRow(5, "Solar Lamp", "solar-products", 10.0, 0, 5, true, true, true, time.Now()))

	c, w := newTestContext(t, http.MethodPut, "/admin/inventory", map[string]any{
		"type":            "product",
		"id":              5,
		"stock_quantity":  0,
		"track_inventory": true,
	})
	h.UpdateInventory(c)

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	product := body["product"].(map[string]any)
	assert.Equal(t, true, product["is_out_of_stock"])
	assert.Equal(t, float64(0), product["stock_quantity"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateInventory_RejectsUnknownType(t *testing.T) {
	h, _ := newTestHandlers(t)

	c, w := newTestContext(t, http.MethodPut, "/admin/inventory", map[string]any{
		"type":           "subscription",
		"id":             5,
		"stock_quantity": 1,
	})
	h.UpdateInventory(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid type. Must be 'product' or 'service'", decodeBody(t, w)["error"])
}

func TestUpdateInventory_RequiresTypeAndID(t *testing.T) {
	h, _ := newTestHandlers(t)

	c, w := newTestContext(t, http.MethodPut, "/admin/inventory", map[string]any{
		"stock_quantity": 1,
	})
	h.UpdateInventory(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Missing required fields: type, id", decodeBody(t, w)["error"])
}

func TestUpdateInventory_RequiresAtLeastOneField(t *testing.T) {
	h, _ := newTestHandlers(t)

	c, w := newTestContext(t, http.MethodPut, "/admin/inventory", map[string]any{
		"type": "service",
		"id":   3,
	})
	h.UpdateInventory(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "No fields to update", decodeBody(t, w)["error"])
}

func TestUpdateInventory_MissingItem(t *testing.T) {
	h, mock := newTestHandlers(t)

	mock.ExpectExec("UPDATE services SET").
		WithArgs(10, int64(404)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("FROM services").
		WithArgs(int64(404)).
		WillReturnRows(inventoryRows())

	c, w := newTestContext(t, http.MethodPut, "/admin/inventory", map[string]any{
		"type":           "service",
		"id":             404,
		"stock_quantity": 10,
	})
	h.UpdateInventory(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "service not found", decodeBody(t, w)["error"])
	require.NoError(t, mock.ExpectationsWereMet())
}
