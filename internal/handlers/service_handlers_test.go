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

func serviceRow(id int64, name, slugVal, category string, price float64) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "name", "slug", "description", "price", "image_url", "category",
		"is_most_requested",
		"stock_quantity", "low_stock_threshold", "track_inventory",
		"created_at", "updated_at",
	}).AddRow(id, name, slugVal, nil, price, nil, category, true, 0, 5, false, now, now)
}

func TestListServices_MostRequestedFilter(t *testing.T) {
	h, mock := newTestHandlers(t)

	mock.ExpectQuery("FROM services").
		WillReturnRows(serviceRow(2, "Web Development", "web-development", "web-development", 300))

	c, w := newTestContext(t, http.MethodGet, "/services?most_requested=true", nil)
	h.ListServices(c)

	require.Equal(t, http.StatusOK, w.Code)
	services := decodeBody(t, w)["services"].([]any)
	require.Len(t, services, 1)
	assert.Equal(t, "Web Development", services[0].(map[string]any)["name"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetService_NotFound(t *testing.T) {
	h, mock := newTestHandlers(t)

	mock.ExpectQuery("FROM services").
		WithArgs("99").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	c, w := newTestContext(t, http.MethodGet, "/services/99", nil)
	c.Params = gin.Params{{Key: "id", Value: "99"}}
	h.GetService(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Service not found", decodeBody(t, w)["error"])
}

func TestCreateService_InvalidCategory(t *testing.T) {
	h, _ := newTestHandlers(t)

	c, w := newTestContext(t, http.MethodPost, "/services", map[string]any{
		"name":     "Fortune Telling",
		"price":    50.0,
		"category": "fortune-telling",
	})
	h.CreateService(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid category", decodeBody(t, w)["error"])
}

func TestCreateService_Success(t *testing.T) {
	h, mock := newTestHandlers(t)

	mock.ExpectExec("INSERT INTO services").
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectQuery("FROM services").
		WithArgs(int64(2)).
		WillReturnRows(serviceRow(2, "Web Development", "web-development", "web-development", 300))

	c, w := newTestContext(t, http.MethodPost, "/services", map[string]any{
		"name":     "Web Development",
		"price":    300.0,
		"category": "web-development",
	})
	h.CreateService(c)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	service := decodeBody(t, w)["service"].(map[string]any)
	assert.Equal(t, "web-development", service["slug"])
	require.NoError(t, mock.ExpectationsWereMet())
}
