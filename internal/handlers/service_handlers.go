package handlers

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/comfortdesignszw-mny/ecommerce-web/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/gosimple/slug"
)

//
// --- Service Handlers ---
//

const serviceColumns = `id, name, slug, description, price, image_url, category,
	is_most_requested,
	stock_quantity, low_stock_threshold, track_inventory,
	created_at, updated_at`

func scanService(row interface{ Scan(...any) error }) (models.Service, error) {
	var s models.Service
	var description, imageURL sql.NullString

	err := row.Scan(
		&s.ID, &s.Name, &s.Slug, &description, &s.Price, &imageURL, &s.Category,
		&s.IsMostRequested,
		&s.StockQuantity, &s.LowStockThreshold, &s.TrackInventory,
		&s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return models.Service{}, err
	}

	if description.Valid {
		s.Description = &description.String
	}
	if imageURL.Valid {
		s.ImageURL = &imageURL.String
	}
	return s, nil
}

// ListServices is the handler for GET /services (public).
// Optional filters: ?category=, ?most_requested=true.
func (h *Handlers) ListServices(c *gin.Context) {
	query := "SELECT " + serviceColumns + " FROM services WHERE 1=1"
	var args []any

	if category := c.Query("category"); category != "" {
		query += " AND category = ?"
		args = append(args, category)
	}
	if c.Query("most_requested") == "true" {
		query += " AND is_most_requested = TRUE"
	}
	query += " ORDER BY created_at DESC"

	rows, err := h.DB.Query(query, args...)
	if err != nil {
		slog.Error("failed to query services", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}
	defer rows.Close()

	services := []models.Service{}
	for rows.Next() {
		s, err := scanService(rows)
		if err != nil {
			slog.Error("failed to scan service", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
			return
		}
		services = append(services, s)
	}
	if err := rows.Err(); err != nil {
		slog.Error("error iterating services", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"services": services})
}

// GetService is the handler for GET /services/:id (public).
func (h *Handlers) GetService(c *gin.Context) {
	row := h.DB.QueryRow(
		"SELECT "+serviceColumns+" FROM services WHERE id = ?", c.Param("id"))

	s, err := scanService(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Service not found"})
			return
		}
		slog.Error("failed to fetch service", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"service": s})
}

// CreateServiceInput defines the JSON for creating a service.
type CreateServiceInput struct {
	Name              string   `json:"name" binding:"required"`
	Description       *string  `json:"description"`
	Price             *float64 `json:"price" binding:"required,gt=0"`
	ImageURL          *string  `json:"image_url"`
	Category          string   `json:"category" binding:"required"`
	IsMostRequested   bool     `json:"is_most_requested"`
	StockQuantity     int      `json:"stock_quantity" binding:"gte=0"`
	LowStockThreshold *int     `json:"low_stock_threshold" binding:"omitempty,gte=0"`
	TrackInventory    bool     `json:"track_inventory"`
}

// CreateService is the handler for POST /services.
func (h *Handlers) CreateService(c *gin.Context) {
	var input CreateServiceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields: name, price, category"})
		return
	}

	if !models.IsValidServiceCategory(input.Category) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category"})
		return
	}

	lowStock := 5
	if input.LowStockThreshold != nil {
		lowStock = *input.LowStockThreshold
	}

	result, err := h.DB.Exec(`
		INSERT INTO services
			(name, slug, description, price, image_url, category,
			 is_most_requested,
			 stock_quantity, low_stock_threshold, track_inventory)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		input.Name, slug.Make(input.Name), input.Description, *input.Price,
		input.ImageURL, input.Category,
		input.IsMostRequested,
		input.StockQuantity, lowStock, input.TrackInventory)
	if err != nil {
		slog.Error("failed to insert service", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}

	id, err := result.LastInsertId()
	if err != nil {
		slog.Error("failed to get new service id", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}

	row := h.DB.QueryRow("SELECT "+serviceColumns+" FROM services WHERE id = ?", id)
	s, err := scanService(row)
	if err != nil {
		slog.Error("failed to fetch created service", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"service": s})
}

var serviceUpdateFields = []string{
	"name", "description", "price", "image_url", "category", "is_most_requested",
}

// UpdateService is the handler for PUT /services/:id.
func (h *Handlers) UpdateService(c *gin.Context) {
	id := c.Param("id")

	var body map[string]any
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	setClauses := []string{}
	var args []any
	for _, field := range serviceUpdateFields {
		if value, ok := body[field]; ok {
			setClauses = append(setClauses, fmt.Sprintf("%s = ?", field))
			args = append(args, value)
			if field == "name" {
				setClauses = append(setClauses, "slug = ?")
				name, _ := value.(string)
				args = append(args, slug.Make(name))
			}
		}
	}

	if len(setClauses) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No fields to update"})
		return
	}

	if category, ok := body["category"].(string); ok {
		if !models.IsValidServiceCategory(category) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category"})
			return
		}
	}

	setClauses = append(setClauses, "updated_at = NOW()")
	args = append(args, id)

	query := fmt.Sprintf("UPDATE services SET %s WHERE id = ?", strings.Join(setClauses, ", "))
	if _, err := h.DB.Exec(query, args...); err != nil {
		slog.Error("failed to update service", "error", err, "id", id)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}

	row := h.DB.QueryRow("SELECT "+serviceColumns+" FROM services WHERE id = ?", id)
	s, err := scanService(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Service not found"})
			return
		}
		slog.Error("failed to fetch updated service", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"service": s})
}

// DeleteService is the handler for DELETE /services/:id.
func (h *Handlers) DeleteService(c *gin.Context) {
	result, err := h.DB.Exec("DELETE FROM services WHERE id = ?", c.Param("id"))
	if err != nil {
		slog.Error("failed to delete service", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Service not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Service deleted successfully"})
}
