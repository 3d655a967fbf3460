package handlers

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/comfortdesignszw-mny/ecommerce-web/internal/models"
	"github.com/gin-gonic/gin"
)

//
// --- Admin Inventory Handlers ---
//

// inventoryItem is one row of the admin inventory view, with the stock flags
// computed from the tracking fields.
type inventoryItem struct {
	ID                int64     `json:"id"`
	Name              string    `json:"name"`
	Category          string    `json:"category"`
	Price             float64   `json:"price"`
	StockQuantity     int       `json:"stock_quantity"`
	LowStockThreshold int       `json:"low_stock_threshold"`
	TrackInventory    bool      `json:"track_inventory"`
	IsLowStock        bool      `json:"is_low_stock"`
	IsOutOfStock      bool      `json:"is_out_of_stock"`
	UpdatedAt         time.Time `json:"updated_at"`
}

type inventoryAlert struct {
	Type       string `json:"type"`
	OutOfStock int    `json:"out_of_stock"`
	LowStock   int    `json:"low_stock"`
}

const inventoryItemColumns = `id, name, category, price,
	stock_quantity, low_stock_threshold, track_inventory,
	(track_inventory = TRUE AND stock_quantity <= low_stock_threshold) AS is_low_stock,
	(track_inventory = TRUE AND stock_quantity <= 0) AS is_out_of_stock,
	updated_at`

func (h *Handlers) queryInventoryItems(table string) ([]inventoryItem, error) {
	// Out-of-stock rows first, then low-stock, then alphabetical.
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		ORDER BY
			(track_inventory = TRUE AND stock_quantity <= 0) DESC,
			(track_inventory = TRUE AND stock_quantity <= low_stock_threshold) DESC,
			name ASC`, inventoryItemColumns, table)

	rows, err := h.DB.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s inventory: %w", table, err)
	}
	defer rows.Close()

	items := []inventoryItem{}
	for rows.Next() {
		var item inventoryItem
		if err := rows.Scan(
			&item.ID, &item.Name, &item.Category, &item.Price,
			&item.StockQuantity, &item.LowStockThreshold, &item.TrackInventory,
			&item.IsLowStock, &item.IsOutOfStock,
			&item.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan %s inventory row: %w", table, err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// GetInventory is the handler for GET /admin/inventory.
// It returns the full stock picture for products and services plus an alerts
// summary per item kind.
func (h *Handlers) GetInventory(c *gin.Context) {
	products, err := h.queryInventoryItems("products")
	if err != nil {
		slog.Error("failed to load product inventory", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}

	services, err := h.queryInventoryItems("services")
	if err != nil {
		slog.Error("failed to load service inventory", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}

	alertsQuery := `
		SELECT 'product' AS type,
			COALESCE(SUM(CASE WHEN track_inventory = TRUE AND stock_quantity <= 0 THEN 1 ELSE 0 END), 0) AS out_of_stock,
			COALESCE(SUM(CASE WHEN track_inventory = TRUE AND stock_quantity <= low_stock_threshold AND stock_quantity > 0 THEN 1 ELSE 0 END), 0) AS low_stock
		FROM products
		UNION ALL
		SELECT 'service',
			COALESCE(SUM(CASE WHEN track_inventory = TRUE AND stock_quantity <= 0 THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN track_inventory = TRUE AND stock_quantity <= low_stock_threshold AND stock_quantity > 0 THEN 1 ELSE 0 END), 0)
		FROM services`

	rows, err := h.DB.Query(alertsQuery)
	if err != nil {
		slog.Error("failed to load inventory alerts", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}
	defer rows.Close()

	alerts := []inventoryAlert{}
	for rows.Next() {
		var alert inventoryAlert
		if err := rows.Scan(&alert.Type, &alert.OutOfStock, &alert.LowStock); err != nil {
			slog.Error("failed to scan inventory alert", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
			return
		}
		alerts = append(alerts, alert)
	}
	if err := rows.Err(); err != nil {
		slog.Error("error iterating inventory alerts", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"products": products,
		"services": services,
		"alerts":   alerts,
	})
}

// UpdateInventoryInput defines the JSON for PUT /admin/inventory.
// Pointer fields distinguish "absent" from zero values so partial updates work.
type UpdateInventoryInput struct {
	Type              string `json:"type"`
	ID                int64  `json:"id"`
	StockQuantity     *int   `json:"stock_quantity"`
	LowStockThreshold *int   `json:"low_stock_threshold"`
	TrackInventory    *bool  `json:"track_inventory"`
}

// UpdateInventory is the handler for PUT /admin/inventory.
func (h *Handlers) UpdateInventory(c *gin.Context) {
	var input UpdateInventoryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	if input.Type == "" || input.ID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields: type, id"})
		return
	}
	if input.Type != models.ItemTypeProduct && input.Type != models.ItemTypeService {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid type. Must be 'product' or 'service'"})
		return
	}

	table := "products"
	if input.Type == models.ItemTypeService {
		table = "services"
	}

	setClauses := []string{}
	var args []any
	if input.StockQuantity != nil {
		setClauses = append(setClauses, "stock_quantity = ?")
		args = append(args, *input.StockQuantity)
	}
	if input.LowStockThreshold != nil {
		setClauses = append(setClauses, "low_stock_threshold = ?")
		args = append(args, *input.LowStockThreshold)
	}
	if input.TrackInventory != nil {
		setClauses = append(setClauses, "track_inventory = ?")
		args = append(args, *input.TrackInventory)
	}

	if len(setClauses) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No fields to update"})
		return
	}

	setClauses = append(setClauses, "updated_at = NOW()")
	args = append(args, input.ID)

	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = ?", table, strings.Join(setClauses, ", "))
	if _, err := h.DB.Exec(query, args...); err != nil {
		slog.Error("failed to update inventory", "error", err, "type", input.Type, "id", input.ID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}

	row := h.DB.QueryRow(
		fmt.Sprintf("SELECT %s FROM %s WHERE id = ?", inventoryItemColumns, table), input.ID)

	var item inventoryItem
	err := row.Scan(
		&item.ID, &item.Name, &item.Category, &item.Price,
		&item.StockQuantity, &item.LowStockThreshold, &item.TrackInventory,
		&item.IsLowStock, &item.IsOutOfStock,
		&item.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": input.Type + " not found"})
			return
		}
		slog.Error("failed to fetch updated inventory item", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		input.Type: item,
		"message":  input.Type + " inventory updated successfully",
	})
}
