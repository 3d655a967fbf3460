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
// --- Product Handlers ---
//

const productColumns = `id, name, slug, description, price, image_url, category,
	is_new_arrival, is_hot_sale, sale_percent,
	stock_quantity, low_stock_threshold, track_inventory,
	created_at, updated_at`

// scanProduct scans one products row, converting nullable columns to pointers.
func scanProduct(row interface{ Scan(...any) error }) (models.Product, error) {
	var p models.Product
	var description, imageURL sql.NullString

	err := row.Scan(
		&p.ID, &p.Name, &p.Slug, &description, &p.Price, &imageURL, &p.Category,
		&p.IsNewArrival, &p.IsHotSale, &p.SalePercent,
		&p.StockQuantity, &p.LowStockThreshold, &p.TrackInventory,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return models.Product{}, err
	}

	if description.Valid {
		p.Description = &description.String
	}
	if imageURL.Valid {
		p.ImageURL = &imageURL.String
	}
	return p, nil
}

// ListProducts is the handler for GET /products (public).
// Optional filters: ?category=, ?new_arrivals=true, ?hot_sales=true.
func (h *Handlers) ListProducts(c *gin.Context) {
	query := "SELECT " + productColumns + " FROM products WHERE 1=1"
	var args []any

	if category := c.Query("category"); category != "" {
		query += " AND category = ?"
		args = append(args, category)
	}
	if c.Query("new_arrivals") == "true" {
		query += " AND is_new_arrival = TRUE"
	}
	if c.Query("hot_sales") == "true" {
		query += " AND is_hot_sale = TRUE"
	}
	query += " ORDER BY created_at DESC"

	rows, err := h.DB.Query(query, args...)
	if err != nil {
		slog.Error("failed to query products", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			slog.Error("failed to scan product", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
			return
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		slog.Error("error iterating products", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"products": products})
}

// GetProduct is the handler for GET /products/:id (public).
func (h *Handlers) GetProduct(c *gin.Context) {
	row := h.DB.QueryRow(
		"SELECT "+productColumns+" FROM products WHERE id = ?", c.Param("id"))

	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		slog.Error("failed to fetch product", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"product": p})
}

// CreateProductInput defines the JSON for creating a product.
type CreateProductInput struct {
	Name              string   `json:"name" binding:"required"`
	Description       *string  `json:"description"`
	Price             *float64 `json:"price" binding:"required,gt=0"`
	ImageURL          *string  `json:"image_url"`
	Category          string   `json:"category" binding:"required"`
	IsNewArrival      bool     `json:"is_new_arrival"`
	IsHotSale         bool     `json:"is_hot_sale"`
	SalePercent       float64  `json:"sale_percent" binding:"gte=0,lte=100"`
	StockQuantity     int      `json:"stock_quantity" binding:"gte=0"`
	LowStockThreshold *int     `json:"low_stock_threshold" binding:"omitempty,gte=0"`
	TrackInventory    bool     `json:"track_inventory"`
}

// CreateProduct is the handler for POST /products.
func (h *Handlers) CreateProduct(c *gin.Context) {
	var input CreateProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields: name, price, category"})
		return
	}

	if !models.IsValidProductCategory(input.Category) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category"})
		return
	}

	lowStock := 5
	if input.LowStockThreshold != nil {
		lowStock = *input.LowStockThreshold
	}

	result, err := h.DB.Exec(`
		INSERT INTO products
			(name, slug, description, price, image_url, category,
			 is_new_arrival, is_hot_sale, sale_percent,
			 stock_quantity, low_stock_threshold, track_inventory)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		input.Name, slug.Make(input.Name), input.Description, *input.Price,
		input.ImageURL, input.Category,
		input.IsNewArrival, input.IsHotSale, input.SalePercent,
		input.StockQuantity, lowStock, input.TrackInventory)
	if err != nil {
		slog.Error("failed to insert product", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}

	id, err := result.LastInsertId()
	if err != nil {
		slog.Error("failed to get new product id", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}

	row := h.DB.QueryRow("SELECT "+productColumns+" FROM products WHERE id = ?", id)
	p, err := scanProduct(row)
	if err != nil {
		slog.Error("failed to fetch created product", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"product": p})
}

// productUpdateFields is the allow-list of mutable columns for PUT /products/:id.
var productUpdateFields = []string{
	"name", "description", "price", "image_url", "category",
	"is_new_arrival", "is_hot_sale", "sale_percent",
}

// UpdateProduct is the handler for PUT /products/:id.
// Only allow-listed fields are written; anything else in the body is ignored.
func (h *Handlers) UpdateProduct(c *gin.Context) {
	id := c.Param("id")

	var body map[string]any
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	setClauses := []string{}
	var args []any
	for _, field := range productUpdateFields {
		if value, ok := body[field]; ok {
			setClauses = append(setClauses, fmt.Sprintf("%s = ?", field))
			args = append(args, value)
			if field == "name" {
				// Keep the slug in sync with renames.
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
		if !models.IsValidProductCategory(category) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category"})
			return
		}
	}

	setClauses = append(setClauses, "updated_at = NOW()")
	args = append(args, id)

	query := fmt.Sprintf("UPDATE products SET %s WHERE id = ?", strings.Join(setClauses, ", "))
	if _, err := h.DB.Exec(query, args...); err != nil {
		slog.Error("failed to update product", "error", err, "id", id)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}

	row := h.DB.QueryRow("SELECT "+productColumns+" FROM products WHERE id = ?", id)
	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		slog.Error("failed to fetch updated product", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"product": p})
}

// DeleteProduct is the handler for DELETE /products/:id.
// Historical order_items keep their snapshot; open cart lines referencing the
// product are removed by the cart_items foreign key cascade.
func (h *Handlers) DeleteProduct(c *gin.Context) {
	result, err := h.DB.Exec("DELETE FROM products WHERE id = ?", c.Param("id"))
	if err != nil {
		slog.Error("failed to delete product", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
}
