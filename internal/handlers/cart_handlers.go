package handlers

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/comfortdesignszw-mny/ecommerce-web/internal/models"
	"github.com/gin-gonic/gin"
)

//
// --- Cart Handlers ---
//

// GetCart is the handler for GET /cart.
// It joins each line to its catalog item and returns a priced view plus an
// aggregate total.
func (h *Handlers) GetCart(c *gin.Context) {
	userID_raw, _ := c.Get("userID")
	userID := userID_raw.(int64)

	query := `
		SELECT
			c.id, c.item_type, c.quantity, c.created_at,
			COALESCE(c.product_id, c.service_id),
			COALESCE(p.name, s.name),
			COALESCE(p.description, s.description),
			COALESCE(p.price, s.price),
			COALESCE(p.image_url, s.image_url),
			COALESCE(p.category, s.category)
		FROM cart_items c
		LEFT JOIN products p ON c.item_type = 'product' AND c.product_id = p.id
		LEFT JOIN services s ON c.item_type = 'service' AND c.service_id = s.id
		WHERE c.user_id = ?
		ORDER BY c.created_at DESC, c.id DESC`

	rows, err := h.DB.Query(query, userID)
	if err != nil {
		slog.Error("failed to query cart items", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}
	defer rows.Close()

	cartItems := []models.CartLine{}
	var total float64

	for rows.Next() {
		var line models.CartLine
		var itemID sql.NullInt64
		var name, category sql.NullString
		var description, imageURL sql.NullString
		var price sql.NullFloat64

		if err := rows.Scan(
			&line.CartID, &line.ItemType, &line.Quantity, &line.CreatedAt,
			&itemID, &name, &description, &price, &imageURL, &category,
		); err != nil {
			slog.Error("failed to scan cart item", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
			return
		}

		// Lines whose catalog item vanished are cleaned up on delete, so a
		// NULL join here is unexpected; skip rather than fail the whole read.
		if !itemID.Valid || !name.Valid {
			continue
		}

		line.Item = models.CartLineItem{
			ID:       itemID.Int64,
			Name:     name.String,
			Price:    price.Float64,
			Category: category.String,
		}
		if description.Valid {
			line.Item.Description = &description.String
		}
		if imageURL.Valid {
			line.Item.ImageURL = &imageURL.String
		}

		total += line.Item.Price * float64(line.Quantity)
		cartItems = append(cartItems, line)
	}

	if err := rows.Err(); err != nil {
		slog.Error("error iterating cart items", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"cart_items": cartItems,
		"total":      fmt.Sprintf("%.2f", total),
		"count":      len(cartItems),
	})
}

// AddToCartInput defines the JSON for adding an item to the cart.
type AddToCartInput struct {
	ItemType  string `json:"item_type"`
	ProductID *int64 `json:"product_id"`
	ServiceID *int64 `json:"service_id"`
	Quantity  int    `json:"quantity"`
}

// AddToCart is the handler for POST /cart.
// Adding an item already in the cart merges into the existing line (merge key
// = user + item + type) instead of creating a second one.
func (h *Handlers) AddToCart(c *gin.Context) {
	userID_raw, _ := c.Get("userID")
	userID := userID_raw.(int64)

	var input AddToCartInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	if input.ItemType != models.ItemTypeProduct && input.ItemType != models.ItemTypeService {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid item_type"})
		return
	}
	if input.ItemType == models.ItemTypeProduct && input.ProductID == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "product_id is required for products"})
		return
	}
	if input.ItemType == models.ItemTypeService && input.ServiceID == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "service_id is required for services"})
		return
	}
	if input.Quantity < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "quantity must be positive"})
		return
	}
	if input.Quantity == 0 {
		input.Quantity = 1
	}

	// Confirm the referenced catalog item exists before touching the cart.
	var exists int
	var err error
	if input.ItemType == models.ItemTypeProduct {
		err = h.DB.QueryRow("SELECT 1 FROM products WHERE id = ?", *input.ProductID).Scan(&exists)
	} else {
		err = h.DB.QueryRow("SELECT 1 FROM services WHERE id = ?", *input.ServiceID).Scan(&exists)
	}
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Item not found"})
			return
		}
		slog.Error("failed to look up catalog item", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}

	// Insert or merge (upsert on the user+item+type unique key).
	_, err = h.DB.Exec(`
		INSERT INTO cart_items (user_id, item_type, product_id, service_id, quantity)
		VALUES (?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			quantity = quantity + VALUES(quantity),
			updated_at = NOW()`,
		userID, input.ItemType, input.ProductID, input.ServiceID, input.Quantity)
	if err != nil {
		slog.Error("failed to upsert cart item", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Item added to cart"})
}

// UpdateCartInput defines the JSON for setting a line's quantity.
type UpdateCartInput struct {
	CartID   int64 `json:"cart_id" binding:"required"`
	Quantity int   `json:"quantity"`
}

// UpdateCart is the handler for PUT /cart.
func (h *Handlers) UpdateCart(c *gin.Context) {
	userID_raw, _ := c.Get("userID")
	userID := userID_raw.(int64)

	var input UpdateCartInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cart_id and valid quantity are required"})
		return
	}
	if input.Quantity < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cart_id and valid quantity are required"})
		return
	}

	result, err := h.DB.Exec(`
		UPDATE cart_items
		SET quantity = ?, updated_at = NOW()
		WHERE id = ? AND user_id = ?`,
		input.Quantity, input.CartID, userID)
	if err != nil {
		slog.Error("failed to update cart item", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Item not found in cart"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Cart updated"})
}

// RemoveFromCartInput defines the JSON for removing a line.
type RemoveFromCartInput struct {
	CartID int64 `json:"cart_id" binding:"required"`
}

// RemoveFromCart is the handler for DELETE /cart.
// The delete is scoped to the owning user, so one user cannot remove another
// user's line by guessing its id.
func (h *Handlers) RemoveFromCart(c *gin.Context) {
	userID_raw, _ := c.Get("userID")
	userID := userID_raw.(int64)

	var input RemoveFromCartInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cart_id is required"})
		return
	}

	result, err := h.DB.Exec(
		"DELETE FROM cart_items WHERE id = ? AND user_id = ?",
		input.CartID, userID)
	if err != nil {
		slog.Error("failed to delete cart item", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Item not found in cart"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Item removed from cart"})
}
