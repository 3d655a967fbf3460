package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/comfortdesignszw-mny/ecommerce-web/internal/inventory"
	"github.com/comfortdesignszw-mny/ecommerce-web/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
)

//
// --- Order Handlers ---
//

// checkoutLine is a cart line joined with its catalog item, read under lock
// at the start of the order transaction.
type checkoutLine struct {
	CartID         int64
	ItemType       string
	ItemID         int64
	Quantity       int
	Name           string
	Description    sql.NullString
	Category       string
	Price          float64
	StockQuantity  int
	TrackInventory bool
}

// PlaceOrderInput defines the JSON for POST /orders.
type PlaceOrderInput struct {
	PaymentMethod     string         `json:"payment_method" binding:"required"`
	CustomerFirstName string         `json:"customer_first_name" binding:"required"`
	CustomerLastName  string         `json:"customer_last_name" binding:"required"`
	CustomerEmail     string         `json:"customer_email" binding:"required,email"`
	CustomerPhone     string         `json:"customer_phone" binding:"required"`
	DeliveryAddress   string         `json:"delivery_address" binding:"required"`
	DeliveryCity      string         `json:"delivery_city" binding:"required"`
	DeliveryNotes     *string        `json:"delivery_notes"`
	PaymentDetails    map[string]any `json:"payment_details"`
}

// orderNumberAttempts bounds the regenerate-and-retry loop on an order_number
// uniqueness collision.
const orderNumberAttempts = 3

// generateOrderNumber builds a human-readable order number from the current
// timestamp and a short random suffix. Uniqueness is enforced by the database
// constraint, not by this function.
func generateOrderNumber() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:4])
	return fmt.Sprintf("CD%d%s", time.Now().UnixMilli(), suffix)
}

func isDuplicateKeyErr(err error) bool {
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == 1062
}

// PlaceOrder is the handler for POST /orders.
// It converts the user's cart into a durable order as one all-or-nothing unit:
// order header, one order_items snapshot per line, stock decrement for tracked
// items, cart cleared, confirmation email queued. Any failure rolls the whole
// attempt back; there is no automatic retry of the transaction itself.
func (h *Handlers) PlaceOrder(c *gin.Context) {
	userID_raw, _ := c.Get("userID")
	userID := userID_raw.(int64)

	var input PlaceOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
		return
	}

	tx, err := h.DB.BeginTx(c, nil)
	if err != nil {
		slog.Error("failed to begin checkout transaction", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}
	defer tx.Rollback() // Safety net

	// Read the cart with the catalog rows locked, so a concurrent checkout of
	// the same items serializes behind this transaction.
	query := `
		SELECT
			c.id, c.item_type, c.quantity,
			COALESCE(c.product_id, c.service_id),
			COALESCE(p.name, s.name),
			COALESCE(p.description, s.description),
			COALESCE(p.category, s.category),
			COALESCE(p.price, s.price),
			COALESCE(p.stock_quantity, s.stock_quantity),
			COALESCE(p.track_inventory, s.track_inventory)
		FROM cart_items c
		LEFT JOIN products p ON c.item_type = 'product' AND c.product_id = p.id
		LEFT JOIN services s ON c.item_type = 'service' AND c.service_id = s.id
		WHERE c.user_id = ?
		ORDER BY c.created_at, c.id
		FOR UPDATE`

	rows, err := tx.Query(query, userID)
	if err != nil {
		slog.Error("failed to read cart for checkout", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}

	var lines []checkoutLine
	for rows.Next() {
		var line checkoutLine
		if err := rows.Scan(
			&line.CartID, &line.ItemType, &line.Quantity,
			&line.ItemID, &line.Name, &line.Description, &line.Category,
			&line.Price, &line.StockQuantity, &line.TrackInventory,
		); err != nil {
			rows.Close()
			slog.Error("failed to scan checkout line", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
			return
		}
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		slog.Error("error iterating checkout lines", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}
	rows.Close()

	if len(lines) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cart is empty"})
		return
	}

	// Re-run the inventory check against the locked snapshot.
	checkLines := make([]inventory.Line, 0, len(lines))
	for _, line := range lines {
		checkLines = append(checkLines, inventory.Line{
			ItemType:       line.ItemType,
			Name:           line.Name,
			Quantity:       line.Quantity,
			StockQuantity:  line.StockQuantity,
			TrackInventory: line.TrackInventory,
		})
	}
	if shortfalls := inventory.Check(checkLines); len(shortfalls) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":      shortfalls[0].Error(),
			"shortfalls": shortfalls,
		})
		return
	}

	var subtotal float64
	for _, line := range lines {
		subtotal += line.Price * float64(line.Quantity)
	}
	total := subtotal // No tax or shipping charges for now.

	paymentDetails := "{}"
	if input.PaymentDetails != nil {
		raw, err := json.Marshal(input.PaymentDetails)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payment_details"})
			return
		}
		paymentDetails = string(raw)
	}

	// Insert the order header. The order number is timestamp-plus-random and
	// only probabilistically unique, so on a duplicate-key conflict we
	// regenerate and retry rather than trust the odds.
	now := time.Now()
	insertOrder := `
		INSERT INTO orders
			(user_id, order_number, status, subtotal, total,
			 customer_first_name, customer_last_name, customer_email, customer_phone,
			 delivery_address, delivery_city, delivery_notes,
			 payment_method, payment_details, created_at, updated_at)
		VALUES (?, ?, 'pending', ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	var orderID int64
	var orderNumber string
	for attempt := 0; attempt < orderNumberAttempts; attempt++ {
		orderNumber = generateOrderNumber()
		result, err := tx.Exec(insertOrder,
			userID, orderNumber, subtotal, total,
			input.CustomerFirstName, input.CustomerLastName, input.CustomerEmail, input.CustomerPhone,
			input.DeliveryAddress, input.DeliveryCity, input.DeliveryNotes,
			input.PaymentMethod, paymentDetails, now, now)
		if err != nil {
			if isDuplicateKeyErr(err) {
				continue
			}
			slog.Error("failed to insert order", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
			return
		}
		orderID, err = result.LastInsertId()
		if err != nil {
			slog.Error("failed to get new order id", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
			return
		}
		break
	}
	if orderID == 0 {
		slog.Error("exhausted order number attempts", "user_id", userID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}

	insertItem := `
		INSERT INTO order_items
			(order_id, item_type, product_id, service_id,
			 item_name, item_description, item_category,
			 quantity, unit_price, total_price)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	orderItems := make([]models.OrderItem, 0, len(lines))
	for _, line := range lines {
		var productID, serviceID *int64
		if line.ItemType == models.ItemTypeProduct {
			productID = &line.ItemID
		} else {
			serviceID = &line.ItemID
		}

		lineTotal := line.Price * float64(line.Quantity)
		result, err := tx.Exec(insertItem,
			orderID, line.ItemType, productID, serviceID,
			line.Name, line.Description, line.Category,
			line.Quantity, line.Price, lineTotal)
		if err != nil {
			slog.Error("failed to insert order item", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
			return
		}
		itemID, _ := result.LastInsertId()

		if line.TrackInventory {
			// Conditional decrement: never drives stock negative, even if a
			// concurrent sale slipped between check and write.
			table := "products"
			if line.ItemType == models.ItemTypeService {
				table = "services"
			}
			result, err := tx.Exec(
				"UPDATE "+table+" SET stock_quantity = stock_quantity - ?, updated_at = NOW() WHERE id = ? AND stock_quantity >= ?",
				line.Quantity, line.ItemID, line.Quantity)
			if err != nil {
				slog.Error("failed to decrement stock", "error", err)
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
				return
			}
			if affected, _ := result.RowsAffected(); affected == 0 {
				shortfall := inventory.Shortfall{
					ItemType:  line.ItemType,
					Name:      line.Name,
					Available: line.StockQuantity,
					Requested: line.Quantity,
				}
				c.JSON(http.StatusBadRequest, gin.H{
					"error":      shortfall.Error(),
					"shortfalls": []inventory.Shortfall{shortfall},
				})
				return
			}
		}

		if _, err := tx.Exec("DELETE FROM cart_items WHERE id = ?", line.CartID); err != nil {
			slog.Error("failed to clear cart line", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
			return
		}

		item := models.OrderItem{
			ID:           itemID,
			OrderID:      orderID,
			ItemType:     line.ItemType,
			ProductID:    productID,
			ServiceID:    serviceID,
			ItemName:     line.Name,
			ItemCategory: line.Category,
			Quantity:     line.Quantity,
			UnitPrice:    line.Price,
			TotalPrice:   lineTotal,
			CreatedAt:    now,
		}
		if line.Description.Valid {
			item.ItemDescription = &line.Description.String
		}
		orderItems = append(orderItems, item)
	}

	// Queue the confirmation email. The transaction guarantees insertion;
	// delivery is the dispatch worker's problem.
	metadata := map[string]string{"order_number": orderNumber}
	err = h.queueEmailNotification(tx, userID, input.CustomerEmail, "order_confirmation",
		"Order Confirmation - "+orderNumber,
		"Thank you for your order! Your order "+orderNumber+" has been received and is being processed.",
		&orderID, metadata)
	if err != nil {
		slog.Error("failed to queue confirmation email", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}

	if err := tx.Commit(); err != nil {
		slog.Error("failed to commit checkout transaction", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}

	order := models.Order{
		ID:                orderID,
		UserID:            userID,
		OrderNumber:       orderNumber,
		Status:            "pending",
		Subtotal:          subtotal,
		Total:             total,
		CustomerFirstName: input.CustomerFirstName,
		CustomerLastName:  input.CustomerLastName,
		CustomerEmail:     input.CustomerEmail,
		CustomerPhone:     input.CustomerPhone,
		DeliveryAddress:   input.DeliveryAddress,
		DeliveryCity:      input.DeliveryCity,
		DeliveryNotes:     input.DeliveryNotes,
		PaymentMethod:     input.PaymentMethod,
		PaymentDetails:    paymentDetails,
		CreatedAt:         now,
		UpdatedAt:         now,
		Items:             orderItems,
	}

	slog.Info("order placed", "order_number", orderNumber, "user_id", userID, "total", total)

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"order":   order,
		"message": "Order placed successfully",
	})
}

// ListOrders is the handler for GET /orders.
// It returns the user's orders, newest first, each with its item snapshots.
func (h *Handlers) ListOrders(c *gin.Context) {
	userID_raw, _ := c.Get("userID")
	userID := userID_raw.(int64)

	query := `
		SELECT id, user_id, order_number, status, subtotal, total,
			customer_first_name, customer_last_name, customer_email, customer_phone,
			delivery_address, delivery_city, delivery_notes,
			payment_method, COALESCE(payment_details, '{}'),
			created_at, updated_at
		FROM orders
		WHERE user_id = ?
		ORDER BY created_at DESC`

	rows, err := h.DB.Query(query, userID)
	if err != nil {
		slog.Error("failed to query orders", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}
	defer rows.Close()

	orders := []models.Order{}
	for rows.Next() {
		var o models.Order
		var deliveryNotes sql.NullString
		if err := rows.Scan(
			&o.ID, &o.UserID, &o.OrderNumber, &o.Status, &o.Subtotal, &o.Total,
			&o.CustomerFirstName, &o.CustomerLastName, &o.CustomerEmail, &o.CustomerPhone,
			&o.DeliveryAddress, &o.DeliveryCity, &deliveryNotes,
			&o.PaymentMethod, &o.PaymentDetails,
			&o.CreatedAt, &o.UpdatedAt,
		); err != nil {
			slog.Error("failed to scan order", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
			return
		}
		if deliveryNotes.Valid {
			o.DeliveryNotes = &deliveryNotes.String
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		slog.Error("error iterating orders", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}

	itemsQuery := `
		SELECT id, order_id, item_type, product_id, service_id,
			item_name, item_description, item_category,
			quantity, unit_price, total_price, created_at
		FROM order_items
		WHERE order_id = ?
		ORDER BY created_at, id`

	for i := range orders {
		itemRows, err := h.DB.Query(itemsQuery, orders[i].ID)
		if err != nil {
			slog.Error("failed to query order items", "error", err, "order_id", orders[i].ID)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
			return
		}

		items := []models.OrderItem{}
		for itemRows.Next() {
			var item models.OrderItem
			var productID, serviceID sql.NullInt64
			var description sql.NullString
			if err := itemRows.Scan(
				&item.ID, &item.OrderID, &item.ItemType, &productID, &serviceID,
				&item.ItemName, &description, &item.ItemCategory,
				&item.Quantity, &item.UnitPrice, &item.TotalPrice, &item.CreatedAt,
			); err != nil {
				itemRows.Close()
				slog.Error("failed to scan order item", "error", err)
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
				return
			}
			if productID.Valid {
				item.ProductID = &productID.Int64
			}
			if serviceID.Valid {
				item.ServiceID = &serviceID.Int64
			}
			if description.Valid {
				item.ItemDescription = &description.String
			}
			items = append(items, item)
		}
		err = itemRows.Err()
		itemRows.Close()
		if err != nil {
			slog.Error("error iterating order items", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
			return
		}
		orders[i].Items = items
	}

	c.JSON(http.StatusOK, gin.H{"orders": orders})
}
