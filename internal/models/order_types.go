package models

import "time"

// Order is the model for the 'orders' table.
// The header is immutable after checkout, except for the status column.
type Order struct {
	ID          int64  `json:"id" db:"id"`
	UserID      int64  `json:"user_id" db:"user_id"`
	OrderNumber string `json:"order_number" db:"order_number"`
	Status      string `json:"status" db:"status"` // e.g. pending, processing, delivered

	Subtotal float64 `json:"subtotal" db:"subtotal"`
	Total    float64 `json:"total" db:"total"`

	// --- Customer & Delivery ---
	CustomerFirstName string  `json:"customer_first_name" db:"customer_first_name"`
	CustomerLastName  string  `json:"customer_last_name" db:"customer_last_name"`
	CustomerEmail     string  `json:"customer_email" db:"customer_email"`
	CustomerPhone     string  `json:"customer_phone" db:"customer_phone"`
	DeliveryAddress   string  `json:"delivery_address" db:"delivery_address"`
	DeliveryCity      string  `json:"delivery_city" db:"delivery_city"`
	DeliveryNotes     *string `json:"delivery_notes,omitempty" db:"delivery_notes"`

	PaymentMethod  string `json:"payment_method" db:"payment_method"`
	PaymentDetails string `json:"payment_details" db:"payment_details"` // free-form JSON

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`

	// Populated manually from order_items on reads.
	Items []OrderItem `json:"items,omitempty" db:"-"`
}

// OrderItem is the model for the 'order_items' table. It snapshots the catalog
// item's descriptive fields and price at the moment of sale and never changes
// afterwards, even if the source item is edited or deleted.
type OrderItem struct {
	ID              int64   `json:"id" db:"id"`
	OrderID         int64   `json:"order_id" db:"order_id"`
	ItemType        string  `json:"item_type" db:"item_type"`
	ProductID       *int64  `json:"product_id,omitempty" db:"product_id"`
	ServiceID       *int64  `json:"service_id,omitempty" db:"service_id"`
	ItemName        string  `json:"item_name" db:"item_name"`
	ItemDescription *string `json:"item_description,omitempty" db:"item_description"`
	ItemCategory    string  `json:"item_category" db:"item_category"`
	Quantity        int     `json:"quantity" db:"quantity"`
	UnitPrice       float64 `json:"unit_price" db:"unit_price"`
	TotalPrice      float64 `json:"total_price" db:"total_price"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
