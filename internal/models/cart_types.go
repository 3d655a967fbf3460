package models

import "time"

// CartItem defines the struct for the 'cart_items' table.
// A line references exactly one of ProductID / ServiceID, tagged by ItemType.
type CartItem struct {
	ID        int64     `json:"id" db:"id"`
	UserID    int64     `json:"user_id" db:"user_id"`
	ItemType  string    `json:"item_type" db:"item_type"`
	ProductID *int64    `json:"product_id,omitempty" db:"product_id"`
	ServiceID *int64    `json:"service_id,omitempty" db:"service_id"`
	Quantity  int       `json:"quantity" db:"quantity"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// CartLineItem is the catalog half of a priced cart view, populated from
// whichever of products/services the line points at.
type CartLineItem struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	Price       float64 `json:"price"`
	ImageURL    *string `json:"image_url,omitempty"`
	Category    string  `json:"category"`
}

// CartLine is one row of the GET /cart response.
type CartLine struct {
	CartID    int64        `json:"cart_id"`
	ItemType  string       `json:"item_type"`
	Quantity  int          `json:"quantity"`
	CreatedAt time.Time    `json:"created_at"`
	Item      CartLineItem `json:"item"`
}
