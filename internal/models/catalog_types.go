package models

import (
	"slices"
	"time"
)

// Cart and order lines distinguish what they reference with these tags.
const (
	ItemTypeProduct = "product"
	ItemTypeService = "service"
)

// Categories are fixed slugs validated in code, not database rows.
var (
	ProductCategories = []string{
		"computers", "smartphones", "bluetooth-speakers", "solar-products",
	}
	ServiceCategories = []string{
		"web-development", "graphic-design", "digital-marketing", "consultation",
	}
)

func IsValidProductCategory(category string) bool {
	return slices.Contains(ProductCategories, category)
}

func IsValidServiceCategory(category string) bool {
	return slices.Contains(ServiceCategories, category)
}

// Product is the model for the 'products' table.
type Product struct {
	ID           int64   `json:"id" db:"id"`
	Name         string  `json:"name" db:"name"`
	Slug         string  `json:"slug" db:"slug"`
	Description  *string `json:"description,omitempty" db:"description"`
	Price        float64 `json:"price" db:"price"`
	ImageURL     *string `json:"image_url,omitempty" db:"image_url"`
	Category     string  `json:"category" db:"category"`
	IsNewArrival bool    `json:"is_new_arrival" db:"is_new_arrival"`
	IsHotSale    bool    `json:"is_hot_sale" db:"is_hot_sale"`
	SalePercent  float64 `json:"sale_percent" db:"sale_percent"`

	StockQuantity     int  `json:"stock_quantity" db:"stock_quantity"`
	LowStockThreshold int  `json:"low_stock_threshold" db:"low_stock_threshold"`
	TrackInventory    bool `json:"track_inventory" db:"track_inventory"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Service is the model for the 'services' table. Services reuse the product
// inventory columns; most services leave track_inventory off and are treated
// as unlimited capacity.
type Service struct {
	ID              int64   `json:"id" db:"id"`
	Name            string  `json:"name" db:"name"`
	Slug            string  `json:"slug" db:"slug"`
	Description     *string `json:"description,omitempty" db:"description"`
	Price           float64 `json:"price" db:"price"`
	ImageURL        *string `json:"image_url,omitempty" db:"image_url"`
	Category        string  `json:"category" db:"category"`
	IsMostRequested bool    `json:"is_most_requested" db:"is_most_requested"`

	StockQuantity     int  `json:"stock_quantity" db:"stock_quantity"`
	LowStockThreshold int  `json:"low_stock_threshold" db:"low_stock_threshold"`
	TrackInventory    bool `json:"track_inventory" db:"track_inventory"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
