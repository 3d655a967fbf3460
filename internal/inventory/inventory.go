// Package inventory holds the stock-sufficiency check run before an order is
// placed. It works on an annotated snapshot of cart lines and performs no
// database access of its own; serializing concurrent depletion is the order
// transaction's job.
package inventory

import "fmt"

// Line is one cart line annotated with the referenced catalog item's current
// stock level and tracking flag.
type Line struct {
	ItemType       string // product | service
	Name           string
	Quantity       int
	StockQuantity  int
	TrackInventory bool
}

// Shortfall reports one line whose requested quantity exceeds available stock.
type Shortfall struct {
	ItemType  string `json:"item_type"`
	Name      string `json:"name"`
	Available int    `json:"available"`
	Requested int    `json:"requested"`
}

// Error renders the user-facing message for a shortfall. Services use
// "capacity" wording since their stock counts bookable slots.
func (s Shortfall) Error() string {
	noun := "stock"
	if s.ItemType == "service" {
		noun = "capacity"
	}
	return fmt.Sprintf("Insufficient %s for %s. Available: %d, Requested: %d",
		noun, s.Name, s.Available, s.Requested)
}

// Check returns a shortfall for every line that cannot be satisfied against
// the snapshot. A line with TrackInventory false is always satisfiable,
// whatever its stock value. A nil result means the whole cart is satisfiable.
func Check(lines []Line) []Shortfall {
	var shortfalls []Shortfall
	for _, line := range lines {
		if !line.TrackInventory {
			continue
		}
		if line.StockQuantity < line.Quantity {
			shortfalls = append(shortfalls, Shortfall{
				ItemType:  line.ItemType,
				Name:      line.Name,
				Available: line.StockQuantity,
				Requested: line.Quantity,
			})
		}
	}
	return shortfalls
}
