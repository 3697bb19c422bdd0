package domain

import "time"

// Category is the closed set of product categories the catalog accepts.
type Category string

const (
	CategorySmartphone Category = "Smartphone"
	CategoryLaptop     Category = "Laptop"
	CategoryAppliance  Category = "Appliance"
)

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case CategorySmartphone, CategoryLaptop, CategoryAppliance:
		return true
	}
	return false
}

type Product struct {
	Model        string     `json:"model"`
	Category     Category   `json:"category"`
	SellingPrice float64    `json:"sellingPrice"`
	Quantity     int        `json:"quantity"`
	Details      string     `json:"details,omitempty"`
	ArrivalDate  *time.Time `json:"arrivalDate,omitempty"`
	CreatedAt    time.Time  `json:"-"`
}
