package domain

import "time"

type Cart struct {
	ID          string     `json:"id"`
	Customer    string     `json:"customer"`
	Paid        bool       `json:"paid"`
	PaymentDate *time.Time `json:"paymentDate,omitempty"`
	Total       float64    `json:"total"`
	Items       []CartItem `json:"products"`
	CreatedAt   time.Time  `json:"-"`
}

// CartItem is one product line inside a cart. Category and Price are
// snapshotted when the line is created so paid carts keep showing the
// price at purchase time.
type CartItem struct {
	CartID   string   `json:"-"`
	Model    string   `json:"model"`
	Quantity int      `json:"quantity"`
	Category Category `json:"category"`
	Price    float64  `json:"price"`
	// Deleted marks lines whose product was later removed from the catalog.
	Deleted bool `json:"deleted,omitempty"`
}
