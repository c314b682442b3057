package models

// MenuItem is a purchasable catalog entry. Items are immutable once
// fetched; the catalog replaces snapshots wholesale on updates.
type MenuItem struct {
	ID          string  `json:"id" db:"id"`
	Name        string  `json:"name" db:"name"`
	Price       float64 `json:"price" db:"price"`
	ImageURL    string  `json:"image_url" db:"image_url"`
	Category    string  `json:"category" db:"category"`
	Description string  `json:"description" db:"description"`
}

// CartLine is a menu item plus the quantity selected for purchase.
// Quantity is always >= 1; a line that would drop to zero is removed
// from the cart instead.
type CartLine struct {
	MenuItem
	Quantity int `json:"quantity"`
}

// LineTotal returns price multiplied by quantity for this line.
func (l CartLine) LineTotal() float64 {
	return l.Price * float64(l.Quantity)
}
