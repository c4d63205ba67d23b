package product

import "strconv"

// Product is a catalog entry the order-entry caller renders as a line
// item choice. Cash and Card are the unit prices per payment mode.
type Product struct {
	ID          int     `json:"id"`
	Description string  `json:"description"`
	Cash        float64 `json:"cash"`
	Card        float64 `json:"card"`
}

// Key returns the product id as a document key.
func (p Product) Key() string {
	return strconv.Itoa(p.ID)
}

// Catalog returns the initial product catalog used to seed an empty
// store. TODO: replace with a sync from the remote sink once it exposes
// the catalog.
func Catalog() []Product {
	return []Product{
		{ID: 1, Description: "NATURÁGUA", Cash: 11.00, Card: 11.50},
		{ID: 2, Description: "INDAIÁ", Cash: 11.00, Card: 11.50},
		{ID: 3, Description: "NEBLINA", Cash: 10.00, Card: 10.50},
		{ID: 4, Description: "PACOTY", Cash: 9.00, Card: 9.50},
		{ID: 5, Description: "CLAREZA", Cash: 5.00, Card: 5.50},
		{ID: 6, Description: "FORTÁGUA", Cash: 5.00, Card: 5.50},
		{ID: 7, Description: "SERRA GRANDE", Cash: 10.00, Card: 10.50},
		{ID: 8, Description: "ACÁCIA", Cash: 10.00, Card: 10.50},
	}
}
