package orderitem

// OrderItem represents one line item of an order. Cash and Card carry the
// unit price for the two payment modes; the caller picks one when it
// computes the order total.
type OrderItem struct {
	ProductID   int     `json:"product_id"`
	Description string  `json:"description"`
	Cash        float64 `json:"cash"`
	Card        float64 `json:"card"`
	Quantity    int     `json:"quantity"`
}

// CashTotal returns the cash-mode subtotal of the line item.
func (i OrderItem) CashTotal() float64 {
	return i.Cash * float64(i.Quantity)
}

// CardTotal returns the card-mode subtotal of the line item.
func (i OrderItem) CardTotal() float64 {
	return i.Card * float64(i.Quantity)
}
