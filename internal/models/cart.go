// internal/models/cart.go
package models

// CartLine is one row of a cart. The id is the backend row id for bound carts
// and a timestamp-based id for guest carts.
type CartLine struct {
	ID       int64   `json:"id"`
	Quantity int     `json:"cantidad"`
	Product  Product `json:"producto"`
	AddedAt  string  `json:"fechaAgregado,omitempty"`
}

func (l *CartLine) Subtotal() int64 {
	return l.Product.Price * int64(l.Quantity)
}

// CartLinePayload is the body for POST /carrito.
type CartLinePayload struct {
	Customer IDRef      `json:"cliente"`
	Product  ProductRef `json:"producto"`
	Quantity int        `json:"cantidad"`
}

type Cart struct {
	Mode       CartMode   `json:"mode"`
	CustomerID int64      `json:"customer_id,omitempty"`
	Lines      []CartLine `json:"lines"`
	Total      int64      `json:"total"`
	Count      int        `json:"count"`
}

// NewCart builds a cart view and derives total and count from the lines.
func NewCart(mode CartMode, customerID int64, lines []CartLine) *Cart {
	if lines == nil {
		lines = []CartLine{}
	}

	cart := &Cart{
		Mode:       mode,
		CustomerID: customerID,
		Lines:      lines,
	}
	for i := range lines {
		cart.Total += lines[i].Subtotal()
		cart.Count += lines[i].Quantity
	}
	return cart
}

func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}
