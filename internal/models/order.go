// internal/models/order.go
package models

import (
	"time"
)

// Order is the backend order header. Older backends answer with idPedido
// instead of id; use Number() to read either.
type Order struct {
	ID              int64       `json:"id,omitempty"`
	OrderID         int64       `json:"idPedido,omitempty"`
	Customer        *Customer   `json:"cliente,omitempty"`
	Date            string      `json:"fechaPedido"`
	Subtotal        int64       `json:"subtotal"`
	Discount        int64       `json:"descuento"`
	Tax             int64       `json:"iva"`
	Total           int64       `json:"total"`
	Status          OrderStatus `json:"estado"`
	ShippingAddress string      `json:"direccionEnvio"`
	ShippingCommune string      `json:"comunaEnvio"`
	ShippingRegion  string      `json:"regionEnvio"`
	TrackingNumber  string      `json:"numeroSeguimiento"`
	Lines           []OrderLine `json:"detalles,omitempty"`
}

func (o *Order) Number() int64 {
	if o.ID != 0 {
		return o.ID
	}
	return o.OrderID
}

// OrderPayload is the body for POST /pedidos.
type OrderPayload struct {
	Customer        IDRef       `json:"cliente"`
	Date            string      `json:"fechaPedido"`
	Subtotal        int64       `json:"subtotal"`
	Discount        int64       `json:"descuento"`
	Tax             int64       `json:"iva"`
	Total           int64       `json:"total"`
	Status          OrderStatus `json:"estado"`
	ShippingAddress string      `json:"direccionEnvio"`
	ShippingCommune string      `json:"comunaEnvio"`
	ShippingRegion  string      `json:"regionEnvio"`
	TrackingNumber  string      `json:"numeroSeguimiento"`
}

type OrderLine struct {
	ID              int64       `json:"id,omitempty"`
	Order           *IDRef      `json:"pedido,omitempty"`
	Product         *ProductRef `json:"producto,omitempty"`
	Quantity        int         `json:"cantidad"`
	UnitPrice       int64       `json:"precioUnitario"`
	Subtotal        int64       `json:"subtotal"`
	DiscountApplied int64       `json:"descuentoAplicado"`
}

// OrderLinePayload is the body for POST /detalles-pedido.
type OrderLinePayload struct {
	Order           IDRef      `json:"pedido"`
	Product         ProductRef `json:"producto"`
	Quantity        int        `json:"cantidad"`
	UnitPrice       int64      `json:"precioUnitario"`
	Subtotal        int64      `json:"subtotal"`
	DiscountApplied int64      `json:"descuentoAplicado"`
}

// Quote holds checkout amounts in whole CLP.
type Quote struct {
	Subtotal        int64 `json:"subtotal"`
	Discount        int64 `json:"discount"`
	Taxable         int64 `json:"taxable"`
	Tax             int64 `json:"tax"`
	Total           int64 `json:"total"`
	DiscountApplied bool  `json:"discount_applied"`
}

type SagaLine struct {
	CartLineID int64  `json:"cart_line_id"`
	ProductID  int64  `json:"product_id"`
	Name       string `json:"name"`
	Quantity   int    `json:"quantity"`
	UnitPrice  int64  `json:"unit_price"`
	Subtotal   int64  `json:"subtotal"`
	Posted     bool   `json:"posted"`
}

// CheckoutSaga records the progress of an order placement so that a failed
// run can be resumed without posting a second header.
type CheckoutSaga struct {
	ID         string     `json:"id"`
	CustomerID int64      `json:"customer_id"`
	Quote      Quote      `json:"quote"`
	Lines      []SagaLine `json:"lines"`
	OrderID    int64      `json:"order_id,omitempty"`
	Status     SagaStatus `json:"status"`
	LastError  string     `json:"last_error,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

func (s *CheckoutSaga) PendingLines() []int {
	var pending []int
	for i := range s.Lines {
		if !s.Lines[i].Posted {
			pending = append(pending, i)
		}
	}
	return pending
}

type Confirmation struct {
	OrderID int64 `json:"order_id"`
	Quote   Quote `json:"quote"`
	Lines   int   `json:"lines"`
}

// GuestSyncJournal tracks which guest lines already reached the server cart.
type GuestSyncJournal struct {
	CustomerID int64     `json:"customer_id"`
	Pending    []int64   `json:"pending"`
	Synced     []int64   `json:"synced"`
	LastError  string    `json:"last_error,omitempty"`
	StartedAt  time.Time `json:"started_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type SyncResult struct {
	Synced    int   `json:"synced"`
	Failed    int   `json:"failed"`
	Remaining int   `json:"remaining"`
	Cart      *Cart `json:"cart"`
}

// OrderSummary is an order as shown in the customer's order history.
type OrderSummary struct {
	ID       int64       `json:"id"`
	Date     string      `json:"date"`
	Status   OrderStatus `json:"status"`
	Subtotal int64       `json:"subtotal"`
	Discount int64       `json:"discount"`
	Tax      int64       `json:"tax"`
	Total    int64       `json:"total"`
	Lines    []OrderLine `json:"lines,omitempty"`
}
