// internal/services/order_service.go
package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/javajoker/perfume-storefront/internal/backend"
	"github.com/javajoker/perfume-storefront/internal/config"
	"github.com/javajoker/perfume-storefront/internal/models"
)

type OrderService struct {
	client   *backend.Client
	sessions *SessionService
	taxRate  decimal.Decimal
}

func NewOrderService(client *backend.Client, sessions *SessionService, cfg *config.Config) (*OrderService, error) {
	taxRate, err := decimal.NewFromString(cfg.Checkout.TaxRate)
	if err != nil {
		return nil, fmt.Errorf("invalid tax rate %q: %w", cfg.Checkout.TaxRate, err)
	}

	return &OrderService{
		client:   client,
		sessions: sessions,
		taxRate:  taxRate,
	}, nil
}

// MyOrders lists the orders of the session's customer, newest first.
func (s *OrderService) MyOrders(ctx context.Context, session *Session) ([]models.OrderSummary, error) {
	customerID, err := s.sessions.ResolveCustomer(ctx, session)
	if err != nil {
		return nil, err
	}

	orders, err := s.client.ListOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load orders: %w", err)
	}

	mine := []models.Order{}
	for _, order := range orders {
		if order.Customer != nil && order.Customer.ID == customerID {
			mine = append(mine, order)
		}
	}

	sort.SliceStable(mine, func(i, j int) bool {
		return orderTime(mine[i].Date).After(orderTime(mine[j].Date))
	})

	summaries := make([]models.OrderSummary, 0, len(mine))
	for i := range mine {
		summaries = append(summaries, s.Summarize(&mine[i]))
	}
	return summaries, nil
}

// Order returns one order of the session's customer.
func (s *OrderService) Order(ctx context.Context, session *Session, orderID int64) (*models.OrderSummary, error) {
	customerID, err := s.sessions.ResolveCustomer(ctx, session)
	if err != nil {
		return nil, err
	}

	order, err := s.client.GetOrder(ctx, orderID)
	if backend.IsNotFound(err) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load order: %w", err)
	}
	if order.Customer == nil || order.Customer.ID != customerID {
		return nil, ErrOrderNotFound
	}

	summary := s.Summarize(order)
	return &summary, nil
}

// Summarize fills in totals the backend left at zero.
// Total falls back to the line sum; net is total/(1+tax) rounded; tax is the rest.
func (s *OrderService) Summarize(order *models.Order) models.OrderSummary {
	total := order.Total
	if total <= 0 {
		for _, line := range order.Lines {
			total += line.UnitPrice * int64(line.Quantity)
		}
	}

	net := order.Subtotal
	if net <= 0 {
		net = decimal.NewFromInt(total).Div(decimal.NewFromInt(1).Add(s.taxRate)).Round(0).IntPart()
	}

	tax := order.Tax
	if tax <= 0 {
		tax = total - net
	}

	lines := order.Lines
	if lines == nil {
		lines = []models.OrderLine{}
	}

	return models.OrderSummary{
		ID:       order.Number(),
		Date:     order.Date,
		Status:   order.Status,
		Subtotal: net,
		Discount: order.Discount,
		Tax:      tax,
		Total:    total,
		Lines:    lines,
	}
}

func orderTime(value string) time.Time {
	for _, layout := range []string{orderTimestampLayout, time.RFC3339Nano, "2006-01-02T15:04:05.999999", "2006-01-02"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	return time.Time{}
}
