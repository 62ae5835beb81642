// internal/services/checkout_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/javajoker/perfume-storefront/internal/backend"
	"github.com/javajoker/perfume-storefront/internal/config"
	"github.com/javajoker/perfume-storefront/internal/models"
	"github.com/javajoker/perfume-storefront/internal/storage"
)

// Local time without zone, as the order API expects.
const orderTimestampLayout = "2006-01-02T15:04:05"

type CheckoutService struct {
	client   *backend.Client
	store    storage.Store
	sessions *SessionService
	carts    *CartService
	cfg      *config.CheckoutConfig
	logger   *logrus.Logger
	now      func() time.Time

	discountRate decimal.Decimal
	taxRate      decimal.Decimal
}

func NewCheckoutService(client *backend.Client, store storage.Store, sessions *SessionService, carts *CartService, cfg *config.Config, logger *logrus.Logger) (*CheckoutService, error) {
	discountRate, err := decimal.NewFromString(cfg.Checkout.DiscountRate)
	if err != nil {
		return nil, fmt.Errorf("invalid discount rate %q: %w", cfg.Checkout.DiscountRate, err)
	}
	taxRate, err := decimal.NewFromString(cfg.Checkout.TaxRate)
	if err != nil {
		return nil, fmt.Errorf("invalid tax rate %q: %w", cfg.Checkout.TaxRate, err)
	}

	return &CheckoutService{
		client:       client,
		store:        store,
		sessions:     sessions,
		carts:        carts,
		cfg:          &cfg.Checkout,
		logger:       logger,
		now:          time.Now,
		discountRate: discountRate,
		taxRate:      taxRate,
	}, nil
}

// Quote prices a subtotal. The discount applies only strictly above the threshold.
// Amounts round half away from zero to whole units.
func (s *CheckoutService) Quote(subtotal int64) models.Quote {
	sub := decimal.NewFromInt(subtotal)

	quote := models.Quote{Subtotal: subtotal}
	if subtotal > s.cfg.DiscountThreshold {
		quote.Discount = sub.Mul(s.discountRate).Round(0).IntPart()
		quote.DiscountApplied = true
	}
	quote.Taxable = subtotal - quote.Discount
	quote.Tax = decimal.NewFromInt(quote.Taxable).Mul(s.taxRate).Round(0).IntPart()
	quote.Total = quote.Taxable + quote.Tax

	return quote
}

// QuoteCart prices the current cart, checking the same preconditions as Checkout.
func (s *CheckoutService) QuoteCart(ctx context.Context, session *Session) (*models.Quote, *models.Cart, error) {
	customerID, lines, err := s.preconditions(ctx, session)
	if err != nil {
		return nil, nil, err
	}

	cart := models.NewCart(models.CartModeBound, customerID, lines)
	quote := s.Quote(cart.Total)
	return &quote, cart, nil
}

// Checkout places an order for the current cart. Progress is saved as a saga
// so that a failure after the header can be resumed.
func (s *CheckoutService) Checkout(ctx context.Context, session *Session) (*models.Confirmation, error) {
	customerID, lines, err := s.preconditions(ctx, session)
	if err != nil {
		return nil, err
	}

	existing, err := s.loadSaga(ctx, session.VisitorID, customerID)
	if err != nil {
		return nil, err
	}
	if existing != nil && existing.OrderID != 0 && existing.Status != models.SagaStatusCompleted {
		return nil, ErrCheckoutPending
	}

	// The server cart may have changed from another browser since the mirror was written.
	fresh, err := s.carts.refreshBound(ctx, session, customerID)
	if err != nil {
		return nil, err
	}
	if len(fresh.Lines) == 0 {
		return nil, ErrEmptyCart
	}
	lines = fresh.Lines

	cart := models.NewCart(models.CartModeBound, customerID, lines)
	saga := &models.CheckoutSaga{
		ID:         uuid.New().String(),
		CustomerID: customerID,
		Quote:      s.Quote(cart.Total),
		Status:     models.SagaStatusPending,
		CreatedAt:  s.now(),
		UpdatedAt:  s.now(),
	}
	for _, line := range lines {
		saga.Lines = append(saga.Lines, models.SagaLine{
			CartLineID: line.ID,
			ProductID:  line.Product.ID,
			Name:       line.Product.Name,
			Quantity:   line.Quantity,
			UnitPrice:  line.Product.Price,
			Subtotal:   line.Subtotal(),
		})
	}

	if err := s.saveSaga(ctx, session.VisitorID, saga); err != nil {
		return nil, err
	}

	return s.run(ctx, session, saga)
}

// Resume continues the saved checkout. Only lines not yet posted are sent again.
func (s *CheckoutService) Resume(ctx context.Context, session *Session) (*models.Confirmation, error) {
	if !session.Authenticated() {
		return nil, ErrNotAuthenticated
	}

	saga, err := s.PendingSaga(ctx, session)
	if err != nil {
		return nil, err
	}
	if saga == nil || saga.Status == models.SagaStatusCompleted {
		return nil, ErrNoPendingCheckout
	}

	return s.run(ctx, session, saga)
}

// PendingSaga returns the saved checkout of the session's customer, if any.
func (s *CheckoutService) PendingSaga(ctx context.Context, session *Session) (*models.CheckoutSaga, error) {
	customerID, ok, err := s.sessions.CachedCustomerID(ctx, session)
	if err != nil || !ok {
		return nil, err
	}
	return s.loadSaga(ctx, session.VisitorID, customerID)
}

func (s *CheckoutService) run(ctx context.Context, session *Session, saga *models.CheckoutSaga) (*models.Confirmation, error) {
	log := s.logger.WithFields(logrus.Fields{
		"visitor_id":  session.VisitorID,
		"customer_id": saga.CustomerID,
		"saga_id":     saga.ID,
	})

	if saga.OrderID == 0 {
		orderID, err := s.postHeader(ctx, saga)
		if err != nil {
			saga.LastError = err.Error()
			saga.UpdatedAt = s.now()
			if saveErr := s.saveSaga(ctx, session.VisitorID, saga); saveErr != nil {
				log.WithError(saveErr).Error("Failed to save checkout progress")
			}
			log.WithError(err).Warn("Order header failed")
			return nil, err
		}

		saga.OrderID = orderID
		saga.Status = models.SagaStatusHeaderPosted
		saga.LastError = ""
		saga.UpdatedAt = s.now()
		if err := s.saveSaga(ctx, session.VisitorID, saga); err != nil {
			return nil, err
		}
	}

	if err := s.postLines(ctx, session.VisitorID, saga); err != nil {
		saga.Status = models.SagaStatusPartial
		saga.LastError = err.Error()
		saga.UpdatedAt = s.now()
		if saveErr := s.saveSaga(ctx, session.VisitorID, saga); saveErr != nil {
			log.WithError(saveErr).Error("Failed to save checkout progress")
		}
		log.WithError(err).WithField("order_id", saga.OrderID).Warn("Order lines incomplete")
		return nil, fmt.Errorf("%w: %w", ErrCheckoutIncomplete, err)
	}

	saga.Status = models.SagaStatusCompleted
	if _, err := s.carts.ClearCart(ctx, session); err != nil {
		// The order exists; a stale cart is recoverable by the customer.
		log.WithError(err).Warn("Order placed but cart could not be cleared")
	}
	if err := s.store.Remove(ctx, session.VisitorID, storage.KeyCheckoutSaga); err != nil {
		log.WithError(err).Warn("Failed to drop completed checkout")
	}

	log.WithField("order_id", saga.OrderID).Info("Order placed")

	return &models.Confirmation{
		OrderID: saga.OrderID,
		Quote:   saga.Quote,
		Lines:   len(saga.Lines),
	}, nil
}

func (s *CheckoutService) postHeader(ctx context.Context, saga *models.CheckoutSaga) (int64, error) {
	order, err := s.client.CreateOrder(ctx, &models.OrderPayload{
		Customer:        models.IDRef{ID: saga.CustomerID},
		Date:            s.now().Format(orderTimestampLayout),
		Subtotal:        saga.Quote.Subtotal,
		Discount:        saga.Quote.Discount,
		Tax:             saga.Quote.Tax,
		Total:           saga.Quote.Total,
		Status:          models.OrderStatusPending,
		ShippingAddress: s.cfg.ShippingAddress,
		ShippingCommune: s.cfg.ShippingCommune,
		ShippingRegion:  s.cfg.ShippingRegion,
		TrackingNumber:  "",
	})
	if err != nil {
		return 0, fmt.Errorf("failed to create order: %w", err)
	}

	orderID := order.Number()
	if orderID == 0 {
		return 0, ErrMissingOrderID
	}
	return orderID, nil
}

func (s *CheckoutService) postLines(ctx context.Context, visitorID string, saga *models.CheckoutSaga) error {
	var mu sync.Mutex

	var g errgroup.Group
	for _, i := range saga.PendingLines() {
		i := i
		line := saga.Lines[i]
		g.Go(func() error {
			err := s.client.CreateOrderLine(ctx, &models.OrderLinePayload{
				Order:           models.IDRef{ID: saga.OrderID},
				Product:         models.ProductRef{ID: line.ProductID},
				Quantity:        line.Quantity,
				UnitPrice:       line.UnitPrice,
				Subtotal:        line.UnitPrice * int64(line.Quantity),
				DiscountApplied: 0,
			})
			if err != nil {
				return fmt.Errorf("product %d: %w", line.ProductID, err)
			}

			mu.Lock()
			defer mu.Unlock()
			saga.Lines[i].Posted = true
			saga.UpdatedAt = s.now()
			return s.saveSaga(ctx, visitorID, saga)
		})
	}

	return g.Wait()
}

// preconditions reads only local state: an unknown customer or an empty
// cart fails before any backend call.
func (s *CheckoutService) preconditions(ctx context.Context, session *Session) (int64, []models.CartLine, error) {
	if !session.Authenticated() {
		return 0, nil, ErrNotAuthenticated
	}

	customerID, ok, err := s.sessions.CachedCustomerID(ctx, session)
	if err != nil {
		return 0, nil, err
	}
	if !ok {
		return 0, nil, ErrNoCustomerProfile
	}

	lines, err := s.carts.CurrentLines(ctx, session)
	if err != nil {
		return 0, nil, err
	}
	if len(lines) == 0 {
		return 0, nil, ErrEmptyCart
	}
	return customerID, lines, nil
}

// loadSaga ignores a saga saved for another customer on the same browser.
func (s *CheckoutService) loadSaga(ctx context.Context, visitorID string, customerID int64) (*models.CheckoutSaga, error) {
	var saga models.CheckoutSaga
	found, err := storage.GetJSON(ctx, s.store, visitorID, storage.KeyCheckoutSaga, &saga)
	if err != nil {
		return nil, err
	}
	if !found || saga.CustomerID != customerID {
		return nil, nil
	}
	return &saga, nil
}

func (s *CheckoutService) saveSaga(ctx context.Context, visitorID string, saga *models.CheckoutSaga) error {
	if err := storage.SetJSON(ctx, s.store, visitorID, storage.KeyCheckoutSaga, saga); err != nil {
		return fmt.Errorf("failed to save checkout progress: %w", err)
	}
	return nil
}

// IsPrecondition reports errors raised before any backend call.
func IsPrecondition(err error) bool {
	return errors.Is(err, ErrNotAuthenticated) ||
		errors.Is(err, ErrNoCustomerProfile) ||
		errors.Is(err, ErrEmptyCart) ||
		errors.Is(err, ErrOutOfStock)
}
