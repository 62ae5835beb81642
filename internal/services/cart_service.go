// internal/services/cart_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/javajoker/perfume-storefront/internal/backend"
	"github.com/javajoker/perfume-storefront/internal/models"
	"github.com/javajoker/perfume-storefront/internal/storage"
)

type CartService struct {
	client   *backend.Client
	store    storage.Store
	sessions *SessionService
	logger   *logrus.Logger
	now      func() time.Time
}

func NewCartService(client *backend.Client, store storage.Store, sessions *SessionService, logger *logrus.Logger) *CartService {
	return &CartService{
		client:   client,
		store:    store,
		sessions: sessions,
		logger:   logger,
		now:      time.Now,
	}
}

// Binding tells whether the cart lives locally or on the backend.
func (s *CartService) Binding(ctx context.Context, session *Session) (models.CartMode, int64, error) {
	if !session.Authenticated() {
		return models.CartModeGuest, 0, nil
	}

	customerID, err := s.sessions.ResolveCustomer(ctx, session)
	if errors.Is(err, ErrNoCustomerProfile) {
		return models.CartModeNoProfile, 0, nil
	}
	if err != nil {
		return "", 0, err
	}
	return models.CartModeBound, customerID, nil
}

// Cart returns the current cart. Bound carts are fetched from the backend.
func (s *CartService) Cart(ctx context.Context, session *Session) (*models.Cart, error) {
	mode, customerID, err := s.Binding(ctx, session)
	if err != nil {
		return nil, err
	}

	switch mode {
	case models.CartModeBound:
		return s.refreshBound(ctx, session, customerID)
	case models.CartModeNoProfile:
		return models.NewCart(mode, 0, nil), nil
	default:
		lines, err := s.guestLines(ctx, session.VisitorID)
		if err != nil {
			return nil, err
		}
		return models.NewCart(mode, 0, lines), nil
	}
}

// AddToCart adds one unit of product. Out of stock products never reach the backend.
func (s *CartService) AddToCart(ctx context.Context, session *Session, product *models.Product) (*models.Cart, error) {
	if !product.InStock() {
		return nil, ErrOutOfStock
	}

	mode, customerID, err := s.Binding(ctx, session)
	if err != nil {
		return nil, err
	}

	switch mode {
	case models.CartModeNoProfile:
		return nil, ErrNoCustomerProfile

	case models.CartModeBound:
		err := s.client.AddCartLine(ctx, &models.CartLinePayload{
			Customer: models.IDRef{ID: customerID},
			Product:  models.ProductRef{ID: product.ID},
			Quantity: 1,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to add product to cart: %w", err)
		}
		return s.refreshBound(ctx, session, customerID)
	}

	lines, err := s.guestLines(ctx, session.VisitorID)
	if err != nil {
		return nil, err
	}

	found := false
	for i := range lines {
		if lines[i].Product.ID == product.ID {
			lines[i].Quantity++
			found = true
			break
		}
	}
	if !found {
		lines = append(lines, models.CartLine{
			ID:       s.newGuestLineID(lines),
			Quantity: 1,
			Product:  *product,
			AddedAt:  s.now().Format(orderTimestampLayout),
		})
	}

	if err := s.saveGuestLines(ctx, session.VisitorID, lines); err != nil {
		return nil, err
	}
	return models.NewCart(mode, 0, lines), nil
}

func (s *CartService) RemoveFromCart(ctx context.Context, session *Session, lineID int64) (*models.Cart, error) {
	mode, customerID, err := s.Binding(ctx, session)
	if err != nil {
		return nil, err
	}

	switch mode {
	case models.CartModeNoProfile:
		return nil, ErrNoCustomerProfile

	case models.CartModeBound:
		if err := s.client.DeleteCartLine(ctx, lineID); err != nil {
			return nil, fmt.Errorf("failed to remove cart line: %w", err)
		}
		return s.refreshBound(ctx, session, customerID)
	}

	lines, err := s.guestLines(ctx, session.VisitorID)
	if err != nil {
		return nil, err
	}

	kept := make([]models.CartLine, 0, len(lines))
	for _, line := range lines {
		if line.ID != lineID {
			kept = append(kept, line)
		}
	}

	if err := s.saveGuestLines(ctx, session.VisitorID, kept); err != nil {
		return nil, err
	}
	return models.NewCart(mode, 0, kept), nil
}

func (s *CartService) ClearCart(ctx context.Context, session *Session) (*models.Cart, error) {
	mode, customerID, err := s.Binding(ctx, session)
	if err != nil {
		return nil, err
	}

	switch mode {
	case models.CartModeNoProfile:
		return nil, ErrNoCustomerProfile

	case models.CartModeBound:
		if err := s.client.ClearCart(ctx, customerID); err != nil {
			return nil, fmt.Errorf("failed to clear cart: %w", err)
		}
		if err := storage.SetJSON(ctx, s.store, session.VisitorID, storage.KeyBoundCart, []models.CartLine{}); err != nil {
			return nil, err
		}
		return models.NewCart(mode, customerID, nil), nil
	}

	if err := s.store.Remove(ctx, session.VisitorID, storage.KeyGuestCart); err != nil {
		return nil, err
	}
	return models.NewCart(mode, 0, nil), nil
}

// AttachSession runs right after login: it resolves the customer and
// moves any guest cart to the backend.
func (s *CartService) AttachSession(ctx context.Context, session *Session) (*models.SyncResult, error) {
	mode, customerID, err := s.Binding(ctx, session)
	if err != nil {
		return nil, err
	}
	if mode != models.CartModeBound {
		return nil, nil
	}
	return s.SyncGuestCart(ctx, session, customerID)
}

// SyncGuestCart posts every guest line to the backend cart of customerID.
// Each line that reaches the backend is dropped from the guest cart at once,
// so a later retry only sends what is still pending.
func (s *CartService) SyncGuestCart(ctx context.Context, session *Session, customerID int64) (*models.SyncResult, error) {
	visitorID := session.VisitorID

	lines, err := s.guestLines(ctx, visitorID)
	if err != nil {
		return nil, err
	}

	result := &models.SyncResult{}
	if len(lines) == 0 {
		if err := s.store.Remove(ctx, visitorID, storage.KeyGuestSync); err != nil {
			return nil, err
		}
		result.Cart, err = s.refreshBound(ctx, session, customerID)
		return result, err
	}

	journal := &models.GuestSyncJournal{}
	found, err := storage.GetJSON(ctx, s.store, visitorID, storage.KeyGuestSync, journal)
	if err != nil {
		return nil, err
	}
	if !found || journal.CustomerID != customerID {
		journal = &models.GuestSyncJournal{CustomerID: customerID, StartedAt: s.now()}
	}
	journal.Pending = journal.Pending[:0]
	for _, line := range lines {
		journal.Pending = append(journal.Pending, line.ID)
	}
	journal.UpdatedAt = s.now()
	if err := storage.SetJSON(ctx, s.store, visitorID, storage.KeyGuestSync, journal); err != nil {
		return nil, err
	}

	var (
		mu        sync.Mutex
		remaining = append([]models.CartLine(nil), lines...)
	)

	markSynced := func(lineID int64) error {
		mu.Lock()
		defer mu.Unlock()

		kept := remaining[:0]
		for _, line := range remaining {
			if line.ID != lineID {
				kept = append(kept, line)
			}
		}
		remaining = kept

		journal.Pending = removeID(journal.Pending, lineID)
		journal.Synced = append(journal.Synced, lineID)
		journal.UpdatedAt = s.now()
		result.Synced++

		if err := s.saveGuestLines(ctx, visitorID, remaining); err != nil {
			return err
		}
		return storage.SetJSON(ctx, s.store, visitorID, storage.KeyGuestSync, journal)
	}

	// Plain group: one failed line must not cancel the others in flight.
	var g errgroup.Group
	for _, line := range lines {
		line := line
		g.Go(func() error {
			err := s.client.AddCartLine(ctx, &models.CartLinePayload{
				Customer: models.IDRef{ID: customerID},
				Product:  models.ProductRef{ID: line.Product.ID},
				Quantity: line.Quantity,
			})
			if err != nil {
				return fmt.Errorf("product %d: %w", line.Product.ID, err)
			}
			return markSynced(line.ID)
		})
	}
	syncErr := g.Wait()

	result.Remaining = len(remaining)
	result.Failed = len(remaining)

	if syncErr == nil && len(remaining) == 0 {
		if err := s.store.Remove(ctx, visitorID, storage.KeyGuestCart, storage.KeyGuestSync); err != nil {
			return nil, err
		}
	} else {
		journal.LastError = errString(syncErr)
		journal.UpdatedAt = s.now()
		if err := storage.SetJSON(ctx, s.store, visitorID, storage.KeyGuestSync, journal); err != nil {
			return nil, err
		}
		s.logger.WithFields(logrus.Fields{
			"visitor_id":  visitorID,
			"customer_id": customerID,
			"synced":      result.Synced,
			"remaining":   result.Remaining,
		}).WithError(syncErr).Warn("Guest cart sync incomplete")
	}

	cart, err := s.refreshBound(ctx, session, customerID)
	if err != nil {
		return result, err
	}
	result.Cart = cart

	if syncErr != nil {
		return result, fmt.Errorf("%w: %w", ErrSyncIncomplete, syncErr)
	}
	return result, nil
}

// CurrentLines returns the cart as last seen, without network calls.
// A missing mirror reads as empty; the next cart read fills it.
func (s *CartService) CurrentLines(ctx context.Context, session *Session) ([]models.CartLine, error) {
	var lines []models.CartLine
	if _, err := storage.GetJSON(ctx, s.store, session.VisitorID, storage.KeyBoundCart, &lines); err != nil {
		return nil, err
	}
	return lines, nil
}

func (s *CartService) refreshBound(ctx context.Context, session *Session, customerID int64) (*models.Cart, error) {
	lines, err := s.client.ListCartLines(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch cart: %w", err)
	}
	if lines == nil {
		lines = []models.CartLine{}
	}

	if err := storage.SetJSON(ctx, s.store, session.VisitorID, storage.KeyBoundCart, lines); err != nil {
		return nil, err
	}
	return models.NewCart(models.CartModeBound, customerID, lines), nil
}

func (s *CartService) guestLines(ctx context.Context, visitorID string) ([]models.CartLine, error) {
	var lines []models.CartLine
	if _, err := storage.GetJSON(ctx, s.store, visitorID, storage.KeyGuestCart, &lines); err != nil {
		return nil, err
	}
	return lines, nil
}

func (s *CartService) saveGuestLines(ctx context.Context, visitorID string, lines []models.CartLine) error {
	if lines == nil {
		lines = []models.CartLine{}
	}
	return storage.SetJSON(ctx, s.store, visitorID, storage.KeyGuestCart, lines)
}

// newGuestLineID is a millisecond timestamp bumped until unique within the cart.
func (s *CartService) newGuestLineID(lines []models.CartLine) int64 {
	id := s.now().UnixMilli()
	for {
		taken := false
		for _, line := range lines {
			if line.ID == id {
				taken = true
				break
			}
		}
		if !taken {
			return id
		}
		id++
	}
}

func removeID(ids []int64, id int64) []int64 {
	kept := ids[:0]
	for _, v := range ids {
		if v != id {
			kept = append(kept, v)
		}
	}
	return kept
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
