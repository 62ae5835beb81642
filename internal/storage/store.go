// internal/storage/store.go
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/javajoker/perfume-storefront/internal/backend"
)

// Keys of the per-visitor state.
const (
	KeyToken        = "jwt_token"
	KeyUser         = "user_data"
	KeyGuestCart    = "guest_cart"
	KeyCustomerID   = "customer_id"
	KeyBoundCart    = "bound_cart"
	KeyCheckoutSaga = "checkout_saga"
	KeyGuestSync    = "guest_cart_sync"
)

var ErrNoVisitor = errors.New("no visitor bound to request")

// Store persists small string values per visitor. Last writer wins.
type Store interface {
	Get(ctx context.Context, visitorID, key string) (string, bool, error)
	Set(ctx context.Context, visitorID, key, value string) error
	Remove(ctx context.Context, visitorID string, keys ...string) error
	Close() error
}

type visitorKey struct{}

func WithVisitor(ctx context.Context, visitorID string) context.Context {
	return context.WithValue(ctx, visitorKey{}, visitorID)
}

func VisitorFrom(ctx context.Context) (string, bool) {
	visitorID, ok := ctx.Value(visitorKey{}).(string)
	return visitorID, ok && visitorID != ""
}

func GetJSON(ctx context.Context, s Store, visitorID, key string, target interface{}) (bool, error) {
	raw, found, err := s.Get(ctx, visitorID, key)
	if err != nil || !found {
		return false, err
	}

	if err := json.Unmarshal([]byte(raw), target); err != nil {
		return false, fmt.Errorf("decoding %s: %w", key, err)
	}
	return true, nil
}

func SetJSON(ctx context.Context, s Store, visitorID, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", key, err)
	}
	return s.Set(ctx, visitorID, key, string(data))
}

// TokenSource reads the persisted bearer token of the visitor bound to ctx.
func TokenSource(s Store) backend.TokenSource {
	return backend.TokenSourceFunc(func(ctx context.Context) (string, error) {
		visitorID, ok := VisitorFrom(ctx)
		if !ok {
			return "", nil
		}

		token, _, err := s.Get(ctx, visitorID, KeyToken)
		return token, err
	})
}
