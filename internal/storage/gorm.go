// internal/storage/gorm.go
package storage

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/javajoker/perfume-storefront/internal/models"
)

// GormStore keeps visitor state in the client_states table.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Get(ctx context.Context, visitorID, key string) (string, bool, error) {
	var state models.ClientState
	err := s.db.WithContext(ctx).
		Where("visitor_id = ? AND state_key = ?", visitorID, key).
		First(&state).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to load %s: %w", key, err)
	}
	return state.Value, true, nil
}

func (s *GormStore) Set(ctx context.Context, visitorID, key, value string) error {
	state := models.ClientState{
		VisitorID: visitorID,
		Key:       key,
		Value:     value,
	}

	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "visitor_id"}, {Name: "state_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&state).Error
	if err != nil {
		return fmt.Errorf("failed to save %s: %w", key, err)
	}
	return nil
}

func (s *GormStore) Remove(ctx context.Context, visitorID string, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	err := s.db.WithContext(ctx).
		Where("visitor_id = ? AND state_key IN ?", visitorID, keys).
		Delete(&models.ClientState{}).Error
	if err != nil {
		return fmt.Errorf("failed to remove state: %w", err)
	}
	return nil
}

// Close is a no-op; the connection belongs to the database package.
func (s *GormStore) Close() error {
	return nil
}
