package billing

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// Store records and lists informational payment history.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Record inserts a payment row. A replayed checkout event hits the
// unique session-id index and is treated as already recorded.
func (s *Store) Record(ctx context.Context, p *Payment) error {
	err := s.db.WithContext(ctx).Create(p).Error
	if err != nil && errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("record payment: %w", err)
	}
	return nil
}

// History lists a user's payments, newest first.
func (s *Store) History(ctx context.Context, userID uint) ([]Payment, error) {
	var rows []Payment
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("load payment history: %w", err)
	}
	return rows, nil
}
