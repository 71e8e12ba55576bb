package entitlements

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrNotFound is returned when a user has no entitlement row yet.
var ErrNotFound = errors.New("entitlement not found")

// Store persists entitlements. Writes for a given user are serialized
// with a SELECT ... FOR UPDATE inside a transaction, so concurrent
// webhook deliveries and overrides for the same user never interleave.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Upsert replaces the user's entitlement row with the snapshot
// (last-write-wins on the whole row). Replaying an identical snapshot
// changes nothing but last_synced_at.
func (s *Store) Upsert(ctx context.Context, snap Snapshot) (*Entitlement, error) {
	if snap.UserID == 0 {
		return nil, fmt.Errorf("upsert entitlement: missing user id")
	}

	var row Entitlement
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		q := tx
		// sqlite has no row locks; the database-level write lock
		// serializes writers there instead.
		if tx.Dialector.Name() != "sqlite" {
			q = q.Clauses(clause.Locking{Strength: "UPDATE"})
		}
		err := q.Where("user_id = ?", snap.UserID).
			First(&row).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		row.apply(snap)
		row.LastSyncedAt = time.Now().UTC()
		return tx.Save(&row).Error
	})
	if err != nil {
		return nil, fmt.Errorf("upsert entitlement for user %d: %w", snap.UserID, err)
	}
	return &row, nil
}

// Get returns the user's entitlement row, or ErrNotFound.
func (s *Store) Get(ctx context.Context, userID uint) (*Entitlement, error) {
	var row Entitlement
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get entitlement for user %d: %w", userID, err)
	}
	return &row, nil
}

// FindBySubscriptionID correlates a platform subscription back to a
// stored row. Used as a user-resolution fallback during reconciliation.
func (s *Store) FindBySubscriptionID(ctx context.Context, subscriptionID string) (*Entitlement, error) {
	return s.findBy(ctx, "stripe_subscription_id = ?", subscriptionID)
}

// FindByCustomerID correlates a platform customer back to a stored row.
func (s *Store) FindByCustomerID(ctx context.Context, customerID string) (*Entitlement, error) {
	return s.findBy(ctx, "stripe_customer_id = ?", customerID)
}

func (s *Store) findBy(ctx context.Context, query string, arg string) (*Entitlement, error) {
	if arg == "" {
		return nil, ErrNotFound
	}
	var row Entitlement
	err := s.db.WithContext(ctx).Where(query, arg).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find entitlement: %w", err)
	}
	return &row, nil
}

// List returns all entitlement rows, newest sync first. Admin use only.
func (s *Store) List(ctx context.Context) ([]Entitlement, error) {
	var rows []Entitlement
	if err := s.db.WithContext(ctx).Order("last_synced_at DESC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list entitlements: %w", err)
	}
	return rows, nil
}
