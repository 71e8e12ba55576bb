package campaigns

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// ActiveCampaign returns the campaign currently in its window, if any.
// When several overlap, the most recently started one wins.
func (s *Store) ActiveCampaign(ctx context.Context, now time.Time) (*Campaign, error) {
	var c Campaign
	err := s.db.WithContext(ctx).
		Where("is_active = ? AND starts_at <= ? AND ends_at > ?", true, now, now).
		Order("starts_at DESC").
		First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("active campaign lookup: %w", err)
	}
	return &c, nil
}

func (s *Store) Create(ctx context.Context, c *Campaign) error {
	if err := s.db.WithContext(ctx).Create(c).Error; err != nil {
		return fmt.Errorf("create campaign: %w", err)
	}
	return nil
}

func (s *Store) List(ctx context.Context) ([]Campaign, error) {
	var rows []Campaign
	if err := s.db.WithContext(ctx).Order("starts_at DESC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list campaigns: %w", err)
	}
	return rows, nil
}
