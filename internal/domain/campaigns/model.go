package campaigns

import "time"

// Campaign is a time-boxed promotional campaign. While a campaign is in
// its window, checkouts started without an explicit voucher code pick up
// its coupon automatically.
type Campaign struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Name     string `gorm:"not null" json:"name"`
	CouponID string `gorm:"column:coupon_id" json:"coupon_id,omitempty"`

	StartsAt time.Time `gorm:"not null" json:"starts_at"`
	EndsAt   time.Time `gorm:"not null" json:"ends_at"`
	IsActive bool      `gorm:"default:true" json:"is_active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"-"`
}

// Running reports whether the campaign window covers the given instant.
func (c *Campaign) Running(now time.Time) bool {
	return c.IsActive && !now.Before(c.StartsAt) && now.Before(c.EndsAt)
}
