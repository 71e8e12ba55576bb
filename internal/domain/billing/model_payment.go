package billing

import "time"

// Payment is an informational record of a completed checkout or paid
// invoice. Entitlement state is never derived from these rows; the
// webhook engine writes them purely for history and support tooling.
type Payment struct {
	ID                   uint   `gorm:"primaryKey" json:"id"`
	UserID               uint   `gorm:"index:idx_payments_user_id" json:"user_id"`
	StripeSessionID      string `gorm:"uniqueIndex:idx_payments_stripe_session_id" json:"-"`
	StripeSubscriptionID string `json:"stripe_subscription_id,omitempty"`
	StripeInvoiceID      string `json:"stripe_invoice_id,omitempty"`
	AmountCents          int64  `json:"amount_cents"`
	Currency             string `gorm:"type:varchar(3)" json:"currency"`
	Status               string `json:"status"`

	CreatedAt time.Time `json:"created_at"`
}
