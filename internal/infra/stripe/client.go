package stripeclient

import (
	"context"
	"fmt"
	"time"

	"github.com/stripe/stripe-go/v75"
	portalsession "github.com/stripe/stripe-go/v75/billingportal/session"
	checkoutsession "github.com/stripe/stripe-go/v75/checkout/session"
)

// defaultCallTimeout bounds every outbound Stripe call so a slow
// platform response surfaces as a retryable error instead of hanging
// the request.
const defaultCallTimeout = 15 * time.Second

// Client wraps the stripe-go bindings used by checkout, portal and
// discount resolution. The webhook path never goes through here except
// for customer retrieval.
type Client struct {
	timeout time.Duration
}

func NewClient(apiKey string) *Client {
	stripe.Key = apiKey
	return &Client{timeout: defaultCallTimeout}
}

// CheckoutParams carries everything needed to open a checkout session.
// At most one of CouponID / PromotionCodeID is set; when both are empty
// the session allows customer-entered promo codes instead.
type CheckoutParams struct {
	UserID     uint
	Email      string
	PriceID    string
	SuccessURL string
	CancelURL  string

	CouponID        string
	PromotionCodeID string
}

// CheckoutSession is the opaque result handed back to the caller.
type CheckoutSession struct {
	SessionID string
	URL       string
}

// CreateCheckoutSession opens a subscription checkout session. The user
// id goes into both the session metadata and the subscription metadata
// so webhook reconciliation can recover it even when the platform-side
// customer record lacks it.
func (c *Client) CreateCheckoutSession(ctx context.Context, p CheckoutParams) (*CheckoutSession, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	metadata := map[string]string{
		"user_id": fmt.Sprint(p.UserID),
	}

	params := &stripe.CheckoutSessionParams{
		Params:        stripe.Params{Context: ctx},
		Mode:          stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		CustomerEmail: stripe.String(p.Email),
		SuccessURL:    stripe.String(p.SuccessURL),
		CancelURL:     stripe.String(p.CancelURL),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{Price: stripe.String(p.PriceID), Quantity: stripe.Int64(1)},
		},
		ClientReferenceID: stripe.String(fmt.Sprint(p.UserID)),
		Metadata:          metadata,
		SubscriptionData: &stripe.CheckoutSessionSubscriptionDataParams{
			Metadata: metadata,
		},
	}

	switch {
	case p.CouponID != "":
		params.Discounts = []*stripe.CheckoutSessionDiscountParams{
			{Coupon: stripe.String(p.CouponID)},
		}
	case p.PromotionCodeID != "":
		params.Discounts = []*stripe.CheckoutSessionDiscountParams{
			{PromotionCode: stripe.String(p.PromotionCodeID)},
		}
	default:
		// Discounts and AllowPromotionCodes are mutually exclusive on
		// the Stripe side.
		params.AllowPromotionCodes = stripe.Bool(true)
	}

	sess, err := checkoutsession.New(params)
	if err != nil {
		return nil, fmt.Errorf("create checkout session: %w", err)
	}
	return &CheckoutSession{SessionID: sess.ID, URL: sess.URL}, nil
}

// CreatePortalSession opens a self-service billing portal session for an
// existing platform customer.
func (c *Client) CreatePortalSession(ctx context.Context, customerID, returnURL string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	sess, err := portalsession.New(&stripe.BillingPortalSessionParams{
		Params:    stripe.Params{Context: ctx},
		Customer:  stripe.String(customerID),
		ReturnURL: stripe.String(returnURL),
	})
	if err != nil {
		return "", fmt.Errorf("create portal session: %w", err)
	}
	return sess.URL, nil
}
