package stripeclient

import (
	"context"
	"fmt"

	"github.com/stripe/stripe-go/v75"
	"github.com/stripe/stripe-go/v75/coupon"
	"github.com/stripe/stripe-go/v75/customer"
	"github.com/stripe/stripe-go/v75/promotioncode"
)

// GetCustomerMetadata retrieves a platform customer's metadata. The
// webhook engine uses it as a fallback to recover the owning user when
// the subscription's own metadata is missing.
func (c *Client) GetCustomerMetadata(ctx context.Context, customerID string) (map[string]string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	cust, err := customer.Get(customerID, &stripe.CustomerParams{
		Params: stripe.Params{Context: ctx},
	})
	if err != nil {
		return nil, fmt.Errorf("get customer %s: %w", customerID, err)
	}
	return cust.Metadata, nil
}

// ValidatePromotionCode reports whether a promotion code id is known
// and still active.
func (c *Client) ValidatePromotionCode(ctx context.Context, promoID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	pc, err := promotioncode.Get(promoID, &stripe.PromotionCodeParams{
		Params: stripe.Params{Context: ctx},
	})
	if err != nil {
		return false, fmt.Errorf("get promotion code %s: %w", promoID, err)
	}
	return pc.Active, nil
}

// ValidateCoupon reports whether a coupon id exists and is still
// redeemable.
func (c *Client) ValidateCoupon(ctx context.Context, couponID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	cp, err := coupon.Get(couponID, &stripe.CouponParams{
		Params: stripe.Params{Context: ctx},
	})
	if err != nil {
		return false, fmt.Errorf("get coupon %s: %w", couponID, err)
	}
	return cp.Valid, nil
}
