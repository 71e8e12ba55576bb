package billing

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"flipfolio/internal/domain/campaigns"
)

// promoCodePrefix distinguishes promotion code ids from raw coupon ids
// in a caller-supplied voucher code.
const promoCodePrefix = "promo_"

// Discount is the resolved promotional discount for one checkout.
// Exactly one of the two fields is set. A nil *Discount means no
// discount, with customer-entered promo codes allowed at checkout.
type Discount struct {
	CouponID        string
	PromotionCodeID string
}

// DiscountValidator validates discount objects against the billing
// platform.
type DiscountValidator interface {
	ValidatePromotionCode(ctx context.Context, promoID string) (bool, error)
	ValidateCoupon(ctx context.Context, couponID string) (bool, error)
}

// CampaignLookup finds the currently running promotional campaign.
type CampaignLookup interface {
	ActiveCampaign(ctx context.Context, now time.Time) (*campaigns.Campaign, error)
}

// DiscountResolver decides which discount applies to a new checkout.
// A lookup or validation failure never blocks the checkout; it degrades
// to "no discount, manual promo entry allowed".
type DiscountResolver struct {
	validator DiscountValidator
	campaigns CampaignLookup
	log       *slog.Logger
}

func NewDiscountResolver(validator DiscountValidator, campaigns CampaignLookup, log *slog.Logger) *DiscountResolver {
	if log == nil {
		log = slog.Default()
	}
	return &DiscountResolver{validator: validator, campaigns: campaigns, log: log}
}

// Resolve determines the discount for a checkout. An explicit voucher
// code is authoritative; without one the active campaign's coupon is
// used when present.
func (r *DiscountResolver) Resolve(ctx context.Context, voucherCode string) *Discount {
	voucherCode = strings.TrimSpace(voucherCode)
	if voucherCode != "" {
		return r.resolveVoucher(ctx, voucherCode)
	}
	return r.resolveCampaign(ctx)
}

func (r *DiscountResolver) resolveVoucher(ctx context.Context, code string) *Discount {
	if strings.HasPrefix(code, promoCodePrefix) {
		ok, err := r.validator.ValidatePromotionCode(ctx, code)
		if err != nil {
			r.log.Warn("promotion code validation failed, proceeding without discount",
				"promotion_code", code, "error", err)
			return nil
		}
		if !ok {
			r.log.Warn("promotion code inactive, proceeding without discount",
				"promotion_code", code)
			return nil
		}
		return &Discount{PromotionCodeID: code}
	}

	ok, err := r.validator.ValidateCoupon(ctx, code)
	if err != nil {
		r.log.Warn("coupon validation failed, proceeding without discount",
			"coupon", code, "error", err)
		return nil
	}
	if !ok {
		r.log.Warn("coupon no longer valid, proceeding without discount", "coupon", code)
		return nil
	}
	return &Discount{CouponID: code}
}

func (r *DiscountResolver) resolveCampaign(ctx context.Context) *Discount {
	campaign, err := r.campaigns.ActiveCampaign(ctx, time.Now())
	if err != nil {
		r.log.Warn("campaign lookup failed, proceeding without discount", "error", err)
		return nil
	}
	if campaign == nil || campaign.CouponID == "" {
		return nil
	}

	ok, err := r.validator.ValidateCoupon(ctx, campaign.CouponID)
	if err != nil || !ok {
		r.log.Warn("campaign coupon not usable, proceeding without discount",
			"campaign", campaign.Name, "coupon", campaign.CouponID, "error", err)
		return nil
	}
	return &Discount{CouponID: campaign.CouponID}
}
