package plans

import "log/slog"

// PriceKey identifies one configured Stripe price.
type PriceKey struct {
	Tier     Tier
	Interval Interval
}

// Catalog is the immutable price <-> tier mapping, built once at startup
// from configuration and injected wherever prices are resolved. It never
// mutates after NewCatalog returns.
type Catalog struct {
	byPrice map[string]PriceKey
	byKey   map[PriceKey]string
	log     *slog.Logger
}

func NewCatalog(prices map[PriceKey]string, log *slog.Logger) *Catalog {
	if log == nil {
		log = slog.Default()
	}
	c := &Catalog{
		byPrice: make(map[string]PriceKey, len(prices)),
		byKey:   make(map[PriceKey]string, len(prices)),
		log:     log,
	}
	for key, priceID := range prices {
		if priceID == "" {
			continue
		}
		c.byKey[key] = priceID
		c.byPrice[priceID] = key
	}
	return c
}

// PriceID returns the Stripe price configured for a (tier, interval)
// pair. ok=false means no price is configured, which is a configuration
// error on the caller's request, not a subsystem fault.
func (c *Catalog) PriceID(tier Tier, interval Interval) (string, bool) {
	id, ok := c.byKey[PriceKey{Tier: tier, Interval: interval}]
	return id, ok
}

// TierForPrice maps a Stripe price id back to the internal tier.
// Unrecognized price ids fall back to starter so a partially configured
// catalog never blocks reconciliation, but the anomaly is logged at
// ERROR so the mapping gets corrected.
func (c *Catalog) TierForPrice(priceID string) Tier {
	if key, ok := c.byPrice[priceID]; ok {
		return key.Tier
	}
	c.log.Error("price id missing from catalog, falling back to starter tier",
		"price_id", priceID)
	return TierStarter
}

// Known reports whether a price id is part of the configured catalog.
func (c *Catalog) Known(priceID string) bool {
	_, ok := c.byPrice[priceID]
	return ok
}

// Entries returns a copy of the configured price keys, for listings.
func (c *Catalog) Entries() map[PriceKey]string {
	out := make(map[PriceKey]string, len(c.byKey))
	for k, v := range c.byKey {
		out[k] = v
	}
	return out
}
