package plans

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func testCatalog(log *slog.Logger) *Catalog {
	return NewCatalog(map[PriceKey]string{
		{Tier: TierStarter, Interval: IntervalMonth}: "price_starter_month",
		{Tier: TierStarter, Interval: IntervalYear}:  "price_starter_year",
		{Tier: TierPro, Interval: IntervalMonth}:     "price_pro_month",
		{Tier: TierPro, Interval: IntervalYear}:      "price_pro_year",
		{Tier: TierGrowth, Interval: IntervalMonth}:  "price_growth_month",
		// growth/year deliberately unconfigured
	}, log)
}

func TestCatalogPriceID(t *testing.T) {
	c := testCatalog(nil)

	id, ok := c.PriceID(TierPro, IntervalMonth)
	assert.True(t, ok)
	assert.Equal(t, "price_pro_month", id)

	id, ok = c.PriceID(TierGrowth, IntervalYear)
	assert.False(t, ok, "unconfigured pair must not resolve")
	assert.Empty(t, id)
}

func TestCatalogTierForPrice(t *testing.T) {
	c := testCatalog(nil)

	assert.Equal(t, TierPro, c.TierForPrice("price_pro_month"))
	assert.Equal(t, TierGrowth, c.TierForPrice("price_growth_month"))
	assert.True(t, c.Known("price_starter_year"))
	assert.False(t, c.Known("price_mystery"))
}

func TestCatalogTierForPriceUnknownFallsBackToStarter(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, nil))
	c := testCatalog(log)

	assert.Equal(t, TierStarter, c.TierForPrice("price_mystery"))
	assert.Contains(t, buf.String(), "price_mystery", "fallback must be logged with the offending price id")
}

func TestCatalogIgnoresEmptyPriceIDs(t *testing.T) {
	c := NewCatalog(map[PriceKey]string{
		{Tier: TierPro, Interval: IntervalMonth}: "",
	}, nil)

	_, ok := c.PriceID(TierPro, IntervalMonth)
	assert.False(t, ok)
}

func TestParseTier(t *testing.T) {
	tier, ok := ParseTier(" Pro ")
	assert.True(t, ok)
	assert.Equal(t, TierPro, tier)

	tier, ok = ParseTier("enterprise")
	assert.False(t, ok)
	assert.Equal(t, TierNone, tier)

	assert.True(t, TierGrowth.Paid())
	assert.False(t, TierNone.Paid())
}

func TestParseInterval(t *testing.T) {
	iv, ok := ParseInterval("YEAR")
	assert.True(t, ok)
	assert.Equal(t, IntervalYear, iv)

	_, ok = ParseInterval("weekly")
	assert.False(t, ok)
}
