package plans

import (
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"

	"flipfolio/internal/domain/plans"
)

// Handler exposes the configured plan catalog for the pricing page.
type Handler struct {
	catalog *plans.Catalog
}

func NewHandler(catalog *plans.Catalog) *Handler {
	return &Handler{catalog: catalog}
}

type planEntry struct {
	Tier     plans.Tier     `json:"tier"`
	Interval plans.Interval `json:"interval"`
	PriceID  string         `json:"price_id"`
}

// ListPlans returns every configured (tier, interval) price. Anything
// missing here cannot be checked out.
func (h *Handler) ListPlans(c *gin.Context) {
	entries := make([]planEntry, 0)
	for key, priceID := range h.catalog.Entries() {
		entries = append(entries, planEntry{
			Tier:     key.Tier,
			Interval: key.Interval,
			PriceID:  priceID,
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Tier != entries[j].Tier {
			return entries[i].Tier < entries[j].Tier
		}
		return entries[i].Interval < entries[j].Interval
	})

	c.JSON(http.StatusOK, entries)
}
