package admin

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"flipfolio/internal/domain/campaigns"
	"flipfolio/internal/domain/entitlements"
)

// Handler serves the operational admin endpoints: entitlement listings,
// campaign management and (outside production) the entitlement override
// channel.
type Handler struct {
	store     *entitlements.Store
	campaigns *campaigns.Store
	log       *slog.Logger
}

func NewHandler(store *entitlements.Store, campaignStore *campaigns.Store, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{store: store, campaigns: campaignStore, log: log}
}

func (h *Handler) ListEntitlements(c *gin.Context) {
	rows, err := h.store.List(c.Request.Context())
	if err != nil {
		h.log.Error("entitlement listing failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load entitlements"})
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (h *Handler) ListCampaigns(c *gin.Context) {
	rows, err := h.campaigns.List(c.Request.Context())
	if err != nil {
		h.log.Error("campaign listing failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load campaigns"})
		return
	}
	c.JSON(http.StatusOK, rows)
}

type createCampaignRequest struct {
	Name     string    `json:"name" binding:"required"`
	CouponID string    `json:"coupon_id"`
	StartsAt time.Time `json:"starts_at" binding:"required"`
	EndsAt   time.Time `json:"ends_at" binding:"required"`
}

func (h *Handler) CreateCampaign(c *gin.Context) {
	var body createCampaignRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing or invalid campaign fields"})
		return
	}
	if !body.EndsAt.After(body.StartsAt) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ends_at must be after starts_at"})
		return
	}

	campaign := &campaigns.Campaign{
		Name:     body.Name,
		CouponID: body.CouponID,
		StartsAt: body.StartsAt,
		EndsAt:   body.EndsAt,
		IsActive: true,
	}
	if err := h.campaigns.Create(c.Request.Context(), campaign); err != nil {
		h.log.Error("campaign creation failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create campaign"})
		return
	}
	c.JSON(http.StatusCreated, campaign)
}
