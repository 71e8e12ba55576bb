package billing

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"flipfolio/internal/domain/access"
	"flipfolio/internal/domain/entitlements"
	"flipfolio/internal/domain/plans"
)

// GetEntitlement returns the caller's current entitlement row plus the
// derived access state. This is the only way other parts of the product
// learn tier and status. Users who never subscribed get a stable
// no-subscription shape rather than an error.
func (h *Handler) GetEntitlement(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	now := time.Now()

	ent, err := h.store.Get(c.Request.Context(), userID)
	if errors.Is(err, entitlements.ErrNotFound) {
		c.JSON(http.StatusOK, gin.H{
			"user_id":      userID,
			"tier":         plans.TierNone,
			"status":       nil,
			"access":       access.AccessLocked,
			"capabilities": []string{},
		})
		return
	}
	if err != nil {
		h.log.Error("entitlement lookup failed", "user_id", userID, "error", err)
		apiError(c, http.StatusInternalServerError, CodeInternalError, "Failed to load entitlement")
		return
	}

	state := access.ComputeAccessState(now, ent)
	c.JSON(http.StatusOK, gin.H{
		"entitlement":  ent,
		"access":       state,
		"capabilities": access.CapabilitiesFor(state, ent.Tier),
	})
}
