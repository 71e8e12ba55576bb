package middleware

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"flipfolio/internal/domain/entitlements"
)

// RequireActiveEntitlement gates routes that need a paid (or trialing)
// plan. The entitlement row is the sole authority; nothing here talks
// to the billing platform.
func RequireActiveEntitlement(store *entitlements.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("user_id")
		if userID == 0 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User not identified"})
			return
		}

		ent, err := store.Get(c.Request.Context(), userID)
		if err != nil {
			if errors.Is(err, entitlements.ErrNotFound) {
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "No subscription on record"})
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Entitlement lookup failed"})
			return
		}

		if !ent.IsActive() || time.Now().After(ent.CurrentPeriodEnd) {
			c.AbortWithStatusJSON(http.StatusPaymentRequired, gin.H{"error": "Your subscription has expired"})
			return
		}

		c.Next()
	}
}
