package billing

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetPaymentHistory lists the caller's recorded payments, newest first.
func (h *Handler) GetPaymentHistory(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	payments, err := h.payments.History(c.Request.Context(), userID)
	if err != nil {
		h.log.Error("payment history load failed", "user_id", userID, "error", err)
		apiError(c, http.StatusInternalServerError, CodeInternalError, "Failed to load payments")
		return
	}

	c.JSON(http.StatusOK, payments)
}
