package handlers

import (
	"net/http"

	"github.com/HoneySecret20/aurex-backend/models"

	"github.com/gin-gonic/gin"
)

// ReferralStatsHandler возвращает свой код, счётчик приглашённых
// и историю реферальных начислений
func ReferralStatsHandler(c *gin.Context) {
	email, exists := c.Get("userEmail")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	user, err := models.FindUserByEmail(c.Request.Context(), email.(string))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	rewards, err := models.ReferralRewardsByReferrer(c.Request.Context(), user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	var totalEarned int64
	for _, r := range rewards {
		totalEarned += r.Amount
	}

	c.JSON(http.StatusOK, gin.H{
		"success":         true,
		"referral_code":   user.ReferralCode,
		"referrals_count": user.ReferralsCount,
		"total_earned":    totalEarned,
		"rewards":         rewards,
	})
}
