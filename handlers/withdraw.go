package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/HoneySecret20/aurex-backend/ledger"
	"github.com/HoneySecret20/aurex-backend/models"
	"github.com/HoneySecret20/aurex-backend/monitoring"

	"github.com/gin-gonic/gin"
)

// WithdrawHandler обрабатывает заявку на вывод средств
func WithdrawHandler(c *gin.Context) {
	email, exists := c.Get("userEmail")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req struct {
		Amount int64 `json:"amount" binding:"required,gt=0"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	now := time.Now()
	w, err := gate.Withdraw(c.Request.Context(), email.(string), req.Amount, now)
	switch {
	case errors.Is(err, ledger.ErrOutsideWindow):
		c.JSON(http.StatusForbidden, gin.H{
			"error":       "Withdrawals are only open on Wednesday and Friday, 18:00-21:00 WAT",
			"next_window": gate.NextWindow(now),
		})
		return
	case errors.Is(err, ledger.ErrInsufficientBalance):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Insufficient balance"})
		return
	case errors.Is(err, ledger.ErrInvalidAmount):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid amount"})
		return
	case errors.Is(err, ledger.ErrAccountNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	monitoring.WithdrawalsApprovedTotal.Inc()

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"message":    "Withdrawal request created",
		"withdrawal": w,
	})
}

// ListWithdrawalsHandler возвращает историю заявок пользователя
func ListWithdrawalsHandler(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	list, err := models.WithdrawalsByUser(c.Request.Context(), userID.(string))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"withdrawals": list,
	})
}
