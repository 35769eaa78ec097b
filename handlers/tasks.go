package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/HoneySecret20/aurex-backend/ledger"

	"github.com/gin-gonic/gin"
)

// CompleteTaskHandler начисляет награду за ежедневное задание.
// Повторный вызов в те же сутки – не ошибка, просто applied=false.
func CompleteTaskHandler(c *gin.Context) {
	email, exists := c.Get("userEmail")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	applied, err := tasks.Complete(c.Request.Context(), email.(string), time.Now())
	if errors.Is(err, ledger.ErrAccountNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	if !applied {
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"applied": false,
			"message": "Task already completed today",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"applied": true,
		"message": "Daily task reward credited",
	})
}
