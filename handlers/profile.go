package handlers

import (
	"net/http"

	"github.com/HoneySecret20/aurex-backend/models"

	"github.com/gin-gonic/gin"
)

// GetUserProfile возвращает профиль текущего пользователя
func GetUserProfile(c *gin.Context) {
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

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user":    user,
	})
}
