package handlers

import (
	"net/http"
	"time"

	"github.com/HoneySecret20/aurex-backend/database"

	"github.com/gin-gonic/gin"
)

// HealthHandler проверяет доступность сервиса и БД
func HealthHandler(c *gin.Context) {
	dbStatus := "ok"
	if err := database.Pool.Ping(c.Request.Context()); err != nil {
		dbStatus = "unavailable"
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"database": dbStatus,
		"time":     time.Now().UTC(),
	})
}
