package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/HoneySecret20/aurex-backend/ledger"
	"github.com/HoneySecret20/aurex-backend/logging"
	"github.com/HoneySecret20/aurex-backend/monitoring"
	"github.com/HoneySecret20/aurex-backend/paystack"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// VerifyPaymentHandler – клиентский путь подтверждения: фронтенд после
// оплаты присылает reference, мы сами спрашиваем шлюз о статусе.
// Может гоняться с вебхуком за ту же транзакцию – начисление от этого
// не задвоится, повторный вызов всегда безопасен.
func VerifyPaymentHandler(c *gin.Context) {
	var req struct {
		Reference string `json:"reference" binding:"required"`
		Email     string `json:"email" binding:"required,email"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tx, err := gateway.VerifyTransaction(c.Request.Context(), req.Reference)
	if errors.Is(err, paystack.ErrGatewayUnavailable) {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Verification failed, try again", "retryable": true})
		return
	}
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Verification failed"})
		return
	}

	if !tx.Succeeded() {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Payment not successful"})
		return
	}

	applied, err := coordinator.Confirm(c.Request.Context(), req.Email, req.Reference, tx.CustomerEmail)
	switch {
	case errors.Is(err, ledger.ErrAccountNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	case errors.Is(err, ledger.ErrIdentityMismatch):
		c.JSON(http.StatusForbidden, gin.H{"error": "Payment does not belong to this account"})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	if applied {
		monitoring.PaymentsConfirmedTotal.WithLabelValues("poll").Inc()
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Payment verified",
		"applied": applied,
	})
}

// PaystackWebhookHandler – второй путь подтверждения. Подпись считается
// от сырых байт тела (перекодированный JSON подписи не пройдёт).
// Провайдеру всегда отвечаем быстро и коротко: любой не-2xx кроме
// ошибки подписи спровоцировал бы шторм ретраев.
func PaystackWebhookHandler(c *gin.Context) {
	rawBody, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot read body"})
		return
	}

	signature := c.GetHeader(paystack.SignatureHeader)
	if !paystack.VerifySignature(rawBody, signature, appConfig.WebhookSecret) {
		monitoring.WebhooksRejectedTotal.Inc()
		logging.Logger.Warn("вебхук отклонён: неверная подпись", zap.String("ip", c.ClientIP()))
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid signature"})
		return
	}

	data, ok := paystack.ParseChargeEvent(rawBody)
	if !ok || data.Status != "success" {
		// не наше событие – подтверждаем приём и забываем
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
		return
	}

	applied, err := coordinator.Confirm(c.Request.Context(), data.Customer.Email, data.Reference, data.Customer.Email)
	if err != nil && !errors.Is(err, ledger.ErrAccountNotFound) {
		// внутренняя ошибка не повод для ретраев провайдера:
		// подтверждаем приём, проблему разбираем по логам
		logging.Logger.Error("ошибка обработки вебхука",
			zap.String("reference", data.Reference), zap.Error(err))
	}

	if applied {
		monitoring.PaymentsConfirmedTotal.WithLabelValues("webhook").Inc()
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
