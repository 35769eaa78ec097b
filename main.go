package main

import (
	"fmt"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/HoneySecret20/aurex-backend/config"
	"github.com/HoneySecret20/aurex-backend/database"
	"github.com/HoneySecret20/aurex-backend/handlers"
	"github.com/HoneySecret20/aurex-backend/ledger"
	"github.com/HoneySecret20/aurex-backend/logging"
	"github.com/HoneySecret20/aurex-backend/middleware"
	"github.com/HoneySecret20/aurex-backend/models"
	"github.com/HoneySecret20/aurex-backend/paystack"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ .env file not found, using system environment")
	} else {
		fmt.Println("✅ .env file loaded and applied")
	}
	cfg := config.Load()
	cfg.MustValidate()

	if err := logging.InitLogger(cfg.Env == "release"); err != nil {
		log.Fatalf("❌ Ошибка инициализации логгера: %v", err)
	}
	defer logging.Sync()

	if err := database.InitDB(cfg); err != nil {
		log.Fatalf("❌ Ошибка подключения к БД: %v", err)
	}
	defer database.CloseDB()

	loc, err := time.LoadLocation(cfg.WithdrawTimezone)
	if err != nil {
		log.Fatalf("❌ Неизвестная таймзона %s: %v", cfg.WithdrawTimezone, err)
	}

	// Сборка ядра: все мутации баланса идут только через эти компоненты
	store := models.LedgerStore{}
	cascade := ledger.NewReferralCascade(store, cfg.ReferralBonus, logging.Logger)
	coordinator := ledger.NewCoordinator(store, cascade, cfg.WelcomeBonus, logging.Logger)
	gate := ledger.NewWithdrawalGate(store, loc, cfg.WithdrawOpenHour, cfg.WithdrawCloseHour, logging.Logger)
	tasks := ledger.NewDailyTasks(store, cfg.TaskBonus, loc, logging.Logger)
	gatewayClient := paystack.NewClient(cfg.PaystackSecretKey)

	handlers.Init(cfg, coordinator, gate, tasks, gatewayClient)

	if cfg.Env == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger())
	r.SetTrustedProxies(cfg.TrustedProxies)
	r.Use(middleware.SetupCORS(cfg))

	verifyLimiter := middleware.NewRateLimiter(20, time.Minute)
	loginLimiter := middleware.NewRateLimiter(10, time.Minute)

	api := r.Group("/api")
	{
		api.GET("/health", handlers.HealthHandler)
		api.POST("/auth/register", handlers.RegisterHandler)
		api.POST("/auth/login", middleware.RateLimit(loginLimiter), handlers.LoginHandler)
		api.POST("/auth/refresh", handlers.RefreshHandler)

		// Оба пути подтверждения оплаты: опрос и вебхук
		api.POST("/auth/verify-payment", middleware.RateLimit(verifyLimiter), handlers.VerifyPaymentHandler)
		api.POST("/webhooks/paystack", handlers.PaystackWebhookHandler)

		protected := api.Group("/")
		protected.Use(middleware.AuthMiddleware())
		{
			protected.GET("/user/profile", handlers.GetUserProfile)
			protected.GET("/referrals", handlers.ReferralStatsHandler)
			protected.POST("/withdraw", handlers.WithdrawHandler)
			protected.GET("/withdrawals", handlers.ListWithdrawalsHandler)
			protected.POST("/tasks/complete", handlers.CompleteTaskHandler)
		}
	}

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	port := ":" + cfg.Port
	baseURL := "http://localhost:" + cfg.Port

	fmt.Printf("\n============================================================\n")
	fmt.Printf("   🚀 Aurex Backend\n")
	fmt.Printf("============================================================\n\n")
	fmt.Printf("   📡 Health            %s/api/health\n", baseURL)
	fmt.Printf("   🔐 Регистрация       %s/api/auth/register\n", baseURL)
	fmt.Printf("   🔐 Вход              %s/api/auth/login\n", baseURL)
	fmt.Printf("   💳 Верификация       %s/api/auth/verify-payment\n", baseURL)
	fmt.Printf("   💳 Вебхук Paystack   %s/api/webhooks/paystack\n", baseURL)
	fmt.Printf("   💰 Вывод средств     %s/api/withdraw\n", baseURL)
	fmt.Printf("   📈 Метрики           %s/metrics\n\n", baseURL)
	fmt.Printf("   ⚙️  Конфигурация: порт=%s, режим=%s, БД=%s\n", cfg.Port, cfg.Env, cfg.DBName)
	fmt.Printf("   💸 Бонусы: welcome=%d, referral=%d, task=%d\n", cfg.WelcomeBonus, cfg.ReferralBonus, cfg.TaskBonus)
	fmt.Printf("   🕐 Окно вывода: ср/пт %02d:00-%02d:00 (%s)\n", cfg.WithdrawOpenHour, cfg.WithdrawCloseHour, cfg.WithdrawTimezone)
	fmt.Printf("============================================================\n")

	log.Printf("🚀 Сервер запущен на порту %s", port)
	r.Run(port)
}
