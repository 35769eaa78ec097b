package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port           string
	Env            string
	LogLevel       string
	Debug          bool
	TrustedProxies []string
	AllowedOrigins []string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	JWTSecret        string
	JWTRefreshSecret string
	JWTAccessExpiry  time.Duration
	JWTRefreshExpiry time.Duration

	// Paystack
	PaystackSecretKey string // Bearer-ключ для transaction/verify
	WebhookSecret     string // ключ подписи вебхуков (по умолчанию = secret key)

	// Бонусы (в найрах, целые)
	WelcomeBonus  int64 // начисляется при первом подтверждении оплаты
	ReferralBonus int64 // начисляется пригласившему
	TaskBonus     int64 // ежедневное задание

	// Окно вывода средств
	WithdrawTimezone  string
	WithdrawOpenHour  int
	WithdrawCloseHour int
}

func Load() *Config {
	cfg := &Config{
		Port:           getEnv("PORT", "8080"),
		Env:            getEnv("GIN_MODE", "debug"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		Debug:          getEnvAsBool("DEBUG", true),
		TrustedProxies: []string{},
		AllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"*"}),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "aurex"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		JWTSecret:        getEnv("JWT_ACCESS_SECRET", "default-access-secret"),
		JWTRefreshSecret: getEnv("JWT_REFRESH_SECRET", "default-refresh-secret"),
		JWTAccessExpiry:  getEnvAsDuration("JWT_ACCESS_EXPIRY", 15*time.Minute),
		JWTRefreshExpiry: getEnvAsDuration("JWT_REFRESH_EXPIRY", 30*24*time.Hour),

		PaystackSecretKey: getEnv("PAYSTACK_SECRET_KEY", ""),
		WebhookSecret:     getEnv("PAYSTACK_WEBHOOK_SECRET", ""),

		WelcomeBonus:  getEnvAsInt64("WELCOME_BONUS", 200),
		ReferralBonus: getEnvAsInt64("REFERRAL_BONUS", 100),
		TaskBonus:     getEnvAsInt64("TASK_BONUS", 50),

		// Paystack работает в Нигерии – фиксируем бизнес-зону,
		// а не локаль сервера
		WithdrawTimezone:  getEnv("WITHDRAW_TIMEZONE", "Africa/Lagos"),
		WithdrawOpenHour:  getEnvAsInt("WITHDRAW_OPEN_HOUR", 18),
		WithdrawCloseHour: getEnvAsInt("WITHDRAW_CLOSE_HOUR", 21),
	}

	if proxies := getEnv("TRUSTED_PROXIES", ""); proxies != "" {
		cfg.TrustedProxies = strings.Split(proxies, ",")
	}

	// Paystack подписывает вебхуки тем же секретным ключом
	if cfg.WebhookSecret == "" {
		cfg.WebhookSecret = cfg.PaystackSecretKey
	}

	log.Printf("📋 Конфигурация загружена: порт=%s, режим=%s, БД=%s, PaystackKeySet=%v",
		cfg.Port, cfg.Env, cfg.DBName, cfg.PaystackSecretKey != "")
	return cfg
}

// MustValidate завершает процесс, если не заданы обязательные секреты.
// Отсутствие ключей – это ошибка конфигурации, а не ошибка запроса.
func (c *Config) MustValidate() {
	if c.PaystackSecretKey == "" {
		log.Fatal("❌ PAYSTACK_SECRET_KEY не задан")
	}
	if c.WebhookSecret == "" {
		log.Fatal("❌ PAYSTACK_WEBHOOK_SECRET не задан")
	}
	if c.Env == "release" && (c.JWTSecret == "default-access-secret" || c.JWTRefreshSecret == "default-refresh-secret") {
		log.Fatal("❌ JWT секреты по умолчанию нельзя использовать в release")
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	strVal := getEnv(key, "")
	if val, err := strconv.ParseBool(strVal); err == nil {
		return val
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	strVal := getEnv(key, "")
	if val, err := strconv.Atoi(strVal); err == nil {
		return val
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	strVal := getEnv(key, "")
	if val, err := strconv.ParseInt(strVal, 10, 64); err == nil {
		return val
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	strVal := getEnv(key, "")
	if val, err := time.ParseDuration(strVal); err == nil {
		return val
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	val := getEnv(key, "")
	if val == "" {
		return defaultValue
	}
	parts := strings.Split(val, ",")
	for i, part := range parts {
		parts[i] = strings.TrimSpace(part)
	}
	return parts
}
