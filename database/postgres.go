package database

import (
	"context"
	"fmt"
	"log"

	"github.com/HoneySecret20/aurex-backend/config"

	"github.com/jackc/pgx/v5/pgxpool"
)

var Pool *pgxpool.Pool

func InitDB(cfg *config.Config) error {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBSSLMode)

	var err error
	Pool, err = pgxpool.New(context.Background(), dsn)
	if err != nil {
		return fmt.Errorf("unable to connect to database: %w", err)
	}

	if err := Pool.Ping(context.Background()); err != nil {
		return fmt.Errorf("unable to ping database: %w", err)
	}

	log.Println("✅ Подключение к PostgreSQL установлено")
	if err := createUsersTable(); err != nil {
		return fmt.Errorf("failed to create users table: %w", err)
	}
	if err := createReferralRewardsTable(); err != nil {
		return fmt.Errorf("failed to create referral_rewards table: %w", err)
	}
	if err := createWithdrawalsTable(); err != nil {
		return fmt.Errorf("failed to create withdrawals table: %w", err)
	}
	if err := createTaskCompletionsTable(); err != nil {
		return fmt.Errorf("failed to create task_completions table: %w", err)
	}
	return nil
}

func CloseDB() {
	if Pool != nil {
		Pool.Close()
		log.Println("🛑 Соединение с PostgreSQL закрыто")
	}
}

func createUsersTable() error {
	// pgcrypto для gen_random_uuid()
	_, err := Pool.Exec(context.Background(), `CREATE EXTENSION IF NOT EXISTS "pgcrypto";`)
	if err != nil {
		return err
	}

	// CHECK (balance >= 0) – последний рубеж: все списания и так условные,
	// но отрицательный баланс не должен быть возможен даже при ошибке в коде
	_, err = Pool.Exec(context.Background(), `
        CREATE TABLE IF NOT EXISTS users (
            id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
            username VARCHAR(100) UNIQUE NOT NULL,
            email VARCHAR(255) UNIQUE NOT NULL,
            password_hash VARCHAR(255) NOT NULL,
            referral_code VARCHAR(12) UNIQUE NOT NULL,
            referred_by VARCHAR(12),
            paid BOOLEAN NOT NULL DEFAULT false,
            balance BIGINT NOT NULL DEFAULT 0 CHECK (balance >= 0),
            referrals_count INTEGER NOT NULL DEFAULT 0,
            created_at TIMESTAMP DEFAULT NOW(),
            updated_at TIMESTAMP DEFAULT NOW()
        );
    `)
	if err != nil {
		return err
	}

	_, err = Pool.Exec(context.Background(), `
        CREATE INDEX IF NOT EXISTS idx_users_email ON users(email);
        CREATE INDEX IF NOT EXISTS idx_users_referral_code ON users(referral_code);
    `)
	if err != nil {
		return err
	}

	log.Println("✅ Таблица users готова")
	return nil
}

// createReferralRewardsTable создаёт журнал реферальных начислений.
// UNIQUE(referred_id) – ключ идемпотентности каскада: за одного
// приглашённого реферер получает бонус ровно один раз.
func createReferralRewardsTable() error {
	_, err := Pool.Exec(context.Background(), `
        CREATE TABLE IF NOT EXISTS referral_rewards (
            id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
            referrer_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            referred_id UUID UNIQUE NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            amount BIGINT NOT NULL,
            created_at TIMESTAMP DEFAULT NOW()
        );
    `)
	if err != nil {
		return err
	}

	_, err = Pool.Exec(context.Background(), `
        CREATE INDEX IF NOT EXISTS idx_referral_rewards_referrer_id ON referral_rewards(referrer_id);
    `)
	if err != nil {
		return err
	}

	log.Println("✅ Таблица referral_rewards готова")
	return nil
}

func createWithdrawalsTable() error {
	_, err := Pool.Exec(context.Background(), `
        CREATE TABLE IF NOT EXISTS withdrawals (
            id UUID PRIMARY KEY,
            user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            amount BIGINT NOT NULL CHECK (amount > 0),
            status VARCHAR(20) NOT NULL DEFAULT 'pending',
            created_at TIMESTAMP DEFAULT NOW()
        );
    `)
	if err != nil {
		return err
	}

	_, err = Pool.Exec(context.Background(), `
        CREATE INDEX IF NOT EXISTS idx_withdrawals_user_id ON withdrawals(user_id);
    `)
	if err != nil {
		return err
	}

	log.Println("✅ Таблица withdrawals готова")
	return nil
}

// createTaskCompletionsTable создаёт отметки выполнения ежедневного задания.
// UNIQUE(user_id, day) – одна награда в календарный день.
func createTaskCompletionsTable() error {
	_, err := Pool.Exec(context.Background(), `
        CREATE TABLE IF NOT EXISTS task_completions (
            id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
            user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            day DATE NOT NULL,
            created_at TIMESTAMP DEFAULT NOW(),
            UNIQUE(user_id, day)
        );
    `)
	if err != nil {
		return err
	}

	log.Println("✅ Таблица task_completions готова")
	return nil
}
