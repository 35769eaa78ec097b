package models

import (
	"context"
	"time"

	"github.com/HoneySecret20/aurex-backend/database"
)

// LedgerStore – единственная точка записи полей paid/balance/referrals_count.
// Каждая мутация – один UPDATE/INSERT с предикатом в WHERE (или уникальным
// ограничением), результат читается по RowsAffected. Никаких
// read-modify-write из памяти приложения.
type LedgerStore struct{}

func (LedgerStore) UserByEmail(ctx context.Context, email string) (*User, error) {
	return FindUserByEmail(ctx, email)
}

func (LedgerStore) UserByReferralCode(ctx context.Context, code string) (*User, error) {
	return FindUserByReferralCode(ctx, code)
}

// ApplyPaidBonus переводит paid в true и начисляет приветственный бонус
// одним условным UPDATE. false – флаг уже был установлен (в том числе
// конкурентным вызовом).
func (LedgerStore) ApplyPaidBonus(ctx context.Context, email string, bonus int64) (bool, error) {
	tag, err := database.Pool.Exec(ctx,
		`UPDATE users SET paid = true, balance = balance + $1, updated_at = NOW()
		 WHERE email = $2 AND paid = false`,
		bonus, email)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// RewardReferrer начисляет реферальный бонус. Строка в referral_rewards
// с UNIQUE(referred_id) – ключ идемпотентности: если она уже есть,
// начисление не повторяется. Вставка и кредит идут в одной транзакции.
func (LedgerStore) RewardReferrer(ctx context.Context, referrerID, referredID string, bonus int64) (bool, error) {
	tx, err := database.Pool.Begin(ctx)
	if err != nil {
		return false, err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		`INSERT INTO referral_rewards (referrer_id, referred_id, amount)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (referred_id) DO NOTHING`,
		referrerID, referredID, bonus)
	if err != nil {
		return false, err
	}
	if tag.RowsAffected() == 0 {
		return false, nil
	}

	_, err = tx.Exec(ctx,
		`UPDATE users SET balance = balance + $1, referrals_count = referrals_count + 1, updated_at = NOW()
		 WHERE id = $2`,
		bonus, referrerID)
	if err != nil {
		return false, err
	}

	return true, tx.Commit(ctx)
}

// Debit списывает сумму и создаёт заявку на вывод в одной транзакции.
// Предикат balance >= amount проверяется самим UPDATE в момент записи,
// а не по ранее прочитанному снимку.
func (LedgerStore) Debit(ctx context.Context, w *Withdrawal) (bool, error) {
	tx, err := database.Pool.Begin(ctx)
	if err != nil {
		return false, err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		`UPDATE users SET balance = balance - $1, updated_at = NOW()
		 WHERE id = $2 AND balance >= $1`,
		w.Amount, w.UserID)
	if err != nil {
		return false, err
	}
	if tag.RowsAffected() == 0 {
		return false, nil
	}

	err = tx.QueryRow(ctx,
		`INSERT INTO withdrawals (id, user_id, amount, status)
		 VALUES ($1, $2, $3, 'pending')
		 RETURNING created_at`,
		w.ID, w.UserID, w.Amount).Scan(&w.CreatedAt)
	if err != nil {
		return false, err
	}
	w.Status = "pending"

	return true, tx.Commit(ctx)
}

// CompleteTask отмечает выполнение ежедневного задания и начисляет
// награду. UNIQUE(user_id, day) гасит повторы в пределах суток.
func (LedgerStore) CompleteTask(ctx context.Context, userID string, day time.Time, bonus int64) (bool, error) {
	tx, err := database.Pool.Begin(ctx)
	if err != nil {
		return false, err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		`INSERT INTO task_completions (user_id, day)
		 VALUES ($1, $2)
		 ON CONFLICT (user_id, day) DO NOTHING`,
		userID, day)
	if err != nil {
		return false, err
	}
	if tag.RowsAffected() == 0 {
		return false, nil
	}

	_, err = tx.Exec(ctx,
		`UPDATE users SET balance = balance + $1, updated_at = NOW() WHERE id = $2`,
		bonus, userID)
	if err != nil {
		return false, err
	}

	return true, tx.Commit(ctx)
}
