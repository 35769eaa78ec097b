package models

import (
	"context"
	"time"

	"github.com/HoneySecret20/aurex-backend/database"
)

// Withdrawal – заявка на вывод средств. Создаётся только после того,
// как условное списание баланса прошло.
type Withdrawal struct {
	ID        string    `json:"id" db:"id"`
	UserID    string    `json:"user_id" db:"user_id"`
	Amount    int64     `json:"amount" db:"amount"`
	Status    string    `json:"status" db:"status"` // pending, settled
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

func WithdrawalsByUser(ctx context.Context, userID string) ([]Withdrawal, error) {
	rows, err := database.Pool.Query(ctx,
		`SELECT id, user_id, amount, status, created_at
		 FROM withdrawals WHERE user_id = $1 ORDER BY created_at DESC`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []Withdrawal
	for rows.Next() {
		var w Withdrawal
		if err := rows.Scan(&w.ID, &w.UserID, &w.Amount, &w.Status, &w.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, w)
	}
	return list, rows.Err()
}
