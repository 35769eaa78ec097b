package models

import (
	"context"
	"time"

	"github.com/HoneySecret20/aurex-backend/database"
)

// ReferralReward – факт начисления бонуса за приглашённого.
// Одна строка на приглашённого (UNIQUE(referred_id)).
type ReferralReward struct {
	ID            string    `json:"id" db:"id"`
	ReferrerID    string    `json:"referrer_id" db:"referrer_id"`
	ReferredID    string    `json:"referred_id" db:"referred_id"`
	ReferredEmail string    `json:"referred_email"`
	Amount        int64     `json:"amount" db:"amount"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}

func ReferralRewardsByReferrer(ctx context.Context, referrerID string) ([]ReferralReward, error) {
	rows, err := database.Pool.Query(ctx,
		`SELECT rr.id, rr.referrer_id, rr.referred_id, u.email, rr.amount, rr.created_at
		 FROM referral_rewards rr
		 JOIN users u ON u.id = rr.referred_id
		 WHERE rr.referrer_id = $1
		 ORDER BY rr.created_at DESC`,
		referrerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []ReferralReward
	for rows.Next() {
		var r ReferralReward
		if err := rows.Scan(&r.ID, &r.ReferrerID, &r.ReferredID, &r.ReferredEmail, &r.Amount, &r.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, r)
	}
	return list, rows.Err()
}
