package ledger

import (
	"context"
	"errors"

	"github.com/HoneySecret20/aurex-backend/models"

	"go.uber.org/zap"
)

// ReferralCascade начисляет бонус пригласившему. Один приглашённый –
// одно начисление, сколько бы раз каскад ни вызвали.
type ReferralCascade struct {
	store Store
	bonus int64
	log   *zap.Logger
}

func NewReferralCascade(store Store, bonus int64, log *zap.Logger) *ReferralCascade {
	return &ReferralCascade{store: store, bonus: bonus, log: log}
}

// Reward ищет реферера по коду и выполняет условное начисление.
// Битый или устаревший код – тихий no-op: регистрация приняла код
// без проверки, наказывать приглашённого не за что.
func (rc *ReferralCascade) Reward(ctx context.Context, code, referredID string) (bool, error) {
	referrer, err := rc.store.UserByReferralCode(ctx, code)
	if errors.Is(err, models.ErrNotFound) {
		rc.log.Debug("реферальный код не найден, каскад пропущен", zap.String("code", code))
		return false, nil
	}
	if err != nil {
		return false, err
	}

	applied, err := rc.store.RewardReferrer(ctx, referrer.ID, referredID, rc.bonus)
	if err != nil {
		return false, err
	}
	if !applied {
		rc.log.Debug("реферальный бонус уже начислялся за этого приглашённого",
			zap.String("referrer_id", referrer.ID), zap.String("referred_id", referredID))
		return false, nil
	}

	rc.log.Info("реферальный бонус начислен",
		zap.String("referrer_id", referrer.ID), zap.String("referred_id", referredID), zap.Int64("bonus", rc.bonus))
	return true, nil
}
