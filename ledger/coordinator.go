package ledger

import (
	"context"
	"errors"
	"strings"

	"github.com/HoneySecret20/aurex-backend/models"

	"go.uber.org/zap"
)

// Coordinator – единственная точка, решающая, приводит ли подтверждение
// оплаты к изменению состояния. Его могут дёргать одновременно два пути:
// клиентский опрос verify-payment и вебхук charge.success, в любом
// порядке и сколько угодно раз.
type Coordinator struct {
	store        Store
	cascade      *ReferralCascade
	welcomeBonus int64
	log          *zap.Logger
}

func NewCoordinator(store Store, cascade *ReferralCascade, welcomeBonus int64, log *zap.Logger) *Coordinator {
	return &Coordinator{
		store:        store,
		cascade:      cascade,
		welcomeBonus: welcomeBonus,
		log:          log,
	}
}

// Confirm применяет приветственный бонус не более одного раза.
// applied=false – бонус уже был начислен раньше (или конкурентным
// вызовом); это не ошибка.
//
// Порядок жёсткий: каскад рефереру запускается только если условный
// UPDATE действительно перевёл paid из false в true. Проигравший
// гонку вызов видит applied=false и каскад не трогает – иначе бонус
// рефереру мог бы уйти дважды.
func (co *Coordinator) Confirm(ctx context.Context, email, reference, payerEmail string) (bool, error) {
	if !strings.EqualFold(strings.TrimSpace(email), strings.TrimSpace(payerEmail)) {
		co.log.Warn("подтверждение отклонено: email плательщика не совпадает",
			zap.String("email", email), zap.String("payer", payerEmail), zap.String("reference", reference))
		return false, ErrIdentityMismatch
	}

	user, err := co.store.UserByEmail(ctx, email)
	if errors.Is(err, models.ErrNotFound) {
		return false, ErrAccountNotFound
	}
	if err != nil {
		return false, err
	}

	applied, err := co.store.ApplyPaidBonus(ctx, email, co.welcomeBonus)
	if err != nil {
		return false, err
	}
	if !applied {
		co.log.Debug("оплата уже подтверждена, повтор игнорируется",
			zap.String("email", email), zap.String("reference", reference))
		return false, nil
	}

	co.log.Info("оплата подтверждена, бонус начислен",
		zap.String("email", email), zap.String("reference", reference), zap.Int64("bonus", co.welcomeBonus))

	if user.ReferredBy != "" {
		// Ошибка каскада не откатывает подтверждение: флип уже
		// зафиксирован, а повторный вызов Reward безопасен.
		if _, err := co.cascade.Reward(ctx, user.ReferredBy, user.ID); err != nil {
			co.log.Error("не удалось начислить реферальный бонус",
				zap.String("code", user.ReferredBy), zap.String("referred_id", user.ID), zap.Error(err))
		}
	}

	return true, nil
}
