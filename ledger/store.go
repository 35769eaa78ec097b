package ledger

import (
	"context"
	"time"

	"github.com/HoneySecret20/aurex-backend/models"
)

// Store – контракт хранилища для всех мутаций баланса. Каждый метод
// с результатом bool выполняет одну атомарную условную запись:
// false означает, что предикат не выполнился (флаг уже стоял, средств
// не хватило, награда уже выдана) и никаких изменений не произошло.
//
// Продакшен-реализация – models.LedgerStore поверх PostgreSQL;
// в тестах используется in-memory двойник с той же семантикой.
type Store interface {
	UserByEmail(ctx context.Context, email string) (*models.User, error)
	UserByReferralCode(ctx context.Context, code string) (*models.User, error)

	// "paid=true и +бонус, только если paid был false"
	ApplyPaidBonus(ctx context.Context, email string, bonus int64) (bool, error)

	// "+бонус и +1 к счётчику, только если за referredID ещё не начисляли"
	RewardReferrer(ctx context.Context, referrerID, referredID string, bonus int64) (bool, error)

	// "-сумма и заявка на вывод, только если balance >= сумма"
	Debit(ctx context.Context, w *models.Withdrawal) (bool, error)

	// "+награда, только если за этот день ещё не отмечались"
	CompleteTask(ctx context.Context, userID string, day time.Time, bonus int64) (bool, error)
}
