package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/HoneySecret20/aurex-backend/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Дни выплат: среда и пятница
var payoutDays = map[time.Weekday]bool{
	time.Wednesday: true,
	time.Friday:    true,
}

// WithdrawalGate пропускает вывод средств только внутри недельного окна
// и только при достаточном балансе. Сама проверка баланса выполняется
// предикатом условного списания в момент записи, а не заранее.
type WithdrawalGate struct {
	store     Store
	loc       *time.Location
	openHour  int // включительно
	closeHour int // не включительно
	log       *zap.Logger
}

func NewWithdrawalGate(store Store, loc *time.Location, openHour, closeHour int, log *zap.Logger) *WithdrawalGate {
	return &WithdrawalGate{
		store:     store,
		loc:       loc,
		openHour:  openHour,
		closeHour: closeHour,
		log:       log,
	}
}

// InWindow – чистая функция от момента времени. Окно открывается
// в openHour:00:00 включительно и закрывается в closeHour:00:00.
func (g *WithdrawalGate) InWindow(now time.Time) bool {
	t := now.In(g.loc)
	if !payoutDays[t.Weekday()] {
		return false
	}
	return t.Hour() >= g.openHour && t.Hour() < g.closeHour
}

// NextWindow возвращает ближайшее открытие окна – для подсказки
// пользователю в ответе OutsideWindow.
func (g *WithdrawalGate) NextWindow(now time.Time) time.Time {
	t := now.In(g.loc)
	for i := 0; i < 8; i++ {
		day := t.AddDate(0, 0, i)
		open := time.Date(day.Year(), day.Month(), day.Day(), g.openHour, 0, 0, 0, g.loc)
		if payoutDays[open.Weekday()] && open.After(t) {
			return open
		}
	}
	return t // недостижимо при непустом payoutDays
}

// Withdraw проверяет окно, затем выполняет условное списание и создаёт
// заявку на вывод. Если предикат баланса не прошёл, баланс перечитывается
// и списание повторяется один раз – на случай, когда отказ вызван гонкой,
// а не реальной нехваткой средств.
func (g *WithdrawalGate) Withdraw(ctx context.Context, email string, amount int64, now time.Time) (*models.Withdrawal, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if !g.InWindow(now) {
		return nil, ErrOutsideWindow
	}

	user, err := g.store.UserByEmail(ctx, email)
	if errors.Is(err, models.ErrNotFound) {
		return nil, ErrAccountNotFound
	}
	if err != nil {
		return nil, err
	}

	w := &models.Withdrawal{
		ID:     uuid.NewString(),
		UserID: user.ID,
		Amount: amount,
	}

	for attempt := 0; attempt < 2; attempt++ {
		ok, err := g.store.Debit(ctx, w)
		if err != nil {
			return nil, err
		}
		if ok {
			g.log.Info("вывод одобрен",
				zap.String("user_id", user.ID), zap.Int64("amount", amount), zap.String("withdrawal_id", w.ID))
			return w, nil
		}

		fresh, err := g.store.UserByEmail(ctx, email)
		if err != nil {
			return nil, ErrInsufficientBalance
		}
		if fresh.Balance < amount {
			return nil, ErrInsufficientBalance
		}
		// баланса хватает, но UPDATE не прошёл – гонка, пробуем ещё раз
	}

	return nil, ErrInsufficientBalance
}
