package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/HoneySecret20/aurex-backend/models"

	"go.uber.org/zap"
)

// DailyTasks выдаёт награду за ежедневное задание: одна отметка
// на календарные сутки (в бизнес-зоне), повторы гасятся уникальным
// ограничением в хранилище.
type DailyTasks struct {
	store Store
	bonus int64
	loc   *time.Location
	log   *zap.Logger
}

func NewDailyTasks(store Store, bonus int64, loc *time.Location, log *zap.Logger) *DailyTasks {
	return &DailyTasks{store: store, bonus: bonus, loc: loc, log: log}
}

// Complete отмечает задание выполненным за сутки, в которые попадает now.
// false – за этот день награда уже выдана.
func (dt *DailyTasks) Complete(ctx context.Context, email string, now time.Time) (bool, error) {
	user, err := dt.store.UserByEmail(ctx, email)
	if errors.Is(err, models.ErrNotFound) {
		return false, ErrAccountNotFound
	}
	if err != nil {
		return false, err
	}

	t := now.In(dt.loc)
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)

	applied, err := dt.store.CompleteTask(ctx, user.ID, day, dt.bonus)
	if err != nil {
		return false, err
	}
	if applied {
		dt.log.Info("ежедневное задание засчитано",
			zap.String("user_id", user.ID), zap.String("day", day.Format("2006-01-02")))
	}
	return applied, nil
}
