package ledger

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/HoneySecret20/aurex-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// 2025-01-01 – среда, 2025-01-03 – пятница
var (
	wednesday = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	friday    = time.Date(2025, 1, 3, 0, 0, 0, 0, time.UTC)
	tuesday   = time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)
)

func at(day time.Time, hour, min, sec int) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), hour, min, sec, 0, time.UTC)
}

func newTestGate(store Store) *WithdrawalGate {
	return NewWithdrawalGate(store, time.UTC, 18, 21, zap.NewNop())
}

func TestInWindow(t *testing.T) {
	gate := newTestGate(newMemStore())

	cases := []struct {
		name string
		now  time.Time
		want bool
	}{
		{"среда до открытия", at(wednesday, 17, 59, 59), false},
		{"среда ровно в открытие", at(wednesday, 18, 0, 0), true},
		{"среда внутри окна", at(wednesday, 19, 30, 0), true},
		{"среда за секунду до закрытия", at(wednesday, 20, 59, 59), true},
		{"среда ровно в закрытие", at(wednesday, 21, 0, 0), false},
		{"пятница внутри окна", at(friday, 18, 0, 0), true},
		{"вторник внутри часов", at(tuesday, 19, 0, 0), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, gate.InWindow(tc.now))
		})
	}
}

func TestNextWindow(t *testing.T) {
	gate := newTestGate(newMemStore())

	// со вторника – ближайшая среда 18:00
	next := gate.NextWindow(at(tuesday, 12, 0, 0))
	assert.Equal(t, at(wednesday, 18, 0, 0), next)

	// после закрытия в среду – пятница 18:00
	next = gate.NextWindow(at(wednesday, 21, 30, 0))
	assert.Equal(t, at(friday, 18, 0, 0), next)
}

func TestWithdrawOutsideWindow(t *testing.T) {
	store := newMemStore()
	store.addUser(&models.User{ID: "u1", Email: "ada@example.com", ReferralCode: "ada123", Balance: 500})
	gate := newTestGate(store)

	_, err := gate.Withdraw(context.Background(), "ada@example.com", 100, at(tuesday, 19, 0, 0))
	assert.ErrorIs(t, err, ErrOutsideWindow)

	u := store.snapshot("ada@example.com")
	assert.EqualValues(t, 500, u.Balance)
}

func TestWithdrawInsufficientBalance(t *testing.T) {
	store := newMemStore()
	store.addUser(&models.User{ID: "u1", Email: "ada@example.com", ReferralCode: "ada123", Balance: 50})
	gate := newTestGate(store)

	_, err := gate.Withdraw(context.Background(), "ada@example.com", 100, at(wednesday, 19, 0, 0))
	assert.ErrorIs(t, err, ErrInsufficientBalance)

	u := store.snapshot("ada@example.com")
	assert.EqualValues(t, 50, u.Balance)
}

func TestWithdrawInvalidAmount(t *testing.T) {
	store := newMemStore()
	store.addUser(&models.User{ID: "u1", Email: "ada@example.com", ReferralCode: "ada123", Balance: 500})
	gate := newTestGate(store)

	_, err := gate.Withdraw(context.Background(), "ada@example.com", 0, at(wednesday, 19, 0, 0))
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = gate.Withdraw(context.Background(), "ada@example.com", -10, at(wednesday, 19, 0, 0))
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestWithdrawApproved(t *testing.T) {
	store := newMemStore()
	store.addUser(&models.User{ID: "u1", Email: "ada@example.com", ReferralCode: "ada123", Balance: 500})
	gate := newTestGate(store)

	w, err := gate.Withdraw(context.Background(), "ada@example.com", 300, at(friday, 18, 0, 0))
	require.NoError(t, err)
	require.NotNil(t, w)
	assert.EqualValues(t, 300, w.Amount)
	assert.Equal(t, "u1", w.UserID)
	assert.Equal(t, "pending", w.Status)
	assert.NotEmpty(t, w.ID)

	u := store.snapshot("ada@example.com")
	assert.EqualValues(t, 200, u.Balance)
}

// Конкурентные выводы: сумма одобренных списаний не может превысить
// стартовый баланс, баланс не уходит в минус.
func TestConcurrentWithdrawalsNeverOverdraw(t *testing.T) {
	const (
		initial = 1000
		amount  = 300
		callers = 20
	)

	store := newMemStore()
	store.addUser(&models.User{ID: "u1", Email: "ada@example.com", ReferralCode: "ada123", Balance: initial})
	gate := newTestGate(store)

	var wg sync.WaitGroup
	approved := make(chan int64, callers)

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			w, err := gate.Withdraw(context.Background(), "ada@example.com", amount, at(wednesday, 19, 0, 0))
			if err == nil {
				approved <- w.Amount
			}
		}()
	}
	wg.Wait()
	close(approved)

	var total int64
	for a := range approved {
		total += a
	}

	u := store.snapshot("ada@example.com")
	assert.GreaterOrEqual(t, u.Balance, int64(0))
	assert.LessOrEqual(t, total, int64(initial))
	assert.EqualValues(t, initial-total, u.Balance)
}
