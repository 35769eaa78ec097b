package ledger

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/HoneySecret20/aurex-backend/models"
)

// memStore – in-memory двойник models.LedgerStore с той же семантикой
// условных мутаций: проверка предиката и запись происходят под одной
// блокировкой, как в БД они происходят в одном атомарном стейтменте.
type memStore struct {
	mu          sync.Mutex
	users       map[string]*models.User // ключ – email
	rewarded    map[string]bool         // referred_id -> бонус уже начислен
	taskDays    map[string]bool         // user_id + день
	withdrawals []models.Withdrawal
}

func newMemStore() *memStore {
	return &memStore{
		users:    make(map[string]*models.User),
		rewarded: make(map[string]bool),
		taskDays: make(map[string]bool),
	}
}

func (s *memStore) addUser(u *models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[strings.ToLower(u.Email)] = u
}

func (s *memStore) snapshot(email string) models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.users[strings.ToLower(email)]
}

func (s *memStore) UserByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[strings.ToLower(email)]
	if !ok {
		return nil, models.ErrNotFound
	}
	copy := *u
	return &copy, nil
}

func (s *memStore) UserByReferralCode(_ context.Context, code string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.ReferralCode == code {
			copy := *u
			return &copy, nil
		}
	}
	return nil, models.ErrNotFound
}

func (s *memStore) ApplyPaidBonus(_ context.Context, email string, bonus int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[strings.ToLower(email)]
	if !ok || u.Paid {
		return false, nil
	}
	u.Paid = true
	u.Balance += bonus
	return true, nil
}

func (s *memStore) RewardReferrer(_ context.Context, referrerID, referredID string, bonus int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.rewarded[referredID] {
		return false, nil
	}
	for _, u := range s.users {
		if u.ID == referrerID {
			s.rewarded[referredID] = true
			u.Balance += bonus
			u.ReferralsCount++
			return true, nil
		}
	}
	return false, nil
}

func (s *memStore) Debit(_ context.Context, w *models.Withdrawal) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.ID == w.UserID {
			if u.Balance < w.Amount {
				return false, nil
			}
			u.Balance -= w.Amount
			w.Status = "pending"
			w.CreatedAt = time.Now()
			s.withdrawals = append(s.withdrawals, *w)
			return true, nil
		}
	}
	return false, nil
}

func (s *memStore) CompleteTask(_ context.Context, userID string, day time.Time, bonus int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := userID + "|" + day.Format("2006-01-02")
	if s.taskDays[key] {
		return false, nil
	}
	for _, u := range s.users {
		if u.ID == userID {
			s.taskDays[key] = true
			u.Balance += bonus
			return true, nil
		}
	}
	return false, nil
}
