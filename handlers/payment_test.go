package handlers

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/HoneySecret20/aurex-backend/config"
	"github.com/HoneySecret20/aurex-backend/ledger"
	"github.com/HoneySecret20/aurex-backend/logging"
	"github.com/HoneySecret20/aurex-backend/models"
	"github.com/HoneySecret20/aurex-backend/paystack"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const webhookSecret = "sk_test_webhook"

// fakeStore повторяет условную семантику models.LedgerStore в памяти
type fakeStore struct {
	mu       sync.Mutex
	users    map[string]*models.User
	rewarded map[string]bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{users: make(map[string]*models.User), rewarded: make(map[string]bool)}
}

func (s *fakeStore) UserByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[email]
	if !ok {
		return nil, models.ErrNotFound
	}
	copy := *u
	return &copy, nil
}

func (s *fakeStore) UserByReferralCode(_ context.Context, code string) (*models.User, error) {
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

func (s *fakeStore) ApplyPaidBonus(_ context.Context, email string, bonus int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[email]
	if !ok || u.Paid {
		return false, nil
	}
	u.Paid = true
	u.Balance += bonus
	return true, nil
}

func (s *fakeStore) RewardReferrer(_ context.Context, referrerID, referredID string, bonus int64) (bool, error) {
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

func (s *fakeStore) Debit(_ context.Context, w *models.Withdrawal) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.ID == w.UserID && u.Balance >= w.Amount {
			u.Balance -= w.Amount
			w.Status = "pending"
			w.CreatedAt = time.Now()
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeStore) CompleteTask(_ context.Context, userID string, day time.Time, bonus int64) (bool, error) {
	return false, nil
}

func (s *fakeStore) balance(email string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.users[email].Balance
}

func (s *fakeStore) paid(email string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.users[email].Paid
}

func setupRouter(t *testing.T, store *fakeStore, gatewayURL string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logging.Logger = zap.NewNop()

	cfg := &config.Config{
		WebhookSecret: webhookSecret,
		WelcomeBonus:  200,
		ReferralBonus: 100,
		TaskBonus:     50,
	}

	nop := zap.NewNop()
	cascade := ledger.NewReferralCascade(store, cfg.ReferralBonus, nop)
	co := ledger.NewCoordinator(store, cascade, cfg.WelcomeBonus, nop)
	g := ledger.NewWithdrawalGate(store, time.UTC, 18, 21, nop)
	dt := ledger.NewDailyTasks(store, cfg.TaskBonus, time.UTC, nop)

	var pc *paystack.Client
	if gatewayURL != "" {
		pc = paystack.NewClientWithBaseURL("sk_test", gatewayURL)
	} else {
		pc = paystack.NewClient("sk_test")
	}
	Init(cfg, co, g, dt, pc)

	r := gin.New()
	r.POST("/api/auth/verify-payment", VerifyPaymentHandler)
	r.POST("/api/webhooks/paystack", PaystackWebhookHandler)
	return r
}

func signBody(body []byte) string {
	mac := hmac.New(sha512.New, []byte(webhookSecret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func postWebhook(r *gin.Engine, body []byte, signature string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", "/api/webhooks/paystack", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if signature != "" {
		req.Header.Set("X-Paystack-Signature", signature)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestWebhookAppliesBonus(t *testing.T) {
	store := newFakeStore()
	store.users["ada@example.com"] = &models.User{ID: "u1", Email: "ada@example.com", ReferralCode: "ada123"}
	r := setupRouter(t, store, "")

	body := []byte(`{"event":"charge.success","data":{"reference":"ref-1","status":"success","amount":20000,"customer":{"email":"ada@example.com"}}}`)
	w := postWebhook(r, body, signBody(body))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, store.paid("ada@example.com"))
	assert.EqualValues(t, 200, store.balance("ada@example.com"))

	// повторная доставка того же события – ack без мутации
	w = postWebhook(r, body, signBody(body))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 200, store.balance("ada@example.com"))
}

func TestWebhookRejectsTamperedBody(t *testing.T) {
	store := newFakeStore()
	store.users["ada@example.com"] = &models.User{ID: "u1", Email: "ada@example.com", ReferralCode: "ada123"}
	r := setupRouter(t, store, "")

	body := []byte(`{"event":"charge.success","data":{"reference":"ref-1","status":"success","amount":20000,"customer":{"email":"ada@example.com"}}}`)
	signature := signBody(body)

	tampered := bytes.Replace(body, []byte(`"amount":20000`), []byte(`"amount":99999`), 1)
	w := postWebhook(r, tampered, signature)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, store.paid("ada@example.com"))
	assert.EqualValues(t, 0, store.balance("ada@example.com"))
}

func TestWebhookMissingSignatureRejected(t *testing.T) {
	store := newFakeStore()
	store.users["ada@example.com"] = &models.User{ID: "u1", Email: "ada@example.com", ReferralCode: "ada123"}
	r := setupRouter(t, store, "")

	body := []byte(`{"event":"charge.success","data":{"reference":"ref-1","status":"success","customer":{"email":"ada@example.com"}}}`)
	w := postWebhook(r, body, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestWebhookUnknownAccountStillAcked(t *testing.T) {
	store := newFakeStore()
	r := setupRouter(t, store, "")

	body := []byte(`{"event":"charge.success","data":{"reference":"ref-1","status":"success","customer":{"email":"ghost@example.com"}}}`)
	w := postWebhook(r, body, signBody(body))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestWebhookIgnoresOtherEvents(t *testing.T) {
	store := newFakeStore()
	store.users["ada@example.com"] = &models.User{ID: "u1", Email: "ada@example.com", ReferralCode: "ada123"}
	r := setupRouter(t, store, "")

	body := []byte(`{"event":"transfer.success","data":{"reference":"ref-1","status":"success","customer":{"email":"ada@example.com"}}}`)
	w := postWebhook(r, body, signBody(body))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.False(t, store.paid("ada@example.com"))
}

func TestVerifyPaymentPollPath(t *testing.T) {
	gatewaySrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status": true, "data": {"reference": "ref-7", "status": "success", "amount": 20000, "customer": {"email": "ada@example.com"}}}`))
	}))
	defer gatewaySrv.Close()

	store := newFakeStore()
	store.users["ada@example.com"] = &models.User{ID: "u1", Email: "ada@example.com", ReferralCode: "ada123"}
	r := setupRouter(t, store, gatewaySrv.URL)

	payload := []byte(`{"reference":"ref-7","email":"ada@example.com"}`)
	req := httptest.NewRequest("POST", "/api/auth/verify-payment", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, store.paid("ada@example.com"))
	assert.EqualValues(t, 200, store.balance("ada@example.com"))
}

func TestVerifyPaymentRejectsForeignReference(t *testing.T) {
	// шлюз говорит, что платил другой пользователь
	gatewaySrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status": true, "data": {"reference": "ref-8", "status": "success", "amount": 20000, "customer": {"email": "mallory@example.com"}}}`))
	}))
	defer gatewaySrv.Close()

	store := newFakeStore()
	store.users["ada@example.com"] = &models.User{ID: "u1", Email: "ada@example.com", ReferralCode: "ada123"}
	r := setupRouter(t, store, gatewaySrv.URL)

	payload := []byte(`{"reference":"ref-8","email":"ada@example.com"}`)
	req := httptest.NewRequest("POST", "/api/auth/verify-payment", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.False(t, store.paid("ada@example.com"))
}

func TestVerifyPaymentPendingNoMutation(t *testing.T) {
	gatewaySrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status": true, "data": {"reference": "ref-9", "status": "pending", "amount": 0, "customer": {"email": "ada@example.com"}}}`))
	}))
	defer gatewaySrv.Close()

	store := newFakeStore()
	store.users["ada@example.com"] = &models.User{ID: "u1", Email: "ada@example.com", ReferralCode: "ada123"}
	r := setupRouter(t, store, gatewaySrv.URL)

	payload := []byte(`{"reference":"ref-9","email":"ada@example.com"}`)
	req := httptest.NewRequest("POST", "/api/auth/verify-payment", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, store.paid("ada@example.com"))
}
