package paystack

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ErrGatewayUnavailable – шлюз не ответил или ответил 5xx. Повторный
// вызов безопасен: подтверждение идемпотентно на уровне леджера.
var ErrGatewayUnavailable = errors.New("payment gateway unavailable")

type Client struct {
	secretKey  string
	baseURL    string
	httpClient *http.Client
}

func NewClient(secretKey string) *Client {
	return &Client{
		secretKey:  secretKey,
		baseURL:    "https://api.paystack.co",
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// NewClientWithBaseURL нужен тестам с httptest-сервером.
func NewClientWithBaseURL(secretKey, baseURL string) *Client {
	c := NewClient(secretKey)
	c.baseURL = baseURL
	return c
}

// Transaction – статус платежа по данным шлюза. Status "success"
// означает подтверждённую оплату; всё остальное – "ещё не оплачено".
type Transaction struct {
	Reference     string
	Status        string
	Amount        int64 // в кобо
	CustomerEmail string
}

func (t *Transaction) Succeeded() bool {
	return t.Status == "success"
}

type verifyResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    struct {
		Reference string `json:"reference"`
		Status    string `json:"status"`
		Amount    int64  `json:"amount"`
		Customer  struct {
			Email string `json:"email"`
		} `json:"customer"`
	} `json:"data"`
}

// VerifyTransaction запрашивает GET /transaction/verify/{reference}.
// Сетевые сбои и 5xx ретраятся один раз, затем отдаются как
// ErrGatewayUnavailable.
func (c *Client) VerifyTransaction(ctx context.Context, reference string) (*Transaction, error) {
	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		tx, err := c.verifyOnce(ctx, reference)
		if err == nil {
			return tx, nil
		}
		if !errors.Is(err, ErrGatewayUnavailable) {
			return nil, err
		}
		lastErr = err
	}
	return nil, lastErr
}

func (c *Client) verifyOnce(ctx context.Context, reference string) (*Transaction, error) {
	url := fmt.Sprintf("%s/transaction/verify/%s", c.baseURL, reference)
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		return nil, fmt.Errorf("%w: status %d", ErrGatewayUnavailable, resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("transaction verify failed (status %d): %s", resp.StatusCode, string(bodyBytes))
	}

	var vr verifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&vr); err != nil {
		return nil, fmt.Errorf("failed to decode verify response: %w", err)
	}
	if !vr.Status {
		return nil, fmt.Errorf("gateway rejected verify: %s", vr.Message)
	}

	return &Transaction{
		Reference:     vr.Data.Reference,
		Status:        vr.Data.Status,
		Amount:        vr.Data.Amount,
		CustomerEmail: vr.Data.Customer.Email,
	}, nil
}
