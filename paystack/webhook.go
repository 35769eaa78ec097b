package paystack

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
)

// SignatureHeader – заголовок, в котором Paystack передаёт подпись тела.
const SignatureHeader = "x-paystack-signature"

// EventChargeSuccess – единственное событие, приводящее к начислению.
const EventChargeSuccess = "charge.success"

// VerifySignature сверяет HMAC-SHA512 от сырых байт тела с подписью
// из заголовка. Считать хеш нужно именно от исходных байт: перекодировка
// JSON не обязана совпасть байт-в-байт с тем, что подписал отправитель.
// Сравнение константное по времени.
func VerifySignature(rawBody []byte, signature, secret string) bool {
	if signature == "" || secret == "" {
		return false
	}
	provided, err := hex.DecodeString(signature)
	if err != nil {
		return false
	}
	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write(rawBody)
	return hmac.Equal(mac.Sum(nil), provided)
}

// WebhookEvent – конверт события. Data разбирается отдельно по типу
// события, а не через map[string]interface{}.
type WebhookEvent struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// ChargeData – полезная нагрузка charge.success.
type ChargeData struct {
	Reference string `json:"reference"`
	Status    string `json:"status"`
	Amount    int64  `json:"amount"`
	Customer  struct {
		Email string `json:"email"`
	} `json:"customer"`
}

// ParseChargeEvent разбирает тело вебхука. ok=false – событие не
// charge.success либо тело не разобралось; такие события подтверждаются
// транспортно и игнорируются.
func ParseChargeEvent(rawBody []byte) (*ChargeData, bool) {
	var event WebhookEvent
	if err := json.Unmarshal(rawBody, &event); err != nil {
		return nil, false
	}
	if event.Event != EventChargeSuccess {
		return nil, false
	}
	var data ChargeData
	if err := json.Unmarshal(event.Data, &data); err != nil {
		return nil, false
	}
	if data.Customer.Email == "" || data.Reference == "" {
		return nil, false
	}
	return &data, true
}
