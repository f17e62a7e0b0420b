package paygateway

import "encoding/json"

// Статусы intent/refund, которые возвращает шлюз
const (
	StatusSucceeded  = "succeeded"
	StatusProcessing = "processing"
	StatusFailed     = "failed"
)

// Виды асинхронных событий шлюза
const (
	EventIntentSucceeded = "payment_intent.succeeded"
	EventIntentFailed    = "payment_intent.failed"
	EventChargeRefunded  = "charge.refunded"
)

// CreateIntentRequest запрос на создание intent
// Сумма передаётся в минорных единицах валюты (копейки/центы)
type CreateIntentRequest struct {
	AmountMinor    int64             `json:"amount"`
	Currency       string            `json:"currency"`
	IdempotencyKey string            `json:"-"` // передаётся заголовком Idempotency-Key
	Metadata       map[string]string `json:"metadata,omitempty"`
}

// Intent представление intent во внешнем шлюзе
type Intent struct {
	ID            string `json:"id"`
	Status        string `json:"status"`
	AmountMinor   int64  `json:"amount"`
	Currency      string `json:"currency"`
	FailureReason string `json:"failure_reason,omitempty"`
}

// CreateRefundRequest запрос на возврат средств
type CreateRefundRequest struct {
	IntentID    string `json:"intent_id"`
	AmountMinor int64  `json:"amount"`
	Reason      string `json:"reason,omitempty"`
}

// Refund представление возврата во внешнем шлюзе
type Refund struct {
	ID       string `json:"id"`
	IntentID string `json:"intent_id"`
	Status   string `json:"status"`
}

// Event асинхронное событие из webhook-ленты шлюза.
// Metadata шлюз возвращает в том виде, в каком она была передана
// при создании intent.
type Event struct {
	ID       string            `json:"id"`
	Kind     string            `json:"kind"`
	IntentID string            `json:"intent_id"`
	Metadata map[string]string `json:"metadata,omitempty"`
	Data     json.RawMessage   `json:"data,omitempty"`
}

// ErrorResponse модель ошибки от шлюза
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
