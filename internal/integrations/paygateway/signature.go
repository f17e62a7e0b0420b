package paygateway

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// SignatureHeader заголовок, в котором шлюз передаёт подпись события
const SignatureHeader = "X-Gateway-Signature"

// ComputeSignature вычисляет HMAC-SHA256 подпись тела события
func ComputeSignature(payload []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature проверяет подпись сырого тела webhook-события.
// Сравнение выполняется за константное время. Событие с невалидной
// подписью обрабатывать нельзя.
func VerifySignature(payload []byte, signature, secret string) error {
	expected := ComputeSignature(payload, secret)
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return ErrInvalidSignature
	}
	return nil
}

// ParseEvent разбирает тело webhook-события после проверки подписи
func ParseEvent(payload []byte) (*Event, error) {
	var event Event
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, fmt.Errorf("%w: failed to parse event: %v", ErrInvalidResponse, err)
	}
	if event.ID == "" || event.Kind == "" {
		return nil, fmt.Errorf("%w: event id and kind are required", ErrInvalidResponse)
	}
	return &event, nil
}
