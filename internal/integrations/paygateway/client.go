package paygateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Client клиент внешнего платёжного шлюза (intents, refunds)
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента платёжного шлюза
// timeout ограничивает каждый внешний вызов; операций без таймаута нет
func NewClient(baseURL, apiKey string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// CreateIntent создает intent на списание средств
// Ключ идемпотентности передаётся заголовком: повторный вызов с тем же ключом
// не создаёт второго intent на стороне шлюза
func (c *Client) CreateIntent(ctx context.Context, req CreateIntentRequest) (*Intent, error) {
	var intent Intent
	headers := map[string]string{"Idempotency-Key": req.IdempotencyKey}
	if err := c.postJSON(ctx, c.baseURL+"/v1/intents", req, &intent, headers); err != nil {
		return nil, err
	}

	c.log.Info("CreateIntent: intent=%s status=%s amount=%d %s",
		intent.ID, intent.Status, intent.AmountMinor, intent.Currency)
	return &intent, nil
}

// CreateRefund создает возврат средств по intent
func (c *Client) CreateRefund(ctx context.Context, req CreateRefundRequest) (*Refund, error) {
	var refund Refund
	if err := c.postJSON(ctx, c.baseURL+"/v1/refunds", req, &refund, nil); err != nil {
		return nil, err
	}

	c.log.Info("CreateRefund: refund=%s intent=%s status=%s", refund.ID, refund.IntentID, refund.Status)
	return &refund, nil
}

// postJSON выполняет POST запрос с JSON телом и декодирует ответ
func (c *Client) postJSON(ctx context.Context, url string, body, dst interface{}, headers map[string]string) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("%w: failed to marshal request: %w", ErrInternal, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %w", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Сетевая ошибка или таймаут: результат операции неизвестен,
		// его сообщит асинхронный webhook
		return fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		// Продолжаем обработку
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		var gwErr ErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&gwErr); err == nil && gwErr.Message != "" {
			return fmt.Errorf("%w: %s (%s)", ErrDeclined, gwErr.Message, gwErr.Code)
		}
		return fmt.Errorf("%w: status code %d", ErrDeclined, resp.StatusCode)
	default:
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: unexpected status code %d: %s", ErrGatewayUnavailable, resp.StatusCode, string(respBody))
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	return nil
}
