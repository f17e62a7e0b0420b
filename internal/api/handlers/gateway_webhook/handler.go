package gateway_webhook

import (
	"errors"
	"io"
	"net/http"

	"github.com/m04kA/SMC-ReservationService/internal/api/handlers"
	processGatewayEvent "github.com/m04kA/SMC-ReservationService/internal/usecase/process_gateway_event"
)

// HeaderSignature заголовок с HMAC-подписью тела запроса
const HeaderSignature = "X-Gateway-Signature"

// maxPayloadBytes ограничивает размер тела webhook-запроса
const maxPayloadBytes = 1 << 20

const (
	msgInvalidSignature = "некорректная подпись запроса"
	msgInvalidPayload   = "некорректное тело события"
	msgReadBodyFailed   = "не удалось прочитать тело запроса"
)

// WebhookResponse HTTP response model
type WebhookResponse struct {
	Result  string `json:"result"`
	EventID string `json:"eventId,omitempty"`
	Kind    string `json:"kind,omitempty"`
}

type Handler struct {
	useCase ProcessGatewayEventUseCase
	logger  Logger
}

func NewHandler(useCase ProcessGatewayEventUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/webhooks/gateway
// Публичный endpoint: аутентификация через HMAC-подпись тела запроса.
// Ответ 5xx заставляет шлюз доставить событие повторно, поэтому все
// временные ошибки (неизвестный intent, сбой БД) возвращают 500.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(io.LimitReader(r.Body, maxPayloadBytes))
	if err != nil {
		h.logger.Warn("POST /webhooks/gateway - Failed to read body: %v", err)
		handlers.RespondBadRequest(w, msgReadBodyFailed)
		return
	}

	useCaseReq := &processGatewayEvent.Request{
		Payload:   payload,
		Signature: r.Header.Get(HeaderSignature),
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, processGatewayEvent.ErrInvalidSignature):
			h.logger.Warn("POST /webhooks/gateway - Invalid signature")
			handlers.RespondUnauthorized(w, msgInvalidSignature)

		case errors.Is(err, processGatewayEvent.ErrInvalidPayload):
			h.logger.Warn("POST /webhooks/gateway - Invalid payload: %v", err)
			handlers.RespondBadRequest(w, msgInvalidPayload)

		case errors.Is(err, processGatewayEvent.ErrPaymentNotFound):
			// Платёж с этим intent ещё не известен, шлюз доставит событие повторно
			h.logger.Warn("POST /webhooks/gateway - Payment not found for intent, requesting redelivery: %v", err)
			handlers.RespondInternalError(w)

		default:
			h.logger.Error("POST /webhooks/gateway - Failed to process event: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /webhooks/gateway - Event processed: event_id=%s, kind=%s, result=%s",
		result.EventID, result.Kind, result.Result)
	handlers.RespondJSON(w, http.StatusOK, &WebhookResponse{
		Result:  string(result.Result),
		EventID: result.EventID,
		Kind:    result.Kind,
	})
}
