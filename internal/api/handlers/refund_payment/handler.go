package refund_payment

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ReservationService/internal/api/handlers"
	"github.com/m04kA/SMC-ReservationService/internal/api/middleware"
	refundPayment "github.com/m04kA/SMC-ReservationService/internal/usecase/refund_payment"
)

const (
	msgInvalidPaymentID   = "некорректный ID платежа"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgNotFound           = "платёж не найден"
	msgForbidden          = "доступ запрещен"
	msgNotRefundable      = "платёж не подлежит возврату в текущем статусе"
	msgGatewayError       = "платёжный шлюз отклонил возврат или недоступен"
)

type Handler struct {
	useCase RefundPaymentUseCase
	logger  Logger
}

func NewHandler(useCase RefundPaymentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/payments/{paymentId}/refund
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	paymentIDStr := vars["paymentId"]

	paymentID, err := strconv.ParseInt(paymentIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("POST /payments/{id}/refund - Invalid payment ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidPaymentID)
		return
	}

	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		h.logger.Warn("POST /payments/{id}/refund - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req RefundPaymentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /payments/{id}/refund - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq := &refundPayment.Request{
		PaymentID: paymentID,
		Actor:     actor,
		Reason:    req.Reason,
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, refundPayment.ErrPaymentNotFound):
			h.logger.Warn("POST /payments/{id}/refund - Payment not found: payment_id=%d", paymentID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, refundPayment.ErrAccessDenied):
			h.logger.Warn("POST /payments/{id}/refund - Access denied: payment_id=%d, user_id=%d",
				paymentID, actor.UserID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, refundPayment.ErrNotRefundable):
			h.logger.Warn("POST /payments/{id}/refund - Not refundable: payment_id=%d", paymentID)
			handlers.RespondConflict(w, msgNotRefundable)

		case errors.Is(err, refundPayment.ErrGatewayError):
			h.logger.Error("POST /payments/{id}/refund - Gateway error: payment_id=%d, error=%v",
				paymentID, err)
			handlers.RespondBadGateway(w, msgGatewayError)

		case errors.Is(err, refundPayment.ErrInvalidInput):
			h.logger.Warn("POST /payments/{id}/refund - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		default:
			h.logger.Error("POST /payments/{id}/refund - Failed to refund payment: payment_id=%d, error=%v",
				paymentID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /payments/{id}/refund - Payment refunded successfully: payment_id=%d, refund_id=%s",
		paymentID, result.RefundID)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
