package get_payment

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ReservationService/internal/api/handlers"
	"github.com/m04kA/SMC-ReservationService/internal/api/middleware"
	"github.com/m04kA/SMC-ReservationService/internal/service/payments"
)

const (
	msgInvalidPaymentID = "некорректный ID платежа"
	msgMissingUserID    = "отсутствует ID пользователя"
	msgNotFound         = "платёж не найден"
	msgForbidden        = "доступ запрещен"
)

type Handler struct {
	service PaymentService
	logger  Logger
}

func NewHandler(service PaymentService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/payments/{paymentId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	paymentIDStr := vars["paymentId"]

	paymentID, err := strconv.ParseInt(paymentIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("GET /payments/{id} - Invalid payment ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidPaymentID)
		return
	}

	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		h.logger.Warn("GET /payments/{id} - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	payment, err := h.service.GetByID(r.Context(), paymentID, actor)
	if err != nil {
		switch {
		case errors.Is(err, payments.ErrPaymentNotFound):
			h.logger.Warn("GET /payments/{id} - Payment not found: payment_id=%d", paymentID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, payments.ErrAccessDenied):
			h.logger.Warn("GET /payments/{id} - Access denied: payment_id=%d, user_id=%d",
				paymentID, actor.UserID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("GET /payments/{id} - Failed to get payment: payment_id=%d, error=%v",
				paymentID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /payments/{id} - Payment retrieved successfully: payment_id=%d, user_id=%d",
		paymentID, actor.UserID)
	handlers.RespondJSON(w, http.StatusOK, payment)
}
