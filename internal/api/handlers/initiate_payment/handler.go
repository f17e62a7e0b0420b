package initiate_payment

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ReservationService/internal/api/handlers"
	"github.com/m04kA/SMC-ReservationService/internal/api/middleware"
	initiatePayment "github.com/m04kA/SMC-ReservationService/internal/usecase/initiate_payment"
)

const (
	msgInvalidBookingID = "некорректный ID бронирования"
	msgMissingUserID    = "отсутствует ID пользователя"
	msgNotFound         = "бронирование не найдено"
	msgForbidden        = "доступ запрещен"
	msgIllegalState     = "бронирование не принимает оплату в текущем статусе"
	msgDuplicatePayment = "по бронированию уже есть активный платёж"
	msgOfferingNotFound = "оферта бронирования не найдена"
	msgGatewayError     = "платёжный шлюз недоступен, статус платежа будет обновлён позднее"
)

type Handler struct {
	useCase InitiatePaymentUseCase
	logger  Logger
}

func NewHandler(useCase InitiatePaymentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings/{bookingId}/payments
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	bookingIDStr := vars["bookingId"]

	bookingID, err := strconv.ParseInt(bookingIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("POST /bookings/{id}/payments - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings/{id}/payments - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	useCaseReq := &initiatePayment.Request{
		BookingID: bookingID,
		BuyerID:   actor.UserID,
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, initiatePayment.ErrBookingNotFound):
			h.logger.Warn("POST /bookings/{id}/payments - Booking not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, initiatePayment.ErrAccessDenied):
			h.logger.Warn("POST /bookings/{id}/payments - Access denied: booking_id=%d, user_id=%d",
				bookingID, actor.UserID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, initiatePayment.ErrIllegalState):
			h.logger.Warn("POST /bookings/{id}/payments - Illegal state: booking_id=%d", bookingID)
			handlers.RespondConflict(w, msgIllegalState)

		case errors.Is(err, initiatePayment.ErrDuplicatePayment):
			h.logger.Warn("POST /bookings/{id}/payments - Duplicate payment: booking_id=%d", bookingID)
			handlers.RespondConflict(w, msgDuplicatePayment)

		case errors.Is(err, initiatePayment.ErrOfferingNotFound):
			h.logger.Warn("POST /bookings/{id}/payments - Offering not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgOfferingNotFound)

		case errors.Is(err, initiatePayment.ErrGatewayError):
			// Платёж создан и остался pending, webhook обновит его статус
			h.logger.Error("POST /bookings/{id}/payments - Gateway error: booking_id=%d, error=%v",
				bookingID, err)
			handlers.RespondBadGateway(w, msgGatewayError)

		case errors.Is(err, initiatePayment.ErrInvalidInput):
			h.logger.Warn("POST /bookings/{id}/payments - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidBookingID)

		default:
			h.logger.Error("POST /bookings/{id}/payments - Failed to initiate payment: booking_id=%d, error=%v",
				bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings/{id}/payments - Payment initiated: payment_id=%d, booking_id=%d, status=%s",
		result.PaymentID, bookingID, result.Status)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
