package create_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ReservationService/internal/api/handlers"
	"github.com/m04kA/SMC-ReservationService/internal/api/middleware"
	createBooking "github.com/m04kA/SMC-ReservationService/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDateTime    = "некорректный формат даты или времени, ожидается YYYY-MM-DD и HH:MM"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgOfferingNotFound   = "оферта не найдена"
	msgOfferingInactive   = "оферта снята с публикации"
	msgProviderNotFound   = "провайдер не найден"
	msgProviderUnverified = "провайдер не прошёл верификацию"
	msgSelfOverlap        = "у вас уже есть бронирование на это время"
	msgSlotNotAvailable   = "выбранный временной интервал недоступен"
	msgInvalidBookingDate = "некорректная дата бронирования"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(actor.UserID)
	if err != nil {
		h.logger.Warn("POST /bookings - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDateTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createBooking.ErrSlotNotAvailable):
			h.logger.Warn("POST /bookings - Slot not available: buyer_id=%d, offering_id=%d", actor.UserID, req.OfferingID)
			handlers.RespondConflict(w, msgSlotNotAvailable)

		case errors.Is(err, createBooking.ErrSelfOverlap):
			h.logger.Warn("POST /bookings - Buyer overlap: buyer_id=%d", actor.UserID)
			handlers.RespondConflict(w, msgSelfOverlap)

		case errors.Is(err, createBooking.ErrOfferingNotFound):
			h.logger.Warn("POST /bookings - Offering not found: offering_id=%d", req.OfferingID)
			handlers.RespondNotFound(w, msgOfferingNotFound)

		case errors.Is(err, createBooking.ErrOfferingInactive):
			h.logger.Warn("POST /bookings - Offering inactive: offering_id=%d", req.OfferingID)
			handlers.RespondUnprocessable(w, msgOfferingInactive)

		case errors.Is(err, createBooking.ErrProviderNotFound):
			h.logger.Warn("POST /bookings - Provider not found: offering_id=%d", req.OfferingID)
			handlers.RespondNotFound(w, msgProviderNotFound)

		case errors.Is(err, createBooking.ErrProviderUnverified):
			h.logger.Warn("POST /bookings - Provider unverified: offering_id=%d", req.OfferingID)
			handlers.RespondUnprocessable(w, msgProviderUnverified)

		case errors.Is(err, createBooking.ErrInvalidDate):
			h.logger.Warn("POST /bookings - Invalid booking date: buyer_id=%d", actor.UserID)
			handlers.RespondBadRequest(w, msgInvalidBookingDate)

		case errors.Is(err, createBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		default:
			h.logger.Error("POST /bookings - Failed to create booking: buyer_id=%d, offering_id=%d, error=%v",
				actor.UserID, req.OfferingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings - Booking created successfully: booking_id=%d, buyer_id=%d, offering_id=%d",
		result.ID, actor.UserID, req.OfferingID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
