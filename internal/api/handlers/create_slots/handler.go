package create_slots

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ReservationService/internal/api/handlers"
	"github.com/m04kA/SMC-ReservationService/internal/api/middleware"
	"github.com/m04kA/SMC-ReservationService/internal/service/slots"
	"github.com/m04kA/SMC-ReservationService/internal/service/slots/models"
)

const (
	msgInvalidOfferingID  = "некорректный ID оферты"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgOfferingNotFound   = "оферта не найдена"
	msgForbidden          = "доступ запрещен"
	msgSlotOverlap        = "слот пересекается с уже существующим доступным слотом"
)

type Handler struct {
	service SlotService
	logger  Logger
}

func NewHandler(service SlotService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/offerings/{offeringId}/slots
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	offeringIDStr := vars["offeringId"]

	offeringID, err := strconv.ParseInt(offeringIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("POST /offerings/{offeringId}/slots - Invalid offering ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidOfferingID)
		return
	}

	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		h.logger.Warn("POST /offerings/{offeringId}/slots - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req models.CreateSlotsRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /offerings/{offeringId}/slots - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	req.Actor = actor
	req.OfferingID = offeringID

	result, err := h.service.CreateSlots(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, slots.ErrOfferingNotFound):
			h.logger.Warn("POST /offerings/{offeringId}/slots - Offering not found: offering_id=%d", offeringID)
			handlers.RespondNotFound(w, msgOfferingNotFound)

		case errors.Is(err, slots.ErrAccessDenied):
			h.logger.Warn("POST /offerings/{offeringId}/slots - Access denied: offering_id=%d, user_id=%d",
				offeringID, actor.UserID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, slots.ErrSlotOverlap):
			h.logger.Warn("POST /offerings/{offeringId}/slots - Slot overlap: offering_id=%d", offeringID)
			handlers.RespondConflict(w, msgSlotOverlap)

		case errors.Is(err, slots.ErrInvalidInput):
			h.logger.Warn("POST /offerings/{offeringId}/slots - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		default:
			h.logger.Error("POST /offerings/{offeringId}/slots - Failed to create slots: offering_id=%d, error=%v",
				offeringID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /offerings/{offeringId}/slots - Slots created successfully: offering_id=%d, count=%d",
		offeringID, len(result.Slots))
	handlers.RespondJSON(w, http.StatusCreated, result)
}
