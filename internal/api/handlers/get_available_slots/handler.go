package get_available_slots

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ReservationService/internal/api/handlers"
	"github.com/m04kA/SMC-ReservationService/internal/service/slots"
	"github.com/m04kA/SMC-ReservationService/internal/service/slots/models"
)

const (
	msgInvalidOfferingID = "некорректный ID оферты"
	msgInvalidDate       = "некорректная дата, ожидается формат YYYY-MM-DD"
	msgMissingDate       = "отсутствует обязательный параметр date"
	msgOfferingNotFound  = "оферта не найдена"
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

// Handle GET /api/v1/offerings/{offeringId}/slots
// Публичный endpoint: авторизация не требуется.
// Query параметры: date (обязательный), onlyAvailable (по умолчанию true)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	offeringIDStr := vars["offeringId"]

	offeringID, err := strconv.ParseInt(offeringIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("GET /offerings/{offeringId}/slots - Invalid offering ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidOfferingID)
		return
	}

	query := r.URL.Query()

	date := query.Get("date")
	if date == "" {
		h.logger.Warn("GET /offerings/{offeringId}/slots - Missing date: offering_id=%d", offeringID)
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}

	onlyAvailable := true
	if v := query.Get("onlyAvailable"); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			h.logger.Warn("GET /offerings/{offeringId}/slots - Invalid onlyAvailable: %v", err)
			handlers.RespondBadRequest(w, msgInvalidDate)
			return
		}
		onlyAvailable = parsed
	}

	serviceReq := &models.GetAvailableSlotsRequest{
		OfferingID:    offeringID,
		Date:          date,
		OnlyAvailable: onlyAvailable,
	}

	result, err := h.service.GetAvailableSlots(r.Context(), serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, slots.ErrOfferingNotFound):
			h.logger.Warn("GET /offerings/{offeringId}/slots - Offering not found: offering_id=%d", offeringID)
			handlers.RespondNotFound(w, msgOfferingNotFound)

		case errors.Is(err, slots.ErrInvalidInput):
			h.logger.Warn("GET /offerings/{offeringId}/slots - Invalid input: offering_id=%d, error=%v",
				offeringID, err)
			handlers.RespondBadRequest(w, msgInvalidDate)

		default:
			h.logger.Error("GET /offerings/{offeringId}/slots - Failed to get slots: offering_id=%d, error=%v",
				offeringID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /offerings/{offeringId}/slots - Slots retrieved successfully: offering_id=%d, date=%s, count=%d",
		offeringID, date, len(result.Slots))
	handlers.RespondJSON(w, http.StatusOK, result)
}
