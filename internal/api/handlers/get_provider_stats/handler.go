package get_provider_stats

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ReservationService/internal/api/handlers"
	"github.com/m04kA/SMC-ReservationService/internal/api/middleware"
	"github.com/m04kA/SMC-ReservationService/internal/service/reports"
)

const (
	msgInvalidProviderID = "некорректный ID провайдера"
	msgMissingUserID     = "отсутствует ID пользователя"
	msgForbidden         = "доступ запрещен"
)

type Handler struct {
	service ReportService
	logger  Logger
}

func NewHandler(service ReportService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/providers/{providerId}/stats
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	providerIDStr := vars["providerId"]

	providerID, err := strconv.ParseInt(providerIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("GET /providers/{providerId}/stats - Invalid provider ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidProviderID)
		return
	}

	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		h.logger.Warn("GET /providers/{providerId}/stats - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	result, err := h.service.GetProviderStats(r.Context(), providerID, actor)
	if err != nil {
		switch {
		case errors.Is(err, reports.ErrAccessDenied):
			h.logger.Warn("GET /providers/{providerId}/stats - Access denied: provider_id=%d, user_id=%d",
				providerID, actor.UserID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("GET /providers/{providerId}/stats - Failed to get stats: provider_id=%d, error=%v",
				providerID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /providers/{providerId}/stats - Stats retrieved successfully: provider_id=%d", providerID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
