package get_available_slots

import (
	"context"

	"github.com/m04kA/SMC-ReservationService/internal/service/slots/models"
)

type SlotService interface {
	GetAvailableSlots(ctx context.Context, req *models.GetAvailableSlotsRequest) (*models.SlotListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
