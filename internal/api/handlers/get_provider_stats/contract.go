package get_provider_stats

import (
	"context"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/internal/service/reports"
)

type ReportService interface {
	GetProviderStats(ctx context.Context, providerID int64, actor domain.Actor) (*reports.StatsResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
