package get_buyer_summary

import (
	"context"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/internal/service/reports"
)

type ReportService interface {
	GetBuyerSummary(ctx context.Context, buyerID int64, actor domain.Actor) (*reports.StatsResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
