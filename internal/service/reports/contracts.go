package reports

import (
	"context"

	bookingRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/booking"
	paymentRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/payment"
)

// BookingRepository интерфейс агрегатов по бронированиям
type BookingRepository interface {
	CountByStatusForProvider(ctx context.Context, providerID int64) ([]bookingRepo.StatusCount, error)
	CountByStatusForBuyer(ctx context.Context, buyerID int64) ([]bookingRepo.StatusCount, error)
}

// PaymentRepository интерфейс агрегатов по платежам
type PaymentRepository interface {
	TotalsByStatusForProvider(ctx context.Context, providerID int64) ([]paymentRepo.StatusTotal, error)
	TotalsByStatusForBuyer(ctx context.Context, buyerID int64) ([]paymentRepo.StatusTotal, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
