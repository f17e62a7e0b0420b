package reconciler

import (
	"context"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	UpdateStatusIf(ctx context.Context, id int64, from []domain.BookingStatus, to domain.BookingStatus) (bool, error)
}

// PaymentRepository интерфейс репозитория платежей
type PaymentRepository interface {
	MarkCompleted(ctx context.Context, id int64) (bool, error)
	MarkFailed(ctx context.Context, id int64, reason string) (bool, error)
	MarkRefunded(ctx context.Context, id int64, reason string) (bool, error)
}

// SlotRepository интерфейс репозитория слотов
type SlotRepository interface {
	Release(ctx context.Context, slotID int64) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
