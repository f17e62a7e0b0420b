package reschedule_booking

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	FindActiveOverlapping(ctx context.Context, buyerID int64, date time.Time, start, end types.TimeString) ([]*domain.Booking, error)
	UpdateSchedule(ctx context.Context, id, slotID int64, date time.Time, start, end types.TimeString) error
}

// SlotRepository интерфейс репозитория слотов
type SlotRepository interface {
	FindCovering(ctx context.Context, offeringID int64, date time.Time, start, end types.TimeString) (*domain.Slot, error)
	Claim(ctx context.Context, slotID int64) error
	Release(ctx context.Context, slotID int64) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
