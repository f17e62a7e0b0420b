package create_booking

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/internal/integrations/catalogservice"
	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	FindActiveOverlapping(ctx context.Context, buyerID int64, date time.Time, start, end types.TimeString) ([]*domain.Booking, error)
}

// SlotRepository интерфейс репозитория слотов
type SlotRepository interface {
	FindCovering(ctx context.Context, offeringID int64, date time.Time, start, end types.TimeString) (*domain.Slot, error)
	Claim(ctx context.Context, slotID int64) error
}

// CatalogServiceClient интерфейс клиента каталога оферт
type CatalogServiceClient interface {
	GetOffering(ctx context.Context, offeringID int64) (*catalogservice.Offering, error)
	GetProvider(ctx context.Context, providerID int64) (*catalogservice.Provider, error)
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
