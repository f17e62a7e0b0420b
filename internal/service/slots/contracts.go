package slots

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/internal/integrations/catalogservice"
	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

// SlotRepository интерфейс репозитория слотов
type SlotRepository interface {
	Create(ctx context.Context, slot *domain.Slot) (*domain.Slot, error)
	ExistsOverlappingAvailable(ctx context.Context, offeringID int64, date time.Time, start, end types.TimeString) (bool, error)
	ListByOfferingAndDate(ctx context.Context, offeringID int64, date time.Time, onlyAvailable bool) ([]*domain.Slot, error)
}

// CatalogServiceClient интерфейс клиента каталога оферт
type CatalogServiceClient interface {
	GetOffering(ctx context.Context, offeringID int64) (*catalogservice.Offering, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
