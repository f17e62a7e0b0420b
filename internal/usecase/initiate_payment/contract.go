package initiate_payment

import (
	"context"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/internal/integrations/catalogservice"
	"github.com/m04kA/SMC-ReservationService/internal/integrations/paygateway"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
}

// PaymentRepository интерфейс репозитория платежей
type PaymentRepository interface {
	Create(ctx context.Context, payment *domain.Payment) (*domain.Payment, error)
	ExistsBlockingForBooking(ctx context.Context, bookingID int64) (bool, error)
	SetIntentID(ctx context.Context, id int64, intentID string) error
}

// Reconciler применяет подтверждённое шлюзом состояние платежа
type Reconciler interface {
	ApplyIntentSucceeded(ctx context.Context, paymentID, bookingID int64) (bool, error)
	ApplyIntentFailed(ctx context.Context, paymentID int64, reason string) (bool, error)
}

// PaymentGatewayClient интерфейс клиента платёжного шлюза
type PaymentGatewayClient interface {
	CreateIntent(ctx context.Context, req paygateway.CreateIntentRequest) (*paygateway.Intent, error)
}

// CatalogServiceClient интерфейс клиента каталога оферт
type CatalogServiceClient interface {
	GetOffering(ctx context.Context, offeringID int64) (*catalogservice.Offering, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
