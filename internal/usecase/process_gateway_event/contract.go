package process_gateway_event

import (
	"context"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

// PaymentRepository интерфейс репозитория платежей
type PaymentRepository interface {
	GetByIntentID(ctx context.Context, intentID string) (*domain.Payment, error)
	GetByID(ctx context.Context, id int64) (*domain.Payment, error)
	SetIntentID(ctx context.Context, id int64, intentID string) error
}

// EventRepository интерфейс журнала обработанных событий шлюза
type EventRepository interface {
	MarkProcessed(ctx context.Context, eventID, intentID, kind string) (bool, error)
}

// Reconciler применяет подтверждённое шлюзом состояние платежа
type Reconciler interface {
	ApplyIntentSucceeded(ctx context.Context, paymentID, bookingID int64) (bool, error)
	ApplyIntentFailed(ctx context.Context, paymentID int64, reason string) (bool, error)
	ApplyRefund(ctx context.Context, paymentID, bookingID int64, reason string) (bool, error)
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
