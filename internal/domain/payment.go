package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentStatus represents the status of a payment attempt
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusRefunded  PaymentStatus = "refunded"
)

// IsValid returns true if the status is a known payment status
func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusCompleted, PaymentStatusFailed, PaymentStatusRefunded:
		return true
	}
	return false
}

// IsTerminal returns true for statuses that cannot change anymore.
// completed is not terminal: it may still become refunded.
func (s PaymentStatus) IsTerminal() bool {
	return s == PaymentStatusFailed || s == PaymentStatusRefunded
}

// Blocks returns true if the payment status forbids creating another payment
// for the same booking (double-charge protection)
func (s PaymentStatus) Blocks() bool {
	return s == PaymentStatusPending || s == PaymentStatusCompleted
}

// Payment represents one attempt to collect funds for a booking.
// Created by the buyer at checkout, mutated only by the payment reconciler
// in response to gateway responses and events.
type Payment struct {
	ID         int64
	BookingID  int64
	BuyerID    int64
	ProviderID int64

	// Amount в основных единицах валюты; конвертация в минорные единицы
	// выполняется только на границе с платёжным шлюзом
	Amount   decimal.Decimal
	Currency string

	Status PaymentStatus

	// GatewayIntentID идентификатор intent во внешнем шлюзе
	GatewayIntentID *string

	// IdempotencyKey ключ идемпотентности, передаваемый шлюзу при создании intent
	IdempotencyKey string

	FailureReason *string
	RefundReason  *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// CanBeRefunded returns true if the payment may be refunded
func (p *Payment) CanBeRefunded() bool {
	return p.Status == PaymentStatusCompleted
}
