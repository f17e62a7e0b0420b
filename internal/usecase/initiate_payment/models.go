package initiate_payment

import (
	"github.com/shopspring/decimal"
)

// Request модель запроса на оплату бронирования
type Request struct {
	BookingID int64 // ID бронирования
	BuyerID   int64 // ID покупателя (владелец бронирования)
}

// Response модель ответа с созданным платежом
type Response struct {
	PaymentID int64           // ID платежа
	BookingID int64           // ID бронирования
	Amount    decimal.Decimal // Сумма платежа
	Currency  string          // Валюта
	Status    string          // Статус платежа после синхронного ответа шлюза

	// GatewayIntentID идентификатор intent, если шлюз успел его вернуть
	GatewayIntentID *string

	// FailureReason причина отказа при синхронном failed
	FailureReason *string
}
