package refund_payment

import (
	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

// Request модель запроса на возврат платежа
type Request struct {
	PaymentID int64        // ID платежа
	Actor     domain.Actor // Инициатор: покупатель, провайдер или администратор
	Reason    string       // Причина возврата
}

// Response модель ответа с результатом возврата
type Response struct {
	PaymentID int64           // ID платежа
	BookingID int64           // ID бронирования
	Amount    decimal.Decimal // Возвращённая сумма
	Currency  string          // Валюта
	Status    string          // Статус платежа после возврата
	RefundID  string          // ID возврата во внешнем шлюзе
}
