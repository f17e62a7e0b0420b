package reschedule_booking

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

// Request модель запроса на перенос бронирования
type Request struct {
	BookingID int64            // ID бронирования
	BuyerID   int64            // ID покупателя (владелец бронирования)
	Date      time.Time        // Новая дата
	StartTime types.TimeString // Новое начало интервала
	EndTime   types.TimeString // Новый конец интервала
}

// Response модель ответа с перенесённым бронированием
type Response struct {
	ID         int64            // ID бронирования
	SlotID     int64            // ID нового слота
	Date       time.Time        // Новая дата
	StartTime  types.TimeString // Новое начало интервала
	EndTime    types.TimeString // Новый конец интервала
	TotalPrice decimal.Decimal  // Цена не пересчитывается при переносе
	Status     string           // Статус бронирования
}
