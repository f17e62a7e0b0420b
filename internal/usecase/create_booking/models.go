package create_booking

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

// Request модель запроса на создание бронирования
type Request struct {
	BuyerID    int64            // ID покупателя
	OfferingID int64            // ID оферты из каталога
	Date       time.Time        // Дата бронирования (без времени)
	StartTime  types.TimeString // Начало интервала (например, "10:00")
	EndTime    types.TimeString // Конец интервала (например, "11:30")
	Notes      *string          // Дополнительные заметки (опционально)
}

// Response модель ответа с созданным бронированием
type Response struct {
	ID         int64            // ID созданного бронирования
	BuyerID    int64            // ID покупателя
	ProviderID int64            // ID провайдера оферты
	OfferingID int64            // ID оферты
	SlotID     int64            // ID занятого слота
	Date       time.Time        // Дата бронирования
	StartTime  types.TimeString // Начало интервала
	EndTime    types.TimeString // Конец интервала
	TotalPrice decimal.Decimal  // Итоговая цена: базовая цена оферты с множителем слота
	Currency   string           // Валюта оферты
	Status     string           // Статус бронирования
	Notes      *string          // Заметки

	CreatedAt time.Time // Время создания
	UpdatedAt time.Time // Время обновления
}
