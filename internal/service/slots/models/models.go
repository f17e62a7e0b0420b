package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/pkg/ptr"
)

// Request модели

// SlotInterval один создаваемый интервал
type SlotInterval struct {
	StartTime       string  `json:"startTime"`                 // "10:00"
	EndTime         string  `json:"endTime"`                   // "11:30"
	PriceMultiplier *string `json:"priceMultiplier,omitempty"` // десятичная строка, nil = x1
}

// CreateSlotsRequest запрос на создание слотов оферты
type CreateSlotsRequest struct {
	Actor      domain.Actor   `json:"-"`
	OfferingID int64          `json:"offeringId"`
	Date       string         `json:"date"` // "2025-10-15"
	Slots      []SlotInterval `json:"slots"`
}

// GetAvailableSlotsRequest запрос на получение слотов оферты на дату
type GetAvailableSlotsRequest struct {
	OfferingID    int64  `json:"offeringId"`
	Date          string `json:"date"` // "2025-10-15"
	OnlyAvailable bool   `json:"onlyAvailable"`
}

// Response модели

// SlotResponse ответ с данными слота
type SlotResponse struct {
	ID         int64 `json:"id"`
	OfferingID int64 `json:"offeringId"`
	ProviderID int64 `json:"providerId"`

	Date      string `json:"date"`      // "2025-10-15"
	StartTime string `json:"startTime"` // "10:00"
	EndTime   string `json:"endTime"`   // "11:30"

	IsAvailable     bool    `json:"isAvailable"`
	PriceMultiplier *string `json:"priceMultiplier,omitempty"`
	EffectivePrice  string  `json:"effectivePrice"` // базовая цена оферты с множителем
	Currency        string  `json:"currency"`
}

// SlotListResponse ответ со списком слотов
type SlotListResponse struct {
	Slots []SlotResponse `json:"slots"`
}

// Методы конвертации

// FromDomainSlot конвертирует domain модель в DTO
// Эффективная цена считается от базовой цены оферты из каталога
func FromDomainSlot(s *domain.Slot, basePrice decimal.Decimal, currency string) *SlotResponse {
	if s == nil {
		return nil
	}

	resp := &SlotResponse{
		ID:             s.ID,
		OfferingID:     s.OfferingID,
		ProviderID:     s.ProviderID,
		Date:           s.Date.Format(domain.DateFormat),
		StartTime:      s.StartTime.String(),
		EndTime:        s.EndTime.String(),
		IsAvailable:    s.IsAvailable,
		EffectivePrice: s.EffectivePrice(basePrice).String(),
		Currency:       currency,
	}

	if s.PriceMultiplier != nil {
		resp.PriceMultiplier = ptr.Ptr(s.PriceMultiplier.String())
	}

	return resp
}

// FromDomainSlotList конвертирует список domain моделей в DTO
func FromDomainSlotList(slots []*domain.Slot, basePrice decimal.Decimal, currency string) *SlotListResponse {
	resp := &SlotListResponse{
		Slots: make([]SlotResponse, 0, len(slots)),
	}
	for _, s := range slots {
		resp.Slots = append(resp.Slots, *FromDomainSlot(s, basePrice, currency))
	}
	return resp
}

// ParseDate парсит дату запроса в формате YYYY-MM-DD
func ParseDate(s string) (time.Time, error) {
	return time.Parse(domain.DateFormat, s)
}
