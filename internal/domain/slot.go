package domain

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

// Slot represents one bookable time interval for one offering.
// Slots are created administratively by the offering owner and are never
// deleted: occupancy is tracked by the availability flag only.
type Slot struct {
	ID         int64
	OfferingID int64
	ProviderID int64

	Date      time.Time
	StartTime types.TimeString
	EndTime   types.TimeString

	IsAvailable bool

	// PriceMultiplier опциональный множитель базовой цены оферты
	// (например, повышенный тариф на вечерние слоты). nil = x1.
	PriceMultiplier *decimal.Decimal

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Covers returns true if the slot interval fully covers [start, end)
func (s *Slot) Covers(start, end types.TimeString) bool {
	return !s.StartTime.IsAfter(start) && !s.EndTime.IsBefore(end)
}

// Overlaps returns true if the slot interval intersects [start, end)
// Boundary touches are not an overlap.
func (s *Slot) Overlaps(start, end types.TimeString) bool {
	return s.StartTime.IsBefore(end) && start.IsBefore(s.EndTime)
}

// EffectivePrice returns the offering base price with the slot multiplier applied
func (s *Slot) EffectivePrice(basePrice decimal.Decimal) decimal.Decimal {
	if s.PriceMultiplier == nil {
		return basePrice
	}
	return basePrice.Mul(*s.PriceMultiplier)
}
