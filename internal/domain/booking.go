package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

// ErrIllegalTransition возвращается при попытке недопустимого перехода статуса
var ErrIllegalTransition = errors.New("domain: illegal booking status transition")

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCompleted BookingStatus = "completed"
	BookingStatusRejected  BookingStatus = "rejected"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// bookingTransitions closed transition table of the booking lifecycle:
// pending -> confirmed -> completed, pending -> rejected,
// {pending, confirmed} -> cancelled. Terminal states have no outgoing edges.
var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingStatusPending:   {BookingStatusConfirmed, BookingStatusRejected, BookingStatusCancelled},
	BookingStatusConfirmed: {BookingStatusCompleted, BookingStatusCancelled},
	BookingStatusCompleted: {},
	BookingStatusRejected:  {},
	BookingStatusCancelled: {},
}

// IsValid returns true if the status is a known booking status
func (s BookingStatus) IsValid() bool {
	_, ok := bookingTransitions[s]
	return ok
}

// CanTransitionTo returns true if the transition s -> to is allowed
func (s BookingStatus) CanTransitionTo(to BookingStatus) bool {
	for _, allowed := range bookingTransitions[s] {
		if allowed == to {
			return true
		}
	}
	return false
}

// IsTerminal returns true if no transitions are possible from the status
func (s BookingStatus) IsTerminal() bool {
	return s.IsValid() && len(bookingTransitions[s]) == 0
}

// ValidateBookingTransition validates a status transition against the lifecycle table
func ValidateBookingTransition(from, to BookingStatus) error {
	if !from.IsValid() || !to.IsValid() {
		return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, from, to)
	}
	if !from.CanTransitionTo(to) {
		return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, from, to)
	}
	return nil
}

// Booking represents a buyer's claim on a slot.
// Date and time interval are copied from the slot at claim time, so later
// slot edits do not retroactively alter an existing booking.
type Booking struct {
	ID         int64
	BuyerID    int64
	ProviderID int64
	OfferingID int64
	SlotID     int64

	BookingDate time.Time
	StartTime   types.TimeString
	EndTime     types.TimeString

	TotalPrice decimal.Decimal
	Status     BookingStatus
	Notes      *string

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the booking holds its slot (pending or confirmed)
func (b *Booking) IsActive() bool {
	return b.Status == BookingStatusPending || b.Status == BookingStatusConfirmed
}

// CanBeCancelled returns true if the booking can be cancelled
func (b *Booking) CanBeCancelled() bool {
	return b.Status.CanTransitionTo(BookingStatusCancelled)
}

// CanBeUpdated returns true if buyer-initiated edits (date/time change) are allowed
func (b *Booking) CanBeUpdated() bool {
	return b.Status == BookingStatusPending || b.Status == BookingStatusConfirmed
}

// Overlaps returns true if the booking interval intersects [start, end)
// on the given date. Boundary touches are not an overlap.
func (b *Booking) Overlaps(date time.Time, start, end types.TimeString) bool {
	if !sameDay(b.BookingDate, date) {
		return false
	}
	return b.StartTime.IsBefore(end) && start.IsBefore(b.EndTime)
}

// ProviderBookingsFilter фильтр для выборки бронирований провайдера
type ProviderBookingsFilter struct {
	ProviderID      int64          // Обязательный параметр
	OfferingID      *int64         // Фильтр по оферте (опционально)
	StartDate       *time.Time     // Начало периода (опционально)
	EndDate         *time.Time     // Конец периода (опционально)
	Status          *BookingStatus // Фильтр по статусу (опционально)
	IncludeInactive bool           // Включать ли терминальные бронирования
}

// sameDay проверяет, что две даты относятся к одному дню
func sameDay(a, b time.Time) bool {
	y1, m1, d1 := a.Date()
	y2, m2, d2 := b.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
