package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

func TestValidateBookingTransition(t *testing.T) {
	tests := []struct {
		name    string
		from    BookingStatus
		to      BookingStatus
		wantErr bool
	}{
		{name: "pending to confirmed", from: BookingStatusPending, to: BookingStatusConfirmed},
		{name: "pending to rejected", from: BookingStatusPending, to: BookingStatusRejected},
		{name: "pending to cancelled", from: BookingStatusPending, to: BookingStatusCancelled},
		{name: "confirmed to completed", from: BookingStatusConfirmed, to: BookingStatusCompleted},
		{name: "confirmed to cancelled", from: BookingStatusConfirmed, to: BookingStatusCancelled},

		{name: "pending skips to completed", from: BookingStatusPending, to: BookingStatusCompleted, wantErr: true},
		{name: "confirmed to rejected", from: BookingStatusConfirmed, to: BookingStatusRejected, wantErr: true},
		{name: "completed is terminal", from: BookingStatusCompleted, to: BookingStatusCancelled, wantErr: true},
		{name: "rejected is terminal", from: BookingStatusRejected, to: BookingStatusPending, wantErr: true},
		{name: "cancelled is terminal", from: BookingStatusCancelled, to: BookingStatusConfirmed, wantErr: true},
		{name: "unknown source status", from: BookingStatus("draft"), to: BookingStatusPending, wantErr: true},
		{name: "unknown target status", from: BookingStatusPending, to: BookingStatus("archived"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateBookingTransition(tt.from, tt.to)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrIllegalTransition)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestBookingStatus_IsTerminal(t *testing.T) {
	assert.False(t, BookingStatusPending.IsTerminal())
	assert.False(t, BookingStatusConfirmed.IsTerminal())
	assert.True(t, BookingStatusCompleted.IsTerminal())
	assert.True(t, BookingStatusRejected.IsTerminal())
	assert.True(t, BookingStatusCancelled.IsTerminal())
	assert.False(t, BookingStatus("draft").IsTerminal())
}

func TestBooking_Overlaps(t *testing.T) {
	date := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	booking := &Booking{
		BookingDate: date,
		StartTime:   types.TimeString("10:00"),
		EndTime:     types.TimeString("11:00"),
	}

	tests := []struct {
		name  string
		date  time.Time
		start types.TimeString
		end   types.TimeString
		want  bool
	}{
		{name: "same interval", date: date, start: "10:00", end: "11:00", want: true},
		{name: "contained", date: date, start: "10:15", end: "10:45", want: true},
		{name: "partial left", date: date, start: "09:30", end: "10:30", want: true},
		{name: "partial right", date: date, start: "10:30", end: "11:30", want: true},
		{name: "boundary touch before", date: date, start: "09:00", end: "10:00", want: false},
		{name: "boundary touch after", date: date, start: "11:00", end: "12:00", want: false},
		{name: "different day", date: date.AddDate(0, 0, 1), start: "10:00", end: "11:00", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, booking.Overlaps(tt.date, tt.start, tt.end))
		})
	}
}

func TestSlot_CoversAndEffectivePrice(t *testing.T) {
	slot := &Slot{
		StartTime: types.TimeString("10:00"),
		EndTime:   types.TimeString("12:00"),
	}

	assert.True(t, slot.Covers("10:00", "12:00"))
	assert.True(t, slot.Covers("10:30", "11:30"))
	assert.False(t, slot.Covers("09:30", "11:00"))
	assert.False(t, slot.Covers("11:00", "12:30"))

	base := decimal.RequireFromString("100")
	assert.True(t, slot.EffectivePrice(base).Equal(base))

	multiplier := decimal.RequireFromString("1.5")
	slot.PriceMultiplier = &multiplier
	assert.True(t, slot.EffectivePrice(base).Equal(decimal.RequireFromString("150")))
}
