package domain

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// Business validation constants
const (
	MaxNotesLength              = 500
	MaxCancellationReasonLength = 500
	MaxRefundReasonLength       = 500
)

// ActiveBookingStatuses статусы бронирований, удерживающих слот
// Используются при проверке пересечений по времени
var ActiveBookingStatuses = []BookingStatus{
	BookingStatusPending,
	BookingStatusConfirmed,
}

// TerminalBookingStatuses статусы, из которых нет переходов
var TerminalBookingStatuses = []BookingStatus{
	BookingStatusCompleted,
	BookingStatusRejected,
	BookingStatusCancelled,
}
