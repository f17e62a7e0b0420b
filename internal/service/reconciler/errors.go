package reconciler

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование платежа не найдено
	ErrBookingNotFound = errors.New("reconciler: booking not found")

	// ErrInternal возвращается при внутренних ошибках реконсиляции
	ErrInternal = errors.New("reconciler: internal error")
)
