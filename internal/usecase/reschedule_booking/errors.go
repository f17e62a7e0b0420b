package reschedule_booking

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("reschedule_booking: booking not found")

	// ErrAccessDenied возвращается, когда бронирование принадлежит другому покупателю
	ErrAccessDenied = errors.New("reschedule_booking: access denied")

	// ErrIllegalState возвращается, когда бронирование в терминальном статусе
	ErrIllegalState = errors.New("reschedule_booking: booking cannot be rescheduled")

	// ErrSelfOverlap возвращается, когда новый интервал пересекается с другим
	// активным бронированием покупателя
	ErrSelfOverlap = errors.New("reschedule_booking: buyer already has an overlapping booking")

	// ErrSlotNotAvailable возвращается, когда нет доступного слота,
	// покрывающего новый интервал
	ErrSlotNotAvailable = errors.New("reschedule_booking: slot is not available")

	// ErrInvalidDate возвращается при некорректной дате бронирования
	ErrInvalidDate = errors.New("reschedule_booking: invalid booking date")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("reschedule_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("reschedule_booking: internal error")
)
