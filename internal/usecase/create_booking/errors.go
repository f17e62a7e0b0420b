package create_booking

import "errors"

var (
	// ErrOfferingNotFound возвращается, когда оферта не найдена в каталоге
	ErrOfferingNotFound = errors.New("create_booking: offering not found")

	// ErrOfferingInactive возвращается, когда оферта снята с публикации
	ErrOfferingInactive = errors.New("create_booking: offering is not active")

	// ErrProviderNotFound возвращается, когда провайдер оферты не найден
	ErrProviderNotFound = errors.New("create_booking: provider not found")

	// ErrProviderUnverified возвращается, когда провайдер не прошёл верификацию
	ErrProviderUnverified = errors.New("create_booking: provider is not verified")

	// ErrSelfOverlap возвращается, когда у покупателя уже есть активное
	// бронирование, пересекающееся по времени с запрошенным интервалом
	ErrSelfOverlap = errors.New("create_booking: buyer already has an overlapping booking")

	// ErrSlotNotAvailable возвращается, когда нет доступного слота,
	// покрывающего запрошенный интервал
	ErrSlotNotAvailable = errors.New("create_booking: slot is not available")

	// ErrInvalidDate возвращается при некорректной дате бронирования
	ErrInvalidDate = errors.New("create_booking: invalid booking date")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
