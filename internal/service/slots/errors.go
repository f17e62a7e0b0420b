package slots

import "errors"

var (
	// ErrOfferingNotFound возвращается, когда оферта не найдена в каталоге
	ErrOfferingNotFound = errors.New("offering not found")

	// ErrAccessDenied возвращается, когда у пользователя нет прав доступа
	ErrAccessDenied = errors.New("access denied")

	// ErrSlotOverlap возвращается при пересечении с уже существующим доступным слотом
	ErrSlotOverlap = errors.New("slot overlaps an existing available slot")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
