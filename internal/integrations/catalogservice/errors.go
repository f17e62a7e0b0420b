package catalogservice

import "errors"

var (
	// ErrOfferingNotFound возвращается, когда оферта не найдена в каталоге
	ErrOfferingNotFound = errors.New("offering not found")

	// ErrProviderNotFound возвращается, когда провайдер не найден в каталоге
	ErrProviderNotFound = errors.New("provider not found")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("catalogservice client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("catalogservice client: invalid response")
)
