package paygateway

import "errors"

var (
	// ErrGatewayUnavailable возвращается при сетевой ошибке или таймауте вызова шлюза.
	// Локальное состояние при этой ошибке не трогается: асинхронный webhook
	// остаётся авторитетным источником результата операции.
	ErrGatewayUnavailable = errors.New("paygateway client: gateway unavailable")

	// ErrDeclined возвращается, когда шлюз отклонил операцию (4xx)
	ErrDeclined = errors.New("paygateway client: operation declined")

	// ErrInvalidResponse возвращается при некорректном ответе от шлюза
	ErrInvalidResponse = errors.New("paygateway client: invalid response")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("paygateway client: internal error")

	// ErrInvalidSignature возвращается, когда подпись webhook-события не прошла проверку
	ErrInvalidSignature = errors.New("paygateway: invalid event signature")
)
