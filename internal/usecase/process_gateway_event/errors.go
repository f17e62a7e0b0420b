package process_gateway_event

import "errors"

var (
	// ErrInvalidSignature возвращается, когда подпись тела запроса не прошла проверку.
	// Событие не обрабатывается и не попадает в журнал.
	ErrInvalidSignature = errors.New("process_gateway_event: invalid signature")

	// ErrInvalidPayload возвращается, когда тело события не парсится
	ErrInvalidPayload = errors.New("process_gateway_event: invalid payload")

	// ErrPaymentNotFound возвращается, когда платёж с указанным intent ещё не
	// известен. Обработка события откатывается, шлюз доставит его повторно.
	ErrPaymentNotFound = errors.New("process_gateway_event: payment not found for intent")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("process_gateway_event: internal error")
)
