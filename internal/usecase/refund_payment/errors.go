package refund_payment

import "errors"

var (
	// ErrPaymentNotFound возвращается, когда платёж не найден
	ErrPaymentNotFound = errors.New("refund_payment: payment not found")

	// ErrAccessDenied возвращается, когда у пользователя нет прав на возврат
	ErrAccessDenied = errors.New("refund_payment: access denied")

	// ErrNotRefundable возвращается, когда платёж не в статусе completed
	ErrNotRefundable = errors.New("refund_payment: payment is not refundable")

	// ErrGatewayError возвращается, когда шлюз отклонил возврат или недоступен
	ErrGatewayError = errors.New("refund_payment: payment gateway error")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("refund_payment: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("refund_payment: internal error")
)
