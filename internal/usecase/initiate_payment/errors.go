package initiate_payment

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("initiate_payment: booking not found")

	// ErrAccessDenied возвращается, когда бронирование принадлежит другому покупателю
	ErrAccessDenied = errors.New("initiate_payment: access denied")

	// ErrIllegalState возвращается, когда бронирование не принимает оплату
	ErrIllegalState = errors.New("initiate_payment: booking does not accept payment")

	// ErrDuplicatePayment возвращается, когда по бронированию уже есть
	// платёж в статусе pending или completed
	ErrDuplicatePayment = errors.New("initiate_payment: booking already has an active payment")

	// ErrOfferingNotFound возвращается, когда оферта бронирования не найдена в каталоге
	ErrOfferingNotFound = errors.New("initiate_payment: offering not found")

	// ErrGatewayError возвращается, когда шлюз недоступен или ответ не получен.
	// Платёж остаётся в статусе pending до прихода webhook-события.
	ErrGatewayError = errors.New("initiate_payment: payment gateway error")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("initiate_payment: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("initiate_payment: internal error")
)
