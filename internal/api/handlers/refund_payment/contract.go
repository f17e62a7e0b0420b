package refund_payment

import (
	"context"

	refundPayment "github.com/m04kA/SMC-ReservationService/internal/usecase/refund_payment"
)

type RefundPaymentUseCase interface {
	Execute(ctx context.Context, req *refundPayment.Request) (*refundPayment.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
