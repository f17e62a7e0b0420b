package refund_payment

import (
	"fmt"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.PaymentID <= 0 {
		return fmt.Errorf("%w: paymentID must be positive", ErrInvalidInput)
	}

	if req.Actor.UserID <= 0 {
		return fmt.Errorf("%w: actor userID must be positive", ErrInvalidInput)
	}

	if !req.Actor.Role.IsValid() {
		return fmt.Errorf("%w: unknown actor role", ErrInvalidInput)
	}

	if len(req.Reason) > domain.MaxRefundReasonLength {
		return fmt.Errorf("%w: reason exceeds %d characters", ErrInvalidInput, domain.MaxRefundReasonLength)
	}

	return nil
}
