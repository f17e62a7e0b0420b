package initiate_payment

import "fmt"

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.BookingID <= 0 {
		return fmt.Errorf("%w: bookingID must be positive", ErrInvalidInput)
	}

	if req.BuyerID <= 0 {
		return fmt.Errorf("%w: buyerID must be positive", ErrInvalidInput)
	}

	return nil
}
