package refund_payment

import (
	refundPayment "github.com/m04kA/SMC-ReservationService/internal/usecase/refund_payment"
)

// RefundPaymentRequest HTTP request model
type RefundPaymentRequest struct {
	Reason string `json:"reason"`
}

// RefundPaymentResponse HTTP response model
type RefundPaymentResponse struct {
	PaymentID int64  `json:"paymentId"`
	BookingID int64  `json:"bookingId"`
	Amount    string `json:"amount"`
	Currency  string `json:"currency"`
	Status    string `json:"status"`
	RefundID  string `json:"refundId"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *refundPayment.Response) *RefundPaymentResponse {
	return &RefundPaymentResponse{
		PaymentID: resp.PaymentID,
		BookingID: resp.BookingID,
		Amount:    resp.Amount.String(),
		Currency:  resp.Currency,
		Status:    resp.Status,
		RefundID:  resp.RefundID,
	}
}
