package initiate_payment

import (
	initiatePayment "github.com/m04kA/SMC-ReservationService/internal/usecase/initiate_payment"
)

// PaymentResponse HTTP response model
type PaymentResponse struct {
	PaymentID       int64   `json:"paymentId"`
	BookingID       int64   `json:"bookingId"`
	Amount          string  `json:"amount"`
	Currency        string  `json:"currency"`
	Status          string  `json:"status"`
	GatewayIntentID *string `json:"gatewayIntentId,omitempty"`
	FailureReason   *string `json:"failureReason,omitempty"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *initiatePayment.Response) *PaymentResponse {
	return &PaymentResponse{
		PaymentID:       resp.PaymentID,
		BookingID:       resp.BookingID,
		Amount:          resp.Amount.String(),
		Currency:        resp.Currency,
		Status:          resp.Status,
		GatewayIntentID: resp.GatewayIntentID,
		FailureReason:   resp.FailureReason,
	}
}
