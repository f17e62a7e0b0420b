package models

import (
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

// PaymentResponse ответ с данными платежа
type PaymentResponse struct {
	ID         int64 `json:"id"`
	BookingID  int64 `json:"bookingId"`
	BuyerID    int64 `json:"buyerId"`
	ProviderID int64 `json:"providerId"`

	Amount   string `json:"amount"` // десятичная строка
	Currency string `json:"currency"`
	Status   string `json:"status"`

	GatewayIntentID *string `json:"gatewayIntentId,omitempty"`
	FailureReason   *string `json:"failureReason,omitempty"`
	RefundReason    *string `json:"refundReason,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// PaymentListResponse ответ со списком платежей
type PaymentListResponse struct {
	Payments []PaymentResponse `json:"payments"`
}

// FromDomainPayment конвертирует domain модель в DTO
func FromDomainPayment(p *domain.Payment) *PaymentResponse {
	if p == nil {
		return nil
	}

	return &PaymentResponse{
		ID:              p.ID,
		BookingID:       p.BookingID,
		BuyerID:         p.BuyerID,
		ProviderID:      p.ProviderID,
		Amount:          p.Amount.String(),
		Currency:        p.Currency,
		Status:          string(p.Status),
		GatewayIntentID: p.GatewayIntentID,
		FailureReason:   p.FailureReason,
		RefundReason:    p.RefundReason,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}

// FromDomainPaymentList конвертирует список domain моделей в DTO
func FromDomainPaymentList(payments []*domain.Payment) *PaymentListResponse {
	resp := &PaymentListResponse{
		Payments: make([]PaymentResponse, 0, len(payments)),
	}
	for _, p := range payments {
		resp.Payments = append(resp.Payments, *FromDomainPayment(p))
	}
	return resp
}
