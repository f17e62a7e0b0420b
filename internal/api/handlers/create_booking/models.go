package create_booking

import (
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	createBooking "github.com/m04kA/SMC-ReservationService/internal/usecase/create_booking"
	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	OfferingID  int64   `json:"offeringId"`
	BookingDate string  `json:"bookingDate"` // "2025-10-15"
	StartTime   string  `json:"startTime"`   // "10:00"
	EndTime     string  `json:"endTime"`     // "11:30"
	Notes       *string `json:"notes,omitempty"`
}

// BookingResponse HTTP response model
type BookingResponse struct {
	ID          int64   `json:"id"`
	BuyerID     int64   `json:"buyerId"`
	ProviderID  int64   `json:"providerId"`
	OfferingID  int64   `json:"offeringId"`
	SlotID      int64   `json:"slotId"`
	BookingDate string  `json:"bookingDate"`
	StartTime   string  `json:"startTime"`
	EndTime     string  `json:"endTime"`
	TotalPrice  string  `json:"totalPrice"`
	Currency    string  `json:"currency"`
	Status      string  `json:"status"`
	Notes       *string `json:"notes,omitempty"`
	CreatedAt   string  `json:"createdAt"`
	UpdatedAt   string  `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest(buyerID int64) (*createBooking.Request, error) {
	bookingDate, err := time.Parse(domain.DateFormat, r.BookingDate)
	if err != nil {
		return nil, err
	}

	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, err
	}

	endTime, err := types.NewTimeStringFromString(r.EndTime)
	if err != nil {
		return nil, err
	}

	return &createBooking.Request{
		BuyerID:    buyerID,
		OfferingID: r.OfferingID,
		Date:       bookingDate,
		StartTime:  startTime,
		EndTime:    endTime,
		Notes:      r.Notes,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *BookingResponse {
	return &BookingResponse{
		ID:          resp.ID,
		BuyerID:     resp.BuyerID,
		ProviderID:  resp.ProviderID,
		OfferingID:  resp.OfferingID,
		SlotID:      resp.SlotID,
		BookingDate: resp.Date.Format(domain.DateFormat),
		StartTime:   resp.StartTime.String(),
		EndTime:     resp.EndTime.String(),
		TotalPrice:  resp.TotalPrice.String(),
		Currency:    resp.Currency,
		Status:      resp.Status,
		Notes:       resp.Notes,
		CreatedAt:   resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   resp.UpdatedAt.Format(time.RFC3339),
	}
}
