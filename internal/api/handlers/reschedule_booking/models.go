package reschedule_booking

import (
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	rescheduleBooking "github.com/m04kA/SMC-ReservationService/internal/usecase/reschedule_booking"
	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

// RescheduleBookingRequest HTTP request model
type RescheduleBookingRequest struct {
	BookingDate string `json:"bookingDate"` // "2025-10-15"
	StartTime   string `json:"startTime"`   // "10:00"
	EndTime     string `json:"endTime"`     // "11:30"
}

// RescheduleBookingResponse HTTP response model
type RescheduleBookingResponse struct {
	ID          int64  `json:"id"`
	SlotID      int64  `json:"slotId"`
	BookingDate string `json:"bookingDate"`
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
	TotalPrice  string `json:"totalPrice"`
	Status      string `json:"status"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *RescheduleBookingRequest) ToUseCaseRequest(bookingID, buyerID int64) (*rescheduleBooking.Request, error) {
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

	return &rescheduleBooking.Request{
		BookingID: bookingID,
		BuyerID:   buyerID,
		Date:      bookingDate,
		StartTime: startTime,
		EndTime:   endTime,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *rescheduleBooking.Response) *RescheduleBookingResponse {
	return &RescheduleBookingResponse{
		ID:          resp.ID,
		SlotID:      resp.SlotID,
		BookingDate: resp.Date.Format(domain.DateFormat),
		StartTime:   resp.StartTime.String(),
		EndTime:     resp.EndTime.String(),
		TotalPrice:  resp.TotalPrice.String(),
		Status:      resp.Status,
	}
}
