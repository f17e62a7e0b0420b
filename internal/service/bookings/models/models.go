package models

import (
	"errors"
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/pkg/ptr"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid booking status")
)

// Request модели

// CancelBookingRequest запрос на отмену бронирования
type CancelBookingRequest struct {
	Actor              domain.Actor `json:"-"`
	CancellationReason string       `json:"cancellationReason"`
}

// UpdateStatusRequest запрос на обновление статуса бронирования провайдером
type UpdateStatusRequest struct {
	Actor  domain.Actor `json:"-"`
	Status string       `json:"status"`
}

// GetBuyerBookingsRequest запрос на получение бронирований покупателя
type GetBuyerBookingsRequest struct {
	Actor   domain.Actor `json:"-"`
	BuyerID int64        `json:"buyerId"`
	Status  *string      `json:"status,omitempty"`
}

// GetProviderBookingsRequest запрос на получение бронирований провайдера
type GetProviderBookingsRequest struct {
	Actor           domain.Actor `json:"-"`
	ProviderID      int64        `json:"providerId"`
	OfferingID      *int64       `json:"offeringId,omitempty"`      // Фильтр по оферте (опционально)
	StartDate       *time.Time   `json:"startDate,omitempty"`       // Начало периода (опционально)
	EndDate         *time.Time   `json:"endDate,omitempty"`         // Конец периода (опционально)
	Status          *string      `json:"status,omitempty"`          // Фильтр по статусу (опционально)
	IncludeInactive bool         `json:"includeInactive,omitempty"` // Включить терминальные бронирования
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *GetProviderBookingsRequest) ToDomainFilter() (domain.ProviderBookingsFilter, error) {
	filter := domain.ProviderBookingsFilter{
		ProviderID:      r.ProviderID,
		OfferingID:      r.OfferingID,
		StartDate:       r.StartDate,
		EndDate:         r.EndDate,
		IncludeInactive: r.IncludeInactive,
	}

	if r.Status != nil {
		status, err := ToDomainBookingStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}

	return filter, nil
}

// Response модели

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID         int64 `json:"id"`
	BuyerID    int64 `json:"buyerId"`
	ProviderID int64 `json:"providerId"`
	OfferingID int64 `json:"offeringId"`
	SlotID     int64 `json:"slotId"`

	BookingDate string `json:"bookingDate"` // "2025-10-15"
	StartTime   string `json:"startTime"`   // "10:00"
	EndTime     string `json:"endTime"`     // "11:30"

	TotalPrice string `json:"totalPrice"` // десятичная строка, без потери точности
	Status     string `json:"status"`

	Notes              *string `json:"notes,omitempty"`
	CancellationReason *string `json:"cancellationReason,omitempty"`
	CancelledAt        *string `json:"cancelledAt,omitempty"` // ISO 8601 format

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	resp := &BookingResponse{
		ID:                 b.ID,
		BuyerID:            b.BuyerID,
		ProviderID:         b.ProviderID,
		OfferingID:         b.OfferingID,
		SlotID:             b.SlotID,
		BookingDate:        b.BookingDate.Format(domain.DateFormat),
		StartTime:          b.StartTime.String(),
		EndTime:            b.EndTime.String(),
		TotalPrice:         b.TotalPrice.String(),
		Status:             string(b.Status),
		Notes:              b.Notes,
		CancellationReason: b.CancellationReason,
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
	}

	if b.CancelledAt != nil {
		resp.CancelledAt = ptr.Ptr(b.CancelledAt.Format(time.RFC3339))
	}

	return resp
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	if bookings == nil {
		return &BookingListResponse{Bookings: []BookingResponse{}}
	}

	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, 0, len(bookings)),
	}
	for _, b := range bookings {
		resp.Bookings = append(resp.Bookings, *FromDomainBooking(b))
	}

	return resp
}

// ToDomainBookingStatus конвертирует строку в domain статус
func ToDomainBookingStatus(s string) (domain.BookingStatus, error) {
	status := domain.BookingStatus(s)
	if !status.IsValid() {
		return "", ErrInvalidStatus
	}
	return status, nil
}
