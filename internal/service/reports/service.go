package reports

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/booking"
	paymentRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/payment"
)

// StatusStat счётчик бронирований по одному статусу
type StatusStat struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

// PaymentStat агрегат платежей по одному статусу
type PaymentStat struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
	Total  string `json:"total"` // десятичная строка
}

// StatsResponse сводка по бронированиям и платежам
type StatsResponse struct {
	Bookings []StatusStat  `json:"bookings"`
	Payments []PaymentStat `json:"payments"`

	// CollectedTotal сумма платежей в статусе completed
	CollectedTotal string `json:"collectedTotal"`
	// RefundedTotal сумма платежей в статусе refunded
	RefundedTotal string `json:"refundedTotal"`
}

// Service сервис отчётов: агрегаты по статусам бронирований и платежей
type Service struct {
	bookingRepo BookingRepository
	paymentRepo PaymentRepository
	logger      Logger
}

// NewService создает новый экземпляр сервиса отчётов
func NewService(bookingRepo BookingRepository, paymentRepo PaymentRepository, logger Logger) *Service {
	return &Service{
		bookingRepo: bookingRepo,
		paymentRepo: paymentRepo,
		logger:      logger,
	}
}

// GetProviderStats возвращает сводку провайдера
// Доступно самому провайдеру и администратору
func (s *Service) GetProviderStats(ctx context.Context, providerID int64, actor domain.Actor) (*StatsResponse, error) {
	s.logger.Info("GetProviderStats: building stats for provider=%d user=%d", providerID, actor.UserID)

	if !actor.CanActForProvider(providerID) {
		s.logger.Warn("GetProviderStats: access denied for user=%d to provider=%d", actor.UserID, providerID)
		return nil, ErrAccessDenied
	}

	counts, err := s.bookingRepo.CountByStatusForProvider(ctx, providerID)
	if err != nil {
		s.logger.Error("GetProviderStats: booking aggregation failed for provider=%d: %v", providerID, err)
		return nil, fmt.Errorf("%w: GetProviderStats - booking aggregation: %w", ErrInternal, err)
	}

	totals, err := s.paymentRepo.TotalsByStatusForProvider(ctx, providerID)
	if err != nil {
		s.logger.Error("GetProviderStats: payment aggregation failed for provider=%d: %v", providerID, err)
		return nil, fmt.Errorf("%w: GetProviderStats - payment aggregation: %w", ErrInternal, err)
	}

	return s.buildResponse(counts, totals), nil
}

// GetBuyerSummary возвращает сводку покупателя
// Доступно самому покупателю и администратору
func (s *Service) GetBuyerSummary(ctx context.Context, buyerID int64, actor domain.Actor) (*StatsResponse, error) {
	s.logger.Info("GetBuyerSummary: building summary for buyer=%d user=%d", buyerID, actor.UserID)

	if !actor.CanActForBuyer(buyerID) {
		s.logger.Warn("GetBuyerSummary: access denied for user=%d to buyer=%d", actor.UserID, buyerID)
		return nil, ErrAccessDenied
	}

	counts, err := s.bookingRepo.CountByStatusForBuyer(ctx, buyerID)
	if err != nil {
		s.logger.Error("GetBuyerSummary: booking aggregation failed for buyer=%d: %v", buyerID, err)
		return nil, fmt.Errorf("%w: GetBuyerSummary - booking aggregation: %w", ErrInternal, err)
	}

	totals, err := s.paymentRepo.TotalsByStatusForBuyer(ctx, buyerID)
	if err != nil {
		s.logger.Error("GetBuyerSummary: payment aggregation failed for buyer=%d: %v", buyerID, err)
		return nil, fmt.Errorf("%w: GetBuyerSummary - payment aggregation: %w", ErrInternal, err)
	}

	return s.buildResponse(counts, totals), nil
}

func (s *Service) buildResponse(counts []bookingRepo.StatusCount, totals []paymentRepo.StatusTotal) *StatsResponse {
	resp := &StatsResponse{
		Bookings: make([]StatusStat, 0, len(counts)),
		Payments: make([]PaymentStat, 0, len(totals)),
	}

	for _, c := range counts {
		resp.Bookings = append(resp.Bookings, StatusStat{
			Status: string(c.Status),
			Count:  c.Count,
		})
	}

	collected := decimal.Zero
	refunded := decimal.Zero
	for _, t := range totals {
		resp.Payments = append(resp.Payments, PaymentStat{
			Status: string(t.Status),
			Count:  t.Count,
			Total:  t.Sum.String(),
		})
		switch t.Status {
		case domain.PaymentStatusCompleted:
			collected = collected.Add(t.Sum)
		case domain.PaymentStatusRefunded:
			refunded = refunded.Add(t.Sum)
		}
	}

	resp.CollectedTotal = collected.String()
	resp.RefundedTotal = refunded.String()
	return resp
}
