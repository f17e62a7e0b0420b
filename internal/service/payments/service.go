package payments

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/booking"
	paymentRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/payment"
	"github.com/m04kA/SMC-ReservationService/internal/service/payments/models"
)

// Service сервис чтения платежей
// Изменение платежей проходит только через платёжный реконсилятор
type Service struct {
	paymentRepo PaymentRepository
	bookingRepo BookingRepository
	logger      Logger
}

// NewService создает новый экземпляр сервиса платежей
func NewService(paymentRepo PaymentRepository, bookingRepo BookingRepository, logger Logger) *Service {
	return &Service{
		paymentRepo: paymentRepo,
		bookingRepo: bookingRepo,
		logger:      logger,
	}
}

// GetByID получает платёж по ID
// Доступно покупателю платежа, его провайдеру и администратору
func (s *Service) GetByID(ctx context.Context, id int64, actor domain.Actor) (*models.PaymentResponse, error) {
	s.logger.Info("GetByID: fetching payment id=%d for user=%d role=%s", id, actor.UserID, actor.Role)

	payment, err := s.paymentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, paymentRepo.ErrPaymentNotFound) {
			s.logger.Warn("GetByID: payment id=%d not found", id)
			return nil, ErrPaymentNotFound
		}
		s.logger.Error("GetByID: repository error for payment id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %w", ErrInternal, err)
	}

	if !canReadPayment(payment, actor) {
		s.logger.Warn("GetByID: access denied for user=%d to payment id=%d", actor.UserID, id)
		return nil, ErrAccessDenied
	}

	return models.FromDomainPayment(payment), nil
}

// GetBookingPayments возвращает все платежи бронирования
// Доступно покупателю бронирования, его провайдеру и администратору
func (s *Service) GetBookingPayments(ctx context.Context, bookingID int64, actor domain.Actor) (*models.PaymentListResponse, error) {
	s.logger.Info("GetBookingPayments: fetching payments for booking=%d user=%d", bookingID, actor.UserID)

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("GetBookingPayments: booking id=%d not found", bookingID)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("GetBookingPayments: repository error for booking id=%d: %v", bookingID, err)
		return nil, fmt.Errorf("%w: GetBookingPayments - repository error: %w", ErrInternal, err)
	}

	if !canReadBookingPayments(booking, actor) {
		s.logger.Warn("GetBookingPayments: access denied for user=%d to booking id=%d", actor.UserID, bookingID)
		return nil, ErrAccessDenied
	}

	payments, err := s.paymentRepo.GetByBookingID(ctx, bookingID)
	if err != nil {
		s.logger.Error("GetBookingPayments: repository error for booking id=%d: %v", bookingID, err)
		return nil, fmt.Errorf("%w: GetBookingPayments - repository error: %w", ErrInternal, err)
	}

	s.logger.Info("GetBookingPayments: fetched %d payments for booking=%d", len(payments), bookingID)
	return models.FromDomainPaymentList(payments), nil
}

func canReadPayment(p *domain.Payment, actor domain.Actor) bool {
	if actor.IsAdmin() {
		return true
	}
	if actor.Role == domain.RoleBuyer && p.BuyerID == actor.UserID {
		return true
	}
	if actor.Role == domain.RoleProvider && p.ProviderID == actor.UserID {
		return true
	}
	return false
}

func canReadBookingPayments(b *domain.Booking, actor domain.Actor) bool {
	if actor.IsAdmin() {
		return true
	}
	if actor.Role == domain.RoleBuyer && b.BuyerID == actor.UserID {
		return true
	}
	if actor.Role == domain.RoleProvider && b.ProviderID == actor.UserID {
		return true
	}
	return false
}
