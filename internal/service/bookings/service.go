package bookings

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/booking"
	slotRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/slot"
	"github.com/m04kA/SMC-ReservationService/internal/service/bookings/models"
)

// Service сервис для работы с бронированиями
type Service struct {
	bookingRepo BookingRepository
	slotRepo    SlotRepository
	txManager   TransactionManager
	logger      Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	slotRepo SlotRepository,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo: bookingRepo,
		slotRepo:    slotRepo,
		txManager:   txManager,
		logger:      logger,
	}
}

// GetByID получает бронирование по ID
// Покупатель видит только своё бронирование, провайдер - бронирования своих
// оферт, администратор - любые
func (s *Service) GetByID(ctx context.Context, id int64, actor domain.Actor) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d for user=%d role=%s", id, actor.UserID, actor.Role)

	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("GetByID: booking id=%d not found", id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("GetByID: repository error for booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %w", ErrInternal, err)
	}

	if err := s.checkReadAccess(booking, actor); err != nil {
		s.logger.Warn("GetByID: access denied for user=%d to booking id=%d", actor.UserID, id)
		return nil, err
	}

	return models.FromDomainBooking(booking), nil
}

// GetBuyerBookings получает историю бронирований покупателя
// Опционально фильтрует по статусу
func (s *Service) GetBuyerBookings(ctx context.Context, req *models.GetBuyerBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetBuyerBookings: fetching bookings for buyer=%d, status=%v", req.BuyerID, req.Status)

	if !req.Actor.CanActForBuyer(req.BuyerID) {
		s.logger.Warn("GetBuyerBookings: access denied for user=%d to buyer=%d", req.Actor.UserID, req.BuyerID)
		return nil, ErrAccessDenied
	}

	var domainStatus *domain.BookingStatus
	if req.Status != nil {
		status, err := models.ToDomainBookingStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetBuyerBookings: invalid status=%s for buyer=%d", *req.Status, req.BuyerID)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		domainStatus = &status
	}

	bookings, err := s.bookingRepo.GetByBuyerID(ctx, req.BuyerID, domainStatus)
	if err != nil {
		s.logger.Error("GetBuyerBookings: repository error for buyer=%d: %v", req.BuyerID, err)
		return nil, fmt.Errorf("%w: GetBuyerBookings - repository error: %w", ErrInternal, err)
	}

	s.logger.Info("GetBuyerBookings: fetched %d bookings for buyer=%d", len(bookings), req.BuyerID)
	return models.FromDomainBookingList(bookings), nil
}

// GetProviderBookings получает бронирования провайдера с гибкой фильтрацией
// Поддерживает фильтрацию по оферте, периоду, статусу и включению неактивных
// бронирований. Доступно провайдеру и администратору.
func (s *Service) GetProviderBookings(ctx context.Context, req *models.GetProviderBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetProviderBookings: fetching bookings for provider=%d, user=%d", req.ProviderID, req.Actor.UserID)

	if !req.Actor.CanActForProvider(req.ProviderID) {
		s.logger.Warn("GetProviderBookings: access denied for user=%d to provider=%d", req.Actor.UserID, req.ProviderID)
		return nil, ErrAccessDenied
	}

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("GetProviderBookings: invalid filter for provider=%d: %v", req.ProviderID, err)
		return nil, fmt.Errorf("%w: invalid filter", ErrInvalidInput)
	}

	bookings, err := s.bookingRepo.GetByProviderWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("GetProviderBookings: repository error for provider=%d: %v", req.ProviderID, err)
		return nil, fmt.Errorf("%w: GetProviderBookings - repository error: %w", ErrInternal, err)
	}

	s.logger.Info("GetProviderBookings: fetched %d bookings for provider=%d", len(bookings), req.ProviderID)
	return models.FromDomainBookingList(bookings), nil
}

// Cancel отменяет бронирование и освобождает его слот
// Доступно покупателю бронирования, провайдеру оферты и администратору.
// Отмена и освобождение слота выполняются в одной транзакции.
func (s *Service) Cancel(ctx context.Context, bookingID int64, req *models.CancelBookingRequest) error {
	s.logger.Info("Cancel: cancelling booking id=%d by user=%d", bookingID, req.Actor.UserID)

	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		booking, err := s.bookingRepo.GetByID(ctx, bookingID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			return fmt.Errorf("%w: Cancel - repository error: %w", ErrInternal, err)
		}

		if !s.canActOnBooking(booking, req.Actor) {
			return ErrAccessDenied
		}

		if !booking.CanBeCancelled() {
			s.logger.Warn("Cancel: booking id=%d cannot be cancelled, status=%s", bookingID, booking.Status)
			return ErrCannotCancel
		}

		if err := s.bookingRepo.Cancel(ctx, bookingID, req.CancellationReason); err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			return fmt.Errorf("%w: Cancel - repository error: %w", ErrInternal, err)
		}

		s.releaseSlot(ctx, booking.SlotID, bookingID)
		return nil
	})
	if err != nil {
		if isServiceError(err) {
			return err
		}
		s.logger.Error("Cancel: transaction failed for booking id=%d: %v", bookingID, err)
		return fmt.Errorf("%w: Cancel - transaction: %w", ErrInternal, err)
	}

	s.logger.Info("Cancel: successfully cancelled booking id=%d", bookingID)
	return nil
}

// UpdateStatus обновляет статус бронирования решением провайдера
// Допустимы только переходы, разрешённые жизненным циклом: pending -> rejected
// и confirmed -> completed. Отклонение освобождает слот.
func (s *Service) UpdateStatus(ctx context.Context, bookingID int64, req *models.UpdateStatusRequest) error {
	s.logger.Info("UpdateStatus: updating booking id=%d to status=%s by user=%d",
		bookingID, req.Status, req.Actor.UserID)

	newStatus, err := models.ToDomainBookingStatus(req.Status)
	if err != nil {
		s.logger.Warn("UpdateStatus: invalid status=%s for booking id=%d", req.Status, bookingID)
		return fmt.Errorf("%w: invalid status", ErrInvalidInput)
	}

	// Решением провайдера выставляются только rejected и completed;
	// confirmed приходит от платёжного реконсилятора, cancelled - через Cancel
	if newStatus != domain.BookingStatusRejected && newStatus != domain.BookingStatusCompleted {
		s.logger.Warn("UpdateStatus: status=%s is not a provider decision for booking id=%d", newStatus, bookingID)
		return fmt.Errorf("%w: %s is not settable directly", ErrIllegalTransition, newStatus)
	}

	err = s.txManager.Do(ctx, func(ctx context.Context) error {
		booking, err := s.bookingRepo.GetByID(ctx, bookingID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			return fmt.Errorf("%w: UpdateStatus - repository error: %w", ErrInternal, err)
		}

		if !req.Actor.CanActForProvider(booking.ProviderID) {
			return ErrAccessDenied
		}

		if err := domain.ValidateBookingTransition(booking.Status, newStatus); err != nil {
			s.logger.Warn("UpdateStatus: %s -> %s not allowed for booking id=%d", booking.Status, newStatus, bookingID)
			return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, booking.Status, newStatus)
		}

		if err := s.bookingRepo.UpdateStatus(ctx, bookingID, newStatus); err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			return fmt.Errorf("%w: UpdateStatus - repository error: %w", ErrInternal, err)
		}

		// Отклонённое бронирование больше не удерживает слот
		if newStatus == domain.BookingStatusRejected {
			s.releaseSlot(ctx, booking.SlotID, bookingID)
		}
		return nil
	})
	if err != nil {
		if isServiceError(err) {
			return err
		}
		s.logger.Error("UpdateStatus: transaction failed for booking id=%d: %v", bookingID, err)
		return fmt.Errorf("%w: UpdateStatus - transaction: %w", ErrInternal, err)
	}

	s.logger.Info("UpdateStatus: successfully updated booking id=%d to status=%s", bookingID, newStatus)
	return nil
}

// Вспомогательные методы

// checkReadAccess проверяет доступ на чтение бронирования
func (s *Service) checkReadAccess(booking *domain.Booking, actor domain.Actor) error {
	if s.canActOnBooking(booking, actor) {
		return nil
	}
	return ErrAccessDenied
}

// canActOnBooking проверяет, что actor является покупателем бронирования,
// его провайдером или администратором
func (s *Service) canActOnBooking(booking *domain.Booking, actor domain.Actor) bool {
	if actor.IsAdmin() {
		return true
	}
	if actor.Role == domain.RoleBuyer && booking.BuyerID == actor.UserID {
		return true
	}
	if actor.Role == domain.RoleProvider && booking.ProviderID == actor.UserID {
		return true
	}
	return false
}

// releaseSlot освобождает слот бронирования
// Отсутствующий слот трактуется как no-op и логируется
func (s *Service) releaseSlot(ctx context.Context, slotID, bookingID int64) {
	if err := s.slotRepo.Release(ctx, slotID); err != nil {
		if errors.Is(err, slotRepo.ErrSlotNotFound) {
			s.logger.Warn("releaseSlot: slot id=%d for booking id=%d no longer exists, skipping", slotID, bookingID)
			return
		}
		s.logger.Error("releaseSlot: failed to release slot id=%d for booking id=%d: %v", slotID, bookingID, err)
	}
}

// isServiceError проверяет, что ошибка уже относится к ошибкам сервиса
func isServiceError(err error) bool {
	return errors.Is(err, ErrBookingNotFound) ||
		errors.Is(err, ErrAccessDenied) ||
		errors.Is(err, ErrCannotCancel) ||
		errors.Is(err, ErrIllegalTransition) ||
		errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrInternal)
}
