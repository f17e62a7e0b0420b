package reschedule_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/booking"
	slotRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/slot"
)

// UseCase use case для переноса бронирования на другую дату или время
type UseCase struct {
	bookingRepo  BookingRepository
	slotRepo     SlotRepository
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	slotRepo SlotRepository,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		slotRepo:     slotRepo,
		txManager:    txManager,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case переноса бронирования
// Освобождение старого слота и занятие нового выполняются в одной
// сериализуемой транзакции: если нового слота нет, откат восстанавливает
// старое расписание целиком. Цена бронирования при переносе не меняется.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("RescheduleBooking: booking=%d, buyer=%d, date=%s, time=%s-%s",
		req.BookingID, req.BuyerID, req.Date.Format(domain.DateFormat), req.StartTime, req.EndTime)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("RescheduleBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Проверяем новую дату
	if err := validateDate(req.Date, uc.timeProvider.Now()); err != nil {
		uc.logger.Warn("RescheduleBooking: date %s is in the past", req.Date.Format(domain.DateFormat))
		return nil, err
	}

	var result *domain.Booking
	var newSlotID int64

	// 3. Выполняем перенос в сериализуемой транзакции
	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 3.1. Получаем бронирование с блокировкой FOR UPDATE
		booking, err := uc.bookingRepo.GetByID(txCtx, req.BookingID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			uc.logger.Error("RescheduleBooking: failed to get booking id=%d: %v", req.BookingID, err)
			return fmt.Errorf("%w: failed to get booking: %w", ErrInternal, err)
		}

		// 3.2. Переносить может только владелец бронирования
		if booking.BuyerID != req.BuyerID {
			uc.logger.Warn("RescheduleBooking: buyer=%d is not the owner of booking id=%d",
				req.BuyerID, req.BookingID)
			return ErrAccessDenied
		}

		// 3.3. Терминальные бронирования не переносятся
		if !booking.CanBeUpdated() {
			uc.logger.Warn("RescheduleBooking: booking id=%d in status=%s cannot be rescheduled",
				req.BookingID, booking.Status)
			return ErrIllegalState
		}

		// 3.4. Новый интервал не должен пересекаться с другими активными
		// бронированиями покупателя (само бронирование исключается)
		overlapping, err := uc.bookingRepo.FindActiveOverlapping(txCtx, req.BuyerID, req.Date, req.StartTime, req.EndTime)
		if err != nil {
			uc.logger.Error("RescheduleBooking: failed to check buyer overlap: %v", err)
			return fmt.Errorf("%w: failed to check buyer overlap: %w", ErrInternal, err)
		}
		for _, other := range overlapping {
			if other.ID != booking.ID {
				uc.logger.Warn("RescheduleBooking: buyer=%d has overlapping booking id=%d", req.BuyerID, other.ID)
				return ErrSelfOverlap
			}
		}

		// 3.5. Освобождаем старый слот; новый claim сможет занять его же,
		// если новый интервал остаётся внутри старого слота
		if err := uc.slotRepo.Release(txCtx, booking.SlotID); err != nil {
			if errors.Is(err, slotRepo.ErrSlotNotFound) {
				uc.logger.Warn("RescheduleBooking: old slot id=%d no longer exists", booking.SlotID)
			} else {
				uc.logger.Error("RescheduleBooking: failed to release slot id=%d: %v", booking.SlotID, err)
				return fmt.Errorf("%w: failed to release old slot: %w", ErrInternal, err)
			}
		}

		// 3.6. Ищем доступный слот, покрывающий новый интервал
		slot, err := uc.slotRepo.FindCovering(txCtx, booking.OfferingID, req.Date, req.StartTime, req.EndTime)
		if err != nil {
			if errors.Is(err, slotRepo.ErrSlotNotFound) {
				uc.logger.Warn("RescheduleBooking: no covering slot for offering=%d %s %s-%s",
					booking.OfferingID, req.Date.Format(domain.DateFormat), req.StartTime, req.EndTime)
				return ErrSlotNotAvailable
			}
			uc.logger.Error("RescheduleBooking: failed to find covering slot: %v", err)
			return fmt.Errorf("%w: failed to find covering slot: %w", ErrInternal, err)
		}

		// 3.7. Занимаем новый слот
		if err := uc.slotRepo.Claim(txCtx, slot.ID); err != nil {
			if errors.Is(err, slotRepo.ErrSlotConflict) {
				uc.logger.Warn("RescheduleBooking: slot id=%d already claimed", slot.ID)
				return ErrSlotNotAvailable
			}
			uc.logger.Error("RescheduleBooking: failed to claim slot id=%d: %v", slot.ID, err)
			return fmt.Errorf("%w: failed to claim slot: %w", ErrInternal, err)
		}

		// 3.8. Обновляем расписание бронирования
		if err := uc.bookingRepo.UpdateSchedule(txCtx, booking.ID, slot.ID, req.Date, req.StartTime, req.EndTime); err != nil {
			uc.logger.Error("RescheduleBooking: failed to update schedule for booking id=%d: %v", booking.ID, err)
			return fmt.Errorf("%w: failed to update schedule: %w", ErrInternal, err)
		}

		result = booking
		newSlotID = slot.ID
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("RescheduleBooking: booking id=%d moved to slot=%d %s %s-%s",
		result.ID, newSlotID, req.Date.Format(domain.DateFormat), req.StartTime, req.EndTime)

	return &Response{
		ID:         result.ID,
		SlotID:     newSlotID,
		Date:       req.Date,
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
		TotalPrice: result.TotalPrice,
		Status:     string(result.Status),
	}, nil
}
