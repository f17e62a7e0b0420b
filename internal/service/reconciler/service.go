// Package reconciler применяет подтверждённое шлюзом состояние платежа
// к локальным Booking/Payment/Slot.
//
// Это единственное место, где эффекты платёжных событий переводятся в
// изменения локального состояния: webhook-обработчик и синхронный путь
// возврата вызывают одни и те же методы, поэтому их конечные состояния
// не могут разойтись.
//
// Все методы ожидают вызова внутри активной транзакции (executor в
// контексте): переходы статусов и освобождение слота фиксируются атомарно.
// Переходы выполнены guarded update'ами — повторное применение того же
// события не даёт второго эффекта.
package reconciler

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/booking"
	slotRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/slot"
)

// Service реконсилятор платёжных событий
type Service struct {
	bookingRepo BookingRepository
	paymentRepo PaymentRepository
	slotRepo    SlotRepository
	logger      Logger
}

// NewService создает новый экземпляр реконсилятора
func NewService(
	bookingRepo BookingRepository,
	paymentRepo PaymentRepository,
	slotRepo SlotRepository,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo: bookingRepo,
		paymentRepo: paymentRepo,
		slotRepo:    slotRepo,
		logger:      logger,
	}
}

// ApplyIntentSucceeded применяет успешное списание:
// Payment pending -> completed, Booking pending -> confirmed.
// Возвращает false, если платёж уже был выведен из pending (повторная доставка).
func (s *Service) ApplyIntentSucceeded(ctx context.Context, paymentID, bookingID int64) (bool, error) {
	applied, err := s.paymentRepo.MarkCompleted(ctx, paymentID)
	if err != nil {
		return false, fmt.Errorf("%w: ApplyIntentSucceeded - mark payment completed: %w", ErrInternal, err)
	}

	if !applied {
		s.logger.Info("ApplyIntentSucceeded: payment id=%d already left pending, skipping", paymentID)
		return false, nil
	}

	confirmed, err := s.bookingRepo.UpdateStatusIf(ctx, bookingID,
		[]domain.BookingStatus{domain.BookingStatusPending},
		domain.BookingStatusConfirmed,
	)
	if err != nil {
		return false, fmt.Errorf("%w: ApplyIntentSucceeded - confirm booking: %w", ErrInternal, err)
	}

	if !confirmed {
		// Бронирование уже подтверждено или отменено параллельным возвратом —
		// платёж всё равно зафиксирован как completed
		s.logger.Warn("ApplyIntentSucceeded: booking id=%d not in pending, payment id=%d completed anyway",
			bookingID, paymentID)
	}

	s.logger.Info("ApplyIntentSucceeded: payment id=%d completed, booking id=%d", paymentID, bookingID)
	return true, nil
}

// ApplyIntentFailed применяет неуспешное списание:
// Payment pending -> failed, Booking остаётся pending — покупатель может
// повторить оплату новым платежом.
func (s *Service) ApplyIntentFailed(ctx context.Context, paymentID int64, reason string) (bool, error) {
	applied, err := s.paymentRepo.MarkFailed(ctx, paymentID, reason)
	if err != nil {
		return false, fmt.Errorf("%w: ApplyIntentFailed - mark payment failed: %w", ErrInternal, err)
	}

	if !applied {
		s.logger.Info("ApplyIntentFailed: payment id=%d already left pending, skipping", paymentID)
		return false, nil
	}

	s.logger.Info("ApplyIntentFailed: payment id=%d failed: %s", paymentID, reason)
	return true, nil
}

// ApplyRefund применяет возврат средств:
// Payment {pending, completed} -> refunded, Booking {pending, confirmed} -> cancelled,
// слот освобождается. Единая точка для webhook-события charge.refunded и
// синхронного processRefund — оба пути сходятся к одному конечному состоянию.
func (s *Service) ApplyRefund(ctx context.Context, paymentID, bookingID int64, reason string) (bool, error) {
	applied, err := s.paymentRepo.MarkRefunded(ctx, paymentID, reason)
	if err != nil {
		return false, fmt.Errorf("%w: ApplyRefund - mark payment refunded: %w", ErrInternal, err)
	}

	if !applied {
		s.logger.Info("ApplyRefund: payment id=%d already in terminal status, skipping", paymentID)
		return false, nil
	}

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			return false, fmt.Errorf("%w: ApplyRefund - booking id=%d", ErrBookingNotFound, bookingID)
		}
		return false, fmt.Errorf("%w: ApplyRefund - get booking: %w", ErrInternal, err)
	}

	cancelled, err := s.bookingRepo.UpdateStatusIf(ctx, bookingID,
		[]domain.BookingStatus{domain.BookingStatusPending, domain.BookingStatusConfirmed},
		domain.BookingStatusCancelled,
	)
	if err != nil {
		return false, fmt.Errorf("%w: ApplyRefund - cancel booking: %w", ErrInternal, err)
	}

	if cancelled {
		s.releaseSlot(ctx, booking.SlotID, bookingID)
	} else {
		s.logger.Warn("ApplyRefund: booking id=%d not active, slot not released", bookingID)
	}

	s.logger.Info("ApplyRefund: payment id=%d refunded, booking id=%d cancelled=%t", paymentID, bookingID, cancelled)
	return true, nil
}

// releaseSlot освобождает слот бронирования
// Отсутствующий слот — допустимая несогласованность (оферта могла быть
// удалена из каталога), логируется и трактуется как no-op
func (s *Service) releaseSlot(ctx context.Context, slotID, bookingID int64) {
	if err := s.slotRepo.Release(ctx, slotID); err != nil {
		if errors.Is(err, slotRepo.ErrSlotNotFound) {
			s.logger.Warn("releaseSlot: slot id=%d for booking id=%d no longer exists, skipping", slotID, bookingID)
			return
		}
		s.logger.Error("releaseSlot: failed to release slot id=%d for booking id=%d: %v", slotID, bookingID, err)
	}
}
