package initiate_payment

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/booking"
	catalogClient "github.com/m04kA/SMC-ReservationService/internal/integrations/catalogservice"
	gateway "github.com/m04kA/SMC-ReservationService/internal/integrations/paygateway"
	"github.com/m04kA/SMC-ReservationService/pkg/money"
)

// UseCase use case для оплаты бронирования
//
// Платёж создаётся в статусе pending до обращения к шлюзу. Синхронный ответ
// succeeded/failed применяется реконсилятором сразу; при недоступности шлюза
// платёж остаётся pending, и итог определит webhook-событие. Ключ
// идемпотентности гарантирует, что повтор запроса к шлюзу не создаст второе
// списание.
type UseCase struct {
	bookingRepo   BookingRepository
	paymentRepo   PaymentRepository
	reconciler    Reconciler
	gatewayClient PaymentGatewayClient
	catalogClient CatalogServiceClient
	txManager     TransactionManager
	logger        Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	paymentRepo PaymentRepository,
	reconciler Reconciler,
	gatewayClient PaymentGatewayClient,
	catalogClient CatalogServiceClient,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:   bookingRepo,
		paymentRepo:   paymentRepo,
		reconciler:    reconciler,
		gatewayClient: gatewayClient,
		catalogClient: catalogClient,
		txManager:     txManager,
		logger:        logger,
	}
}

// Execute выполняет use case оплаты бронирования
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("InitiatePayment: booking=%d, buyer=%d", req.BookingID, req.BuyerID)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("InitiatePayment: validation failed: %v", err)
		return nil, err
	}

	// 2. Узнаём валюту оферты до открытия транзакции
	currency, err := uc.resolveCurrency(ctx, req.BookingID)
	if err != nil {
		return nil, err
	}

	var payment *domain.Payment

	// 3. Создаем платёж в статусе pending
	// Проверка дубликата и вставка выполняются в одной транзакции:
	// бронирование блокируется FOR UPDATE, второй конкурентный запрос
	// увидит уже созданный платёж
	err = uc.txManager.Do(ctx, func(txCtx context.Context) error {
		booking, err := uc.bookingRepo.GetByID(txCtx, req.BookingID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			uc.logger.Error("InitiatePayment: failed to get booking id=%d: %v", req.BookingID, err)
			return fmt.Errorf("%w: failed to get booking: %w", ErrInternal, err)
		}

		if booking.BuyerID != req.BuyerID {
			uc.logger.Warn("InitiatePayment: buyer=%d is not the owner of booking id=%d", req.BuyerID, req.BookingID)
			return ErrAccessDenied
		}

		if !booking.IsActive() {
			uc.logger.Warn("InitiatePayment: booking id=%d in status=%s does not accept payment",
				req.BookingID, booking.Status)
			return ErrIllegalState
		}

		blocked, err := uc.paymentRepo.ExistsBlockingForBooking(txCtx, req.BookingID)
		if err != nil {
			uc.logger.Error("InitiatePayment: failed to check existing payments: %v", err)
			return fmt.Errorf("%w: failed to check existing payments: %w", ErrInternal, err)
		}
		if blocked {
			uc.logger.Warn("InitiatePayment: booking id=%d already has an active payment", req.BookingID)
			return ErrDuplicatePayment
		}

		created, err := uc.paymentRepo.Create(txCtx, &domain.Payment{
			BookingID:      booking.ID,
			BuyerID:        booking.BuyerID,
			ProviderID:     booking.ProviderID,
			Amount:         booking.TotalPrice,
			Currency:       currency,
			Status:         domain.PaymentStatusPending,
			IdempotencyKey: uuid.NewString(),
		})
		if err != nil {
			uc.logger.Error("InitiatePayment: failed to create payment: %v", err)
			return fmt.Errorf("%w: failed to create payment: %w", ErrInternal, err)
		}

		payment = created
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("InitiatePayment: created payment id=%d for booking=%d, amount=%s %s",
		payment.ID, payment.BookingID, payment.Amount, payment.Currency)

	// 4. Обращаемся к шлюзу за пределами транзакции
	amountMinor, err := money.ToMinorUnits(payment.Amount)
	if err != nil {
		uc.logger.Error("InitiatePayment: amount %s is not convertible to minor units: %v", payment.Amount, err)
		return nil, fmt.Errorf("%w: amount conversion: %w", ErrInternal, err)
	}

	intent, err := uc.gatewayClient.CreateIntent(ctx, gateway.CreateIntentRequest{
		AmountMinor:    amountMinor,
		Currency:       payment.Currency,
		IdempotencyKey: payment.IdempotencyKey,
		Metadata: map[string]string{
			"booking_id": strconv.FormatInt(payment.BookingID, 10),
			"payment_id": strconv.FormatInt(payment.ID, 10),
		},
	})
	if err != nil {
		return uc.handleGatewayError(ctx, payment, err)
	}

	// 5. Применяем синхронный ответ шлюза
	return uc.applyIntent(ctx, payment, intent)
}

// handleGatewayError обрабатывает ошибку обращения к шлюзу
// Отказ шлюза (4xx) фиксируется как failed; при недоступности платёж
// остаётся pending, итог принесёт webhook
func (uc *UseCase) handleGatewayError(ctx context.Context, payment *domain.Payment, gwErr error) (*Response, error) {
	if errors.Is(gwErr, gateway.ErrDeclined) {
		uc.logger.Warn("InitiatePayment: gateway declined payment id=%d: %v", payment.ID, gwErr)

		reason := gwErr.Error()
		err := uc.txManager.Do(ctx, func(txCtx context.Context) error {
			_, err := uc.reconciler.ApplyIntentFailed(txCtx, payment.ID, reason)
			return err
		})
		if err != nil {
			uc.logger.Error("InitiatePayment: failed to mark payment id=%d failed: %v", payment.ID, err)
			return nil, fmt.Errorf("%w: failed to apply decline: %w", ErrInternal, err)
		}

		return uc.response(payment, string(domain.PaymentStatusFailed), nil, &reason), nil
	}

	uc.logger.Error("InitiatePayment: gateway unavailable for payment id=%d: %v", payment.ID, gwErr)
	return nil, fmt.Errorf("%w: %v", ErrGatewayError, gwErr)
}

// applyIntent сохраняет intent и применяет его синхронный статус
func (uc *UseCase) applyIntent(ctx context.Context, payment *domain.Payment, intent *gateway.Intent) (*Response, error) {
	status := domain.PaymentStatusPending
	var failureReason *string

	err := uc.txManager.Do(ctx, func(txCtx context.Context) error {
		if err := uc.paymentRepo.SetIntentID(txCtx, payment.ID, intent.ID); err != nil {
			return fmt.Errorf("%w: failed to store intent id: %w", ErrInternal, err)
		}

		switch intent.Status {
		case gateway.StatusSucceeded:
			if _, err := uc.reconciler.ApplyIntentSucceeded(txCtx, payment.ID, payment.BookingID); err != nil {
				return fmt.Errorf("%w: failed to apply success: %w", ErrInternal, err)
			}
			status = domain.PaymentStatusCompleted

		case gateway.StatusFailed:
			reason := intent.FailureReason
			if reason == "" {
				reason = "declined by gateway"
			}
			if _, err := uc.reconciler.ApplyIntentFailed(txCtx, payment.ID, reason); err != nil {
				return fmt.Errorf("%w: failed to apply failure: %w", ErrInternal, err)
			}
			status = domain.PaymentStatusFailed
			failureReason = &reason

		case gateway.StatusProcessing:
			// Платёж остаётся pending, итог принесёт webhook
		}
		return nil
	})
	if err != nil {
		uc.logger.Error("InitiatePayment: failed to apply intent for payment id=%d: %v", payment.ID, err)
		return nil, err
	}

	uc.logger.Info("InitiatePayment: payment id=%d intent=%s status=%s", payment.ID, intent.ID, status)
	return uc.response(payment, string(status), &intent.ID, failureReason), nil
}

func (uc *UseCase) response(payment *domain.Payment, status string, intentID, failureReason *string) *Response {
	return &Response{
		PaymentID:       payment.ID,
		BookingID:       payment.BookingID,
		Amount:          payment.Amount,
		Currency:        payment.Currency,
		Status:          status,
		GatewayIntentID: intentID,
		FailureReason:   failureReason,
	}
}

// resolveCurrency получает валюту оферты бронирования из каталога
func (uc *UseCase) resolveCurrency(ctx context.Context, bookingID int64) (string, error) {
	booking, err := uc.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			uc.logger.Warn("InitiatePayment: booking id=%d not found", bookingID)
			return "", ErrBookingNotFound
		}
		uc.logger.Error("InitiatePayment: failed to get booking id=%d: %v", bookingID, err)
		return "", fmt.Errorf("%w: failed to get booking: %w", ErrInternal, err)
	}

	offering, err := uc.catalogClient.GetOffering(ctx, booking.OfferingID)
	if err != nil {
		if errors.Is(err, catalogClient.ErrOfferingNotFound) {
			uc.logger.Warn("InitiatePayment: offering id=%d not found", booking.OfferingID)
			return "", ErrOfferingNotFound
		}
		uc.logger.Error("InitiatePayment: failed to get offering id=%d: %v", booking.OfferingID, err)
		return "", fmt.Errorf("%w: failed to get offering: %w", ErrInternal, err)
	}

	return offering.Currency, nil
}
