package refund_payment

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	paymentRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/payment"
	gateway "github.com/m04kA/SMC-ReservationService/internal/integrations/paygateway"
	"github.com/m04kA/SMC-ReservationService/pkg/money"
)

// UseCase use case для возврата платежа
//
// Сначала возврат подтверждает шлюз, затем локальное состояние применяет
// тот же реконсилятор, что обрабатывает webhook charge.refunded: оба пути
// сходятся к одному конечному состоянию, а повторная доставка события
// после синхронного возврата оказывается no-op.
type UseCase struct {
	paymentRepo   PaymentRepository
	reconciler    Reconciler
	gatewayClient PaymentGatewayClient
	txManager     TransactionManager
	logger        Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	paymentRepo PaymentRepository,
	reconciler Reconciler,
	gatewayClient PaymentGatewayClient,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		paymentRepo:   paymentRepo,
		reconciler:    reconciler,
		gatewayClient: gatewayClient,
		txManager:     txManager,
		logger:        logger,
	}
}

// Execute выполняет use case возврата платежа
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("RefundPayment: payment=%d, user=%d role=%s", req.PaymentID, req.Actor.UserID, req.Actor.Role)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("RefundPayment: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем платёж
	payment, err := uc.paymentRepo.GetByID(ctx, req.PaymentID)
	if err != nil {
		if errors.Is(err, paymentRepo.ErrPaymentNotFound) {
			uc.logger.Warn("RefundPayment: payment id=%d not found", req.PaymentID)
			return nil, ErrPaymentNotFound
		}
		uc.logger.Error("RefundPayment: failed to get payment id=%d: %v", req.PaymentID, err)
		return nil, fmt.Errorf("%w: failed to get payment: %w", ErrInternal, err)
	}

	// 3. Возврат доступен покупателю, провайдеру и администратору
	if !canRefund(payment, req.Actor) {
		uc.logger.Warn("RefundPayment: access denied for user=%d to payment id=%d", req.Actor.UserID, req.PaymentID)
		return nil, ErrAccessDenied
	}

	// 4. Вернуть можно только завершённый платёж
	if !payment.CanBeRefunded() {
		uc.logger.Warn("RefundPayment: payment id=%d in status=%s is not refundable", req.PaymentID, payment.Status)
		return nil, ErrNotRefundable
	}

	if payment.GatewayIntentID == nil {
		uc.logger.Error("RefundPayment: completed payment id=%d has no gateway intent", req.PaymentID)
		return nil, fmt.Errorf("%w: completed payment without intent", ErrInternal)
	}

	// 5. Шлюз подтверждает возврат до изменения локального состояния
	amountMinor, err := money.ToMinorUnits(payment.Amount)
	if err != nil {
		uc.logger.Error("RefundPayment: amount %s is not convertible to minor units: %v", payment.Amount, err)
		return nil, fmt.Errorf("%w: amount conversion: %w", ErrInternal, err)
	}

	refund, err := uc.gatewayClient.CreateRefund(ctx, gateway.CreateRefundRequest{
		IntentID:    *payment.GatewayIntentID,
		AmountMinor: amountMinor,
		Reason:      req.Reason,
	})
	if err != nil {
		uc.logger.Error("RefundPayment: gateway refund failed for payment id=%d: %v", req.PaymentID, err)
		return nil, fmt.Errorf("%w: %v", ErrGatewayError, err)
	}

	// 6. Применяем тот же маршрут, что и webhook charge.refunded
	err = uc.txManager.Do(ctx, func(txCtx context.Context) error {
		_, err := uc.reconciler.ApplyRefund(txCtx, payment.ID, payment.BookingID, req.Reason)
		return err
	})
	if err != nil {
		uc.logger.Error("RefundPayment: failed to apply refund for payment id=%d: %v", req.PaymentID, err)
		return nil, fmt.Errorf("%w: failed to apply refund: %w", ErrInternal, err)
	}

	uc.logger.Info("RefundPayment: payment id=%d refunded, gateway refund=%s", payment.ID, refund.ID)

	return &Response{
		PaymentID: payment.ID,
		BookingID: payment.BookingID,
		Amount:    payment.Amount,
		Currency:  payment.Currency,
		Status:    string(domain.PaymentStatusRefunded),
		RefundID:  refund.ID,
	}, nil
}

// canRefund проверяет право инициатора на возврат платежа
func canRefund(p *domain.Payment, actor domain.Actor) bool {
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
