package process_gateway_event

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	paymentRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/payment"
	gateway "github.com/m04kA/SMC-ReservationService/internal/integrations/paygateway"
)

// UseCase use case обработки асинхронного события платёжного шлюза
//
// Порядок обработки:
//  1. проверка HMAC-подписи сырого тела (непрошедшие отбрасываются);
//  2. дедупликация по event_id вставкой в журнал внутри той же транзакции,
//     что и эффекты события, поэтому "обработано ровно один раз";
//  3. события известных видов применяются реконсилятором, неизвестные
//     фиксируются в журнале без эффектов.
//
// Ошибка обработки откатывает и журнальную запись: повторная доставка
// шлюзом попробует снова.
type UseCase struct {
	paymentRepo   PaymentRepository
	eventRepo     EventRepository
	reconciler    Reconciler
	txManager     TransactionManager
	webhookSecret string
	logger        Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	paymentRepo PaymentRepository,
	eventRepo EventRepository,
	reconciler Reconciler,
	txManager TransactionManager,
	webhookSecret string,
	logger Logger,
) *UseCase {
	return &UseCase{
		paymentRepo:   paymentRepo,
		eventRepo:     eventRepo,
		reconciler:    reconciler,
		txManager:     txManager,
		webhookSecret: webhookSecret,
		logger:        logger,
	}
}

// Execute выполняет use case обработки события
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Подпись проверяется до любого чтения тела
	if err := gateway.VerifySignature(req.Payload, req.Signature, uc.webhookSecret); err != nil {
		uc.logger.Warn("ProcessGatewayEvent: signature verification failed: %v", err)
		return nil, ErrInvalidSignature
	}

	event, err := gateway.ParseEvent(req.Payload)
	if err != nil {
		uc.logger.Warn("ProcessGatewayEvent: failed to parse event: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}

	if event.ID == "" || event.IntentID == "" {
		uc.logger.Warn("ProcessGatewayEvent: event without id or intent_id")
		return nil, fmt.Errorf("%w: missing id or intent_id", ErrInvalidPayload)
	}

	uc.logger.Info("ProcessGatewayEvent: event=%s kind=%s intent=%s", event.ID, event.Kind, event.IntentID)

	result := ResultApplied

	// 2. Дедупликация и эффекты в одной транзакции
	err = uc.txManager.Do(ctx, func(txCtx context.Context) error {
		applied, err := uc.eventRepo.MarkProcessed(txCtx, event.ID, event.IntentID, event.Kind)
		if err != nil {
			return fmt.Errorf("%w: failed to journal event: %w", ErrInternal, err)
		}
		if !applied {
			result = ResultDuplicate
			return nil
		}

		switch event.Kind {
		case gateway.EventIntentSucceeded, gateway.EventIntentFailed, gateway.EventChargeRefunded:
			return uc.dispatch(txCtx, event)
		default:
			// Неизвестный вид остаётся в журнале, чтобы повторные доставки
			// тоже игнорировались
			uc.logger.Warn("ProcessGatewayEvent: unknown event kind=%s, ignoring", event.Kind)
			result = ResultIgnored
			return nil
		}
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("ProcessGatewayEvent: event=%s result=%s", event.ID, result)
	return &Response{Result: result, EventID: event.ID, Kind: event.Kind}, nil
}

// dispatch применяет событие известного вида через реконсилятор
func (uc *UseCase) dispatch(ctx context.Context, event *gateway.Event) error {
	payment, err := uc.resolvePayment(ctx, event)
	if err != nil {
		return err
	}

	switch event.Kind {
	case gateway.EventIntentSucceeded:
		_, err = uc.reconciler.ApplyIntentSucceeded(ctx, payment.ID, payment.BookingID)

	case gateway.EventIntentFailed:
		_, err = uc.reconciler.ApplyIntentFailed(ctx, payment.ID, extractReason(event, "declined by gateway"))

	case gateway.EventChargeRefunded:
		_, err = uc.reconciler.ApplyRefund(ctx, payment.ID, payment.BookingID, extractReason(event, "refunded by gateway"))
	}
	if err != nil {
		return fmt.Errorf("%w: failed to apply event: %w", ErrInternal, err)
	}
	return nil
}

// resolvePayment находит платёж для события. Основной путь - по intent_id;
// если intent ещё не привязан (CreateIntent прошёл на стороне шлюза, но ответ
// до нас не дошёл), платёж восстанавливается по payment_id из метаданных
// intent и привязка выполняется здесь.
func (uc *UseCase) resolvePayment(ctx context.Context, event *gateway.Event) (*domain.Payment, error) {
	payment, err := uc.paymentRepo.GetByIntentID(ctx, event.IntentID)
	if err == nil {
		return payment, nil
	}
	if !errors.Is(err, paymentRepo.ErrPaymentNotFound) {
		return nil, fmt.Errorf("%w: failed to get payment: %w", ErrInternal, err)
	}

	paymentID, ok := paymentIDFromMetadata(event)
	if !ok {
		// intent мог ещё не сохраниться: откатываем журнал,
		// повторная доставка застанет платёж на месте
		uc.logger.Warn("ProcessGatewayEvent: no payment for intent=%s yet", event.IntentID)
		return nil, ErrPaymentNotFound
	}

	payment, err = uc.paymentRepo.GetByID(ctx, paymentID)
	if err != nil {
		if errors.Is(err, paymentRepo.ErrPaymentNotFound) {
			uc.logger.Warn("ProcessGatewayEvent: metadata payment_id=%d not found, intent=%s", paymentID, event.IntentID)
			return nil, ErrPaymentNotFound
		}
		return nil, fmt.Errorf("%w: failed to get payment: %w", ErrInternal, err)
	}

	if payment.GatewayIntentID != nil {
		// Платёж уже привязан к другому intent, метаданным не верим
		uc.logger.Warn("ProcessGatewayEvent: payment=%d already bound to another intent, event intent=%s", payment.ID, event.IntentID)
		return nil, ErrPaymentNotFound
	}

	if err := uc.paymentRepo.SetIntentID(ctx, payment.ID, event.IntentID); err != nil {
		return nil, fmt.Errorf("%w: failed to bind intent: %w", ErrInternal, err)
	}
	uc.logger.Info("ProcessGatewayEvent: recovered payment=%d by metadata, bound intent=%s", payment.ID, event.IntentID)
	return payment, nil
}

// paymentIDFromMetadata достаёт payment_id из метаданных события
func paymentIDFromMetadata(event *gateway.Event) (int64, bool) {
	raw, ok := event.Metadata["payment_id"]
	if !ok {
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// extractReason достаёт причину из данных события, если шлюз её прислал
func extractReason(event *gateway.Event, fallback string) string {
	if len(event.Data) == 0 {
		return fallback
	}
	var data struct {
		Reason string `json:"reason"`
	}
	if err := json.Unmarshal(event.Data, &data); err != nil || data.Reason == "" {
		return fallback
	}
	return data.Reason
}
