package process_gateway_event

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	paymentRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/payment"
	gateway "github.com/m04kA/SMC-ReservationService/internal/integrations/paygateway"
)

const testSecret = "whsec_test"

type fakePaymentRepo struct {
	payments map[int64]*domain.Payment
}

func (f *fakePaymentRepo) GetByIntentID(_ context.Context, intentID string) (*domain.Payment, error) {
	for _, p := range f.payments {
		if p.GatewayIntentID != nil && *p.GatewayIntentID == intentID {
			return p, nil
		}
	}
	return nil, paymentRepo.ErrPaymentNotFound
}

func (f *fakePaymentRepo) GetByID(_ context.Context, id int64) (*domain.Payment, error) {
	p, ok := f.payments[id]
	if !ok {
		return nil, paymentRepo.ErrPaymentNotFound
	}
	return p, nil
}

func (f *fakePaymentRepo) SetIntentID(_ context.Context, id int64, intentID string) error {
	p, ok := f.payments[id]
	if !ok {
		return paymentRepo.ErrPaymentNotFound
	}
	p.GatewayIntentID = &intentID
	return nil
}

type fakeEventRepo struct {
	processed map[string]bool
}

func (f *fakeEventRepo) MarkProcessed(_ context.Context, eventID, _, _ string) (bool, error) {
	if f.processed[eventID] {
		return false, nil
	}
	f.processed[eventID] = true
	return true, nil
}

type reconcilerCall struct {
	method    string
	paymentID int64
	reason    string
}

type fakeReconciler struct {
	calls []reconcilerCall
}

func (f *fakeReconciler) ApplyIntentSucceeded(_ context.Context, paymentID, _ int64) (bool, error) {
	f.calls = append(f.calls, reconcilerCall{method: "succeeded", paymentID: paymentID})
	return true, nil
}

func (f *fakeReconciler) ApplyIntentFailed(_ context.Context, paymentID int64, reason string) (bool, error) {
	f.calls = append(f.calls, reconcilerCall{method: "failed", paymentID: paymentID, reason: reason})
	return true, nil
}

func (f *fakeReconciler) ApplyRefund(_ context.Context, paymentID, _ int64, reason string) (bool, error) {
	f.calls = append(f.calls, reconcilerCall{method: "refunded", paymentID: paymentID, reason: reason})
	return true, nil
}

type fakeTxManager struct{}

func (fakeTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type noopLogger struct{}

func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}

func newFixture() (*UseCase, *fakePaymentRepo, *fakeEventRepo, *fakeReconciler) {
	intentID := "pi_1"
	payments := &fakePaymentRepo{payments: map[int64]*domain.Payment{
		1: {ID: 1, BookingID: 10, Status: domain.PaymentStatusPending, GatewayIntentID: &intentID},
	}}
	events := &fakeEventRepo{processed: map[string]bool{}}
	rec := &fakeReconciler{}
	uc := NewUseCase(payments, events, rec, fakeTxManager{}, testSecret, noopLogger{})
	return uc, payments, events, rec
}

func signedRequest(t *testing.T, event gateway.Event) *Request {
	payload, err := json.Marshal(event)
	require.NoError(t, err)
	return &Request{
		Payload:   payload,
		Signature: gateway.ComputeSignature(payload, testSecret),
	}
}

func TestUseCase_Execute_IntentSucceeded(t *testing.T) {
	uc, _, _, rec := newFixture()

	resp, err := uc.Execute(context.Background(), signedRequest(t, gateway.Event{
		ID: "evt_1", Kind: gateway.EventIntentSucceeded, IntentID: "pi_1",
	}))
	require.NoError(t, err)

	assert.Equal(t, ResultApplied, resp.Result)
	require.Len(t, rec.calls, 1)
	assert.Equal(t, "succeeded", rec.calls[0].method)
	assert.Equal(t, int64(1), rec.calls[0].paymentID)
}

func TestUseCase_Execute_DuplicateDelivery(t *testing.T) {
	uc, _, _, rec := newFixture()
	ctx := context.Background()
	req := signedRequest(t, gateway.Event{
		ID: "evt_1", Kind: gateway.EventIntentSucceeded, IntentID: "pi_1",
	})

	resp, err := uc.Execute(ctx, req)
	require.NoError(t, err)
	require.Equal(t, ResultApplied, resp.Result)

	resp, err = uc.Execute(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, ResultDuplicate, resp.Result)
	// Эффект применён ровно один раз
	assert.Len(t, rec.calls, 1)
}

func TestUseCase_Execute_RefundReason(t *testing.T) {
	uc, _, _, rec := newFixture()

	resp, err := uc.Execute(context.Background(), signedRequest(t, gateway.Event{
		ID: "evt_2", Kind: gateway.EventChargeRefunded, IntentID: "pi_1",
		Data: json.RawMessage(`{"reason":"customer dispute"}`),
	}))
	require.NoError(t, err)

	assert.Equal(t, ResultApplied, resp.Result)
	require.Len(t, rec.calls, 1)
	assert.Equal(t, "refunded", rec.calls[0].method)
	assert.Equal(t, "customer dispute", rec.calls[0].reason)
}

func TestUseCase_Execute_UnknownKindIgnored(t *testing.T) {
	uc, _, events, rec := newFixture()

	resp, err := uc.Execute(context.Background(), signedRequest(t, gateway.Event{
		ID: "evt_3", Kind: "customer.created", IntentID: "pi_1",
	}))
	require.NoError(t, err)

	assert.Equal(t, ResultIgnored, resp.Result)
	assert.Empty(t, rec.calls)
	// Событие зафиксировано: повторная доставка будет дубликатом
	assert.True(t, events.processed["evt_3"])
}

func TestUseCase_Execute_InvalidSignature(t *testing.T) {
	uc, _, events, rec := newFixture()

	payload, err := json.Marshal(gateway.Event{
		ID: "evt_4", Kind: gateway.EventIntentSucceeded, IntentID: "pi_1",
	})
	require.NoError(t, err)

	_, err = uc.Execute(context.Background(), &Request{
		Payload:   payload,
		Signature: gateway.ComputeSignature(payload, "wrong_secret"),
	})
	assert.ErrorIs(t, err, ErrInvalidSignature)
	assert.Empty(t, rec.calls)
	assert.Empty(t, events.processed)
}

func TestUseCase_Execute_TamperedPayload(t *testing.T) {
	uc, _, _, _ := newFixture()

	payload, err := json.Marshal(gateway.Event{
		ID: "evt_5", Kind: gateway.EventIntentSucceeded, IntentID: "pi_1",
	})
	require.NoError(t, err)
	signature := gateway.ComputeSignature(payload, testSecret)

	tampered := append([]byte{}, payload...)
	tampered[len(tampered)-2] = 'X'

	_, err = uc.Execute(context.Background(), &Request{Payload: tampered, Signature: signature})
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestUseCase_Execute_UnknownIntentRetriable(t *testing.T) {
	uc, _, _, _ := newFixture()

	_, err := uc.Execute(context.Background(), signedRequest(t, gateway.Event{
		ID: "evt_6", Kind: gateway.EventIntentSucceeded, IntentID: "pi_unknown",
	}))
	assert.ErrorIs(t, err, ErrPaymentNotFound)
}

func TestUseCase_Execute_RecoversUnboundPaymentByMetadata(t *testing.T) {
	uc, payments, _, rec := newFixture()
	// Платёж без intent: ответ CreateIntent до сервиса не дошёл
	payments.payments[2] = &domain.Payment{ID: 2, BookingID: 20, Status: domain.PaymentStatusPending}

	resp, err := uc.Execute(context.Background(), signedRequest(t, gateway.Event{
		ID: "evt_7", Kind: gateway.EventIntentSucceeded, IntentID: "pi_lost",
		Metadata: map[string]string{"booking_id": "20", "payment_id": "2"},
	}))
	require.NoError(t, err)

	assert.Equal(t, ResultApplied, resp.Result)
	require.Len(t, rec.calls, 1)
	assert.Equal(t, "succeeded", rec.calls[0].method)
	assert.Equal(t, int64(2), rec.calls[0].paymentID)
	// intent привязан: следующие события находят платёж напрямую
	require.NotNil(t, payments.payments[2].GatewayIntentID)
	assert.Equal(t, "pi_lost", *payments.payments[2].GatewayIntentID)
}

func TestUseCase_Execute_MetadataIgnoredWhenPaymentBoundElsewhere(t *testing.T) {
	uc, payments, _, rec := newFixture()

	_, err := uc.Execute(context.Background(), signedRequest(t, gateway.Event{
		ID: "evt_8", Kind: gateway.EventIntentSucceeded, IntentID: "pi_other",
		Metadata: map[string]string{"payment_id": "1"},
	}))

	assert.ErrorIs(t, err, ErrPaymentNotFound)
	assert.Empty(t, rec.calls)
	assert.Equal(t, "pi_1", *payments.payments[1].GatewayIntentID)
}

func TestUseCase_Execute_MetadataWithUnknownPaymentRetriable(t *testing.T) {
	uc, _, _, rec := newFixture()

	_, err := uc.Execute(context.Background(), signedRequest(t, gateway.Event{
		ID: "evt_9", Kind: gateway.EventIntentSucceeded, IntentID: "pi_lost",
		Metadata: map[string]string{"payment_id": "999"},
	}))

	assert.ErrorIs(t, err, ErrPaymentNotFound)
	assert.Empty(t, rec.calls)
}

func TestUseCase_Execute_MalformedPayload(t *testing.T) {
	uc, _, _, _ := newFixture()

	payload := []byte("not json")
	_, err := uc.Execute(context.Background(), &Request{
		Payload:   payload,
		Signature: gateway.ComputeSignature(payload, testSecret),
	})
	assert.ErrorIs(t, err, ErrInvalidPayload)
}
