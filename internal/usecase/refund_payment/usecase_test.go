package refund_payment

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	paymentRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/payment"
	gateway "github.com/m04kA/SMC-ReservationService/internal/integrations/paygateway"
	"github.com/m04kA/SMC-ReservationService/pkg/ptr"
)

type fakePaymentRepo struct {
	payments map[int64]*domain.Payment
}

func (f *fakePaymentRepo) GetByID(_ context.Context, id int64) (*domain.Payment, error) {
	p, ok := f.payments[id]
	if !ok {
		return nil, paymentRepo.ErrPaymentNotFound
	}
	return p, nil
}

type fakeReconciler struct {
	payments *fakePaymentRepo
	applied  int
}

func (f *fakeReconciler) ApplyRefund(_ context.Context, paymentID, _ int64, reason string) (bool, error) {
	p := f.payments.payments[paymentID]
	if p.Status != domain.PaymentStatusPending && p.Status != domain.PaymentStatusCompleted {
		return false, nil
	}
	p.Status = domain.PaymentStatusRefunded
	p.RefundReason = &reason
	f.applied++
	return true, nil
}

type fakeGateway struct {
	refund   *gateway.Refund
	err      error
	requests []gateway.CreateRefundRequest
}

func (f *fakeGateway) CreateRefund(_ context.Context, req gateway.CreateRefundRequest) (*gateway.Refund, error) {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return nil, f.err
	}
	return f.refund, nil
}

type fakeTxManager struct{}

func (fakeTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type noopLogger struct{}

func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}

func newFixture(status domain.PaymentStatus) (*UseCase, *fakePaymentRepo, *fakeGateway) {
	payments := &fakePaymentRepo{payments: map[int64]*domain.Payment{
		1: {
			ID: 1, BookingID: 10, BuyerID: 1, ProviderID: 2,
			Amount: decimal.RequireFromString("1500.50"), Currency: "RUB",
			Status:          status,
			GatewayIntentID: ptr.Ptr("pi_1"),
		},
	}}
	gw := &fakeGateway{refund: &gateway.Refund{ID: "re_1", IntentID: "pi_1", Status: gateway.StatusSucceeded}}
	uc := NewUseCase(payments, &fakeReconciler{payments: payments}, gw, fakeTxManager{}, noopLogger{})
	return uc, payments, gw
}

func buyerActor() domain.Actor {
	return domain.Actor{UserID: 1, Role: domain.RoleBuyer}
}

func TestUseCase_Execute(t *testing.T) {
	uc, payments, gw := newFixture(domain.PaymentStatusCompleted)

	resp, err := uc.Execute(context.Background(), &Request{
		PaymentID: 1, Actor: buyerActor(), Reason: "plans changed",
	})
	require.NoError(t, err)

	assert.Equal(t, "refunded", resp.Status)
	assert.Equal(t, "re_1", resp.RefundID)
	assert.Equal(t, domain.PaymentStatusRefunded, payments.payments[1].Status)

	require.Len(t, gw.requests, 1)
	assert.Equal(t, "pi_1", gw.requests[0].IntentID)
	assert.Equal(t, int64(150050), gw.requests[0].AmountMinor)
}

func TestUseCase_Execute_AccessByRole(t *testing.T) {
	tests := []struct {
		name    string
		actor   domain.Actor
		wantErr error
	}{
		{"buyer owner", domain.Actor{UserID: 1, Role: domain.RoleBuyer}, nil},
		{"provider owner", domain.Actor{UserID: 2, Role: domain.RoleProvider}, nil},
		{"admin", domain.Actor{UserID: 99, Role: domain.RoleAdmin}, nil},
		{"foreign buyer", domain.Actor{UserID: 42, Role: domain.RoleBuyer}, ErrAccessDenied},
		{"foreign provider", domain.Actor{UserID: 42, Role: domain.RoleProvider}, ErrAccessDenied},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc, _, _ := newFixture(domain.PaymentStatusCompleted)
			_, err := uc.Execute(context.Background(), &Request{PaymentID: 1, Actor: tt.actor})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestUseCase_Execute_NotRefundable(t *testing.T) {
	for _, status := range []domain.PaymentStatus{
		domain.PaymentStatusPending,
		domain.PaymentStatusFailed,
		domain.PaymentStatusRefunded,
	} {
		t.Run(string(status), func(t *testing.T) {
			uc, _, gw := newFixture(status)
			_, err := uc.Execute(context.Background(), &Request{PaymentID: 1, Actor: buyerActor()})
			assert.ErrorIs(t, err, ErrNotRefundable)
			assert.Empty(t, gw.requests)
		})
	}
}

func TestUseCase_Execute_GatewayFailure(t *testing.T) {
	uc, payments, gw := newFixture(domain.PaymentStatusCompleted)
	gw.err = gateway.ErrGatewayUnavailable
	gw.refund = nil

	_, err := uc.Execute(context.Background(), &Request{PaymentID: 1, Actor: buyerActor()})
	assert.ErrorIs(t, err, ErrGatewayError)
	// Локальное состояние не тронуто
	assert.Equal(t, domain.PaymentStatusCompleted, payments.payments[1].Status)
}

func TestUseCase_Execute_NotFound(t *testing.T) {
	uc, _, _ := newFixture(domain.PaymentStatusCompleted)

	_, err := uc.Execute(context.Background(), &Request{PaymentID: 404, Actor: buyerActor()})
	assert.ErrorIs(t, err, ErrPaymentNotFound)
}
