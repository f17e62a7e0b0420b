package reconciler

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/booking"
	slotRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/slot"
)

type fakeBookingRepo struct {
	bookings map[int64]*domain.Booking
}

func (f *fakeBookingRepo) GetByID(_ context.Context, id int64) (*domain.Booking, error) {
	b, ok := f.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	return b, nil
}

func (f *fakeBookingRepo) UpdateStatusIf(_ context.Context, id int64, from []domain.BookingStatus, to domain.BookingStatus) (bool, error) {
	b, ok := f.bookings[id]
	if !ok {
		return false, nil
	}
	for _, st := range from {
		if b.Status == st {
			b.Status = to
			return true, nil
		}
	}
	return false, nil
}

type fakePaymentRepo struct {
	statuses map[int64]domain.PaymentStatus
}

func (f *fakePaymentRepo) transition(id int64, from []domain.PaymentStatus, to domain.PaymentStatus) (bool, error) {
	cur, ok := f.statuses[id]
	if !ok {
		return false, nil
	}
	for _, st := range from {
		if cur == st {
			f.statuses[id] = to
			return true, nil
		}
	}
	return false, nil
}

func (f *fakePaymentRepo) MarkCompleted(_ context.Context, id int64) (bool, error) {
	return f.transition(id, []domain.PaymentStatus{domain.PaymentStatusPending}, domain.PaymentStatusCompleted)
}

func (f *fakePaymentRepo) MarkFailed(_ context.Context, id int64, _ string) (bool, error) {
	return f.transition(id, []domain.PaymentStatus{domain.PaymentStatusPending}, domain.PaymentStatusFailed)
}

func (f *fakePaymentRepo) MarkRefunded(_ context.Context, id int64, _ string) (bool, error) {
	return f.transition(id,
		[]domain.PaymentStatus{domain.PaymentStatusPending, domain.PaymentStatusCompleted},
		domain.PaymentStatusRefunded,
	)
}

type fakeSlotRepo struct {
	available map[int64]bool
	missing   map[int64]bool
}

func (f *fakeSlotRepo) Release(_ context.Context, slotID int64) error {
	if f.missing[slotID] {
		return slotRepo.ErrSlotNotFound
	}
	f.available[slotID] = true
	return nil
}

type noopLogger struct{}

func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}

func newFixture(bookingStatus domain.BookingStatus, paymentStatus domain.PaymentStatus) (*Service, *fakeBookingRepo, *fakePaymentRepo, *fakeSlotRepo) {
	bookings := &fakeBookingRepo{bookings: map[int64]*domain.Booking{
		10: {ID: 10, SlotID: 100, Status: bookingStatus},
	}}
	payments := &fakePaymentRepo{statuses: map[int64]domain.PaymentStatus{
		1: paymentStatus,
	}}
	slots := &fakeSlotRepo{available: map[int64]bool{}, missing: map[int64]bool{}}
	return NewService(bookings, payments, slots, noopLogger{}), bookings, payments, slots
}

func TestService_ApplyIntentSucceeded(t *testing.T) {
	svc, bookings, payments, _ := newFixture(domain.BookingStatusPending, domain.PaymentStatusPending)

	applied, err := svc.ApplyIntentSucceeded(context.Background(), 1, 10)
	require.NoError(t, err)
	assert.True(t, applied)
	assert.Equal(t, domain.PaymentStatusCompleted, payments.statuses[1])
	assert.Equal(t, domain.BookingStatusConfirmed, bookings.bookings[10].Status)
}

func TestService_ApplyIntentSucceeded_Redelivery(t *testing.T) {
	svc, bookings, payments, _ := newFixture(domain.BookingStatusPending, domain.PaymentStatusPending)

	ctx := context.Background()
	applied, err := svc.ApplyIntentSucceeded(ctx, 1, 10)
	require.NoError(t, err)
	require.True(t, applied)

	// Повторная доставка того же события не меняет конечное состояние
	applied, err = svc.ApplyIntentSucceeded(ctx, 1, 10)
	require.NoError(t, err)
	assert.False(t, applied)
	assert.Equal(t, domain.PaymentStatusCompleted, payments.statuses[1])
	assert.Equal(t, domain.BookingStatusConfirmed, bookings.bookings[10].Status)
}

func TestService_ApplyIntentFailed(t *testing.T) {
	svc, bookings, payments, _ := newFixture(domain.BookingStatusPending, domain.PaymentStatusPending)

	applied, err := svc.ApplyIntentFailed(context.Background(), 1, "card declined")
	require.NoError(t, err)
	assert.True(t, applied)
	assert.Equal(t, domain.PaymentStatusFailed, payments.statuses[1])
	// Бронирование остается pending, покупатель может оплатить повторно
	assert.Equal(t, domain.BookingStatusPending, bookings.bookings[10].Status)
}

func TestService_ApplyIntentFailed_AfterSuccess(t *testing.T) {
	svc, _, payments, _ := newFixture(domain.BookingStatusConfirmed, domain.PaymentStatusCompleted)

	applied, err := svc.ApplyIntentFailed(context.Background(), 1, "late failure")
	require.NoError(t, err)
	assert.False(t, applied)
	assert.Equal(t, domain.PaymentStatusCompleted, payments.statuses[1])
}

func TestService_ApplyRefund(t *testing.T) {
	svc, bookings, payments, slots := newFixture(domain.BookingStatusConfirmed, domain.PaymentStatusCompleted)

	applied, err := svc.ApplyRefund(context.Background(), 1, 10, "customer request")
	require.NoError(t, err)
	assert.True(t, applied)
	assert.Equal(t, domain.PaymentStatusRefunded, payments.statuses[1])
	assert.Equal(t, domain.BookingStatusCancelled, bookings.bookings[10].Status)
	assert.True(t, slots.available[100])
}

func TestService_ApplyRefund_Idempotent(t *testing.T) {
	svc, bookings, payments, _ := newFixture(domain.BookingStatusConfirmed, domain.PaymentStatusCompleted)

	ctx := context.Background()
	applied, err := svc.ApplyRefund(ctx, 1, 10, "first")
	require.NoError(t, err)
	require.True(t, applied)

	applied, err = svc.ApplyRefund(ctx, 1, 10, "second")
	require.NoError(t, err)
	assert.False(t, applied)
	assert.Equal(t, domain.PaymentStatusRefunded, payments.statuses[1])
	assert.Equal(t, domain.BookingStatusCancelled, bookings.bookings[10].Status)
}

func TestService_ApplyRefund_MissingSlotTolerated(t *testing.T) {
	svc, bookings, payments, slots := newFixture(domain.BookingStatusConfirmed, domain.PaymentStatusCompleted)
	slots.missing[100] = true

	applied, err := svc.ApplyRefund(context.Background(), 1, 10, "offering removed")
	require.NoError(t, err)
	assert.True(t, applied)
	assert.Equal(t, domain.PaymentStatusRefunded, payments.statuses[1])
	assert.Equal(t, domain.BookingStatusCancelled, bookings.bookings[10].Status)
}

func TestService_ApplyRefund_BookingGone(t *testing.T) {
	svc, bookings, _, _ := newFixture(domain.BookingStatusConfirmed, domain.PaymentStatusCompleted)
	delete(bookings.bookings, 10)

	_, err := svc.ApplyRefund(context.Background(), 1, 10, "orphan")
	assert.ErrorIs(t, err, ErrBookingNotFound)
}
