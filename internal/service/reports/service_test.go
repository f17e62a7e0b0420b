package reports

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/booking"
	paymentRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/payment"
)

type fakeBookingRepo struct {
	counts []bookingRepo.StatusCount
}

func (f *fakeBookingRepo) CountByStatusForProvider(_ context.Context, _ int64) ([]bookingRepo.StatusCount, error) {
	return f.counts, nil
}

func (f *fakeBookingRepo) CountByStatusForBuyer(_ context.Context, _ int64) ([]bookingRepo.StatusCount, error) {
	return f.counts, nil
}

type fakePaymentRepo struct {
	totals []paymentRepo.StatusTotal
}

func (f *fakePaymentRepo) TotalsByStatusForProvider(_ context.Context, _ int64) ([]paymentRepo.StatusTotal, error) {
	return f.totals, nil
}

func (f *fakePaymentRepo) TotalsByStatusForBuyer(_ context.Context, _ int64) ([]paymentRepo.StatusTotal, error) {
	return f.totals, nil
}

type noopLogger struct{}

func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}

func TestService_GetProviderStats(t *testing.T) {
	svc := NewService(
		&fakeBookingRepo{counts: []bookingRepo.StatusCount{
			{Status: domain.BookingStatusConfirmed, Count: 3},
			{Status: domain.BookingStatusCancelled, Count: 1},
		}},
		&fakePaymentRepo{totals: []paymentRepo.StatusTotal{
			{Status: domain.PaymentStatusCompleted, Count: 3, Sum: decimal.RequireFromString("4500.00")},
			{Status: domain.PaymentStatusRefunded, Count: 1, Sum: decimal.RequireFromString("1500.00")},
		}},
		noopLogger{},
	)

	resp, err := svc.GetProviderStats(context.Background(), 200, domain.Actor{UserID: 200, Role: domain.RoleProvider})
	require.NoError(t, err)

	require.Len(t, resp.Bookings, 2)
	assert.Equal(t, string(domain.BookingStatusConfirmed), resp.Bookings[0].Status)
	assert.Equal(t, int64(3), resp.Bookings[0].Count)

	require.Len(t, resp.Payments, 2)
	assert.Equal(t, "4500", resp.CollectedTotal)
	assert.Equal(t, "1500", resp.RefundedTotal)
}

func TestService_GetProviderStats_AccessDenied(t *testing.T) {
	svc := NewService(&fakeBookingRepo{}, &fakePaymentRepo{}, noopLogger{})

	tests := []struct {
		name  string
		actor domain.Actor
	}{
		{"foreign provider", domain.Actor{UserID: 201, Role: domain.RoleProvider}},
		{"buyer", domain.Actor{UserID: 200, Role: domain.RoleBuyer}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.GetProviderStats(context.Background(), 200, tt.actor)
			assert.ErrorIs(t, err, ErrAccessDenied)
		})
	}
}

func TestService_GetBuyerSummary(t *testing.T) {
	svc := NewService(
		&fakeBookingRepo{counts: []bookingRepo.StatusCount{
			{Status: domain.BookingStatusCompleted, Count: 5},
		}},
		&fakePaymentRepo{totals: []paymentRepo.StatusTotal{
			{Status: domain.PaymentStatusCompleted, Count: 5, Sum: decimal.RequireFromString("7500.50")},
			{Status: domain.PaymentStatusFailed, Count: 2, Sum: decimal.RequireFromString("3000.00")},
		}},
		noopLogger{},
	)

	resp, err := svc.GetBuyerSummary(context.Background(), 100, domain.Actor{UserID: 100, Role: domain.RoleBuyer})
	require.NoError(t, err)

	// failed не входит в собранную сумму
	assert.Equal(t, "7500.5", resp.CollectedTotal)
	assert.Equal(t, "0", resp.RefundedTotal)
	require.Len(t, resp.Payments, 2)
}

func TestService_GetBuyerSummary_AdminAccess(t *testing.T) {
	svc := NewService(&fakeBookingRepo{}, &fakePaymentRepo{}, noopLogger{})

	resp, err := svc.GetBuyerSummary(context.Background(), 100, domain.Actor{UserID: 1, Role: domain.RoleAdmin})
	require.NoError(t, err)
	assert.Empty(t, resp.Bookings)
	assert.Equal(t, "0", resp.CollectedTotal)
}

func TestService_GetBuyerSummary_ForeignBuyer(t *testing.T) {
	svc := NewService(&fakeBookingRepo{}, &fakePaymentRepo{}, noopLogger{})

	_, err := svc.GetBuyerSummary(context.Background(), 100, domain.Actor{UserID: 101, Role: domain.RoleBuyer})
	assert.ErrorIs(t, err, ErrAccessDenied)
}
