package bookings

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/booking"
	slotRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/slot"
	"github.com/m04kA/SMC-ReservationService/internal/service/bookings/models"
	"github.com/m04kA/SMC-ReservationService/pkg/simpletxmanager"
	"github.com/m04kA/SMC-ReservationService/pkg/txmanager"
	"github.com/m04kA/SMC-ReservationService/pkg/types"
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

func (f *fakeBookingRepo) GetByBuyerID(_ context.Context, buyerID int64, status *domain.BookingStatus) ([]*domain.Booking, error) {
	var out []*domain.Booking
	for _, b := range f.bookings {
		if b.BuyerID != buyerID {
			continue
		}
		if status != nil && b.Status != *status {
			continue
		}
		out = append(out, b)
	}
	return out, nil
}

func (f *fakeBookingRepo) GetByProviderWithFilter(_ context.Context, filter domain.ProviderBookingsFilter) ([]*domain.Booking, error) {
	var out []*domain.Booking
	for _, b := range f.bookings {
		if b.ProviderID != filter.ProviderID {
			continue
		}
		if !filter.IncludeInactive && b.Status.IsTerminal() {
			continue
		}
		out = append(out, b)
	}
	return out, nil
}

func (f *fakeBookingRepo) UpdateStatus(_ context.Context, id int64, status domain.BookingStatus) error {
	b, ok := f.bookings[id]
	if !ok {
		return bookingRepo.ErrBookingNotFound
	}
	b.Status = status
	return nil
}

func (f *fakeBookingRepo) Cancel(_ context.Context, id int64, reason string) error {
	b, ok := f.bookings[id]
	if !ok {
		return bookingRepo.ErrBookingNotFound
	}
	b.Status = domain.BookingStatusCancelled
	b.CancellationReason = &reason
	return nil
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

type fakeTxManager struct{}

func (fakeTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

var (
	_ TransactionManager = (*txmanager.TransactionManager)(nil)
	_ TransactionManager = (*simpletxmanager.TransactionManager)(nil)
)

type noopLogger struct{}

func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}

func testBooking(status domain.BookingStatus) *domain.Booking {
	start, _ := types.NewTimeStringFromString("10:00")
	end, _ := types.NewTimeStringFromString("11:00")
	return &domain.Booking{
		ID:          10,
		BuyerID:     1,
		ProviderID:  2,
		OfferingID:  3,
		SlotID:      100,
		BookingDate: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		StartTime:   start,
		EndTime:     end,
		TotalPrice:  decimal.RequireFromString("1500.00"),
		Status:      status,
	}
}

func newFixture(status domain.BookingStatus) (*Service, *fakeBookingRepo, *fakeSlotRepo) {
	bookings := &fakeBookingRepo{bookings: map[int64]*domain.Booking{10: testBooking(status)}}
	slots := &fakeSlotRepo{available: map[int64]bool{}, missing: map[int64]bool{}}
	return NewService(bookings, slots, fakeTxManager{}, noopLogger{}), bookings, slots
}

func TestService_GetByID_Access(t *testing.T) {
	svc, _, _ := newFixture(domain.BookingStatusPending)
	ctx := context.Background()

	tests := []struct {
		name    string
		actor   domain.Actor
		wantErr error
	}{
		{"buyer owner", domain.Actor{UserID: 1, Role: domain.RoleBuyer}, nil},
		{"provider owner", domain.Actor{UserID: 2, Role: domain.RoleProvider}, nil},
		{"admin", domain.Actor{UserID: 99, Role: domain.RoleAdmin}, nil},
		{"other buyer", domain.Actor{UserID: 42, Role: domain.RoleBuyer}, ErrAccessDenied},
		{"other provider", domain.Actor{UserID: 42, Role: domain.RoleProvider}, ErrAccessDenied},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := svc.GetByID(ctx, 10, tt.actor)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, int64(10), resp.ID)
			assert.Equal(t, "1500", resp.TotalPrice)
		})
	}
}

func TestService_GetByID_NotFound(t *testing.T) {
	svc, _, _ := newFixture(domain.BookingStatusPending)

	_, err := svc.GetByID(context.Background(), 404, domain.Actor{UserID: 1, Role: domain.RoleBuyer})
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestService_Cancel_ReleasesSlot(t *testing.T) {
	svc, bookings, slots := newFixture(domain.BookingStatusConfirmed)

	err := svc.Cancel(context.Background(), 10, &models.CancelBookingRequest{
		Actor:              domain.Actor{UserID: 1, Role: domain.RoleBuyer},
		CancellationReason: "plans changed",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.BookingStatusCancelled, bookings.bookings[10].Status)
	assert.True(t, slots.available[100])
}

func TestService_Cancel_Terminal(t *testing.T) {
	svc, _, _ := newFixture(domain.BookingStatusCompleted)

	err := svc.Cancel(context.Background(), 10, &models.CancelBookingRequest{
		Actor: domain.Actor{UserID: 1, Role: domain.RoleBuyer},
	})
	assert.ErrorIs(t, err, ErrCannotCancel)
}

func TestService_Cancel_AccessDenied(t *testing.T) {
	svc, _, _ := newFixture(domain.BookingStatusPending)

	err := svc.Cancel(context.Background(), 10, &models.CancelBookingRequest{
		Actor: domain.Actor{UserID: 42, Role: domain.RoleBuyer},
	})
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestService_UpdateStatus_RejectReleasesSlot(t *testing.T) {
	svc, bookings, slots := newFixture(domain.BookingStatusPending)

	err := svc.UpdateStatus(context.Background(), 10, &models.UpdateStatusRequest{
		Actor:  domain.Actor{UserID: 2, Role: domain.RoleProvider},
		Status: "rejected",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.BookingStatusRejected, bookings.bookings[10].Status)
	assert.True(t, slots.available[100])
}

func TestService_UpdateStatus_Complete(t *testing.T) {
	svc, bookings, slots := newFixture(domain.BookingStatusConfirmed)

	err := svc.UpdateStatus(context.Background(), 10, &models.UpdateStatusRequest{
		Actor:  domain.Actor{UserID: 2, Role: domain.RoleProvider},
		Status: "completed",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.BookingStatusCompleted, bookings.bookings[10].Status)
	// Завершение не освобождает слот
	assert.False(t, slots.available[100])
}

func TestService_UpdateStatus_IllegalTransition(t *testing.T) {
	svc, _, _ := newFixture(domain.BookingStatusPending)

	// pending -> completed минует confirmed
	err := svc.UpdateStatus(context.Background(), 10, &models.UpdateStatusRequest{
		Actor:  domain.Actor{UserID: 2, Role: domain.RoleProvider},
		Status: "completed",
	})
	assert.ErrorIs(t, err, ErrIllegalTransition)
}

func TestService_UpdateStatus_NotAProviderDecision(t *testing.T) {
	svc, _, _ := newFixture(domain.BookingStatusPending)

	err := svc.UpdateStatus(context.Background(), 10, &models.UpdateStatusRequest{
		Actor:  domain.Actor{UserID: 2, Role: domain.RoleProvider},
		Status: "confirmed",
	})
	assert.ErrorIs(t, err, ErrIllegalTransition)
}

func TestService_GetBuyerBookings_ForeignBuyer(t *testing.T) {
	svc, _, _ := newFixture(domain.BookingStatusPending)

	_, err := svc.GetBuyerBookings(context.Background(), &models.GetBuyerBookingsRequest{
		Actor:   domain.Actor{UserID: 42, Role: domain.RoleBuyer},
		BuyerID: 1,
	})
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestService_GetProviderBookings(t *testing.T) {
	svc, _, _ := newFixture(domain.BookingStatusPending)

	resp, err := svc.GetProviderBookings(context.Background(), &models.GetProviderBookingsRequest{
		Actor:      domain.Actor{UserID: 2, Role: domain.RoleProvider},
		ProviderID: 2,
	})
	require.NoError(t, err)
	assert.Len(t, resp.Bookings, 1)
}
