package reschedule_booking

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

func (f *fakeBookingRepo) FindActiveOverlapping(_ context.Context, buyerID int64, date time.Time, start, end types.TimeString) ([]*domain.Booking, error) {
	var out []*domain.Booking
	for _, b := range f.bookings {
		if b.BuyerID == buyerID && b.IsActive() && b.Overlaps(date, start, end) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeBookingRepo) UpdateSchedule(_ context.Context, id, slotID int64, date time.Time, start, end types.TimeString) error {
	b, ok := f.bookings[id]
	if !ok {
		return bookingRepo.ErrBookingNotFound
	}
	b.SlotID = slotID
	b.BookingDate = date
	b.StartTime = start
	b.EndTime = end
	return nil
}

type fakeSlotRepo struct {
	slots map[int64]*domain.Slot
}

func (f *fakeSlotRepo) FindCovering(_ context.Context, offeringID int64, date time.Time, start, end types.TimeString) (*domain.Slot, error) {
	for _, s := range f.slots {
		if s.OfferingID == offeringID && s.IsAvailable && s.Date.Equal(date) && s.Covers(start, end) {
			return s, nil
		}
	}
	return nil, slotRepo.ErrSlotNotFound
}

func (f *fakeSlotRepo) Claim(_ context.Context, slotID int64) error {
	s, ok := f.slots[slotID]
	if !ok || !s.IsAvailable {
		return slotRepo.ErrSlotConflict
	}
	s.IsAvailable = false
	return nil
}

func (f *fakeSlotRepo) Release(_ context.Context, slotID int64) error {
	s, ok := f.slots[slotID]
	if !ok {
		return slotRepo.ErrSlotNotFound
	}
	s.IsAvailable = true
	return nil
}

type fakeTxManager struct{}

func (fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeTimeProvider struct {
	now time.Time
}

func (f *fakeTimeProvider) Now() time.Time { return f.now }

type noopLogger struct{}

func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}

func mustTime(t *testing.T, s string) types.TimeString {
	ts, err := types.NewTimeStringFromString(s)
	require.NoError(t, err)
	return ts
}

func date(d int) time.Time {
	return time.Date(2026, 9, d, 0, 0, 0, 0, time.UTC)
}

func newFixture(t *testing.T, status domain.BookingStatus) (*UseCase, *fakeBookingRepo, *fakeSlotRepo) {
	bookings := &fakeBookingRepo{bookings: map[int64]*domain.Booking{
		10: {
			ID: 10, BuyerID: 1, ProviderID: 2, OfferingID: 3, SlotID: 100,
			BookingDate: date(1),
			StartTime:   mustTime(t, "10:00"), EndTime: mustTime(t, "11:00"),
			TotalPrice: decimal.RequireFromString("1000"),
			Status:     status,
		},
	}}
	slots := &fakeSlotRepo{slots: map[int64]*domain.Slot{
		100: {
			ID: 100, OfferingID: 3, ProviderID: 2, Date: date(1),
			StartTime: mustTime(t, "09:00"), EndTime: mustTime(t, "13:00"),
			IsAvailable: false,
		},
		101: {
			ID: 101, OfferingID: 3, ProviderID: 2, Date: date(2),
			StartTime: mustTime(t, "14:00"), EndTime: mustTime(t, "18:00"),
			IsAvailable: true,
		},
	}}

	uc := NewUseCase(bookings, slots, fakeTxManager{}, noopLogger{})
	uc.timeProvider = &fakeTimeProvider{now: time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC)}
	return uc, bookings, slots
}

func TestUseCase_Execute(t *testing.T) {
	uc, bookings, slots := newFixture(t, domain.BookingStatusConfirmed)

	resp, err := uc.Execute(context.Background(), &Request{
		BookingID: 10, BuyerID: 1,
		Date:      date(2),
		StartTime: mustTime(t, "15:00"), EndTime: mustTime(t, "16:00"),
	})
	require.NoError(t, err)

	assert.Equal(t, int64(101), resp.SlotID)
	assert.True(t, resp.TotalPrice.Equal(decimal.RequireFromString("1000")))
	assert.Equal(t, int64(101), bookings.bookings[10].SlotID)
	assert.True(t, slots.slots[100].IsAvailable)
	assert.False(t, slots.slots[101].IsAvailable)
}

func TestUseCase_Execute_SameSlotNewTime(t *testing.T) {
	uc, bookings, slots := newFixture(t, domain.BookingStatusPending)

	// Новый интервал остаётся внутри старого слота
	resp, err := uc.Execute(context.Background(), &Request{
		BookingID: 10, BuyerID: 1,
		Date:      date(1),
		StartTime: mustTime(t, "11:00"), EndTime: mustTime(t, "12:00"),
	})
	require.NoError(t, err)

	assert.Equal(t, int64(100), resp.SlotID)
	assert.Equal(t, "11:00", bookings.bookings[10].StartTime.String())
	assert.False(t, slots.slots[100].IsAvailable)
}

func TestUseCase_Execute_NoSlotRollsBack(t *testing.T) {
	uc, _, _ := newFixture(t, domain.BookingStatusConfirmed)

	_, err := uc.Execute(context.Background(), &Request{
		BookingID: 10, BuyerID: 1,
		Date:      date(3), // на эту дату слотов нет
		StartTime: mustTime(t, "10:00"), EndTime: mustTime(t, "11:00"),
	})
	assert.ErrorIs(t, err, ErrSlotNotAvailable)
}

func TestUseCase_Execute_TerminalStatus(t *testing.T) {
	for _, status := range []domain.BookingStatus{
		domain.BookingStatusCompleted,
		domain.BookingStatusRejected,
		domain.BookingStatusCancelled,
	} {
		t.Run(string(status), func(t *testing.T) {
			uc, _, _ := newFixture(t, status)

			_, err := uc.Execute(context.Background(), &Request{
				BookingID: 10, BuyerID: 1,
				Date:      date(2),
				StartTime: mustTime(t, "15:00"), EndTime: mustTime(t, "16:00"),
			})
			assert.ErrorIs(t, err, ErrIllegalState)
		})
	}
}

func TestUseCase_Execute_ForeignBooking(t *testing.T) {
	uc, _, _ := newFixture(t, domain.BookingStatusPending)

	_, err := uc.Execute(context.Background(), &Request{
		BookingID: 10, BuyerID: 42,
		Date:      date(2),
		StartTime: mustTime(t, "15:00"), EndTime: mustTime(t, "16:00"),
	})
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestUseCase_Execute_SelfOverlapWithOtherBooking(t *testing.T) {
	uc, bookings, _ := newFixture(t, domain.BookingStatusPending)
	bookings.bookings[11] = &domain.Booking{
		ID: 11, BuyerID: 1, ProviderID: 2, OfferingID: 3, SlotID: 102,
		BookingDate: date(2),
		StartTime:   mustTime(t, "15:30"), EndTime: mustTime(t, "16:30"),
		Status: domain.BookingStatusConfirmed,
	}

	_, err := uc.Execute(context.Background(), &Request{
		BookingID: 10, BuyerID: 1,
		Date:      date(2),
		StartTime: mustTime(t, "15:00"), EndTime: mustTime(t, "16:00"),
	})
	assert.ErrorIs(t, err, ErrSelfOverlap)
}

func TestUseCase_Execute_NotFound(t *testing.T) {
	uc, _, _ := newFixture(t, domain.BookingStatusPending)

	_, err := uc.Execute(context.Background(), &Request{
		BookingID: 404, BuyerID: 1,
		Date:      date(2),
		StartTime: mustTime(t, "15:00"), EndTime: mustTime(t, "16:00"),
	})
	assert.ErrorIs(t, err, ErrBookingNotFound)
}
