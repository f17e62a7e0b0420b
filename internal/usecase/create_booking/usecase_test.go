package create_booking

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	slotRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/slot"
	"github.com/m04kA/SMC-ReservationService/internal/integrations/catalogservice"
	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

type fakeBookingRepo struct {
	nextID   int64
	bookings []*domain.Booking
}

func (f *fakeBookingRepo) Create(_ context.Context, booking *domain.Booking) (*domain.Booking, error) {
	f.nextID++
	created := *booking
	created.ID = f.nextID
	f.bookings = append(f.bookings, &created)
	return &created, nil
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

type fakeCatalog struct {
	offering *catalogservice.Offering
	provider *catalogservice.Provider
}

func (f *fakeCatalog) GetOffering(context.Context, int64) (*catalogservice.Offering, error) {
	if f.offering == nil {
		return nil, catalogservice.ErrOfferingNotFound
	}
	return f.offering, nil
}

func (f *fakeCatalog) GetProvider(context.Context, int64) (*catalogservice.Provider, error) {
	if f.provider == nil {
		return nil, catalogservice.ErrProviderNotFound
	}
	return f.provider, nil
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

func newFixture(t *testing.T) (*UseCase, *fakeBookingRepo, *fakeSlotRepo, *fakeCatalog) {
	bookings := &fakeBookingRepo{}
	slots := &fakeSlotRepo{slots: map[int64]*domain.Slot{
		100: {
			ID:          100,
			OfferingID:  3,
			ProviderID:  2,
			Date:        time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
			StartTime:   mustTime(t, "09:00"),
			EndTime:     mustTime(t, "13:00"),
			IsAvailable: true,
		},
	}}
	catalog := &fakeCatalog{
		offering: &catalogservice.Offering{
			ID: 3, ProviderID: 2, Name: "deep clean", IsActive: true,
			BasePrice: decimal.RequireFromString("1000"), Currency: "RUB",
		},
		provider: &catalogservice.Provider{ID: 2, Name: "acme", IsVerified: true},
	}

	uc := NewUseCase(bookings, slots, catalog, fakeTxManager{}, noopLogger{})
	uc.timeProvider = &fakeTimeProvider{now: time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC)}
	return uc, bookings, slots, catalog
}

func validRequest(t *testing.T) *Request {
	return &Request{
		BuyerID:    1,
		OfferingID: 3,
		Date:       time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		StartTime:  mustTime(t, "10:00"),
		EndTime:    mustTime(t, "11:00"),
	}
}

func TestUseCase_Execute(t *testing.T) {
	uc, bookings, slots, _ := newFixture(t)

	resp, err := uc.Execute(context.Background(), validRequest(t))
	require.NoError(t, err)

	assert.Equal(t, int64(1), resp.ID)
	assert.Equal(t, int64(2), resp.ProviderID)
	assert.Equal(t, int64(100), resp.SlotID)
	assert.Equal(t, "pending", resp.Status)
	assert.True(t, resp.TotalPrice.Equal(decimal.RequireFromString("1000")))
	assert.Equal(t, "RUB", resp.Currency)
	assert.Len(t, bookings.bookings, 1)
	assert.False(t, slots.slots[100].IsAvailable)
}

func TestUseCase_Execute_PriceMultiplier(t *testing.T) {
	uc, _, slots, _ := newFixture(t)
	mult := decimal.RequireFromString("1.5")
	slots.slots[100].PriceMultiplier = &mult

	resp, err := uc.Execute(context.Background(), validRequest(t))
	require.NoError(t, err)
	assert.True(t, resp.TotalPrice.Equal(decimal.RequireFromString("1500")))
}

func TestUseCase_Execute_SelfOverlap(t *testing.T) {
	uc, _, slots, _ := newFixture(t)
	ctx := context.Background()

	// Второй слот той же оферты, чтобы первый claim не мешал
	slots.slots[101] = &domain.Slot{
		ID: 101, OfferingID: 3, ProviderID: 2,
		Date:      time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		StartTime: mustTime(t, "10:30"), EndTime: mustTime(t, "12:00"),
		IsAvailable: true,
	}

	_, err := uc.Execute(ctx, validRequest(t))
	require.NoError(t, err)

	req := validRequest(t)
	req.StartTime = mustTime(t, "10:30")
	req.EndTime = mustTime(t, "11:30")
	_, err = uc.Execute(ctx, req)
	assert.ErrorIs(t, err, ErrSelfOverlap)
}

func TestUseCase_Execute_AdjacentIntervalAllowed(t *testing.T) {
	uc, _, slots, _ := newFixture(t)
	ctx := context.Background()

	slots.slots[101] = &domain.Slot{
		ID: 101, OfferingID: 3, ProviderID: 2,
		Date:      time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		StartTime: mustTime(t, "11:00"), EndTime: mustTime(t, "12:00"),
		IsAvailable: true,
	}

	_, err := uc.Execute(ctx, validRequest(t))
	require.NoError(t, err)

	// Интервал, начинающийся ровно в конце предыдущего, не пересечение
	req := validRequest(t)
	req.StartTime = mustTime(t, "11:00")
	req.EndTime = mustTime(t, "12:00")
	_, err = uc.Execute(ctx, req)
	assert.NoError(t, err)
}

func TestUseCase_Execute_NoCoveringSlot(t *testing.T) {
	uc, _, _, _ := newFixture(t)

	req := validRequest(t)
	req.StartTime = mustTime(t, "12:30")
	req.EndTime = mustTime(t, "14:00") // выходит за границу слота 09:00-13:00
	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrSlotNotAvailable)
}

func TestUseCase_Execute_SlotAlreadyClaimed(t *testing.T) {
	uc, _, slots, _ := newFixture(t)
	slots.slots[100].IsAvailable = false

	_, err := uc.Execute(context.Background(), validRequest(t))
	assert.ErrorIs(t, err, ErrSlotNotAvailable)
}

func TestUseCase_Execute_OfferingInactive(t *testing.T) {
	uc, _, _, catalog := newFixture(t)
	catalog.offering.IsActive = false

	_, err := uc.Execute(context.Background(), validRequest(t))
	assert.ErrorIs(t, err, ErrOfferingInactive)
}

func TestUseCase_Execute_ProviderUnverified(t *testing.T) {
	uc, _, _, catalog := newFixture(t)
	catalog.provider.IsVerified = false

	_, err := uc.Execute(context.Background(), validRequest(t))
	assert.ErrorIs(t, err, ErrProviderUnverified)
}

func TestUseCase_Execute_OfferingNotFound(t *testing.T) {
	uc, _, _, catalog := newFixture(t)
	catalog.offering = nil

	_, err := uc.Execute(context.Background(), validRequest(t))
	assert.ErrorIs(t, err, ErrOfferingNotFound)
}

func TestUseCase_Execute_DateInPast(t *testing.T) {
	uc, _, _, _ := newFixture(t)

	req := validRequest(t)
	req.Date = time.Date(2026, 8, 25, 0, 0, 0, 0, time.UTC)
	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestUseCase_Execute_Validation(t *testing.T) {
	uc, _, _, _ := newFixture(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(*Request)
	}{
		{"zero buyer", func(r *Request) { r.BuyerID = 0 }},
		{"zero offering", func(r *Request) { r.OfferingID = 0 }},
		{"zero date", func(r *Request) { r.Date = time.Time{} }},
		{"inverted interval", func(r *Request) {
			r.StartTime = mustTime(t, "12:00")
			r.EndTime = mustTime(t, "10:00")
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest(t)
			tt.mutate(req)
			_, err := uc.Execute(ctx, req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}
