package create_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	slotRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/slot"
	catalogClient "github.com/m04kA/SMC-ReservationService/internal/integrations/catalogservice"
)

// UseCase use case для создания бронирования
type UseCase struct {
	bookingRepo   BookingRepository
	slotRepo      SlotRepository
	catalogClient CatalogServiceClient
	txManager     TransactionManager
	timeProvider  TimeProvider
	logger        Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	slotRepo SlotRepository,
	catalogClient CatalogServiceClient,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:   bookingRepo,
		slotRepo:      slotRepo,
		catalogClient: catalogClient,
		txManager:     txManager,
		timeProvider:  &RealTimeProvider{},
		logger:        logger,
	}
}

// Execute выполняет use case создания бронирования
// Использует сериализуемую транзакцию для предотвращения гонки данных:
// два покупателя не могут занять один слот, один покупатель не может
// создать два пересекающихся по времени бронирования
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: buyer=%d, offering=%d, date=%s, time=%s-%s",
		req.BuyerID, req.OfferingID, req.Date.Format(domain.DateFormat), req.StartTime, req.EndTime)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Проверяем дату бронирования
	if err := validateDate(req.Date, uc.timeProvider.Now()); err != nil {
		uc.logger.Warn("CreateBooking: date %s is in the past", req.Date.Format(domain.DateFormat))
		return nil, err
	}

	// 3. Получаем оферту из каталога
	offering, err := uc.catalogClient.GetOffering(ctx, req.OfferingID)
	if err != nil {
		if errors.Is(err, catalogClient.ErrOfferingNotFound) {
			uc.logger.Warn("CreateBooking: offering id=%d not found", req.OfferingID)
			return nil, ErrOfferingNotFound
		}
		uc.logger.Error("CreateBooking: failed to get offering id=%d: %v", req.OfferingID, err)
		return nil, fmt.Errorf("%w: failed to get offering: %w", ErrInternal, err)
	}

	// 4. Оферта должна быть опубликована
	if !offering.IsActive {
		uc.logger.Warn("CreateBooking: offering id=%d is not active", req.OfferingID)
		return nil, ErrOfferingInactive
	}

	// 5. Провайдер оферты должен быть верифицирован
	provider, err := uc.catalogClient.GetProvider(ctx, offering.ProviderID)
	if err != nil {
		if errors.Is(err, catalogClient.ErrProviderNotFound) {
			uc.logger.Warn("CreateBooking: provider id=%d not found", offering.ProviderID)
			return nil, ErrProviderNotFound
		}
		uc.logger.Error("CreateBooking: failed to get provider id=%d: %v", offering.ProviderID, err)
		return nil, fmt.Errorf("%w: failed to get provider: %w", ErrInternal, err)
	}

	if !provider.IsVerified {
		uc.logger.Warn("CreateBooking: provider id=%d is not verified", offering.ProviderID)
		return nil, ErrProviderUnverified
	}

	var result *domain.Booking

	// 6. Выполняем операции с БД в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 6.1. Проверяем, что у покупателя нет пересекающегося активного
		// бронирования (с блокировкой FOR UPDATE)
		overlapping, err := uc.bookingRepo.FindActiveOverlapping(txCtx, req.BuyerID, req.Date, req.StartTime, req.EndTime)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to check buyer overlap: %v", err)
			return fmt.Errorf("%w: failed to check buyer overlap: %w", ErrInternal, err)
		}
		if len(overlapping) > 0 {
			uc.logger.Warn("CreateBooking: buyer=%d has overlapping booking id=%d",
				req.BuyerID, overlapping[0].ID)
			return ErrSelfOverlap
		}

		// 6.2. Ищем доступный слот, полностью покрывающий запрошенный
		// интервал (с блокировкой FOR UPDATE)
		slot, err := uc.slotRepo.FindCovering(txCtx, req.OfferingID, req.Date, req.StartTime, req.EndTime)
		if err != nil {
			if errors.Is(err, slotRepo.ErrSlotNotFound) {
				uc.logger.Warn("CreateBooking: no covering slot for offering=%d %s %s-%s",
					req.OfferingID, req.Date.Format(domain.DateFormat), req.StartTime, req.EndTime)
				return ErrSlotNotAvailable
			}
			uc.logger.Error("CreateBooking: failed to find covering slot: %v", err)
			return fmt.Errorf("%w: failed to find covering slot: %w", ErrInternal, err)
		}

		// 6.3. Занимаем слот guarded update'ом; 0 строк означает, что слот
		// успел занять конкурентный запрос
		if err := uc.slotRepo.Claim(txCtx, slot.ID); err != nil {
			if errors.Is(err, slotRepo.ErrSlotConflict) {
				uc.logger.Warn("CreateBooking: slot id=%d already claimed", slot.ID)
				return ErrSlotNotAvailable
			}
			uc.logger.Error("CreateBooking: failed to claim slot id=%d: %v", slot.ID, err)
			return fmt.Errorf("%w: failed to claim slot: %w", ErrInternal, err)
		}

		// 6.4. Создаем бронирование в статусе pending
		// Дата, интервал и цена фиксируются на момент создания
		booking := &domain.Booking{
			BuyerID:     req.BuyerID,
			ProviderID:  offering.ProviderID,
			OfferingID:  req.OfferingID,
			SlotID:      slot.ID,
			BookingDate: req.Date,
			StartTime:   req.StartTime,
			EndTime:     req.EndTime,
			TotalPrice:  slot.EffectivePrice(offering.BasePrice),
			Status:      domain.BookingStatusPending,
			Notes:       req.Notes,
		}

		created, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to create booking: %v", err)
			return fmt.Errorf("%w: failed to create booking: %w", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateBooking: successfully created booking id=%d, slot=%d, price=%s",
		result.ID, result.SlotID, result.TotalPrice)

	return &Response{
		ID:         result.ID,
		BuyerID:    result.BuyerID,
		ProviderID: result.ProviderID,
		OfferingID: result.OfferingID,
		SlotID:     result.SlotID,
		Date:       result.BookingDate,
		StartTime:  result.StartTime,
		EndTime:    result.EndTime,
		TotalPrice: result.TotalPrice,
		Currency:   offering.Currency,
		Status:     string(result.Status),
		Notes:      result.Notes,
		CreatedAt:  result.CreatedAt,
		UpdatedAt:  result.UpdatedAt,
	}, nil
}
