package slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	catalogClient "github.com/m04kA/SMC-ReservationService/internal/integrations/catalogservice"
	"github.com/m04kA/SMC-ReservationService/internal/service/slots/models"
	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

// Service сервис для работы со слотами оферт
type Service struct {
	slotRepo      SlotRepository
	catalogClient CatalogServiceClient
	txManager     TransactionManager
	logger        Logger
}

// NewService создает новый экземпляр сервиса слотов
func NewService(
	slotRepo SlotRepository,
	catalogClient CatalogServiceClient,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		slotRepo:      slotRepo,
		catalogClient: catalogClient,
		txManager:     txManager,
		logger:        logger,
	}
}

// CreateSlots создает слоты оферты на дату
// Доступно владельцу оферты и администратору. Вставка слота, пересекающегося
// по времени с уже существующим доступным слотом той же оферты, отклоняется.
// Все интервалы запроса создаются в одной сериализуемой транзакции.
func (s *Service) CreateSlots(ctx context.Context, req *models.CreateSlotsRequest) (*models.SlotListResponse, error) {
	s.logger.Info("CreateSlots: creating %d slots for offering=%d date=%s by user=%d",
		len(req.Slots), req.OfferingID, req.Date, req.Actor.UserID)

	date, intervals, err := s.validateRequest(req)
	if err != nil {
		return nil, err
	}

	offering, err := s.getOffering(ctx, req.OfferingID)
	if err != nil {
		return nil, err
	}

	if !req.Actor.CanActForProvider(offering.ProviderID) {
		s.logger.Warn("CreateSlots: access denied for user=%d to offering=%d owned by provider=%d",
			req.Actor.UserID, req.OfferingID, offering.ProviderID)
		return nil, ErrAccessDenied
	}

	created := make([]*domain.Slot, 0, len(intervals))
	err = s.txManager.DoSerializable(ctx, func(ctx context.Context) error {
		for _, in := range intervals {
			exists, err := s.slotRepo.ExistsOverlappingAvailable(ctx, req.OfferingID, date, in.start, in.end)
			if err != nil {
				return fmt.Errorf("%w: CreateSlots - overlap check: %w", ErrInternal, err)
			}
			if exists {
				return fmt.Errorf("%w: %s-%s on %s", ErrSlotOverlap, in.start, in.end, req.Date)
			}

			slot, err := s.slotRepo.Create(ctx, &domain.Slot{
				OfferingID:      req.OfferingID,
				ProviderID:      offering.ProviderID,
				Date:            date,
				StartTime:       in.start,
				EndTime:         in.end,
				IsAvailable:     true,
				PriceMultiplier: in.multiplier,
			})
			if err != nil {
				return fmt.Errorf("%w: CreateSlots - insert slot: %w", ErrInternal, err)
			}
			created = append(created, slot)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrSlotOverlap) || errors.Is(err, ErrInternal) {
			return nil, err
		}
		s.logger.Error("CreateSlots: transaction failed for offering=%d: %v", req.OfferingID, err)
		return nil, fmt.Errorf("%w: CreateSlots - transaction: %w", ErrInternal, err)
	}

	s.logger.Info("CreateSlots: created %d slots for offering=%d date=%s", len(created), req.OfferingID, req.Date)
	return models.FromDomainSlotList(created, offering.BasePrice, offering.Currency), nil
}

// GetAvailableSlots возвращает слоты оферты на дату
// Публичная операция. Эффективная цена каждого слота считается от базовой
// цены оферты из каталога.
func (s *Service) GetAvailableSlots(ctx context.Context, req *models.GetAvailableSlotsRequest) (*models.SlotListResponse, error) {
	s.logger.Info("GetAvailableSlots: listing slots for offering=%d date=%s", req.OfferingID, req.Date)

	date, err := models.ParseDate(req.Date)
	if err != nil {
		s.logger.Warn("GetAvailableSlots: invalid date=%s: %v", req.Date, err)
		return nil, fmt.Errorf("%w: invalid date", ErrInvalidInput)
	}

	offering, err := s.getOffering(ctx, req.OfferingID)
	if err != nil {
		return nil, err
	}

	slots, err := s.slotRepo.ListByOfferingAndDate(ctx, req.OfferingID, date, req.OnlyAvailable)
	if err != nil {
		s.logger.Error("GetAvailableSlots: repository error for offering=%d: %v", req.OfferingID, err)
		return nil, fmt.Errorf("%w: GetAvailableSlots - repository error: %w", ErrInternal, err)
	}

	s.logger.Info("GetAvailableSlots: found %d slots for offering=%d date=%s", len(slots), req.OfferingID, req.Date)
	return models.FromDomainSlotList(slots, offering.BasePrice, offering.Currency), nil
}

// Вспомогательные методы

type interval struct {
	start      types.TimeString
	end        types.TimeString
	multiplier *decimal.Decimal
}

// validateRequest проверяет дату, интервалы и их взаимные пересечения
func (s *Service) validateRequest(req *models.CreateSlotsRequest) (time.Time, []interval, error) {
	date, err := models.ParseDate(req.Date)
	if err != nil {
		return time.Time{}, nil, fmt.Errorf("%w: invalid date", ErrInvalidInput)
	}

	if len(req.Slots) == 0 {
		return time.Time{}, nil, fmt.Errorf("%w: slots list is empty", ErrInvalidInput)
	}

	intervals := make([]interval, 0, len(req.Slots))
	for i, in := range req.Slots {
		start, err := types.NewTimeStringFromString(in.StartTime)
		if err != nil {
			return time.Time{}, nil, fmt.Errorf("%w: slots[%d].startTime: %v", ErrInvalidInput, i, err)
		}
		end, err := types.NewTimeStringFromString(in.EndTime)
		if err != nil {
			return time.Time{}, nil, fmt.Errorf("%w: slots[%d].endTime: %v", ErrInvalidInput, i, err)
		}
		if !start.IsBefore(end) {
			return time.Time{}, nil, fmt.Errorf("%w: slots[%d]: start must be before end", ErrInvalidInput, i)
		}

		var mult *decimal.Decimal
		if in.PriceMultiplier != nil {
			m, err := decimal.NewFromString(*in.PriceMultiplier)
			if err != nil || m.Sign() <= 0 {
				return time.Time{}, nil, fmt.Errorf("%w: slots[%d].priceMultiplier", ErrInvalidInput, i)
			}
			mult = &m
		}

		intervals = append(intervals, interval{start: start, end: end, multiplier: mult})
	}

	// Интервалы одного запроса не должны пересекаться между собой
	for i := range intervals {
		for j := i + 1; j < len(intervals); j++ {
			if intervals[i].start.IsBefore(intervals[j].end) && intervals[j].start.IsBefore(intervals[i].end) {
				return time.Time{}, nil, fmt.Errorf("%w: slots[%d] and slots[%d] overlap", ErrInvalidInput, i, j)
			}
		}
	}

	return date, intervals, nil
}

// getOffering загружает оферту из каталога
func (s *Service) getOffering(ctx context.Context, offeringID int64) (*catalogClient.Offering, error) {
	offering, err := s.catalogClient.GetOffering(ctx, offeringID)
	if err != nil {
		if errors.Is(err, catalogClient.ErrOfferingNotFound) {
			s.logger.Warn("getOffering: offering id=%d not found", offeringID)
			return nil, ErrOfferingNotFound
		}
		s.logger.Error("getOffering: failed to get offering id=%d: %v", offeringID, err)
		return nil, fmt.Errorf("%w: getOffering - catalog error: %w", ErrInternal, err)
	}
	return offering, nil
}
