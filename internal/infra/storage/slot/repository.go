package slot

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ReservationService/pkg/psqlbuilder"
	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

// slotColumns колонки таблицы slots в порядке сканирования
var slotColumns = []string{
	"id",
	"offering_id",
	"provider_id",
	"slot_date",
	"start_time",
	"end_time",
	"is_available",
	"price_multiplier",
	"created_at",
	"updated_at",
}

// Repository репозиторий слотов — единственный источник правды о занятости
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория слотов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новый слот
func (r *Repository) Create(ctx context.Context, slot *domain.Slot) (*domain.Slot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("slots").
		Columns(
			"offering_id",
			"provider_id",
			"slot_date",
			"start_time",
			"end_time",
			"is_available",
			"price_multiplier",
		).
		Values(
			slot.OfferingID,
			slot.ProviderID,
			slot.Date,
			slot.StartTime,
			slot.EndTime,
			slot.IsAvailable,
			nullDecimal(slot.PriceMultiplier),
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %w", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&slot.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	slot.CreatedAt = createdAt.Time
	slot.UpdatedAt = updatedAt.Time

	return slot, nil
}

// GetByID получает слот по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Slot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(slotColumns...).
		From("slots").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %w", ErrBuildQuery, err)
	}

	return r.scanSlotRow(executor.QueryRowContext(ctx, query, args...), "GetByID")
}

// FindCovering возвращает доступный слот, интервал которого полностью покрывает
// запрошенный [start, end). Внутри транзакции выполняется с FOR UPDATE, чтобы
// конкурирующие бронирования на пересекающиеся интервалы сериализовались.
func (r *Repository) FindCovering(ctx context.Context, offeringID int64, date time.Time, start, end types.TimeString) (*domain.Slot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(slotColumns...).
		From("slots").
		Where(squirrel.Eq{
			"offering_id":  offeringID,
			"slot_date":    date,
			"is_available": true,
		}).
		Where(squirrel.LtOrEq{"start_time": start}).
		Where(squirrel.GtOrEq{"end_time": end}).
		OrderBy("start_time ASC").
		Limit(1)

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: FindCovering - build select query: %w", ErrBuildQuery, err)
	}

	return r.scanSlotRow(executor.QueryRowContext(ctx, query, args...), "FindCovering")
}

// ExistsOverlappingAvailable проверяет, есть ли у оферты доступный слот,
// пересекающийся с интервалом [start, end). Используется при административном
// создании слотов для защиты от дублей.
func (r *Repository) ExistsOverlappingAvailable(ctx context.Context, offeringID int64, date time.Time, start, end types.TimeString) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("1").
		From("slots").
		Where(squirrel.Eq{
			"offering_id":  offeringID,
			"slot_date":    date,
			"is_available": true,
		}).
		Where(squirrel.Lt{"start_time": end}).
		Where(squirrel.Gt{"end_time": start}).
		Limit(1).
		ToSql()

	if err != nil {
		return false, fmt.Errorf("%w: ExistsOverlappingAvailable - build select query: %w", ErrBuildQuery, err)
	}

	var one int
	err = executor.QueryRowContext(ctx, query, args...).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: ExistsOverlappingAvailable - scan: %w", ErrScanRow, err)
	}

	return true, nil
}

// ListByOfferingAndDate возвращает слоты оферты на дату
// Если onlyAvailable = true, возвращает только свободные слоты
func (r *Repository) ListByOfferingAndDate(ctx context.Context, offeringID int64, date time.Time, onlyAvailable bool) ([]*domain.Slot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(slotColumns...).
		From("slots").
		Where(squirrel.Eq{
			"offering_id": offeringID,
			"slot_date":   date,
		}).
		OrderBy("start_time ASC")

	if onlyAvailable {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"is_available": true})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByOfferingAndDate - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByOfferingAndDate - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanSlots(rows)
}

// Claim помечает слот занятым. Guarded update: условие is_available = true
// гарантирует, что из двух конкурирующих claim пройдёт максимум один,
// второй получит ErrSlotConflict.
func (r *Repository) Claim(ctx context.Context, slotID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("slots").
		Set("is_available", false).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": slotID, "is_available": true}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Claim - build update query: %w", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Claim - execute update: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Claim - get rows affected: %w", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrSlotConflict
	}

	return nil
}

// Release помечает слот свободным. Идемпотентна: освобождение уже свободного
// слота проходит без ошибки. Если слот не существует, возвращает ErrSlotNotFound —
// вызывающий код трактует это как no-op.
func (r *Repository) Release(ctx context.Context, slotID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("slots").
		Set("is_available", true).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": slotID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Release - build update query: %w", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Release - execute update: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Release - get rows affected: %w", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrSlotNotFound
	}

	return nil
}

// scanSlotRow сканирует одну строку в domain.Slot
func (r *Repository) scanSlotRow(row *sql.Row, op string) (*domain.Slot, error) {
	var slot domain.Slot
	var multiplier decimal.NullDecimal
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&slot.ID,
		&slot.OfferingID,
		&slot.ProviderID,
		&slot.Date,
		&slot.StartTime,
		&slot.EndTime,
		&slot.IsAvailable,
		&multiplier,
		&createdAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrSlotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s - scan slot: %w", ErrScanRow, op, err)
	}

	if multiplier.Valid {
		slot.PriceMultiplier = &multiplier.Decimal
	}
	slot.CreatedAt = createdAt.Time
	slot.UpdatedAt = updatedAt.Time

	return &slot, nil
}

// scanSlots сканирует результаты запроса в слайс слотов
func (r *Repository) scanSlots(rows *sql.Rows) ([]*domain.Slot, error) {
	slots := make([]*domain.Slot, 0)

	for rows.Next() {
		var slot domain.Slot
		var multiplier decimal.NullDecimal
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&slot.ID,
			&slot.OfferingID,
			&slot.ProviderID,
			&slot.Date,
			&slot.StartTime,
			&slot.EndTime,
			&slot.IsAvailable,
			&multiplier,
			&createdAt,
			&updatedAt,
		)

		if err != nil {
			return nil, fmt.Errorf("%w: scanSlots - scan row: %w", ErrScanRow, err)
		}

		if multiplier.Valid {
			slot.PriceMultiplier = &multiplier.Decimal
		}
		slot.CreatedAt = createdAt.Time
		slot.UpdatedAt = updatedAt.Time

		slots = append(slots, &slot)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanSlots - rows error: %w", ErrScanRow, err)
	}

	return slots, nil
}

// nullDecimal конвертирует *decimal.Decimal в decimal.NullDecimal для вставки
func nullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *d, Valid: true}
}
