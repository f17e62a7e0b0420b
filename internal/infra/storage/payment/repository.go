package payment

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ReservationService/pkg/psqlbuilder"
)

// paymentColumns колонки таблицы payments в порядке сканирования
var paymentColumns = []string{
	"id",
	"booking_id",
	"buyer_id",
	"provider_id",
	"amount",
	"currency",
	"status",
	"gateway_intent_id",
	"idempotency_key",
	"failure_reason",
	"refund_reason",
	"created_at",
	"updated_at",
}

// StatusTotal агрегат по платежам: количество и сумма по статусу
type StatusTotal struct {
	Status domain.PaymentStatus
	Count  int64
	Sum    decimal.Decimal
}

// Repository репозиторий для работы с платежами
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория платежей
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новый платёж
func (r *Repository) Create(ctx context.Context, payment *domain.Payment) (*domain.Payment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("payments").
		Columns(
			"booking_id",
			"buyer_id",
			"provider_id",
			"amount",
			"currency",
			"status",
			"gateway_intent_id",
			"idempotency_key",
		).
		Values(
			payment.BookingID,
			payment.BuyerID,
			payment.ProviderID,
			payment.Amount,
			payment.Currency,
			payment.Status,
			payment.GatewayIntentID,
			payment.IdempotencyKey,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %w", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&payment.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	payment.CreatedAt = createdAt.Time
	payment.UpdatedAt = updatedAt.Time

	return payment, nil
}

// GetByID получает платёж по ID
// Внутри транзакции выполняется с FOR UPDATE
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Payment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(paymentColumns...).
		From("payments").
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %w", ErrBuildQuery, err)
	}

	return r.scanPaymentRow(executor.QueryRowContext(ctx, query, args...), "GetByID")
}

// GetByIntentID получает платёж по идентификатору intent во внешнем шлюзе
// Внутри транзакции выполняется с FOR UPDATE
func (r *Repository) GetByIntentID(ctx context.Context, intentID string) (*domain.Payment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(paymentColumns...).
		From("payments").
		Where(squirrel.Eq{"gateway_intent_id": intentID})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByIntentID - build select query: %w", ErrBuildQuery, err)
	}

	return r.scanPaymentRow(executor.QueryRowContext(ctx, query, args...), "GetByIntentID")
}

// GetByBookingID получает все платежи бронирования, новые первыми
func (r *Repository) GetByBookingID(ctx context.Context, bookingID int64) ([]*domain.Payment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(paymentColumns...).
		From("payments").
		Where(squirrel.Eq{"booking_id": bookingID}).
		OrderBy("created_at DESC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByBookingID - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByBookingID - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanPayments(rows)
}

// ExistsBlockingForBooking проверяет, есть ли у бронирования платёж в статусе
// pending или completed. Инвариант: не более одного такого платежа на
// бронирование (защита от двойного списания). Внутри транзакции строка
// блокируется FOR UPDATE.
func (r *Repository) ExistsBlockingForBooking(ctx context.Context, bookingID int64) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select("id").
		From("payments").
		Where(squirrel.Eq{
			"booking_id": bookingID,
			"status":     []string{string(domain.PaymentStatusPending), string(domain.PaymentStatusCompleted)},
		}).
		Limit(1)

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return false, fmt.Errorf("%w: ExistsBlockingForBooking - build select query: %w", ErrBuildQuery, err)
	}

	var id int64
	err = executor.QueryRowContext(ctx, query, args...).Scan(&id)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: ExistsBlockingForBooking - scan: %w", ErrScanRow, err)
	}

	return true, nil
}

// SetIntentID привязывает платёж к intent во внешнем шлюзе
func (r *Repository) SetIntentID(ctx context.Context, id int64, intentID string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("payments").
		Set("gateway_intent_id", intentID).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: SetIntentID - build update query: %w", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: SetIntentID - execute update: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: SetIntentID - get rows affected: %w", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrPaymentNotFound
	}

	return nil
}

// MarkCompleted переводит платёж pending -> completed
// Возвращает true, если переход применился. Guarded update по статусу —
// повторное применение события не даёт второго эффекта.
func (r *Repository) MarkCompleted(ctx context.Context, id int64) (bool, error) {
	return r.transition(ctx, "MarkCompleted", id,
		[]domain.PaymentStatus{domain.PaymentStatusPending},
		domain.PaymentStatusCompleted,
		nil,
	)
}

// MarkFailed переводит платёж pending -> failed с указанием причины
func (r *Repository) MarkFailed(ctx context.Context, id int64, reason string) (bool, error) {
	return r.transition(ctx, "MarkFailed", id,
		[]domain.PaymentStatus{domain.PaymentStatusPending},
		domain.PaymentStatusFailed,
		map[string]interface{}{"failure_reason": reason},
	)
}

// MarkRefunded переводит платёж {pending, completed} -> refunded.
// pending допускается из-за внеочередной доставки: уведомление о возврате
// может прийти раньше задержавшегося уведомления об успехе.
func (r *Repository) MarkRefunded(ctx context.Context, id int64, reason string) (bool, error) {
	return r.transition(ctx, "MarkRefunded", id,
		[]domain.PaymentStatus{domain.PaymentStatusPending, domain.PaymentStatusCompleted},
		domain.PaymentStatusRefunded,
		map[string]interface{}{"refund_reason": reason},
	)
}

// transition выполняет guarded update статуса платежа
func (r *Repository) transition(ctx context.Context, op string, id int64, from []domain.PaymentStatus, to domain.PaymentStatus, extra map[string]interface{}) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	fromStatuses := make([]string, len(from))
	for i, s := range from {
		fromStatuses[i] = string(s)
	}

	updateBuilder := psqlbuilder.Update("payments").
		Set("status", to).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "status": fromStatuses})

	for column, value := range extra {
		updateBuilder = updateBuilder.Set(column, value)
	}

	query, args, err := updateBuilder.ToSql()
	if err != nil {
		return false, fmt.Errorf("%w: %s - build update query: %w", ErrBuildQuery, op, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("%w: %s - execute update: %w", ErrExecQuery, op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%w: %s - get rows affected: %w", ErrExecQuery, op, err)
	}

	return rowsAffected > 0, nil
}

// TotalsByStatusForProvider возвращает количество и суммы платежей провайдера по статусам
func (r *Repository) TotalsByStatusForProvider(ctx context.Context, providerID int64) ([]StatusTotal, error) {
	return r.totalsByStatus(ctx, squirrel.Eq{"provider_id": providerID})
}

// TotalsByStatusForBuyer возвращает количество и суммы платежей покупателя по статусам
func (r *Repository) TotalsByStatusForBuyer(ctx context.Context, buyerID int64) ([]StatusTotal, error) {
	return r.totalsByStatus(ctx, squirrel.Eq{"buyer_id": buyerID})
}

func (r *Repository) totalsByStatus(ctx context.Context, where squirrel.Eq) ([]StatusTotal, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("status", "COUNT(*)", "COALESCE(SUM(amount), 0)").
		From("payments").
		Where(where).
		GroupBy("status").
		OrderBy("status ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: totalsByStatus - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: totalsByStatus - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	totals := make([]StatusTotal, 0)
	for rows.Next() {
		var st StatusTotal
		if err := rows.Scan(&st.Status, &st.Count, &st.Sum); err != nil {
			return nil, fmt.Errorf("%w: totalsByStatus - scan row: %w", ErrScanRow, err)
		}
		totals = append(totals, st)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: totalsByStatus - rows error: %w", ErrScanRow, err)
	}

	return totals, nil
}

// scanPaymentRow сканирует одну строку в domain.Payment
func (r *Repository) scanPaymentRow(row *sql.Row, op string) (*domain.Payment, error) {
	var payment domain.Payment
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&payment.ID,
		&payment.BookingID,
		&payment.BuyerID,
		&payment.ProviderID,
		&payment.Amount,
		&payment.Currency,
		&payment.Status,
		&payment.GatewayIntentID,
		&payment.IdempotencyKey,
		&payment.FailureReason,
		&payment.RefundReason,
		&createdAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrPaymentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s - scan payment: %w", ErrScanRow, op, err)
	}

	payment.CreatedAt = createdAt.Time
	payment.UpdatedAt = updatedAt.Time

	return &payment, nil
}

// scanPayments сканирует результаты запроса в слайс платежей
func (r *Repository) scanPayments(rows *sql.Rows) ([]*domain.Payment, error) {
	payments := make([]*domain.Payment, 0)

	for rows.Next() {
		var payment domain.Payment
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&payment.ID,
			&payment.BookingID,
			&payment.BuyerID,
			&payment.ProviderID,
			&payment.Amount,
			&payment.Currency,
			&payment.Status,
			&payment.GatewayIntentID,
			&payment.IdempotencyKey,
			&payment.FailureReason,
			&payment.RefundReason,
			&createdAt,
			&updatedAt,
		)

		if err != nil {
			return nil, fmt.Errorf("%w: scanPayments - scan row: %w", ErrScanRow, err)
		}

		payment.CreatedAt = createdAt.Time
		payment.UpdatedAt = updatedAt.Time

		payments = append(payments, &payment)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanPayments - rows error: %w", ErrScanRow, err)
	}

	return payments, nil
}
