// Package gatewayevent журнал обработанных событий платёжного шлюза.
// Первичный ключ по event_id — это и есть защита от повторной доставки:
// событие применяется ровно один раз.
package gatewayevent

import (
	"context"
	"fmt"

	"github.com/m04kA/SMC-ReservationService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ReservationService/pkg/psqlbuilder"
)

// DBExecutor интерфейс выполнения запросов из dbmetrics
type DBExecutor = dbmetrics.DBExecutor

// Repository репозиторий журнала событий шлюза
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория журнала событий
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// MarkProcessed фиксирует событие как обработанное.
// Возвращает false, если событие с таким ID уже было обработано
// (ON CONFLICT DO NOTHING не вставляет строку повторно).
// Вызывается в одной транзакции с применением эффектов события:
// откат транзакции снимает и отметку, так что redelivery безопасна.
func (r *Repository) MarkProcessed(ctx context.Context, eventID, intentID, kind string) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("gateway_events").
		Columns("event_id", "intent_id", "kind").
		Values(eventID, intentID, kind).
		Suffix("ON CONFLICT (event_id) DO NOTHING").
		ToSql()

	if err != nil {
		return false, fmt.Errorf("%w: MarkProcessed - build insert query: %w", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("%w: MarkProcessed - execute insert: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%w: MarkProcessed - get rows affected: %w", ErrExecQuery, err)
	}

	return rowsAffected > 0, nil
}
