package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/m04kA/SMC-ReservationService/internal/api/handlers"
	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

type contextKey string

const actorKey contextKey = "actor"

// Заголовки идентификации, проставляемые API-шлюзом
const (
	HeaderUserID   = "X-User-ID"
	HeaderUserRole = "X-User-Role"
)

// Auth извлекает идентичность вызывающего из заголовков запроса.
// X-User-ID обязателен; X-User-Role принимает buyer|provider|admin,
// при отсутствии роль по умолчанию buyer.
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userIDStr := r.Header.Get(HeaderUserID)
		if userIDStr == "" {
			handlers.RespondUnauthorized(w, "отсутствует заголовок X-User-ID")
			return
		}

		userID, err := strconv.ParseInt(userIDStr, 10, 64)
		if err != nil || userID <= 0 {
			handlers.RespondUnauthorized(w, "некорректный заголовок X-User-ID")
			return
		}

		role := domain.Role(r.Header.Get(HeaderUserRole))
		if role == "" {
			role = domain.RoleBuyer
		}
		if !role.IsValid() {
			handlers.RespondUnauthorized(w, "некорректный заголовок X-User-Role")
			return
		}

		ctx := context.WithValue(r.Context(), actorKey, domain.Actor{UserID: userID, Role: role})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetActor возвращает идентичность вызывающего из контекста
func GetActor(ctx context.Context) (domain.Actor, bool) {
	actor, ok := ctx.Value(actorKey).(domain.Actor)
	return actor, ok
}

// GetUserID возвращает ID вызывающего из контекста
func GetUserID(ctx context.Context) (int64, bool) {
	actor, ok := GetActor(ctx)
	return actor.UserID, ok
}
