// auth.go — middleware сессионной аутентификации по заголовку X-Token.
// Токен резолвится в userId через session.Store; userId помещается
// в контекст запроса для downstream handlers.
package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	apierrors "github.com/bigkaa/gofilehub/internal/api/errors"
	"github.com/bigkaa/gofilehub/internal/session"
)

// TokenHeader — заголовок с сессионным токеном.
const TokenHeader = "X-Token"

// contextKey — тип для ключей контекста (избегаем коллизий).
type contextKey string

const (
	// ContextKeyUserID — идентификатор аутентифицированного пользователя.
	ContextKeyUserID contextKey = "user_id"
	// ContextKeyToken — сессионный токен запроса.
	ContextKeyToken contextKey = "session_token"
)

// SessionResolver — резолвинг токена в userId (реализуется session.Store).
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (string, error)
}

// SessionAuth — middleware сессионной аутентификации.
type SessionAuth struct {
	sessions SessionResolver
	logger   *slog.Logger
}

// NewSessionAuth создаёт middleware аутентификации.
func NewSessionAuth(sessions SessionResolver, logger *slog.Logger) *SessionAuth {
	return &SessionAuth{
		sessions: sessions,
		logger:   logger.With(slog.String("component", "session_auth")),
	}
}

// Required возвращает middleware, отклоняющий запросы без живой сессии.
// Отсутствующий, неизвестный и истёкший токен неразличимы: 401 Unauthorized.
func (a *SessionAuth) Required() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := r.Header.Get(TokenHeader)
			if token == "" {
				apierrors.Unauthorized(w, "Unauthorized")
				return
			}

			userID, err := a.sessions.Resolve(r.Context(), token)
			if err != nil {
				if errors.Is(err, session.ErrNotFound) {
					apierrors.Unauthorized(w, "Unauthorized")
					return
				}
				a.logger.Error("Ошибка резолвинга сессии",
					slog.String("error", err.Error()),
				)
				apierrors.InternalError(w, "Internal error")
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyUserID, userID)
			ctx = context.WithValue(ctx, ContextKeyToken, token)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Optional возвращает middleware, резолвящий токен без отклонения запроса.
// Используется на пути скачивания: публичные файлы доступны анонимно,
// невалидный токен эквивалентен его отсутствию.
func (a *SessionAuth) Optional() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := r.Header.Get(TokenHeader)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			userID, err := a.sessions.Resolve(r.Context(), token)
			if err != nil {
				// Анонимный доступ: ошибка резолвинга не фатальна
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyUserID, userID)
			ctx = context.WithValue(ctx, ContextKeyToken, token)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserIDFromContext извлекает userId из контекста запроса.
// Возвращает пустую строку для анонимного запроса.
func UserIDFromContext(ctx context.Context) string {
	userID, _ := ctx.Value(ContextKeyUserID).(string)
	return userID
}

// TokenFromContext извлекает сессионный токен из контекста запроса.
func TokenFromContext(ctx context.Context) string {
	token, _ := ctx.Value(ContextKeyToken).(string)
	return token
}
