package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dkurilov/postboard/internal/handlers"
	"github.com/dkurilov/postboard/internal/token"
)

// AuthMiddleware создает middleware для проверки access token.
// Доверие токену полностью делегировано подписи: хранилище на этом
// пути не читается, проверка O(1) на каждый запрос.
// Отсутствующий токен — 401, невалидный или истекший — 403
func AuthMiddleware(logger *slog.Logger, codec *token.Codec) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Извлекаем токен из заголовка Authorization
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				logger.Warn("Missing Authorization header")
				http.Error(w, "Unauthorized: missing token", http.StatusUnauthorized)
				return
			}

			// Ожидаем формат: "Bearer <token>"
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
				logger.Warn("Invalid Authorization header format")
				http.Error(w, "Unauthorized: invalid token format", http.StatusUnauthorized)
				return
			}

			// Валидируем токен
			userID, err := codec.VerifyAccess(parts[1])
			if err != nil {
				logger.Warn("Invalid access token", "error", err)
				http.Error(w, "Forbidden: invalid or expired token", http.StatusForbidden)
				return
			}

			// Добавляем ID пользователя в контекст
			ctx := context.WithValue(r.Context(), handlers.UserIDKey, userID)

			logger.Debug("User authenticated", "user_id", userID)

			// Передаем запрос дальше с обновленным контекстом
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
