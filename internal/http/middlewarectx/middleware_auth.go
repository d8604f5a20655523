// Package middlewarectx содержит HTTP middleware для обработки JWT токенов
// и проверки прав доступа.
//
// Authenticate разбирает JWT из заголовка Authorization и при успехе кладет
// в контекст имя пользователя и роль. Запрос без токена или с некорректным
// токеном продолжается анонимно: решение об отказе принимают RequireAuth
// и RequireRoles уже на конкретных маршрутах.
package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/techwave/project-manager/internal/http/response"
	"github.com/techwave/project-manager/internal/lib/sl"
	"github.com/techwave/project-manager/internal/models"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

const (
	// User — ключ для имени пользователя в контексте
	User Key = "username"
	// Role — ключ для роли пользователя в контексте
	Role Key = "role"
)

// IdentityFromContext извлекает личность аутентифицированного пользователя
// из контекста запроса. Возвращает false для анонимного запроса.
func IdentityFromContext(ctx context.Context) (models.Identity, bool) {
	username, ok := ctx.Value(User).(string)
	if !ok || username == "" {
		return models.Identity{}, false
	}
	role, _ := ctx.Value(Role).(string)
	return models.Identity{Username: username, Role: models.Role(role)}, true
}

// Authenticate возвращает HTTP middleware, который разбирает JWT из заголовка
// Authorization и добавляет имя пользователя и роль в контекст запроса.
//
// Ошибки разбора токена не прерывают запрос: просроченный или поврежденный
// токен эквивалентен его отсутствию.
func Authenticate(maker TokenParser, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.Authenticate"
			authHeader := r.Header.Get("Authorization")

			if !strings.HasPrefix(authHeader, "Bearer ") {
				next.ServeHTTP(w, r)
				return
			}
			tokenStr := strings.TrimPrefix(authHeader, "Bearer ")

			claims, err := maker.ParseToken(tokenStr)
			if err != nil {
				log.Debug("ignoring invalid token",
					slog.String("op", op),
					slog.String("request_id", middleware.GetReqID(r.Context())),
					sl.Err(err))
				next.ServeHTTP(w, r)
				return
			}

			role := ""
			if len(claims.Roles) > 0 {
				role = claims.Roles[0]
			}
			ctx := context.WithValue(r.Context(), User, claims.Subject)
			ctx = context.WithValue(ctx, Role, role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth возвращает middleware, отклоняющий анонимные запросы
// с HTTP статусом 401 Unauthorized.
func RequireAuth(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.RequireAuth"

			if _, ok := IdentityFromContext(r.Context()); !ok {
				log.Error("authentication required",
					slog.String("op", op),
					slog.String("request_id", middleware.GetReqID(r.Context())))
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("authentication required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireRoles возвращает middleware, пропускающий только пользователей
// с одной из перечисленных ролей. Анонимный запрос получает 401,
// аутентифицированный с недостаточной ролью — 403.
func RequireRoles(log *slog.Logger, roles ...models.Role) func(http.Handler) http.Handler {
	allowed := make(map[models.Role]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.RequireRoles"

			identity, ok := IdentityFromContext(r.Context())
			if !ok {
				log.Error("authentication required",
					slog.String("op", op),
					slog.String("request_id", middleware.GetReqID(r.Context())))
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("authentication required"))
				return
			}
			if _, ok := allowed[identity.Role]; !ok {
				log.Error("access denied",
					slog.String("op", op),
					slog.String("request_id", middleware.GetReqID(r.Context())),
					slog.String("username", identity.Username),
					slog.String("role", string(identity.Role)))
				render.Status(r, http.StatusForbidden)
				render.JSON(w, r, response.Error("access denied"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
