// Package remove реализует HTTP-обработчик для удаления вложения.
package remove

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/techwave/project-manager/internal/authz"
	"github.com/techwave/project-manager/internal/http/middlewarectx"
	"github.com/techwave/project-manager/internal/http/response"
	"github.com/techwave/project-manager/internal/lib/sl"
	"github.com/techwave/project-manager/internal/models"
	"github.com/techwave/project-manager/internal/storage/repository"
)

type Handler struct {
	log     *slog.Logger
	service Service
	policy  Authorizer
}

// Service описывает интерфейс бизнес-логики удаления вложения.
type Service interface {
	Remove(ctx context.Context, id int64) (int, error)
}

// Authorizer проверяет право пользователя управлять вложением.
type Authorizer interface {
	CanManageAttachment(ctx context.Context, ident models.Identity, attachmentID int64) error
}

func New(log *slog.Logger, service Service, policy Authorizer) *Handler {
	return &Handler{
		log:     log,
		service: service,
		policy:  policy,
	}
}

// ServeHTTP godoc
// @Summary Удалить вложение
// @Description Удаляет метаданные вложения по ID. Доступно администратору, загрузившему пользователю и менеджеру владеющего проекта.
// @Tags Attachments
// @Security BearerAuth
// @Produce  json
// @Param id path int true "ID вложения"
// @Success 200 {object} map[string]any "Количество удаленных записей"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Failure 404 {object} response.ErrorResponse "Вложение не найдено"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /attachments/{id} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.attachment.remove"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		log.Error("failed to decode id from url", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("failed to decode id from url"))
		return
	}

	ident, ok := middlewarectx.IdentityFromContext(r.Context())
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("authentication required"))
		return
	}

	if err := h.policy.CanManageAttachment(r.Context(), ident, id); err != nil {
		switch {
		case errors.Is(err, authz.ErrResourceNotFound):
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("attachment not found"))
		case errors.Is(err, authz.ErrAccessDenied):
			log.Warn("access denied", slog.String("username", ident.Username), slog.Int64("attachment_id", id))
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("access denied"))
		default:
			log.Error("failed to check access", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("internal error"))
		}
		return
	}

	count, err := h.service.Remove(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("attachment not found"))
			return
		}
		log.Error("failed to remove attachment", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not remove attachment"))
		return
	}

	log.Info("removed attachment", slog.Int64("id", id))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"removed_count": count,
	}))
}
