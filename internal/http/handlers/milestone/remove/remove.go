// Package remove реализует HTTP-обработчик для удаления вехи.
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

// Service описывает интерфейс бизнес-логики удаления вехи.
// Read нужен, чтобы определить проект вехи до проверки прав.
type Service interface {
	Read(ctx context.Context, id int64) (*models.Milestone, error)
	Remove(ctx context.Context, id int64) (int, error)
}

// Authorizer проверяет право пользователя управлять вехами проекта.
type Authorizer interface {
	CanManageMilestone(ctx context.Context, ident models.Identity, projectID int64) error
}

func New(log *slog.Logger, service Service, policy Authorizer) *Handler {
	return &Handler{
		log:     log,
		service: service,
		policy:  policy,
	}
}

// ServeHTTP godoc
// @Summary Удалить веху
// @Description Удаляет веху проекта. Доступно администратору и менеджеру владеющего проекта.
// @Tags Milestones
// @Security BearerAuth
// @Produce  json
// @Param id path int true "ID вехи"
// @Success 200 {object} map[string]any "Количество удаленных записей"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Failure 404 {object} response.ErrorResponse "Веха не найдена"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /milestones/{id} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.milestone.remove"

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

	existing, err := h.service.Read(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("milestone not found"))
			return
		}
		log.Error("failed to read milestone", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal error"))
		return
	}

	if err := h.policy.CanManageMilestone(r.Context(), ident, existing.ProjectID); err != nil {
		switch {
		case errors.Is(err, authz.ErrResourceNotFound):
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("milestone not found"))
		case errors.Is(err, authz.ErrAccessDenied):
			log.Warn("access denied", slog.String("username", ident.Username), slog.Int64("milestone_id", id))
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
			render.JSON(w, r, response.Error("milestone not found"))
			return
		}
		log.Error("failed to remove milestone", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not remove milestone"))
		return
	}

	log.Info("removed milestone", slog.Int64("id", id))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"removed_count": count,
	}))
}
