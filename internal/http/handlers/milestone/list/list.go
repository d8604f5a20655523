// Package list реализует HTTP-обработчик для получения списка вех.
package list

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/techwave/project-manager/internal/http/response"
	"github.com/techwave/project-manager/internal/lib/sl"
	"github.com/techwave/project-manager/internal/models"
)

type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики списка вех.
type Service interface {
	List(ctx context.Context, filter models.MilestoneFilter, limit, offset int) ([]*models.Milestone, error)
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Список вех
// @Description Возвращает список вех с фильтрами и пагинацией.
// @Tags Milestones
// @Security BearerAuth
// @Produce  json
// @Param project_id query int false "ID проекта"
// @Param pending_only query bool false "Только недостигнутые вехи"
// @Param due_before query string false "Контрольная дата не позже (2006-01-02)"
// @Param limit query int false "Размер страницы" default(10)
// @Param offset query int false "Смещение" default(0)
// @Success 200 {object} map[string]any "Список вех"
// @Failure 400 {object} response.ErrorResponse "Некорректный фильтр"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /milestones [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.milestone.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	query := r.URL.Query()
	var filter models.MilestoneFilter
	if raw := query.Get("project_id"); raw != "" {
		projectID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			log.Error("failed to decode project_id from query", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid project_id"))
			return
		}
		filter.ProjectID = projectID
	}
	if raw := query.Get("pending_only"); raw != "" {
		pendingOnly, err := strconv.ParseBool(raw)
		if err != nil {
			log.Error("failed to decode pending_only from query", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid pending_only"))
			return
		}
		filter.PendingOnly = pendingOnly
	}
	if raw := query.Get("due_before"); raw != "" {
		dueBefore, err := time.Parse("2006-01-02", raw)
		if err != nil {
			log.Error("failed to decode due_before from query", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid due_before"))
			return
		}
		filter.DueBefore = &dueBefore
	}

	limit, err := strconv.Atoi(query.Get("limit"))
	if err != nil || limit <= 0 {
		limit = 10
	}
	offset, err := strconv.Atoi(query.Get("offset"))
	if err != nil || offset < 0 {
		offset = 0
	}

	res, err := h.service.List(r.Context(), filter, limit, offset)
	if err != nil {
		log.Error("failed to list milestones", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list milestones"))
		return
	}

	log.Info("list milestones", "count", len(res))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"list_count": len(res),
		"milestones": res,
	}))
}
