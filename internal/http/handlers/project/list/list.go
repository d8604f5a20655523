// Package list реализует HTTP-обработчик для получения списка проектов.
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

// Service описывает интерфейс бизнес-логики списка проектов.
type Service interface {
	List(ctx context.Context, filter models.ProjectFilter, limit, offset int) ([]*models.Project, error)
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Список проектов
// @Description Возвращает список проектов с фильтрами и пагинацией.
// @Tags Projects
// @Security BearerAuth
// @Produce  json
// @Param name query string false "Подстрока названия"
// @Param status query string false "Статус проекта"
// @Param manager_id query int false "ID менеджера"
// @Param start_date_after query string false "Проекты, начатые после даты (YYYY-MM-DD)"
// @Param limit query int false "Размер страницы" default(10)
// @Param offset query int false "Смещение" default(0)
// @Success 200 {object} map[string]any "Список проектов"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /projects [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.project.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	query := r.URL.Query()
	filter := models.ProjectFilter{
		Name:   query.Get("name"),
		Status: query.Get("status"),
	}
	if raw := query.Get("manager_id"); raw != "" {
		managerID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			log.Error("failed to decode manager_id from query", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid manager_id"))
			return
		}
		filter.ManagerID = managerID
	}
	if raw := query.Get("start_date_after"); raw != "" {
		startDateAfter, err := time.Parse("2006-01-02", raw)
		if err != nil {
			log.Error("failed to decode start_date_after from query", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid start_date_after"))
			return
		}
		filter.StartDateAfter = &startDateAfter
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
		log.Error("failed to list projects", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list projects"))
		return
	}

	log.Info("list projects", "count", len(res))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"list_count": len(res),
		"projects":   res,
	}))
}
