// Package list реализует HTTP-обработчик для получения списка вложений.
package list

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

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

// Service описывает интерфейс бизнес-логики списка вложений.
type Service interface {
	List(ctx context.Context, filter models.AttachmentFilter, limit, offset int) ([]*models.Attachment, error)
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Список вложений
// @Description Возвращает список вложений с фильтрами и пагинацией.
// @Tags Attachments
// @Security BearerAuth
// @Produce  json
// @Param task_id query int false "ID задачи"
// @Param project_id query int false "ID проекта"
// @Param uploaded_by query int false "ID загрузившего пользователя"
// @Param limit query int false "Размер страницы" default(10)
// @Param offset query int false "Смещение" default(0)
// @Success 200 {object} map[string]any "Список вложений"
// @Failure 400 {object} response.ErrorResponse "Некорректный фильтр"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /attachments [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.attachment.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	query := r.URL.Query()
	var filter models.AttachmentFilter
	if raw := query.Get("task_id"); raw != "" {
		taskID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			log.Error("failed to decode task_id from query", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid task_id"))
			return
		}
		filter.TaskID = taskID
	}
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
	if raw := query.Get("uploaded_by"); raw != "" {
		uploadedBy, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			log.Error("failed to decode uploaded_by from query", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid uploaded_by"))
			return
		}
		filter.UploadedByID = uploadedBy
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
		log.Error("failed to list attachments", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list attachments"))
		return
	}

	log.Info("list attachments", "count", len(res))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"list_count":  len(res),
		"attachments": res,
	}))
}
