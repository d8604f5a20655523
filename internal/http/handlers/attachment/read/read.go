// Package read реализует HTTP-обработчик для получения вложения по ID.
package read

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/techwave/project-manager/internal/http/response"
	"github.com/techwave/project-manager/internal/lib/sl"
	"github.com/techwave/project-manager/internal/models"
	"github.com/techwave/project-manager/internal/storage/repository"
)

type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики чтения вложения.
type Service interface {
	Read(ctx context.Context, id int64) (*models.Attachment, error)
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Получить вложение
// @Description Возвращает метаданные вложения по ID. Доступно любому аутентифицированному пользователю.
// @Tags Attachments
// @Security BearerAuth
// @Produce  json
// @Param id path int true "ID вложения"
// @Success 200 {object} map[string]any "Метаданные вложения"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Вложение не найдено"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /attachments/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.attachment.read"

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

	attachment, err := h.service.Read(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("attachment not found"))
			return
		}
		log.Error("failed to read attachment", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not read attachment"))
		return
	}

	log.Info("read attachment", slog.Int64("id", id))
	render.JSON(w, r, response.StatusOKWithData(attachment))
}
