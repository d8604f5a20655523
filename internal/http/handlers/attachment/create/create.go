// Package create реализует HTTP-обработчик для регистрации вложения.
//
// Принимаются только метаданные файла: имя, MIME-тип, размер и
// привязка к задаче или проекту. Ключ во внешнем хранилище
// генерируется сервисом.
package create

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"github.com/techwave/project-manager/internal/http/middlewarectx"
	"github.com/techwave/project-manager/internal/http/response"
	"github.com/techwave/project-manager/internal/lib/sl"
	"github.com/techwave/project-manager/internal/models"
	services "github.com/techwave/project-manager/internal/services/attachment"
)

type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики регистрации вложения.
type Service interface {
	Create(ctx context.Context, req models.DummyAttachment, username string) (int64, error)
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Зарегистрировать вложение
// @Description Сохраняет метаданные файла, прикрепленного к задаче или проекту. Загрузившим считается текущий пользователь.
// @Tags Attachments
// @Security BearerAuth
// @Accept  json
// @Produce  json
// @Param request body models.DummyAttachment true "Метаданные вложения"
// @Success 200 {object} map[string]any "ID созданного вложения"
// @Failure 400 {object} response.ErrorResponse "Некорректный запрос"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /attachments [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.attachment.create"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	ident, ok := middlewarectx.IdentityFromContext(r.Context())
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("authentication required"))
		return
	}

	var req models.DummyAttachment
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	id, err := h.service.Create(r.Context(), req, ident.Username)
	if err != nil {
		if errors.Is(err, services.ErrTargetRequired) {
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("attachment must reference a task or a project"))
			return
		}
		log.Error("failed to create attachment", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not create attachment"))
		return
	}

	log.Info("created attachment", slog.Int64("id", id))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"id": id,
	}))
}
