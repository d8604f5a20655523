// Package create реализует HTTP-обработчик для создания вехи проекта.
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

	"github.com/techwave/project-manager/internal/authz"
	"github.com/techwave/project-manager/internal/http/middlewarectx"
	"github.com/techwave/project-manager/internal/http/response"
	"github.com/techwave/project-manager/internal/lib/sl"
	"github.com/techwave/project-manager/internal/models"
)

type Handler struct {
	log      *slog.Logger
	service  Service
	policy   Authorizer
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики создания вехи.
type Service interface {
	Create(ctx context.Context, req models.DummyMilestone) (int64, error)
}

// Authorizer проверяет право пользователя управлять вехами проекта.
type Authorizer interface {
	CanManageMilestone(ctx context.Context, ident models.Identity, projectID int64) error
}

func New(log *slog.Logger, service Service, policy Authorizer) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		policy:   policy,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Создать веху
// @Description Создает веху в проекте. Доступно администратору и менеджеру этого проекта.
// @Tags Milestones
// @Security BearerAuth
// @Accept  json
// @Produce  json
// @Param request body models.DummyMilestone true "Данные вехи"
// @Success 200 {object} map[string]any "ID созданной вехи"
// @Failure 400 {object} response.ErrorResponse "Некорректный запрос"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Failure 404 {object} response.ErrorResponse "Проект не найден"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /milestones [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.milestone.create"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyMilestone
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

	ident, ok := middlewarectx.IdentityFromContext(r.Context())
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("authentication required"))
		return
	}

	if err := h.policy.CanManageMilestone(r.Context(), ident, req.ProjectID); err != nil {
		switch {
		case errors.Is(err, authz.ErrResourceNotFound):
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("project not found"))
		case errors.Is(err, authz.ErrAccessDenied):
			log.Warn("access denied", slog.String("username", ident.Username), slog.Int64("project_id", req.ProjectID))
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("access denied"))
		default:
			log.Error("failed to check access", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("internal error"))
		}
		return
	}

	id, err := h.service.Create(r.Context(), req)
	if err != nil {
		log.Error("failed to create milestone", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not create milestone"))
		return
	}

	log.Info("created milestone", slog.Int64("id", id))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"id": id,
	}))
}
