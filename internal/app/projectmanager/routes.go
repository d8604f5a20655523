// Package projectmanager собирает HTTP-приложение: сервисы,
// проверки доступа и маршруты.
package projectmanager

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/techwave/project-manager/internal/authz"
	attachmentcreate "github.com/techwave/project-manager/internal/http/handlers/attachment/create"
	attachmentlist "github.com/techwave/project-manager/internal/http/handlers/attachment/list"
	attachmentread "github.com/techwave/project-manager/internal/http/handlers/attachment/read"
	attachmentremove "github.com/techwave/project-manager/internal/http/handlers/attachment/remove"
	attachmentupdate "github.com/techwave/project-manager/internal/http/handlers/attachment/update"
	"github.com/techwave/project-manager/internal/http/handlers/auth/login"
	"github.com/techwave/project-manager/internal/http/handlers/health"
	milestonecreate "github.com/techwave/project-manager/internal/http/handlers/milestone/create"
	milestonelist "github.com/techwave/project-manager/internal/http/handlers/milestone/list"
	milestoneread "github.com/techwave/project-manager/internal/http/handlers/milestone/read"
	milestoneremove "github.com/techwave/project-manager/internal/http/handlers/milestone/remove"
	milestoneupdate "github.com/techwave/project-manager/internal/http/handlers/milestone/update"
	projectcreate "github.com/techwave/project-manager/internal/http/handlers/project/create"
	projectlist "github.com/techwave/project-manager/internal/http/handlers/project/list"
	projectread "github.com/techwave/project-manager/internal/http/handlers/project/read"
	projectremove "github.com/techwave/project-manager/internal/http/handlers/project/remove"
	projectupdate "github.com/techwave/project-manager/internal/http/handlers/project/update"
	taskcreate "github.com/techwave/project-manager/internal/http/handlers/task/create"
	tasklist "github.com/techwave/project-manager/internal/http/handlers/task/list"
	taskread "github.com/techwave/project-manager/internal/http/handlers/task/read"
	taskremove "github.com/techwave/project-manager/internal/http/handlers/task/remove"
	taskupdate "github.com/techwave/project-manager/internal/http/handlers/task/update"
	usercreate "github.com/techwave/project-manager/internal/http/handlers/user/create"
	userlist "github.com/techwave/project-manager/internal/http/handlers/user/list"
	userread "github.com/techwave/project-manager/internal/http/handlers/user/read"
	userremove "github.com/techwave/project-manager/internal/http/handlers/user/remove"
	userupdate "github.com/techwave/project-manager/internal/http/handlers/user/update"
	"github.com/techwave/project-manager/internal/http/middlewarectx"
	"github.com/techwave/project-manager/internal/lib/jwt"
	"github.com/techwave/project-manager/internal/models"
	attachmentservice "github.com/techwave/project-manager/internal/services/attachment"
	authservice "github.com/techwave/project-manager/internal/services/auth"
	milestoneservice "github.com/techwave/project-manager/internal/services/milestone"
	projectservice "github.com/techwave/project-manager/internal/services/project"
	taskservice "github.com/techwave/project-manager/internal/services/task"
	userservice "github.com/techwave/project-manager/internal/services/user"
	"github.com/techwave/project-manager/internal/storage/repository"
)

// Services объединяет сервисы бизнес-уровня, необходимые маршрутам.
type Services struct {
	Auth       *authservice.AuthService
	User       *userservice.UserService
	Project    *projectservice.ProjectService
	Task       *taskservice.TaskService
	Milestone  *milestoneservice.MilestoneService
	Attachment *attachmentservice.AttachmentService
}

// RegisterRoutes регистрирует все маршруты приложения.
//
// Токен разбирается глобально: запрос без токена или с невалидным
// токеном продолжает обработку анонимно, а доступ ограничивают
// RequireAuth и RequireRoles на группах маршрутов.
func RegisterRoutes(r chi.Router, logger *slog.Logger, db *repository.Storage, services *Services, policy *authz.Policy, jwtMaker *jwt.MakerImpl) {
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middlewarectx.RateLimitMiddleware(logger))
		r.Use(middlewarectx.Authenticate(jwtMaker, logger))

		// Открытые конечные точки
		r.Post("/auth/login", login.New(logger, services.Auth).ServeHTTP)

		// Управление учетными записями, только для администратора
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.RequireRoles(logger, models.RoleAdmin))
			r.Post("/users", usercreate.New(logger, services.User).ServeHTTP)
			r.Get("/users", userlist.New(logger, services.User).ServeHTTP)
			r.Get("/users/{id}", userread.New(logger, services.User).ServeHTTP)
			r.Put("/users/{id}", userupdate.New(logger, services.User).ServeHTTP)
			r.Delete("/users/{id}", userremove.New(logger, services.User).ServeHTTP)
		})

		// Группа с обязательной аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.RequireAuth(logger))

			r.With(middlewarectx.RequireRoles(logger, models.RoleAdmin, models.RoleProjectManager)).
				Post("/projects", projectcreate.New(logger, services.Project).ServeHTTP)
			r.Get("/projects", projectlist.New(logger, services.Project).ServeHTTP)
			r.Get("/projects/{id}", projectread.New(logger, services.Project).ServeHTTP)
			r.Put("/projects/{id}", projectupdate.New(logger, services.Project, policy).ServeHTTP)
			r.Delete("/projects/{id}", projectremove.New(logger, services.Project, policy).ServeHTTP)

			r.Post("/tasks", taskcreate.New(logger, services.Task, policy).ServeHTTP)
			r.Get("/tasks", tasklist.New(logger, services.Task).ServeHTTP)
			r.Get("/tasks/{id}", taskread.New(logger, services.Task).ServeHTTP)
			r.Put("/tasks/{id}", taskupdate.New(logger, services.Task, policy).ServeHTTP)
			r.Delete("/tasks/{id}", taskremove.New(logger, services.Task, policy).ServeHTTP)

			r.Post("/milestones", milestonecreate.New(logger, services.Milestone, policy).ServeHTTP)
			r.Get("/milestones", milestonelist.New(logger, services.Milestone).ServeHTTP)
			r.Get("/milestones/{id}", milestoneread.New(logger, services.Milestone).ServeHTTP)
			r.Put("/milestones/{id}", milestoneupdate.New(logger, services.Milestone, policy).ServeHTTP)
			r.Delete("/milestones/{id}", milestoneremove.New(logger, services.Milestone, policy).ServeHTTP)

			r.Post("/attachments", attachmentcreate.New(logger, services.Attachment).ServeHTTP)
			r.Get("/attachments", attachmentlist.New(logger, services.Attachment).ServeHTTP)
			r.Get("/attachments/{id}", attachmentread.New(logger, services.Attachment).ServeHTTP)
			r.Put("/attachments/{id}", attachmentupdate.New(logger, services.Attachment, policy).ServeHTTP)
			r.Delete("/attachments/{id}", attachmentremove.New(logger, services.Attachment, policy).ServeHTTP)
		})
	})

	r.Get("/health", health.New(logger, db).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
