package projectmanager

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/techwave/project-manager/internal/authz"
	"github.com/techwave/project-manager/internal/cache"
	"github.com/techwave/project-manager/internal/config"
	"github.com/techwave/project-manager/internal/lib/jwt"
	"github.com/techwave/project-manager/internal/migrations"
	"github.com/techwave/project-manager/internal/rabbitmq"
	attachmentservice "github.com/techwave/project-manager/internal/services/attachment"
	authservice "github.com/techwave/project-manager/internal/services/auth"
	milestoneservice "github.com/techwave/project-manager/internal/services/milestone"
	projectservice "github.com/techwave/project-manager/internal/services/project"
	taskservice "github.com/techwave/project-manager/internal/services/task"
	userservice "github.com/techwave/project-manager/internal/services/user"
	"github.com/techwave/project-manager/internal/storage/repository"
)

type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
	conn   *amqp.Connection
	ch     *amqp.Channel
}

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, "./migrations"); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	conn, err := rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		return nil, err
	}
	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.GetNotificationQueues())
	if err != nil {
		conn.Close()
		return nil, err
	}
	publisher := rabbitmq.NewTaskEventPublisher(ch)

	jwtMaker := jwt.NewMaker(cfg.JWTSecretKey, cfg.TokenTTL)
	policy := authz.NewPolicy(db)

	services := &Services{
		Auth:       authservice.NewAuthService(db, jwtMaker),
		User:       userservice.NewUserService(db, logger),
		Project:    projectservice.NewProjectService(db, cacheRedis, logger),
		Task:       taskservice.NewTaskService(db, cacheRedis, publisher, logger),
		Milestone:  milestoneservice.NewMilestoneService(db, logger),
		Attachment: attachmentservice.NewAttachmentService(db, logger),
	}

	router := chi.NewRouter()
	RegisterRoutes(router, logger, db, services, policy, jwtMaker)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
		conn:   conn,
		ch:     ch,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		if cerr := a.ch.Close(); cerr != nil {
			a.logger.Error("failed to close channel", slog.Any("err", cerr))
		}
		if cerr := a.conn.Close(); cerr != nil {
			a.logger.Error("failed to close connection", slog.Any("err", cerr))
		}
		a.db.DB.Close()
		return err
	}
}
