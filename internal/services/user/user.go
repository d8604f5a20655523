// Package services содержит бизнес-логику управления учетными записями пользователей.
package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/techwave/project-manager/internal/lib/password"
	"github.com/techwave/project-manager/internal/models"
)

// ErrPasswordRequired возвращается при попытке создать пользователя без пароля.
var ErrPasswordRequired = errors.New("password is required")

// UserRepository определяет методы для работы с пользователями в хранилище.
type UserRepository interface {
	// CreateUser сохраняет нового пользователя и возвращает его ID.
	CreateUser(ctx context.Context, user models.User) (int64, error)
	// GetUser возвращает пользователя по ID.
	GetUser(ctx context.Context, id int64) (*models.User, error)
	// ListUsers возвращает список пользователей с пагинацией.
	ListUsers(ctx context.Context, limit, offset int) ([]*models.User, error)
	// UpdateUser обновляет данные пользователя по ID.
	UpdateUser(ctx context.Context, user models.User, id int64) (int, error)
	// DeactivateUser помечает учетную запись неактивной.
	DeactivateUser(ctx context.Context, id int64) (int, error)
}

// UserService реализует операции над учетными записями.
// Физическое удаление не поддерживается: на пользователей ссылаются
// проекты и задачи, вместо удаления учетная запись деактивируется.
type UserService struct {
	repo UserRepository
	log  *slog.Logger
}

// NewUserService создает новый экземпляр UserService.
func NewUserService(repo UserRepository, log *slog.Logger) *UserService {
	return &UserService{repo: repo, log: log}
}

// Create регистрирует нового пользователя с хэшированием пароля.
// Если роль не указана, назначается DEVELOPER.
func (s *UserService) Create(ctx context.Context, req models.DummyUser) (int64, error) {
	if req.Password == "" {
		return 0, ErrPasswordRequired
	}
	hashed, err := password.GetHash(req.Password)
	if err != nil {
		return 0, err
	}
	role := models.Role(req.Role)
	if role == "" {
		role = models.RoleDeveloper
	}
	user := models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hashed,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Role:         role,
		Active:       true,
	}
	id, err := s.repo.CreateUser(ctx, user)
	if err != nil {
		return 0, err
	}
	s.log.Info("created new user", slog.Int64("id", id), slog.String("role", string(role)))
	return id, nil
}

// Read возвращает пользователя по ID.
func (s *UserService) Read(ctx context.Context, id int64) (*models.User, error) {
	return s.repo.GetUser(ctx, id)
}

// List возвращает список пользователей с пагинацией.
func (s *UserService) List(ctx context.Context, limit, offset int) ([]*models.User, error) {
	return s.repo.ListUsers(ctx, limit, offset)
}

// Update обновляет данные учетной записи. Пароль перехэшируется
// только если в запросе передан новый.
func (s *UserService) Update(ctx context.Context, req models.DummyUser, id int64) (int, error) {
	existing, err := s.repo.GetUser(ctx, id)
	if err != nil {
		return 0, err
	}

	hash := existing.PasswordHash
	if req.Password != "" {
		hash, err = password.GetHash(req.Password)
		if err != nil {
			return 0, err
		}
	}
	role := models.Role(req.Role)
	if role == "" {
		role = existing.Role
	}
	user := models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Role:         role,
		Active:       existing.Active,
	}
	return s.repo.UpdateUser(ctx, user, id)
}

// Deactivate помечает учетную запись неактивной.
func (s *UserService) Deactivate(ctx context.Context, id int64) (int, error) {
	count, err := s.repo.DeactivateUser(ctx, id)
	if err != nil {
		return 0, err
	}
	s.log.Info("deactivated user", slog.Int64("id", id))
	return count, nil
}
