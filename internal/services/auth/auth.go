// Package services содержит логику бизнес-уровня для аутентификации пользователей.
package services

import (
	"context"
	"errors"

	"github.com/techwave/project-manager/internal/lib/jwt"
	"github.com/techwave/project-manager/internal/lib/password"
	"github.com/techwave/project-manager/internal/models"
	"github.com/techwave/project-manager/internal/storage/repository"
)

// ErrInvalidCredentials возвращается при любой неудачной попытке входа.
// Текст намеренно не различает неизвестного пользователя и неверный пароль.
var ErrInvalidCredentials = errors.New("invalid username or password")

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	// FindUserByUsernameOrEmail возвращает пользователя по имени или email.
	FindUserByUsernameOrEmail(ctx context.Context, value string) (*models.User, error)
}

// AuthService отвечает за вход пользователей и выпуск JWT.
type AuthService struct {
	users    UserRepository
	jwtMaker jwt.Maker
}

// NewAuthService создает новый экземпляр AuthService.
func NewAuthService(users UserRepository, jwtMaker jwt.Maker) *AuthService {
	return &AuthService{
		users:    users,
		jwtMaker: jwtMaker,
	}
}

// Login проверяет учетные данные и генерирует JWT с ролью пользователя.
// Идентификатором может быть как имя пользователя, так и email.
func (s *AuthService) Login(ctx context.Context, login, rawPassword string) (string, *models.User, error) {
	user, err := s.users.FindUserByUsernameOrEmail(ctx, login)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}
	if !user.Active {
		return "", nil, ErrInvalidCredentials
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return "", nil, ErrInvalidCredentials
	}
	token, err := s.jwtMaker.GenerateToken(user.Username, []string{string(user.Role)})
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}
