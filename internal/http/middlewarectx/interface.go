package middlewarectx

import (
	"github.com/techwave/project-manager/internal/lib/jwt"
)

// TokenParser описывает интерфейс разбора JWT токена.
type TokenParser interface {
	ParseToken(tokenStr string) (*jwt.Claims, error)
}
