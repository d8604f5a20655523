package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Ошибки проверки токена. Вызывающая сторона обязана трактовать любую
// из них как "запрос не аутентифицирован", а не как фатальный сбой.
var (
	// ErrTokenMalformed — токен структурно некорректен.
	ErrTokenMalformed = errors.New("token is malformed")
	// ErrTokenExpired — срок действия токена истёк.
	ErrTokenExpired = errors.New("token is expired")
	// ErrTokenSignatureInvalid — подпись не прошла проверку.
	ErrTokenSignatureInvalid = errors.New("token signature is invalid")
	// ErrTokenUnsupported — неподдерживаемый алгоритм или формат.
	ErrTokenUnsupported = errors.New("token is unsupported")
)

// Claims описывает данные, хранящиеся в JWT: субъект в стандартном
// claim "sub" и список ролей в кастомном claim "roles".
type Claims struct {
	Roles                []string `json:"roles"` // Роли пользователя
	jwt.RegisteredClaims          // Встроенные стандартные claims JWT (Subject, ExpiresAt, IssuedAt и пр.)
}

// GenerateToken выпускает JWT с заданными субъектом и ролями,
// подписывая его секретным ключом. Время жизни определяется tokenTTL.
func (j *MakerImpl) GenerateToken(subject string, roles []string) (string, error) {
	const op = "jwt.GenerateToken"
	now := time.Now()
	claims := Claims{
		Roles: roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.tokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(j.secretKey))
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return signed, nil
}

// ParseToken парсит JWT, проверяет подпись и срок действия,
// возвращает Claims с данными, если токен корректен.
//
// Ошибки библиотеки сводятся к сентинельным ошибкам пакета,
// чтобы вызывающие могли различать причины через errors.Is.
func (j *MakerImpl) ParseToken(tokenStr string) (*Claims, error) {
	const op = "jwt.ParseToken"
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenUnsupported
		}
		return []byte(j.secretKey), nil
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrTokenUnsupported):
			return nil, ErrTokenUnsupported
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, ErrTokenMalformed
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrTokenSignatureInvalid
		default:
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("%s: %w", op, ErrTokenMalformed)
	}
	return claims, nil
}
