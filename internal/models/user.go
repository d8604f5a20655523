package models

import "time"

// User представляет зарегистрированного пользователя системы.
type User struct {
	ID           int64     // Уникальный идентификатор пользователя
	Username     string    // Имя пользователя (уникальное)
	Email        string    // Электронная почта (уникальная)
	PasswordHash string    // Хэш пароля пользователя
	FirstName    string    // Имя
	LastName     string    // Фамилия
	Role         Role      // Роль пользователя: ADMIN, PROJECT_MANAGER или DEVELOPER
	Active       bool      // Признак активности учётной записи (мягкая деактивация)
	CreatedAt    time.Time // Дата создания учётной записи
}

// DummyUser используется для приёма данных пользователя из JSON-запроса,
// прежде чем конвертировать их в User.
type DummyUser struct {
	Username  string `json:"username" validate:"required,min=3,max=50"`                       // Имя пользователя
	Email     string `json:"email" validate:"required,email"`                                 // Электронная почта
	Password  string `json:"password" validate:"omitempty,min=6"`                             // Пароль в открытом виде, при обновлении может отсутствовать
	FirstName string `json:"first_name" validate:"required,max=100"`                          // Имя
	LastName  string `json:"last_name" validate:"required,max=100"`                           // Фамилия
	Role      string `json:"role" validate:"omitempty,oneof=ADMIN PROJECT_MANAGER DEVELOPER"` // Роль
}

// Identity представляет аутентифицированную личность запроса,
// восстановленную из JWT. Живет только в контексте одного запроса,
// между запросами состояние не сохраняется.
type Identity struct {
	Username string // Субъект токена
	Role     Role   // Роль из claims токена
}

// IsAdmin возвращает true, если личность имеет роль администратора.
func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}
