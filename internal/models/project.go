package models

import "time"

// Статусы проекта.
const (
	ProjectStatusPending    = "PENDING"
	ProjectStatusInProgress = "IN_PROGRESS"
	ProjectStatusCompleted  = "COMPLETED"
	ProjectStatusCancelled  = "CANCELLED"
)

// Project представляет проект с единственным менеджером.
type Project struct {
	ID              int64      // Уникальный идентификатор проекта
	Name            string     // Название проекта
	Description     string     // Описание
	StartDate       time.Time  // Дата начала
	ExpectedEndDate *time.Time // Ожидаемая дата завершения, может отсутствовать
	Status          string     // Статус: PENDING, IN_PROGRESS, COMPLETED, CANCELLED
	Budget          float64    // Бюджет проекта
	ManagerID       int64      // Идентификатор менеджера проекта
	CreatedAt       time.Time  // Дата создания записи
	UpdatedAt       time.Time  // Дата последнего обновления
}

// DummyProject используется для приёма данных проекта из JSON-запроса.
// Даты приходят в виде строк формата 2006-01-02 и парсятся вручную.
type DummyProject struct {
	Name            string  `json:"name" validate:"required,max=255"`                                          // Название
	Description     string  `json:"description"`                                                               // Описание
	StartDate       string  `json:"start_date" validate:"required,datetime=2006-01-02"`                        // Дата начала
	ExpectedEndDate string  `json:"expected_end_date" validate:"omitempty,datetime=2006-01-02"`                // Ожидаемая дата завершения
	Status          string  `json:"status" validate:"omitempty,oneof=PENDING IN_PROGRESS COMPLETED CANCELLED"` // Статус
	Budget          float64 `json:"budget" validate:"gte=0"`                                                   // Бюджет (>= 0)
	ManagerID       int64   `json:"manager_id" validate:"required,gt=0"`                                       // Менеджер проекта
}

// ProjectFilter описывает необязательные фильтры списка проектов.
type ProjectFilter struct {
	Name           string     // Подстрока названия, без учёта регистра
	Status         string     // Точный статус
	ManagerID      int64      // Проекты конкретного менеджера
	StartDateAfter *time.Time // Проекты, начатые строго после даты
}
