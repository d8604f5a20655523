package models

import "time"

// Milestone представляет веху проекта.
type Milestone struct {
	ID          int64      // Уникальный идентификатор вехи
	Name        string     // Название вехи
	Description string     // Описание
	DueDate     *time.Time // Контрольная дата, может отсутствовать
	Completed   bool       // Признак достижения вехи
	ProjectID   int64      // Идентификатор проекта
	CreatedAt   time.Time  // Дата создания записи
	UpdatedAt   time.Time  // Дата последнего обновления
}

// DummyMilestone используется для приёма данных вехи из JSON-запроса.
type DummyMilestone struct {
	Name        string `json:"name" validate:"required,max=255"`                  // Название
	Description string `json:"description"`                                       // Описание
	DueDate     string `json:"due_date" validate:"omitempty,datetime=2006-01-02"` // Контрольная дата
	Completed   *bool  `json:"completed"`                                         // Признак достижения
	ProjectID   int64  `json:"project_id" validate:"required,gt=0"`               // Проект
}

// MilestoneFilter описывает необязательные фильтры списка вех.
type MilestoneFilter struct {
	ProjectID   int64      // Вехи конкретного проекта
	PendingOnly bool       // Только недостигнутые вехи
	DueBefore   *time.Time // Вехи с контрольной датой не позже указанной
}
