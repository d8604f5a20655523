package models

import "time"

// Статусы задачи.
const (
	TaskStatusPending    = "PENDING"
	TaskStatusInProgress = "IN_PROGRESS"
	TaskStatusReview     = "REVIEW"
	TaskStatusCompleted  = "COMPLETED"
)

// Приоритеты задачи.
const (
	TaskPriorityLow      = "LOW"
	TaskPriorityMedium   = "MEDIUM"
	TaskPriorityHigh     = "HIGH"
	TaskPriorityCritical = "CRITICAL"
)

// Task представляет задачу, принадлежащую ровно одному проекту.
// Исполнитель может отсутствовать, пока задача не назначена.
type Task struct {
	ID          int64      // Уникальный идентификатор задачи
	Name        string     // Название задачи
	Description string     // Описание
	DueDate     *time.Time // Срок выполнения, может отсутствовать
	Status      string     // Статус: PENDING, IN_PROGRESS, REVIEW, COMPLETED
	Priority    string     // Приоритет: LOW, MEDIUM, HIGH, CRITICAL
	ProjectID   int64      // Идентификатор проекта
	AssigneeID  *int64     // Идентификатор исполнителя, может отсутствовать
	CreatedAt   time.Time  // Дата создания записи
	UpdatedAt   time.Time  // Дата последнего обновления
}

// DummyTask используется для приёма данных задачи из JSON-запроса.
type DummyTask struct {
	Name        string `json:"name" validate:"required,max=255"`                                       // Название
	Description string `json:"description"`                                                            // Описание
	DueDate     string `json:"due_date" validate:"omitempty,datetime=2006-01-02"`                      // Срок выполнения
	Status      string `json:"status" validate:"omitempty,oneof=PENDING IN_PROGRESS REVIEW COMPLETED"` // Статус
	Priority    string `json:"priority" validate:"omitempty,oneof=LOW MEDIUM HIGH CRITICAL"`           // Приоритет
	ProjectID   int64  `json:"project_id" validate:"required,gt=0"`                                    // Проект
	AssigneeID  *int64 `json:"assignee_id" validate:"omitempty,gt=0"`                                  // Исполнитель
}

// TaskFilter описывает необязательные фильтры списка задач.
type TaskFilter struct {
	ProjectID  int64  // Задачи конкретного проекта
	AssigneeID int64  // Задачи конкретного исполнителя
	Status     string // Точный статус
}

// TaskOwnership содержит сведения о принадлежности задачи,
// используемые при проверках прав доступа. Сравнение ведется
// по имени пользователя — субъекту токена.
type TaskOwnership struct {
	ProjectID        int64   // Проект, которому принадлежит задача
	ManagerUsername  string  // Имя менеджера этого проекта
	AssigneeUsername *string // Имя исполнителя задачи, может отсутствовать
}

// TaskAssignedEvent — событие о назначении задачи исполнителю,
// публикуемое в RabbitMQ и потребляемое сервисом отправки уведомлений.
type TaskAssignedEvent struct {
	TaskID       int64  `json:"task_id"`
	TaskName     string `json:"task_name"`
	ProjectName  string `json:"project_name"`
	AssigneeName string `json:"assignee_name"`
	Email        string `json:"email"`
}
