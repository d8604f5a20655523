package models

import "time"

// Attachment представляет файловое вложение, прикрепленное
// к задаче или проекту. Хранится только метаинформация,
// содержимое файла лежит во внешнем хранилище по ключу StorageKey.
type Attachment struct {
	ID           int64     // Уникальный идентификатор вложения
	FileName     string    // Исходное имя файла
	ContentType  string    // MIME-тип, например application/pdf
	StorageKey   string    // Ключ во внешнем хранилище
	SizeBytes    int64     // Размер файла в байтах
	UploadedByID int64     // Пользователь, загрузивший файл
	TaskID       *int64    // Задача, к которой прикреплен файл (опционально)
	ProjectID    *int64    // Проект, к которому прикреплен файл (опционально)
	UploadedAt   time.Time // Дата загрузки
}

// DummyAttachment используется для приёма метаданных вложения из JSON-запроса.
// Должна быть указана задача или проект (хотя бы одно из двух).
type DummyAttachment struct {
	FileName    string `json:"file_name" validate:"required,max=255"`     // Имя файла
	ContentType string `json:"content_type" validate:"omitempty,max=100"` // MIME-тип
	SizeBytes   int64  `json:"size_bytes" validate:"gte=0"`               // Размер в байтах
	TaskID      *int64 `json:"task_id" validate:"omitempty,gt=0"`         // Задача
	ProjectID   *int64 `json:"project_id" validate:"omitempty,gt=0"`      // Проект
}

// AttachmentOwnership содержит сведения о принадлежности вложения,
// используемые при проверках прав доступа. Менеджер определяется по
// владеющему проекту: прямому или проекту задачи, к которой
// прикреплен файл.
type AttachmentOwnership struct {
	UploaderUsername string // Имя пользователя, загрузившего файл
	ManagerUsername  string // Имя менеджера владеющего проекта
}

// AttachmentFilter описывает необязательные фильтры списка вложений.
type AttachmentFilter struct {
	TaskID       int64 // Вложения конкретной задачи
	ProjectID    int64 // Вложения конкретного проекта
	UploadedByID int64 // Вложения конкретного пользователя
}
