package rabbitmq

import (
	"github.com/streadway/amqp"

	"github.com/techwave/project-manager/internal/models"
)

// TaskEventPublisher публикует доменные события задач в exchange "notifications".
type TaskEventPublisher struct {
	ch *amqp.Channel
}

// NewTaskEventPublisher создает новый экземпляр TaskEventPublisher.
func NewTaskEventPublisher(ch *amqp.Channel) *TaskEventPublisher {
	return &TaskEventPublisher{ch: ch}
}

// PublishTaskAssigned публикует событие о назначении задачи исполнителю.
func (p *TaskEventPublisher) PublishTaskAssigned(event models.TaskAssignedEvent) error {
	return PublishMessage(p.ch, "notifications", "task.assigned", event)
}
