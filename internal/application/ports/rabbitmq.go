package ports

import (
	"context"

	"github.com/rabbitmq/amqp091-go"

	"file-storage-api/internal/infrastructure/mq"
)

type EventPublisher interface {
	Publish(ctx context.Context, e mq.Event)
}

type RabbitMQ interface {
	EventPublisher
	Connect(ctx context.Context, dsn string) error
	Init() error
	PublisherWorker(ctx context.Context)
	GetConn() *amqp091.Connection
}
