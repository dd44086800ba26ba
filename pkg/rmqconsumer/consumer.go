package rmqconsumer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"file-storage-api/config"
	"file-storage-api/internal/domain/file"
	"file-storage-api/internal/infrastructure/metrics"
	"file-storage-api/internal/infrastructure/mq"
)

// can scale depends on a parallel worker count
const preFetchCount = 1

var errMalformed = errors.New("malformed orphan event")

// ObjectRemover is the part of the object store the sweeper needs.
type ObjectRemover interface {
	DeleteObject(ctx context.Context, bucket, path string) error
}

type orphanEvent struct {
	ID      string              `json:"event_id"`
	Action  string              `json:"event_action"`
	Payload file.OrphanedObject `json:"payload"`
}

// Consumer sweeps objects reported as orphaned: blobs whose metadata
// insert failed and whose compensating delete failed too.
type Consumer struct {
	cfg        config.MQ
	log        *zap.Logger
	remover    ObjectRemover
	mCounter   *prometheus.CounterVec
	conn       *amqp091.Connection
	chConsume  *amqp091.Channel
	chDelivery <-chan amqp091.Delivery
}

func New(cfg config.MQ, logger *zap.Logger, remover ObjectRemover, mCounter *prometheus.CounterVec) *Consumer {
	return &Consumer{
		cfg:      cfg,
		log:      logger,
		remover:  remover,
		mCounter: mCounter,
	}
}

func (c *Consumer) Connect(dsn string) error {
	conn, err := amqp091.Dial(dsn)
	if err != nil {
		return fmt.Errorf("amqp dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("amqp channel: %w", err)
	}
	c.conn, c.chConsume = conn, ch

	c.log.Info("rabbitmq consumer connected successfully")

	return nil
}

func (c *Consumer) Init() error {
	if err := c.chConsume.ExchangeDeclare(
		c.cfg.Exchange,
		c.cfg.ExchangeType,
		true,
		false,
		false,
		false,
		nil,
	); err != nil {
		return fmt.Errorf("exchange declare: %w", err)
	}
	if _, err := c.chConsume.QueueDeclare(
		c.cfg.QueueName,
		true,
		false,
		false,
		false,
		nil,
	); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	if err := c.chConsume.QueueBind(
		c.cfg.QueueName,
		mq.ActionObjectOrphaned,
		c.cfg.Exchange,
		false,
		nil,
	); err != nil {
		return fmt.Errorf("queue bind %s: %w", mq.ActionObjectOrphaned, err)
	}

	if err := c.chConsume.Qos(preFetchCount, 0, false); err != nil {
		return fmt.Errorf("qos: %w", err)
	}

	deliveries, err := c.chConsume.Consume(
		c.cfg.QueueName,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("consume: %w", err)
	}
	c.chDelivery = deliveries

	return nil
}

func (c *Consumer) DeliveryWorker(ctx context.Context) {
	c.log.Info("starting orphan sweeper")

	defer func() {
		c.log.Info("orphan sweeper gracefully stopped")
	}()

	for {
		select {
		case msg, ok := <-c.chDelivery:
			if !ok {
				c.log.Warn("delivery channel closed")
				return
			}
			if err := c.delivery(ctx, msg); err != nil {
				// alert
				c.log.Error("orphan sweep error", zap.Error(err), zap.String("message_id", msg.MessageId))
			}
		case <-ctx.Done():
			_ = c.chConsume.Close()
			return
		}
	}
}

// delivery removes the orphaned object and acks. A failed delete is requeued
// once; a second failure or an undecodable message is dropped.
func (c *Consumer) delivery(ctx context.Context, msg amqp091.Delivery) error {
	var e orphanEvent
	if err := json.Unmarshal(msg.Body, &e); err != nil {
		_ = msg.Nack(false, false)
		return fmt.Errorf("%w: %w", errMalformed, err)
	}
	if e.Action != mq.ActionObjectOrphaned || e.Payload.Bucket == "" || e.Payload.StoragePath == "" {
		_ = msg.Nack(false, false)
		return fmt.Errorf("%w: action=%q", errMalformed, e.Action)
	}

	if err := c.remover.DeleteObject(ctx, e.Payload.Bucket, e.Payload.StoragePath); err != nil {
		_ = msg.Nack(false, !msg.Redelivered)
		return fmt.Errorf("delete %s/%s: %w", e.Payload.Bucket, e.Payload.StoragePath, err)
	}

	if err := msg.Ack(false); err != nil {
		return fmt.Errorf("ack: %w", err)
	}

	metrics.Inc(c.mCounter, metrics.OrphansSwept)
	c.log.Info("orphaned object removed",
		zap.String("bucket", e.Payload.Bucket),
		zap.String("storage_path", e.Payload.StoragePath),
		zap.String("file_id", e.Payload.FileID),
	)

	return nil
}
