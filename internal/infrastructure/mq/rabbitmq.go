package mq

import (
	"context"
	"encoding/json"
	"net"
	"time"

	"github.com/google/uuid"
	"github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"file-storage-api/config"
)

// "Rely on metrics, not guesses."
const bufferSize = 128

const (
	ActionFileUploaded   = "file.uploaded"
	ActionFileDeleted    = "file.deleted"
	ActionAccessGranted  = "file.access_granted"
	ActionAccessRevoked  = "file.access_revoked"
	ActionObjectOrphaned = "object.orphaned"
)

type (
	InputCh  = chan Event
	RabbitMQ struct {
		cfg   config.MQ
		log   *zap.Logger
		conn  *amqp091.Connection
		pubCh *amqp091.Channel
		in    InputCh
	}
	Event struct {
		Id      uuid.UUID `json:"event_id"`
		TS      time.Time `json:"time_stamp"`
		Action  string    `json:"event_action"`
		UserID  string    `json:"user_id,omitempty"`
		FileID  string    `json:"file_id,omitempty"`
		Payload any       `json:"payload,omitempty"`
	}
)

func NewEvent(action, userID, fileID string, payload any) Event {
	return Event{
		Id:      uuid.New(),
		TS:      time.Now().UTC(),
		Action:  action,
		UserID:  userID,
		FileID:  fileID,
		Payload: payload,
	}
}

func New(cfg config.MQ, logger *zap.Logger) *RabbitMQ {
	return &RabbitMQ{
		cfg: cfg,
		log: logger,
		in:  make(chan Event, bufferSize),
	}
}

func (r *RabbitMQ) Connect(ctx context.Context, dsn string) error {
	dialer := &net.Dialer{Timeout: 10 * time.Second}

	amqpCfg := amqp091.Config{
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
		Properties: amqp091.Table{
			"connection_name": "filestorageapi",
		},
		Dial: func(network, addr string) (net.Conn, error) {
			return dialer.DialContext(ctx, network, addr)
		},
		TLSClientConfig: nil,
	}

	var err error
	r.conn, err = amqp091.DialConfig(dsn, amqpCfg)
	if err != nil {
		return err
	}
	r.pubCh, err = r.conn.Channel()
	if err != nil {
		_ = r.conn.Close()
		return err
	}

	r.log.Info("rabbitmq connected successfully")

	return err
}

func (r *RabbitMQ) Init() error {
	var err error
	if err = r.pubCh.ExchangeDeclare(
		r.cfg.Exchange,
		r.cfg.ExchangeType,
		true,
		false,
		false,
		false,
		nil,
	); err != nil {
		_ = r.pubCh.Close()
		return err
	}
	q, err := r.pubCh.QueueDeclare(
		r.cfg.QueueName,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return err
	}

	// only anomalies are consumed in-process; the rest is for external subscribers
	if err = r.pubCh.QueueBind(q.Name, ActionObjectOrphaned, r.cfg.Exchange, false, nil); err != nil {
		return err
	}

	return nil
}

// Publish queues e for the publisher worker. It never blocks the request path:
// when the buffer is full the event is dropped and logged.
func (r *RabbitMQ) Publish(ctx context.Context, e Event) {
	select {
	case r.in <- e:
	case <-ctx.Done():
		r.log.Warn("mq event dropped: request cancelled", zap.String("action", e.Action), zap.String("event_id", e.Id.String()))
	default:
		// alert
		r.log.Error("mq event dropped: buffer full", zap.String("action", e.Action), zap.String("event_id", e.Id.String()))
	}
}

func (r *RabbitMQ) PublisherWorker(ctx context.Context) {
	r.log.Info("starting publisher worker ")

	defer func() {
		r.log.Info("publisher worker gracefully stopped")
	}()

	for {
		select {
		case e := <-r.in:
			if err := r.publish(ctx, e); err != nil {
				// alert
				r.log.Error("mq publish error", zap.Error(err), zap.String("action", e.Action))
			}
		case <-ctx.Done():
			r.pubCh.Close()
			return
		}
	}
}

func (r *RabbitMQ) publish(ctx context.Context, e Event) error {
	b, err := json.Marshal(e)
	if err != nil {
		// alert
		return err
	}

	pub := amqp091.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp091.Persistent,
		MessageId:    e.Id.String(),
		Timestamp:    e.TS,
		Type:         e.Action,
		Body:         b,
	}
	if err = r.pubCh.PublishWithContext(
		ctx,
		r.cfg.Exchange,
		e.Action,
		false,
		false,
		pub,
	); err != nil {
		return err
	}

	return nil
}

func (r *RabbitMQ) GetInputChan() chan Event     { return r.in }
func (r *RabbitMQ) GetConn() *amqp091.Connection { return r.conn }
