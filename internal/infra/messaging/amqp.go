// Package messaging publishes notification jobs to RabbitMQ.
package messaging

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"kilnbook/internal/pkg/errs"
	"kilnbook/internal/usecase/notification"

	amqp "github.com/rabbitmq/amqp091-go"
)

// AMQPPublisher sends each message to the durable queue named after its
// topic, through the default exchange. The connection is redialed lazily
// after the broker drops it.
type AMQPPublisher struct {
	url string

	mu       sync.Mutex
	conn     *amqp.Connection
	ch       *amqp.Channel
	declared map[string]bool
}

func NewAMQPPublisher(url string) *AMQPPublisher {
	return &AMQPPublisher{url: url, declared: map[string]bool{}}
}

func (p *AMQPPublisher) Publish(ctx context.Context, msg notification.Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	ch, err := p.channel()
	if err != nil {
		return err
	}

	if !p.declared[msg.Topic] {
		if _, err := ch.QueueDeclare(
			msg.Topic, // name
			true,      // durable
			false,     // autoDelete
			false,     // exclusive
			false,     // noWait
			nil,       // args
		); err != nil {
			p.reset()
			return errs.Wrapf(err, "declare queue %s", msg.Topic)
		}
		p.declared[msg.Topic] = true
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    msg.ID.String(),
		Type:         msg.Kind,
		Timestamp:    time.Now().UTC(),
		Body:         msg.Payload,
	}
	if err := ch.PublishWithContext(ctx, "", msg.Topic, false, false, pub); err != nil {
		p.reset()
		return errs.Wrapf(err, "publish %s", msg.Kind)
	}
	return nil
}

func (p *AMQPPublisher) channel() (*amqp.Channel, error) {
	if p.ch != nil && !p.ch.IsClosed() {
		return p.ch, nil
	}
	p.reset()

	conn, err := amqp.Dial(p.url)
	if err != nil {
		return nil, errs.Wrap(err, "dial rabbitmq")
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, errs.Wrap(err, "open rabbitmq channel")
	}
	p.conn, p.ch = conn, ch
	return ch, nil
}

func (p *AMQPPublisher) reset() {
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
	p.conn, p.ch = nil, nil
	p.declared = map[string]bool{}
}

func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.reset()
	return nil
}

// LogPublisher stands in when no broker is configured. Jobs are marked
// sent once logged.
type LogPublisher struct{}

func NewLogPublisher() *LogPublisher { return &LogPublisher{} }

func (LogPublisher) Publish(ctx context.Context, msg notification.Message) error {
	slog.InfoContext(ctx, "notification",
		"id", msg.ID.String(),
		"kind", msg.Kind,
		"topic", msg.Topic,
		"payload", string(msg.Payload),
	)
	return nil
}
