// Package amqp publishes sync queue notifications to a message broker.
package amqp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"github.com/family-budget/backend/internal/application/adapter"
	"github.com/family-budget/backend/internal/domain/entity"
)

// SyncMessage tells the sync worker that a queue item is waiting.
type SyncMessage struct {
	ItemID    string            `json:"item_id"`
	Type      entity.SyncEntity `json:"type"`
	Action    entity.SyncAction `json:"action"`
	FamilyID  string            `json:"family_id"`
	CreatedAt time.Time         `json:"created_at"`
}

// NewSyncMessage creates the message announcing item.
func NewSyncMessage(item *entity.SyncQueueItem) *SyncMessage {
	return &SyncMessage{
		ItemID:    item.ID,
		Type:      item.Type,
		Action:    item.Action,
		FamilyID:  item.FamilyID,
		CreatedAt: item.CreatedAt,
	}
}

// channel is the part of *amqp091.Channel the publisher uses.
type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error
	Close() error
}

// Publisher implements adapter.SyncNotifier over AMQP.
type Publisher struct {
	conn         *amqp091.Connection
	channel      channel
	exchangeName string
	queueName    string
	timeout      time.Duration
}

// NewPublisher dials url and declares the durable queue the sync worker consumes.
// An empty exchange publishes through the default exchange.
func NewPublisher(url, exchangeName, queueName string, timeout time.Duration) (*Publisher, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	if err := setup(ch, exchangeName, queueName); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("setup exchange and queue: %w", err)
	}

	slog.Info("AMQP publisher connected", "exchange", exchangeName, "queue", queueName)
	return &Publisher{
		conn:         conn,
		channel:      ch,
		exchangeName: exchangeName,
		queueName:    queueName,
		timeout:      timeout,
	}, nil
}

func setup(ch *amqp091.Channel, exchangeName, queueName string) error {
	if _, err := ch.QueueDeclare(
		queueName, // name
		true,      // durable
		false,     // delete when unused
		false,     // exclusive
		false,     // no-wait
		nil,       // arguments
	); err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}

	if exchangeName == "" {
		return nil
	}

	if err := ch.ExchangeDeclare(
		exchangeName, // name
		"direct",     // type
		true,         // durable
		false,        // auto-deleted
		false,        // internal
		false,        // no-wait
		nil,          // arguments
	); err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}

	// Routing key is the queue name on the direct exchange.
	if err := ch.QueueBind(queueName, queueName, exchangeName, false, nil); err != nil {
		return fmt.Errorf("bind queue: %w", err)
	}
	return nil
}

// NotifyEnqueued implements adapter.SyncNotifier.
func (p *Publisher) NotifyEnqueued(ctx context.Context, item *entity.SyncQueueItem) error {
	body, err := json.Marshal(NewSyncMessage(item))
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	err = p.channel.PublishWithContext(
		ctx,
		p.exchangeName, // exchange
		p.queueName,    // routing key
		false,          // mandatory
		false,          // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			MessageId:    item.ID,
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish message: %w", err)
	}

	slog.DebugContext(ctx, "Published sync notification",
		"item_id", item.ID,
		"type", item.Type,
		"family_id", item.FamilyID,
	)
	return nil
}

// Close closes the channel and the connection.
func (p *Publisher) Close() error {
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}

var _ adapter.SyncNotifier = (*Publisher)(nil)
