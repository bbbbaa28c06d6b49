package amqp

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"github.com/family-budget/backend/internal/domain/entity"
)

type fakeChannel struct {
	published []amqp091.Publishing
	keys      []string
	err       error
}

func (f *fakeChannel) PublishWithContext(_ context.Context, _, key string, _, _ bool, msg amqp091.Publishing) error {
	if f.err != nil {
		return f.err
	}
	f.keys = append(f.keys, key)
	f.published = append(f.published, msg)
	return nil
}

func (f *fakeChannel) Close() error { return nil }

func TestPublisher_NotifyEnqueued(t *testing.T) {
	ch := &fakeChannel{}
	p := &Publisher{channel: ch, queueName: "family-budget.sync", timeout: time.Second}

	item, err := entity.NewSyncQueueItem(entity.SyncActionDelete, "fam-1", entity.NewTombstone(entity.SyncEntityExpense, "exp-1"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := p.NotifyEnqueued(context.Background(), item); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(ch.published) != 1 || ch.keys[0] != "family-budget.sync" {
		t.Fatalf("expected one message on the sync queue, got %v", ch.keys)
	}
	msg := ch.published[0]
	if msg.DeliveryMode != amqp091.Persistent || msg.ContentType != "application/json" || msg.MessageId != item.ID {
		t.Errorf("unexpected publishing %+v", msg)
	}

	var decoded SyncMessage
	if err := json.Unmarshal(msg.Body, &decoded); err != nil {
		t.Fatalf("invalid body: %v", err)
	}
	if decoded.ItemID != item.ID || decoded.Type != entity.SyncEntityExpense || decoded.Action != entity.SyncActionDelete || decoded.FamilyID != "fam-1" {
		t.Errorf("unexpected message %+v", decoded)
	}
}

func TestPublisher_PublishError(t *testing.T) {
	p := &Publisher{channel: &fakeChannel{err: errors.New("channel closed")}, queueName: "q", timeout: time.Second}
	item, _ := entity.NewSyncQueueItem(entity.SyncActionInsert, "fam-1", entity.NewTombstone(entity.SyncEntityGoal, "g"))

	if err := p.NotifyEnqueued(context.Background(), item); err == nil {
		t.Error("expected publish error")
	}
}
