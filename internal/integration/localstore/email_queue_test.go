package localstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/family-budget/backend/internal/application/adapter"
	"github.com/family-budget/backend/internal/domain/entity"
	domainerror "github.com/family-budget/backend/internal/domain/error"
	"github.com/family-budget/backend/internal/infra/db"
)

func newTestEmailQueue(t *testing.T) adapter.EmailQueue {
	t.Helper()

	database, err := db.NewSQLiteConnection(":memory:")
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = database.Close() })

	if err := Migrate(context.Background(), database.DB()); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return NewEmailQueue(database.DB())
}

func TestEmailQueue_DueOrderAndLimit(t *testing.T) {
	ctx := context.Background()
	q := newTestEmailQueue(t)
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	for i, ref := range []string{"inv-3", "inv-1", "inv-2"} {
		offsets := []time.Duration{2 * time.Minute, 0, time.Minute}
		job := entity.NewEmailJob(entity.EmailTemplateFamilyInvitation, "joao@example.com",
			map[string]string{"family_name": "Silva"}, 3, base.Add(offsets[i]))
		job.RefID = ref
		if err := q.Enqueue(ctx, job); err != nil {
			t.Fatalf("enqueue failed: %v", err)
		}
	}

	due, err := q.Due(ctx, base.Add(time.Minute), 10)
	if err != nil {
		t.Fatalf("due failed: %v", err)
	}
	if len(due) != 2 || due[0].RefID != "inv-1" || due[1].RefID != "inv-2" {
		t.Fatalf("expected inv-1 then inv-2, got %+v", due)
	}
	if due[0].Data["family_name"] != "Silva" {
		t.Errorf("expected template data to round trip, got %v", due[0].Data)
	}

	limited, err := q.Due(ctx, base.Add(time.Hour), 1)
	if err != nil || len(limited) != 1 || limited[0].RefID != "inv-1" {
		t.Errorf("expected only the oldest job, got %+v (%v)", limited, err)
	}
}

func TestEmailQueue_UpdateRequeueAndPurge(t *testing.T) {
	ctx := context.Background()
	q := newTestEmailQueue(t)
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	stuck := entity.NewEmailJob(entity.EmailTemplateFamilyInvitation, "a@example.com", nil, 3, base)
	stuck.RefID = "stuck"
	stuck.MarkProcessing()
	sent := entity.NewEmailJob(entity.EmailTemplateFamilyInvitation, "b@example.com", nil, 3, base)
	sent.RefID = "sent"
	for _, job := range []*entity.EmailJob{stuck, sent} {
		if err := q.Enqueue(ctx, job); err != nil {
			t.Fatalf("enqueue failed: %v", err)
		}
	}

	sent.MarkSent("re_9", base)
	if err := q.Update(ctx, sent); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	if due, _ := q.Due(ctx, base.Add(time.Hour), 10); len(due) != 0 {
		t.Fatalf("processing and sent jobs must not be due, got %d", len(due))
	}

	requeued, err := q.Requeue(ctx)
	if err != nil || requeued != 1 {
		t.Fatalf("expected one requeued job, got %d (%v)", requeued, err)
	}
	if due, _ := q.Due(ctx, base.Add(time.Hour), 10); len(due) != 1 || due[0].RefID != "stuck" {
		t.Errorf("expected the interrupted job to be due again, got %+v", due)
	}

	removed, err := q.PurgeSent(ctx, base.Add(time.Second))
	if err != nil || removed != 1 {
		t.Fatalf("expected one purged job, got %d (%v)", removed, err)
	}
	if jobs, _ := q.ByRef(ctx, "sent"); len(jobs) != 0 {
		t.Errorf("expected the sent job to be gone, got %+v", jobs)
	}
	if jobs, _ := q.ByRef(ctx, "stuck"); len(jobs) != 1 {
		t.Errorf("purge must keep unsent jobs, got %d", len(jobs))
	}
}

func TestEmailQueue_EnqueueDuplicateFails(t *testing.T) {
	ctx := context.Background()
	q := newTestEmailQueue(t)

	job := entity.NewEmailJob(entity.EmailTemplateFamilyInvitation, "a@example.com", nil, 3, time.Now().UTC())
	if err := q.Enqueue(ctx, job); err != nil {
		t.Fatalf("enqueue failed: %v", err)
	}

	err := q.Enqueue(ctx, job)
	var emailErr *domainerror.EmailError
	if !errors.As(err, &emailErr) || emailErr.Code != domainerror.ErrCodeEmailQueueFailed {
		t.Fatalf("expected a queue failure, got %v", err)
	}
}
