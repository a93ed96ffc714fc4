package sqlite_test

import (
	"context"
	"testing"

	"github.com/example/taskapi/internal/adapters/sqlite"
	"github.com/example/taskapi/internal/ports/secondary"
)

func TestAuditWriter_WritesEntries(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewAuditLogRepository(db)
	writer := sqlite.NewAuditWriterAdapter(repo)
	ctx := context.Background()

	if err := writer.LogCreate(ctx, "u-1", "task", "t-1"); err != nil {
		t.Fatalf("LogCreate failed: %v", err)
	}
	if err := writer.LogUpdate(ctx, "u-1", "task", "t-1", "status", "pending", "done"); err != nil {
		t.Fatalf("LogUpdate failed: %v", err)
	}
	if err := writer.LogDelete(ctx, "", "task", "t-2"); err != nil {
		t.Fatalf("LogDelete failed: %v", err)
	}

	logs, err := repo.List(ctx, secondary.AuditLogFilters{EntityID: "t-1"})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(logs) != 2 {
		t.Fatalf("expected 2 entries for t-1, got %d", len(logs))
	}
	// newest first
	if logs[0].Action != "update" || logs[0].FieldName != "status" || logs[0].NewValue != "done" {
		t.Errorf("unexpected newest entry: %+v", logs[0])
	}

	byActor, _ := repo.List(ctx, secondary.AuditLogFilters{ActorID: "u-1", Limit: 1})
	if len(byActor) != 1 {
		t.Errorf("expected limit to apply, got %d", len(byActor))
	}

	system, _ := repo.List(ctx, secondary.AuditLogFilters{EntityID: "t-2"})
	if len(system) != 1 || system[0].ActorID != "" {
		t.Errorf("expected one entry with null actor, got %+v", system)
	}
}

func TestAuditLogRepository_RejectsUnknownAction(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewAuditLogRepository(db)

	err := repo.Create(context.Background(), &secondary.AuditLogRecord{
		ID: "log-1", EntityType: "task", EntityID: "t-1", Action: "archive",
	})
	if err == nil {
		t.Error("expected CHECK constraint failure for unknown action")
	}
}
