package sqlite_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/taskapi/internal/adapters/sqlite"
	"github.com/example/taskapi/internal/apperr"
	"github.com/example/taskapi/internal/ports/secondary"
)

func TestTokenRepository_Lifecycle(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewTokenRepository(db)
	ctx := context.Background()
	seedUser(t, db, "u-1", "Ada", "ada@example.com", "")

	for _, id := range []string{"tok-1", "tok-2"} {
		err := repo.Create(ctx, &secondary.TokenRecord{ID: id, UserID: "u-1", Name: "api", TokenHash: "hash-" + id})
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	got, err := repo.GetByHash(ctx, "hash-tok-1")
	if err != nil {
		t.Fatalf("GetByHash failed: %v", err)
	}
	if got.ID != "tok-1" || got.UserID != "u-1" {
		t.Errorf("unexpected token: %+v", got)
	}
	if got.LastUsedAt != nil {
		t.Errorf("expected no last use, got %v", got.LastUsedAt)
	}

	used := time.Date(2023, 10, 31, 9, 0, 0, 0, time.UTC)
	if err := repo.Touch(ctx, "tok-1", used); err != nil {
		t.Fatalf("Touch failed: %v", err)
	}
	got, _ = repo.GetByHash(ctx, "hash-tok-1")
	if got.LastUsedAt == nil || !got.LastUsedAt.Equal(used) {
		t.Errorf("expected last use %v, got %v", used, got.LastUsedAt)
	}

	n, err := repo.DeleteByUser(ctx, "u-1")
	if err != nil {
		t.Fatalf("DeleteByUser failed: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 tokens revoked, got %d", n)
	}

	if _, err := repo.GetByHash(ctx, "hash-tok-2"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("expected ErrNotFound after revoke, got %v", err)
	}
}
