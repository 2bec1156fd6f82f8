package ops

import (
	"context"
	"testing"

	"github.com/futureletter/futureletter/internal/errors"
)

func TestDeleteAndPurge(t *testing.T) {
	database, cfg := setupOps(t)
	ctx := context.Background()

	created, err := Create(ctx, database, cfg, CreateInput{
		Title: "Doomed", Goal: "g", SendDate: "2027-01-01",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	out, err := Delete(ctx, database, DeleteInput{ID: created.ID})
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if !out.Deleted {
		t.Error("Deleted should be true")
	}

	// Gone from fetch, still visible with IncludeDeleted
	if _, err := Fetch(database, FetchInput{ID: created.ID}); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("expected NOT_FOUND, got %v", err)
	}
	if _, err := Fetch(database, FetchInput{ID: created.ID, IncludeDeleted: true}); err != nil {
		t.Errorf("IncludeDeleted fetch failed: %v", err)
	}

	purged, err := Purge(ctx, database, PurgeInput{})
	if err != nil {
		t.Fatalf("Purge failed: %v", err)
	}
	if purged.Purged != 1 {
		t.Errorf("Purged = %d, want 1", purged.Purged)
	}
	if _, err := Fetch(database, FetchInput{ID: created.ID, IncludeDeleted: true}); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("purged letter should be gone, got %v", err)
	}
}

func TestPurge_OlderThanDays(t *testing.T) {
	database, cfg := setupOps(t)
	ctx := context.Background()

	created, err := Create(ctx, database, cfg, CreateInput{
		Title: "Fresh delete", SendDate: "2027-01-01",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := Delete(ctx, database, DeleteInput{ID: created.ID}); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	// Deleted seconds ago; a 30-day cutoff leaves it alone
	out, err := Purge(ctx, database, PurgeInput{OlderThanDays: intPtr(30)})
	if err != nil {
		t.Fatalf("Purge failed: %v", err)
	}
	if out.Purged != 0 {
		t.Errorf("Purged = %d, want 0", out.Purged)
	}
	if out.Message == "" {
		t.Error("Message should be set")
	}
}

func TestDelete_Validation(t *testing.T) {
	database, _ := setupOps(t)
	ctx := context.Background()

	if _, err := Delete(ctx, database, DeleteInput{}); !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("expected INVALID_REQUEST, got %v", err)
	}
	if _, err := Delete(ctx, database, DeleteInput{ID: "missing"}); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("expected NOT_FOUND, got %v", err)
	}
}
