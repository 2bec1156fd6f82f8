package ops

import (
	"context"
	"testing"

	"github.com/futureletter/futureletter/internal/errors"
)

func TestFetch_IncludesMilestones(t *testing.T) {
	database, cfg := setupOps(t)

	created, err := Create(context.Background(), database, cfg, CreateInput{
		Title: "With milestones", Goal: "g", SendDate: "2027-01-01",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	for _, title := range []string{"First", "Second"} {
		_, err := AddMilestone(database, AddMilestoneInput{
			LetterID: created.ID, Title: title, Percentage: 50, TargetDate: "2026-06-01",
		})
		if err != nil {
			t.Fatalf("AddMilestone failed: %v", err)
		}
	}

	out, err := Fetch(database, FetchInput{ID: created.ID})
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if len(out.Milestones) != 2 {
		t.Fatalf("milestones = %d, want 2", len(out.Milestones))
	}
	if out.Milestones[0].Title != "First" || out.Milestones[0].Position != 0 {
		t.Errorf("first milestone = %+v", out.Milestones[0])
	}
	if out.Milestones[1].Position != 1 {
		t.Errorf("second position = %d, want 1", out.Milestones[1].Position)
	}
}

func TestFetch_ExcludeContent(t *testing.T) {
	database, cfg := setupOps(t)

	created, err := Create(context.Background(), database, cfg, CreateInput{
		Title: "t", Content: "secret body", SendDate: "2027-01-01",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	includeContent := false
	out, err := Fetch(database, FetchInput{ID: created.ID, IncludeContent: &includeContent})
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if out.Content != "" {
		t.Errorf("Content = %q, want empty", out.Content)
	}
	if out.ContentChars == 0 {
		t.Error("ContentChars should survive content stripping")
	}
}

func TestFetch_Errors(t *testing.T) {
	database, _ := setupOps(t)

	if _, err := Fetch(database, FetchInput{}); !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("empty id: expected INVALID_REQUEST, got %v", err)
	}
	if _, err := Fetch(database, FetchInput{ID: "missing"}); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("expected NOT_FOUND, got %v", err)
	}
}
