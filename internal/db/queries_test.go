package db

import (
	"database/sql"
	"testing"

	"github.com/futureletter/futureletter/internal/errors"
	"github.com/futureletter/futureletter/internal/letter"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Init(t.TempDir())
	if err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func testLetter(id, title string) *letter.Letter {
	return &letter.Letter{
		ID:           id,
		Title:        title,
		Goal:         "run a marathon",
		Content:      "Dear future me",
		ContentChars: 14,
		SendDate:     "2027-06-01",
		Status:       letter.StatusDraft,
		CreatedAt:    1000,
		UpdatedAt:    1000,
	}
}

func TestInsertAndGetLetter(t *testing.T) {
	db := setupTestDB(t)

	email := "me@example.com"
	l := testLetter("01LTR001", "Marathon letter")
	l.RecipientEmail = &email
	l.Tags = []string{"fitness", "2027"}

	if err := InsertLetter(db, l); err != nil {
		t.Fatalf("InsertLetter failed: %v", err)
	}

	got, err := GetLetterByID(db, "01LTR001", false)
	if err != nil {
		t.Fatalf("GetLetterByID failed: %v", err)
	}
	if got.Title != "Marathon letter" {
		t.Errorf("Title = %q", got.Title)
	}
	if got.RecipientEmail == nil || *got.RecipientEmail != email {
		t.Errorf("RecipientEmail = %v, want %q", got.RecipientEmail, email)
	}
	if len(got.Tags) != 2 || got.Tags[0] != "fitness" {
		t.Errorf("Tags = %v", got.Tags)
	}
	if got.Status != letter.StatusDraft {
		t.Errorf("Status = %q", got.Status)
	}
}

func TestGetLetter_NotFound(t *testing.T) {
	db := setupTestDB(t)

	_, err := GetLetterByID(db, "missing", false)
	if !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("expected NOT_FOUND, got %v", err)
	}
}

func TestUpdateLetter(t *testing.T) {
	db := setupTestDB(t)

	l := testLetter("01LTR002", "Before")
	if err := InsertLetter(db, l); err != nil {
		t.Fatalf("InsertLetter failed: %v", err)
	}

	l.Title = "After"
	l.Status = letter.StatusScheduled
	if err := UpdateLetterByID(db, l); err != nil {
		t.Fatalf("UpdateLetterByID failed: %v", err)
	}

	got, err := GetLetterByID(db, "01LTR002", false)
	if err != nil {
		t.Fatalf("GetLetterByID failed: %v", err)
	}
	if got.Title != "After" {
		t.Errorf("Title = %q, want After", got.Title)
	}
	if got.Status != letter.StatusScheduled {
		t.Errorf("Status = %q", got.Status)
	}
	if got.UpdatedAt == 1000 {
		t.Error("UpdatedAt should have been refreshed")
	}
	if got.CreatedAt != 1000 {
		t.Errorf("CreatedAt = %d, should not change", got.CreatedAt)
	}
}

func TestUpdateLetter_NotFound(t *testing.T) {
	db := setupTestDB(t)

	err := UpdateLetterByID(db, testLetter("missing", "x"))
	if !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("expected NOT_FOUND, got %v", err)
	}
}

func TestSoftDelete(t *testing.T) {
	db := setupTestDB(t)

	if err := InsertLetter(db, testLetter("01LTR003", "Doomed")); err != nil {
		t.Fatalf("InsertLetter failed: %v", err)
	}
	if err := SoftDeleteLetter(db, "01LTR003"); err != nil {
		t.Fatalf("SoftDeleteLetter failed: %v", err)
	}

	// Hidden from normal reads
	if _, err := GetLetterByID(db, "01LTR003", false); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("soft-deleted letter should be NOT_FOUND, got %v", err)
	}

	// Still visible when deleted rows are included
	got, err := GetLetterByID(db, "01LTR003", true)
	if err != nil {
		t.Fatalf("GetLetterByID(includeDeleted) failed: %v", err)
	}
	if got.DeletedAt == nil {
		t.Error("DeletedAt should be set")
	}

	// Double delete is NOT_FOUND
	if err := SoftDeleteLetter(db, "01LTR003"); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("second delete should be NOT_FOUND, got %v", err)
	}
}

func TestListLetters(t *testing.T) {
	db := setupTestDB(t)

	for i, id := range []string{"01LTRA", "01LTRB", "01LTRC"} {
		l := testLetter(id, "Letter "+id)
		l.UpdatedAt = int64(1000 + i)
		if id == "01LTRC" {
			l.Status = letter.StatusScheduled
		}
		if err := InsertLetter(db, l); err != nil {
			t.Fatalf("InsertLetter failed: %v", err)
		}
	}

	summaries, total, err := ListLetters(db, nil, 10, 0, false)
	if err != nil {
		t.Fatalf("ListLetters failed: %v", err)
	}
	if total != 3 || len(summaries) != 3 {
		t.Fatalf("total = %d, len = %d, want 3/3", total, len(summaries))
	}
	// Most recently updated first
	if summaries[0].ID != "01LTRC" {
		t.Errorf("first = %s, want 01LTRC", summaries[0].ID)
	}

	// Status filter
	scheduled := letter.StatusScheduled
	summaries, total, err = ListLetters(db, &scheduled, 10, 0, false)
	if err != nil {
		t.Fatalf("ListLetters(status) failed: %v", err)
	}
	if total != 1 || summaries[0].ID != "01LTRC" {
		t.Errorf("filtered total = %d, got %v", total, summaries)
	}

	// Pagination: total counts all matches, page is limited
	summaries, total, err = ListLetters(db, nil, 2, 0, false)
	if err != nil {
		t.Fatalf("ListLetters(limit) failed: %v", err)
	}
	if total != 3 || len(summaries) != 2 {
		t.Errorf("paged: total = %d, len = %d, want 3/2", total, len(summaries))
	}
}

func TestSearchLetters(t *testing.T) {
	db := setupTestDB(t)

	a := testLetter("01SRCH1", "Spanish journey")
	a.Content = "learning verbs"
	b := testLetter("01SRCH2", "Other")
	b.Goal = "speak spanish fluently"
	c := testLetter("01SRCH3", "Unrelated")
	c.Goal = "bake bread"
	c.Content = "flour and water"
	for _, l := range []*letter.Letter{a, b, c} {
		if err := InsertLetter(db, l); err != nil {
			t.Fatalf("InsertLetter failed: %v", err)
		}
	}

	summaries, total, err := SearchLetters(db, "spanish", 10, 0, false)
	if err != nil {
		t.Fatalf("SearchLetters failed: %v", err)
	}
	if total != 2 || len(summaries) != 2 {
		t.Errorf("total = %d, len = %d, want 2/2", total, len(summaries))
	}

	// LIKE wildcards in the query are literal
	_, total, err = SearchLetters(db, "%", 10, 0, false)
	if err != nil {
		t.Fatalf("SearchLetters(%%) failed: %v", err)
	}
	if total != 0 {
		t.Errorf("wildcard should match nothing, total = %d", total)
	}
}

func TestListDueLetters(t *testing.T) {
	db := setupTestDB(t)

	due := testLetter("01DUE1", "Due now")
	due.Status = letter.StatusScheduled
	due.SendDate = "2026-01-01"

	future := testLetter("01DUE2", "Not yet")
	future.Status = letter.StatusScheduled
	future.SendDate = "2030-01-01"

	draft := testLetter("01DUE3", "Draft past date")
	draft.SendDate = "2026-01-01"

	for _, l := range []*letter.Letter{due, future, draft} {
		if err := InsertLetter(db, l); err != nil {
			t.Fatalf("InsertLetter failed: %v", err)
		}
	}

	summaries, err := ListDueLetters(db, "2026-06-15")
	if err != nil {
		t.Fatalf("ListDueLetters failed: %v", err)
	}
	if len(summaries) != 1 || summaries[0].ID != "01DUE1" {
		t.Errorf("due = %v, want only 01DUE1", summaries)
	}
}

func TestMarkDelivered(t *testing.T) {
	db := setupTestDB(t)

	l := testLetter("01DLV1", "Ready")
	l.Status = letter.StatusScheduled
	if err := InsertLetter(db, l); err != nil {
		t.Fatalf("InsertLetter failed: %v", err)
	}

	if err := MarkDelivered(db, "01DLV1"); err != nil {
		t.Fatalf("MarkDelivered failed: %v", err)
	}
	got, _ := GetLetterByID(db, "01DLV1", false)
	if got.Status != letter.StatusDelivered {
		t.Errorf("Status = %q, want delivered", got.Status)
	}

	// Second delivery is a conflict, not a silent success
	if err := MarkDelivered(db, "01DLV1"); !errors.Is(err, errors.ErrConflict) {
		t.Errorf("expected CONFLICT, got %v", err)
	}

	// Missing letter is NOT_FOUND
	if err := MarkDelivered(db, "missing"); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("expected NOT_FOUND, got %v", err)
	}
}

func TestPurgeDeleted(t *testing.T) {
	db := setupTestDB(t)

	keep := testLetter("01PRG1", "Keep")
	gone := testLetter("01PRG2", "Gone")
	for _, l := range []*letter.Letter{keep, gone} {
		if err := InsertLetter(db, l); err != nil {
			t.Fatalf("InsertLetter failed: %v", err)
		}
	}
	m := &letter.Milestone{
		ID: "01PRGM1", LetterID: "01PRG2", Title: "Step",
		TargetDate: "2026-05-01", CreatedAt: 1000, UpdatedAt: 1000,
	}
	if err := InsertMilestone(db, m); err != nil {
		t.Fatalf("InsertMilestone failed: %v", err)
	}

	if err := SoftDeleteLetter(db, "01PRG2"); err != nil {
		t.Fatalf("SoftDeleteLetter failed: %v", err)
	}

	count, err := PurgeDeleted(db, nil)
	if err != nil {
		t.Fatalf("PurgeDeleted failed: %v", err)
	}
	if count != 1 {
		t.Errorf("purged = %d, want 1", count)
	}

	// Row and its milestones are gone for good
	if _, err := GetLetterByID(db, "01PRG2", true); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("purged letter should be gone, got %v", err)
	}
	milestones, err := ListMilestonesByLetter(db, "01PRG2")
	if err != nil {
		t.Fatalf("ListMilestonesByLetter failed: %v", err)
	}
	if len(milestones) != 0 {
		t.Errorf("orphan milestones remain: %v", milestones)
	}

	// Untouched letter survives
	if _, err := GetLetterByID(db, "01PRG1", false); err != nil {
		t.Errorf("kept letter missing: %v", err)
	}
}

func TestSummaryMilestoneCount(t *testing.T) {
	db := setupTestDB(t)

	if err := InsertLetter(db, testLetter("01CNT1", "Counted")); err != nil {
		t.Fatalf("InsertLetter failed: %v", err)
	}
	for i, id := range []string{"01CNTM1", "01CNTM2"} {
		m := &letter.Milestone{
			ID: id, LetterID: "01CNT1", Title: "Step",
			TargetDate: "2026-05-01", Position: i, CreatedAt: 1000, UpdatedAt: 1000,
		}
		if err := InsertMilestone(db, m); err != nil {
			t.Fatalf("InsertMilestone failed: %v", err)
		}
	}

	summaries, _, err := ListLetters(db, nil, 10, 0, false)
	if err != nil {
		t.Fatalf("ListLetters failed: %v", err)
	}
	if summaries[0].MilestoneCount != 2 {
		t.Errorf("MilestoneCount = %d, want 2", summaries[0].MilestoneCount)
	}
}
