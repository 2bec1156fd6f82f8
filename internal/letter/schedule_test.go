package letter

import (
	"testing"
	"time"
)

func baseDate(t *testing.T) time.Time {
	t.Helper()
	base, err := time.Parse(DateLayout, "2026-01-15")
	if err != nil {
		t.Fatalf("parse base date: %v", err)
	}
	return base
}

func TestScheduleSuggestions_FillsMissingDates(t *testing.T) {
	base := baseDate(t)

	suggestions := []MilestoneSuggestion{
		{Title: "Complete A1", Percentage: 25},
		{Title: "Complete A2", Percentage: 50},
		{Title: "First conversation", Percentage: 75},
		{Title: "Read a novel", Percentage: 100},
	}

	out := ScheduleSuggestions(suggestions, base)

	if len(out) != 4 {
		t.Fatalf("len = %d, want 4", len(out))
	}

	// Every suggestion must end up with a date, and the sequence must be
	// strictly increasing.
	prev := base
	for i, s := range out {
		d, err := ParseDate(s.TargetDate)
		if err != nil {
			t.Fatalf("suggestion %d has unparseable date %q: %v", i, s.TargetDate, err)
		}
		if !d.After(prev) {
			t.Errorf("suggestion %d date %s not after %s", i, s.TargetDate, prev.Format(DateLayout))
		}
		prev = d
	}

	// Spacing widens: +1 month, then +2, then capped at +3
	want := []string{"2026-02-15", "2026-04-15", "2026-07-15", "2026-10-15"}
	for i, w := range want {
		if out[i].TargetDate != w {
			t.Errorf("suggestion %d date = %s, want %s", i, out[i].TargetDate, w)
		}
	}
}

func TestScheduleSuggestions_KeepsExplicitDates(t *testing.T) {
	base := baseDate(t)

	suggestions := []MilestoneSuggestion{
		{Title: "Sign up", Percentage: 10, TargetDate: "2026-03-01"},
		{Title: "Halfway", Percentage: 50},
	}

	out := ScheduleSuggestions(suggestions, base)

	if out[0].TargetDate != "2026-03-01" {
		t.Errorf("explicit date overwritten: %s", out[0].TargetDate)
	}

	// The filled date must land after the explicit one, not after base
	d, err := ParseDate(out[1].TargetDate)
	if err != nil {
		t.Fatalf("unparseable filled date: %v", err)
	}
	explicit, _ := ParseDate("2026-03-01")
	if !d.After(explicit) {
		t.Errorf("filled date %s not after explicit %s", out[1].TargetDate, "2026-03-01")
	}
}

func TestScheduleSuggestions_ClampsPercentage(t *testing.T) {
	out := ScheduleSuggestions([]MilestoneSuggestion{
		{Title: "a", Percentage: -5},
		{Title: "b", Percentage: 150},
		{Title: "c", Percentage: 40},
	}, baseDate(t))

	if out[0].Percentage != 0 {
		t.Errorf("negative percentage = %d, want 0", out[0].Percentage)
	}
	if out[1].Percentage != 100 {
		t.Errorf("oversized percentage = %d, want 100", out[1].Percentage)
	}
	if out[2].Percentage != 40 {
		t.Errorf("in-range percentage = %d, want 40", out[2].Percentage)
	}
}

func TestScheduleSuggestions_Empty(t *testing.T) {
	out := ScheduleSuggestions(nil, baseDate(t))
	if len(out) != 0 {
		t.Errorf("len = %d, want 0", len(out))
	}
}
