package ops

import (
	"database/sql"
	"testing"

	"github.com/futureletter/futureletter/internal/config"
	"github.com/futureletter/futureletter/internal/db"
)

func setupOps(t *testing.T) (*sql.DB, *config.Config) {
	t.Helper()
	database, err := db.Init(t.TempDir())
	if err != nil {
		t.Fatalf("db.Init failed: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return database, config.DefaultConfig()
}

func stringPtr(s string) *string {
	return &s
}

func intPtr(i int) *int {
	return &i
}

func TestClampLimit(t *testing.T) {
	tests := []struct {
		in   int
		want int
	}{
		{0, DefaultListLimit},
		{-5, DefaultListLimit},
		{30, 30},
		{MaxListLimit, MaxListLimit},
		{MaxListLimit + 1, MaxListLimit},
	}
	for _, tt := range tests {
		if got := clampLimit(tt.in); got != tt.want {
			t.Errorf("clampLimit(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestValidateEmail(t *testing.T) {
	for _, valid := range []string{"me@example.com", "a@b"} {
		if err := validateEmail(valid); err != nil {
			t.Errorf("validateEmail(%q) should pass: %v", valid, err)
		}
	}
	for _, invalid := range []string{"", "no-at-sign", "@leading", "trailing@", "sp ace@x.com"} {
		if err := validateEmail(invalid); err == nil {
			t.Errorf("validateEmail(%q) should fail", invalid)
		}
	}
}

func TestCleanOptionalString(t *testing.T) {
	if cleanOptionalString(nil) != nil {
		t.Error("nil should stay nil")
	}
	if cleanOptionalString(stringPtr("  ")) != nil {
		t.Error("whitespace should become nil")
	}
	got := cleanOptionalString(stringPtr("  x  "))
	if got == nil || *got != "x" {
		t.Errorf("got %v, want x", got)
	}
}

func TestGenerateULID(t *testing.T) {
	a, err := generateULID()
	if err != nil {
		t.Fatalf("generateULID failed: %v", err)
	}
	b, err := generateULID()
	if err != nil {
		t.Fatalf("generateULID failed: %v", err)
	}
	if len(a) != 26 {
		t.Errorf("ULID length = %d, want 26", len(a))
	}
	if a == b {
		t.Error("consecutive ULIDs should differ")
	}
}
