package enhance

import (
	"testing"

	"github.com/futureletter/futureletter/internal/letter"
)

func TestComputeFingerprint_Deterministic(t *testing.T) {
	d1 := letter.Draft{Title: "T", Goal: "Learn Spanish", Content: "Dear future me...", SendDate: "2026-01-01"}
	d2 := letter.Draft{Title: "T", Goal: "Learn Spanish", Content: "Dear future me...", SendDate: "2026-01-01"}

	if ComputeFingerprint(d1) != ComputeFingerprint(d2) {
		t.Error("identical drafts must produce identical fingerprints")
	}
}

func TestComputeFingerprint_TrimsFields(t *testing.T) {
	d1 := letter.Draft{Title: "  T  ", Goal: "goal", Content: "c", SendDate: "2026-01-01"}
	d2 := letter.Draft{Title: "T", Goal: "goal", Content: "c", SendDate: "2026-01-01"}

	if ComputeFingerprint(d1) != ComputeFingerprint(d2) {
		t.Error("surrounding whitespace must not change the fingerprint")
	}
}

func TestComputeFingerprint_FieldSensitivity(t *testing.T) {
	base := letter.Draft{Title: "T", Goal: "G", Content: "C", SendDate: "2026-01-01"}

	variants := []letter.Draft{
		{Title: "T2", Goal: "G", Content: "C", SendDate: "2026-01-01"},
		{Title: "T", Goal: "G2", Content: "C", SendDate: "2026-01-01"},
		{Title: "T", Goal: "G", Content: "C2", SendDate: "2026-01-01"},
		{Title: "T", Goal: "G", Content: "C", SendDate: "2026-06-01"},
	}

	fp := ComputeFingerprint(base)
	for i, v := range variants {
		if ComputeFingerprint(v) == fp {
			t.Errorf("variant %d should produce a different fingerprint", i)
		}
	}
}

func TestComputeFingerprint_NoFieldBleed(t *testing.T) {
	// Length prefixing keeps field boundaries distinct: "ab"+"c" vs "a"+"bc".
	d1 := letter.Draft{Title: "ab", Goal: "c", Content: "x", SendDate: "2026-01-01"}
	d2 := letter.Draft{Title: "a", Goal: "bc", Content: "x", SendDate: "2026-01-01"}

	if ComputeFingerprint(d1) == ComputeFingerprint(d2) {
		t.Error("field boundaries must not collide")
	}
}

func TestComputeFingerprint_FixedLength(t *testing.T) {
	fp := ComputeFingerprint(letter.Draft{Goal: "g"})
	if len(fp) != 64 {
		t.Errorf("fingerprint length = %d, want 64 (hex sha256)", len(fp))
	}
}
