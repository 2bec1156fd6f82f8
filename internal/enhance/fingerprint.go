package enhance

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"

	"github.com/futureletter/futureletter/internal/letter"
)

// Fingerprint is a deterministic cache key derived from draft contents.
// It is a cache key, not a security boundary.
type Fingerprint string

// ComputeFingerprint derives a fingerprint from the trimmed draft fields.
// Field values are length-prefixed before hashing so that distinct field
// splits ("ab"+"c" vs "a"+"bc") never collide. Equal drafts always produce
// equal fingerprints; the send date participates so a date change invalidates
// cached results.
func ComputeFingerprint(d letter.Draft) Fingerprint {
	t := d.Trimmed()

	h := sha256.New()
	for _, field := range []string{t.Title, t.Goal, t.Content, t.SendDate} {
		var n [8]byte
		binary.BigEndian.PutUint64(n[:], uint64(len(field)))
		h.Write(n[:])
		h.Write([]byte(field))
	}

	return Fingerprint(hex.EncodeToString(h.Sum(nil)))
}
