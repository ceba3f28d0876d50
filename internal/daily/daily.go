package daily

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"time"
)

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// Target returns a deterministic daily target in [min, max] using
// HMAC(salt, YYYY-MM-DD) mapped onto the range.
func Target(date time.Time, salt string, min, max int) int {
	span := max - min + 1
	if span <= 0 {
		return min
	}
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(DateKey(date)))
	sum := h.Sum(nil)
	// take first 8 bytes to uint64 for modulus distribution
	n := binary.BigEndian.Uint64(sum[:8])
	return min + int(n%uint64(span))
}
