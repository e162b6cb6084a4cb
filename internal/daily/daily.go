// apps/go-solver/internal/daily/daily.go
//
// Deterministic daily-puzzle selection. Operators hosting a shared puzzle
// off one universe file need every instance to agree on the day's equation
// without coordination, so the index is derived from the date alone:
// HMAC-SHA256(salt, YYYY-MM-DD) mod the universe size.

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

// EquationIndex returns a deterministic index into a universe of n
// candidates for the given date. The salt keeps differently configured
// deployments from sharing a schedule.
func EquationIndex(date time.Time, salt string, n int) int {
	if n <= 0 {
		return 0
	}
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(DateKey(date)))
	sum := h.Sum(nil)
	// take first 8 bytes to uint64 for modulus distribution
	v := binary.BigEndian.Uint64(sum[:8])
	return int(v % uint64(n))
}
