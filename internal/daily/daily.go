// internal/daily/daily.go
//
// Deterministic daily challenge selection.
// Every player gets the same puzzle, question bank and buff draws on a given
// UTC day: all are derived from HMAC-SHA256(salt, "YYYY-MM-DD").

package daily

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"math/rand/v2"
	"time"
)

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// digest returns HMAC(salt, YYYY-MM-DD).
func digest(date time.Time, salt string) []byte {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(DateKey(date)))
	return h.Sum(nil)
}

// Index returns a deterministic index in [0, n) for a date. n <= 0 yields 0.
func Index(date time.Time, salt string, n int) int {
	if n <= 0 {
		return 0
	}
	// take first 8 bytes to uint64 for modulus distribution
	v := binary.BigEndian.Uint64(digest(date, salt)[:8])
	return int(v % uint64(n))
}

// RNG returns a PRNG seeded from the date, for reproducible daily buff draws.
func RNG(date time.Time, salt string) *rand.Rand {
	sum := digest(date, salt)
	return rand.New(rand.NewPCG(
		binary.BigEndian.Uint64(sum[8:16]),
		binary.BigEndian.Uint64(sum[16:24]),
	))
}
