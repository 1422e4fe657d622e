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

// ParseDateKey parses a YYYY-MM-DD key back to midnight UTC.
func ParseDateKey(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}

// PuzzleIndex returns a deterministic catalog index for a date using
// HMAC(salt, YYYY-MM-DD) % catalogLen.
func PuzzleIndex(date time.Time, salt string, catalogLen int) int {
	if catalogLen <= 0 {
		return 0
	}
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(DateKey(date)))
	sum := h.Sum(nil)
	// first 8 bytes as uint64 for the modulus
	n := binary.BigEndian.Uint64(sum[:8])
	return int(n % uint64(catalogLen))
}

// Schedule returns the puzzle index for each of the days days starting at
// from, keyed by date.
func Schedule(from time.Time, days int, salt string, catalogLen int) []Entry {
	out := make([]Entry, 0, days)
	for i := 0; i < days; i++ {
		d := from.AddDate(0, 0, i)
		out = append(out, Entry{Date: DateKey(d), Index: PuzzleIndex(d, salt, catalogLen)})
	}
	return out
}

// Entry is one day of a Schedule.
type Entry struct {
	Date  string `json:"date"`
	Index int    `json:"index"`
}
