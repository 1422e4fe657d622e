package daily

import (
	"testing"
	"time"
)

func TestDateKeyIsUTC(t *testing.T) {
	loc := time.FixedZone("UTC+10", 10*3600)
	ts := time.Date(2026, 3, 2, 5, 0, 0, 0, loc) // 2026-03-01 19:00 UTC
	if got := DateKey(ts); got != "2026-03-01" {
		t.Errorf("DateKey() = %q, want 2026-03-01", got)
	}
}

func TestPuzzleIndexDeterministic(t *testing.T) {
	day := time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)
	a := PuzzleIndex(day, "salt", 7)
	b := PuzzleIndex(day.Add(6*time.Hour), "salt", 7)
	if a != b {
		t.Errorf("same day gave %d and %d", a, b)
	}
	if a < 0 || a >= 7 {
		t.Errorf("index %d out of range", a)
	}
	if PuzzleIndex(day, "salt", 0) != 0 {
		t.Error("empty catalog should map to 0")
	}
}

func TestPuzzleIndexDependsOnSalt(t *testing.T) {
	day := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	differs := false
	for i := 0; i < 30 && !differs; i++ {
		d := day.AddDate(0, 0, i)
		differs = PuzzleIndex(d, "one", 1000) != PuzzleIndex(d, "two", 1000)
	}
	if !differs {
		t.Error("salt has no effect on the schedule")
	}
}

func TestSchedule(t *testing.T) {
	from := time.Date(2026, 12, 30, 0, 0, 0, 0, time.UTC)
	s := Schedule(from, 3, "salt", 5)
	want := []string{"2026-12-30", "2026-12-31", "2027-01-01"}
	if len(s) != len(want) {
		t.Fatalf("len = %d", len(s))
	}
	for i, e := range s {
		if e.Date != want[i] {
			t.Errorf("entry %d date = %q, want %q", i, e.Date, want[i])
		}
		if d, _ := ParseDateKey(e.Date); e.Index != PuzzleIndex(d, "salt", 5) {
			t.Errorf("entry %d index mismatch", i)
		}
	}
}
