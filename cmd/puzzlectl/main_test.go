package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/robalobadob/connections/internal/catalog"
	"github.com/robalobadob/connections/internal/daily"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestValidateEmbedded(t *testing.T) {
	out, err := run(t, "validate", "--file", "")
	if err != nil {
		t.Fatalf("validate error = %v", err)
	}
	if !strings.HasPrefix(out, "ok: 3 puzzles") {
		t.Errorf("output = %q", out)
	}
}

func TestValidateRejectsBadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	bad := `{"puzzles":[{"id":"x","sets":[{"words":["A","B","C"],"solution":"S","type":"green"}]}]}`
	if err := os.WriteFile(path, []byte(bad), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := run(t, "validate", path); err == nil {
		t.Error("expected validation error")
	}
}

func TestListShowsSets(t *testing.T) {
	out, err := run(t, "list", "--file", "")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "abc123") || !strings.Contains(out, "CHINESE ZODIAC ANIMALS") {
		t.Errorf("output = %q", out)
	}
}

func TestDailyMatchesServerRotation(t *testing.T) {
	out, err := run(t, "daily", "--file", "", "--from", "2026-03-01", "--days", "3", "--salt", "s")
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 {
		t.Fatalf("lines = %q", lines)
	}

	cat, _ := catalog.Embedded()
	start, _ := daily.ParseDateKey("2026-03-01")
	want := cat.At(daily.PuzzleIndex(start, "s", cat.Len())).ID
	if lines[0] != "2026-03-01  "+want {
		t.Errorf("first line = %q, want puzzle %s", lines[0], want)
	}

	if _, err := run(t, "daily", "--from", "March 1"); err == nil {
		t.Error("expected bad --from error")
	}
}
