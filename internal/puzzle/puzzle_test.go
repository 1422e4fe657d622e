package puzzle

import (
	"errors"
	"strings"
	"testing"
)

func sample() *Puzzle {
	return &Puzzle{
		ID: "abc123",
		Sets: []WordSet{
			{Words: []string{"DRAGON", "HORSE", "RABBIT", "TIGER"}, Solution: "CHINESE ZODIAC ANIMALS", Type: Purple},
			{Words: []string{"BUD", "LEAF", "PETAL", "STALK"}, Solution: "FLOWER PARTS", Type: Green},
			{Words: []string{"GNOME", "GOBLIN", "OGRE", "TROLL"}, Solution: "CREATURES IN FOLKLORE", Type: Yellow},
			{Words: []string{"AGENT", "MOLE", "PLANT", "SPY"}, Solution: "ONE INVOLVED IN ESPIONAGE", Type: Blue},
		},
	}
}

func TestWordList(t *testing.T) {
	p := sample()
	words := p.WordList()
	if len(words) != WordCount {
		t.Fatalf("expected %d words, got %d", WordCount, len(words))
	}
	if words[0] != "DRAGON" || words[15] != "SPY" {
		t.Errorf("unexpected order: %v", words)
	}
}

func TestSetOf(t *testing.T) {
	p := sample()
	if got := p.SetOf("PETAL"); got != 1 {
		t.Errorf("SetOf(PETAL) = %d, want 1", got)
	}
	if got := p.SetOf("NOPE"); got != -1 {
		t.Errorf("SetOf(NOPE) = %d, want -1", got)
	}
}

func TestValidateAcceptsSample(t *testing.T) {
	if err := sample().Validate(); err != nil {
		t.Fatalf("Validate() = %v", err)
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(p *Puzzle)
		want   string
	}{
		{"missing id", func(p *Puzzle) { p.ID = "" }, "missing id"},
		{"three sets", func(p *Puzzle) { p.Sets = p.Sets[:3] }, "want 4 sets"},
		{"short set", func(p *Puzzle) { p.Sets[2].Words = p.Sets[2].Words[:3] }, "want 4 words"},
		{"no solution", func(p *Puzzle) { p.Sets[0].Solution = "" }, "missing solution"},
		{"bad type", func(p *Puzzle) { p.Sets[1].Type = "orange" }, "unknown type"},
		{"dup type", func(p *Puzzle) { p.Sets[1].Type = Purple }, "used twice"},
		{"empty word", func(p *Puzzle) { p.Sets[3].Words[0] = "" }, "empty word"},
		{"dup word", func(p *Puzzle) { p.Sets[3].Words[0] = "HORSE" }, "appears in sets 0 and 3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := sample()
			tt.mutate(p)
			err := p.Validate()
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, ErrInvalidPuzzle) {
				t.Errorf("error %v does not wrap ErrInvalidPuzzle", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err.Error(), tt.want)
			}
		})
	}
}

func TestNormalizeMakesDuplicatesVisible(t *testing.T) {
	p := sample()
	p.Sets[3].Words[0] = "  horse "
	p.Sets[0].Type = " PURPLE"
	p.Normalize()
	if p.Sets[0].Type != Purple {
		t.Errorf("type not normalized: %q", p.Sets[0].Type)
	}
	if err := p.Validate(); err == nil {
		t.Fatal("expected duplicate after normalize")
	}
}

func TestSetTypeColor(t *testing.T) {
	if Green.Color() != "#A7C268" {
		t.Errorf("Green.Color() = %q", Green.Color())
	}
	if SetType("red").Color() != "" {
		t.Error("unknown type should have no color")
	}
}
