// internal/catalog/catalog.go
//
// Provides puzzle catalog management for the game engine.
//
// Responsibilities:
//   - Load puzzles from an environment-provided JSON file or fall back to the
//     embedded default catalog.
//   - Normalize and validate every puzzle at load time; a single malformed
//     puzzle fails the whole load.
//   - Supply lookups: ByID, Random, At (daily index), IDs, Len.
//
// File format:
//   {"puzzles":[{"id":"abc","sets":[{"words":[...],"solution":"...","type":"green"}, ...]}]}
//
// Environment variables:
//   PUZZLES_FILE=/path/to/puzzles.json
//
// The package-level catalog is initialized once (sync.Once) by Init.

package catalog

import (
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/big"
	"os"
	"sync"

	"github.com/robalobadob/connections/assets"
	"github.com/robalobadob/connections/internal/puzzle"
)

// ErrNotFound is returned by ByID for unknown puzzle ids.
var ErrNotFound = errors.New("puzzle not found")

// Catalog is an immutable, validated list of puzzles.
type Catalog struct {
	puzzles []*puzzle.Puzzle
	byID    map[string]*puzzle.Puzzle
}

type fileFormat struct {
	Puzzles []*puzzle.Puzzle `json:"puzzles"`
}

// Parse decodes, normalizes and validates a catalog document.
func Parse(data []byte) (*Catalog, error) {
	var doc fileFormat
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	return New(doc.Puzzles...)
}

// New validates the given puzzles and builds a Catalog.
// Returns an error on an empty list, a duplicate id, or an invalid puzzle.
func New(puzzles ...*puzzle.Puzzle) (*Catalog, error) {
	if len(puzzles) == 0 {
		return nil, errors.New("catalog: no puzzles")
	}
	c := &Catalog{byID: make(map[string]*puzzle.Puzzle, len(puzzles))}
	for _, p := range puzzles {
		if p == nil {
			return nil, errors.New("catalog: null puzzle entry")
		}
		p.Normalize()
		if err := p.Validate(); err != nil {
			return nil, err
		}
		if _, dup := c.byID[p.ID]; dup {
			return nil, fmt.Errorf("catalog: duplicate puzzle id %q", p.ID)
		}
		c.byID[p.ID] = p
		c.puzzles = append(c.puzzles, p)
	}
	return c, nil
}

// Load reads a catalog from path.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Embedded returns the default catalog shipped in the binary.
func Embedded() (*Catalog, error) {
	data, err := assets.PuzzlesJSON()
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Len returns the number of puzzles.
func (c *Catalog) Len() int { return len(c.puzzles) }

// At returns the i-th puzzle in file order.
func (c *Catalog) At(i int) *puzzle.Puzzle { return c.puzzles[i] }

// IDs returns puzzle ids in file order.
func (c *Catalog) IDs() []string {
	out := make([]string, len(c.puzzles))
	for i, p := range c.puzzles {
		out[i] = p.ID
	}
	return out
}

// ByID looks up a puzzle.
func (c *Catalog) ByID(id string) (*puzzle.Puzzle, error) {
	if p, ok := c.byID[id]; ok {
		return p, nil
	}
	return nil, ErrNotFound
}

// randReader is swapped in tests.
var randReader io.Reader = rand.Reader

// Random returns a cryptographically random puzzle, or the first one if
// the random source fails.
func (c *Catalog) Random() *puzzle.Puzzle {
	n, err := rand.Int(randReader, big.NewInt(int64(len(c.puzzles))))
	if err != nil {
		return c.puzzles[0]
	}
	return c.puzzles[n.Int64()]
}

var (
	initOnce   sync.Once
	defaultCat *Catalog
	initialErr error
)

// Init loads the default catalog exactly once, from PUZZLES_FILE when set
// and from the embedded assets otherwise.
func Init(path string) (*Catalog, error) {
	initOnce.Do(func() {
		if path != "" {
			defaultCat, initialErr = Load(path)
			return
		}
		defaultCat, initialErr = Embedded()
	})
	return defaultCat, initialErr
}
