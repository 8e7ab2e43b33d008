package testutil

import (
	"fmt"
	"sync"
)

// FixedRunIDGenerator returns the same run id every time.
//
// Archived runs written with it have byte-identical rows, which keeps golden
// comparisons of the archive stable.
type FixedRunIDGenerator struct {
	id string
}

// NewFixedRunIDGenerator creates a generator for id.
// If id is empty, Generate returns "run-fixed".
func NewFixedRunIDGenerator(id string) *FixedRunIDGenerator {
	if id == "" {
		id = "run-fixed"
	}
	return &FixedRunIDGenerator{id: id}
}

// Generate returns the fixed run id.
func (g *FixedRunIDGenerator) Generate() string {
	return g.id
}

// SequentialRunIDGenerator returns run-0001, run-0002, ... and can be reset
// for test reuse.
//
// Thread-safety: all methods are safe for concurrent use.
type SequentialRunIDGenerator struct {
	mu  sync.Mutex
	seq int
}

// NewSequentialRunIDGenerator creates a generator whose first id is run-0001.
func NewSequentialRunIDGenerator() *SequentialRunIDGenerator {
	return &SequentialRunIDGenerator{}
}

// Generate returns the next run id.
func (g *SequentialRunIDGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seq++
	return fmt.Sprintf("run-%04d", g.seq)
}

// Reset restarts the sequence at run-0001.
func (g *SequentialRunIDGenerator) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seq = 0
}
