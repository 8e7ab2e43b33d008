package testutil

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFixedRunIDGenerator(t *testing.T) {
	g := NewFixedRunIDGenerator("run-abc")
	assert.Equal(t, "run-abc", g.Generate())
	assert.Equal(t, "run-abc", g.Generate())

	assert.Equal(t, "run-fixed", NewFixedRunIDGenerator("").Generate())
}

func TestSequentialRunIDGenerator(t *testing.T) {
	g := NewSequentialRunIDGenerator()
	assert.Equal(t, "run-0001", g.Generate())
	assert.Equal(t, "run-0002", g.Generate())

	g.Reset()
	assert.Equal(t, "run-0001", g.Generate())
}

func TestSequentialRunIDGenerator_Concurrent(t *testing.T) {
	g := NewSequentialRunIDGenerator()

	var mu sync.Mutex
	seen := make(map[string]bool)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id := g.Generate()
			mu.Lock()
			seen[id] = true
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Len(t, seen, 50, "every id must be unique")
}

func TestFixtures(t *testing.T) {
	assert.Equal(t, 3, ChainNetwork(t).HoleCount())
	assert.Equal(t, 2, CycleNetwork(t).ConnectorCount())
	assert.Equal(t, 4, FanOutNetwork(t, 4, 100).ConnectorCount())
	assert.True(t, EmptyNetwork(t).IsEmpty())
}
