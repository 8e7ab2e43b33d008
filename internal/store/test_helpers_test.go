package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/roach88/blastseq/internal/schedule"
	"github.com/roach88/blastseq/internal/testutil"
)

// createTestStore opens a fresh archive in a temp directory.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// writeChainRun archives the chain network under id.
func writeChainRun(t *testing.T, s *Store, id string) Run {
	t.Helper()
	sched := schedule.Compute(testutil.ChainNetwork(t))
	run, err := s.WriteRun(context.Background(), id, "chain", sched)
	if err != nil {
		t.Fatalf("WriteRun() failed: %v", err)
	}
	return run
}
