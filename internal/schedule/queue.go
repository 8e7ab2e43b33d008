package schedule

import "github.com/roach88/blastseq/internal/network"

// entry is a queued hole together with the activation time it was queued at.
// An entry whose time no longer matches the hole's activation is stale.
type entry struct {
	hole   network.HoleHandle
	timeMs int64
}

// holeQueue is an unbounded FIFO of holes awaiting relaxation.
// Single-goroutine only; it lives for one Compute call.
type holeQueue struct {
	entries []entry
	head    int
}

func newHoleQueue(capacity int) *holeQueue {
	return &holeQueue{entries: make([]entry, 0, capacity)}
}

// Enqueue adds a hole to the back of the queue.
func (q *holeQueue) Enqueue(h network.HoleHandle, timeMs int64) {
	q.entries = append(q.entries, entry{hole: h, timeMs: timeMs})
}

// TryDequeue removes and returns the front entry.
// Returns (entry{}, false) if the queue is empty.
func (q *holeQueue) TryDequeue() (entry, bool) {
	if q.head >= len(q.entries) {
		return entry{}, false
	}
	e := q.entries[q.head]
	q.head++

	// Reclaim the backing array once drained.
	if q.head == len(q.entries) {
		q.entries = q.entries[:0]
		q.head = 0
	}
	return e, true
}

// Len returns the number of queued entries.
func (q *holeQueue) Len() int {
	return len(q.entries) - q.head
}
