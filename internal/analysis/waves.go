package analysis

import (
	"github.com/roach88/blastseq/internal/network"
	"github.com/roach88/blastseq/internal/schedule"
)

// Wave is a group of connectors at the same causal distance from the roots.
type Wave struct {
	Number       int      `json:"number"`
	StartMs      int64    `json:"start_ms"`
	Count        int      `json:"count"`
	ConnectorIDs []string `json:"connector_ids"`
}

// Waves partitions windowed connectors by graph distance from the roots.
// Wave 1 holds the connectors leaving a root; wave n+1 holds the connectors
// leaving a hole first reached by a wave n connector. Delays play no part.
// Connectors keep caller order within a wave.
func Waves(s *schedule.Schedule) []Wave {
	depths := ConnectorDepths(s)

	var waves []Wave
	n := s.Network()
	for c := 0; c < n.ConnectorCount(); c++ {
		d := depths[c]
		if d == 0 {
			continue
		}
		for len(waves) < d {
			waves = append(waves, Wave{Number: len(waves) + 1, StartMs: -1})
		}
		w := &waves[d-1]
		win, _ := s.Window(network.ConnectorHandle(c))
		if w.StartMs < 0 || win.StartMs < w.StartMs {
			w.StartMs = win.StartMs
		}
		w.Count++
		w.ConnectorIDs = append(w.ConnectorIDs, n.ConnectorID(network.ConnectorHandle(c)))
	}
	return waves
}

// ConnectorDepths returns the wave number of every connector, indexed by
// handle: one more than the hop count from the nearest root to its source.
// Connectors without a window have depth 0.
func ConnectorDepths(s *schedule.Schedule) []int {
	n := s.Network()
	depths := make([]int, n.ConnectorCount())

	// holeDepth is -1 until a hole is first reached by the breadth-first sweep.
	holeDepth := make([]int, n.HoleCount())
	for h := range holeDepth {
		holeDepth[h] = -1
	}
	queue := make([]network.HoleHandle, 0, n.HoleCount())
	for _, r := range s.Roots() {
		if holeDepth[r] < 0 {
			holeDepth[r] = 0
			queue = append(queue, r)
		}
	}

	for len(queue) > 0 {
		h := queue[0]
		queue = queue[1:]
		for _, c := range n.Outgoing(h) {
			if _, ok := s.Window(c); !ok {
				continue
			}
			depths[c] = holeDepth[h] + 1
			if dst := n.Connector(c).Target; holeDepth[dst] < 0 {
				holeDepth[dst] = depths[c]
				queue = append(queue, dst)
			}
		}
	}
	return depths
}
