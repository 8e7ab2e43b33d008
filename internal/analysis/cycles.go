package analysis

import (
	"strings"

	"github.com/roach88/blastseq/internal/network"
)

// Cycle is a closed connector path, listed as hole ids in path order.
type Cycle []string

// String renders the path closed back on its first hole, e.g. "A -> B -> A".
func (c Cycle) String() string {
	if len(c) == 0 {
		return ""
	}
	return strings.Join(append(append([]string{}, c...), c[0]), " -> ")
}

// DetectCycles finds cycles using DFS with three-colour marking. Holes are
// visited in handle order and edges in caller order, so the result is
// deterministic. A self-loop is reported as a one-hole cycle.
//
// Cycles do not stop propagation; they are reported so the caller can warn.
func DetectCycles(n *network.Network) []Cycle {
	const (
		white = iota
		grey
		black
	)

	color := make([]int, n.HoleCount())
	parent := make([]network.HoleHandle, n.HoleCount())
	var cycles []Cycle

	var visit func(h network.HoleHandle)
	visit = func(h network.HoleHandle) {
		color[h] = grey
		for _, c := range n.Outgoing(h) {
			next := n.Connector(c).Target
			switch {
			case next == h:
				cycles = append(cycles, Cycle{n.HoleID(h)})
			case color[next] == white:
				parent[next] = h
				visit(next)
			case color[next] == grey:
				cycles = append(cycles, extractCycle(n, next, h, parent))
			}
		}
		color[h] = black
	}

	for h := 0; h < n.HoleCount(); h++ {
		if color[h] == white {
			visit(network.HoleHandle(h))
		}
	}
	return cycles
}

// extractCycle walks parent pointers back from end to start, the endpoints of
// a back edge end->start, and returns the cycle in forward order.
func extractCycle(n *network.Network, start, end network.HoleHandle, parent []network.HoleHandle) Cycle {
	var rev []network.HoleHandle
	for cur := end; cur != start; cur = parent[cur] {
		rev = append(rev, cur)
	}
	cycle := Cycle{n.HoleID(start)}
	for i := len(rev) - 1; i >= 0; i-- {
		cycle = append(cycle, n.HoleID(rev[i]))
	}
	return cycle
}
