package network

import (
	"strconv"

	"github.com/roach88/blastseq/internal/canonical"
)

// Network is an immutable arena of holes and connectors.
//
// INVARIANTS:
//   - every connector's Source and Target are valid hole handles
//   - hole and connector ids are unique
//   - connector order is the caller's order and never changes
type Network struct {
	holes      []Hole
	connectors []Connector

	holeIndex      map[string]HoleHandle
	connectorIndex map[string]ConnectorHandle

	outgoing [][]ConnectorHandle
	incoming [][]ConnectorHandle
}

// Build validates the records and constructs a Network.
//
// Returns *InvalidGraphError when a record is malformed, an id is duplicated,
// or a connector endpoint names a hole that is not in holes. Cycles are not
// rejected.
func Build(holes []HoleRecord, connectors []ConnectorRecord) (*Network, error) {
	if err := validateRecords(holes, connectors); err != nil {
		return nil, err
	}

	n := &Network{
		holes:          make([]Hole, len(holes)),
		connectors:     make([]Connector, 0, len(connectors)),
		holeIndex:      make(map[string]HoleHandle, len(holes)),
		connectorIndex: make(map[string]ConnectorHandle, len(connectors)),
		outgoing:       make([][]ConnectorHandle, len(holes)),
		incoming:       make([][]ConnectorHandle, len(holes)),
	}
	for i, h := range holes {
		n.holes[i] = Hole{ID: h.ID, X: h.X, Y: h.Y}
		n.holeIndex[h.ID] = HoleHandle(i)
	}

	var dangling []string
	for _, rec := range connectors {
		src, okSrc := n.holeIndex[rec.SourceHoleID]
		dst, okDst := n.holeIndex[rec.TargetHoleID]
		if !okSrc || !okDst {
			dangling = append(dangling, rec.ID)
			continue
		}

		kind := rec.Kind
		if kind == "" {
			kind = KindDetonatingCord
		}
		c := ConnectorHandle(len(n.connectors))
		n.connectors = append(n.connectors, Connector{
			ID:       rec.ID,
			Source:   src,
			Target:   dst,
			DelayMs:  rec.DelayMs,
			Sequence: rec.Sequence,
			Kind:     kind,
			IsRoot:   rec.IsRoot,
		})
		n.connectorIndex[rec.ID] = c
		n.outgoing[src] = append(n.outgoing[src], c)
		n.incoming[dst] = append(n.incoming[dst], c)
	}
	if len(dangling) > 0 {
		return nil, newDanglingError(dangling)
	}

	return n, nil
}

// DropDangling returns the connectors whose endpoints both name a supplied
// hole, plus the ids of the connectors that were dropped.
//
// Build never repairs input on its own; callers that want the lenient
// behaviour must opt in by filtering first.
func DropDangling(holes []HoleRecord, connectors []ConnectorRecord) ([]ConnectorRecord, []string) {
	known := make(map[string]struct{}, len(holes))
	for _, h := range holes {
		known[h.ID] = struct{}{}
	}

	kept := make([]ConnectorRecord, 0, len(connectors))
	var dropped []string
	for _, c := range connectors {
		_, okSrc := known[c.SourceHoleID]
		_, okDst := known[c.TargetHoleID]
		if okSrc && okDst {
			kept = append(kept, c)
		} else {
			dropped = append(dropped, c.ID)
		}
	}
	return kept, dropped
}

// HoleCount returns the number of holes, connected or not.
func (n *Network) HoleCount() int { return len(n.holes) }

// ConnectorCount returns the number of connectors.
func (n *Network) ConnectorCount() int { return len(n.connectors) }

// IsEmpty reports whether the network has no connectors.
func (n *Network) IsEmpty() bool { return len(n.connectors) == 0 }

// Hole returns the hole for a handle.
func (n *Network) Hole(h HoleHandle) Hole { return n.holes[h] }

// Connector returns the connector for a handle.
func (n *Network) Connector(c ConnectorHandle) Connector { return n.connectors[c] }

// HoleID returns the external id of a hole.
func (n *Network) HoleID(h HoleHandle) string { return n.holes[h].ID }

// ConnectorID returns the external id of a connector.
func (n *Network) ConnectorID(c ConnectorHandle) string { return n.connectors[c].ID }

// LookupHole resolves an external hole id.
func (n *Network) LookupHole(id string) (HoleHandle, bool) {
	h, ok := n.holeIndex[id]
	return h, ok
}

// LookupConnector resolves an external connector id.
func (n *Network) LookupConnector(id string) (ConnectorHandle, bool) {
	c, ok := n.connectorIndex[id]
	return c, ok
}

// Outgoing returns the connectors leaving h in caller order.
// The returned slice is shared and must not be modified.
func (n *Network) Outgoing(h HoleHandle) []ConnectorHandle { return n.outgoing[h] }

// Incoming returns the connectors arriving at h in caller order.
// The returned slice is shared and must not be modified.
func (n *Network) Incoming(h HoleHandle) []ConnectorHandle { return n.incoming[h] }

// ReferencedHoles returns, in handle order, the holes touched by at least one
// connector.
func (n *Network) ReferencedHoles() []HoleHandle {
	var out []HoleHandle
	for h := range n.holes {
		if len(n.outgoing[h]) > 0 || len(n.incoming[h]) > 0 {
			out = append(out, HoleHandle(h))
		}
	}
	return out
}

// OrphanedHoles returns the holes no connector touches.
func (n *Network) OrphanedHoles() []HoleHandle {
	var out []HoleHandle
	for h := range n.holes {
		if len(n.outgoing[h]) == 0 && len(n.incoming[h]) == 0 {
			out = append(out, HoleHandle(h))
		}
	}
	return out
}

// Definition returns the network in record form, in arena order.
func (n *Network) Definition() Definition {
	d := Definition{
		Holes:      make([]HoleRecord, len(n.holes)),
		Connectors: make([]ConnectorRecord, len(n.connectors)),
	}
	for i, h := range n.holes {
		d.Holes[i] = HoleRecord{ID: h.ID, X: h.X, Y: h.Y}
	}
	for i, c := range n.connectors {
		d.Connectors[i] = ConnectorRecord{
			ID:           c.ID,
			SourceHoleID: n.holes[c.Source].ID,
			TargetHoleID: n.holes[c.Target].ID,
			DelayMs:      c.DelayMs,
			Sequence:     c.Sequence,
			Kind:         c.Kind,
			IsRoot:       c.IsRoot,
		}
	}
	return d
}

// Fingerprint returns a content hash of the network. Coordinates are encoded
// as shortest round-trip decimal strings.
func (n *Network) Fingerprint() string {
	holes := make([]any, len(n.holes))
	for i, h := range n.holes {
		holes[i] = map[string]any{
			"id": h.ID,
			"x":  strconv.FormatFloat(h.X, 'g', -1, 64),
			"y":  strconv.FormatFloat(h.Y, 'g', -1, 64),
		}
	}
	connectors := make([]any, len(n.connectors))
	for i, c := range n.connectors {
		connectors[i] = map[string]any{
			"id":       c.ID,
			"source":   n.holes[c.Source].ID,
			"target":   n.holes[c.Target].ID,
			"delay_ms": c.DelayMs,
			"sequence": c.Sequence,
			"kind":     string(c.Kind),
			"is_root":  c.IsRoot,
		}
	}
	return canonical.MustFingerprint(canonical.DomainNetwork, map[string]any{
		"holes":      holes,
		"connectors": connectors,
	})
}
