package sim

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/roach88/blastseq/internal/canonical"
	"github.com/roach88/blastseq/internal/network"
	"github.com/roach88/blastseq/internal/schedule"
)

// EventType identifies an Event variant. The numeric order is the tie-break
// for events at the same time: a signal arrives before the hole detonates,
// and the detonation precedes its effect.
type EventType int

const (
	EventSignalArrive EventType = iota + 1
	EventHoleDetonate
	EventEffectStart
)

func (t EventType) String() string {
	switch t {
	case EventSignalArrive:
		return "signal_arrive"
	case EventHoleDetonate:
		return "hole_detonate"
	case EventEffectStart:
		return "effect_start"
	default:
		return fmt.Sprintf("event_type(%d)", int(t))
	}
}

// Event is one entry of the timeline. The concrete types are SignalArrive,
// HoleDetonate and EffectStart.
type Event interface {
	AtMs() int64
	Type() EventType
	// Subject is the connector or hole id the event is about.
	Subject() string

	record() EventRecord
}

// SignalArrive is emitted when a connector's signal reaches its target.
type SignalArrive struct {
	At          int64
	ConnectorID string
	ToHoleID    string
}

// HoleDetonate is emitted when a hole activates. TriggeredBy is the
// connector that caused the activation, empty for roots.
type HoleDetonate struct {
	At          int64
	HoleID      string
	TriggeredBy string
}

// EffectStart is emitted when a visual effect begins.
type EffectStart struct {
	At         int64
	HoleID     string
	Kind       EffectKind
	DurationMs int64
}

func (e SignalArrive) AtMs() int64     { return e.At }
func (e SignalArrive) Type() EventType { return EventSignalArrive }
func (e SignalArrive) Subject() string { return e.ConnectorID }
func (e HoleDetonate) AtMs() int64     { return e.At }
func (e HoleDetonate) Type() EventType { return EventHoleDetonate }
func (e HoleDetonate) Subject() string { return e.HoleID }
func (e EffectStart) AtMs() int64      { return e.At }
func (e EffectStart) Type() EventType  { return EventEffectStart }
func (e EffectStart) Subject() string  { return e.HoleID }

func (e SignalArrive) record() EventRecord {
	return EventRecord{AtMs: e.At, Type: EventSignalArrive.String(), ConnectorID: e.ConnectorID, HoleID: e.ToHoleID}
}

func (e HoleDetonate) record() EventRecord {
	return EventRecord{AtMs: e.At, Type: EventHoleDetonate.String(), HoleID: e.HoleID, TriggeredBy: e.TriggeredBy}
}

func (e EffectStart) record() EventRecord {
	return EventRecord{AtMs: e.At, Type: EventEffectStart.String(), HoleID: e.HoleID, Effect: string(e.Kind), DurationMs: e.DurationMs}
}

// EventRecord is the flat form of an Event used for JSON output and storage.
type EventRecord struct {
	AtMs        int64  `json:"at_ms"`
	Type        string `json:"type"`
	ConnectorID string `json:"connector_id,omitempty"`
	HoleID      string `json:"hole_id,omitempty"`
	TriggeredBy string `json:"triggered_by,omitempty"`
	Effect      string `json:"effect,omitempty"`
	DurationMs  int64  `json:"duration_ms,omitempty"`
}

// Record flattens e.
func Record(e Event) EventRecord {
	return e.record()
}

// Records flattens a timeline.
func Records(events []Event) []EventRecord {
	out := make([]EventRecord, len(events))
	for i, e := range events {
		out[i] = e.record()
	}
	return out
}

// FromRecord rebuilds an Event from its flat form.
func FromRecord(r EventRecord) (Event, error) {
	switch r.Type {
	case EventSignalArrive.String():
		return SignalArrive{At: r.AtMs, ConnectorID: r.ConnectorID, ToHoleID: r.HoleID}, nil
	case EventHoleDetonate.String():
		return HoleDetonate{At: r.AtMs, HoleID: r.HoleID, TriggeredBy: r.TriggeredBy}, nil
	case EventEffectStart.String():
		return EffectStart{At: r.AtMs, HoleID: r.HoleID, Kind: EffectKind(r.Effect), DurationMs: r.DurationMs}, nil
	default:
		return nil, fmt.Errorf("unknown event type %q", r.Type)
	}
}

// GenerateEvents builds the whole timeline eagerly: a SignalArrive at every
// connector arrival, and a HoleDetonate plus an explosion EffectStart at every
// reached hole's activation. Events are sorted by time, then type, then
// subject id.
func GenerateEvents(s *schedule.Schedule) []Event {
	n := s.Network()
	var events []Event

	for c := 0; c < n.ConnectorCount(); c++ {
		ch := network.ConnectorHandle(c)
		w, ok := s.Window(ch)
		if !ok {
			continue
		}
		conn := n.Connector(ch)
		events = append(events, SignalArrive{At: w.EndMs, ConnectorID: conn.ID, ToHoleID: n.HoleID(conn.Target)})
	}

	for h := 0; h < n.HoleCount(); h++ {
		hh := network.HoleHandle(h)
		at, ok := s.Activation(hh)
		if !ok {
			continue
		}
		var cause string
		if c := s.Cause(hh); c != network.NoConnector {
			cause = n.ConnectorID(c)
		}
		events = append(events,
			HoleDetonate{At: at, HoleID: n.HoleID(hh), TriggeredBy: cause},
			EffectStart{At: at, HoleID: n.HoleID(hh), Kind: EffectExplosion, DurationMs: ExplosionDurationMs},
		)
	}

	sort.SliceStable(events, func(i, j int) bool {
		a, b := events[i], events[j]
		if a.AtMs() != b.AtMs() {
			return a.AtMs() < b.AtMs()
		}
		if a.Type() != b.Type() {
			return a.Type() < b.Type()
		}
		return a.Subject() < b.Subject()
	})
	return events
}

// CanonicalTimeline returns the RFC 8785 encoding of a timeline. Golden
// files and archive fingerprints are built from it.
func CanonicalTimeline(events []Event) ([]byte, error) {
	return canonical.Marshal(timelineValue(events))
}

// TimelineFingerprint returns the content hash of a timeline.
func TimelineFingerprint(events []Event) string {
	return canonical.MustFingerprint(canonical.DomainTimeline, timelineValue(events))
}

func timelineValue(events []Event) []any {
	out := make([]any, len(events))
	for i, e := range events {
		r := e.record()
		obj := map[string]any{"at_ms": r.AtMs, "type": r.Type}
		if r.ConnectorID != "" {
			obj["connector_id"] = r.ConnectorID
		}
		if r.HoleID != "" {
			obj["hole_id"] = r.HoleID
		}
		if r.TriggeredBy != "" {
			obj["triggered_by"] = r.TriggeredBy
		}
		if r.Effect != "" {
			obj["effect"] = r.Effect
			obj["duration_ms"] = r.DurationMs
		}
		out[i] = obj
	}
	return out
}

// MarshalEvents encodes a timeline as a JSON array of records.
func MarshalEvents(events []Event) ([]byte, error) {
	return json.Marshal(Records(events))
}
