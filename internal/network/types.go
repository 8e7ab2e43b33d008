package network

import "fmt"

// ConnectorKind categorizes a connector for display. It never affects timing.
type ConnectorKind string

const (
	KindDetonatingCord ConnectorKind = "detonating_cord"
	KindConnectors     ConnectorKind = "connectors"
	KindElectronic     ConnectorKind = "electronic"
)

// DisplayName returns the label used in reports and timeline markers.
func (k ConnectorKind) DisplayName() string {
	switch k {
	case KindDetonatingCord, "":
		return "Detonating Cord"
	case KindConnectors:
		return "Connectors"
	case KindElectronic:
		return "Electronic"
	default:
		return string(k)
	}
}

// HoleRecord is the input form of a drill hole.
type HoleRecord struct {
	ID string  `json:"id" yaml:"id" validate:"required"`
	X  float64 `json:"x" yaml:"x"`
	Y  float64 `json:"y" yaml:"y"`
}

// ConnectorRecord is the input form of a delayed signal path between holes.
type ConnectorRecord struct {
	ID           string        `json:"id" yaml:"id" validate:"required"`
	SourceHoleID string        `json:"source_hole_id" yaml:"source_hole_id" validate:"required"`
	TargetHoleID string        `json:"target_hole_id" yaml:"target_hole_id" validate:"required"`
	DelayMs      int64         `json:"delay_ms" yaml:"delay_ms" validate:"gte=0"`
	Sequence     int           `json:"sequence" yaml:"sequence"`
	Kind         ConnectorKind `json:"kind,omitempty" yaml:"kind,omitempty" validate:"omitempty,oneof=detonating_cord connectors electronic"`
	IsRoot       bool          `json:"is_root,omitempty" yaml:"is_root,omitempty"`
}

// Definition is a complete network as read from a file or scenario.
type Definition struct {
	Holes      []HoleRecord      `json:"holes" yaml:"holes"`
	Connectors []ConnectorRecord `json:"connectors" yaml:"connectors"`
}

// Build validates the definition and constructs its Network.
func (d Definition) Build() (*Network, error) {
	return Build(d.Holes, d.Connectors)
}

// HoleHandle is the dense index of a hole inside one Network.
type HoleHandle int

// ConnectorHandle is the dense index of a connector inside one Network.
type ConnectorHandle int

// NoHole and NoConnector mark the absence of a handle.
const (
	NoHole      HoleHandle      = -1
	NoConnector ConnectorHandle = -1
)

// Hole is a drill hole stored in the arena.
type Hole struct {
	ID string
	X  float64
	Y  float64
}

// Connector is a connector stored in the arena with resolved endpoints.
type Connector struct {
	ID       string
	Source   HoleHandle
	Target   HoleHandle
	DelayMs  int64
	Sequence int
	Kind     ConnectorKind
	IsRoot   bool
}

func (c Connector) String() string {
	return fmt.Sprintf("%s(%d->%d, %dms)", c.ID, c.Source, c.Target, c.DelayMs)
}
