package schedule

import (
	"fmt"
	"strings"
)

// DiagnosticCode categorizes a non-fatal finding produced during Compute.
type DiagnosticCode string

const (
	// DiagUnreachableHoles lists holes referenced by a connector that no root
	// could reach. Their activation stays unset.
	DiagUnreachableHoles DiagnosticCode = "UNREACHABLE_HOLES"

	// DiagDegenerateRootSelection is emitted when every connected hole has an
	// incoming connector and the first connector's source was used as the root.
	DiagDegenerateRootSelection DiagnosticCode = "DEGENERATE_ROOT_SELECTION"
)

// Diagnostic is returned alongside a valid, possibly partial, Schedule.
type Diagnostic struct {
	Code    DiagnosticCode `json:"code"`
	Message string         `json:"message"`
	HoleIDs []string       `json:"hole_ids,omitempty"`
}

func (d Diagnostic) String() string {
	if len(d.HoleIDs) == 0 {
		return fmt.Sprintf("%s: %s", d.Code, d.Message)
	}
	return fmt.Sprintf("%s: %s [%s]", d.Code, d.Message, strings.Join(d.HoleIDs, ", "))
}

func unreachableDiagnostic(ids []string) Diagnostic {
	return Diagnostic{
		Code:    DiagUnreachableHoles,
		Message: fmt.Sprintf("%d hole(s) were never reached from the root set", len(ids)),
		HoleIDs: ids,
	}
}

func degenerateRootDiagnostic(rootID, connectorID string) Diagnostic {
	return Diagnostic{
		Code:    DiagDegenerateRootSelection,
		Message: fmt.Sprintf("no natural start hole; using source of connector %s", connectorID),
		HoleIDs: []string{rootID},
	}
}
