package network

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorCode categorizes why a network failed to build.
type ErrorCode string

const (
	// ErrCodeDanglingReference indicates a connector endpoint names an unknown hole.
	ErrCodeDanglingReference ErrorCode = "DANGLING_REFERENCE"

	// ErrCodeDuplicateID indicates two holes or two connectors share an id.
	ErrCodeDuplicateID ErrorCode = "DUPLICATE_ID"

	// ErrCodeInvalidRecord indicates a record failed field validation.
	ErrCodeInvalidRecord ErrorCode = "INVALID_RECORD"
)

// InvalidGraphError is the load-time error for structurally broken input.
// It is fatal to network construction.
type InvalidGraphError struct {
	// Code identifies the structural problem.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// ConnectorIDs lists the offending connectors, in input order.
	ConnectorIDs []string

	// HoleIDs lists the offending holes, in input order.
	HoleIDs []string
}

// Error implements the error interface.
func (e *InvalidGraphError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "INVALID_GRAPH: %s: %s", e.Code, e.Message)
	if len(e.ConnectorIDs) > 0 {
		fmt.Fprintf(&b, " (connectors=%s)", strings.Join(e.ConnectorIDs, ","))
	}
	if len(e.HoleIDs) > 0 {
		fmt.Fprintf(&b, " (holes=%s)", strings.Join(e.HoleIDs, ","))
	}
	return b.String()
}

// IsInvalidGraph reports whether err is, or wraps, an *InvalidGraphError.
func IsInvalidGraph(err error) bool {
	var ige *InvalidGraphError
	return errors.As(err, &ige)
}

// IsDanglingReference reports whether err is an InvalidGraphError caused by a
// connector endpoint that names an unknown hole.
func IsDanglingReference(err error) bool {
	var ige *InvalidGraphError
	if errors.As(err, &ige) {
		return ige.Code == ErrCodeDanglingReference
	}
	return false
}

func newDanglingError(connectorIDs []string) *InvalidGraphError {
	return &InvalidGraphError{
		Code:         ErrCodeDanglingReference,
		Message:      fmt.Sprintf("%d connector(s) reference holes that do not exist", len(connectorIDs)),
		ConnectorIDs: connectorIDs,
	}
}
