package depgraph

import (
	"errors"
	"fmt"
)

// MalformedGraphError reports a graph or grouping that is rejected before
// scheduling. Fatal, never retried.
type MalformedGraphError struct {
	// Code identifies the defect category.
	Code MalformedGraphCode

	// Message is a human-readable description.
	Message string

	// Nodes lists the implicated statement indices or group ids.
	Nodes []int
}

// MalformedGraphCode categorizes construction failures.
type MalformedGraphCode string

const (
	// CodeEdgeOutOfRange indicates an edge references a statement index
	// outside 0..N-1.
	CodeEdgeOutOfRange MalformedGraphCode = "EDGE_OUT_OF_RANGE"

	// CodeGroupCollision indicates a group id collides with a statement index.
	CodeGroupCollision MalformedGraphCode = "GROUP_COLLISION"

	// CodeGroupCycle indicates a cyclic group nesting (A contains B contains A).
	CodeGroupCycle MalformedGraphCode = "GROUP_CYCLE"

	// CodeEmptyKinds indicates an edge with no kinds at all.
	CodeEmptyKinds MalformedGraphCode = "EMPTY_KINDS"
)

// Error implements the error interface.
func (e *MalformedGraphError) Error() string {
	if len(e.Nodes) > 0 {
		return fmt.Sprintf("%s: %s (nodes=%v)", e.Code, e.Message, e.Nodes)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsMalformedGraph reports whether err is any malformed-graph rejection.
// Uses errors.As to handle wrapped errors.
func IsMalformedGraph(err error) bool {
	var me *MalformedGraphError
	return errors.As(err, &me)
}
