package compile

import (
	"fmt"

	"github.com/inferkit/schedc/internal/ir"
)

// Validation error codes (E100-E199)
const (
	// General model errors (E100-E109)
	ErrStatementCountNegative = "E101" // statement count must be >= 0

	// Edge errors (E110-E119)
	ErrEdgeSourceRange = "E110" // edge source index out of range
	ErrEdgeTargetRange = "E111" // edge target index out of range
	ErrEdgeKindsEmpty  = "E112" // edge carries no kinds

	// Group errors (E120-E129)
	ErrGroupMemberRange = "E120" // group member index negative
	ErrGroupIDCollision = "E121" // group id collides with a statement index
	ErrGroupSelfNesting = "E122" // group nested inside itself
	ErrGroupCycle       = "E123" // group nesting forms a cycle
)

// ValidationError represents one model spec defect.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// ValidationErrors aggregates every defect found in one spec.
type ValidationErrors []ValidationError

func (errs ValidationErrors) Error() string {
	switch len(errs) {
	case 0:
		return "no validation errors"
	case 1:
		return errs[0].Error()
	default:
		return fmt.Sprintf("%s (and %d more)", errs[0].Error(), len(errs)-1)
	}
}

// Validate checks a model spec against the graph invariants.
// Returns all errors found (does not fail-fast).
func Validate(spec ir.ModelSpec) []ValidationError {
	var errs []ValidationError

	n := spec.Statements
	if n < 0 {
		errs = append(errs, ValidationError{
			Field:   "statements",
			Message: fmt.Sprintf("statement count must be non-negative, got %d", n),
			Code:    ErrStatementCountNegative,
		})
		return errs
	}

	for i, e := range spec.Edges {
		if e.Source < 0 || e.Source >= n {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("edges[%d].source", i),
				Message: fmt.Sprintf("source %d outside statement range [0,%d)", e.Source, n),
				Code:    ErrEdgeSourceRange,
			})
		}
		if e.Target < 0 || e.Target >= n {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("edges[%d].target", i),
				Message: fmt.Sprintf("target %d outside statement range [0,%d)", e.Target, n),
				Code:    ErrEdgeTargetRange,
			})
		}
		if e.Kinds == 0 {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("edges[%d].kinds", i),
				Message: "edge must carry at least one kind",
				Code:    ErrEdgeKindsEmpty,
			})
		}
	}

	errs = append(errs, validateGroups(spec)...)
	return errs
}

// validateGroups checks the group assignment: members in range, group ids
// disjoint from statement indices, nesting acyclic.
func validateGroups(spec ir.ModelSpec) []ValidationError {
	var errs []ValidationError
	n := spec.Statements

	for member, group := range spec.GroupOf {
		if member < 0 {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("group_of[%d]", member),
				Message: "member index must be non-negative",
				Code:    ErrGroupMemberRange,
			})
			continue
		}
		if group == ir.GroupNone {
			continue
		}
		if group >= 0 && group < n {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("group_of[%d]", member),
				Message: fmt.Sprintf("group id %d collides with statement range [0,%d)", group, n),
				Code:    ErrGroupIDCollision,
			})
		}
		if member == group {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("group_of[%d]", member),
				Message: fmt.Sprintf("group %d cannot be nested inside itself", group),
				Code:    ErrGroupSelfNesting,
			})
		}
	}

	// Walk each nesting chain; a chain longer than the map revisits a group.
	for member := range spec.GroupOf {
		if member >= 0 && member < n {
			continue // statement membership cannot close a group cycle
		}
		steps := 0
		for at := member; ; steps++ {
			next, ok := spec.GroupOf[at]
			if !ok || next == ir.GroupNone {
				break
			}
			if next == at {
				break // self-nesting already reported
			}
			if next == member {
				errs = append(errs, ValidationError{
					Field:   fmt.Sprintf("group_of[%d]", member),
					Message: fmt.Sprintf("group %d participates in a nesting cycle", member),
					Code:    ErrGroupCycle,
				})
				break
			}
			if steps > len(spec.GroupOf) {
				break // cycle reported on its own members
			}
			at = next
		}
	}

	return errs
}
