package sched

import (
	"errors"
	"fmt"

	"github.com/inferkit/schedc/internal/ir"
)

// ScheduleError reports a graph for which no valid schedule exists.
// Fatal, never retried; the statement list lets the front end (or a human)
// diagnose the model.
type ScheduleError struct {
	// Code identifies the error category.
	Code ScheduleErrorCode

	// Message is a human-readable description.
	Message string

	// Statements lists the implicated statement indices (the members of the
	// unsatisfiable cycle).
	Statements []int

	// Kinds names the edge kinds that make the cycle unsatisfiable, when
	// known.
	Kinds ir.KindSet
}

// ScheduleErrorCode categorizes scheduling failures.
type ScheduleErrorCode string

const (
	// CodeDependencyCycle indicates no topological order exists at the
	// Dependency-kind level.
	CodeDependencyCycle ScheduleErrorCode = "DEPENDENCY_CYCLE"

	// CodeRequirementCycle indicates a Fresh cycle that cannot be resolved
	// because a Requirement edge inside it demands a value that can never be
	// produced first.
	CodeRequirementCycle ScheduleErrorCode = "REQUIREMENT_CYCLE"
)

// Error implements the error interface.
func (e *ScheduleError) Error() string {
	if e.Kinds != 0 {
		return fmt.Sprintf("%s: %s (statements=%v, kinds=%s)", e.Code, e.Message, e.Statements, e.Kinds)
	}
	return fmt.Sprintf("%s: %s (statements=%v)", e.Code, e.Message, e.Statements)
}

// IsUnsatisfiable reports whether err is any unsatisfiable-schedule error.
// Uses errors.As to handle wrapped errors.
func IsUnsatisfiable(err error) bool {
	var se *ScheduleError
	return errors.As(err, &se)
}
