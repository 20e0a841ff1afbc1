// Package compile orchestrates one compilation pass: spec validation, graph
// construction, scheduling, and content-addressed result identity.
package compile

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/inferkit/schedc/internal/depgraph"
	"github.com/inferkit/schedc/internal/ir"
	"github.com/inferkit/schedc/internal/sched"
)

// Result is the output of one compilation pass.
type Result struct {
	// PassID identifies this pass. UUIDv7, so ids sort by creation time.
	PassID uuid.UUID `json:"pass_id"`

	// ModelHash is the content-addressed identity of the input spec.
	ModelHash string `json:"model_hash"`

	// Schedule is the computed execution order.
	Schedule ir.Schedule `json:"schedule"`

	// Repaired reports whether this pass reused a prior schedule.
	Repaired bool `json:"repaired"`
}

// Compile validates the spec and produces a full initial schedule.
func Compile(spec ir.ModelSpec, opts ...sched.Option) (*Result, error) {
	g, grouping, err := BuildGraph(spec)
	if err != nil {
		return nil, err
	}
	schedule, err := sched.ScheduleWithGroups(g, grouping, opts...)
	if err != nil {
		return nil, err
	}
	return newResult(spec, schedule, false)
}

// Recompile repairs a prior schedule under the given invalidation state,
// reusing as much of the prior order as validity allows.
func Recompile(spec ir.ModelSpec, prior ir.Schedule, state ir.InvalidationState) (*Result, error) {
	g, grouping, err := BuildGraph(spec)
	if err != nil {
		return nil, err
	}
	schedule, err := sched.RepairSchedule(g, grouping, prior, state)
	if err != nil {
		return nil, err
	}
	return newResult(spec, schedule, true)
}

// BuildGraph validates a spec and constructs its dependency graph and group
// model. Validation errors come back as ValidationErrors; graph construction
// errors as depgraph.MalformedGraphError.
func BuildGraph(spec ir.ModelSpec) (*depgraph.Graph, *depgraph.Grouping, error) {
	if errs := Validate(spec); len(errs) > 0 {
		return nil, nil, ValidationErrors(errs)
	}
	g, err := depgraph.NewGraph(spec.Statements, spec.Edges)
	if err != nil {
		return nil, nil, err
	}
	grouping, err := depgraph.NewGrouping(g, spec.GroupOf)
	if err != nil {
		return nil, nil, err
	}
	return g, grouping, nil
}

func newResult(spec ir.ModelSpec, schedule ir.Schedule, repaired bool) (*Result, error) {
	hash, err := ir.ModelHash(spec)
	if err != nil {
		return nil, err
	}
	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("pass id: %w", err)
	}
	return &Result{
		PassID:    id,
		ModelHash: hash,
		Schedule:  schedule,
		Repaired:  repaired,
	}, nil
}
