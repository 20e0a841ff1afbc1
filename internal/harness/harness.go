package harness

import (
	"errors"
	"fmt"

	"github.com/inferkit/schedc/internal/compile"
	"github.com/inferkit/schedc/internal/ir"
	"github.com/inferkit/schedc/internal/sched"
)

// Result captures one scenario execution.
type Result struct {
	ScenarioName string

	// Repaired reports which engine ran.
	Repaired bool

	// Schedule is the computed schedule; empty when compilation failed.
	Schedule ir.Schedule

	// ErrCode is the schedule error code when the model was unsatisfiable.
	ErrCode string

	// Pass is true when every expectation held.
	Pass bool

	// Failures lists the violated expectations.
	Failures []string
}

// Run executes a scenario and evaluates its expectations. A returned error
// means the scenario itself is defective (bad model definition, unexpected
// internal failure), not that an expectation failed.
func Run(sc *Scenario) (*Result, error) {
	spec, err := sc.Model.Spec()
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", sc.Name, err)
	}

	res := &Result{ScenarioName: sc.Name, Repaired: sc.IsRepair()}

	var out *compile.Result
	if res.Repaired {
		out, err = compile.Recompile(spec, ir.Schedule(sc.Prior), sc.State())
	} else {
		out, err = compile.Compile(spec)
	}
	if err != nil {
		var se *sched.ScheduleError
		if !errors.As(err, &se) {
			return nil, fmt.Errorf("scenario %s: %w", sc.Name, err)
		}
		res.ErrCode = string(se.Code)
	} else {
		res.Schedule = out.Schedule
	}

	res.evaluate(sc, spec)
	return res, nil
}

// evaluate checks the expectations and the schedule's intrinsic validity.
func (r *Result) evaluate(sc *Scenario, spec ir.ModelSpec) {
	fail := func(format string, args ...any) {
		r.Failures = append(r.Failures, fmt.Sprintf(format, args...))
	}

	if sc.Expect.Error != "" {
		if r.ErrCode != sc.Expect.Error {
			fail("expected error %s, got %q (schedule %s)", sc.Expect.Error, r.ErrCode, r.Schedule)
		}
		r.Pass = len(r.Failures) == 0
		return
	}

	if r.ErrCode != "" {
		fail("unexpected schedule error %s", r.ErrCode)
		r.Pass = false
		return
	}

	if sc.Expect.Schedule != nil && !r.Schedule.Equal(ir.Schedule(sc.Expect.Schedule)) {
		fail("schedule mismatch: want %s, got %s", ir.Schedule(sc.Expect.Schedule), r.Schedule)
	}

	g, grouping, err := compile.BuildGraph(spec)
	if err != nil {
		fail("rebuild graph: %v", err)
		r.Pass = false
		return
	}
	for _, v := range sched.CheckSchedule(g, r.Schedule, sc.Initialized) {
		fail("invalid schedule: %s", v)
	}
	if !r.Repaired {
		if !sched.CoversAllStatements(g, r.Schedule) {
			fail("initial schedule does not cover all statements: %s", r.Schedule)
		}
		grouping.BuildGroupEdges()
		for _, group := range grouping.Groups() {
			if !sched.ContiguousGroup(grouping, r.Schedule, group) {
				fail("group %d not contiguous in %s", group, r.Schedule)
			}
		}
	}

	r.Pass = len(r.Failures) == 0
}
