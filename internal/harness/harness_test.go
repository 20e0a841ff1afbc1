package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inferkit/schedc/internal/ir"
)

func TestRunFullPass(t *testing.T) {
	sc := &Scenario{
		Name: "chain",
		Model: ModelDef{
			Statements: 3,
			Edges: []EdgeDef{
				{Source: 0, Target: 1, Kinds: "D"},
				{Source: 1, Target: 2, Kinds: "D"},
			},
		},
		Expect: Expect{Schedule: []int{0, 1, 2}},
	}

	res, err := Run(sc)
	require.NoError(t, err)
	assert.True(t, res.Pass, "failures: %v", res.Failures)
	assert.False(t, res.Repaired)
	assert.Equal(t, ir.Schedule{0, 1, 2}, res.Schedule)
}

func TestRunRepairPass(t *testing.T) {
	sc := &Scenario{
		Name: "ring",
		Model: ModelDef{
			Statements: 4,
			Edges: []EdgeDef{
				{Source: 3, Target: 0, Kinds: "F"},
				{Source: 2, Target: 3, Kinds: "F"},
				{Source: 1, Target: 2, Kinds: "F"},
				{Source: 0, Target: 1, Kinds: "F"},
			},
		},
		Prior:  []int{0, 1, 0, 1, 2, 3},
		Expect: Expect{Schedule: []int{0, 1, 2, 3, 0, 1, 2, 3}},
	}

	res, err := Run(sc)
	require.NoError(t, err)
	assert.True(t, res.Pass, "failures: %v", res.Failures)
	assert.True(t, res.Repaired)
}

// TestRunScheduleMismatch records the failure instead of erroring.
func TestRunScheduleMismatch(t *testing.T) {
	sc := &Scenario{
		Name:   "wrong",
		Model:  ModelDef{Statements: 2},
		Expect: Expect{Schedule: []int{1, 0}},
	}

	res, err := Run(sc)
	require.NoError(t, err)
	assert.False(t, res.Pass)
	require.NotEmpty(t, res.Failures)
	assert.Contains(t, res.Failures[0], "schedule mismatch")
}

func TestRunExpectedError(t *testing.T) {
	sc := &Scenario{
		Name: "cycle",
		Model: ModelDef{
			Statements: 2,
			Edges: []EdgeDef{
				{Source: 0, Target: 1, Kinds: "D"},
				{Source: 1, Target: 0, Kinds: "D"},
			},
		},
		Expect: Expect{Error: "DEPENDENCY_CYCLE"},
	}

	res, err := Run(sc)
	require.NoError(t, err)
	assert.True(t, res.Pass, "failures: %v", res.Failures)
	assert.Equal(t, "DEPENDENCY_CYCLE", res.ErrCode)
}

func TestRunUnexpectedError(t *testing.T) {
	sc := &Scenario{
		Name: "cycle",
		Model: ModelDef{
			Statements: 2,
			Edges: []EdgeDef{
				{Source: 0, Target: 1, Kinds: "D"},
				{Source: 1, Target: 0, Kinds: "D"},
			},
		},
		Expect: Expect{Schedule: []int{0, 1}},
	}

	res, err := Run(sc)
	require.NoError(t, err)
	assert.False(t, res.Pass)
	assert.Contains(t, res.Failures[0], "unexpected schedule error")
}

// TestRunDefectiveScenario surfaces model definition errors as errors, not
// expectation failures.
func TestRunDefectiveScenario(t *testing.T) {
	sc := &Scenario{
		Name:  "bad",
		Model: ModelDef{Statements: 1, Edges: []EdgeDef{{Source: 0, Target: 0, Kinds: "Q"}}},
	}

	_, err := Run(sc)
	assert.Error(t, err)
}

func TestSnapshotForms(t *testing.T) {
	got := Snapshot(&Result{ScenarioName: "ok", Repaired: true, Schedule: ir.Schedule{1, 0}})
	assert.Equal(t, "scenario: ok\nrepaired: true\nschedule: 1,0\n", string(got))

	got = Snapshot(&Result{ScenarioName: "bad", ErrCode: "DEPENDENCY_CYCLE"})
	assert.Equal(t, "scenario: bad\nerror: DEPENDENCY_CYCLE\n", string(got))
}
