package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inferkit/schedc/internal/ir"
)

func writeScenario(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadScenario(t *testing.T) {
	path := writeScenario(t, t.TempDir(), "ring.yaml", `name: ring
description: "fresh ring repair"
model:
  statements: 4
  edges:
    - {source: 3, target: 0, kinds: F}
prior: [0, 1]
invalid: [2]
stale:
  - {target: 1, source: 0}
initialized: [3]
expect:
  schedule: [0, 1, 2]
`)

	sc, err := LoadScenario(path)
	require.NoError(t, err)
	assert.Equal(t, "ring", sc.Name)
	assert.Equal(t, 4, sc.Model.Statements)
	assert.True(t, sc.IsRepair())
	assert.Equal(t, []int{0, 1}, sc.Prior)

	state := sc.State()
	assert.Equal(t, []int{2}, state.Invalid)
	assert.Equal(t, []ir.StaleEdge{{Target: 1, Source: 0}}, state.Stale)
	assert.Equal(t, []int{3}, state.Initialized)
}

// TestLoadScenarioNameDefaults falls back to the file name when the scenario
// omits its own.
func TestLoadScenarioNameDefaults(t *testing.T) {
	path := writeScenario(t, t.TempDir(), "unnamed.yaml", `model:
  statements: 1
`)

	sc, err := LoadScenario(path)
	require.NoError(t, err)
	assert.Equal(t, "unnamed", sc.Name)
	assert.False(t, sc.IsRepair())
}

func TestModelDefSpec(t *testing.T) {
	m := ModelDef{
		Name:       "pair",
		Statements: 2,
		Edges:      []EdgeDef{{Source: 0, Target: 1, Kinds: "FR"}},
		Groups:     map[int]int{1: 3},
	}

	spec, err := m.Spec()
	require.NoError(t, err)
	assert.Equal(t, "pair", spec.Name)
	require.Len(t, spec.Edges, 1)
	assert.True(t, spec.Edges[0].Kinds.Has(ir.Fresh))
	assert.True(t, spec.Edges[0].Kinds.Has(ir.Requirement))
	assert.Equal(t, map[int]int{1: 3}, spec.GroupOf)
}

func TestModelDefSpecBadKinds(t *testing.T) {
	m := ModelDef{Statements: 2, Edges: []EdgeDef{{Source: 0, Target: 1, Kinds: "Z"}}}

	_, err := m.Spec()
	assert.Error(t, err)
}

func TestLoadScenariosSorted(t *testing.T) {
	dir := t.TempDir()
	writeScenario(t, dir, "b.yaml", "model: {statements: 1}\n")
	writeScenario(t, dir, "a.yaml", "model: {statements: 1}\n")
	writeScenario(t, dir, "ignored.txt", "not a scenario")

	scenarios, err := LoadScenarios(dir)
	require.NoError(t, err)
	require.Len(t, scenarios, 2)
	assert.Equal(t, "a", scenarios[0].Name)
	assert.Equal(t, "b", scenarios[1].Name)
}
