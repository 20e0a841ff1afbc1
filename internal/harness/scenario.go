package harness

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/inferkit/schedc/internal/ir"
)

// Scenario defines one conformance test case.
type Scenario struct {
	// Name uniquely identifies this scenario; it doubles as the golden
	// file name.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description,omitempty"`

	// Model is the dependency graph under test.
	Model ModelDef `yaml:"model"`

	// Prior is the schedule of the previous pass. Presence of a prior or of
	// any invalidation state below selects the repair engine; otherwise the
	// scenario runs a full initial pass.
	Prior []int `yaml:"prior,omitempty"`

	// Invalid, Stale and Initialized describe the invalidation state for a
	// repair scenario.
	Invalid     []int      `yaml:"invalid,omitempty"`
	Stale       []StaleDef `yaml:"stale,omitempty"`
	Initialized []int      `yaml:"initialized,omitempty"`

	// Expect is the asserted outcome.
	Expect Expect `yaml:"expect"`
}

// ModelDef describes the model inline, mirroring the CLI's model file shape.
type ModelDef struct {
	Name       string      `yaml:"name,omitempty"`
	Statements int         `yaml:"statements"`
	Edges      []EdgeDef   `yaml:"edges,omitempty"`
	Groups     map[int]int `yaml:"groups,omitempty"`
}

// EdgeDef is one typed edge with letter-form kinds.
type EdgeDef struct {
	Source int    `yaml:"source"`
	Target int    `yaml:"target"`
	Kinds  string `yaml:"kinds"`
}

// StaleDef is one broken (target, source) obligation.
type StaleDef struct {
	Target int `yaml:"target"`
	Source int `yaml:"source"`
}

// Expect specifies the asserted outcome: either an exact schedule or an
// error code. With neither, the scenario only asserts schedule validity.
type Expect struct {
	Schedule []int  `yaml:"schedule,omitempty"`
	Error    string `yaml:"error,omitempty"`
}

// IsRepair reports whether the scenario exercises the repair engine.
func (s *Scenario) IsRepair() bool {
	return s.Prior != nil || len(s.Invalid) > 0 || len(s.Stale) > 0 || len(s.Initialized) > 0
}

// State assembles the scenario's invalidation state.
func (s *Scenario) State() ir.InvalidationState {
	state := ir.InvalidationState{
		Invalid:     s.Invalid,
		Initialized: s.Initialized,
	}
	for _, st := range s.Stale {
		state.Stale = append(state.Stale, ir.StaleEdge{Target: st.Target, Source: st.Source})
	}
	return state
}

// Spec converts the inline model into the compiler's spec form.
func (m ModelDef) Spec() (ir.ModelSpec, error) {
	spec := ir.ModelSpec{
		Name:       m.Name,
		Statements: m.Statements,
		GroupOf:    m.Groups,
	}
	for i, e := range m.Edges {
		kinds, err := ir.ParseKinds(e.Kinds)
		if err != nil {
			return ir.ModelSpec{}, fmt.Errorf("edges[%d]: %w", i, err)
		}
		spec.Edges = append(spec.Edges, ir.Edge{Source: e.Source, Target: e.Target, Kinds: kinds})
	}
	return spec, nil
}

// LoadScenario reads one scenario file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load scenario: %w", err)
	}

	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("load scenario %s: %w", path, err)
	}
	if sc.Name == "" {
		sc.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return &sc, nil
}

// LoadScenarios reads every .yaml scenario in a directory, sorted by file
// name for stable test ordering.
func LoadScenarios(dir string) ([]*Scenario, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("load scenarios: %w", err)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if ext := filepath.Ext(e.Name()); ext == ".yaml" || ext == ".yml" {
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(paths)

	scenarios := make([]*Scenario, 0, len(paths))
	for _, p := range paths {
		sc, err := LoadScenario(p)
		if err != nil {
			return nil, err
		}
		scenarios = append(scenarios, sc)
	}
	return scenarios, nil
}
