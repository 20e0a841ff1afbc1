// Package harness provides conformance testing for the schedule compiler.
//
// The harness loads scenario files describing a model, an optional prior
// schedule with invalidation state, and the expected outcome, then runs the
// compiler and checks the result.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: scenario_name
//	description: "What this scenario validates"
//	model:
//	  statements: 4
//	  edges:
//	    - {source: 3, target: 0, kinds: F}
//	  groups:
//	    1: 5
//	prior: [0, 1, 0, 1, 2, 3]
//	invalid: [2]
//	stale:
//	  - {target: 1, source: 0}
//	initialized: [3]
//	expect:
//	  schedule: [0, 1, 2, 3, 0, 1, 2, 3]
//
// A scenario with a prior schedule or any invalidation state exercises the
// repair engine; otherwise it exercises the full initial pass. An expected
// error is written as:
//
//	expect:
//	  error: DEPENDENCY_CYCLE
//
// # Deterministic Testing
//
// Compilation is deterministic, so scenario outcomes snapshot cleanly:
// RunWithGolden compares a text rendition of the outcome against a golden
// file in testdata/golden, regenerated with:
//
//	go test ./internal/harness -update
package harness
