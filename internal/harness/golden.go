package harness

import (
	"fmt"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// Snapshot renders a deterministic text form of one scenario outcome, the
// unit of golden comparison.
func Snapshot(res *Result) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "scenario: %s\n", res.ScenarioName)
	if res.ErrCode != "" {
		fmt.Fprintf(&b, "error: %s\n", res.ErrCode)
		return []byte(b.String())
	}
	fmt.Fprintf(&b, "repaired: %t\n", res.Repaired)
	fmt.Fprintf(&b, "schedule: %s\n", res.Schedule)
	return []byte(b.String())
}

// RunWithGolden executes a scenario, requires its expectations to hold, and
// compares the outcome against testdata/golden/{name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, sc *Scenario) error {
	t.Helper()

	res, err := Run(sc)
	if err != nil {
		return err
	}
	if !res.Pass {
		return fmt.Errorf("scenario %s failed: %s", sc.Name, strings.Join(res.Failures, "; "))
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, sc.Name, Snapshot(res))
	return nil
}
