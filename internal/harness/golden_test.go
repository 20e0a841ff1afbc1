package harness

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestScenarioGoldens runs every scenario under testdata/scenarios and
// compares its outcome against the golden snapshot.
func TestScenarioGoldens(t *testing.T) {
	scenarios, err := LoadScenarios("testdata/scenarios")
	require.NoError(t, err)
	require.NotEmpty(t, scenarios)

	for _, sc := range scenarios {
		t.Run(sc.Name, func(t *testing.T) {
			require.NoError(t, RunWithGolden(t, sc))
		})
	}
}
