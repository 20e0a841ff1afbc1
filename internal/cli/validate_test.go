package cli

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateValidModel(t *testing.T) {
	path := writeModelFile(t, "chain.yaml", chainYAML)

	buf := &bytes.Buffer{}
	cmd := NewValidateCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{path})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "✓ model valid")
}

func TestValidateInvalidModel(t *testing.T) {
	path := writeModelFile(t, "bad.yaml", `statements: 2
edges:
  - {source: 0, target: 9, kinds: D}
`)

	buf := &bytes.Buffer{}
	cmd := NewValidateCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{path})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, buf.String(), "✗ model invalid")
	assert.Contains(t, buf.String(), "E111") // target out of range
}

func TestValidateJSON(t *testing.T) {
	path := writeModelFile(t, "chain.yaml", chainYAML)

	buf := &bytes.Buffer{}
	cmd := NewValidateCommand(&RootOptions{Format: "json"})
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{path})

	require.NoError(t, cmd.Execute())

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
}

// TestValidateScheduleCheck flags a schedule that re-executes a statement
// before its fresh source has run.
func TestValidateScheduleCheck(t *testing.T) {
	path := writeModelFile(t, "ring.yaml", ringYAML)

	buf := &bytes.Buffer{}
	cmd := NewValidateCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{path, "--schedule", "0,0,1,2,3"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, buf.String(), "re-executes")
}

func TestValidateScheduleCheckPasses(t *testing.T) {
	path := writeModelFile(t, "ring.yaml", ringYAML)

	buf := &bytes.Buffer{}
	cmd := NewValidateCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{path, "--schedule", "0,1,2,3,0,1,2,3"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "✓ model valid")
}
