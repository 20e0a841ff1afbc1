package ir

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestParseKinds_Letters tests the letter shorthand for every kind.
func TestParseKinds_Letters(t *testing.T) {
	tests := []struct {
		in   string
		want KindSet
	}{
		{"D", Kinds(Dependency)},
		{"F", Kinds(Fresh)},
		{"R", Kinds(Requirement)},
		{"N", Kinds(NoInit)},
		{"U", Kinds(SkipIfUniform)},
		{"T", Kinds(Trigger)},
		{"FR", Kinds(Fresh, Requirement)},
		{"DFR", Kinds(Dependency, Fresh, Requirement)},
		{"F R", Kinds(Fresh, Requirement)}, // whitespace ignored
	}
	for _, tt := range tests {
		got, err := ParseKinds(tt.in)
		require.NoError(t, err, "ParseKinds(%q)", tt.in)
		assert.Equal(t, tt.want, got, "ParseKinds(%q)", tt.in)
	}
}

// TestParseKinds_Errors tests rejection of unknown letters and empty sets.
func TestParseKinds_Errors(t *testing.T) {
	_, err := ParseKinds("FX")
	assert.Error(t, err, "unknown letter should be rejected")

	_, err = ParseKinds("")
	assert.Error(t, err, "empty kind set should be rejected")
}

// TestKindSet_String tests letter rendering is ordered and stable.
func TestKindSet_String(t *testing.T) {
	// Construction order must not affect rendering.
	assert.Equal(t, "FR", Kinds(Requirement, Fresh).String())
	assert.Equal(t, "DFRNUT", Kinds(Trigger, SkipIfUniform, NoInit, Requirement, Fresh, Dependency).String())
}

// TestKindSet_Has tests membership queries.
func TestKindSet_Has(t *testing.T) {
	s := MustKinds("FR")
	assert.True(t, s.Has(Fresh))
	assert.True(t, s.Has(Requirement))
	assert.False(t, s.Has(Dependency))
	assert.True(t, s.HasAny(Fresh|Trigger))
	assert.False(t, s.HasAny(Trigger|SkipIfUniform))
}

// TestKindSet_IsHintOnly tests that Trigger/SkipIfUniform-only sets carry no
// ordering obligation.
func TestKindSet_IsHintOnly(t *testing.T) {
	assert.True(t, MustKinds("U").IsHintOnly())
	assert.True(t, MustKinds("T").IsHintOnly())
	assert.True(t, MustKinds("UT").IsHintOnly())
	assert.False(t, MustKinds("DU").IsHintOnly())
	assert.False(t, MustKinds("F").IsHintOnly())
}

// TestKindSet_JSONRoundTrip tests the letter-string JSON form.
func TestKindSet_JSONRoundTrip(t *testing.T) {
	e := E(3, 0, "FR")

	data, err := json.Marshal(e)
	require.NoError(t, err)
	assert.JSONEq(t, `{"source":3,"target":0,"kinds":"FR"}`, string(data))

	var back Edge
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, e, back)
}
