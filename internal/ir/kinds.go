package ir

import (
	"encoding/json"
	"fmt"
	"strings"
)

// EdgeKind refines the obligation a dependency edge imposes on its target.
type EdgeKind uint8

const (
	// Dependency is the base ordering obligation: the target must appear
	// after at least one execution of the source.
	Dependency EdgeKind = 1 << iota

	// Fresh requires the most recent execution of the source, with no stale
	// re-execution of the source's own fresh upstream in between.
	Fresh

	// Requirement requires the source to have executed at least once, ever.
	// Satisfied permanently once the source first runs, including across
	// repairs, or when the source is marked initialized.
	Requirement

	// NoInit waives the edge during the very first execution of the target.
	// Used to break artificial cycles on the initialization pass.
	NoInit

	// SkipIfUniform marks the edge as omittable for a pass when the source's
	// output is known to be uniform (non-informative). Advisory, never a hard
	// constraint.
	SkipIfUniform

	// Trigger marks that the target must be re-scheduled whenever the source
	// re-executes. Drives incremental repair; imposes no ordering by itself.
	Trigger
)

// KindSet is a set of edge kinds stored as a bitset.
//
// Serialized form is a compact letter string, one letter per kind:
// D=Dependency, F=Fresh, R=Requirement, N=NoInit, U=SkipIfUniform, T=Trigger.
// "DFR" round-trips to Dependency|Fresh|Requirement.
type KindSet uint8

// kindLetters is ordered by bit position.
var kindLetters = []struct {
	kind   EdgeKind
	letter byte
}{
	{Dependency, 'D'},
	{Fresh, 'F'},
	{Requirement, 'R'},
	{NoInit, 'N'},
	{SkipIfUniform, 'U'},
	{Trigger, 'T'},
}

// Kinds builds a KindSet from individual kinds.
func Kinds(kinds ...EdgeKind) KindSet {
	var s KindSet
	for _, k := range kinds {
		s |= KindSet(k)
	}
	return s
}

// ParseKinds parses a letter string such as "FR" into a KindSet.
// Whitespace is ignored. Unknown letters are an error.
func ParseKinds(s string) (KindSet, error) {
	var out KindSet
	for _, r := range s {
		if r == ' ' || r == '\t' {
			continue
		}
		matched := false
		for _, kl := range kindLetters {
			if byte(r) == kl.letter {
				out |= KindSet(kl.kind)
				matched = true
				break
			}
		}
		if !matched {
			return 0, fmt.Errorf("unknown edge kind letter %q in %q", r, s)
		}
	}
	if out == 0 {
		return 0, fmt.Errorf("empty kind set %q", s)
	}
	return out, nil
}

// MustKinds is ParseKinds that panics on error. For tests and literals.
func MustKinds(s string) KindSet {
	k, err := ParseKinds(s)
	if err != nil {
		panic(err)
	}
	return k
}

// Has reports whether every kind in k is present in the set.
func (s KindSet) Has(k EdgeKind) bool {
	return s&KindSet(k) == KindSet(k)
}

// HasAny reports whether any of the given kinds is present.
func (s KindSet) HasAny(k EdgeKind) bool {
	return s&KindSet(k) != 0
}

// With returns the set with the given kinds added.
func (s KindSet) With(kinds ...EdgeKind) KindSet {
	for _, k := range kinds {
		s |= KindSet(k)
	}
	return s
}

// Union returns the union of two sets.
func (s KindSet) Union(other KindSet) KindSet {
	return s | other
}

// IsHintOnly reports whether the set carries only Trigger/SkipIfUniform
// hints and therefore no ordering obligation at all.
func (s KindSet) IsHintOnly() bool {
	return s != 0 && s&^KindSet(Trigger|SkipIfUniform) == 0
}

// String renders the letter form, e.g. "DFR".
func (s KindSet) String() string {
	if s == 0 {
		return ""
	}
	var b strings.Builder
	for _, kl := range kindLetters {
		if s.Has(kl.kind) {
			b.WriteByte(kl.letter)
		}
	}
	return b.String()
}

// MarshalJSON encodes the set as its letter string.
func (s KindSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON decodes the letter string form.
func (s *KindSet) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseKinds(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
