package ir

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"golang.org/x/text/unicode/norm"
)

// MarshalCanonical produces a canonical JSON encoding of a model spec for
// content-addressed identity. Two specs that describe the same model always
// produce byte-identical output:
//
//   - object keys appear in a fixed order
//   - edges are sorted by (source, target, kinds)
//   - group assignments are sorted by member id
//   - strings are NFC normalized and not HTML-escaped
//
// This is the ONLY serialization used for model hashing. The ordinary JSON
// form (json.Marshal on ModelSpec) is for display and is not canonical.
func MarshalCanonical(spec ModelSpec) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	buf.WriteString(`"edges":[`)
	edges := append([]Edge(nil), spec.Edges...)
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].Source != edges[j].Source {
			return edges[i].Source < edges[j].Source
		}
		if edges[i].Target != edges[j].Target {
			return edges[i].Target < edges[j].Target
		}
		return edges[i].Kinds < edges[j].Kinds
	})
	for i, e := range edges {
		if i > 0 {
			buf.WriteByte(',')
		}
		fmt.Fprintf(&buf, `[%d,%d,%q]`, e.Source, e.Target, e.Kinds.String())
	}
	buf.WriteByte(']')

	buf.WriteString(`,"group_of":[`)
	members := make([]int, 0, len(spec.GroupOf))
	for m, g := range spec.GroupOf {
		if g == GroupNone {
			continue
		}
		members = append(members, m)
	}
	sort.Ints(members)
	for i, m := range members {
		if i > 0 {
			buf.WriteByte(',')
		}
		fmt.Fprintf(&buf, `[%d,%d]`, m, spec.GroupOf[m])
	}
	buf.WriteByte(']')

	name, err := canonicalString(spec.Name)
	if err != nil {
		return nil, fmt.Errorf("canonical name: %w", err)
	}
	buf.WriteString(`,"name":`)
	buf.Write(name)

	fmt.Fprintf(&buf, `,"statements":%d`, spec.Statements)

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// canonicalString encodes a JSON string with NFC normalization and without
// HTML escaping, per RFC 8785 canonical JSON.
func canonicalString(s string) ([]byte, error) {
	normalized := norm.NFC.String(s)

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(normalized); err != nil {
		return nil, err
	}

	// json.Encoder appends a trailing newline.
	out := buf.Bytes()
	if n := len(out); n > 0 && out[n-1] == '\n' {
		out = out[:n-1]
	}
	return out, nil
}
