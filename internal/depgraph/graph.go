package depgraph

import (
	"fmt"
	"sort"

	"github.com/inferkit/schedc/internal/ir"
)

// Graph is the indexed directed graph over statements 0..N-1. Pure data:
// construction and traversal only, rebuilt per compilation.
type Graph struct {
	n   int
	out [][]ir.Edge // outgoing edges per source, sorted by target
	in  [][]ir.Edge // incoming edges per target, sorted by source
}

// NewGraph builds a graph from a statement count and an edge list.
//
// Edges referencing an index outside 0..n-1 or carrying an empty kind set
// are rejected. Multiple edges on one (source, target) pair are merged into
// a single edge carrying the union of their kinds. Any edge carrying Fresh,
// Requirement or NoInit is normalized to also carry Dependency, the base
// ordering obligation; Trigger/SkipIfUniform-only hints stay as they are.
func NewGraph(n int, edges []ir.Edge) (*Graph, error) {
	if n < 0 {
		return nil, &MalformedGraphError{
			Code:    CodeEdgeOutOfRange,
			Message: fmt.Sprintf("negative statement count %d", n),
		}
	}

	merged := make(map[[2]int]ir.KindSet, len(edges))
	for _, e := range edges {
		if e.Kinds == 0 {
			return nil, &MalformedGraphError{
				Code:    CodeEmptyKinds,
				Message: fmt.Sprintf("edge (%d,%d) has no kinds", e.Source, e.Target),
				Nodes:   []int{e.Source, e.Target},
			}
		}
		if e.Source < 0 || e.Source >= n || e.Target < 0 || e.Target >= n {
			return nil, &MalformedGraphError{
				Code:    CodeEdgeOutOfRange,
				Message: fmt.Sprintf("edge (%d,%d) references statement outside 0..%d", e.Source, e.Target, n-1),
				Nodes:   []int{e.Source, e.Target},
			}
		}
		merged[[2]int{e.Source, e.Target}] |= e.Kinds
	}

	g := &Graph{
		n:   n,
		out: make([][]ir.Edge, n),
		in:  make([][]ir.Edge, n),
	}
	for key, kinds := range merged {
		if kinds.HasAny(ir.Fresh | ir.Requirement | ir.NoInit) {
			kinds = kinds.With(ir.Dependency)
		}
		e := ir.Edge{Source: key[0], Target: key[1], Kinds: kinds}
		g.out[e.Source] = append(g.out[e.Source], e)
		g.in[e.Target] = append(g.in[e.Target], e)
	}

	// Deterministic traversal order: outgoing by target, incoming by source.
	for i := 0; i < n; i++ {
		sort.Slice(g.out[i], func(a, b int) bool { return g.out[i][a].Target < g.out[i][b].Target })
		sort.Slice(g.in[i], func(a, b int) bool { return g.in[i][a].Source < g.in[i][b].Source })
	}
	return g, nil
}

// NumStatements returns N.
func (g *Graph) NumStatements() int { return g.n }

// Outgoing returns the edges whose source is index, sorted by target.
// The returned slice is owned by the graph; callers must not mutate it.
func (g *Graph) Outgoing(index int) []ir.Edge { return g.out[index] }

// Incoming returns the edges whose target is index, sorted by source.
func (g *Graph) Incoming(index int) []ir.Edge { return g.in[index] }

// OutDegree returns the number of outgoing edges of index.
func (g *Graph) OutDegree(index int) int { return len(g.out[index]) }

// InDegree returns the number of incoming edges of index.
func (g *Graph) InDegree(index int) int { return len(g.in[index]) }

// Kinds returns the union of edge kinds on (source, target), or zero if no
// such edge exists.
func (g *Graph) Kinds(source, target int) ir.KindSet {
	for _, e := range g.out[source] {
		if e.Target == target {
			return e.Kinds
		}
		if e.Target > target {
			break
		}
	}
	return 0
}

// Edges traverses every edge once, in (source, target) order.
func (g *Graph) Edges(visit func(ir.Edge)) {
	for i := 0; i < g.n; i++ {
		for _, e := range g.out[i] {
			visit(e)
		}
	}
}
