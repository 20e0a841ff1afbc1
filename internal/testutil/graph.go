// Package testutil provides shared helpers for constructing dependency
// graphs and groupings in tests.
package testutil

import (
	"testing"

	"github.com/inferkit/schedc/internal/depgraph"
	"github.com/inferkit/schedc/internal/ir"
)

// Graph builds a depgraph.Graph or fails the test.
func Graph(t *testing.T, n int, edges ...ir.Edge) *depgraph.Graph {
	t.Helper()
	g, err := depgraph.NewGraph(n, edges)
	if err != nil {
		t.Fatalf("NewGraph(%d): %v", n, err)
	}
	return g
}

// Grouping builds a validated depgraph.Grouping or fails the test.
func Grouping(t *testing.T, g *depgraph.Graph, groupOf map[int]int) *depgraph.Grouping {
	t.Helper()
	gr, err := depgraph.NewGrouping(g, groupOf)
	if err != nil {
		t.Fatalf("NewGrouping: %v", err)
	}
	return gr
}

// CoupledChainsEdges returns the 12-statement reference model used by the
// richer repair tests: two mirrored chains of fresh dependencies coupled
// through their tail statements (5 and 11), with NoInit escapes and
// Requirement edges on the loop closers.
//
// Notation below is target <- source.
func CoupledChainsEdges() []ir.Edge {
	return []ir.Edge{
		ir.E(0, 5, "F"),   // 5 <- 0
		ir.E(0, 11, "FR"), // 11 <- 0
		ir.E(1, 0, "FR"),  // 0 <- 1
		ir.E(2, 1, "FN"),  // 1 <- 2
		ir.E(3, 2, "F"),   // 2 <- 3
		ir.E(3, 3, "D"),   // 3 <- 3
		ir.E(4, 2, "F"),   // 2 <- 4
		ir.E(4, 3, "F"),   // 3 <- 4
		ir.E(5, 2, "D"),   // 2 <- 5
		ir.E(5, 3, "N"),   // 3 <- 5
		ir.E(5, 4, "R"),   // 4 <- 5
		ir.E(6, 5, "FR"),  // 5 <- 6
		ir.E(6, 11, "FR"), // 11 <- 6
		ir.E(7, 6, "FR"),  // 6 <- 7
		ir.E(8, 7, "FN"),  // 7 <- 8
		ir.E(9, 8, "F"),   // 8 <- 9
		ir.E(9, 9, "D"),   // 9 <- 9
		ir.E(10, 8, "F"),  // 8 <- 10
		ir.E(10, 9, "F"),  // 9 <- 10
		ir.E(11, 5, "D"),  // 5 <- 11
		ir.E(11, 8, "D"),  // 8 <- 11
		ir.E(11, 9, "N"),  // 9 <- 11
		ir.E(11, 10, "R"), // 10 <- 11
	}
}
