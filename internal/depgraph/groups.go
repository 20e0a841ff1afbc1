package depgraph

import (
	"fmt"
	"sort"

	"github.com/inferkit/schedc/internal/ir"
)

// GroupEdge is a coarsened edge between two items (statements or group
// meta-nodes) that are direct members of the same scope. It carries the
// union of the kinds of every base edge it summarizes.
type GroupEdge struct {
	From  Node
	To    Node
	Kinds ir.KindSet
}

// Grouping layers the loop-plate hierarchy over a Graph. Scopes are
// identified by group id, with ir.GroupNone standing for the root scope.
type Grouping struct {
	g           *Graph
	groupOfStmt []int       // statement index -> direct group id or GroupNone
	parent      map[int]int // group id -> enclosing group id or GroupNone
	groups      []int       // all known group ids, ascending

	built   bool
	members map[int][]Node      // scope -> direct member items, sorted
	local   map[int][]GroupEdge // scope -> coarsened edges between its members
}

// NewGrouping validates a group assignment against a graph.
//
// groupOf maps a statement index, or a group id for nested groups, to its
// enclosing group id. Group ids must not collide with statement indices
// 0..N-1, and the nesting must form a forest; violations are rejected as
// MalformedGraphError. Isolated groups (no members, no edges) are permitted.
func NewGrouping(g *Graph, groupOf map[int]int) (*Grouping, error) {
	n := g.NumStatements()
	gr := &Grouping{
		g:           g,
		groupOfStmt: make([]int, n),
		parent:      make(map[int]int),
	}
	for i := range gr.groupOfStmt {
		gr.groupOfStmt[i] = ir.GroupNone
	}

	known := make(map[int]bool)
	for member, group := range groupOf {
		if group == ir.GroupNone {
			continue
		}
		if group >= 0 && group < n {
			return nil, &MalformedGraphError{
				Code:    CodeGroupCollision,
				Message: fmt.Sprintf("group id %d collides with statement index space 0..%d", group, n-1),
				Nodes:   []int{group},
			}
		}
		known[group] = true
		if member >= 0 && member < n {
			gr.groupOfStmt[member] = group
		} else {
			// Nested group: member is itself a group id.
			known[member] = true
			gr.parent[member] = group
		}
	}
	for group := range known {
		if _, ok := gr.parent[group]; !ok {
			gr.parent[group] = ir.GroupNone
		}
	}
	for group := range known {
		gr.groups = append(gr.groups, group)
	}
	sort.Ints(gr.groups)

	if cycle := gr.nestingCycle(); len(cycle) > 0 {
		return nil, &MalformedGraphError{
			Code:    CodeGroupCycle,
			Message: "cyclic group nesting",
			Nodes:   cycle,
		}
	}
	return gr, nil
}

// nestingCycle returns the ids of groups on a parent-chain cycle, or nil.
func (gr *Grouping) nestingCycle() []int {
	state := make(map[int]int) // 0 unvisited, 1 on path, 2 done
	for _, start := range gr.groups {
		if state[start] != 0 {
			continue
		}
		var path []int
		id := start
		for id != ir.GroupNone && state[id] == 0 {
			state[id] = 1
			path = append(path, id)
			id = gr.parent[id]
		}
		if id != ir.GroupNone && state[id] == 1 {
			// Trim the path down to the cycle itself.
			for i, p := range path {
				if p == id {
					return path[i:]
				}
			}
		}
		for _, p := range path {
			state[p] = 2
		}
	}
	return nil
}

// GroupOf returns the direct group of a statement, or ir.GroupNone.
func (gr *Grouping) GroupOf(index int) int { return gr.groupOfStmt[index] }

// Parent returns the enclosing group of a group, or ir.GroupNone.
func (gr *Grouping) Parent(group int) int { return gr.parent[group] }

// Groups returns all known group ids, ascending.
func (gr *Grouping) Groups() []int { return gr.groups }

// BuildGroupEdges computes, for every scope, its direct member items and the
// coarsened edges between them. Base edges crossing a group boundary are
// promoted to the diverging items under the deepest common scope; edges fully
// inside one group stay local to that group's own scope. Idempotent.
func (gr *Grouping) BuildGroupEdges() {
	if gr.built {
		return
	}
	gr.built = true
	gr.members = make(map[int][]Node)
	gr.local = make(map[int][]GroupEdge)

	for i := 0; i < gr.g.NumStatements(); i++ {
		scope := gr.groupOfStmt[i]
		gr.members[scope] = append(gr.members[scope], StatementNode(i))
	}
	for _, group := range gr.groups {
		scope := gr.parent[group]
		gr.members[scope] = append(gr.members[scope], GroupNode(group))
	}
	for scope := range gr.members {
		items := gr.members[scope]
		sort.Slice(items, func(a, b int) bool { return items[a].Less(items[b]) })
	}

	merged := make(map[int]map[[2]Node]ir.KindSet)
	gr.g.Edges(func(e ir.Edge) {
		scope, from, to, ok := gr.localize(e)
		if !ok {
			return
		}
		if merged[scope] == nil {
			merged[scope] = make(map[[2]Node]ir.KindSet)
		}
		merged[scope][[2]Node{from, to}] |= e.Kinds
	})
	for scope, pairs := range merged {
		edges := make([]GroupEdge, 0, len(pairs))
		for pair, kinds := range pairs {
			edges = append(edges, GroupEdge{From: pair[0], To: pair[1], Kinds: kinds})
		}
		sort.Slice(edges, func(a, b int) bool {
			if edges[a].From != edges[b].From {
				return edges[a].From.Less(edges[b].From)
			}
			return edges[a].To.Less(edges[b].To)
		})
		gr.local[scope] = edges
	}
}

// localize maps a base edge to the scope where it constrains scheduling and
// the two member items it runs between. Self-edges and edges whose endpoints
// coarsen to the same item impose no inter-item constraint; ok is false.
func (gr *Grouping) localize(e ir.Edge) (scope int, from, to Node, ok bool) {
	chainFrom := gr.itemChain(e.Source)
	onPath := make(map[int]Node, len(chainFrom))
	for _, item := range chainFrom {
		onPath[gr.scopeOfItem(item)] = item
	}
	for _, item := range gr.itemChain(e.Target) {
		sc := gr.scopeOfItem(item)
		if a, found := onPath[sc]; found {
			if a == item {
				return 0, Node{}, Node{}, false
			}
			return sc, a, item, true
		}
	}
	// Unreachable: both chains end at the root scope.
	return 0, Node{}, Node{}, false
}

// itemChain returns the items on the path from a statement up to the root:
// the statement itself, then each enclosing group, innermost first.
func (gr *Grouping) itemChain(index int) []Node {
	chain := []Node{StatementNode(index)}
	for group := gr.groupOfStmt[index]; group != ir.GroupNone; group = gr.parent[group] {
		chain = append(chain, GroupNode(group))
	}
	return chain
}

// scopeOfItem returns the scope an item is a direct member of.
func (gr *Grouping) scopeOfItem(item Node) int {
	if item.Kind == NodeGroup {
		return gr.parent[item.ID]
	}
	return gr.groupOfStmt[item.ID]
}

// Members returns the direct member items of a scope, sorted by id.
// BuildGroupEdges must have been called.
func (gr *Grouping) Members(scope int) []Node { return gr.members[scope] }

// LocalEdges returns the coarsened edges between the direct members of a
// scope. BuildGroupEdges must have been called.
func (gr *Grouping) LocalEdges(scope int) []GroupEdge { return gr.local[scope] }
