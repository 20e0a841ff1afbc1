package sched

import (
	"sort"

	"github.com/inferkit/schedc/internal/depgraph"
	"github.com/inferkit/schedc/internal/ir"
)

// SourceSelector restricts which ready items may seed a scope's schedule.
// Items the selector rejects are picked only when no approved item is ready.
type SourceSelector func(depgraph.Node) bool

// Options configure the initial scheduling pass.
type Options struct {
	SourceSelector SourceSelector
}

// Option mutates Options.
type Option func(*Options)

// WithSourceSelector installs a seed preference for the ready set.
func WithSourceSelector(sel SourceSelector) Option {
	return func(o *Options) { o.SourceSelector = sel }
}

// ScheduleWithGroups produces one valid single-pass schedule for the graph:
// every statement exactly once, Dependency-kind edges respected, group
// members kept contiguous (recursively for nested groups). NoInit-carrying
// edges are ignored; this pass is the initializing execution they permit.
//
// grouping may be nil for an ungrouped model. The result is deterministic:
// among ready items the lowest statement index or group id wins.
//
// Fails with a ScheduleError naming the cycle members when the Dependency
// structure admits no topological order.
func ScheduleWithGroups(g *depgraph.Graph, grouping *depgraph.Grouping, opts ...Option) (ir.Schedule, error) {
	var o Options
	for _, opt := range opts {
		opt(&o)
	}
	if grouping == nil {
		var err error
		grouping, err = depgraph.NewGrouping(g, nil)
		if err != nil {
			return nil, err
		}
	}
	grouping.BuildGroupEdges()

	s := &topoPass{g: g, grouping: grouping, selector: o.SourceSelector}
	out := make(ir.Schedule, 0, g.NumStatements())
	if err := s.scheduleScope(ir.GroupNone, &out); err != nil {
		return nil, err
	}
	return out, nil
}

type topoPass struct {
	g        *depgraph.Graph
	grouping *depgraph.Grouping
	selector SourceSelector
}

// orderingEdges filters a scope's local edges down to the ones that
// constrain the initial pass: Dependency kind present, NoInit absent,
// and not a self-edge at the item level.
func (s *topoPass) orderingEdges(scope int) []depgraph.GroupEdge {
	var out []depgraph.GroupEdge
	for _, e := range s.grouping.LocalEdges(scope) {
		if !e.Kinds.Has(ir.Dependency) || e.Kinds.Has(ir.NoInit) {
			continue
		}
		if e.From == e.To {
			continue
		}
		out = append(out, e)
	}
	return out
}

// scheduleScope emits the members of one scope in topological order,
// recursing into group members.
func (s *topoPass) scheduleScope(scope int, out *ir.Schedule) error {
	items := s.grouping.Members(scope)
	if len(items) == 0 {
		return nil
	}
	edges := s.orderingEdges(scope)

	pos := make(map[depgraph.Node]int, len(items))
	for i, item := range items {
		pos[item] = i
	}
	indeg := make([]int, len(items))
	succ := make([][]int, len(items))
	for _, e := range edges {
		from, to := pos[e.From], pos[e.To]
		indeg[to]++
		succ[from] = append(succ[from], to)
	}

	consumed := make([]bool, len(items))
	for done := 0; done < len(items); done++ {
		pick := s.pickReady(items, indeg, consumed)
		if pick < 0 {
			return s.cycleError(scope, items, consumed)
		}
		consumed[pick] = true
		item := items[pick]
		if item.Kind == depgraph.NodeGroup {
			if err := s.scheduleScope(item.ID, out); err != nil {
				return err
			}
		} else {
			*out = append(*out, item.ID)
		}
		for _, t := range succ[pick] {
			indeg[t]--
		}
	}
	return nil
}

// pickReady returns the lowest-id ready item, preferring selector-approved
// items when a selector is installed. Returns -1 when nothing is ready.
func (s *topoPass) pickReady(items []depgraph.Node, indeg []int, consumed []bool) int {
	fallback := -1
	for i, item := range items {
		if consumed[i] || indeg[i] > 0 {
			continue
		}
		if s.selector == nil || s.selector(item) {
			return i // items are sorted ascending, first hit is lowest
		}
		if fallback < 0 {
			fallback = i
		}
	}
	return fallback
}

// cycleError reports the statements implicated in the scope's dependency
// cycle: the members of every non-trivial strongly connected component among
// the unconsumed items, expanded through groups.
func (s *topoPass) cycleError(scope int, items []depgraph.Node, consumed []bool) error {
	remaining := make(map[depgraph.Node]bool)
	for i, item := range items {
		if !consumed[i] {
			remaining[item] = true
		}
	}
	adj := make(map[depgraph.Node][]depgraph.Node)
	for _, e := range s.orderingEdges(scope) {
		if remaining[e.From] && remaining[e.To] {
			adj[e.From] = append(adj[e.From], e.To)
		}
	}

	var cyclic []depgraph.Node
	for _, scc := range tarjanSCC(items, remaining, adj) {
		if len(scc) > 1 {
			cyclic = append(cyclic, scc...)
		}
	}
	if len(cyclic) == 0 {
		// Degenerate, but never drop the diagnosis entirely.
		for _, item := range items {
			if remaining[item] {
				cyclic = append(cyclic, item)
			}
		}
	}

	var stmts []int
	for _, item := range cyclic {
		stmts = append(stmts, s.expand(item)...)
	}
	sort.Ints(stmts)
	return &ScheduleError{
		Code:       CodeDependencyCycle,
		Message:    "statements form a dependency cycle; no topological order exists",
		Statements: stmts,
		Kinds:      ir.Kinds(ir.Dependency),
	}
}

// expand resolves an item to the statement indices beneath it.
func (s *topoPass) expand(item depgraph.Node) []int {
	if item.Kind == depgraph.NodeStatement {
		return []int{item.ID}
	}
	var stmts []int
	for i := 0; i < s.g.NumStatements(); i++ {
		for group := s.grouping.GroupOf(i); group != ir.GroupNone; group = s.grouping.Parent(group) {
			if group == item.ID {
				stmts = append(stmts, i)
				break
			}
		}
	}
	return stmts
}

// tarjanSCC finds strongly connected components among the given nodes.
// Single-node components without a self-loop are not cycles; callers filter.
func tarjanSCC(order []depgraph.Node, nodes map[depgraph.Node]bool, adj map[depgraph.Node][]depgraph.Node) [][]depgraph.Node {
	index := 0
	indices := make(map[depgraph.Node]int)
	lowlink := make(map[depgraph.Node]int)
	onStack := make(map[depgraph.Node]bool)
	var stack []depgraph.Node
	var sccs [][]depgraph.Node

	var strongconnect func(v depgraph.Node)
	strongconnect = func(v depgraph.Node) {
		indices[v] = index
		lowlink[v] = index
		index++
		stack = append(stack, v)
		onStack[v] = true

		for _, w := range adj[v] {
			if _, seen := indices[w]; !seen {
				strongconnect(w)
				if lowlink[w] < lowlink[v] {
					lowlink[v] = lowlink[w]
				}
			} else if onStack[w] {
				if indices[w] < lowlink[v] {
					lowlink[v] = indices[w]
				}
			}
		}

		if lowlink[v] == indices[v] {
			var scc []depgraph.Node
			for {
				w := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[w] = false
				scc = append(scc, w)
				if w == v {
					break
				}
			}
			sccs = append(sccs, scc)
		}
	}

	for _, v := range order {
		if !nodes[v] {
			continue
		}
		if _, seen := indices[v]; !seen {
			strongconnect(v)
		}
	}
	return sccs
}
