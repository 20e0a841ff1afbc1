package sched

import (
	"sort"

	"github.com/inferkit/schedc/internal/depgraph"
	"github.com/inferkit/schedc/internal/ir"
)

// RepairSchedule computes a new valid schedule from a prior one plus the
// invalidation state, reusing as much of the prior order as correctness
// allows.
//
// The prior schedule is replayed left to right over a simulated execution
// state. A statement's first execution in the new schedule initializes it
// and carries no input obligations. A re-execution (later occurrence, or any
// occurrence of an invalid statement) demands that every Dependency, Fresh
// and Requirement source has been computed; an unmet demand inserts the
// source, recursively, so that inserted values are computed from computed
// inputs rather than initialization garbage. An insertion whose output would
// be uniform (a SkipIfUniform source still uncomputed once all hard inputs
// are settled) is skipped, and the demanding occurrence keeps its stale
// input. Fresh cycles met during insertion break through initialization,
// which produces the two-pass re-execution order such cycles require.
//
// Trigger edges obligate the target to re-execute after the source does;
// obligations still pending when the replay ends are appended in ascending
// target order, cascading until stable. Stale (target, source) entries force
// the source to re-execute before the target's next occurrence. Invalid
// statements absent from the prior schedule are appended.
//
// If the pass cannot converge it falls back to a full initial pass; the
// fallback is silent, per the error-handling contract. A Requirement edge
// that closes an insertion cycle with no initialized member is the one
// unsatisfiable case and surfaces a ScheduleError.
func RepairSchedule(g *depgraph.Graph, grouping *depgraph.Grouping, prior ir.Schedule, state ir.InvalidationState) (ir.Schedule, error) {
	n := g.NumStatements()
	p := &repairPass{
		g:         g,
		computed:  make([]bool, n),
		occ:       make([]int, n),
		invalid:   make([]bool, n),
		inserting: make([]bool, n),
		pending:   make([]bool, n),
		staleOf:   make(map[int][]int),
		// Every statement can appear in the prior, be re-inserted once per
		// demand chain, and be appended once per trigger round; anything
		// beyond that indicates a non-converging trigger loop.
		budget: 2*len(prior) + 4*n + 16,
	}
	for _, i := range state.Initialized {
		if i >= 0 && i < n {
			p.computed[i] = true
		}
	}
	for _, i := range state.Invalid {
		if i >= 0 && i < n {
			p.invalid[i] = true
			p.computed[i] = false
		}
	}
	for _, se := range state.Stale {
		if se.Target >= 0 && se.Target < n && se.Source >= 0 && se.Source < n {
			p.staleOf[se.Target] = append(p.staleOf[se.Target], se.Source)
		}
	}
	for t := range p.staleOf {
		sort.Ints(p.staleOf[t])
	}

	ok, err := p.run(prior, state)
	if err != nil {
		return nil, err
	}
	if !ok {
		// PartialRepairInfeasible: degrade to a full pass, not an error.
		return ScheduleWithGroups(g, grouping)
	}
	return p.out, nil
}

type repairPass struct {
	g           *depgraph.Graph
	out         ir.Schedule
	computed    []bool
	occ         []int
	invalid     []bool
	inserting   []bool
	insertTrail []int  // current insertion chain, for cycle diagnostics
	pending     []bool // trigger obligations awaiting a target re-execution
	staleOf     map[int][]int
	budget      int
}

// run executes the replay. ok=false means the pass blew its execution budget
// and the caller should fall back to full scheduling.
func (p *repairPass) run(prior ir.Schedule, state ir.InvalidationState) (ok bool, err error) {
	for _, t := range prior {
		if t < 0 || t >= len(p.computed) {
			return false, nil // foreign index: prior belongs to another model
		}
		if err := p.replay(t); err != nil {
			return false, err
		}
	}

	// Stale obligations whose target never reoccurred: re-execute the source,
	// then the target, so the target's value regains a witness.
	staleTargets := make([]int, 0, len(p.staleOf))
	for t := range p.staleOf {
		staleTargets = append(staleTargets, t)
	}
	sort.Ints(staleTargets)
	for _, t := range staleTargets {
		sources := p.staleOf[t]
		delete(p.staleOf, t)
		for _, s := range sources {
			if err := p.reexec(s); err != nil {
				return false, err
			}
		}
		if err := p.reexec(t); err != nil {
			return false, err
		}
	}

	// Invalid statements the prior schedule never executed.
	for i := range p.invalid {
		if p.invalid[i] && p.occ[i] == 0 {
			if err := p.reexec(i); err != nil {
				return false, err
			}
		}
	}

	// Trigger closure: each round re-executes every pending target; new
	// executions may arm further triggers.
	for {
		var targets []int
		for i, armed := range p.pending {
			if armed {
				targets = append(targets, i)
			}
		}
		if len(targets) == 0 {
			break
		}
		if len(p.out) > p.budget {
			return false, nil
		}
		for _, t := range targets {
			if err := p.reexec(t); err != nil {
				return false, err
			}
		}
	}

	if len(p.out) > p.budget {
		return false, nil
	}
	return true, nil
}

// replay handles one occurrence from the prior schedule.
func (p *repairPass) replay(t int) error {
	if stale := p.staleOf[t]; len(stale) > 0 {
		delete(p.staleOf, t)
		for _, s := range stale {
			if err := p.reexec(s); err != nil {
				return err
			}
		}
	}

	first := p.occ[t] == 0 && !p.invalid[t]
	if !first {
		if err := p.demandInputs(t); err != nil {
			return err
		}
	}
	p.emit(t)
	return nil
}

// demandInputs enforces the re-execution obligations of t: every incoming
// Dependency/Fresh/Requirement source computed, inserting on demand. A
// failed insertion (uniform source) leaves the stale input in place.
func (p *repairPass) demandInputs(t int) error {
	for _, e := range p.g.Incoming(t) {
		if e.Source == t || e.Kinds.IsHintOnly() {
			continue
		}
		if e.Kinds.Has(ir.NoInit) && p.occ[t] == 0 {
			continue // first occurrence in this schedule, waived
		}
		if p.computed[e.Source] {
			continue
		}
		if _, err := p.insert(e.Source, e.Kinds); err != nil {
			return err
		}
	}
	return nil
}

// insert appends an execution of s so that its value is computed from
// computed inputs, recursively inserting Fresh/Requirement sources first.
// Returns false without emitting when the output would be uniform or when a
// hard input cannot be produced. via carries the kinds of the demanding
// edge, which decide how an insertion cycle is broken.
func (p *repairPass) insert(s int, via ir.KindSet) (bool, error) {
	if p.inserting[s] {
		if p.computed[s] {
			return true, nil
		}
		if via.Has(ir.Requirement) && !via.Has(ir.Fresh) {
			// A Requirement demand cannot be met by an initialization
			// execution inside its own cycle.
			cycle := append([]int(nil), p.insertTrail...)
			sort.Ints(cycle)
			return false, &ScheduleError{
				Code:       CodeRequirementCycle,
				Message:    "requirement edge closes a fresh cycle with no initialized member",
				Statements: cycle,
				Kinds:      ir.Kinds(ir.Fresh, ir.Requirement),
			}
		}
		// Fresh/Dependency cycle: break with an initialization execution.
		// The demanding member re-executes later, giving the cycle its
		// second pass.
		p.emit(s)
		return true, nil
	}

	p.inserting[s] = true
	p.insertTrail = append(p.insertTrail, s)
	defer func() {
		p.inserting[s] = false
		p.insertTrail = p.insertTrail[:len(p.insertTrail)-1]
	}()

	for _, e := range p.g.Incoming(s) {
		if e.Source == s {
			continue
		}
		if e.Kinds.Has(ir.NoInit) && p.occ[s] == 0 {
			continue
		}
		if !e.Kinds.HasAny(ir.Fresh | ir.Requirement) {
			continue
		}
		if p.computed[e.Source] {
			continue
		}
		ok, err := p.insert(e.Source, e.Kinds)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil // hard input unavailable, insertion pointless
		}
	}

	// With hard inputs settled, a still-uncomputed SkipIfUniform source
	// means the output would be uniform; skip the execution entirely.
	for _, e := range p.g.Incoming(s) {
		if e.Kinds.Has(ir.SkipIfUniform) && !p.computed[e.Source] {
			return false, nil
		}
	}

	p.emit(s)
	return true, nil
}

// reexec forces an execution of s with full input demands, regardless of
// whether s is already computed. Used for stale witnesses, invalid
// statements absent from the prior, and trigger obligations.
func (p *repairPass) reexec(s int) error {
	if err := p.demandInputs(s); err != nil {
		return err
	}
	p.emit(s)
	return nil
}

// emit appends one execution and updates the simulated state: the statement
// becomes computed, and any Trigger edge from it re-arms targets that have
// already executed in this schedule.
func (p *repairPass) emit(t int) {
	p.out = append(p.out, t)
	p.computed[t] = true
	p.occ[t]++
	p.pending[t] = false
	for _, e := range p.g.Outgoing(t) {
		if e.Kinds.Has(ir.Trigger) && e.Target != t && p.computed[e.Target] {
			p.pending[e.Target] = true
		}
	}
}
