package depgraph

import (
	"math"
	"sort"
)

// criticalSlackEpsilon absorbs floating-point error when classifying nodes as
// critical. A strict ==0 comparison would drop nodes whose slack picked up
// rounding noise across long dependency chains.
const criticalSlackEpsilon = 1e-3

// Schedule is the CPM output for one acyclic graph snapshot.
type Schedule struct {
	// Nodes maps item id to its computed schedule record. Only items with a
	// full schedule triple appear here.
	Nodes map[string]CPMNode

	// CriticalPath lists the critical item ids ordered by earliest start,
	// then ascending id.
	CriticalPath []string

	// ProjectDuration is the project end in days: the maximum earliest
	// finish over all scheduled items.
	ProjectDuration float64

	// Bottlenecks lists critical items with two or more scheduled ordering
	// successors, ascending by id. A delay there propagates to multiple
	// downstream items at once.
	Bottlenecks []string
}

// ComputeSchedule runs the forward and backward CPM passes over the scheduled
// items of g. Precondition: the ordering subgraph is acyclic (the engine only
// calls this after cycle detection finds nothing). Both passes process nodes
// in topological order from an explicit Kahn queue, never by recursion. Ready
// nodes enter the queue in ascending id order, so tie-broken output is
// deterministic; the slack arithmetic itself is tie-invariant.
func ComputeSchedule(g *Graph) *Schedule {
	n := len(g.Items)
	sched := make([]bool, n)
	for i, it := range g.Items {
		sched[i] = it.Scheduled()
	}

	// Ordering adjacency restricted to scheduled endpoints.
	adj := make([][]int, n)
	indeg := make([]int, n)
	for u := 0; u < n; u++ {
		if !sched[u] {
			continue
		}
		for _, v := range g.Ordering[u] {
			if !sched[v] {
				continue
			}
			adj[u] = append(adj[u], v)
			indeg[v]++
		}
	}

	// Kahn topological order. Index order is id order, so the initial queue
	// and every newly ready batch are appended ascending.
	var queue []int
	for u := 0; u < n; u++ {
		if sched[u] && indeg[u] == 0 {
			queue = append(queue, u)
		}
	}
	order := make([]int, 0, len(queue))
	remaining := append([]int(nil), indeg...)
	for i := 0; i < len(queue); i++ {
		u := queue[i]
		order = append(order, u)
		var ready []int
		for _, v := range adj[u] {
			remaining[v]--
			if remaining[v] == 0 {
				ready = append(ready, v)
			}
		}
		sort.Ints(ready)
		queue = append(queue, ready...)
	}

	es := make([]float64, n)
	ef := make([]float64, n)
	ls := make([]float64, n)
	lf := make([]float64, n)

	duration := func(u int) float64 { return *g.Items[u].DurationDays }

	// Forward pass: earliest start is the latest predecessor finish, floored
	// at zero for sources.
	rev := make([][]int, n)
	for u := 0; u < n; u++ {
		for _, v := range adj[u] {
			rev[v] = append(rev[v], u)
		}
	}
	projectEnd := 0.0
	for _, u := range order {
		start := 0.0
		for _, p := range rev[u] {
			if ef[p] > start {
				start = ef[p]
			}
		}
		es[u] = start
		ef[u] = start + duration(u)
		if ef[u] > projectEnd {
			projectEnd = ef[u]
		}
	}

	// Backward pass in reverse topological order: sinks finish at project
	// end, everyone else must finish before its earliest-latest successor
	// start.
	for i := len(order) - 1; i >= 0; i-- {
		u := order[i]
		finish := projectEnd
		for _, v := range adj[u] {
			if ls[v] < finish {
				finish = ls[v]
			}
		}
		lf[u] = finish
		ls[u] = finish - duration(u)
	}

	out := &Schedule{
		Nodes:           make(map[string]CPMNode, len(order)),
		ProjectDuration: projectEnd,
	}

	var critical []int
	for _, u := range order {
		slack := ls[u] - es[u]
		isCritical := math.Abs(slack) < criticalSlackEpsilon
		out.Nodes[g.Items[u].ID] = CPMNode{
			EarliestStart:  es[u],
			EarliestFinish: ef[u],
			LatestStart:    ls[u],
			LatestFinish:   lf[u],
			Slack:          slack,
			IsCritical:     isCritical,
		}
		if isCritical {
			critical = append(critical, u)
			if len(adj[u]) >= 2 {
				out.Bottlenecks = append(out.Bottlenecks, g.Items[u].ID)
			}
		}
	}

	sort.Slice(critical, func(i, j int) bool {
		a, b := critical[i], critical[j]
		if es[a] != es[b] {
			return es[a] < es[b]
		}
		return g.Items[a].ID < g.Items[b].ID
	})
	for _, u := range critical {
		out.CriticalPath = append(out.CriticalPath, g.Items[u].ID)
	}
	sort.Strings(out.Bottlenecks)

	return out
}
