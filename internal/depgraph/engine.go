package depgraph

import "fmt"

// Analyze runs the full pipeline over one workspace snapshot with the default
// scoring weights: build, cycle detection, CPM (gated on acyclicity), risk
// and health scoring, blocked-item resolution. The computation is pure and
// synchronous; concurrent invocations need no locking because every call owns
// its snapshot and derived structures.
func Analyze(items []WorkItem, conns []Connection) (*Report, error) {
	return AnalyzeWithWeights(items, conns, DefaultWeights())
}

// AnalyzeWithWeights is Analyze with an explicit weighting scheme.
//
// The only error return is structural input corruption that prevents graph
// construction; recoverable problems (dangling edges, missing schedules)
// degrade into report warnings instead.
func AnalyzeWithWeights(items []WorkItem, conns []Connection, w Weights) (*Report, error) {
	g, err := Build(items, conns)
	if err != nil {
		return nil, fmt.Errorf("build dependency graph: %w", err)
	}

	// Empty slices, not nil: the report must serialize the same shape every
	// time, including `[]` for absent collections.
	r := &Report{
		Cycles:            [][]string{},
		AffectedWorkItems: []string{},
		CriticalPath:      []string{},
		Nodes:             map[string]CPMNode{},
		Bottlenecks:       []string{},
		BlockedItems:      []BlockedItem{},
		RiskItems:         []RiskItem{},
		Warnings:          append([]string{}, g.Warnings...),
	}

	cs := DetectCycles(g)
	if cs.HasCycles() {
		r.HasCycles = true
		r.Cycles = cs.Cycles
		r.TotalCycles = len(cs.Cycles)
		r.AffectedWorkItems = cs.Affected
		// Never compute a critical path over circular ordering: the forward
		// and backward passes are undefined there.
		r.Warnings = append(r.Warnings,
			fmt.Sprintf("%d circular dependency cycle(s) detected; resolve them before schedule analysis can run", len(cs.Cycles)))
	} else {
		unscheduled := 0
		for _, it := range g.Items {
			if !it.Scheduled() {
				unscheduled++
			}
		}
		if unscheduled > 0 {
			r.Warnings = append(r.Warnings,
				fmt.Sprintf("%d item(s) lack a full schedule triple and were excluded from critical path analysis", unscheduled))
		}

		sched := ComputeSchedule(g)
		r.ProjectDuration = sched.ProjectDuration
		r.Nodes = sched.Nodes
		if sched.CriticalPath != nil {
			r.CriticalPath = sched.CriticalPath
		}
		if sched.Bottlenecks != nil {
			r.Bottlenecks = sched.Bottlenecks
		}
	}

	blocked := resolveBlocked(g)
	r.HealthScore = scoreHealth(g, len(blocked), w)
	if len(blocked) > w.MaxBlockedItems {
		blocked = blocked[:w.MaxBlockedItems]
	}
	if blocked != nil {
		r.BlockedItems = blocked
	}
	if risks := scoreRisks(g, w); risks != nil {
		r.RiskItems = risks
	}

	return r, nil
}
