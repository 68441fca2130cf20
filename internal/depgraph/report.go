package depgraph

// CPMNode holds the schedule arithmetic for one scheduled item. All times are
// in days relative to project start. Computed fresh per analysis, never
// persisted.
type CPMNode struct {
	EarliestStart  float64 `json:"earliestStart"`
	EarliestFinish float64 `json:"earliestFinish"`
	LatestStart    float64 `json:"latestStart"`
	LatestFinish   float64 `json:"latestFinish"`
	Slack          float64 `json:"slack"`
	IsCritical     bool    `json:"isCritical"`
}

// BlockedItem describes one blocked work item and its immediate blockers.
type BlockedItem struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	BlockedBy      []string `json:"blockedBy"`
	BlockedByCount int      `json:"blockedByCount"`
}

// RiskItem describes one high-risk work item.
type RiskItem struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	DependencyCount int     `json:"dependencyCount"`
	RiskScore       float64 `json:"riskScore"`
}

// Report is the aggregated result of one analysis invocation.
//
// When HasCycles is true the schedule fields (CriticalPath, ProjectDuration,
// Nodes, Bottlenecks) are left empty: CPM is undefined over a graph with
// unresolved circular ordering.
type Report struct {
	HasCycles         bool               `json:"hasCycles"`
	Cycles            [][]string         `json:"cycles"`
	TotalCycles       int                `json:"totalCycles"`
	AffectedWorkItems []string           `json:"affectedWorkItems"`
	CriticalPath      []string           `json:"criticalPath"`
	ProjectDuration   float64            `json:"projectDuration"`
	Nodes             map[string]CPMNode `json:"nodes"`
	Bottlenecks       []string           `json:"bottlenecks"`
	HealthScore       float64            `json:"healthScore"`
	BlockedItems      []BlockedItem      `json:"blockedItems"`
	RiskItems         []RiskItem         `json:"riskItems"`
	Warnings          []string           `json:"warnings"`
}
