package depgraph

import "sort"

// Weights holds every scoring constant in one immutable value so alternative
// weighting schemes can be tested or configured without touching call sites.
type Weights struct {
	// Per-item risk: min(degree*DegreeWeight, DegreeCap) plus status bonus.
	DegreeWeight    float64 `yaml:"degree_weight"`
	DegreeCap       float64 `yaml:"degree_cap"`
	BlockedBonus    float64 `yaml:"blocked_bonus"`
	NotStartedBonus float64 `yaml:"not_started_bonus"`

	// Items scoring above RiskThreshold are reported, top MaxRiskItems.
	RiskThreshold float64 `yaml:"risk_threshold"`
	MaxRiskItems  int     `yaml:"max_risk_items"`

	// Graph health: 100 minus blocked and density penalties plus a
	// completion bonus, clamped to [0,100].
	BlockedPenaltyCap float64 `yaml:"blocked_penalty_cap"`
	DensityThreshold  float64 `yaml:"density_threshold"`
	DensityWeight     float64 `yaml:"density_weight"`
	DensityPenaltyCap float64 `yaml:"density_penalty_cap"`
	CompletedBonus    float64 `yaml:"completed_bonus"`

	MaxBlockedItems int `yaml:"max_blocked_items"`
}

// DefaultWeights returns the standard scoring scheme.
func DefaultWeights() Weights {
	return Weights{
		DegreeWeight:      15,
		DegreeCap:         60,
		BlockedBonus:      30,
		NotStartedBonus:   10,
		RiskThreshold:     30,
		MaxRiskItems:      10,
		BlockedPenaltyCap: 40,
		DensityThreshold:  3,
		DensityWeight:     5,
		DensityPenaltyCap: 20,
		CompletedBonus:    20,
		MaxBlockedItems:   10,
	}
}

// scoreRisks computes the per-item risk score for every node and returns the
// items above the reporting threshold, highest score first (ascending id on
// ties), capped at MaxRiskItems.
func scoreRisks(g *Graph, w Weights) []RiskItem {
	var out []RiskItem
	for i, it := range g.Items {
		score := float64(g.Degree[i]) * w.DegreeWeight
		if score > w.DegreeCap {
			score = w.DegreeCap
		}
		switch it.Status {
		case StatusBlocked:
			score += w.BlockedBonus
		case StatusNotStarted:
			score += w.NotStartedBonus
		}
		if score > w.RiskThreshold {
			out = append(out, RiskItem{
				ID:              it.ID,
				Name:            it.Name,
				DependencyCount: g.Degree[i],
				RiskScore:       score,
			})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].RiskScore != out[j].RiskScore {
			return out[i].RiskScore > out[j].RiskScore
		}
		return out[i].ID < out[j].ID
	})
	if len(out) > w.MaxRiskItems {
		out = out[:w.MaxRiskItems]
	}
	return out
}

// scoreHealth computes the composite 0-100 graph health score. blockedCount
// is the full blocked-item count from the resolver, not the report-capped
// one. An empty graph has no risk surface and scores 100 by definition.
func scoreHealth(g *Graph, blockedCount int, w Weights) float64 {
	total := len(g.Items)
	if total == 0 {
		return 100
	}

	score := 100.0

	blockedRatio := float64(blockedCount) / float64(total)
	penalty := blockedRatio * 100
	if penalty > w.BlockedPenaltyCap {
		penalty = w.BlockedPenaltyCap
	}
	score -= penalty

	degreeSum := 0
	completed := 0
	for i, it := range g.Items {
		degreeSum += g.Degree[i]
		if it.Status == StatusCompleted {
			completed++
		}
	}
	avgDeps := float64(degreeSum) / float64(total)
	if avgDeps > w.DensityThreshold {
		density := (avgDeps - w.DensityThreshold) * w.DensityWeight
		if density > w.DensityPenaltyCap {
			density = w.DensityPenaltyCap
		}
		score -= density
	}

	score += float64(completed) / float64(total) * w.CompletedBonus

	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
