package depgraph

import (
	"bytes"
	"encoding/json"
	"reflect"
	"strings"
	"testing"
)

func TestAnalyze_EmptyInput(t *testing.T) {
	r, err := Analyze(nil, nil)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if r.HealthScore != 100 {
		t.Fatalf("health = %v, want 100", r.HealthScore)
	}
	if r.HasCycles {
		t.Fatalf("empty graph reported cycles")
	}
	if len(r.CriticalPath) != 0 || r.CriticalPath == nil {
		t.Fatalf("critical path should be empty non-nil, got %#v", r.CriticalPath)
	}
}

func TestAnalyze_CycleGatesSchedule(t *testing.T) {
	r, err := Analyze(
		[]WorkItem{
			schedItem("a", StatusInProgress, 5),
			schedItem("b", StatusInProgress, 3),
		},
		[]Connection{
			conn("c1", "a", "b", ConnDependency),
			conn("c2", "b", "a", ConnDependency),
		},
	)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if !r.HasCycles || r.TotalCycles != 1 {
		t.Fatalf("hasCycles/totalCycles = %v/%d, want true/1", r.HasCycles, r.TotalCycles)
	}
	if len(r.CriticalPath) != 0 || r.ProjectDuration != 0 || len(r.Nodes) != 0 {
		t.Fatalf("schedule fields must stay empty under cycles: %+v", r)
	}
	found := false
	for _, w := range r.Warnings {
		if strings.Contains(w, "circular") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a cycle warning, got %v", r.Warnings)
	}
	// Scoring and blocking still run: both items block each other.
	if len(r.BlockedItems) != 2 {
		t.Fatalf("blocked items under cycles = %+v, want both", r.BlockedItems)
	}
	if r.HealthScore >= 100 {
		t.Fatalf("health should reflect the blocked pair, got %v", r.HealthScore)
	}
}

func TestAnalyze_FullPipeline(t *testing.T) {
	r, err := Analyze(
		[]WorkItem{
			schedItem("a", StatusInProgress, 5),
			schedItem("b", StatusNotStarted, 3),
			schedItem("c", StatusNotStarted, 2),
		},
		[]Connection{
			conn("c1", "a", "b", ConnDependency),
			conn("c2", "b", "c", ConnDependency),
		},
	)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if !reflect.DeepEqual(r.CriticalPath, []string{"a", "b", "c"}) {
		t.Fatalf("critical path = %v", r.CriticalPath)
	}
	if r.ProjectDuration != 10 {
		t.Fatalf("project duration = %v, want 10", r.ProjectDuration)
	}
	if n := r.Nodes["b"]; n.EarliestStart != 5 || n.EarliestFinish != 8 {
		t.Fatalf("b schedule = %+v", n)
	}
	// b and c sit behind incomplete predecessors.
	if len(r.BlockedItems) != 2 {
		t.Fatalf("blocked = %+v", r.BlockedItems)
	}
}

func TestAnalyze_MalformedInputFails(t *testing.T) {
	_, err := Analyze([]WorkItem{{ID: "a", Status: "nonsense"}}, nil)
	if err == nil {
		t.Fatalf("expected structural validation to abort")
	}
}

func TestAnalyze_DanglingEdgeWarningSurvivesToReport(t *testing.T) {
	r, err := Analyze(
		[]WorkItem{item("a", StatusInProgress)},
		[]Connection{conn("c1", "a", "ghost", ConnDependency)},
	)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if len(r.Warnings) == 0 || !strings.Contains(r.Warnings[0], "ghost") {
		t.Fatalf("report warnings = %v", r.Warnings)
	}
}

func TestAnalyze_Deterministic(t *testing.T) {
	items := []WorkItem{
		schedItem("w3", StatusBlocked, 2),
		schedItem("w1", StatusInProgress, 5),
		item("w4", StatusNotStarted),
		schedItem("w2", StatusNotStarted, 3),
	}
	conns := []Connection{
		conn("c1", "w1", "w2", ConnDependency),
		conn("c2", "w1", "w3", ConnBlocks),
		conn("c3", "w2", "w4", ConnRelatesTo),
		conn("c4", "w3", "w4", ConnDependency),
	}

	first, err := Analyze(items, conns)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	second, err := Analyze(items, conns)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}

	a, err := json.Marshal(first)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	b, err := json.Marshal(second)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !bytes.Equal(a, b) {
		t.Fatalf("two runs on identical input differ:\n%s\n%s", a, b)
	}
}

func TestAnalyze_ReportFieldNames(t *testing.T) {
	r, err := Analyze(nil, nil)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	raw, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var m map[string]json.RawMessage
	if err := json.Unmarshal(raw, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, field := range []string{
		"hasCycles", "cycles", "totalCycles", "affectedWorkItems",
		"criticalPath", "projectDuration", "nodes", "bottlenecks",
		"healthScore", "blockedItems", "riskItems", "warnings",
	} {
		if _, ok := m[field]; !ok {
			t.Errorf("report is missing field %q", field)
		}
	}
}
