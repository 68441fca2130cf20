package depgraph

import (
	"reflect"
	"testing"
)

func mustBuild(t *testing.T, items []WorkItem, conns []Connection) *Graph {
	t.Helper()
	g, err := Build(items, conns)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	return g
}

func TestDetectCycles_TwoNodeCycle(t *testing.T) {
	g := mustBuild(t,
		[]WorkItem{item("a", StatusPlanning), item("b", StatusPlanning)},
		[]Connection{
			conn("c1", "a", "b", ConnDependency),
			conn("c2", "b", "a", ConnDependency),
		},
	)
	cs := DetectCycles(g)
	if !cs.HasCycles() || len(cs.Cycles) != 1 {
		t.Fatalf("expected exactly one cycle, got %v", cs.Cycles)
	}
	if !reflect.DeepEqual(cs.Cycles[0], []string{"a", "b"}) {
		t.Fatalf("cycle = %v, want [a b]", cs.Cycles[0])
	}
	if !reflect.DeepEqual(cs.Affected, []string{"a", "b"}) {
		t.Fatalf("affected = %v, want [a b]", cs.Affected)
	}
}

func TestDetectCycles_ThreeNodeCycle(t *testing.T) {
	g := mustBuild(t,
		[]WorkItem{item("a", StatusPlanning), item("b", StatusPlanning), item("c", StatusPlanning)},
		[]Connection{
			conn("c1", "a", "b", ConnDependency),
			conn("c2", "b", "c", ConnBlocks),
			conn("c3", "c", "a", ConnEnables),
		},
	)
	cs := DetectCycles(g)
	if len(cs.Cycles) != 1 {
		t.Fatalf("total cycles = %d, want 1", len(cs.Cycles))
	}
	if !reflect.DeepEqual(cs.Affected, []string{"a", "b", "c"}) {
		t.Fatalf("affected = %v, want [a b c]", cs.Affected)
	}
}

func TestDetectCycles_FindsAllDisjointCycles(t *testing.T) {
	g := mustBuild(t,
		[]WorkItem{
			item("a", StatusPlanning), item("b", StatusPlanning),
			item("c", StatusPlanning), item("d", StatusPlanning),
		},
		[]Connection{
			conn("c1", "a", "b", ConnDependency),
			conn("c2", "b", "a", ConnDependency),
			conn("c3", "c", "d", ConnDependency),
			conn("c4", "d", "c", ConnDependency),
		},
	)
	cs := DetectCycles(g)
	if len(cs.Cycles) != 2 {
		t.Fatalf("total cycles = %d, want 2: %v", len(cs.Cycles), cs.Cycles)
	}
	if !reflect.DeepEqual(cs.Affected, []string{"a", "b", "c", "d"}) {
		t.Fatalf("affected = %v", cs.Affected)
	}
}

func TestDetectCycles_DiamondIsAcyclic(t *testing.T) {
	// a -> b -> d and a -> c -> d: shared subtree, no cycle. The black
	// marking must prevent the second branch from reporting a false cycle.
	g := mustBuild(t,
		[]WorkItem{
			item("a", StatusPlanning), item("b", StatusPlanning),
			item("c", StatusPlanning), item("d", StatusPlanning),
		},
		[]Connection{
			conn("c1", "a", "b", ConnDependency),
			conn("c2", "a", "c", ConnDependency),
			conn("c3", "b", "d", ConnDependency),
			conn("c4", "c", "d", ConnDependency),
		},
	)
	cs := DetectCycles(g)
	if cs.HasCycles() {
		t.Fatalf("diamond graph reported cycles: %v", cs.Cycles)
	}
}

func TestDetectCycles_AdvisoryEdgesCannotFormCycles(t *testing.T) {
	g := mustBuild(t,
		[]WorkItem{item("a", StatusPlanning), item("b", StatusPlanning)},
		[]Connection{
			conn("c1", "a", "b", ConnRelatesTo),
			conn("c2", "b", "a", ConnRelatesTo),
		},
	)
	if cs := DetectCycles(g); cs.HasCycles() {
		t.Fatalf("advisory edges must not produce cycles: %v", cs.Cycles)
	}
}

func TestDetectCycles_DeepChainDoesNotRecurse(t *testing.T) {
	// A 50k-node chain with a closing edge; must complete without stack
	// growth because the DFS is iterative.
	const n = 50000
	items := make([]WorkItem, n)
	conns := make([]Connection, 0, n)
	for i := 0; i < n; i++ {
		items[i] = item(idN(i), StatusPlanning)
		if i > 0 {
			conns = append(conns, conn("e"+idN(i), idN(i-1), idN(i), ConnDependency))
		}
	}
	conns = append(conns, conn("eback", idN(n-1), idN(0), ConnDependency))
	g := mustBuild(t, items, conns)
	cs := DetectCycles(g)
	if len(cs.Cycles) != 1 || len(cs.Cycles[0]) != n {
		t.Fatalf("expected one full-chain cycle")
	}
}

// idN produces zero-padded ids so lexicographic order matches numeric order.
func idN(i int) string {
	const digits = "0123456789"
	buf := []byte{'n', '0', '0', '0', '0', '0'}
	for p := len(buf) - 1; i > 0 && p > 0; p-- {
		buf[p] = digits[i%10]
		i /= 10
	}
	return string(buf)
}
