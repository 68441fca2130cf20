package depgraph

import (
	"fmt"
	"sort"
)

// Graph is the immutable snapshot one analysis invocation works on. Nodes are
// dense indexes into Items (sorted by item id, so index order is id order and
// every index-ordered walk is deterministic). Predecessor/successor structure
// lives in plain adjacency slices rather than mutually referencing node
// objects.
type Graph struct {
	Items []WorkItem     // index is the node id
	Index map[string]int // item id -> node index

	// Ordering is the directed adjacency restricted to ordering-constraint
	// edge types (dependency, blocks, enables), bidirectional edges already
	// expanded. Neighbor lists are sorted ascending and deduplicated.
	Ordering [][]int

	// Degree counts incoming plus outgoing active edges of every type per
	// node; this is the totalDependencyDegree used by risk scoring.
	Degree []int

	// Edges holds every active edge that survived validation, all types.
	Edges []Connection

	Warnings []string
}

// Build normalizes raw records into a graph snapshot. Inactive edges are
// filtered out; dangling and self-referencing edges are dropped with a
// warning. Structurally malformed input (empty ids, unknown enum values,
// duplicate item ids) aborts with an error: nothing sensible can be computed
// over it.
func Build(items []WorkItem, conns []Connection) (*Graph, error) {
	sorted := make([]WorkItem, len(items))
	copy(sorted, items)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	index := make(map[string]int, len(sorted))
	for i, it := range sorted {
		if it.ID == "" {
			return nil, fmt.Errorf("work item at position %d has an empty id", i)
		}
		if !it.Status.Valid() {
			return nil, fmt.Errorf("work item %s has unknown status %q", it.ID, it.Status)
		}
		if _, dup := index[it.ID]; dup {
			return nil, fmt.Errorf("duplicate work item id %s", it.ID)
		}
		index[it.ID] = i
	}

	g := &Graph{
		Items:    sorted,
		Index:    index,
		Ordering: make([][]int, len(sorted)),
		Degree:   make([]int, len(sorted)),
	}

	for _, c := range conns {
		if !c.Active() {
			continue
		}
		if c.SourceItemID == "" || c.TargetItemID == "" {
			return nil, fmt.Errorf("connection %s is missing an endpoint id", c.ID)
		}
		if !c.ConnectionType.Valid() {
			return nil, fmt.Errorf("connection %s has unknown type %q", c.ID, c.ConnectionType)
		}
		if c.SourceItemID == c.TargetItemID {
			g.warnf("connection %s links item %s to itself; skipped", c.ID, c.SourceItemID)
			continue
		}
		src, ok := index[c.SourceItemID]
		if !ok {
			g.warnf("connection %s references missing item %s; skipped", c.ID, c.SourceItemID)
			continue
		}
		tgt, ok := index[c.TargetItemID]
		if !ok {
			g.warnf("connection %s references missing item %s; skipped", c.ID, c.TargetItemID)
			continue
		}

		g.Edges = append(g.Edges, c)
		g.Degree[src]++
		g.Degree[tgt]++

		if c.ConnectionType.Ordering() {
			g.Ordering[src] = append(g.Ordering[src], tgt)
			if c.IsBidirectional {
				g.Ordering[tgt] = append(g.Ordering[tgt], src)
			}
		}
	}

	for i := range g.Ordering {
		g.Ordering[i] = sortedUnique(g.Ordering[i])
	}

	return g, nil
}

func (g *Graph) warnf(format string, args ...any) {
	g.Warnings = append(g.Warnings, fmt.Sprintf(format, args...))
}

// OrderingEdgeCount returns the number of directed edges in the ordering
// subgraph after bidirectional expansion and deduplication.
func (g *Graph) OrderingEdgeCount() int {
	n := 0
	for _, adj := range g.Ordering {
		n += len(adj)
	}
	return n
}

func sortedUnique(xs []int) []int {
	if len(xs) < 2 {
		return xs
	}
	sort.Ints(xs)
	out := xs[:1]
	for _, x := range xs[1:] {
		if x != out[len(out)-1] {
			out = append(out, x)
		}
	}
	return out
}
