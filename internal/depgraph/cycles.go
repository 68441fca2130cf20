package depgraph

// Node colors for the cycle DFS: white = unvisited, gray = on the current
// path, black = fully explored. Black subtrees are never re-entered, so the
// whole detection is a single O(V+E) pass even on dense graphs.
const (
	white int8 = iota
	gray
	black
)

// CycleSet is the outcome of cycle detection over the ordering subgraph.
type CycleSet struct {
	// Cycles holds each detected cycle as an ordered sequence of item ids;
	// the last element has an edge back to the first.
	Cycles [][]string

	// Affected is the union of item ids appearing in any cycle, ascending.
	Affected []string
}

// HasCycles reports whether at least one cycle was found.
func (cs *CycleSet) HasCycles() bool { return len(cs.Cycles) > 0 }

// DetectCycles finds every distinct cycle in the ordering subgraph using an
// iterative depth-first search with an explicit stack (recursion is avoided:
// a deep dependency chain must not exhaust the goroutine stack). An edge into
// a gray node closes a cycle, which is reconstructed by slicing the current
// path from the revisited node to the tip. The search then continues, so all
// back edges are reported, not just the first.
func DetectCycles(g *Graph) *CycleSet {
	n := len(g.Items)
	color := make([]int8, n)
	pathPos := make([]int, n) // position on the current path, valid while gray

	type frame struct {
		node int
		next int // next neighbor offset to explore
	}

	var (
		stack    []frame
		path     []int
		cycles   [][]int
		affected = make([]bool, n)
	)

	for start := 0; start < n; start++ {
		if color[start] != white {
			continue
		}
		color[start] = gray
		pathPos[start] = 0
		path = append(path[:0], start)
		stack = append(stack[:0], frame{node: start})

		for len(stack) > 0 {
			f := &stack[len(stack)-1]
			adj := g.Ordering[f.node]
			if f.next < len(adj) {
				v := adj[f.next]
				f.next++
				switch color[v] {
				case white:
					color[v] = gray
					pathPos[v] = len(path)
					path = append(path, v)
					stack = append(stack, frame{node: v})
				case gray:
					cyc := append([]int(nil), path[pathPos[v]:]...)
					cycles = append(cycles, cyc)
					for _, u := range cyc {
						affected[u] = true
					}
				}
				continue
			}
			color[f.node] = black
			path = path[:len(path)-1]
			stack = stack[:len(stack)-1]
		}
	}

	cs := &CycleSet{}
	for _, cyc := range cycles {
		ids := make([]string, len(cyc))
		for i, u := range cyc {
			ids[i] = g.Items[u].ID
		}
		cs.Cycles = append(cs.Cycles, ids)
	}
	// Index order is id order, so Affected comes out ascending.
	for u := 0; u < n; u++ {
		if affected[u] {
			cs.Affected = append(cs.Affected, g.Items[u].ID)
		}
	}
	return cs
}
