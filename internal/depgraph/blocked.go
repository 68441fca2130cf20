package depgraph

import "sort"

// resolveBlocked derives the full blocked set: an item is blocked when its
// own status is blocked, or when it is the target of an active blocks or
// dependency edge whose source is not completed. Resolution is deliberately
// one-hop: a chain of incomplete predecessors only marks the immediate
// successor, blocking is not propagated transitively downstream. The result
// is sorted by blocker count descending, ascending id on ties, and is NOT
// capped here; the caller needs the full count for health scoring.
func resolveBlocked(g *Graph) []BlockedItem {
	n := len(g.Items)
	blockedBy := make([]map[string]struct{}, n)

	mark := func(target int, source string) {
		if blockedBy[target] == nil {
			blockedBy[target] = make(map[string]struct{})
		}
		blockedBy[target][source] = struct{}{}
	}

	for _, c := range g.Edges {
		if c.ConnectionType != ConnBlocks && c.ConnectionType != ConnDependency {
			continue
		}
		src := g.Index[c.SourceItemID]
		tgt := g.Index[c.TargetItemID]
		if g.Items[src].Status != StatusCompleted {
			mark(tgt, c.SourceItemID)
		}
		if c.IsBidirectional && g.Items[tgt].Status != StatusCompleted {
			mark(src, c.TargetItemID)
		}
	}

	var out []BlockedItem
	for i, it := range g.Items {
		if it.Status != StatusBlocked && len(blockedBy[i]) == 0 {
			continue
		}
		ids := make([]string, 0, len(blockedBy[i]))
		for id := range blockedBy[i] {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		out = append(out, BlockedItem{
			ID:             it.ID,
			Name:           it.Name,
			BlockedBy:      ids,
			BlockedByCount: len(ids),
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].BlockedByCount != out[j].BlockedByCount {
			return out[i].BlockedByCount > out[j].BlockedByCount
		}
		return out[i].ID < out[j].ID
	})
	return out
}
