package workspace

import (
	"strings"

	"pathfinder/internal/depgraph"
)

// Workspace is one analysis scope: a team's set of work items and the typed
// connections between them.
type Workspace struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Snapshot is the raw material for one analysis invocation. Connections are
// returned as stored, including inactive ones; the engine filters.
type Snapshot struct {
	Workspace   Workspace             `json:"workspace"`
	Items       []depgraph.WorkItem   `json:"items"`
	Connections []depgraph.Connection `json:"connections"`
}

func normalizeWorkspace(w Workspace) Workspace {
	w.ID = strings.TrimSpace(w.ID)
	w.Name = strings.TrimSpace(w.Name)
	if w.Name == "" {
		w.Name = "Workspace"
	}
	return w
}
