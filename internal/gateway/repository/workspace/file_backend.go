package workspace

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"

	"pathfinder/internal/depgraph"
)

func (s *Store) ensureLoadedFile() {
	s.loadOnce.Do(func() {
		b, err := os.ReadFile(s.path)
		if err != nil {
			return
		}
		var rows []*record
		if err := json.Unmarshal(b, &rows); err != nil {
			return
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		for _, row := range rows {
			row.Workspace = normalizeWorkspace(row.Workspace)
			if row.Workspace.ID == "" {
				continue
			}
			s.byID[row.Workspace.ID] = row
		}
	})
}

func (s *Store) saveFile() {
	s.ensureLoadedFile()
	s.mu.RLock()
	rows := make([]*record, 0, len(s.byID))
	for _, rec := range s.byID {
		rows = append(rows, rec)
	}
	s.mu.RUnlock()
	sort.Slice(rows, func(i, j int) bool { return rows[i].Workspace.ID < rows[j].Workspace.ID })

	b, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return
	}
	_ = os.MkdirAll(filepath.Dir(s.path), 0o755)
	_ = os.WriteFile(s.path, b, 0o644)
}

func (s *Store) snapshotFile(workspaceID string) (Snapshot, error) {
	s.ensureLoadedFile()
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.byID[workspaceID]
	if !ok {
		return Snapshot{}, ErrNotFound
	}
	// Copy out: callers must never alias store-owned slices.
	snap := Snapshot{Workspace: rec.Workspace}
	snap.Items = append([]depgraph.WorkItem(nil), rec.Items...)
	snap.Connections = append([]depgraph.Connection(nil), rec.Connections...)
	return snap, nil
}

func (s *Store) putWorkspaceFile(w Workspace) {
	s.ensureLoadedFile()
	s.mu.Lock()
	defer s.mu.Unlock()
	if rec, ok := s.byID[w.ID]; ok {
		rec.Workspace = w
		return
	}
	s.byID[w.ID] = &record{Workspace: w}
}

func (s *Store) putItemFile(workspaceID string, it depgraph.WorkItem) error {
	s.ensureLoadedFile()
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.byID[workspaceID]
	if !ok {
		return ErrNotFound
	}
	for i := range rec.Items {
		if rec.Items[i].ID == it.ID {
			rec.Items[i] = it
			return nil
		}
	}
	rec.Items = append(rec.Items, it)
	return nil
}

func (s *Store) putConnectionFile(workspaceID string, c depgraph.Connection) error {
	s.ensureLoadedFile()
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.byID[workspaceID]
	if !ok {
		return ErrNotFound
	}
	for i := range rec.Connections {
		if rec.Connections[i].ID == c.ID {
			rec.Connections[i] = c
			return nil
		}
	}
	rec.Connections = append(rec.Connections, c)
	return nil
}

func (s *Store) deleteItemFile(workspaceID, itemID string) error {
	s.ensureLoadedFile()
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.byID[workspaceID]
	if !ok {
		return ErrNotFound
	}
	for i := range rec.Items {
		if rec.Items[i].ID == itemID {
			rec.Items = append(rec.Items[:i], rec.Items[i+1:]...)
			break
		}
	}
	// Connections touching the item go with it.
	kept := rec.Connections[:0]
	for _, c := range rec.Connections {
		if c.SourceItemID == itemID || c.TargetItemID == itemID {
			continue
		}
		kept = append(kept, c)
	}
	rec.Connections = kept
	return nil
}

func (s *Store) listWorkspacesFile() []Workspace {
	s.ensureLoadedFile()
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Workspace, 0, len(s.byID))
	for _, rec := range s.byID {
		out = append(out, rec.Workspace)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
