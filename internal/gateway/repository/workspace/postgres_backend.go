package workspace

import (
	"database/sql"

	"pathfinder/internal/depgraph"
)

func (s *Store) ensureSchema() error {
	if s == nil || s.db == nil {
		return nil
	}
	s.schemaOnce.Do(func() {
		_, s.schemaErr = s.db.Exec(`
CREATE TABLE IF NOT EXISTS workspaces (
  workspace_id TEXT PRIMARY KEY,
  name TEXT NOT NULL DEFAULT 'Workspace'
);

CREATE TABLE IF NOT EXISTS work_items (
  id TEXT PRIMARY KEY,
  workspace_id TEXT NOT NULL,
  name TEXT NOT NULL DEFAULT '',
  status TEXT NOT NULL DEFAULT 'not_started',
  start_date TIMESTAMP WITH TIME ZONE,
  end_date TIMESTAMP WITH TIME ZONE,
  duration_days DOUBLE PRECISION
);
CREATE INDEX IF NOT EXISTS idx_work_items_workspace_id ON work_items (workspace_id);

CREATE TABLE IF NOT EXISTS work_item_connections (
  id TEXT PRIMARY KEY,
  workspace_id TEXT NOT NULL,
  source_item_id TEXT NOT NULL,
  target_item_id TEXT NOT NULL,
  connection_type TEXT NOT NULL DEFAULT 'dependency',
  status TEXT NOT NULL DEFAULT 'active',
  strength DOUBLE PRECISION NOT NULL DEFAULT 0.5,
  confidence DOUBLE PRECISION NOT NULL DEFAULT 0.5,
  is_bidirectional BOOLEAN NOT NULL DEFAULT FALSE
);
CREATE INDEX IF NOT EXISTS idx_work_item_connections_workspace_id ON work_item_connections (workspace_id);
`)
	})
	return s.schemaErr
}

func (s *Store) snapshotDB(workspaceID string) (Snapshot, error) {
	if err := s.ensureSchema(); err != nil {
		return Snapshot{}, err
	}

	var snap Snapshot
	row := s.db.QueryRow(`SELECT workspace_id, name FROM workspaces WHERE workspace_id = $1`, workspaceID)
	if err := row.Scan(&snap.Workspace.ID, &snap.Workspace.Name); err != nil {
		if err == sql.ErrNoRows {
			return Snapshot{}, ErrNotFound
		}
		return Snapshot{}, err
	}

	rows, err := s.db.Query(`SELECT id, name, status, start_date, end_date, duration_days
FROM work_items WHERE workspace_id = $1 ORDER BY id`, workspaceID)
	if err != nil {
		return Snapshot{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var it depgraph.WorkItem
		var status string
		if err := rows.Scan(&it.ID, &it.Name, &status, &it.StartDate, &it.EndDate, &it.DurationDays); err != nil {
			return Snapshot{}, err
		}
		it.Status = depgraph.Status(status)
		snap.Items = append(snap.Items, it)
	}
	if err := rows.Err(); err != nil {
		return Snapshot{}, err
	}

	crows, err := s.db.Query(`SELECT id, source_item_id, target_item_id, connection_type, status, strength, confidence, is_bidirectional
FROM work_item_connections WHERE workspace_id = $1 ORDER BY id`, workspaceID)
	if err != nil {
		return Snapshot{}, err
	}
	defer crows.Close()
	for crows.Next() {
		var c depgraph.Connection
		var ctype string
		if err := crows.Scan(&c.ID, &c.SourceItemID, &c.TargetItemID, &ctype, &c.Status,
			&c.Strength, &c.Confidence, &c.IsBidirectional); err != nil {
			return Snapshot{}, err
		}
		c.ConnectionType = depgraph.ConnectionType(ctype)
		snap.Connections = append(snap.Connections, c)
	}
	if err := crows.Err(); err != nil {
		return Snapshot{}, err
	}

	return snap, nil
}

func (s *Store) putWorkspaceDB(w Workspace) error {
	if err := s.ensureSchema(); err != nil {
		return err
	}
	_, err := s.db.Exec(`
INSERT INTO workspaces (workspace_id, name)
VALUES ($1,$2)
ON CONFLICT (workspace_id) DO UPDATE SET name=EXCLUDED.name`,
		w.ID, w.Name)
	return err
}

func (s *Store) putItemDB(workspaceID string, it depgraph.WorkItem) error {
	if err := s.ensureSchema(); err != nil {
		return err
	}
	_, err := s.db.Exec(`
INSERT INTO work_items (id, workspace_id, name, status, start_date, end_date, duration_days)
VALUES ($1,$2,$3,$4,$5,$6,$7)
ON CONFLICT (id)
DO UPDATE SET workspace_id=EXCLUDED.workspace_id,
  name=EXCLUDED.name,
  status=EXCLUDED.status,
  start_date=EXCLUDED.start_date,
  end_date=EXCLUDED.end_date,
  duration_days=EXCLUDED.duration_days`,
		it.ID, workspaceID, it.Name, string(it.Status), it.StartDate, it.EndDate, it.DurationDays)
	return err
}

func (s *Store) putConnectionDB(workspaceID string, c depgraph.Connection) error {
	if err := s.ensureSchema(); err != nil {
		return err
	}
	_, err := s.db.Exec(`
INSERT INTO work_item_connections (id, workspace_id, source_item_id, target_item_id, connection_type, status, strength, confidence, is_bidirectional)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
ON CONFLICT (id)
DO UPDATE SET workspace_id=EXCLUDED.workspace_id,
  source_item_id=EXCLUDED.source_item_id,
  target_item_id=EXCLUDED.target_item_id,
  connection_type=EXCLUDED.connection_type,
  status=EXCLUDED.status,
  strength=EXCLUDED.strength,
  confidence=EXCLUDED.confidence,
  is_bidirectional=EXCLUDED.is_bidirectional`,
		c.ID, workspaceID, c.SourceItemID, c.TargetItemID, string(c.ConnectionType),
		c.Status, c.Strength, c.Confidence, c.IsBidirectional)
	return err
}

func (s *Store) deleteItemDB(workspaceID, itemID string) error {
	if err := s.ensureSchema(); err != nil {
		return err
	}
	var exists bool
	row := s.db.QueryRow(`SELECT TRUE FROM workspaces WHERE workspace_id = $1`, workspaceID)
	if err := row.Scan(&exists); err != nil {
		if err == sql.ErrNoRows {
			return ErrNotFound
		}
		return err
	}
	if _, err := s.db.Exec(`DELETE FROM work_items WHERE workspace_id = $1 AND id = $2`, workspaceID, itemID); err != nil {
		return err
	}
	_, err := s.db.Exec(`DELETE FROM work_item_connections
WHERE workspace_id = $1 AND (source_item_id = $2 OR target_item_id = $2)`, workspaceID, itemID)
	return err
}

func (s *Store) listWorkspacesDB() ([]Workspace, error) {
	if err := s.ensureSchema(); err != nil {
		return nil, err
	}
	rows, err := s.db.Query(`SELECT workspace_id, name FROM workspaces ORDER BY workspace_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Workspace
	for rows.Next() {
		var w Workspace
		if err := rows.Scan(&w.ID, &w.Name); err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, rows.Err()
}
