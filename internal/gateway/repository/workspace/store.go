package workspace

import (
	"database/sql"
	"errors"
	"os"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	_ "github.com/jackc/pgx/v5/stdlib"

	"pathfinder/internal/depgraph"
)

// ErrNotFound is returned when the requested workspace does not exist.
var ErrNotFound = errors.New("workspace not found")

// Store keeps workspaces, work items and connections. Backed by Postgres
// (pgx) when a DSN is configured, otherwise by a JSON file. Snapshots are
// cached per workspace and invalidated on any write to that workspace.
type Store struct {
	path string
	db   *sql.DB

	loadOnce sync.Once
	mu       sync.RWMutex
	byID     map[string]*record

	schemaOnce sync.Once
	schemaErr  error

	snapshots *lru.Cache[string, Snapshot]
}

type record struct {
	Workspace   Workspace             `json:"workspace"`
	Items       []depgraph.WorkItem   `json:"items"`
	Connections []depgraph.Connection `json:"connections"`
}

func New(path string) *Store {
	s := &Store{
		path: path,
		byID: make(map[string]*record),
	}
	s.snapshots, _ = lru.New[string, Snapshot](256)
	return s
}

func NewPostgres(dsn string) (*Store, error) {
	db, err := sql.Open("pgx", strings.TrimSpace(dsn))
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	cache, err := lru.New[string, Snapshot](256)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{
		db:        db,
		snapshots: cache,
	}, nil
}

// NewFromEnv prefers Postgres when WORKSPACE_STORE_PG_DSN is set, falling
// back to the JSON file store at path.
func NewFromEnv(path string) *Store {
	dsn := strings.TrimSpace(os.Getenv("WORKSPACE_STORE_PG_DSN"))
	if dsn == "" {
		return New(path)
	}
	s, err := NewPostgres(dsn)
	if err != nil {
		return New(path)
	}
	return s
}

// Snapshot returns the workspace record plus all of its items and
// connections, from cache when the workspace has not been written since.
func (s *Store) Snapshot(workspaceID string) (Snapshot, error) {
	if s == nil {
		return Snapshot{}, ErrNotFound
	}
	id := strings.TrimSpace(workspaceID)
	if id == "" {
		return Snapshot{}, ErrNotFound
	}
	if snap, ok := s.snapshots.Get(id); ok {
		return snap, nil
	}

	var (
		snap Snapshot
		err  error
	)
	if s.db != nil {
		snap, err = s.snapshotDB(id)
	} else {
		snap, err = s.snapshotFile(id)
	}
	if err != nil {
		return Snapshot{}, err
	}
	s.snapshots.Add(id, snap)
	return snap, nil
}

// PutWorkspace creates or renames a workspace.
func (s *Store) PutWorkspace(w Workspace) error {
	if s == nil {
		return nil
	}
	w = normalizeWorkspace(w)
	if w.ID == "" {
		return errors.New("workspace id is required")
	}
	defer s.snapshots.Remove(w.ID)
	if s.db != nil {
		return s.putWorkspaceDB(w)
	}
	s.putWorkspaceFile(w)
	return nil
}

// PutItem upserts a work item into a workspace.
func (s *Store) PutItem(workspaceID string, item depgraph.WorkItem) error {
	if s == nil {
		return nil
	}
	id := strings.TrimSpace(workspaceID)
	defer s.snapshots.Remove(id)
	if s.db != nil {
		return s.putItemDB(id, item)
	}
	return s.putItemFile(id, item)
}

// PutConnection upserts a connection into a workspace.
func (s *Store) PutConnection(workspaceID string, conn depgraph.Connection) error {
	if s == nil {
		return nil
	}
	id := strings.TrimSpace(workspaceID)
	defer s.snapshots.Remove(id)
	if s.db != nil {
		return s.putConnectionDB(id, conn)
	}
	return s.putConnectionFile(id, conn)
}

// DeleteItem removes a work item and every connection touching it.
func (s *Store) DeleteItem(workspaceID, itemID string) error {
	if s == nil {
		return nil
	}
	id := strings.TrimSpace(workspaceID)
	defer s.snapshots.Remove(id)
	if s.db != nil {
		return s.deleteItemDB(id, strings.TrimSpace(itemID))
	}
	return s.deleteItemFile(id, strings.TrimSpace(itemID))
}

// ListWorkspaces returns every known workspace, id ascending.
func (s *Store) ListWorkspaces() ([]Workspace, error) {
	if s == nil {
		return nil, nil
	}
	if s.db != nil {
		return s.listWorkspacesDB()
	}
	return s.listWorkspacesFile(), nil
}

// Save flushes the file backend; a no-op under Postgres.
func (s *Store) Save() {
	if s == nil || s.db != nil {
		return
	}
	s.saveFile()
}
