package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"pathfinder/internal/depgraph"
	"pathfinder/internal/gateway/repository/workspace"
)

// WorkspaceHandler serves the record-management endpoints the dashboard uses
// to feed the analysis engine.
type WorkspaceHandler struct {
	store *workspace.Store
}

func NewWorkspaceHandler(store *workspace.Store) *WorkspaceHandler {
	return &WorkspaceHandler{store: store}
}

func (h *WorkspaceHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	list, err := h.store.ListWorkspaces()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "list workspaces failed")
		return
	}
	if list == nil {
		list = []workspace.Workspace{}
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *WorkspaceHandler) HandlePut(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.PathValue("id"))
	if id == "" {
		writeError(w, http.StatusBadRequest, "workspace id is required")
		return
	}
	var body struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.store.PutWorkspace(workspace.Workspace{ID: id, Name: body.Name}); err != nil {
		writeError(w, http.StatusInternalServerError, "store workspace failed")
		return
	}
	writeJSON(w, http.StatusOK, workspace.Workspace{ID: id, Name: body.Name})
}

func (h *WorkspaceHandler) HandlePutItem(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.PathValue("id"))
	itemID := strings.TrimSpace(r.PathValue("itemId"))
	if id == "" || itemID == "" {
		writeError(w, http.StatusBadRequest, "workspace id and item id are required")
		return
	}
	var item depgraph.WorkItem
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	item.ID = itemID
	if !item.Status.Valid() {
		writeError(w, http.StatusBadRequest, "unknown item status")
		return
	}
	if err := h.store.PutItem(id, item); err != nil {
		if errors.Is(err, workspace.ErrNotFound) {
			writeError(w, http.StatusNotFound, "workspace not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "store item failed")
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *WorkspaceHandler) HandleDeleteItem(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.PathValue("id"))
	itemID := strings.TrimSpace(r.PathValue("itemId"))
	if id == "" || itemID == "" {
		writeError(w, http.StatusBadRequest, "workspace id and item id are required")
		return
	}
	if err := h.store.DeleteItem(id, itemID); err != nil {
		if errors.Is(err, workspace.ErrNotFound) {
			writeError(w, http.StatusNotFound, "workspace not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "delete item failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *WorkspaceHandler) HandlePutConnection(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.PathValue("id"))
	connID := strings.TrimSpace(r.PathValue("connId"))
	if id == "" || connID == "" {
		writeError(w, http.StatusBadRequest, "workspace id and connection id are required")
		return
	}
	var conn depgraph.Connection
	if err := json.NewDecoder(r.Body).Decode(&conn); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	conn.ID = connID
	if !conn.ConnectionType.Valid() {
		writeError(w, http.StatusBadRequest, "unknown connection type")
		return
	}
	if conn.SourceItemID == "" || conn.TargetItemID == "" {
		writeError(w, http.StatusBadRequest, "connection endpoints are required")
		return
	}
	if err := h.store.PutConnection(id, conn); err != nil {
		if errors.Is(err, workspace.ErrNotFound) {
			writeError(w, http.StatusNotFound, "workspace not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "store connection failed")
		return
	}
	writeJSON(w, http.StatusOK, conn)
}
