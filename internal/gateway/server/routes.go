package server

import (
	"net/http"

	"pathfinder/internal/gateway/handler"
	"pathfinder/internal/gateway/middleware"
)

func NewMux(
	analysisHandler *handler.AnalysisHandler,
	workspaceHandler *handler.WorkspaceHandler,
	watchHandler *handler.WatchHandler,
) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /v1/workspaces", workspaceHandler.HandleList)
	mux.HandleFunc("PUT /v1/workspaces/{id}", workspaceHandler.HandlePut)
	mux.HandleFunc("PUT /v1/workspaces/{id}/items/{itemId}", workspaceHandler.HandlePutItem)
	mux.HandleFunc("DELETE /v1/workspaces/{id}/items/{itemId}", workspaceHandler.HandleDeleteItem)
	mux.HandleFunc("PUT /v1/workspaces/{id}/connections/{connId}", workspaceHandler.HandlePutConnection)

	mux.HandleFunc("GET /v1/workspaces/{id}/analysis", analysisHandler.HandleAnalysis)
	mux.HandleFunc("GET /v1/workspaces/{id}/analysis/watch", watchHandler.HandleWatch)

	return middleware.CORS(mux)
}
