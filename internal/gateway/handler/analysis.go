package handler

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"pathfinder/internal/gateway/repository/workspace"
	"pathfinder/internal/gateway/service/analysis"
)

// AnalysisHandler serves dependency-graph analysis reports. The engine never
// sees HTTP; status-code mapping happens here.
type AnalysisHandler struct {
	svc *analysis.Service
}

func NewAnalysisHandler(svc *analysis.Service) *AnalysisHandler {
	return &AnalysisHandler{svc: svc}
}

func (h *AnalysisHandler) HandleAnalysis(w http.ResponseWriter, r *http.Request) {
	workspaceID := strings.TrimSpace(r.PathValue("id"))
	if workspaceID == "" {
		writeError(w, http.StatusBadRequest, "workspace id is required")
		return
	}

	report, err := h.svc.Report(r.Context(), workspaceID)
	if err != nil {
		switch {
		case errors.Is(err, workspace.ErrNotFound):
			writeError(w, http.StatusNotFound, "workspace not found")
		case errors.Is(err, analysis.ErrComputationTimeout):
			writeError(w, http.StatusGatewayTimeout, "analysis exceeded its computation budget; retry with a reduced scope")
		default:
			log.Printf("analysis for workspace %s failed: %v", workspaceID, err)
			writeError(w, http.StatusInternalServerError, "analysis failed")
		}
		return
	}

	writeJSON(w, http.StatusOK, report)
}
