package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"pathfinder/internal/depgraph"
	"pathfinder/internal/gateway/repository/workspace"
	"pathfinder/internal/gateway/service/analysis"

	"github.com/gorilla/websocket"
)

// WatchHandler streams analysis reports for a workspace over a websocket.
// Clients send {"type":"refresh"} to force a recompute and receive the
// updated report as a "report" message.
type WatchHandler struct {
	svc *analysis.Service
}

func NewWatchHandler(svc *analysis.Service) *WatchHandler {
	return &WatchHandler{svc: svc}
}

const (
	watchWSWriteWait = 10 * time.Second
	watchWSPongWait  = 60 * time.Second
	watchWSPingEvery = (watchWSPongWait * 9) / 10
)

var watchWSUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(_ *http.Request) bool {
		return true
	},
}

type watchWSInbound struct {
	Type string `json:"type"`
}

type watchWSOutbound struct {
	Type        string           `json:"type"`
	WorkspaceID string           `json:"workspaceId,omitempty"`
	Report      *depgraph.Report `json:"report,omitempty"`
	Code        string           `json:"code,omitempty"`
	Message     string           `json:"message,omitempty"`
}

func (h *WatchHandler) HandleWatch(w http.ResponseWriter, r *http.Request) {
	workspaceID := strings.TrimSpace(r.PathValue("id"))
	if workspaceID == "" {
		http.Error(w, "workspace id is required", http.StatusBadRequest)
		return
	}

	conn, err := watchWSUpgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	if err := conn.SetReadDeadline(time.Now().Add(watchWSPongWait)); err != nil {
		log.Printf("analysis watch ws set read deadline failed: %v", err)
		return
	}
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(watchWSPongWait))
	})

	writeCh := make(chan watchWSOutbound, 32)
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		ticker := time.NewTicker(watchWSPingEvery)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case out := <-writeCh:
				if err := conn.SetWriteDeadline(time.Now().Add(watchWSWriteWait)); err != nil {
					return
				}
				if err := conn.WriteJSON(out); err != nil {
					return
				}
			case <-ticker.C:
				if err := conn.SetWriteDeadline(time.Now().Add(watchWSWriteWait)); err != nil {
					return
				}
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					return
				}
			}
		}
	}()

	h.pushReport(ctx, writeCh, workspaceID, false)

	for {
		var in watchWSInbound
		if err := conn.ReadJSON(&in); err != nil {
			cancel()
			<-writerDone
			return
		}
		switch strings.ToLower(strings.TrimSpace(in.Type)) {
		case "ping":
			pushWatchWS(writeCh, watchWSOutbound{Type: "pong"})
		case "report":
			h.pushReport(ctx, writeCh, workspaceID, false)
		case "refresh":
			h.pushReport(ctx, writeCh, workspaceID, true)
		default:
			pushWatchWS(writeCh, watchWSOutbound{
				Type:    "error",
				Code:    "invalid_argument",
				Message: "unsupported type: " + strings.TrimSpace(in.Type),
			})
		}
	}
}

func (h *WatchHandler) pushReport(ctx context.Context, writeCh chan watchWSOutbound, workspaceID string, refresh bool) {
	var (
		report *depgraph.Report
		err    error
	)
	if refresh {
		report, err = h.svc.Refresh(ctx, workspaceID)
	} else {
		report, err = h.svc.Report(ctx, workspaceID)
	}
	if err != nil {
		code := "internal"
		switch {
		case errors.Is(err, workspace.ErrNotFound):
			code = "not_found"
		case errors.Is(err, analysis.ErrComputationTimeout):
			code = "deadline_exceeded"
		}
		pushWatchWS(writeCh, watchWSOutbound{
			Type:        "error",
			WorkspaceID: workspaceID,
			Code:        code,
			Message:     err.Error(),
		})
		return
	}
	pushWatchWS(writeCh, watchWSOutbound{
		Type:        "report",
		WorkspaceID: workspaceID,
		Report:      report,
	})
}

func pushWatchWS(writeCh chan watchWSOutbound, out watchWSOutbound) {
	if writeCh == nil {
		return
	}
	select {
	case writeCh <- out:
		return
	default:
	}
	select {
	case <-writeCh:
	default:
	}
	select {
	case writeCh <- out:
	default:
	}
}
