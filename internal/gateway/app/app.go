package app

import (
	"context"
	"fmt"

	"pathfinder/internal/gateway/config"
	"pathfinder/internal/gateway/handler"
	"pathfinder/internal/gateway/repository/workspace"
	"pathfinder/internal/gateway/server"
	"pathfinder/internal/gateway/service/analysis"
)

type App struct {
	server *server.Server
	store  *workspace.Store
}

func New() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Dependencies
	store := workspace.NewFromEnv(cfg.Analysis.StorePath)
	analysisSvc := analysis.New(store, analysis.Config{
		CacheEntries: cfg.Analysis.CacheEntries,
		CacheTTL:     cfg.Analysis.CacheTTL,
		EdgeBudget:   cfg.Analysis.EdgeBudget,
		TimeBudget:   cfg.Analysis.TimeBudget,
		Weights:      cfg.Analysis.Weights,
	})

	analysisHandler := handler.NewAnalysisHandler(analysisSvc)
	workspaceHandler := handler.NewWorkspaceHandler(store)
	watchHandler := handler.NewWatchHandler(analysisSvc)

	// Routing & Server
	mux := server.NewMux(analysisHandler, workspaceHandler, watchHandler)
	srv := server.New(cfg.Port, mux)

	return &App{
		server: srv,
		store:  store,
	}, nil
}

func (a *App) Start() error {
	return a.server.Start()
}

func (a *App) Shutdown(ctx context.Context) error {
	a.store.Save()
	return a.server.Shutdown(ctx)
}
