package analysis

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"pathfinder/internal/cache/memory"
	"pathfinder/internal/depgraph"
	"pathfinder/internal/gateway/repository/workspace"
)

// ErrComputationTimeout is returned when an oversized graph exceeds the
// configured wall-clock budget. Callers can retry with a reduced scope.
var ErrComputationTimeout = errors.New("analysis exceeded its computation budget")

// SnapshotSource supplies the raw records for one workspace. Satisfied by
// *workspace.Store.
type SnapshotSource interface {
	Snapshot(workspaceID string) (workspace.Snapshot, error)
}

// Config tunes the service around the engine. The engine itself stays pure;
// budgets, caching and request collapsing all live here.
type Config struct {
	// CacheEntries and CacheTTL bound the report memoization cache.
	CacheEntries int
	CacheTTL     time.Duration

	// EdgeBudget is the ordering-edge count above which the wall-clock
	// budget applies. The engine is O(V+E), so this is a safety net for
	// pathological inputs, not a correctness requirement.
	EdgeBudget int
	TimeBudget time.Duration

	Weights depgraph.Weights
}

// DefaultConfig returns the standard service tuning.
func DefaultConfig() Config {
	return Config{
		CacheEntries: 256,
		CacheTTL:     30 * time.Second,
		EdgeBudget:   5000,
		TimeBudget:   10 * time.Second,
		Weights:      depgraph.DefaultWeights(),
	}
}

// Service computes dependency-graph analysis reports for workspaces.
type Service struct {
	source  SnapshotSource
	cfg     Config
	reports *memory.LRUTTL[string, *depgraph.Report]
	group   singleflight.Group
}

func New(source SnapshotSource, cfg Config) *Service {
	if cfg.CacheEntries <= 0 {
		cfg.CacheEntries = 256
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 30 * time.Second
	}
	if cfg.EdgeBudget <= 0 {
		cfg.EdgeBudget = 5000
	}
	if cfg.TimeBudget <= 0 {
		cfg.TimeBudget = 10 * time.Second
	}
	zero := depgraph.Weights{}
	if cfg.Weights == zero {
		cfg.Weights = depgraph.DefaultWeights()
	}
	return &Service{
		source:  source,
		cfg:     cfg,
		reports: memory.NewLRUTTL[string, *depgraph.Report](cfg.CacheEntries, cfg.CacheTTL),
	}
}

// Report returns the analysis report for a workspace, from cache when fresh.
// Concurrent requests for the same workspace collapse into one computation.
func (s *Service) Report(ctx context.Context, workspaceID string) (*depgraph.Report, error) {
	if r, ok := s.reports.Get(workspaceID); ok {
		return r, nil
	}
	v, err, _ := s.group.Do(workspaceID, func() (any, error) {
		return s.compute(ctx, workspaceID)
	})
	if err != nil {
		return nil, err
	}
	return v.(*depgraph.Report), nil
}

// Refresh recomputes from a fresh snapshot, ignoring any cached report.
func (s *Service) Refresh(ctx context.Context, workspaceID string) (*depgraph.Report, error) {
	s.reports.Delete(workspaceID)
	return s.Report(ctx, workspaceID)
}

func (s *Service) compute(ctx context.Context, workspaceID string) (*depgraph.Report, error) {
	snap, err := s.source.Snapshot(workspaceID)
	if err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	started := time.Now()
	log.Printf("analysis %s: workspace %s: %d items, %d connections",
		runID, workspaceID, len(snap.Items), len(snap.Connections))

	var report *depgraph.Report
	if orderingEdgeCount(snap.Connections) > s.cfg.EdgeBudget {
		report, err = s.computeBudgeted(ctx, snap)
	} else {
		report, err = depgraph.AnalyzeWithWeights(snap.Items, snap.Connections, s.cfg.Weights)
	}
	if err != nil {
		return nil, fmt.Errorf("analysis %s: %w", runID, err)
	}

	log.Printf("analysis %s: done in %s (health %.0f, cycles %d)",
		runID, time.Since(started).Round(time.Millisecond), report.HealthScore, report.TotalCycles)

	s.reports.Set(workspaceID, report)
	return report, nil
}

// orderingEdgeCount counts the directed ordering edges the engine will walk,
// before the graph is built. Bidirectional connections count twice.
func orderingEdgeCount(conns []depgraph.Connection) int {
	n := 0
	for _, c := range conns {
		if !c.Active() || !c.ConnectionType.Ordering() {
			continue
		}
		n++
		if c.IsBidirectional {
			n++
		}
	}
	return n
}

type computeResult struct {
	report *depgraph.Report
	err    error
}

// computeBudgeted runs the engine under the wall-clock budget. The engine has
// no cancellation points, so on timeout the abandoned run finishes in the
// background and its result is discarded.
func (s *Service) computeBudgeted(ctx context.Context, snap workspace.Snapshot) (*depgraph.Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	done := make(chan computeResult, 1)
	go func() {
		r, err := depgraph.AnalyzeWithWeights(snap.Items, snap.Connections, s.cfg.Weights)
		done <- computeResult{report: r, err: err}
	}()

	timer := time.NewTimer(s.cfg.TimeBudget)
	defer timer.Stop()

	select {
	case res := <-done:
		return res.report, res.err
	case <-timer.C:
		return nil, ErrComputationTimeout
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
