package analysis

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pathfinder/internal/depgraph"
	"pathfinder/internal/gateway/repository/workspace"
)

type fakeSource struct {
	snap  workspace.Snapshot
	err   error
	delay time.Duration
	calls atomic.Int64
}

func (f *fakeSource) Snapshot(string) (workspace.Snapshot, error) {
	f.calls.Add(1)
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	return f.snap, f.err
}

func days(d float64) *float64 { return &d }

func chainSnapshot(n int) workspace.Snapshot {
	snap := workspace.Snapshot{Workspace: workspace.Workspace{ID: "ws1"}}
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		id := itemID(i)
		end := start.AddDate(0, 0, 1)
		snap.Items = append(snap.Items, depgraph.WorkItem{
			ID: id, Name: id, Status: depgraph.StatusNotStarted,
			StartDate: &start, EndDate: &end, DurationDays: days(1),
		})
		if i > 0 {
			snap.Connections = append(snap.Connections, depgraph.Connection{
				ID: "e" + id, SourceItemID: itemID(i - 1), TargetItemID: id,
				ConnectionType: depgraph.ConnDependency, Status: "active",
			})
		}
	}
	return snap
}

func itemID(i int) string {
	return string([]byte{'w', byte('a' + i/26/26%26), byte('a' + i/26%26), byte('a' + i%26)})
}

func TestService_ReportComputes(t *testing.T) {
	src := &fakeSource{snap: chainSnapshot(3)}
	svc := New(src, DefaultConfig())

	r, err := svc.Report(context.Background(), "ws1")
	require.NoError(t, err)
	assert.Equal(t, 3.0, r.ProjectDuration)
	assert.Len(t, r.CriticalPath, 3)
}

func TestService_UnknownWorkspacePassesThrough(t *testing.T) {
	src := &fakeSource{err: workspace.ErrNotFound}
	svc := New(src, DefaultConfig())

	_, err := svc.Report(context.Background(), "nope")
	assert.ErrorIs(t, err, workspace.ErrNotFound)
}

func TestService_CacheSkipsRecompute(t *testing.T) {
	src := &fakeSource{snap: chainSnapshot(2)}
	svc := New(src, DefaultConfig())

	_, err := svc.Report(context.Background(), "ws1")
	require.NoError(t, err)
	_, err = svc.Report(context.Background(), "ws1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), src.calls.Load(), "second call must hit the cache")
}

func TestService_RefreshBypassesCache(t *testing.T) {
	src := &fakeSource{snap: chainSnapshot(2)}
	svc := New(src, DefaultConfig())

	_, err := svc.Report(context.Background(), "ws1")
	require.NoError(t, err)
	_, err = svc.Refresh(context.Background(), "ws1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), src.calls.Load())
}

func TestService_SingleflightCollapsesConcurrentCalls(t *testing.T) {
	src := &fakeSource{snap: chainSnapshot(2), delay: 100 * time.Millisecond}
	svc := New(src, DefaultConfig())

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Report(context.Background(), "ws1")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.Equal(t, int64(1), src.calls.Load(), "concurrent callers must share one computation")
}

func TestService_TimeoutOnOversizedGraph(t *testing.T) {
	cfg := DefaultConfig()
	cfg.EdgeBudget = 10
	cfg.TimeBudget = time.Nanosecond
	src := &fakeSource{snap: chainSnapshot(5000)}
	svc := New(src, cfg)

	_, err := svc.Report(context.Background(), "ws1")
	assert.ErrorIs(t, err, ErrComputationTimeout)
}

func TestService_CancelledContextOnOversizedGraph(t *testing.T) {
	cfg := DefaultConfig()
	cfg.EdgeBudget = 1
	src := &fakeSource{snap: chainSnapshot(3)}
	svc := New(src, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := svc.Report(ctx, "ws1")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestService_SmallGraphIgnoresBudget(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TimeBudget = time.Nanosecond // would trip if applied
	src := &fakeSource{snap: chainSnapshot(3)}
	svc := New(src, cfg)

	_, err := svc.Report(context.Background(), "ws1")
	assert.NoError(t, err)
}
