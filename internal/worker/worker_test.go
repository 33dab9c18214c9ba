package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/theirongolddev/claimsdash/internal/api"
	"github.com/theirongolddev/claimsdash/internal/claim"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeLister struct {
	mu    sync.Mutex
	calls [][2]int
	err   error
	block chan struct{}
}

func (f *fakeLister) ListClaims(ctx context.Context, start, limit int) ([]claim.Claim, error) {
	f.mu.Lock()
	f.calls = append(f.calls, [2]int{start, limit})
	f.mu.Unlock()

	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	out := make([]claim.Claim, 0, 3)
	for i := 0; i < 3; i++ {
		out = append(out, claim.Claim{ID: int64(start + i), Amount: "10", ProcessingFee: "1"})
	}
	return out, nil
}

func startWorker(t *testing.T, src Lister) *Worker {
	t.Helper()
	w := New(src, nil)
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(stopped)
	}()
	t.Cleanup(func() {
		cancel()
		<-stopped
	})
	return w
}

func recv(t *testing.T, ch <-chan Response) Response {
	t.Helper()
	select {
	case r := <-ch:
		return r
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for worker response")
		return nil
	}
}

func TestInitialLoad(t *testing.T) {
	src := &fakeLister{}
	w := startWorker(t, src)

	resp := recv(t, w.Submit(Request{Kind: InitialLoad, Start: 500, Gen: 7}))
	loaded, ok := resp.(Loaded)
	require.True(t, ok, "got %T", resp)
	assert.Equal(t, InitialLoad, loaded.Kind)
	assert.Equal(t, 0, loaded.Start, "initial load always starts at zero")
	assert.Equal(t, PageSize, loaded.Limit)
	assert.Equal(t, uint64(7), loaded.Gen)
	require.Len(t, loaded.Claims, 3)
	assert.Equal(t, "$11.00", loaded.Claims[0].FormattedTotalAmount)
}

func TestChunkLoad(t *testing.T) {
	src := &fakeLister{}
	w := startWorker(t, src)

	resp := recv(t, w.Submit(Request{Kind: ChunkLoad, Start: 2000, Limit: 1000}))
	loaded := resp.(Loaded)
	assert.Equal(t, 2000, loaded.Start)
	assert.Equal(t, int64(2000), loaded.Claims[0].ID)

	src.mu.Lock()
	defer src.mu.Unlock()
	assert.Equal(t, [][2]int{{2000, 1000}}, src.calls)
}

func TestFailed(t *testing.T) {
	src := &fakeLister{err: fmt.Errorf("wrapped: %w", api.ErrServer)}
	w := startWorker(t, src)

	resp := recv(t, w.Submit(Request{Kind: ChunkLoad, Start: 1000, Limit: 1000, Gen: 3}))
	failed, ok := resp.(Failed)
	require.True(t, ok, "got %T", resp)
	assert.Equal(t, ChunkLoad, failed.Kind)
	assert.Equal(t, 1000, failed.Start)
	assert.Equal(t, uint64(3), failed.Gen)
	assert.Contains(t, failed.Message, "Failed to load chunk")
	assert.ErrorIs(t, failed.Err, api.ErrServer)
}

func TestConcurrentRequests(t *testing.T) {
	src := &fakeLister{block: make(chan struct{})}
	w := startWorker(t, src)

	a := w.Submit(Request{Kind: ChunkLoad, Start: 0, Limit: 10})
	b := w.Submit(Request{Kind: ChunkLoad, Start: 10, Limit: 10})

	// Both requests are in flight before either completes.
	require.Eventually(t, func() bool {
		src.mu.Lock()
		defer src.mu.Unlock()
		return len(src.calls) == 2
	}, time.Second, 5*time.Millisecond)

	close(src.block)
	assert.IsType(t, Loaded{}, recv(t, a))
	assert.IsType(t, Loaded{}, recv(t, b))
}

func TestSubmitAfterStop(t *testing.T) {
	w := New(&fakeLister{}, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	w.Run(ctx)

	resp := recv(t, w.Submit(Request{Kind: RefreshAll}))
	failed, ok := resp.(Failed)
	require.True(t, ok)
	assert.True(t, errors.Is(failed.Err, ErrStopped))
}

func TestCancelAbortsInFlight(t *testing.T) {
	src := &fakeLister{block: make(chan struct{})}
	w := New(src, nil)
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(stopped)
	}()

	reply := w.Submit(Request{Kind: InitialLoad})
	cancel()
	<-stopped

	failed, ok := recv(t, reply).(Failed)
	require.True(t, ok)
	assert.ErrorIs(t, failed.Err, context.Canceled)
}

func TestCmd(t *testing.T) {
	w := startWorker(t, &fakeLister{})
	msg := w.Cmd(Request{Kind: RefreshAll, Gen: 9})()
	loaded, ok := msg.(Loaded)
	require.True(t, ok)
	assert.Equal(t, RefreshAll, loaded.Kind)
	assert.Equal(t, uint64(9), loaded.Gen)
}
