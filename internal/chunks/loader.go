package chunks

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/theirongolddev/claimsdash/internal/claim"
	"github.com/theirongolddev/claimsdash/internal/worker"
)

// PageSize is the size of every chunk request.
const PageSize = worker.PageSize

// State is the loader's lifecycle state for full (initial or refresh) loads.
type State int

const (
	Idle State = iota
	Loading
	Loaded
	Error
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	case Error:
		return "error"
	}
	return "unknown"
}

// Fetcher loads one formatted page synchronously.
type Fetcher interface {
	Fetch(ctx context.Context, start, limit int) ([]claim.FormattedClaim, error)
}

// ListerFetcher adapts a raw claim lister into a Fetcher.
type ListerFetcher struct {
	Lister worker.Lister
	Now    func() time.Time
}

// Fetch lists and formats one page.
func (f ListerFetcher) Fetch(ctx context.Context, start, limit int) ([]claim.FormattedClaim, error) {
	raw, err := f.Lister.ListClaims(ctx, start, limit)
	if err != nil {
		return nil, err
	}
	now := time.Now
	if f.Now != nil {
		now = f.Now
	}
	return claim.FormatAll(raw, now()), nil
}

// Outcome describes what Apply did with a response.
type Outcome int

const (
	// Dropped means the response was superseded by a newer request.
	Dropped Outcome = iota
	// Applied means the response replaced the displayed claims.
	Applied
	// LoadFailed means an initial load or refresh failed.
	LoadFailed
	// ChunkFailed means a chunk load failed; the display is unchanged.
	ChunkFailed
)

// Loader owns the displayed claim page and the window of cached pages.
//
// Every request it issues carries a generation number. Only the response to
// the most recently issued request is applied; older ones are dropped so a
// slow response can never overwrite a newer one.
type Loader struct {
	fetch Fetcher
	log   *zap.Logger

	state        State
	err          error
	chunkErr     error
	hasData      bool
	chunkLoading bool
	claims       []claim.FormattedClaim
	window       Window
	gen          uint64
}

// NewLoader creates a loader. fetch may be nil when only the
// Begin/Apply API is used.
func NewLoader(fetch Fetcher, log *zap.Logger) *Loader {
	if log == nil {
		log = zap.NewNop()
	}
	return &Loader{fetch: fetch, log: log}
}

// State returns the full-load state.
func (l *Loader) State() State { return l.state }

// Err returns the last initial load or refresh error.
func (l *Loader) Err() error { return l.err }

// ChunkErr returns the last chunk load error.
func (l *Loader) ChunkErr() error { return l.chunkErr }

// HasData reports whether any page has ever been displayed.
func (l *Loader) HasData() bool { return l.hasData }

// Busy reports whether a request is outstanding.
func (l *Loader) Busy() bool { return l.state == Loading || l.chunkLoading }

// Claims returns the displayed page.
func (l *Loader) Claims() []claim.FormattedClaim { return l.claims }

// Window returns the cached pages.
func (l *Loader) Window() Window { return l.window }

// Generation returns the generation of the most recently issued request.
func (l *Loader) Generation() uint64 { return l.gen }

// CurrentStart returns the offset of the displayed page.
func (l *Loader) CurrentStart() int {
	if c, ok := l.window.Current(); ok {
		return c.Start
	}
	return 0
}

// CanLoadOlder reports whether a previous page exists.
func (l *Loader) CanLoadOlder() bool {
	return l.hasData && l.CurrentStart() > 0
}

// CanLoadMore reports whether the displayed page is full, so a next page
// may exist.
func (l *Loader) CanLoadMore() bool {
	c, ok := l.window.Current()
	return l.hasData && ok && len(c.Data) >= PageSize
}

// BeginInitial starts the first load.
func (l *Loader) BeginInitial() worker.Request {
	return l.beginFull(worker.InitialLoad)
}

// BeginRefresh reloads the first page.
func (l *Loader) BeginRefresh() worker.Request {
	return l.beginFull(worker.RefreshAll)
}

func (l *Loader) beginFull(kind worker.Kind) worker.Request {
	l.gen++
	l.state = Loading
	l.err = nil
	l.chunkLoading = false
	return worker.Request{Kind: kind, Start: 0, Limit: PageSize, Gen: l.gen}
}

// BeginChunk starts loading limit claims at start.
func (l *Loader) BeginChunk(start, limit int) worker.Request {
	l.gen++
	l.chunkLoading = true
	return worker.Request{Kind: worker.ChunkLoad, Start: start, Limit: limit, Gen: l.gen}
}

// SwitchToLoadedChunk displays the cached chunk at start and collapses the
// window to it. It reports false, changing nothing, on a cache miss.
func (l *Loader) SwitchToLoadedChunk(start int) bool {
	c, ok := l.window.Find(start)
	if !ok {
		return false
	}
	// Supersede any in-flight request.
	l.gen++
	l.chunkLoading = false
	if l.state == Loading {
		l.state = Loaded
	}
	l.window.Collapse(start)
	l.claims = c.Data
	l.log.Debug("switched to cached chunk", zap.Int("start", start))
	return true
}

// BeginOlder moves to the previous page. It switches immediately and
// returns false when that page is cached; otherwise it returns the request
// to send.
func (l *Loader) BeginOlder() (worker.Request, bool) {
	return l.beginAdjacent(max(0, l.CurrentStart()-PageSize))
}

// BeginMore moves to the next page, like BeginOlder.
func (l *Loader) BeginMore() (worker.Request, bool) {
	return l.beginAdjacent(l.CurrentStart() + PageSize)
}

func (l *Loader) beginAdjacent(start int) (worker.Request, bool) {
	if l.SwitchToLoadedChunk(start) {
		return worker.Request{}, false
	}
	return l.BeginChunk(start, PageSize), true
}

// Apply folds a worker response into the loader.
func (l *Loader) Apply(resp worker.Response) Outcome {
	switch r := resp.(type) {
	case worker.Loaded:
		if r.Gen != l.gen {
			l.log.Debug("dropping stale response", zap.Uint64("gen", r.Gen), zap.Uint64("latest", l.gen))
			return Dropped
		}
		l.applyLoaded(r.Kind, r.Start, r.Claims)
		return Applied

	case worker.Failed:
		if r.Gen != l.gen {
			l.log.Debug("dropping stale failure", zap.Uint64("gen", r.Gen), zap.Uint64("latest", l.gen))
			return Dropped
		}
		return l.applyFailed(r.Kind, r.Start, r.Err, r.Message)
	}
	return Dropped
}

func (l *Loader) applyLoaded(kind worker.Kind, start int, data []claim.FormattedClaim) {
	l.claims = data
	l.hasData = true
	l.state = Loaded
	l.chunkLoading = false
	if kind == worker.ChunkLoad {
		l.chunkErr = nil
		l.window.Put(NewChunk(start, data))
		return
	}
	l.err = nil
	l.window.Reset(NewChunk(0, data))
}

func (l *Loader) applyFailed(kind worker.Kind, start int, err error, msg string) Outcome {
	if err == nil {
		err = errors.New(msg)
	}
	if kind == worker.ChunkLoad {
		l.chunkLoading = false
		l.chunkErr = err
		if l.state == Loading {
			l.state = Loaded
		}
		l.log.Warn("chunk load failed", zap.Int("start", start), zap.Error(err))
		return ChunkFailed
	}
	l.state = Error
	l.err = err
	l.log.Warn("load failed", zap.Stringer("kind", kind), zap.Error(err))
	return LoadFailed
}

// LoadInitial fetches the first page synchronously.
func (l *Loader) LoadInitial(ctx context.Context) error {
	l.run(ctx, l.BeginInitial())
	return l.err
}

// Refresh reloads the first page synchronously.
func (l *Loader) Refresh(ctx context.Context) error {
	l.run(ctx, l.BeginRefresh())
	return l.err
}

// LoadChunkForRange fetches limit claims at start synchronously. On
// failure the display is unchanged and nil is returned.
func (l *Loader) LoadChunkForRange(ctx context.Context, start, limit int) []claim.FormattedClaim {
	if l.run(ctx, l.BeginChunk(start, limit)) != Applied {
		return nil
	}
	return l.claims
}

// LoadOlder shows the previous page, fetching it only when not cached.
func (l *Loader) LoadOlder(ctx context.Context) Outcome {
	req, fetch := l.BeginOlder()
	if !fetch {
		return Applied
	}
	return l.run(ctx, req)
}

// LoadMore shows the next page, fetching it only when not cached.
func (l *Loader) LoadMore(ctx context.Context) Outcome {
	req, fetch := l.BeginMore()
	if !fetch {
		return Applied
	}
	return l.run(ctx, req)
}

func (l *Loader) run(ctx context.Context, req worker.Request) Outcome {
	if l.fetch == nil {
		return l.Apply(worker.Failed{Kind: req.Kind, Start: req.Start, Gen: req.Gen, Message: "no fetcher configured"})
	}
	data, err := l.fetch.Fetch(ctx, req.Start, req.Limit)
	if err != nil {
		return l.Apply(worker.Failed{Kind: req.Kind, Start: req.Start, Gen: req.Gen, Message: err.Error(), Err: err})
	}
	return l.Apply(worker.Loaded{Kind: req.Kind, Start: req.Start, Limit: req.Limit, Gen: req.Gen, Claims: data})
}
