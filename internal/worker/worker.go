// Package worker loads and formats claim pages off the UI goroutine.
//
// Callers submit a Request and receive exactly one Response: Loaded on
// success or Failed otherwise. Requests are independent; the worker keeps
// no state between them and may serve several at once.
package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/theirongolddev/claimsdash/internal/api"
	"github.com/theirongolddev/claimsdash/internal/claim"
)

// PageSize is the number of claims fetched per request.
const PageSize = 1000

// ErrStopped is returned for requests submitted after the worker exited.
var ErrStopped = errors.New("worker: stopped")

// Kind identifies what a request asked for.
type Kind int

const (
	InitialLoad Kind = iota
	ChunkLoad
	RefreshAll
)

func (k Kind) String() string {
	switch k {
	case InitialLoad:
		return "initial-load"
	case ChunkLoad:
		return "chunk-load"
	case RefreshAll:
		return "refresh-all"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Request asks the worker for one page. Start and Limit are only read for
// ChunkLoad; the other kinds always fetch the first page. Gen is echoed
// back so callers can drop stale answers.
type Request struct {
	Kind  Kind
	Start int
	Limit int
	Gen   uint64
}

// Response is either Loaded or Failed.
type Response interface {
	response()
}

// Loaded carries a formatted page.
type Loaded struct {
	Kind   Kind
	Start  int
	Limit  int
	Gen    uint64
	Claims []claim.FormattedClaim
}

// Failed reports why a request could not be served.
type Failed struct {
	Kind    Kind
	Start   int
	Gen     uint64
	Message string
	Err     error
}

func (Loaded) response() {}
func (Failed) response() {}

// Lister fetches raw claims.
type Lister interface {
	ListClaims(ctx context.Context, start, limit int) ([]claim.Claim, error)
}

type job struct {
	req   Request
	reply chan Response
}

// Worker serves Requests from a channel.
type Worker struct {
	src  Lister
	log  *zap.Logger
	now  func() time.Time
	jobs chan job
	done chan struct{}
	wg   sync.WaitGroup
}

// New creates a worker reading from src.
func New(src Lister, log *zap.Logger) *Worker {
	if log == nil {
		log = zap.NewNop()
	}
	return &Worker{
		src:  src,
		log:  log,
		now:  time.Now,
		jobs: make(chan job),
		done: make(chan struct{}),
	}
}

// Run serves requests until ctx is cancelled, then waits for in-flight
// requests to finish.
func (w *Worker) Run(ctx context.Context) {
	defer close(w.done)
	defer w.wg.Wait()

	for {
		select {
		case <-ctx.Done():
			return
		case j := <-w.jobs:
			w.wg.Add(1)
			go func() {
				defer w.wg.Done()
				j.reply <- w.serve(ctx, j.req)
			}()
		}
	}
}

// Submit queues req and returns the channel its single Response arrives on.
func (w *Worker) Submit(req Request) <-chan Response {
	reply := make(chan Response, 1)
	select {
	case w.jobs <- job{req: req, reply: reply}:
	case <-w.done:
		reply <- Failed{Kind: req.Kind, Start: req.Start, Gen: req.Gen, Message: ErrStopped.Error(), Err: ErrStopped}
	}
	return reply
}

// Cmd wraps Submit as a Bubble Tea command whose message is the Response.
func (w *Worker) Cmd(req Request) tea.Cmd {
	return func() tea.Msg {
		return <-w.Submit(req)
	}
}

func (w *Worker) serve(ctx context.Context, req Request) Response {
	start, limit := 0, PageSize
	if req.Kind == ChunkLoad {
		start, limit = req.Start, req.Limit
		if limit <= 0 {
			limit = PageSize
		}
	}

	log := w.log.With(
		zap.Stringer("kind", req.Kind),
		zap.Int("start", start),
		zap.Int("limit", limit),
		zap.Uint64("gen", req.Gen),
	)

	raw, err := w.src.ListClaims(ctx, start, limit)
	if err != nil {
		log.Warn("load failed", zap.Error(err))
		return Failed{
			Kind:    req.Kind,
			Start:   start,
			Gen:     req.Gen,
			Message: failureMessage(req.Kind, err),
			Err:     err,
		}
	}

	log.Debug("loaded", zap.Int("claims", len(raw)))
	return Loaded{
		Kind:   req.Kind,
		Start:  start,
		Limit:  limit,
		Gen:    req.Gen,
		Claims: claim.FormatAll(raw, w.now()),
	}
}

func failureMessage(k Kind, err error) string {
	var what string
	switch k {
	case InitialLoad:
		what = "load initial claims"
	case ChunkLoad:
		what = "load chunk"
	default:
		what = "refresh claims"
	}
	if kind := api.Classify(err); kind == api.KindAuth {
		return fmt.Sprintf("Failed to %s: %s", what, kind.Title())
	}
	return fmt.Sprintf("Failed to %s: %v", what, err)
}
