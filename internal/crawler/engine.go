package crawler

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/grobinson/webminer/internal/urlutil"
)

// idleGrace is how long a worker sleeps when the frontier is empty but
// other workers may still contribute links.
const idleGrace = 100 * time.Millisecond

// Engine drives a bounded breadth-first crawl of a single origin.
type Engine struct {
	opts    Options
	origin  string
	fetcher Fetcher
	sink    Sink
	logger  *zap.Logger

	mu       sync.Mutex
	frontier []string
	visited  map[string]struct{}
	inFlight int

	downloaded atomic.Int64
	stop       atomic.Bool
}

// NewEngine builds an engine seeded with seedURL. The seed's origin
// scopes which discovered links are followed.
func NewEngine(seedURL string, opts Options, fetcher Fetcher, sink Sink, logger *zap.Logger) (*Engine, error) {
	origin := urlutil.Origin(seedURL)
	if origin == "" {
		return nil, fmt.Errorf("seed %q has no http origin", seedURL)
	}
	e := &Engine{
		opts:     opts.withDefaults(),
		origin:   origin,
		fetcher:  fetcher,
		sink:     sink,
		logger:   logger,
		frontier: []string{seedURL},
		visited:  map[string]struct{}{seedURL: {}},
	}
	return e, nil
}

// Crawl runs workers until the budget fills, the frontier drains, or
// ctx is canceled. It returns the number of pages persisted.
func (e *Engine) Crawl(ctx context.Context) (int, error) {
	var wg sync.WaitGroup
	for i := 0; i < e.opts.Threads; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			e.work(ctx)
		}()
	}
	wg.Wait()
	if err := ctx.Err(); err != nil {
		return int(e.downloaded.Load()), err
	}
	return int(e.downloaded.Load()), nil
}

// Downloaded returns how many pages have been persisted so far.
func (e *Engine) Downloaded() int {
	return int(e.downloaded.Load())
}

// Visited returns a copy of the visited set.
func (e *Engine) Visited() map[string]struct{} {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make(map[string]struct{}, len(e.visited))
	for u := range e.visited {
		out[u] = struct{}{}
	}
	return out
}

func (e *Engine) work(ctx context.Context) {
	for {
		if e.stop.Load() || ctx.Err() != nil {
			return
		}
		if e.budgetReached() {
			e.stop.Store(true)
			return
		}

		url, ok, drained := e.next()
		if drained {
			e.stop.Store(true)
			return
		}
		if !ok {
			time.Sleep(idleGrace)
			continue
		}

		e.handle(url)
		e.done()
	}
}

// next pops the frontier head. drained is true once the frontier is
// empty and no worker can still contribute links.
func (e *Engine) next() (url string, ok, drained bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.frontier) == 0 {
		return "", false, e.inFlight == 0
	}
	url = e.frontier[0]
	e.frontier = e.frontier[1:]
	e.inFlight++
	frontierDepth.Set(float64(len(e.frontier)))
	return url, true, false
}

func (e *Engine) done() {
	e.mu.Lock()
	e.inFlight--
	e.mu.Unlock()
}

func (e *Engine) budgetReached() bool {
	return e.opts.MaxPages >= 0 && e.downloaded.Load() >= int64(e.opts.MaxPages)
}

// handle fetches, persists, and expands one URL. Failed or empty
// fetches are dropped without touching the budget.
func (e *Engine) handle(url string) {
	body, err := e.fetcher.Fetch(url)
	if err != nil {
		fetchErrors.Inc()
		e.logger.Warn("fetch failed", zap.String("url", url), zap.Error(err))
		return
	}
	if len(body) == 0 {
		e.logger.Warn("empty body dropped", zap.String("url", url))
		return
	}

	e.downloaded.Add(1)
	pagesFetched.Inc()

	if _, err := e.sink.Save(url, body); err != nil {
		e.logger.Error("save failed", zap.String("url", url), zap.Error(err))
	}

	e.enqueueLinks(url, body)

	if e.budgetReached() {
		e.stop.Store(true)
	}
}

// enqueueLinks extracts same-origin links from body and appends the
// unseen ones to the frontier. Marking visited and enqueueing happen
// under one lock so a URL can never be queued twice.
func (e *Engine) enqueueLinks(base string, body []byte) {
	links := ExtractLinks(body, base, e.origin)
	if len(links) == 0 {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, link := range links {
		if _, seen := e.visited[link]; seen {
			continue
		}
		e.visited[link] = struct{}{}
		e.frontier = append(e.frontier, link)
	}
	frontierDepth.Set(float64(len(e.frontier)))
}
