package paging

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/log"
)

// Keyed is a query that can name itself. Queries with equal fingerprints
// are treated as the same sequence.
type Keyed interface {
	Fingerprint() string
}

// Page is one fetched page. Next is the index of the following page, or 0
// at the end of the sequence.
type Page[T any] struct {
	Index int
	Items []T
	Next  int
}

// HasNext reports whether another page follows.
func (p Page[T]) HasNext() bool {
	return p.Next > 0
}

// FetchFunc loads page index (1-based) for q.
type FetchFunc[Q Keyed, T any] func(ctx context.Context, q Q, index int) (Page[T], error)

// FetchError records a failed page fetch so it can be retried verbatim.
type FetchError struct {
	Fingerprint string
	Index       int
	Err         error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch page %d: %v", e.Index, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// State is a copy of the controller's observable state.
type State[T any] struct {
	Fingerprint string
	Items       []T
	Pages       int
	HasMore     bool
	Loading     bool
	Err         *FetchError
}

type options struct {
	logger *log.Logger
}

// Option customizes a Controller.
type Option func(*options)

// WithLogger routes fetch diagnostics to logger.
func WithLogger(logger *log.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// Controller retrieves pages of T for one query at a time. At most one
// fetch is in flight; pages are appended in index order; changing the
// query discards everything and drops late results for the old one.
type Controller[Q Keyed, T any] struct {
	fetch  FetchFunc[Q, T]
	logger *log.Logger

	mu          sync.Mutex
	query       Q
	hasQuery    bool
	closed      bool
	fingerprint string
	pages       []Page[T]
	generation  uint64
	loading     bool
	err         *FetchError
	cancel      context.CancelFunc
	seq         uint64

	wg sync.WaitGroup

	subMu     sync.Mutex
	subs      map[int]func(State[T])
	nextSub   int
	delivered uint64
}

// New returns a controller with no query.
func New[Q Keyed, T any](fetch FetchFunc[Q, T], opts ...Option) *Controller[Q, T] {
	o := options{logger: log.New(io.Discard)}
	for _, opt := range opts {
		opt(&o)
	}
	return &Controller[Q, T]{
		fetch:  fetch,
		logger: o.logger,
		subs:   make(map[int]func(State[T])),
	}
}

// Reset switches to q. When q's fingerprint matches the current one
// nothing happens and Reset returns false. Otherwise all pages, errors and
// the in-flight fetch are dropped and, when seed is non-nil, it becomes
// page 1 without a fetch.
func (c *Controller[Q, T]) Reset(q Q, seed *Page[T]) bool {
	fp := q.Fingerprint()

	c.mu.Lock()
	if c.hasQuery && fp == c.fingerprint {
		c.mu.Unlock()
		return false
	}
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.generation++
	c.query = q
	c.hasQuery = true
	c.fingerprint = fp
	c.pages = nil
	c.loading = false
	c.err = nil
	if seed != nil {
		first := *seed
		first.Index = 1
		first.Items = append([]T(nil), seed.Items...)
		c.pages = []Page[T]{c.contiguous(first)}
	}
	state, seq := c.snapshotLocked()
	c.mu.Unlock()

	c.logger.Debug("paging reset", "fingerprint", fp, "seeded", seed != nil)
	c.publish(state, seq)
	return true
}

// Items returns every fetched item in page order.
func (c *Controller[Q, T]) Items() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.itemsLocked()
}

// HasMore reports whether the last fetched page points at another.
func (c *Controller[Q, T]) HasMore() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hasMoreLocked()
}

// State returns a copy of the observable state.
func (c *Controller[Q, T]) State() State[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	state, _ := c.snapshotLocked()
	return state
}

// RequestNextPage starts fetching the next page: page 1 when nothing has
// been fetched, otherwise the last page's Next. It does nothing while a
// fetch is in flight, after the last page, or while an error is pending.
func (c *Controller[Q, T]) RequestNextPage(ctx context.Context) bool {
	c.mu.Lock()
	if c.closed || !c.hasQuery || c.loading || c.err != nil {
		c.mu.Unlock()
		return false
	}
	index := 1
	if n := len(c.pages); n > 0 {
		last := c.pages[n-1]
		if !last.HasNext() {
			c.mu.Unlock()
			return false
		}
		index = last.Next
	}
	c.startLocked(ctx, index)
	return true
}

// Retry re-issues the failed request for the same query and index.
func (c *Controller[Q, T]) Retry(ctx context.Context) bool {
	c.mu.Lock()
	if c.closed || c.err == nil || c.loading {
		c.mu.Unlock()
		return false
	}
	index := c.err.Index
	c.err = nil
	c.startLocked(ctx, index)
	return true
}

// Visible is the render layer's report of the last visible row. When the
// loading row just past the items (index len(items)) is on screen and
// more pages exist, the next page is requested.
func (c *Controller[Q, T]) Visible(ctx context.Context, stop int) bool {
	c.mu.Lock()
	ready := c.hasMoreLocked() && !c.loading && c.err == nil && stop >= c.countLocked()
	c.mu.Unlock()
	if !ready {
		return false
	}
	return c.RequestNextPage(ctx)
}

// Subscribe registers fn for every state change. Callbacks run on the
// goroutine that caused the change and must not call back into the
// controller.
func (c *Controller[Q, T]) Subscribe(fn func(State[T])) (cancel func()) {
	c.subMu.Lock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = fn
	c.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.subMu.Lock()
			delete(c.subs, id)
			c.subMu.Unlock()
		})
	}
}

// Wait blocks until every started fetch has returned.
func (c *Controller[Q, T]) Wait() {
	c.wg.Wait()
}

// Close cancels the in-flight fetch and waits for it. No fetch starts
// after Close.
func (c *Controller[Q, T]) Close() {
	c.mu.Lock()
	c.closed = true
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.generation++
	c.loading = false
	c.mu.Unlock()
	c.wg.Wait()
}

// startLocked launches the fetch for index and releases c.mu.
func (c *Controller[Q, T]) startLocked(ctx context.Context, index int) {
	fetchCtx, cancel := context.WithCancel(ctx)
	c.loading = true
	c.cancel = cancel
	gen := c.generation
	q := c.query
	fp := c.fingerprint
	state, seq := c.snapshotLocked()
	c.wg.Add(1)
	c.mu.Unlock()

	c.publish(state, seq)
	go c.run(fetchCtx, cancel, gen, q, fp, index)
}

func (c *Controller[Q, T]) run(ctx context.Context, cancel context.CancelFunc, gen uint64, q Q, fp string, index int) {
	defer c.wg.Done()
	defer cancel()

	page, err := c.fetch(ctx, q, index)

	c.mu.Lock()
	if gen != c.generation {
		c.mu.Unlock()
		c.logger.Debug("dropping stale page", "fingerprint", fp, "index", index)
		return
	}
	c.loading = false
	c.cancel = nil
	if err != nil {
		c.err = &FetchError{Fingerprint: fp, Index: index, Err: err}
		c.logger.Warn("page fetch failed", "fingerprint", fp, "index", index, "err", err)
	} else {
		page.Index = index
		c.pages = append(c.pages, c.contiguous(page))
	}
	state, seq := c.snapshotLocked()
	c.mu.Unlock()

	c.publish(state, seq)
}

// contiguous ends the sequence at p unless its Next is the following
// index. Pages are only ever appended as Index+1, so any other pointer
// would refetch a page or leave a gap.
func (c *Controller[Q, T]) contiguous(p Page[T]) Page[T] {
	if p.Next != 0 && p.Next != p.Index+1 {
		c.logger.Warn("page next is not contiguous, treating as last", "index", p.Index, "next", p.Next)
		p.Next = 0
	}
	return p
}

func (c *Controller[Q, T]) hasMoreLocked() bool {
	n := len(c.pages)
	return n > 0 && c.pages[n-1].HasNext()
}

func (c *Controller[Q, T]) countLocked() int {
	total := 0
	for _, p := range c.pages {
		total += len(p.Items)
	}
	return total
}

func (c *Controller[Q, T]) itemsLocked() []T {
	out := make([]T, 0, c.countLocked())
	for _, p := range c.pages {
		out = append(out, p.Items...)
	}
	return out
}

func (c *Controller[Q, T]) snapshotLocked() (State[T], uint64) {
	c.seq++
	return State[T]{
		Fingerprint: c.fingerprint,
		Items:       c.itemsLocked(),
		Pages:       len(c.pages),
		HasMore:     c.hasMoreLocked(),
		Loading:     c.loading,
		Err:         c.err,
	}, c.seq
}

func (c *Controller[Q, T]) publish(state State[T], seq uint64) {
	c.subMu.Lock()
	defer c.subMu.Unlock()
	if seq <= c.delivered {
		return
	}
	c.delivered = seq
	for _, fn := range c.subs {
		fn(state)
	}
}
