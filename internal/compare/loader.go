package compare

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/golang/groupcache/lru"
	"golang.org/x/sync/errgroup"

	"github.com/five82/liftoff/internal/spacex"
)

const (
	defaultTTL = time.Minute
	cachePairs = 32
)

// Source is the part of the API client the loader needs.
type Source interface {
	GetLaunch(ctx context.Context, id string) (*spacex.Launch, error)
	GetRocket(ctx context.Context, id string) (*spacex.Rocket, error)
	GetLaunchpad(ctx context.Context, id string) (*spacex.Launchpad, error)
}

// Side is one launch in a comparison.
type Side struct {
	LaunchID   string
	Name       string
	DateUTC    string
	Success    *bool
	RocketName string
	PadName    string
	Wikipedia  string
	Webcast    string
	Article    string
}

// Date parses DateUTC.
func (s Side) Date() time.Time {
	return spacex.Launch{DateUTC: s.DateUTC}.Date()
}

// Outcome labels the launch result.
func (s Side) Outcome() string {
	return spacex.Launch{Success: s.Success}.Outcome()
}

// Result pairs two loaded launches.
type Result struct {
	Left  Side
	Right Side
}

// State is a copy of the loader's observable state.
type State struct {
	Left    string
	Right   string
	Active  bool
	Loading bool
	Result  *Result
	Err     error
}

type cacheEntry struct {
	result  *Result
	expires time.Time
}

func (l *Loader) cached(key [2]string) (*Result, bool) {
	v, ok := l.cache.Get(key)
	if !ok {
		return nil, false
	}
	hit := v.(cacheEntry)
	if !l.now().Before(hit.expires) {
		l.cache.Remove(key)
		return nil, false
	}
	return hit.result, true
}

// Loader fetches launch pairs for side-by-side comparison. Only the most
// recently submitted pair may change state; answers for older submissions
// are dropped.
type Loader struct {
	source Source
	logger *log.Logger
	ttl    time.Duration
	now    func() time.Time

	mu     sync.Mutex
	token  uint64
	cancel context.CancelFunc
	state  State
	cache  *lru.Cache
	seq    uint64
	wg     sync.WaitGroup

	subMu     sync.Mutex
	subs      map[int]func(State)
	nextSub   int
	delivered uint64
}

// Option customizes a Loader.
type Option func(*Loader)

// WithLogger routes load failures to logger.
func WithLogger(logger *log.Logger) Option {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithTTL sets how long a loaded pair is reused.
func WithTTL(d time.Duration) Option {
	return func(l *Loader) {
		if d > 0 {
			l.ttl = d
		}
	}
}

// WithClock overrides the clock used for cache expiry.
func WithClock(now func() time.Time) Option {
	return func(l *Loader) {
		if now != nil {
			l.now = now
		}
	}
}

// NewLoader returns an idle loader.
func NewLoader(source Source, opts ...Option) *Loader {
	l := &Loader{
		source: source,
		logger: log.New(io.Discard),
		ttl:    defaultTTL,
		now:    time.Now,
		cache:  lru.New(cachePairs),
		subs:   make(map[int]func(State)),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Submit starts comparing left and right. Both ids are trimmed and must be
// non-empty; otherwise nothing happens and Submit returns false. Results
// already on display stay visible until the new pair loads.
func (l *Loader) Submit(ctx context.Context, left, right string) bool {
	left, right = strings.TrimSpace(left), strings.TrimSpace(right)
	if left == "" || right == "" {
		return false
	}
	key := [2]string{left, right}

	l.mu.Lock()
	l.stopLocked()
	l.token++
	token := l.token
	l.state.Left, l.state.Right = left, right
	l.state.Active = true
	l.state.Err = nil

	if hit, ok := l.cached(key); ok {
		l.state.Result = hit
		l.state.Loading = false
		state, seq := l.snapshotLocked()
		l.mu.Unlock()
		l.publish(state, seq)
		return true
	}

	loadCtx, cancel := context.WithCancel(ctx)
	l.cancel = cancel
	l.state.Loading = true
	state, seq := l.snapshotLocked()
	l.wg.Add(1)
	l.mu.Unlock()

	l.publish(state, seq)
	go l.run(loadCtx, cancel, token, key)
	return true
}

// Clear forgets the submitted pair and hides any results.
func (l *Loader) Clear() {
	l.mu.Lock()
	l.stopLocked()
	l.token++
	l.state = State{}
	state, seq := l.snapshotLocked()
	l.mu.Unlock()

	l.publish(state, seq)
}

// State returns a copy of the observable state.
func (l *Loader) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Subscribe registers fn for every state change. Callbacks run on the
// goroutine that caused the change and must not call back into the Loader.
func (l *Loader) Subscribe(fn func(State)) (cancel func()) {
	l.subMu.Lock()
	id := l.nextSub
	l.nextSub++
	l.subs[id] = fn
	l.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			l.subMu.Lock()
			delete(l.subs, id)
			l.subMu.Unlock()
		})
	}
}

// Wait blocks until every started load has returned.
func (l *Loader) Wait() {
	l.wg.Wait()
}

// Close cancels any load in flight and waits for it.
func (l *Loader) Close() {
	l.mu.Lock()
	l.stopLocked()
	l.token++
	l.mu.Unlock()
	l.wg.Wait()
}

func (l *Loader) stopLocked() {
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
}

func (l *Loader) run(ctx context.Context, cancel context.CancelFunc, token uint64, key [2]string) {
	defer l.wg.Done()
	defer cancel()

	result, err := l.loadPair(ctx, key[0], key[1])

	l.mu.Lock()
	if token != l.token {
		l.mu.Unlock()
		l.logger.Debug("dropping stale comparison", "left", key[0], "right", key[1])
		return
	}
	l.cancel = nil
	l.state.Loading = false
	if err != nil {
		l.state.Err = err
		l.logger.Warn("comparison failed", "left", key[0], "right", key[1], "err", err)
	} else {
		l.state.Result = result
		l.cache.Add(key, cacheEntry{result: result, expires: l.now().Add(l.ttl)})
	}
	state, seq := l.snapshotLocked()
	l.mu.Unlock()

	l.publish(state, seq)
}

func (l *Loader) loadPair(ctx context.Context, left, right string) (*Result, error) {
	var result Result
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		side, err := l.loadOne(gctx, left)
		if err != nil {
			return err
		}
		result.Left = side
		return nil
	})
	g.Go(func() error {
		side, err := l.loadOne(gctx, right)
		if err != nil {
			return err
		}
		result.Right = side
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &result, nil
}

func (l *Loader) loadOne(ctx context.Context, id string) (Side, error) {
	launch, err := l.source.GetLaunch(ctx, id)
	if err != nil {
		return Side{}, fmt.Errorf("load launch %s: %w", id, err)
	}
	if launch == nil {
		return Side{}, fmt.Errorf("load launch %s: not found", id)
	}

	var (
		rocket *spacex.Rocket
		pad    *spacex.Launchpad
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		r, err := l.source.GetRocket(gctx, launch.Rocket)
		if err != nil {
			return fmt.Errorf("load rocket %s: %w", launch.Rocket, err)
		}
		rocket = r
		return nil
	})
	g.Go(func() error {
		p, err := l.source.GetLaunchpad(gctx, launch.Launchpad)
		if err != nil {
			return fmt.Errorf("load launchpad %s: %w", launch.Launchpad, err)
		}
		pad = p
		return nil
	})
	if err := g.Wait(); err != nil {
		return Side{}, err
	}

	side := Side{
		LaunchID:  launch.ID,
		Name:      launch.Name,
		DateUTC:   launch.DateUTC,
		Success:   launch.Success,
		Wikipedia: launch.Links.Wikipedia,
		Webcast:   launch.Links.Webcast,
		Article:   launch.Links.Article,
	}
	if rocket != nil {
		side.RocketName = rocket.Name
	}
	if pad != nil {
		side.PadName = pad.Name
	}
	return side, nil
}

func (l *Loader) snapshotLocked() (State, uint64) {
	l.seq++
	return l.state, l.seq
}

func (l *Loader) publish(state State, seq uint64) {
	l.subMu.Lock()
	defer l.subMu.Unlock()
	if seq <= l.delivered {
		return
	}
	l.delivered = seq
	for _, fn := range l.subs {
		fn(state)
	}
}
