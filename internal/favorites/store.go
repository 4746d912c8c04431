package favorites

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// Key is the persisted location of the favorite list.
const Key = "spx:favorites"

const defaultWriteTimeout = 5 * time.Second

// Persister is the slice of kv.Store the favorites store needs.
type Persister interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

// Store holds the process-wide favorite set. It is safe for concurrent
// use and never returns errors: storage failures are logged and the store
// carries on in memory.
type Store struct {
	persist      Persister
	logger       *log.Logger
	writeTimeout time.Duration

	mu      sync.Mutex
	current *Set
	version uint64
	loaded  bool

	hydrateOnce sync.Once

	subMu     sync.Mutex
	subs      map[int]func(*Set)
	nextSub   int
	delivered uint64
}

// Option customizes a Store.
type Option func(*Store)

// WithLogger routes storage warnings to logger.
func WithLogger(logger *log.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithWriteTimeout bounds each persistence write.
func WithWriteTimeout(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.writeTimeout = d
		}
	}
}

// NewStore returns an empty, not yet hydrated store backed by persist.
func NewStore(persist Persister, opts ...Option) *Store {
	s := &Store{
		persist:      persist,
		logger:       log.New(io.Discard),
		writeTimeout: defaultWriteTimeout,
		current:      NewSet(),
		subs:         make(map[int]func(*Set)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Snapshot returns the current set. Unchanged state returns the same
// pointer, so callers can detect change by comparing pointers.
func (s *Store) Snapshot() *Set {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Has reports whether id is a favorite.
func (s *Store) Has(id string) bool {
	return s.Snapshot().Has(id)
}

// Loaded reports whether hydration has completed.
func (s *Store) Loaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loaded
}

// Subscribe registers fn for every newly published set. Callbacks run on
// the goroutine that caused the change, in publication order, and must not
// call back into the Store.
func (s *Store) Subscribe(fn func(*Set)) (cancel func()) {
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.subMu.Lock()
			delete(s.subs, id)
			s.subMu.Unlock()
		})
	}
}

// Hydrate loads the persisted set. Only the first call does anything.
// Anything changed in memory before it completes is replaced by what was
// stored.
func (s *Store) Hydrate(ctx context.Context) {
	s.hydrateOnce.Do(func() {
		stored := s.read(ctx).set()

		s.mu.Lock()
		changed := !stored.Equal(s.current)
		if changed {
			s.current = stored
			s.version++
		}
		s.loaded = true
		next, version := s.current, s.version
		s.mu.Unlock()

		s.logger.Debug("favorites hydrated", "count", next.Len())
		if changed {
			s.publish(next, version)
		}
	})
}

// Sync re-reads the persisted set and replaces the in-memory one with it.
// It is driven by change notifications from other processes and by the
// terminal regaining focus. Sync never writes. A failed read keeps the
// current set; unchanged content keeps the current pointer.
func (s *Store) Sync(ctx context.Context) {
	if !s.Loaded() {
		return
	}
	raw, ok, err := s.persist.Get(ctx, Key)
	if err != nil {
		s.logger.Warn("favorites sync read failed", "err", err)
		return
	}
	stored := NewSet()
	if ok {
		stored = decode(raw).set()
	}

	s.mu.Lock()
	if stored.Equal(s.current) {
		s.mu.Unlock()
		return
	}
	s.current = stored
	s.version++
	next, version := s.current, s.version
	s.mu.Unlock()

	s.logger.Debug("favorites synced", "count", next.Len())
	s.publish(next, version)
}

// Add marks id as a favorite. Adding an existing id changes nothing.
func (s *Store) Add(id string) {
	s.mutate(func(cur *Set) *Set {
		if cur.Has(id) {
			return cur
		}
		return cur.with(id)
	})
}

// Remove unmarks id. Removing an absent id changes nothing.
func (s *Store) Remove(id string) {
	s.mutate(func(cur *Set) *Set {
		if !cur.Has(id) {
			return cur
		}
		return cur.without(id)
	})
}

// Toggle inverts membership of id.
func (s *Store) Toggle(id string) {
	s.mutate(func(cur *Set) *Set {
		if cur.Has(id) {
			return cur.without(id)
		}
		return cur.with(id)
	})
}

// mutate applies fn and, once hydrated, persists the result. Writes happen
// under the lock so they land in the same order as the mutations.
func (s *Store) mutate(fn func(*Set) *Set) {
	s.mu.Lock()
	next := fn(s.current)
	if next == s.current {
		s.mu.Unlock()
		return
	}
	s.current = next
	s.version++
	version := s.version
	if s.loaded {
		s.write(next)
	}
	s.mu.Unlock()

	s.publish(next, version)
}

func (s *Store) write(set *Set) {
	ctx, cancel := context.WithTimeout(context.Background(), s.writeTimeout)
	defer cancel()
	if err := s.persist.Set(ctx, Key, set.encode()); err != nil {
		s.logger.Warn("favorites write failed", "err", err)
	}
}

func (s *Store) read(ctx context.Context) decoded {
	raw, ok, err := s.persist.Get(ctx, Key)
	if err != nil {
		s.logger.Warn("favorites read failed", "err", err)
		return decoded{}
	}
	if !ok {
		return decoded{}
	}
	d := decode(raw)
	if !d.valid {
		s.logger.Warn("favorites content malformed, starting empty")
	}
	return d
}

// publish delivers set to subscribers unless a newer set was already
// delivered.
func (s *Store) publish(set *Set, version uint64) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	if version <= s.delivered {
		return
	}
	s.delivered = version
	for _, fn := range s.subs {
		fn(set)
	}
}
