package paging

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type testQuery string

func (q testQuery) Fingerprint() string { return string(q) }

type call struct {
	query testQuery
	index int
}

// scripted serves pages from a table and can hold fetches until released.
type scripted struct {
	mu      sync.Mutex
	pages   map[testQuery]map[int]Page[string]
	fail    map[int]error
	calls   []call
	gate    chan struct{}
	started chan call
}

func newScripted() *scripted {
	return &scripted{
		pages: map[testQuery]map[int]Page[string]{
			"F": {
				1: {Items: []string{"a", "b"}, Next: 2},
				2: {Items: []string{"c"}},
			},
			"G": {
				1: {Items: []string{"x"}, Next: 2},
				2: {Items: []string{"y"}},
			},
		},
		fail: map[int]error{},
	}
}

func (s *scripted) fetch(ctx context.Context, q testQuery, index int) (Page[string], error) {
	s.mu.Lock()
	s.calls = append(s.calls, call{q, index})
	gate, started := s.gate, s.started
	err := s.fail[index]
	page := s.pages[q][index]
	s.mu.Unlock()

	if started != nil {
		started <- call{q, index}
	}
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return Page[string]{}, ctx.Err()
		}
	}
	if err != nil {
		return Page[string]{}, err
	}
	return page, nil
}

func (s *scripted) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

func TestController_FetchesPagesInOrder(t *testing.T) {
	src := newScripted()
	c := New(src.fetch)
	defer c.Close()
	ctx := context.Background()

	require.True(t, c.Reset(testQuery("F"), nil))
	assert.False(t, c.HasMore(), "no pages yet")

	require.True(t, c.RequestNextPage(ctx))
	c.Wait()
	assert.Equal(t, []string{"a", "b"}, c.Items())
	assert.True(t, c.HasMore())

	require.True(t, c.RequestNextPage(ctx))
	c.Wait()
	assert.Equal(t, []string{"a", "b", "c"}, c.Items())
	assert.False(t, c.HasMore())

	assert.False(t, c.RequestNextPage(ctx), "third request must be a no-op")
	c.Wait()
	assert.Equal(t, 2, src.callCount())
	assert.Equal(t, []call{{"F", 1}, {"F", 2}}, src.calls)
}

func TestController_SingleFetchInFlight(t *testing.T) {
	src := newScripted()
	src.gate = make(chan struct{})
	c := New(src.fetch)
	defer c.Close()
	ctx := context.Background()

	c.Reset(testQuery("F"), nil)
	assert.True(t, c.RequestNextPage(ctx))
	assert.False(t, c.RequestNextPage(ctx))
	assert.True(t, c.State().Loading)

	close(src.gate)
	c.Wait()
	assert.Equal(t, 1, src.callCount())
	assert.False(t, c.State().Loading)
}

func TestController_ResetDiscardsPagesAndSeeds(t *testing.T) {
	src := newScripted()
	c := New(src.fetch)
	defer c.Close()
	ctx := context.Background()

	c.Reset(testQuery("F"), nil)
	c.RequestNextPage(ctx)
	c.Wait()
	require.Equal(t, []string{"a", "b"}, c.Items())

	require.True(t, c.Reset(testQuery("G"), nil))
	assert.Empty(t, c.Items())

	seed := &Page[string]{Index: 7, Items: []string{"s1", "s2"}, Next: 2}
	require.True(t, c.Reset(testQuery("F"), seed))
	assert.Equal(t, []string{"s1", "s2"}, c.Items())
	assert.True(t, c.HasMore())

	c.RequestNextPage(ctx)
	c.Wait()
	assert.Equal(t, []string{"s1", "s2", "c"}, c.Items())
	assert.Equal(t, 2, src.callCount(), "seeded page 1 must not be refetched")
}

func TestController_ResetSameFingerprintIsNoop(t *testing.T) {
	src := newScripted()
	c := New(src.fetch)
	defer c.Close()

	c.Reset(testQuery("F"), nil)
	c.RequestNextPage(context.Background())
	c.Wait()

	assert.False(t, c.Reset(testQuery("F"), nil))
	assert.Equal(t, []string{"a", "b"}, c.Items())
}

func TestController_DropsStaleResults(t *testing.T) {
	src := newScripted()
	src.gate = make(chan struct{})
	src.started = make(chan call, 4)
	c := New(src.fetch)
	defer c.Close()
	ctx := context.Background()

	c.Reset(testQuery("F"), nil)
	c.RequestNextPage(ctx)
	<-src.started

	c.Reset(testQuery("G"), nil)
	assert.False(t, c.State().Loading)
	c.RequestNextPage(ctx)
	<-src.started

	close(src.gate)
	c.Wait()
	assert.Equal(t, []string{"x"}, c.Items())
	assert.Equal(t, "G", c.State().Fingerprint)
}

func TestController_FailureKeepsPagesAndRetriesSameIndex(t *testing.T) {
	src := newScripted()
	boom := errors.New("spacex api error 503: down")
	c := New(src.fetch)
	defer c.Close()
	ctx := context.Background()

	c.Reset(testQuery("F"), nil)
	c.RequestNextPage(ctx)
	c.Wait()

	src.mu.Lock()
	src.fail[2] = boom
	src.mu.Unlock()

	c.RequestNextPage(ctx)
	c.Wait()

	state := c.State()
	require.NotNil(t, state.Err)
	assert.ErrorIs(t, state.Err, boom)
	assert.Equal(t, 2, state.Err.Index)
	assert.Equal(t, "F", state.Err.Fingerprint)
	assert.Equal(t, []string{"a", "b"}, state.Items)

	assert.False(t, c.RequestNextPage(ctx), "pending error blocks automatic paging")
	assert.False(t, c.Visible(ctx, 2))

	src.mu.Lock()
	delete(src.fail, 2)
	src.mu.Unlock()

	require.True(t, c.Retry(ctx))
	c.Wait()
	assert.Nil(t, c.State().Err)
	assert.Equal(t, []string{"a", "b", "c"}, c.Items())
	assert.Equal(t, []call{{"F", 1}, {"F", 2}, {"F", 2}}, src.calls)
	assert.False(t, c.Retry(ctx))
}

func TestController_FirstPageFailureIsDistinctFromEmpty(t *testing.T) {
	src := newScripted()
	src.fail[1] = errors.New("offline")
	c := New(src.fetch)
	defer c.Close()

	c.Reset(testQuery("F"), nil)
	c.RequestNextPage(context.Background())
	c.Wait()

	state := c.State()
	assert.Empty(t, state.Items)
	require.NotNil(t, state.Err)
	assert.Equal(t, 1, state.Err.Index)
}

func TestController_VisibleRequestsWhenLoadingRowShows(t *testing.T) {
	src := newScripted()
	c := New(src.fetch)
	defer c.Close()
	ctx := context.Background()

	c.Reset(testQuery("F"), &Page[string]{Items: []string{"a", "b"}, Next: 2})

	assert.False(t, c.Visible(ctx, 1), "loading row not visible yet")
	assert.Zero(t, src.callCount())

	assert.True(t, c.Visible(ctx, 2))
	c.Wait()
	assert.Equal(t, []string{"a", "b", "c"}, c.Items())

	assert.False(t, c.Visible(ctx, 3), "no more pages")
}

func TestController_VisibleWithoutPagesDoesNothing(t *testing.T) {
	src := newScripted()
	c := New(src.fetch)
	defer c.Close()

	c.Reset(testQuery("F"), nil)
	assert.False(t, c.Visible(context.Background(), 0))
	assert.Zero(t, src.callCount())
}

func TestController_RequestWithoutQueryIsNoop(t *testing.T) {
	src := newScripted()
	c := New(src.fetch)
	defer c.Close()
	assert.False(t, c.RequestNextPage(context.Background()))
}

func TestController_BackwardNextEndsSequence(t *testing.T) {
	c := New(func(ctx context.Context, q testQuery, index int) (Page[string], error) {
		return Page[string]{Items: []string{"loop"}, Next: index}, nil
	})
	defer c.Close()

	c.Reset(testQuery("F"), nil)
	c.RequestNextPage(context.Background())
	c.Wait()
	assert.False(t, c.HasMore())
}

func TestController_SeedWithNonContiguousNextEndsSequence(t *testing.T) {
	for _, next := range []int{1, 0, -3, 5} {
		src := newScripted()
		c := New(src.fetch)

		c.Reset(testQuery("F"), &Page[string]{Items: []string{"a", "b"}, Next: next})
		assert.False(t, c.HasMore(), "seed next %d", next)
		assert.False(t, c.RequestNextPage(context.Background()), "seed next %d", next)
		c.Wait()
		assert.Equal(t, []string{"a", "b"}, c.Items(), "seed next %d", next)
		assert.Zero(t, src.callCount(), "seed next %d", next)
		c.Close()
	}
}

func TestController_SkippingNextEndsSequence(t *testing.T) {
	var mu sync.Mutex
	var indexes []int
	c := New(func(ctx context.Context, q testQuery, index int) (Page[string], error) {
		mu.Lock()
		indexes = append(indexes, index)
		mu.Unlock()
		return Page[string]{Items: []string{"p1"}, Next: index + 2}, nil
	})
	defer c.Close()

	c.Reset(testQuery("F"), nil)
	require.True(t, c.RequestNextPage(context.Background()))
	c.Wait()

	assert.False(t, c.HasMore())
	assert.False(t, c.RequestNextPage(context.Background()))
	c.Wait()
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []int{1}, indexes)
	assert.Equal(t, []string{"p1"}, c.Items())
}

func TestController_SubscribersSeeOrderedStates(t *testing.T) {
	src := newScripted()
	c := New(src.fetch)
	defer c.Close()

	var mu sync.Mutex
	var seen []State[string]
	cancel := c.Subscribe(func(s State[string]) {
		mu.Lock()
		seen = append(seen, s)
		mu.Unlock()
	})
	defer cancel()

	c.Reset(testQuery("F"), nil)
	c.RequestNextPage(context.Background())
	c.Wait()

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, seen, 3)
	assert.False(t, seen[0].Loading)
	assert.True(t, seen[1].Loading)
	assert.False(t, seen[2].Loading)
	assert.Equal(t, []string{"a", "b"}, seen[2].Items)
}

func TestController_CloseCancelsInFlight(t *testing.T) {
	var cancelled atomic.Bool
	c := New(func(ctx context.Context, q testQuery, index int) (Page[string], error) {
		select {
		case <-ctx.Done():
			cancelled.Store(true)
			return Page[string]{}, ctx.Err()
		case <-time.After(5 * time.Second):
			return Page[string]{}, nil
		}
	})

	c.Reset(testQuery("F"), nil)
	c.RequestNextPage(context.Background())
	c.Close()
	assert.True(t, cancelled.Load())
	assert.Empty(t, c.Items())
}

func TestController_NothingStartsAfterClose(t *testing.T) {
	src := newScripted()
	src.fail[2] = errors.New("boom")
	c := New(src.fetch)

	c.Reset(testQuery("F"), nil)
	require.True(t, c.RequestNextPage(context.Background()))
	c.Wait()
	require.True(t, c.RequestNextPage(context.Background()))
	c.Wait()
	require.NotNil(t, c.State().Err)
	calls := src.callCount()

	c.Close()
	assert.False(t, c.Retry(context.Background()))
	assert.False(t, c.RequestNextPage(context.Background()))
	assert.False(t, c.Visible(context.Background(), 10))

	c.Reset(testQuery("G"), nil)
	assert.False(t, c.RequestNextPage(context.Background()))
	c.Wait()
	assert.Equal(t, calls, src.callCount())
}
