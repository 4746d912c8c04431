package kv

import (
	"context"
	"errors"
	"sync"
)

// ErrClosed is returned by every operation on a closed store.
var ErrClosed = errors.New("kv: store closed")

// Store is a string key-value store shared by every liftoff process using
// the same data directory.
type Store interface {
	// Get returns the value for key and whether it was present.
	Get(ctx context.Context, key string) (string, bool, error)
	// Set overwrites key with value.
	Set(ctx context.Context, key, value string) error
	// Watch streams keys written by other processes or peers. Writes made
	// through this store are not reported. The channel closes when ctx is
	// done or the store is closed.
	Watch(ctx context.Context) (<-chan string, error)
	Close() error
}

const notifyBuffer = 32

// Notifier fans change notifications out to Watch subscribers. Slow
// subscribers lose notifications rather than blocking writers.
type Notifier struct {
	mu     sync.Mutex
	subs   map[chan string]struct{}
	done   chan struct{}
	closed bool
}

// NewNotifier returns an open Notifier.
func NewNotifier() *Notifier {
	return &Notifier{
		subs: make(map[chan string]struct{}),
		done: make(chan struct{}),
	}
}

// Watch registers a subscriber that lives until ctx is done or the
// notifier is closed.
func (n *Notifier) Watch(ctx context.Context) (<-chan string, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.closed {
		return nil, ErrClosed
	}
	ch := make(chan string, notifyBuffer)
	n.subs[ch] = struct{}{}
	go func() {
		select {
		case <-ctx.Done():
			n.remove(ch)
		case <-n.done:
		}
	}()
	return ch, nil
}

func (n *Notifier) remove(ch chan string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if _, ok := n.subs[ch]; ok {
		delete(n.subs, ch)
		close(ch)
	}
}

// Notify reports key to every subscriber.
func (n *Notifier) Notify(key string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	for ch := range n.subs {
		select {
		case ch <- key:
		default:
		}
	}
}

// Close ends every subscription. It is safe to call more than once.
func (n *Notifier) Close() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.closed {
		return
	}
	n.closed = true
	close(n.done)
	for ch := range n.subs {
		delete(n.subs, ch)
		close(ch)
	}
}
