package kv

import (
	"context"
	"sync"
)

type memoryData struct {
	mu      sync.Mutex
	values  map[string]string
	members map[*Memory]struct{}
}

// Memory is an in-process Store. Peers created with Peer share values and
// see each other's writes through Watch, which makes it a stand-in for two
// processes sharing one data directory.
type Memory struct {
	data     *memoryData
	notifier *Notifier

	mu     sync.Mutex
	closed bool
}

var _ Store = (*Memory)(nil)

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	data := &memoryData{
		values:  make(map[string]string),
		members: make(map[*Memory]struct{}),
	}
	return data.join()
}

func (d *memoryData) join() *Memory {
	m := &Memory{data: d, notifier: NewNotifier()}
	d.mu.Lock()
	d.members[m] = struct{}{}
	d.mu.Unlock()
	return m
}

// Peer returns another store sharing m's values.
func (m *Memory) Peer() *Memory {
	return m.data.join()
}

func (m *Memory) isClosed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// Get implements Store.
func (m *Memory) Get(_ context.Context, key string) (string, bool, error) {
	if m.isClosed() {
		return "", false, ErrClosed
	}
	m.data.mu.Lock()
	defer m.data.mu.Unlock()
	v, ok := m.data.values[key]
	return v, ok, nil
}

// Set implements Store and notifies every other open peer.
func (m *Memory) Set(_ context.Context, key, value string) error {
	if m.isClosed() {
		return ErrClosed
	}
	m.data.mu.Lock()
	m.data.values[key] = value
	others := make([]*Memory, 0, len(m.data.members))
	for peer := range m.data.members {
		if peer != m {
			others = append(others, peer)
		}
	}
	m.data.mu.Unlock()

	for _, peer := range others {
		peer.notifier.Notify(key)
	}
	return nil
}

// Watch implements Store.
func (m *Memory) Watch(ctx context.Context) (<-chan string, error) {
	if m.isClosed() {
		return nil, ErrClosed
	}
	return m.notifier.Watch(ctx)
}

// Close detaches m from its peers.
func (m *Memory) Close() error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	m.mu.Unlock()

	m.data.mu.Lock()
	delete(m.data.members, m)
	m.data.mu.Unlock()
	m.notifier.Close()
	return nil
}
