// Package filekv provides a kv.Store that keeps one file per key in a
// directory and watches that directory for writes from other processes.
package filekv

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"

	"github.com/five82/liftoff/internal/kv"
)

const (
	valueSuffix = ".val"
	tempPrefix  = ".tmp-"
)

// Store implements kv.Store on a directory.
type Store struct {
	dir      string
	logger   *log.Logger
	watcher  *fsnotify.Watcher
	notifier *kv.Notifier

	mu     sync.Mutex
	known  map[string]string
	closed bool

	stopCh chan struct{}
	doneCh chan struct{}
}

var _ kv.Store = (*Store)(nil)

// Option customizes a Store.
type Option func(*Store)

// WithLogger routes watcher diagnostics to logger.
func WithLogger(logger *log.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Open creates dir if needed and starts watching it.
func Open(dir string, opts ...Option) (*Store, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, fmt.Errorf("file kv: directory cannot be empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("file kv: create directory: %w", err)
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("file kv: create watcher: %w", err)
	}
	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("file kv: watch %s: %w", dir, err)
	}

	s := &Store{
		dir:      dir,
		logger:   log.New(io.Discard),
		watcher:  watcher,
		notifier: kv.NewNotifier(),
		known:    make(map[string]string),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	go s.run()
	return s, nil
}

func (s *Store) path(key string) string {
	return filepath.Join(s.dir, url.QueryEscape(key)+valueSuffix)
}

func keyFromPath(path string) (string, bool) {
	name := filepath.Base(path)
	if strings.HasPrefix(name, tempPrefix) || !strings.HasSuffix(name, valueSuffix) {
		return "", false
	}
	key, err := url.QueryUnescape(strings.TrimSuffix(name, valueSuffix))
	if err != nil {
		return "", false
	}
	return key, true
}

func (s *Store) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Get implements kv.Store.
func (s *Store) Get(_ context.Context, key string) (string, bool, error) {
	if s.isClosed() {
		return "", false, kv.ErrClosed
	}
	data, err := os.ReadFile(s.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("file kv: get %q: %w", key, err)
	}
	value := string(data)
	s.mu.Lock()
	s.known[key] = value
	s.mu.Unlock()
	return value, true, nil
}

// Set implements kv.Store. The value is written to a temp file and renamed
// into place so readers never see a partial value.
func (s *Store) Set(_ context.Context, key, value string) error {
	if s.isClosed() {
		return kv.ErrClosed
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tmp, err := os.CreateTemp(s.dir, tempPrefix+"*")
	if err != nil {
		return fmt.Errorf("file kv: create temp: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.WriteString(value); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("file kv: write %q: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("file kv: close temp: %w", err)
	}
	s.known[key] = value
	if err := os.Rename(tmpName, s.path(key)); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("file kv: rename %q: %w", key, err)
	}
	return nil
}

// Watch implements kv.Store.
func (s *Store) Watch(ctx context.Context) (<-chan string, error) {
	if s.isClosed() {
		return nil, kv.ErrClosed
	}
	return s.notifier.Watch(ctx)
}

// Close stops the watcher.
func (s *Store) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	close(s.stopCh)
	<-s.doneCh
	s.notifier.Close()
	return s.watcher.Close()
}

func (s *Store) run() {
	defer close(s.doneCh)

	for {
		select {
		case <-s.stopCh:
			return
		case event, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			s.handleEvent(event)
		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			s.logger.Warn("file kv watcher error", "err", err)
		}
	}
}

// handleEvent reports key when its file now holds content this store
// neither wrote nor already reported.
func (s *Store) handleEvent(event fsnotify.Event) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return
	}
	key, ok := keyFromPath(event.Name)
	if !ok {
		return
	}
	data, err := os.ReadFile(event.Name)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			s.logger.Warn("file kv read after change failed", "key", key, "err", err)
		}
		return
	}
	value := string(data)

	s.mu.Lock()
	prev, seen := s.known[key]
	s.known[key] = value
	s.mu.Unlock()

	if seen && prev == value {
		return
	}
	s.notifier.Notify(key)
}
