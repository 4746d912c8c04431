// Package sqlitekv provides a SQLite-backed kv.Store that several liftoff
// processes can share.
//
// Every row carries a monotonically increasing version and the id of the
// process that wrote it. A background poller reads rows newer than the last
// version it saw and reports keys written by other processes to Watch
// subscribers.
package sqlitekv

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/five82/liftoff/internal/kv"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS kv (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	version    INTEGER NOT NULL,
	writer     TEXT NOT NULL,
	updated_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS kv_version ON kv(version);
`

const upsertSQL = `
INSERT INTO kv (key, value, version, writer, updated_at)
VALUES (?, ?, (SELECT COALESCE(MAX(version), 0) + 1 FROM kv), ?, ?)
ON CONFLICT(key) DO UPDATE SET
	value = excluded.value,
	version = excluded.version,
	writer = excluded.writer,
	updated_at = excluded.updated_at
`

const defaultPollInterval = time.Second

// Store implements kv.Store on a SQLite database file.
type Store struct {
	db       *sql.DB
	writerID string
	interval time.Duration
	logger   *log.Logger
	notifier *kv.Notifier

	mu       sync.Mutex
	lastSeen int64
	closed   bool

	stopCh chan struct{}
	doneCh chan struct{}
}

var _ kv.Store = (*Store)(nil)

// Option customizes a Store.
type Option func(*Store)

// WithPollInterval sets how often other writers' changes are checked.
func WithPollInterval(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.interval = d
		}
	}
}

// WithLogger routes poller diagnostics to logger.
func WithLogger(logger *log.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Open creates or opens the database at dbPath and starts the change poller.
func Open(dbPath string, opts ...Option) (*Store, error) {
	if strings.TrimSpace(dbPath) == "" {
		return nil, fmt.Errorf("sqlite kv: db path cannot be empty")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("sqlite kv: create db directory: %w", err)
	}

	dsn := "file:" + dbPath + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite kv: open db: %w", err)
	}

	s := &Store{
		db:       db,
		writerID: uuid.NewString(),
		interval: defaultPollInterval,
		logger:   log.New(io.Discard),
		notifier: kv.NewNotifier(),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.init(); err != nil {
		_ = db.Close()
		return nil, err
	}

	go s.poll()
	return s, nil
}

func (s *Store) init() error {
	if _, err := s.db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("sqlite kv: create schema: %w", err)
	}
	var version int64
	if err := s.db.QueryRow(`SELECT COALESCE(MAX(version), 0) FROM kv`).Scan(&version); err != nil {
		return fmt.Errorf("sqlite kv: read version: %w", err)
	}
	s.lastSeen = version
	return nil
}

func (s *Store) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Get implements kv.Store.
func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	if s.isClosed() {
		return "", false, kv.ErrClosed
	}
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("sqlite kv: get %q: %w", key, err)
	}
	return value, true, nil
}

// Set implements kv.Store.
func (s *Store) Set(ctx context.Context, key, value string) error {
	if s.isClosed() {
		return kv.ErrClosed
	}
	now := time.Now().UTC().Format(time.RFC3339Nano)
	if _, err := s.db.ExecContext(ctx, upsertSQL, key, value, s.writerID, now); err != nil {
		return fmt.Errorf("sqlite kv: set %q: %w", key, err)
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

// Close stops the poller and closes the database.
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
	return s.db.Close()
}

func (s *Store) poll() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopCh:
			return
		case <-ticker.C:
			if err := s.checkChanges(); err != nil {
				s.logger.Warn("sqlite kv poll failed", "err", err)
			}
		}
	}
}

// checkChanges notifies keys written by other writers since the last check.
func (s *Store) checkChanges() error {
	s.mu.Lock()
	since := s.lastSeen
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), s.interval+5*time.Second)
	defer cancel()

	rows, err := s.db.QueryContext(ctx,
		`SELECT key, version, writer FROM kv WHERE version > ? ORDER BY version`, since)
	if err != nil {
		return fmt.Errorf("query changes: %w", err)
	}
	defer rows.Close()

	var changed []string
	latest := since
	for rows.Next() {
		var (
			key     string
			version int64
			writer  string
		)
		if err := rows.Scan(&key, &version, &writer); err != nil {
			return fmt.Errorf("scan change: %w", err)
		}
		latest = max(latest, version)
		if writer != s.writerID {
			changed = append(changed, key)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate changes: %w", err)
	}

	s.mu.Lock()
	s.lastSeen = max(s.lastSeen, latest)
	s.mu.Unlock()

	for _, key := range changed {
		s.notifier.Notify(key)
	}
	return nil
}
