// Package kv defines the per-profile key-value store liftoff persists
// favorites in, plus an in-memory implementation.
//
// # Backends
//
//   - Memory (this package): in-process, peers share values
//   - sqlitekv: one SQLite database under the data directory (default)
//   - filekv: one file per key, watched with fsnotify
//
// All backends are last-write-wins. Watch reports keys written by someone
// else (another process, or another Memory peer) so callers can re-read;
// it never reports the store's own writes.
package kv
