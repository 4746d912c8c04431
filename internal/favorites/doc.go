// Package favorites keeps the set of favorite launch ids.
//
// # Lifecycle
//
// A Store starts empty and not loaded. Hydrate reads the persisted list
// once; until it finishes, mutations only touch memory and are then
// replaced by what was stored, so a slow first read can never overwrite a
// saved list with an empty one. After hydration every change writes the
// whole set as a sorted JSON array under Key.
//
// # Synchronization
//
// Several liftoff processes may share one store. When the kv backend
// reports that another process wrote Key, or when the terminal regains
// focus, the caller runs Sync, which replaces the in-memory set with the
// stored one. Concurrent edits in two processes between notifications are
// resolved by whoever wrote last.
//
// # Snapshots
//
// Every change publishes a new *Set; the previous one is left untouched.
// No-op mutations keep the same pointer, so subscribers can compare
// pointers to skip redundant work.
package favorites
