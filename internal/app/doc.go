// Package app provides the orchestration layer for liftoff.
//
// # Overview
//
// This package wires together configuration, storage, the SpaceX client,
// the core components and the UI. It is the composition root shared by
// the TUI and the command line subcommands: Open builds the components,
// Run starts the TUI on top of them.
//
// # Architecture
//
//  1. Load config.toml plus LIFTOFF_* environment overrides
//  2. Open the JSON log file (the TUI owns the terminal)
//  3. Open the key/value backend selected by storage (sqlite, file, memory)
//  4. Build the SpaceX client, favorites store and compare loader
//  5. Start cross-process favorites sync and the favorites listing refresher
//  6. Seed the launch list with page 1 of the saved filter
//  7. Start the TUI and block until the user exits or ctx is cancelled
//
// # Data Flow
//
//	┌──────────────┐
//	│   Run()      │ Initialize everything
//	└──────┬───────┘
//	       │
//	       ├─────> config.Load()            Read config
//	       ├─────> Open()                   KV, client, stores
//	       ├─────> StartSync()              KV.Watch -> Favorites.Sync
//	       ├─────> StartListingRefresher()  Favorites -> Listing
//	       ├─────> FirstPage()              Seed the paging controller
//	       └─────> ui.Run()                 Start TUI (blocks)
//
//	Listing Refresher Loop:
//	┌─────────────────────────────────────────┐
//	│ StartListingRefresher() goroutine       │
//	│  ├─> wait: interval, kick or ctx        │
//	│  ├─> QueryLaunchesByIDs(favorite ids)   │
//	│  └─> Listing.Update()  (atomic)         │
//	│      └─> UI reads Listing.Snapshot()    │
//	└─────────────────────────────────────────┘
//
// # Refresh Behavior
//
// The favorites listing is refetched when a favorite is added that the
// listing does not cover yet, and otherwise every five minutes. Failures
// keep the last good listing and retry with exponential backoff starting
// at two seconds, capped at thirty.
//
// # Error Handling
//
// Fatal errors (returned from Run):
//   - Configuration file invalid
//   - Log file or storage backend cannot be opened
//   - SpaceX client initialization failure
//
// Recoverable errors (logged, the UI carries on):
//   - Initial page fetch failure (the UI requests page 1 itself)
//   - Favorites listing refresh failures
//   - Cross-process watch unavailable
package app
