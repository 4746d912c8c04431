// Package config handles loading liftoff's configuration file and
// environment overrides.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/liftoff/config.toml (default)
//  3. If the config file doesn't exist, start from defaults
//  4. Apply LIFTOFF_* environment variables over whatever the file set
//  5. Empty or zero values fall back to defaults
//
// # Default Values
//
//   - Config file: ~/.config/liftoff/config.toml
//   - API root: https://api.spacexdata.com/v4
//   - Data directory: ~/.local/share/liftoff
//   - Storage backend: sqlite (<data_dir>/liftoff.db)
//   - Page size: 20
//   - Log level: info (<data_dir>/liftoff.log for the TUI)
//   - Sync interval: 1000ms
//
// # TOML Format
//
//	api_url = "https://api.spacexdata.com/v4"
//	data_dir = "~/.local/share/liftoff"
//	storage = "sqlite"        # sqlite | file | memory
//	page_size = 20
//	log_level = "info"
//	sync_interval_ms = 1000
//
// Every field is optional. Tilde expansion is performed on data_dir.
//
// # Environment
//
// LIFTOFF_API_URL, LIFTOFF_DATA_DIR, LIFTOFF_STORAGE, LIFTOFF_PAGE_SIZE,
// LIFTOFF_LOG_LEVEL and LIFTOFF_SYNC_INTERVAL_MS override the matching keys.
//
// # Error Handling
//
// Load returns errors for path expansion failures, unreadable files, TOML
// parse errors ("parse config"), malformed environment values ("parse env")
// and unknown storage backends. A missing file is not an error.
package config
