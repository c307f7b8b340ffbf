// Package config loads marquee's TOML configuration file.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/marquee/config.toml (default)
//  3. If the config file doesn't exist, fall back to defaults
//  4. If the file exists but fields are missing/empty, use defaults
//
// # Default Values
//
//   - Data directory: ~/.local/share/marquee
//   - Key-value store: <data_dir>/store
//   - Log file: <data_dir>/marquee.log (rotated at 10MB, 3 backups)
//   - Fetch timeout: 2s
//   - Background sync interval: 5m
//   - Flash message display time: 5s
//   - Flash history cap: 100
//
// # TOML Format
//
//	data_dir = "~/.local/share/marquee"
//	log_level = "info"
//	fetch_timeout = "2s"
//	sync_interval = "5m"
//	flash_timeout = "5s"
//	flash_history_max = 100
//
// Durations use Go duration syntax. Tilde expansion is performed for paths.
// Missing config files are not an error.
//
// Servers are not configured here. They are added from the UI and persisted
// in the key-value store (see package persist).
package config
