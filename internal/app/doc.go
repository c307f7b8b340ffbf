// Package app provides the orchestration layer for marquee.
//
// # Overview
//
// This package wires together configuration, logging, persistence, the
// stores and the UI. It is the composition root where every dependency is
// initialized and connected.
//
// # Architecture
//
//  1. Load ~/.config/marquee/config.toml (defaults when missing)
//  2. Initialize the rotating JSON log file
//  3. Open the badger data store and restore the general and server stores
//  4. Launch the background poller
//  5. Start the TUI and block until the user quits or the context cancels
//
// # Components
//
//   - app.go: Run, the startup sequence
//   - stores.go: Stores, the context object holding every store
//   - poller.go: background goroutine that syncs all servers periodically
//
// # Data Flow
//
//	┌──────────────┐
//	│   Run()      │ Initialize everything
//	└──────┬───────┘
//	       │
//	       ├─────> config.Load()     Read config.toml
//	       ├─────> logging.Init()    Rotating log file
//	       ├─────> persist.Open()    Badger data store
//	       ├─────> NewStores()       Restore and wire save-on-change
//	       ├─────> StartPoller()     Launch background sync
//	       └─────> ui.Run()          Start TUI (blocks)
//
// # Persistence
//
// Two records are saved whenever their stores change:
//
//   - "general": theme, language and the flash message history
//   - "server": the registered servers
//
// Library data is not persisted. It is fetched again after every start.
//
// # Polling Behavior
//
// The poller syncs every registered server at the configured interval
// (default: 5 minutes). While no server answers, the delay doubles per
// round up to 30 minutes. Sync failures never stop the poller; they are
// logged and shown as danger flash messages.
//
// # Usage Example
//
//	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
//	defer cancel()
//
//	if err := app.Run(ctx, app.Options{}); err != nil {
//		log.Fatalf("marquee failed: %v", err)
//	}
package app
