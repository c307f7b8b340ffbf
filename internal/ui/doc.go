// Package ui provides the terminal user interface for marquee.
//
// # Architecture Overview
//
// The UI is a Bubble Tea program styled with Lip Gloss. It never fetches
// data itself: it renders copies of the stores (servers, library, flash
// messages, preferences) and asks a Backend to save, remove or sync
// servers. Every store change sends a message to the program, which reloads
// its copy and redraws.
//
// # Package Structure
//
//   - app.go: Model, Update loop, commands and Run
//   - header.go: header, command bar and flash banner
//   - servers.go, library.go, queue.go, messages.go, logs.go: one file per view
//   - views.go: split list/detail layout shared by the views
//   - modal.go: add/edit server form and remove confirmation
//   - render.go: boxes, rows and small formatting helpers
//   - theme.go, keys.go, help.go, layout.go: styling, bindings, help screen
//
// # Views
//
//   - Servers: registered servers with address, key and sync status
//   - Library: downloaded movies, newest first
//   - Queue: active downloads ordered by progress
//   - Wanted: monitored movies without a file
//   - Messages: dismissed flash messages, newest first
//   - Logs: tail of the application log file
//
// # Flash Messages
//
// The current flash message is shown as a banner below the header. It is
// dismissed after the flash timeout or with d. Dismissed messages move to
// the Messages view.
//
// # Onboarding
//
// Without registered servers the add-server form opens at start. Field
// validation errors are shown below the field they belong to.
//
// # Key Bindings
//
//   - 1-6: Switch view
//   - Tab/Shift+Tab: Cycle views
//   - s/S: Sync selected server / all servers
//   - a, enter, x: Add, edit, remove server (Servers view)
//   - d: Dismiss the current flash message
//   - C: Clear message history (Messages view)
//   - Space: Toggle log follow (Logs view)
//   - T: Cycle theme
//   - L: Change language (en, pt-BR)
//   - h or ?: Help
//   - e or Ctrl+C: Exit
package ui
