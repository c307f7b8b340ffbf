package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings for the application.
type keyMap struct {
	// Global
	Quit          key.Binding
	Help          key.Binding
	CycleTheme    key.Binding
	CycleLanguage key.Binding
	Tab           key.Binding
	ShiftTab      key.Binding
	Escape        key.Binding

	// View switching
	ViewServers key.Binding
	ViewLibrary key.Binding
	ViewQueue   key.Binding
	ViewWanted  key.Binding
	ViewFlash   key.Binding
	ViewLogs    key.Binding

	// Actions
	Sync         key.Binding
	SyncAll      key.Binding
	AddServer    key.Binding
	EditServer   key.Binding
	RemoveServer key.Binding
	DismissFlash key.Binding
	ClearHistory key.Binding

	// Navigation
	Up     key.Binding
	Down   key.Binding
	Top    key.Binding
	Bottom key.Binding

	// Logs
	ToggleFollow key.Binding

	// Forms and modals
	NextField key.Binding
	PrevField key.Binding
	Submit    key.Binding
	Confirm   key.Binding
	Cancel    key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "e"),
			key.WithHelp("e", "Quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("h", "?"),
			key.WithHelp("h/?", "Toggle help"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "Cycle theme"),
		),
		CycleLanguage: key.NewBinding(
			key.WithKeys("L"),
			key.WithHelp("L", "Change language"),
		),
		Tab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "Cycle views"),
		),
		ShiftTab: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "Cycle views (reverse)"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "Return to library"),
		),

		ViewServers: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "Servers"),
		),
		ViewLibrary: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "Library"),
		),
		ViewQueue: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "Queue"),
		),
		ViewWanted: key.NewBinding(
			key.WithKeys("4"),
			key.WithHelp("4", "Wanted"),
		),
		ViewFlash: key.NewBinding(
			key.WithKeys("5"),
			key.WithHelp("5", "Messages"),
		),
		ViewLogs: key.NewBinding(
			key.WithKeys("6"),
			key.WithHelp("6", "Logs"),
		),

		Sync: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "Sync server"),
		),
		SyncAll: key.NewBinding(
			key.WithKeys("S"),
			key.WithHelp("S", "Sync all"),
		),
		AddServer: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "Add server"),
		),
		EditServer: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Edit server"),
		),
		RemoveServer: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "Remove server"),
		),
		DismissFlash: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "Dismiss message"),
		),
		ClearHistory: key.NewBinding(
			key.WithKeys("C"),
			key.WithHelp("C", "Clear messages"),
		),

		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/up", "Move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/down", "Move down"),
		),
		Top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "Go to top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "Go to bottom"),
		),

		ToggleFollow: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("Space", "Toggle follow mode"),
		),

		NextField: key.NewBinding(
			key.WithKeys("tab", "down"),
			key.WithHelp("tab", "Next field"),
		),
		PrevField: key.NewBinding(
			key.WithKeys("shift+tab", "up"),
			key.WithHelp("shift+tab", "Previous field"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter", "ctrl+s"),
			key.WithHelp("enter", "Save"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("y", "enter"),
			key.WithHelp("y", "Confirm"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc", "n"),
			key.WithHelp("esc", "Cancel"),
		),
	}
}

// ShortHelp returns key bindings for the short help view.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Quit}
}

// FullHelp returns key bindings grouped for the help overlay.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab, k.ViewServers, k.ViewLibrary, k.ViewQueue, k.ViewWanted, k.ViewFlash, k.ViewLogs, k.Escape},
		{k.Up, k.Down, k.Top, k.Bottom},
		{k.Sync, k.SyncAll, k.AddServer, k.EditServer, k.RemoveServer},
		{k.DismissFlash, k.ClearHistory, k.ToggleFollow},
		{k.CycleTheme, k.CycleLanguage, k.Help, k.Quit},
	}
}
