package ui

import (
	"context"
	"slices"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/marquee/internal/flash"
	"github.com/five82/marquee/internal/library"
	"github.com/five82/marquee/internal/prefs"
	"github.com/five82/marquee/internal/server"
)

// View represents the current active view.
type View int

const (
	ViewServers View = iota
	ViewLibrary
	ViewQueue
	ViewWanted
	ViewFlash
	ViewLogs
	viewCount
)

// String returns the title of the view.
func (v View) String() string {
	switch v {
	case ViewServers:
		return "Servers"
	case ViewLibrary:
		return "Library"
	case ViewQueue:
		return "Queue"
	case ViewWanted:
		return "Wanted"
	case ViewFlash:
		return "Messages"
	case ViewLogs:
		return "Logs"
	default:
		return ""
	}
}

// Backend performs the actions that span several stores.
type Backend interface {
	SaveServer(s server.Server) (int, error)
	RemoveServer(id int)
	Sync(ctx context.Context, id int) bool
	SyncAll(ctx context.Context)
}

// Options configures the UI.
type Options struct {
	Context      context.Context
	Backend      Backend
	Servers      *server.Registry
	Library      *library.Library
	Flash        *flash.Queue
	Prefs        *prefs.Store
	LogFile      string
	RefreshTick  time.Duration
	FlashTimeout time.Duration
}

// data is the copy of store contents the views render from.
type data struct {
	servers    []server.Server
	files      []fileEntry
	queue      []library.QueueEntry
	wanted     []library.Movie
	status     map[int]library.Status
	movieCount int
	perServer  map[int]int
	current    flash.Message
	hasFlash   bool
	pending    int
	history    []flash.Message
	prefs      prefs.Prefs
	loadedAt   time.Time
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx          context.Context
	backend      Backend
	servers      *server.Registry
	library      *library.Library
	flash        *flash.Queue
	prefs        *prefs.Store
	logFile      string
	refreshTick  time.Duration
	flashTimeout time.Duration
	keys         keyMap

	// UI state
	theme       Theme
	currentView View
	width       int
	height      int
	ready       bool
	showHelp    bool
	modal       Modal
	selected    [viewCount]int

	// Data state
	data       data
	flashTimed string

	// Log state
	logViewport viewport.Model
	logs        logState
}

// New creates a new Bubble Tea model. Without registered servers it opens
// the add-server form.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	refreshTick := opts.RefreshTick
	if refreshTick <= 0 {
		refreshTick = DefaultUIInterval
	}
	flashTimeout := opts.FlashTimeout
	if flashTimeout <= 0 {
		flashTimeout = DefaultFlashTimeout
	}

	m := Model{
		ctx:          ctx,
		backend:      opts.Backend,
		servers:      opts.Servers,
		library:      opts.Library,
		flash:        opts.Flash,
		prefs:        opts.Prefs,
		logFile:      opts.LogFile,
		refreshTick:  refreshTick,
		flashTimeout: flashTimeout,
		keys:         DefaultKeyMap(),
		currentView:  ViewLibrary,
		logs:         logState{follow: true},
	}
	m.data = m.load()
	m.theme = GetTheme(m.data.prefs.Theme)

	if !m.servers.HasServer() {
		m.currentView = ViewServers
		m.modal = newServerForm(m.backend, nil, true)
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		tickCmd(m.refreshTick),
		m.loadCmd(),
	)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.logViewport = viewport.New(m.width-2, m.contentHeight()-2)
		}
		m.ready = true
		m.resizeLogViewport()
		return m, nil

	case tickMsg:
		return m.handleTick()

	case changedMsg:
		return m, m.loadCmd()

	case dataMsg:
		return m.applyData(data(msg))

	case flashExpiredMsg:
		if current, ok := m.flash.Current(); ok && current.ID == msg.id {
			m.flash.DismissCurrent()
		}
		return m, m.loadCmd()

	case syncDoneMsg:
		m.reportSync(msg)
		return m, m.loadCmd()

	case serverSavedMsg:
		return m.handleServerSaved(msg)

	case serverRemovedMsg:
		m.flash.Enqueue(flash.Message{Type: flash.Info, Title: "Server removed", Text: msg.name})
		return m, m.loadCmd()

	case logsMsg:
		m.handleLogs(msg)
		return m, nil
	}

	if m.modal != nil {
		var cmd tea.Cmd
		var closed bool
		m.modal, cmd, closed = m.modal.Update(msg, m.keys)
		if closed {
			m.modal = nil
		}
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	if m.modal != nil {
		return m.modal.View(m.theme, m.width, m.height)
	}
	return m.renderMain()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	if m.modal != nil {
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		var cmd tea.Cmd
		var closed bool
		m.modal, cmd, closed = m.modal.Update(msg, m.keys)
		if closed {
			m.modal = nil
			return m, tea.Batch(cmd, m.loadCmd())
		}
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil
	case key.Matches(msg, m.keys.CycleTheme):
		next := NextTheme(m.theme.Name)
		m.theme = GetTheme(next)
		m.prefs.SetTheme(next)
		return m, nil
	case key.Matches(msg, m.keys.CycleLanguage):
		next := prefs.NextLanguage(m.prefs.Get().Language)
		m.prefs.SetLanguage(next, false)
		m.flash.Enqueue(flash.Message{Type: flash.Info, Title: "Language", Text: next})
		return m, m.loadCmd()
	case key.Matches(msg, m.keys.Tab):
		return m.switchView(View((int(m.currentView) + 1) % int(viewCount)))
	case key.Matches(msg, m.keys.ShiftTab):
		return m.switchView(View((int(m.currentView) + int(viewCount) - 1) % int(viewCount)))
	case key.Matches(msg, m.keys.ViewServers):
		return m.switchView(ViewServers)
	case key.Matches(msg, m.keys.ViewLibrary):
		return m.switchView(ViewLibrary)
	case key.Matches(msg, m.keys.ViewQueue):
		return m.switchView(ViewQueue)
	case key.Matches(msg, m.keys.ViewWanted):
		return m.switchView(ViewWanted)
	case key.Matches(msg, m.keys.ViewFlash):
		return m.switchView(ViewFlash)
	case key.Matches(msg, m.keys.ViewLogs):
		return m.switchView(ViewLogs)
	case key.Matches(msg, m.keys.Escape):
		return m.switchView(ViewLibrary)
	case key.Matches(msg, m.keys.SyncAll):
		return m, m.syncAllCmd()
	case key.Matches(msg, m.keys.Sync):
		if id, ok := m.selectedServerID(); ok {
			return m, m.syncCmd(id)
		}
		return m, nil
	case key.Matches(msg, m.keys.AddServer):
		m.modal = newServerForm(m.backend, nil, false)
		return m, nil
	case key.Matches(msg, m.keys.DismissFlash):
		m.flash.DismissCurrent()
		return m, m.loadCmd()
	}

	switch m.currentView {
	case ViewServers:
		return m.handleServersKey(msg)
	case ViewFlash:
		if key.Matches(msg, m.keys.ClearHistory) {
			m.flash.ClearHistory()
			return m, m.loadCmd()
		}
	case ViewLogs:
		return m.handleLogsKey(msg)
	}
	m.moveSelection(msg)
	return m, nil
}

func (m Model) switchView(v View) (tea.Model, tea.Cmd) {
	m.currentView = v
	if v == ViewLogs {
		return m, m.refreshLogs()
	}
	return m, nil
}

func (m Model) handleServersKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	sel, ok := m.selectedServer()
	switch {
	case key.Matches(msg, m.keys.EditServer):
		if ok {
			m.modal = newServerForm(m.backend, &sel, false)
		}
		return m, nil
	case key.Matches(msg, m.keys.RemoveServer):
		if ok {
			m.modal = &confirmRemove{backend: m.backend, id: sel.IDValue(), name: sel.Name}
		}
		return m, nil
	}
	m.moveSelection(msg)
	return m, nil
}

// moveSelection applies list navigation keys to the current view.
func (m *Model) moveSelection(msg tea.KeyMsg) {
	count := m.listLen(m.currentView)
	if count == 0 {
		return
	}
	sel := &m.selected[m.currentView]
	switch {
	case key.Matches(msg, m.keys.Down):
		if *sel < count-1 {
			*sel++
		}
	case key.Matches(msg, m.keys.Up):
		if *sel > 0 {
			*sel--
		}
	case key.Matches(msg, m.keys.Top):
		*sel = 0
	case key.Matches(msg, m.keys.Bottom):
		*sel = count - 1
	}
}

func (m Model) listLen(v View) int {
	switch v {
	case ViewServers:
		return len(m.data.servers)
	case ViewLibrary:
		return len(m.data.files)
	case ViewQueue:
		return len(m.data.queue)
	case ViewWanted:
		return len(m.data.wanted)
	case ViewFlash:
		return len(m.data.history)
	default:
		return 0
	}
}

func (m Model) selectedServer() (server.Server, bool) {
	sel := m.selected[ViewServers]
	if sel < 0 || sel >= len(m.data.servers) {
		return server.Server{}, false
	}
	return m.data.servers[sel], true
}

// selectedServerID resolves the server the current selection belongs to.
// With a single registered server that server is always selected.
func (m Model) selectedServerID() (int, bool) {
	sel := m.selected[m.currentView]
	switch m.currentView {
	case ViewServers:
		if s, ok := m.selectedServer(); ok {
			return s.IDValue(), true
		}
	case ViewLibrary:
		if sel < len(m.data.files) {
			return m.data.files[sel].ServerID, true
		}
	case ViewQueue:
		if sel < len(m.data.queue) {
			return m.data.queue[sel].ServerID, true
		}
	case ViewWanted:
		if sel < len(m.data.wanted) {
			return m.data.wanted[sel].ServerID, true
		}
	}
	if len(m.data.servers) == 1 {
		return m.data.servers[0].IDValue(), true
	}
	return 0, false
}

func (m Model) handleTick() (tea.Model, tea.Cmd) {
	cmds := []tea.Cmd{m.loadCmd(), tickCmd(m.refreshTick)}
	if m.currentView == ViewLogs && m.logs.follow {
		cmds = append(cmds, m.refreshLogs())
	}
	return m, tea.Batch(cmds...)
}

func (m Model) applyData(d data) (tea.Model, tea.Cmd) {
	m.data = d
	m.theme = GetTheme(d.prefs.Theme)
	for v := View(0); v < viewCount; v++ {
		if n := m.listLen(v); m.selected[v] >= n {
			m.selected[v] = max(n-1, 0)
		}
	}

	if d.hasFlash && d.current.ID != m.flashTimed {
		m.flashTimed = d.current.ID
		return m, flashTimerCmd(d.current.ID, m.flashTimeout)
	}
	return m, nil
}

func (m *Model) reportSync(msg syncDoneMsg) {
	if !msg.ok {
		return
	}
	if msg.all {
		m.flash.Enqueue(flash.Message{Type: flash.Success, Title: "Sync finished"})
		return
	}
	title := "Server synced"
	name := ""
	if s, err := m.servers.Get(msg.id); err == nil {
		name = s.Name
	}
	m.flash.Enqueue(flash.Message{Type: flash.Success, Title: title, Text: name})
}

func (m Model) handleServerSaved(msg serverSavedMsg) (tea.Model, tea.Cmd) {
	title := "Server added"
	if msg.edited {
		title = "Server saved"
	}
	m.flash.Enqueue(flash.Message{Type: flash.Success, Title: title, Text: msg.name})
	m.currentView = ViewServers
	if idx := slices.IndexFunc(m.servers.IDs(), func(id int) bool { return id == msg.id }); idx >= 0 {
		m.selected[ViewServers] = idx
	}
	return m, tea.Batch(m.loadCmd(), m.syncCmd(msg.id))
}

// fileEntry is a downloaded file joined with its movie.
type fileEntry struct {
	library.File
	Movie library.Movie
}

// load copies the store contents the views need. Files are listed newest
// first.
func (m Model) load() data {
	byNew := m.library.MoviesWithFileByNew()
	files := make([]fileEntry, 0, len(byNew))
	for i := len(byNew) - 1; i >= 0; i-- {
		f := byNew[i]
		mv, _ := m.library.Movie(f.ServerID, f.ImdbID)
		files = append(files, fileEntry{File: f, Movie: mv})
	}

	snap := m.library.Snapshot()
	perServer := make(map[int]int)
	for _, mv := range snap.Movies {
		perServer[mv.ServerID]++
	}
	current, hasFlash := m.flash.Current()
	return data{
		servers:    m.servers.List(),
		files:      files,
		perServer:  perServer,
		queue:      m.library.QueuedByProgress(),
		wanted:     m.library.WantedMovies(),
		status:     snap.Status,
		movieCount: len(snap.Movies),
		current:    current,
		hasFlash:   hasFlash,
		pending:    len(m.flash.Pending()),
		history:    m.flash.History(),
		prefs:      m.prefs.Get(),
		loadedAt:   time.Now(),
	}
}

// Messages

type tickMsg time.Time

type changedMsg struct{}

type dataMsg data

type flashExpiredMsg struct{ id string }

type syncDoneMsg struct {
	id  int
	all bool
	ok  bool
}

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func flashTimerCmd(id string, d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return flashExpiredMsg{id: id}
	})
}

func (m Model) loadCmd() tea.Cmd {
	return func() tea.Msg {
		return dataMsg(m.load())
	}
}

func (m Model) syncCmd(id int) tea.Cmd {
	backend, ctx := m.backend, m.ctx
	return func() tea.Msg {
		return syncDoneMsg{id: id, ok: backend.Sync(ctx, id)}
	}
}

func (m Model) syncAllCmd() tea.Cmd {
	backend, ctx := m.backend, m.ctx
	return func() tea.Msg {
		backend.SyncAll(ctx)
		return syncDoneMsg{all: true, ok: true}
	}
}

// Run starts the Bubble Tea program. Store changes trigger a redraw.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))

	notify := func() { go p.Send(changedMsg{}) }
	cancels := []func(){
		opts.Servers.Subscribe(notify),
		opts.Library.Subscribe(notify),
		opts.Flash.Subscribe(notify),
		opts.Prefs.Subscribe(notify),
	}
	defer func() {
		for _, cancel := range cancels {
			cancel()
		}
	}()

	_, err := p.Run()
	return err
}
