package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/marquee/internal/logtail"
)

// logState holds the tail of the application log file.
type logState struct {
	entries []logtail.Entry
	follow  bool
	err     error
}

type logsMsg struct {
	entries []logtail.Entry
	err     error
}

// refreshLogs reads the tail of the log file in the background.
func (m Model) refreshLogs() tea.Cmd {
	path := m.logFile
	return func() tea.Msg {
		if path == "" {
			return logsMsg{}
		}
		lines, err := logtail.Read(path, LogTailLines)
		if err != nil {
			return logsMsg{err: err}
		}
		return logsMsg{entries: logtail.ParseLines(lines)}
	}
}

func (m *Model) handleLogs(msg logsMsg) {
	m.logs.err = msg.err
	if msg.err == nil {
		m.logs.entries = msg.entries
	}
	m.updateLogViewport()
}

func (m *Model) updateLogViewport() {
	m.resizeLogViewport()
	m.logViewport.Style = lipgloss.NewStyle().Background(lipgloss.Color(m.theme.FocusBg))
	m.logViewport.SetContent(m.renderLogContent())
	if m.logs.follow {
		m.logViewport.GotoBottom()
	}
}

func (m *Model) resizeLogViewport() {
	m.logViewport.Width = max(m.width-2, 0)
	m.logViewport.Height = max(m.contentHeight()-2, 0)
}

func (m Model) handleLogsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.ToggleFollow):
		m.logs.follow = !m.logs.follow
		if m.logs.follow {
			m.logViewport.GotoBottom()
			return m, m.refreshLogs()
		}
		return m, nil
	case key.Matches(msg, m.keys.Top):
		m.logs.follow = false
		m.logViewport.GotoTop()
		return m, nil
	case key.Matches(msg, m.keys.Bottom):
		m.logViewport.GotoBottom()
		return m, nil
	}

	var cmd tea.Cmd
	m.logViewport, cmd = m.logViewport.Update(msg)
	if !m.logViewport.AtBottom() {
		m.logs.follow = false
	}
	return m, cmd
}

func (m Model) renderLogs() string {
	title := "Logs"
	if m.logs.follow {
		title += " · following"
	}
	return m.renderTitledBox(title, m.logViewport.View(), m.width, m.contentHeight(), true)
}

func (m Model) renderLogContent() string {
	styles := m.theme.Styles()
	bg := NewBgStyle(m.theme.FocusBg)
	switch {
	case m.logs.err != nil:
		return bg.Render("Unable to read log: "+m.logs.err.Error(), styles.DangerText)
	case m.logFile == "":
		return bg.Render("File logging is disabled.", styles.MutedText)
	case len(m.logs.entries) == 0:
		return bg.Render("No log entries yet.", styles.MutedText)
	}

	lines := make([]string, 0, len(m.logs.entries))
	for _, e := range m.logs.entries {
		lines = append(lines, m.colorizeEntry(e, styles, bg))
	}
	return strings.Join(lines, "\n")
}

func (m Model) colorizeEntry(e logtail.Entry, styles Styles, bg BgStyle) string {
	if e.Level == "" && e.Time.IsZero() {
		return bg.Render(e.Raw, styles.Text)
	}

	var b strings.Builder
	if !e.Time.IsZero() {
		b.WriteString(bg.Render(e.Time.Local().Format("2006-01-02 15:04:05"), styles.FaintText))
		b.WriteString(bg.Space())
	}
	level := strings.ToUpper(e.Level)
	b.WriteString(bg.Render(padRight(level, 5), levelStyle(level, styles).Bold(true)))
	if e.Component != "" {
		b.WriteString(bg.Space())
		b.WriteString(bg.Render("["+e.Component+"]", styles.AccentText))
	}
	b.WriteString(bg.Space())
	b.WriteString(bg.Render("–", styles.FaintText))
	b.WriteString(bg.Space())
	b.WriteString(bg.Render(e.Message, styles.Text))
	for _, k := range e.FieldKeys() {
		b.WriteString(bg.Space())
		b.WriteString(bg.Render(k+"=", styles.MutedText))
		b.WriteString(bg.Render(e.Fields[k], styles.Text))
	}
	return b.String()
}

func levelStyle(level string, styles Styles) lipgloss.Style {
	switch level {
	case "INFO":
		return styles.SuccessText
	case "WARN":
		return styles.WarningText
	case "ERROR", "FATAL", "PANIC":
		return styles.DangerText
	case "DEBUG", "TRACE":
		return styles.InfoText
	default:
		return styles.Text
	}
}
