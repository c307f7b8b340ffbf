package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/marquee/internal/flash"
)

// renderMain renders header, command bar, flash banner and the current view.
func (m Model) renderMain() string {
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderCommandBar())
	b.WriteString("\n")
	if m.data.hasFlash {
		b.WriteString(m.renderFlashBanner())
		b.WriteString("\n")
	}
	b.WriteString(m.renderContent())
	return b.String()
}

// contentHeight is the height left for the current view.
func (m Model) contentHeight() int {
	h := m.height - 2
	if m.data.hasFlash {
		h--
	}
	return max(h, 3)
}

func (m Model) renderContent() string {
	switch m.currentView {
	case ViewServers:
		return m.renderServers()
	case ViewLibrary:
		return m.renderLibrary()
	case ViewQueue:
		return m.renderQueue()
	case ViewWanted:
		return m.renderWanted()
	case ViewFlash:
		return m.renderFlashHistory()
	case ViewLogs:
		return m.renderLogs()
	default:
		return ""
	}
}

// renderHeader renders the status bar.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	compact := m.width < LayoutCompactWidth

	parts := []string{bg.Render("marquee", styles.Logo)}

	if m.data.prefs.NetworkActivity {
		parts = append(parts, bg.Render("● Syncing", styles.InfoText))
	}

	offline := 0
	var lastSync time.Time
	for _, st := range m.data.status {
		if st.IsOffline() {
			offline++
		}
		if st.LastSynced.After(lastSync) {
			lastSync = st.LastSynced
		}
	}

	parts = append(parts, counter(bg, styles, "Servers:", len(m.data.servers), styles.Text))
	if offline > 0 {
		parts = append(parts, bg.Render(fmt.Sprintf("%d offline", offline), styles.DangerText))
	}
	parts = append(parts,
		counter(bg, styles, "Movies:", m.data.movieCount, styles.Text),
		counter(bg, styles, "Queue:", len(m.data.queue), styles.AccentText),
		counter(bg, styles, "Wanted:", len(m.data.wanted), styles.WarningText),
	)

	if !compact {
		last := "never"
		if !lastSync.IsZero() {
			last = humanizeDuration(m.data.loadedAt.Sub(lastSync)) + " ago"
		}
		parts = append(parts, bg.Render("Synced:", styles.MutedText)+bg.Space()+bg.Render(last, styles.FaintText))
	}

	return styles.Header.Width(m.width).Render(bg.Join(parts, "  "))
}

func counter(bg BgStyle, styles Styles, label string, n int, valueStyle lipgloss.Style) string {
	return bg.Render(label, styles.MutedText) + bg.Space() + bg.Render(fmt.Sprintf("%d", n), valueStyle)
}

// renderCommandBar renders the key hints of the current view.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	type cmd struct{ key, desc string }
	var commands []cmd

	switch m.currentView {
	case ViewServers:
		commands = []cmd{
			{"a", "Add"},
			{"enter", "Edit"},
			{"x", "Remove"},
			{"s", "Sync"},
			{"S", "Sync all"},
		}
	case ViewFlash:
		commands = []cmd{
			{"d", "Dismiss"},
			{"C", "Clear"},
			{"j/k", "Navigate"},
		}
	case ViewLogs:
		followLabel := "Pause"
		if !m.logs.follow {
			followLabel = "Follow"
		}
		commands = []cmd{
			{"Space", followLabel},
			{"j/k", "Scroll"},
			{"g/G", "Top/Bottom"},
		}
	default:
		commands = []cmd{
			{"j/k", "Navigate"},
			{"s", "Sync"},
			{"S", "Sync all"},
		}
	}
	commands = append(commands, cmd{"tab", m.currentView.String()}, cmd{"?", "More"})

	colon := bg.Sep(":")
	segments := make([]string, 0, len(commands)+1)
	for _, c := range commands {
		segments = append(segments, bg.Render(c.key, styles.AccentText)+colon+bg.Render(c.desc, styles.MutedText))
	}
	segments = append(segments, bg.Render("T", styles.AccentText)+colon+bg.Render(m.theme.Name, styles.FaintText))

	return styles.Header.Width(m.width).Render(strings.Join(segments, bg.Spaces(2)))
}

// renderFlashBanner renders the message currently being displayed.
func (m Model) renderFlashBanner() string {
	msg := m.data.current
	color := m.theme.FlashColor(string(msg.Type))
	bg := NewBgStyle(m.theme.Background)

	badge := lipgloss.NewStyle().
		Foreground(lipgloss.Color(m.theme.Background)).
		Background(lipgloss.Color(color)).
		Bold(true).
		Padding(0, 1).
		Render(strings.ToUpper(flashLabel(msg.Type)))

	line := badge + bg.Space() + bg.Render(msg.Title, lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Bold(true))
	if msg.Text != "" {
		line += bg.Render(" – ", lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.Faint)))
		line += bg.Render(truncate(msg.Text, max(m.width-len(msg.Title)-16, 10)), lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.Text)))
	}
	if m.data.pending > 1 {
		line += bg.Render(fmt.Sprintf("  +%d", m.data.pending-1), lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.Muted)))
	}
	return lipgloss.NewStyle().Background(lipgloss.Color(m.theme.Background)).Width(m.width).MaxWidth(m.width).Render(line)
}

func flashLabel(t flash.Type) string {
	switch t {
	case flash.Success:
		return "ok"
	case flash.Warning:
		return "warn"
	case flash.Danger:
		return "error"
	default:
		return "info"
	}
}
