package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/marquee/internal/server"
)

func (m Model) renderServers() string {
	rows := make([]string, 0, len(m.data.servers))
	for _, s := range m.data.servers {
		rows = append(rows, fmt.Sprintf("%s · %s · %s", s.Name, s.URI, m.syncLabel(s.IDValue())))
	}

	detail := ""
	if s, ok := m.selectedServer(); ok {
		detail = m.serverDetail(s)
	}
	return m.renderSplit("Servers", rows, "No servers yet. Press a to add one.", "Server", detail)
}

func (m Model) serverDetail(s server.Server) string {
	w := m.newDetailWriter(m.detailWidth())
	w.heading(s.Name)
	w.line("Address", s.URI)
	w.line("Local address", s.URILocal)
	w.line("Local networks", strings.Join(s.LocalNetworks, ", "))
	w.line("API key", maskKey(s.APIKey))
	w.styled("Icon", s.Icon, lipgloss.NewStyle().Foreground(lipgloss.Color(s.IconColor)))
	w.line("Movies", fmt.Sprintf("%d", m.data.perServer[s.IDValue()]))

	st, ok := m.data.status[s.IDValue()]
	if ok {
		if !st.LastSynced.IsZero() {
			w.line("Last synced", st.LastSynced.Format("2006-01-02 15:04:05"))
		}
		if !st.LastAttempt.IsZero() {
			w.line("Last attempt", st.LastAttempt.Format("2006-01-02 15:04:05"))
		}
		if st.LastError != nil {
			w.styled("Last error", st.LastError.Error(), w.styles.DangerText)
		}
	}
	return w.String()
}

func (m Model) syncLabel(id int) string {
	st, ok := m.data.status[id]
	switch {
	case !ok:
		return "never synced"
	case st.IsOffline():
		return fmt.Sprintf("offline (%d failures)", st.ConsecutiveFailures)
	case st.LastError != nil:
		return "last sync failed"
	case st.LastSynced.IsZero():
		return "never synced"
	default:
		return "synced " + humanizeDuration(m.data.loadedAt.Sub(st.LastSynced)) + " ago"
	}
}

func maskKey(apiKey string) string {
	r := []rune(apiKey)
	if len(r) <= 4 {
		return strings.Repeat("•", len(r))
	}
	return strings.Repeat("•", len(r)-4) + string(r[len(r)-4:])
}
