package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/marquee/internal/library"
)

func (m Model) renderQueue() string {
	barWidth := 12
	if m.width < LayoutCompactWidth {
		barWidth = 6
	}

	rows := make([]string, 0, len(m.data.queue))
	for _, q := range m.data.queue {
		rows = append(rows, fmt.Sprintf("%s %3.0f%% · %s · %s",
			progressBar(q.Progress(), barWidth), q.Progress()*100, queueTitle(q), strings.ToLower(q.Status)))
	}

	detail := ""
	if sel := m.selected[ViewQueue]; sel < len(m.data.queue) {
		detail = m.queueDetail(m.data.queue[sel])
	}
	return m.renderSplit("Queue · by progress", rows, "No active downloads.", "Download", detail)
}

func (m Model) queueDetail(q library.QueueEntry) string {
	w := m.newDetailWriter(m.detailWidth())
	w.heading(queueTitle(q))
	w.line("Server", m.serverName(q.ServerID))
	w.styled("Status", q.Status, lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.StatusColor(q.Status))))
	w.line("Tracking", q.TrackedDownloadStatus)
	w.line("Protocol", q.Protocol)
	w.line("Quality", q.Quality.Quality.Name)
	w.line("Size", formatBytes(int64(q.Size)))
	w.line("Remaining", formatBytes(int64(q.Sizeleft)))
	w.line("Progress", fmt.Sprintf("%.1f%%", q.Progress()*100))
	w.line("Time left", q.Timeleft)
	w.line("Release", q.Title)
	for _, sm := range q.StatusMessages {
		for _, text := range sm.Messages {
			w.styled("Message", text, w.styles.WarningText)
		}
	}
	return w.String()
}

func queueTitle(q library.QueueEntry) string {
	if q.Movie != nil && q.Movie.Title != "" {
		if q.Movie.Year > 0 {
			return fmt.Sprintf("%s (%d)", q.Movie.Title, q.Movie.Year)
		}
		return q.Movie.Title
	}
	if q.Title != "" {
		return q.Title
	}
	return q.ImdbID
}
