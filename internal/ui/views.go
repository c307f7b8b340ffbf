package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/marquee/internal/library"
)

// renderSplit renders a list pane next to a detail pane.
func (m Model) renderSplit(title string, rows []string, emptyMsg, detailTitle, detail string) string {
	height := m.contentHeight()
	if len(rows) == 0 {
		styles := m.theme.Styles()
		return lipgloss.Place(m.width, height, lipgloss.Center, lipgloss.Center, styles.MutedText.Render(emptyMsg))
	}

	lw := listWidth(m.width)
	dw := m.width - lw
	list := m.renderRows(rows, m.selected[m.currentView], lw-2, height-2, m.theme.FocusBg)
	return lipgloss.JoinHorizontal(lipgloss.Top,
		m.renderTitledBox(title, list, lw, height, true),
		m.renderTitledBox(detailTitle, detail, dw, height, false),
	)
}

// detailWriter builds label/value lines on the pane background.
type detailWriter struct {
	b       strings.Builder
	bg      BgStyle
	bgColor string
	styles  Styles
	width   int
}

func (m Model) newDetailWriter(width int) *detailWriter {
	return &detailWriter{
		bg:      NewBgStyle(m.theme.SurfaceAlt),
		bgColor: m.theme.SurfaceAlt,
		styles:  m.theme.Styles(),
		width:   width,
	}
}

func (w *detailWriter) line(label, value string) {
	if strings.TrimSpace(value) == "" {
		return
	}
	w.b.WriteString(w.bg.Render(padRight(label, 14), w.styles.MutedText))
	w.b.WriteString(w.bg.Render(truncate(value, max(w.width-15, 8)), w.styles.Text))
	w.b.WriteString("\n")
}

func (w *detailWriter) styled(label, value string, style lipgloss.Style) {
	if strings.TrimSpace(value) == "" {
		return
	}
	w.b.WriteString(w.bg.Render(padRight(label, 14), w.styles.MutedText))
	w.b.WriteString(w.bg.Render(truncate(value, max(w.width-15, 8)), style))
	w.b.WriteString("\n")
}

func (w *detailWriter) heading(text string) {
	w.b.WriteString(w.bg.Render(text, w.styles.AccentText.Bold(true)))
	w.b.WriteString("\n")
}

func (w *detailWriter) paragraph(text string) {
	if strings.TrimSpace(text) == "" {
		return
	}
	w.b.WriteString("\n")
	w.b.WriteString(w.styles.Text.Background(lipgloss.Color(w.bgColor)).Width(max(w.width, 10)).Render(text))
	w.b.WriteString("\n")
}

func (w *detailWriter) String() string {
	return strings.TrimRight(w.b.String(), "\n")
}

func (m Model) detailWidth() int {
	return m.width - listWidth(m.width) - 4
}

func (m Model) serverName(id int) string {
	for _, s := range m.data.servers {
		if s.IDValue() == id {
			return s.Name
		}
	}
	return fmt.Sprintf("server %d", id)
}

func movieTitle(mv library.Movie) string {
	title := strings.TrimSpace(mv.Title)
	if title == "" {
		title = mv.ImdbID
	}
	if mv.Year > 0 {
		title = fmt.Sprintf("%s (%d)", title, mv.Year)
	}
	return title
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
