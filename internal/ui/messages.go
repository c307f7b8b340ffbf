package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderFlashHistory lists dismissed messages, newest first.
func (m Model) renderFlashHistory() string {
	height := m.contentHeight()
	if len(m.data.history) == 0 {
		styles := m.theme.Styles()
		return lipgloss.Place(m.width, height, lipgloss.Center, lipgloss.Center, styles.MutedText.Render("No messages."))
	}

	rows := make([]string, 0, len(m.data.history))
	for _, msg := range m.data.history {
		row := msg.Date.Local().Format("01-02 15:04:05") + "  " + padRight(strings.ToUpper(flashLabel(msg.Type)), 6) + msg.Title
		if msg.Text != "" {
			row += " – " + msg.Text
		}
		rows = append(rows, row)
	}
	list := m.renderRows(rows, m.selected[ViewFlash], m.width-2, height-2, m.theme.FocusBg)
	return m.renderTitledBox("Messages", list, m.width, height, true)
}
