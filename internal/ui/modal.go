package ui

import (
	"cmp"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/marquee/internal/server"
)

// Modal is the interface for modal dialogs.
// The Update method returns the updated modal, a command, and a bool indicating if the modal should close.
type Modal interface {
	Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool)
	View(theme Theme, width, height int) string
}

type serverSavedMsg struct {
	id     int
	name   string
	edited bool
}

type serverRemovedMsg struct {
	id   int
	name string
}

const (
	defaultIcon      = "server"
	defaultIconColor = "#ffffff"
)

type formField struct {
	key   string
	label string
	input textinput.Model
}

// serverForm adds or edits a server. Validation errors are shown inline
// below the field they belong to.
type serverForm struct {
	backend    Backend
	base       server.Server
	fields     []formField
	focus      int
	errors     map[string]string
	general    string
	onboarding bool
}

func newServerForm(backend Backend, existing *server.Server, onboarding bool) *serverForm {
	base := server.Server{Icon: defaultIcon, IconColor: defaultIconColor}
	if existing != nil {
		base = *existing
	}

	f := &serverForm{backend: backend, base: base, onboarding: onboarding}
	f.fields = []formField{
		newField("name", "Name", "Living room", base.Name),
		newField("uri", "Address", "http://192.168.1.10:7878/api/v3", base.URI),
		newField("uriLocal", "Local address", "optional", base.URILocal),
		newField("localNetworks", "Local networks", "comma separated, optional", strings.Join(base.LocalNetworks, ", ")),
		newField("apiKey", "API Key", "", base.APIKey),
		newField("icon", "Icon", defaultIcon, base.Icon),
		newField("iconColor", "Icon color", defaultIconColor, base.IconColor),
	}
	f.fields[f.index("apiKey")].input.EchoMode = textinput.EchoPassword
	f.fields[0].input.Focus()
	return f
}

func newField(name, label, placeholder, value string) formField {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = ""
	ti.SetValue(value)
	return formField{key: name, label: label, input: ti}
}

func (f *serverForm) editing() bool {
	return f.base.HasID()
}

func (f *serverForm) index(name string) int {
	for i, field := range f.fields {
		if field.key == name {
			return i
		}
	}
	return -1
}

func (f *serverForm) value(name string) string {
	for _, field := range f.fields {
		if field.key == name {
			return field.input.Value()
		}
	}
	return ""
}

func (f *serverForm) record() server.Server {
	s := f.base
	s.Name = f.value("name")
	s.URI = strings.TrimSpace(f.value("uri"))
	s.URILocal = strings.TrimSpace(f.value("uriLocal"))
	s.APIKey = strings.TrimSpace(f.value("apiKey"))
	s.Icon = cmp.Or(strings.TrimSpace(f.value("icon")), defaultIcon)
	s.IconColor = cmp.Or(strings.TrimSpace(f.value("iconColor")), defaultIconColor)
	s.LocalNetworks = nil
	for _, part := range strings.Split(f.value("localNetworks"), ",") {
		if part = strings.TrimSpace(part); part != "" {
			s.LocalNetworks = append(s.LocalNetworks, part)
		}
	}
	return s
}

func (f *serverForm) setFocus(i int) tea.Cmd {
	f.fields[f.focus].input.Blur()
	f.focus = (i + len(f.fields)) % len(f.fields)
	return f.fields[f.focus].input.Focus()
}

func (f *serverForm) submit() (Modal, tea.Cmd, bool) {
	rec := f.record()
	id, err := f.backend.SaveServer(rec)
	if err != nil {
		if fields, ok := server.FieldErrors(err); ok {
			f.errors = fields
			f.general = ""
		} else {
			f.errors = nil
			f.general = err.Error()
		}
		return f, nil, false
	}
	saved := serverSavedMsg{id: id, name: rec.Name, edited: f.editing()}
	return f, func() tea.Msg { return saved }, true
}

// Update implements Modal.
func (f *serverForm) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		f.fields[f.focus].input, cmd = f.fields[f.focus].input.Update(msg)
		return f, cmd, false
	}

	switch {
	case keyMsg.Type == tea.KeyEsc:
		return f, nil, true
	case keyMsg.String() == "ctrl+s":
		return f.submit()
	case key.Matches(keyMsg, keys.Submit):
		if f.focus == len(f.fields)-1 {
			return f.submit()
		}
		return f, f.setFocus(f.focus + 1), false
	case key.Matches(keyMsg, keys.NextField):
		return f, f.setFocus(f.focus + 1), false
	case key.Matches(keyMsg, keys.PrevField):
		return f, f.setFocus(f.focus - 1), false
	}

	var cmd tea.Cmd
	f.fields[f.focus].input, cmd = f.fields[f.focus].input.Update(msg)
	return f, cmd, false
}

// View implements Modal.
func (f *serverForm) View(theme Theme, width, height int) string {
	styles := theme.Styles()
	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Muted)).Width(16)
	focusLabel := lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Accent)).Bold(true).Width(16)

	title := "Add server"
	switch {
	case f.editing():
		title = "Edit server"
	case f.onboarding:
		title = "Welcome! Add your first server"
	}

	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render(title))
	b.WriteString("\n\n")
	for i, field := range f.fields {
		label := labelStyle
		if i == f.focus {
			label = focusLabel
		}
		b.WriteString(label.Render(field.label))
		b.WriteString(field.input.View())
		b.WriteString("\n")
		if msg := f.errors[field.key]; msg != "" {
			b.WriteString(lipgloss.NewStyle().PaddingLeft(16).Render(styles.DangerText.Render(msg)))
			b.WriteString("\n")
		}
	}
	if f.general != "" {
		b.WriteString("\n")
		b.WriteString(styles.DangerText.Render(f.general))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render("tab next · enter/ctrl+s save · esc cancel"))

	return placeModal(theme, width, height, b.String(), 64)
}

// confirmRemove asks before a server is removed.
type confirmRemove struct {
	backend Backend
	id      int
	name    string
}

// Update implements Modal.
func (c *confirmRemove) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return c, nil, false
	}
	switch {
	case key.Matches(keyMsg, keys.Confirm):
		c.backend.RemoveServer(c.id)
		removed := serverRemovedMsg{id: c.id, name: c.name}
		return c, func() tea.Msg { return removed }, true
	case key.Matches(keyMsg, keys.Cancel):
		return c, nil, true
	}
	return c, nil, false
}

// View implements Modal.
func (c *confirmRemove) View(theme Theme, width, height int) string {
	styles := theme.Styles()
	body := styles.Text.Bold(true).Render(fmt.Sprintf("Remove %s?", c.name)) + "\n\n" +
		styles.MutedText.Render("Its library data is dropped as well.") + "\n\n" +
		styles.FaintText.Render("y confirm · n/esc cancel")
	return placeModal(theme, width, height, body, 44)
}

func placeModal(theme Theme, width, height int, content string, modalWidth int) string {
	modal := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(theme.Accent)).
		Padding(1, 2).
		Width(modalWidth)

	return lipgloss.Place(
		width,
		height,
		lipgloss.Center,
		lipgloss.Center,
		modal.Render(content),
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(theme.Background)),
	)
}
