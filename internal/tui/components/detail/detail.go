package detail

import (
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var titleStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("252")).
	Bold(true)

// Model is a scrollable read-only page, used for a completed workout.
type Model struct {
	viewport viewport.Model
	title    string
	body     string
	open     bool
}

func New(width, height int) Model {
	return Model{viewport: viewport.New(width, height)}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	return lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render(m.title), m.viewport.View())
}

func (m *Model) SetSize(width, height int) {
	m.viewport.Width = width
	// One line goes to the title
	m.viewport.Height = max(1, height-1)
	m.viewport.SetContent(m.body)
}

// Show opens the page with new content, scrolled to the top.
func (m *Model) Show(title, body string) {
	m.title = title
	m.body = body
	m.open = true
	m.viewport.SetContent(body)
	m.viewport.GotoTop()
}

func (m *Model) Close() {
	m.open = false
}

func (m Model) Open() bool {
	return m.open
}
