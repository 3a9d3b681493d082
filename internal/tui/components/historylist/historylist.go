package historylist

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/liftlog/internal/history"
)

type ShowWorkoutMsg struct {
	ID string
}

type DeleteWorkoutMsg struct {
	ID string
}

type Item struct {
	Card history.Card
}

func (i Item) Title() string {
	c := i.Card
	return fmt.Sprintf("%s %s %s · %s", c.Weekday, c.Date, c.StartTime, c.Trainer)
}

func (i Item) Description() string {
	c := i.Card
	return fmt.Sprintf("%d ex · %d sets · %s · RPE %s · %s", c.Exercises, c.Sets, c.VolumeK(), c.RPE(), c.NameLine())
}

func (i Item) FilterValue() string { return i.Card.Date + " " + i.Card.NameLine() }

type KeyMap struct {
	Show   key.Binding
	Delete key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Show: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "details"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
	}
}

type Model struct {
	list list.Model
	keys KeyMap
}

func New(cards []history.Card, width, height int) Model {
	l := list.New(items(cards), list.NewDefaultDelegate(), width, height)
	l.Title = "History"
	l.SetShowTitle(false)
	l.SetShowHelp(false)

	keys := DefaultKeyMap()
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Show, keys.Delete}
	}
	l.AdditionalFullHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Show, keys.Delete}
	}

	return Model{list: l, keys: keys}
}

func items(cards []history.Card) []list.Item {
	out := make([]list.Item, len(cards))
	for i, c := range cards {
		out[i] = Item{Card: c}
	}
	return out
}

func (m *Model) SetCards(cards []history.Card) {
	m.list.SetItems(items(cards))
}

func (m Model) Len() int {
	return len(m.list.Items())
}

// Filtering reports whether the filter input has the keyboard.
func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd

	if msg, ok := msg.(tea.KeyMsg); ok && !m.Filtering() {
		switch {
		case key.Matches(msg, m.keys.Show):
			if i, ok := m.list.SelectedItem().(Item); ok {
				return m, func() tea.Msg { return ShowWorkoutMsg{ID: i.Card.WorkoutID} }
			}
		case key.Matches(msg, m.keys.Delete):
			if i, ok := m.list.SelectedItem().(Item); ok {
				return m, func() tea.Msg { return DeleteWorkoutMsg{ID: i.Card.WorkoutID} }
			}
		}
	}

	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.list.Items()) == 0 && !m.Filtering() {
		return "\n  No completed workouts yet.\n  Finish one on the Workout tab with ctrl+l."
	}
	return m.list.View()
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}
