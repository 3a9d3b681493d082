package trainerlist

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"

	"github.com/julianstephens/liftlog/internal/constants"
	"github.com/julianstephens/liftlog/internal/models"
)

type AddTrainerMsg struct{}

type RemoveTrainerMsg struct {
	ID   string
	Name string
}

type Item struct {
	Trainer  models.Trainer
	Sessions int
}

func (i Item) Title() string { return i.Trainer.Name }

func (i Item) Description() string {
	if i.Trainer.ID == constants.SelfTrainerID {
		return fmt.Sprintf("built in · %d sessions", i.Sessions)
	}
	desc := fmt.Sprintf("%d sessions", i.Sessions)
	if ts, err := time.Parse(time.RFC3339, i.Trainer.CreatedAt); err == nil {
		desc += " · added " + humanize.Time(ts)
	}
	return desc
}

func (i Item) FilterValue() string { return i.Trainer.Name }

type KeyMap struct {
	Add    key.Binding
	Remove key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add trainer"),
		),
		Remove: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "remove trainer"),
		),
	}
}

type Model struct {
	list list.Model
	keys KeyMap
}

func New(width, height int) Model {
	l := list.New(nil, list.NewDefaultDelegate(), width, height)
	l.Title = "Trainers"
	l.SetShowTitle(false)
	l.SetShowHelp(false)

	keys := DefaultKeyMap()
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Add, keys.Remove}
	}
	l.AdditionalFullHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Add, keys.Remove}
	}

	return Model{list: l, keys: keys}
}

// SetTrainers replaces the list. sessions counts completed workouts per
// trainer id, with self-directed ones under the self sentinel.
func (m *Model) SetTrainers(trainers []models.Trainer, sessions map[string]int) {
	items := make([]list.Item, len(trainers))
	for i, t := range trainers {
		items[i] = Item{Trainer: t, Sessions: sessions[t.ID]}
	}
	m.list.SetItems(items)
}

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
		case key.Matches(msg, m.keys.Add):
			return m, func() tea.Msg { return AddTrainerMsg{} }
		case key.Matches(msg, m.keys.Remove):
			if i, ok := m.list.SelectedItem().(Item); ok && i.Trainer.ID != constants.SelfTrainerID {
				return m, func() tea.Msg { return RemoveTrainerMsg{ID: i.Trainer.ID, Name: i.Trainer.Name} }
			}
		}
	}

	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	return m.list.View()
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}
