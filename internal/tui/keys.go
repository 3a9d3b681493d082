package tui

import "github.com/charmbracelet/bubbles/key"

// Workout-tab actions use ctrl and alt chords so that plain keys reach the
// focused input.
type KeyMap struct {
	Tab         key.Binding
	ShiftTab    key.Binding
	Quit        key.Binding
	Help        key.Binding
	Back        key.Binding
	Next        key.Binding
	Prev        key.Binding
	Up          key.Binding
	Down        key.Binding
	Save        key.Binding
	AddNormal   key.Binding
	AddSuperset key.Binding
	AddToGroup  key.Binding
	AddSet      key.Binding
	Delete      key.Binding
	DeleteGroup key.Binding
	MoveUp      key.Binding
	MoveDown    key.Binding
	Trainer     key.Binding
	Condition   key.Binding
	Notes       key.Binding
	ExNotes     key.Binding
	Complete    key.Binding
	Discard     key.Binding
}

func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Quit, k.Help}
}

func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab, k.ShiftTab, k.Quit, k.Help},
		{k.Next, k.Prev, k.Up, k.Down, k.Save},
		{k.AddNormal, k.AddSuperset, k.AddToGroup, k.AddSet, k.Delete, k.DeleteGroup, k.MoveUp, k.MoveDown},
		{k.Trainer, k.Condition, k.Notes, k.ExNotes, k.Complete, k.Discard},
	}
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Tab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next tab"),
		),
		ShiftTab: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "prev tab"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "save & quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("f1"),
			key.WithHelp("f1", "toggle help"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Next: key.NewBinding(
			key.WithKeys("enter", "ctrl+n"),
			key.WithHelp("enter", "next field"),
		),
		Prev: key.NewBinding(
			key.WithKeys("ctrl+p"),
			key.WithHelp("ctrl+p", "prev field"),
		),
		Up: key.NewBinding(
			key.WithKeys("up"),
			key.WithHelp("↑", "row up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down"),
			key.WithHelp("↓", "row down"),
		),
		Save: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "save"),
		),
		AddNormal: key.NewBinding(
			key.WithKeys("ctrl+o"),
			key.WithHelp("ctrl+o", "add exercise"),
		),
		AddSuperset: key.NewBinding(
			key.WithKeys("ctrl+g"),
			key.WithHelp("ctrl+g", "add superset"),
		),
		AddToGroup: key.NewBinding(
			key.WithKeys("ctrl+y"),
			key.WithHelp("ctrl+y", "add to group"),
		),
		AddSet: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("ctrl+r", "add set"),
		),
		Delete: key.NewBinding(
			key.WithKeys("ctrl+x"),
			key.WithHelp("ctrl+x", "delete set/exercise"),
		),
		DeleteGroup: key.NewBinding(
			key.WithKeys("alt+x"),
			key.WithHelp("alt+x", "delete group"),
		),
		MoveUp: key.NewBinding(
			key.WithKeys("alt+up"),
			key.WithHelp("alt+↑", "move group up"),
		),
		MoveDown: key.NewBinding(
			key.WithKeys("alt+down"),
			key.WithHelp("alt+↓", "move group down"),
		),
		Trainer: key.NewBinding(
			key.WithKeys("ctrl+t"),
			key.WithHelp("ctrl+t", "trainer"),
		),
		Condition: key.NewBinding(
			key.WithKeys("alt+c"),
			key.WithHelp("alt+c", "condition"),
		),
		Notes: key.NewBinding(
			key.WithKeys("alt+n"),
			key.WithHelp("alt+n", "workout notes"),
		),
		ExNotes: key.NewBinding(
			key.WithKeys("alt+e"),
			key.WithHelp("alt+e", "exercise notes"),
		),
		Complete: key.NewBinding(
			key.WithKeys("ctrl+l"),
			key.WithHelp("ctrl+l", "complete"),
		),
		Discard: key.NewBinding(
			key.WithKeys("ctrl+q"),
			key.WithHelp("ctrl+q", "discard"),
		),
	}
}
