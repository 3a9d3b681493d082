package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/liftlog/internal/cli"
	"github.com/julianstephens/liftlog/internal/constants"
	"github.com/julianstephens/liftlog/internal/history"
	"github.com/julianstephens/liftlog/internal/logger"
	"github.com/julianstephens/liftlog/internal/models"
	"github.com/julianstephens/liftlog/internal/session"
	"github.com/julianstephens/liftlog/internal/tui/components/detail"
	"github.com/julianstephens/liftlog/internal/tui/components/historylist"
	"github.com/julianstephens/liftlog/internal/tui/components/trainerlist"
)

var tabs = []struct {
	title string
	state constants.SessionState
}{
	{"Workout", constants.StateWorkout},
	{"History", constants.StateHistory},
	{"Trainers", constants.StateTrainers},
}

type tickMsg time.Time

// formValues backs the huh forms. It lives behind a pointer so the bindings
// survive the Model being copied on every Update.
type formValues struct {
	Confirmed    bool
	TrainerID    string
	TrainerName  string
	Notes        string
	Sleep        string
	SleepQuality int
	Fatigue      int
	Stress       int
	Mood         int
	Caffeine     bool
}

type Model struct {
	ctx      *cli.Context
	sess     *session.Session
	editor   *Editor
	state    constants.SessionState
	returnTo constants.SessionState
	keys     KeyMap
	help     help.Model
	history  historylist.Model
	detail   detail.Model
	trainers trainerlist.Model
	form     *huh.Form
	values   *formValues
	// pending runs when the open form is submitted; confirmations only run
	// it on yes.
	pending   func(m *Model) tea.Cmd
	summaries map[string]string
	live      models.Stats
	status    string
	errMsg    string
	quitting  bool
	width     int
	height    int
}

// NewModel builds the TUI around a started session whose view is editor.
func NewModel(ctx *cli.Context, sess *session.Session, editor *Editor) Model {
	m := Model{
		ctx:       ctx,
		sess:      sess,
		editor:    editor,
		state:     constants.StateWorkout,
		keys:      DefaultKeyMap(),
		help:      help.New(),
		history:   historylist.New(nil, 0, 0),
		detail:    detail.New(0, 0),
		trainers:  trainerlist.New(0, 0),
		values:    &formValues{},
		summaries: map[string]string{},
	}
	m.refreshWorkout()
	m.refreshHistory()
	m.refreshTrainers()
	return m
}

func (m Model) ShortHelp() []key.Binding {
	keys := []key.Binding{m.keys.Tab, m.keys.Quit, m.keys.Help}
	switch m.state {
	case constants.StateWorkout:
		keys = append(keys, m.keys.AddNormal, m.keys.AddSet, m.keys.Save, m.keys.Complete)
	case constants.StateHistory:
		if m.detail.Open() {
			keys = append(keys, m.keys.Back)
		}
	}
	return keys
}

func (m Model) FullHelp() [][]key.Binding {
	global := []key.Binding{m.keys.Tab, m.keys.ShiftTab, m.keys.Quit, m.keys.Help, m.keys.Back}
	if m.state != constants.StateWorkout {
		return [][]key.Binding{global}
	}
	full := m.keys.FullHelp()
	return append([][]key.Binding{global}, full[1:]...)
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, tick())
}

func tick() tea.Cmd {
	return tea.Tick(constants.StatsRefreshInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// refreshWorkout recomputes everything drawn around the editor: live stats
// and the history line under each exercise.
func (m *Model) refreshWorkout() {
	m.live = m.sess.LiveStats(m.ctx.Clock())
	unit := m.ctx.Unit()
	w := m.sess.Workout()
	summaries := make(map[string]string)
	for _, g := range w.Groups {
		for _, ex := range g.Exercises {
			summaries[ex.ExerciseID] = m.ctx.HistorySummary(ex, unit)
		}
	}
	m.summaries = summaries
}

func (m *Model) refreshHistory() {
	workouts, err := m.ctx.Manager.GetAllWorkouts()
	if err != nil {
		m.fail(err)
		return
	}
	workouts = history.Newest(workouts)
	cards := make([]history.Card, len(workouts))
	for i, w := range workouts {
		cards[i] = history.NewCard(w, m.ctx.Manager.TrainerName(w.TrainerID))
	}
	m.history.SetCards(cards)
}

func (m *Model) refreshTrainers() {
	trainers, err := m.ctx.Manager.GetTrainers()
	if err != nil {
		m.fail(err)
		return
	}
	workouts, err := m.ctx.Manager.GetAllWorkouts()
	if err != nil {
		m.fail(err)
		return
	}
	sessions := map[string]int{}
	for _, w := range workouts {
		if w.IsSelfDirected() {
			sessions[constants.SelfTrainerID]++
		} else {
			sessions[*w.TrainerID]++
		}
	}
	m.trainers.SetTrainers(trainers, sessions)
}

func (m *Model) fail(err error) {
	logger.Error("TUI action failed", "error", err)
	m.errMsg = err.Error()
	m.status = ""
}

func (m *Model) notify(msg string) {
	m.status = msg
	m.errMsg = ""
}
