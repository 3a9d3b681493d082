package tui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/liftlog/internal/cli"
	"github.com/julianstephens/liftlog/internal/config"
	"github.com/julianstephens/liftlog/internal/constants"
	"github.com/julianstephens/liftlog/internal/session"
	"github.com/julianstephens/liftlog/internal/storage"
	"github.com/julianstephens/liftlog/internal/tui/components/historylist"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func setupTestModel(t *testing.T) (Model, *clock) {
	t.Helper()
	store := storage.NewMemoryStore()
	require.NoError(t, store.Init())
	cfg := config.Default()
	cfg.DataDir = t.TempDir()

	clk := &clock{t: time.Date(2026, 10, 19, 18, 0, 0, 0, time.Local)}
	ctx := cli.NewContext(store, cfg)
	ctx.Now = clk.now

	editor := NewEditor()
	sess := session.New(ctx.Manager, editor, ctx.Now)
	_, err := sess.Start()
	require.NoError(t, err)
	return NewModel(ctx, sess, editor), clk
}

func press(m Model, msgs ...tea.Msg) Model {
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestAddExerciseAndSet(t *testing.T) {
	m, _ := setupTestModel(t)

	m = press(m, tea.KeyMsg{Type: tea.KeyCtrlO}, runes("Bench"), tea.KeyMsg{Type: tea.KeyCtrlR})

	w := m.sess.Workout()
	require.Len(t, w.Groups, 1)
	ex := w.Groups[0].Exercises[0]
	assert.Equal(t, "Bench", ex.ExerciseName, "pending edits are pulled before the set is added")
	assert.Len(t, ex.Sets, 2)

	focused, ok := m.editor.Focused()
	require.True(t, ok)
	assert.Equal(t, 2, focused.SetNumber)
	assert.Equal(t, session.FieldWeight, focused.Field)

	draft, ok, err := m.ctx.Manager.GetCurrentWorkout()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Bench", draft.Groups[0].Exercises[0].ExerciseName)
	assert.Contains(t, m.summaries, ex.ExerciseID)
}

func TestSupersetAndAddToGroup(t *testing.T) {
	m, _ := setupTestModel(t)

	m = press(m, tea.KeyMsg{Type: tea.KeyCtrlG}, tea.KeyMsg{Type: tea.KeyCtrlY})

	w := m.sess.Workout()
	require.Len(t, w.Groups, 1)
	assert.Len(t, w.Groups[0].Exercises, 3)
	focused, _ := m.editor.Focused()
	assert.Equal(t, w.Groups[0].Exercises[2].ExerciseID, focused.ExerciseID)
}

func TestLeavingFieldSaves(t *testing.T) {
	m, _ := setupTestModel(t)
	m = press(m, tea.KeyMsg{Type: tea.KeyCtrlO}, runes("Squat"))

	draft, _, err := m.ctx.Manager.GetCurrentWorkout()
	require.NoError(t, err)
	assert.Empty(t, draft.Groups[0].Exercises[0].ExerciseName, "typing alone does not persist")

	m = press(m, tea.KeyMsg{Type: tea.KeyEnter})
	draft, _, err = m.ctx.Manager.GetCurrentWorkout()
	require.NoError(t, err)
	assert.Equal(t, "Squat", draft.Groups[0].Exercises[0].ExerciseName)
}

func TestDeleteSetAndExercise(t *testing.T) {
	m, _ := setupTestModel(t)
	m = press(m, tea.KeyMsg{Type: tea.KeyCtrlO}, tea.KeyMsg{Type: tea.KeyCtrlR})

	// Sets go without asking
	m = press(m, tea.KeyMsg{Type: tea.KeyCtrlX})
	w := m.sess.Workout()
	require.Len(t, w.Groups, 1)
	assert.Len(t, w.Groups[0].Exercises[0].Sets, 1)

	// Exercises ask first; esc keeps everything
	require.True(t, m.editor.FocusExercise(w.Groups[0].GroupID, w.Groups[0].Exercises[0].ExerciseID))
	m = press(m, tea.KeyMsg{Type: tea.KeyCtrlX})
	assert.Equal(t, constants.StateConfirmDelete, m.state)
	require.NotNil(t, m.form)
	m = press(m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, constants.StateWorkout, m.state)
	assert.Len(t, m.sess.Workout().Groups, 1)

	// Confirming runs the deletion and the group cascades away
	m = press(m, tea.KeyMsg{Type: tea.KeyCtrlX})
	run := m.pending
	require.NotNil(t, run)
	m.closeForm()
	run(&m)
	assert.Empty(t, m.sess.Workout().Groups)
}

func TestMoveGroup(t *testing.T) {
	m, _ := setupTestModel(t)
	m = press(m, tea.KeyMsg{Type: tea.KeyCtrlO}, tea.KeyMsg{Type: tea.KeyCtrlG})
	before := m.sess.Workout()
	require.Len(t, before.Groups, 2)

	m = press(m, tea.KeyMsg{Type: tea.KeyUp, Alt: true})
	after := m.sess.Workout()
	assert.Equal(t, before.Groups[1].GroupID, after.Groups[0].GroupID)
	assert.Equal(t, 1, after.Groups[0].Order)
	assert.Equal(t, 2, after.Groups[1].Order)
}

func TestTabsCycle(t *testing.T) {
	m, _ := setupTestModel(t)
	tab := tea.KeyMsg{Type: tea.KeyTab}

	m = press(m, tab)
	assert.Equal(t, constants.StateHistory, m.state)
	m = press(m, tab)
	assert.Equal(t, constants.StateTrainers, m.state)
	m = press(m, tab)
	assert.Equal(t, constants.StateWorkout, m.state)
	m = press(m, tea.KeyMsg{Type: tea.KeyShiftTab})
	assert.Equal(t, constants.StateTrainers, m.state)
}

func TestTickRefreshesDuration(t *testing.T) {
	m, clk := setupTestModel(t)
	assert.Equal(t, 0, m.live.Duration)

	clk.t = clk.t.Add(45 * time.Minute)
	next, cmd := m.Update(tickMsg(clk.t))
	m = next.(Model)
	assert.Equal(t, 45, m.live.Duration)
	assert.NotNil(t, cmd, "the ticker re-arms itself")
}

func TestCompleteMovesWorkoutToHistory(t *testing.T) {
	m, clk := setupTestModel(t)
	m = press(m, tea.KeyMsg{Type: tea.KeyCtrlO}, runes("Deadlift"))

	m = press(m, tea.KeyMsg{Type: tea.KeyCtrlL})
	assert.Equal(t, constants.StateConfirmComplete, m.state)

	clk.t = clk.t.Add(time.Hour)
	run := m.pending
	m.closeForm()
	run(&m)

	all, err := m.ctx.Manager.GetAllWorkouts()
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Deadlift", all[0].Groups[0].Exercises[0].ExerciseName)
	assert.Equal(t, 60, all[0].Stats.Duration)
	assert.Equal(t, 1, m.history.Len())
	assert.Empty(t, m.sess.Workout().Groups, "a fresh workout follows")
	assert.Empty(t, m.errMsg)

	// The completed workout opens in the detail page
	m = press(m, tea.WindowSizeMsg{Width: 120, Height: 40}, tea.KeyMsg{Type: tea.KeyTab}, historylist.ShowWorkoutMsg{ID: all[0].ID})
	assert.True(t, m.detail.Open())
	assert.Contains(t, m.View(), "Deadlift")
	m = press(m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.detail.Open())

	// Deleting it from history
	m = press(m, historylist.DeleteWorkoutMsg{ID: all[0].ID})
	assert.Equal(t, constants.StateConfirmDelete, m.state)
	run = m.pending
	m.closeForm()
	run(&m)
	assert.Equal(t, 0, m.history.Len())
	assert.Equal(t, constants.StateHistory, m.state)
}

func TestDiscardAsksFirst(t *testing.T) {
	m, _ := setupTestModel(t)
	m = press(m, tea.KeyMsg{Type: tea.KeyCtrlO})

	m = press(m, tea.KeyMsg{Type: tea.KeyCtrlQ})
	assert.Equal(t, constants.StateConfirmDiscard, m.state)
	assert.Contains(t, m.View(), "cannot be undone")

	m = press(m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Len(t, m.sess.Workout().Groups, 1)

	m = press(m, tea.KeyMsg{Type: tea.KeyCtrlQ})
	run := m.pending
	m.closeForm()
	run(&m)
	assert.Empty(t, m.sess.Workout().Groups)
	_, ok, err := m.ctx.Manager.GetCurrentWorkout()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestTrainerSelection(t *testing.T) {
	m, _ := setupTestModel(t)
	trainer, err := m.ctx.Manager.AddTrainer("Sam")
	require.NoError(t, err)

	m = press(m, tea.KeyMsg{Type: tea.KeyCtrlT})
	assert.Equal(t, constants.StateEditing, m.state)
	assert.Equal(t, constants.SelfTrainerID, m.values.TrainerID)

	m.values.TrainerID = trainer.ID
	run := m.pending
	m.closeForm()
	run(&m)
	w := m.sess.Workout()
	require.NotNil(t, w.TrainerID)
	assert.Equal(t, trainer.ID, *w.TrainerID)

	// Choosing self stores no reference
	m.values.TrainerID = constants.SelfTrainerID
	run(&m)
	assert.Nil(t, m.sess.Workout().TrainerID)
}

func TestRemoveTrainer(t *testing.T) {
	m, _ := setupTestModel(t)
	trainer, err := m.ctx.Manager.AddTrainer("Alex")
	require.NoError(t, err)

	removeTrainer(trainer.ID)(&m)
	assert.Empty(t, m.errMsg)
	trainers, err := m.ctx.Manager.GetTrainers()
	require.NoError(t, err)
	for _, tr := range trainers {
		assert.NotEqual(t, trainer.ID, tr.ID)
	}

	removeTrainer("missing")(&m)
	assert.NotEmpty(t, m.errMsg)
}

func TestQuitSavesDraft(t *testing.T) {
	m, _ := setupTestModel(t)
	m = press(m, tea.KeyMsg{Type: tea.KeyCtrlO}, runes("Curl"))

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	m = next.(Model)
	assert.True(t, m.quitting)
	require.NotNil(t, cmd)
	assert.Equal(t, "", m.View())

	draft, ok, err := m.ctx.Manager.GetCurrentWorkout()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Curl", draft.Groups[0].Exercises[0].ExerciseName)
}
