package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/liftlog/internal/constants"
	"github.com/julianstephens/liftlog/internal/logger"
	"github.com/julianstephens/liftlog/internal/session"
	"github.com/julianstephens/liftlog/internal/tui/components/historylist"
	"github.com/julianstephens/liftlog/internal/tui/components/trainerlist"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil
	case tickMsg:
		m.live = m.sess.LiveStats(m.ctx.Clock())
		return m, tick()
	}

	if m.form != nil && isFormState(m.state) {
		return m.updateForm(msg)
	}

	switch msg := msg.(type) {
	case historylist.ShowWorkoutMsg:
		m.showWorkout(msg.ID)
		return m, nil
	case historylist.DeleteWorkoutMsg:
		cmd := m.openConfirm(constants.StateConfirmDelete, "Delete this workout from history?", deleteWorkout(msg.ID))
		return m, cmd
	case trainerlist.AddTrainerMsg:
		cmd := m.addTrainerForm()
		return m, cmd
	case trainerlist.RemoveTrainerMsg:
		cmd := m.openConfirm(constants.StateConfirmDelete,
			fmt.Sprintf("Remove trainer %s? Past workouts keep their reference.", msg.Name), removeTrainer(msg.ID))
		return m, cmd
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.saveDraft()
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, m.keys.Tab) && !m.filtering():
			m.switchTab(1)
			return m, nil
		case key.Matches(msg, m.keys.ShiftTab) && !m.filtering():
			m.switchTab(-1)
			return m, nil
		}
	}

	var cmd tea.Cmd
	switch m.state {
	case constants.StateWorkout:
		return m.updateWorkout(msg)
	case constants.StateHistory:
		if m.detail.Open() {
			if msg, ok := msg.(tea.KeyMsg); ok && key.Matches(msg, m.keys.Back) {
				m.detail.Close()
				return m, nil
			}
			m.detail, cmd = m.detail.Update(msg)
			return m, cmd
		}
		m.history, cmd = m.history.Update(msg)
	case constants.StateTrainers:
		m.trainers, cmd = m.trainers.Update(msg)
	}
	return m, cmd
}

func (m Model) filtering() bool {
	switch m.state {
	case constants.StateHistory:
		return m.history.Filtering()
	case constants.StateTrainers:
		return m.trainers.Filtering()
	}
	return false
}

func (m *Model) switchTab(dir int) {
	if m.state == constants.StateWorkout {
		m.leaveField()
	}
	cur := 0
	for i, t := range tabs {
		if t.state == m.state {
			cur = i
		}
	}
	next := tabs[(cur+dir+len(tabs))%len(tabs)].state
	switch next {
	case constants.StateHistory:
		m.refreshHistory()
	case constants.StateTrainers:
		m.refreshTrainers()
	case constants.StateWorkout:
		m.refreshWorkout()
	}
	m.state = next
}

func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height
	m.help.Width = width
	w, h := max(1, width-4), m.bodyHeight()
	m.history.SetSize(w, h)
	m.detail.SetSize(w, h)
	m.trainers.SetSize(w, h)
}

// bodyHeight leaves room for the tab bar, stats bar, status line, help
// and padding.
func (m Model) bodyHeight() int {
	if m.height == 0 {
		return 0
	}
	return max(3, m.height-8)
}

func (m Model) updateWorkout(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, m.editor.Update(msg)
	}

	var cmd tea.Cmd
	focused, hasFocus := m.editor.Focused()
	switch {
	case key.Matches(keyMsg, m.keys.Next):
		m.leaveField()
		m.editor.Next()
	case key.Matches(keyMsg, m.keys.Prev):
		m.leaveField()
		m.editor.Prev()
	case key.Matches(keyMsg, m.keys.Up):
		m.leaveField()
		m.editor.PrevRow()
	case key.Matches(keyMsg, m.keys.Down):
		m.leaveField()
		m.editor.NextRow()
	case key.Matches(keyMsg, m.keys.Save):
		m.save(false)

	case key.Matches(keyMsg, m.keys.AddNormal):
		g, err := m.sess.AddNormal()
		m.afterMutation(true, err)
		m.editor.FocusExercise(g.GroupID, g.Exercises[0].ExerciseID)
	case key.Matches(keyMsg, m.keys.AddSuperset):
		g, err := m.sess.AddSuperset()
		m.afterMutation(true, err)
		m.editor.FocusExercise(g.GroupID, g.Exercises[0].ExerciseID)
	case key.Matches(keyMsg, m.keys.AddToGroup):
		if !hasFocus {
			m.notify("Add an exercise first")
			break
		}
		ex, found, err := m.sess.AddExerciseToGroup(focused.GroupID)
		m.afterMutation(found, err)
		m.editor.FocusExercise(focused.GroupID, ex.ExerciseID)
	case key.Matches(keyMsg, m.keys.AddSet):
		if !hasFocus {
			m.notify("Add an exercise first")
			break
		}
		set, found, err := m.sess.AddSet(focused.ExerciseID)
		m.afterMutation(found, err)
		m.editor.Focus(Target{
			GroupID:    focused.GroupID,
			ExerciseID: focused.ExerciseID,
			SetNumber:  set.SetNumber,
			Field:      session.FieldWeight,
		})

	case key.Matches(keyMsg, m.keys.Delete):
		if !hasFocus {
			break
		}
		if focused.SetNumber > 0 {
			found, err := m.sess.DeleteSet(focused.ExerciseID, focused.SetNumber)
			m.afterMutation(found, err)
			break
		}
		title := fmt.Sprintf("Delete %s and its sets?", m.exerciseName(focused.ExerciseID))
		cmd = m.openConfirm(constants.StateConfirmDelete, title, func(m *Model) tea.Cmd {
			found, err := m.sess.DeleteExercise(focused.ExerciseID)
			m.afterMutation(found, err)
			return nil
		})
	case key.Matches(keyMsg, m.keys.DeleteGroup):
		if !hasFocus {
			break
		}
		cmd = m.openConfirm(constants.StateConfirmDelete, "Delete this group and all of its exercises?", func(m *Model) tea.Cmd {
			found, err := m.sess.DeleteGroup(focused.GroupID)
			m.afterMutation(found, err)
			return nil
		})
	case key.Matches(keyMsg, m.keys.MoveUp):
		if m.editor.MoveGroup(-1) {
			m.save(true)
		}
	case key.Matches(keyMsg, m.keys.MoveDown):
		if m.editor.MoveGroup(1) {
			m.save(true)
		}

	case key.Matches(keyMsg, m.keys.Trainer):
		m.leaveField()
		cmd = m.trainerForm()
	case key.Matches(keyMsg, m.keys.Condition):
		m.leaveField()
		cmd = m.conditionForm()
	case key.Matches(keyMsg, m.keys.Notes):
		m.leaveField()
		cmd = m.notesForm()
	case key.Matches(keyMsg, m.keys.ExNotes):
		if !hasFocus {
			break
		}
		m.leaveField()
		cmd = m.exerciseNotesForm(focused.ExerciseID)
	case key.Matches(keyMsg, m.keys.Complete):
		m.leaveField()
		cmd = m.openConfirm(constants.StateConfirmComplete, "Complete this workout and move it to history?", complete(false))
	case key.Matches(keyMsg, m.keys.Discard):
		cmd = m.openConfirm(constants.StateConfirmDiscard, "Discard the current workout? This cannot be undone.", discard)

	default:
		cmd = m.editor.Update(msg)
	}
	return m, cmd
}

// leaveField persists typed values when the cursor leaves a changed input.
func (m *Model) leaveField() {
	if m.editor.TakeDirty() {
		m.save(true)
	}
}

func (m *Model) save(quiet bool) {
	err := m.sess.Save()
	m.refreshWorkout()
	if err != nil {
		m.fail(err)
		return
	}
	if !quiet {
		m.notify("Saved")
	}
}

// afterMutation reports the outcome of a structural change. The session has
// already re-rendered and saved; err may only carry rejected input values.
func (m *Model) afterMutation(found bool, err error) {
	m.refreshWorkout()
	switch {
	case err != nil:
		m.fail(err)
	case !found:
		m.fail(fmt.Errorf("that item no longer exists"))
	default:
		m.errMsg = ""
	}
}

func (m *Model) saveDraft() {
	if err := m.sess.Save(); err != nil {
		logger.Warn("Failed to save draft on exit", "error", err)
	}
}

func (m Model) exerciseName(exerciseID string) string {
	w := m.sess.Workout()
	if ex, ok := w.FindExercise(exerciseID); ok && strings.TrimSpace(ex.ExerciseName) != "" {
		return ex.ExerciseName
	}
	return "this exercise"
}

func (m *Model) showWorkout(id string) {
	w, ok, err := m.ctx.Manager.GetWorkoutByID(id)
	if err != nil {
		m.fail(err)
		return
	}
	if !ok {
		m.fail(fmt.Errorf("workout %s not found", id))
		return
	}
	var b strings.Builder
	m.ctx.PrintWorkout(&b, w, false)
	m.detail.Show(fmt.Sprintf("%s %s · %s", w.Date, w.StartTime, m.ctx.Manager.TrainerName(w.TrainerID)), b.String())
}
