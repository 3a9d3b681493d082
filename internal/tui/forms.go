package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/dustin/go-humanize"

	"github.com/julianstephens/liftlog/internal/constants"
	"github.com/julianstephens/liftlog/internal/models"
	"github.com/julianstephens/liftlog/internal/validation"
)

type action func(m *Model) tea.Cmd

func isFormState(s constants.SessionState) bool {
	switch s {
	case constants.StateEditing, constants.StateConfirmComplete, constants.StateConfirmDiscard, constants.StateConfirmDelete:
		return true
	}
	return false
}

func (m *Model) openForm(state constants.SessionState, form *huh.Form, run action) tea.Cmd {
	if !isFormState(m.state) {
		m.returnTo = m.state
	}
	m.form = form.WithTheme(huh.ThemeDracula())
	m.pending = run
	m.state = state
	return m.form.Init()
}

func (m *Model) closeForm() {
	m.form = nil
	m.pending = nil
	m.state = m.returnTo
}

// openConfirm asks a yes/no question; run only fires on yes.
func (m *Model) openConfirm(state constants.SessionState, title string, run action) tea.Cmd {
	m.values.Confirmed = false
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Affirmative("Yes").
				Negative("No").
				Value(&m.values.Confirmed),
		),
	)
	return m.openForm(state, form, run)
}

func (m Model) updateForm(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
		m.closeForm()
		return m, nil
	}

	var cmds []tea.Cmd
	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}
	cmds = append(cmds, cmd)

	switch m.form.State {
	case huh.StateCompleted:
		run := m.pending
		confirmed := m.state == constants.StateEditing || m.values.Confirmed
		m.closeForm()
		if confirmed && run != nil {
			cmds = append(cmds, run(&m))
		}
	case huh.StateAborted:
		m.closeForm()
	}
	return m, tea.Batch(cmds...)
}

func (m *Model) trainerForm() tea.Cmd {
	trainers, err := m.ctx.Manager.GetTrainers()
	if err != nil {
		m.fail(err)
		return nil
	}
	opts := make([]huh.Option[string], 0, len(trainers))
	for _, t := range trainers {
		opts = append(opts, huh.NewOption(t.Name, t.ID))
	}

	m.values.TrainerID = constants.SelfTrainerID
	if w := m.sess.Workout(); w.TrainerID != nil {
		m.values.TrainerID = *w.TrainerID
	}
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Trainer").
				Options(opts...).
				Value(&m.values.TrainerID),
		),
	)
	return m.openForm(constants.StateEditing, form, func(m *Model) tea.Cmd {
		ok, err := m.sess.SetTrainer(m.values.TrainerID)
		switch {
		case err != nil:
			m.fail(err)
		case !ok:
			m.fail(fmt.Errorf("trainer %q no longer exists", m.values.TrainerID))
		default:
			m.notify("Trainer set to " + m.ctx.Manager.TrainerName(models.TrainerRef(m.values.TrainerID)))
		}
		return nil
	})
}

func scaleSelect(title string, v *int) *huh.Select[int] {
	return huh.NewSelect[int]().
		Title(title).
		Options(huh.NewOptions(1, 2, 3, 4, 5)...).
		Value(v)
}

func (m *Model) conditionForm() tea.Cmd {
	c := m.sess.Workout().Condition
	v := m.values
	v.Sleep = strconv.FormatFloat(c.Sleep, 'f', -1, 64)
	v.SleepQuality, v.Fatigue, v.Stress, v.Mood = c.SleepQuality, c.Fatigue, c.Stress, c.Mood
	v.Caffeine = c.Caffeine

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Sleep (hours)").
				Value(&v.Sleep).
				Validate(func(s string) error {
					h, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
					if err != nil {
						return fmt.Errorf("enter a number of hours")
					}
					if h < 0 || h > 24 {
						return fmt.Errorf("sleep must be between 0 and 24 hours")
					}
					return nil
				}),
			scaleSelect("Sleep quality (1-5)", &v.SleepQuality),
			scaleSelect("Fatigue (1-5)", &v.Fatigue),
			scaleSelect("Stress (1-5)", &v.Stress),
			scaleSelect("Mood (1-5)", &v.Mood),
			huh.NewConfirm().
				Title("Caffeine?").
				Value(&v.Caffeine),
		),
	)
	return m.openForm(constants.StateEditing, form, func(m *Model) tea.Cmd {
		v := m.values
		sleep, _ := strconv.ParseFloat(strings.TrimSpace(v.Sleep), 64)
		err := m.sess.SetCondition(models.Condition{
			Sleep:        sleep,
			SleepQuality: v.SleepQuality,
			Fatigue:      v.Fatigue,
			Stress:       v.Stress,
			Mood:         v.Mood,
			Caffeine:     v.Caffeine,
		})
		if err != nil {
			m.fail(err)
			return nil
		}
		m.notify("Condition updated")
		return nil
	})
}

func (m *Model) notesForm() tea.Cmd {
	m.values.Notes = m.sess.Workout().Notes
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewText().
				Title("Workout notes").
				Value(&m.values.Notes),
		),
	)
	return m.openForm(constants.StateEditing, form, func(m *Model) tea.Cmd {
		if err := m.sess.SetNotes(m.values.Notes); err != nil {
			m.fail(err)
			return nil
		}
		m.notify("Notes saved")
		return nil
	})
}

func (m *Model) exerciseNotesForm(exerciseID string) tea.Cmd {
	w := m.sess.Workout()
	ex, ok := w.FindExercise(exerciseID)
	if !ok {
		return nil
	}
	m.values.Notes = ex.Notes
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewText().
				Title("Notes for " + displayName(ex.ExerciseName)).
				Value(&m.values.Notes),
		),
	)
	return m.openForm(constants.StateEditing, form, func(m *Model) tea.Cmd {
		if _, err := m.sess.SetExerciseNotes(exerciseID, m.values.Notes); err != nil {
			m.fail(err)
			return nil
		}
		m.notify("Exercise notes saved")
		return nil
	})
}

func (m *Model) addTrainerForm() tea.Cmd {
	m.values.TrainerName = ""
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Trainer name").
				Value(&m.values.TrainerName).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("name cannot be empty")
					}
					return nil
				}),
		),
	)
	return m.openForm(constants.StateEditing, form, func(m *Model) tea.Cmd {
		t, err := m.ctx.Manager.AddTrainer(strings.TrimSpace(m.values.TrainerName))
		if err != nil {
			m.fail(err)
			return nil
		}
		m.refreshTrainers()
		m.notify("✓ Added trainer " + t.Name)
		return nil
	})
}

// complete moves the workout into history. A validation failure turns into
// a second prompt offering to complete anyway.
func complete(force bool) action {
	return func(m *Model) tea.Cmd {
		done, err := m.sess.Complete(force)
		if done.ID == "" {
			var verr *validation.ValidationError
			if !force && errors.As(err, &verr) {
				title := fmt.Sprintf("%d problem(s): %s. Complete anyway?",
					len(verr.Violations), verr.Violations[0].Description)
				return m.openConfirm(constants.StateConfirmComplete, title, complete(true))
			}
			m.fail(err)
			return nil
		}

		m.ctx.PerformAutomaticBackup()
		m.refreshWorkout()
		m.refreshHistory()
		m.refreshTrainers()
		m.notify(fmt.Sprintf("✓ Workout completed: %d sets, %s %s volume",
			done.Stats.TotalSets, humanize.Comma(int64(done.Stats.TotalVolume)), m.ctx.Unit()))
		if err != nil {
			m.fail(err)
		}
		return nil
	}
}

func discard(m *Model) tea.Cmd {
	if err := m.sess.Discard(); err != nil {
		m.fail(err)
		return nil
	}
	m.refreshWorkout()
	m.notify("Draft discarded")
	return nil
}

func deleteWorkout(id string) action {
	return func(m *Model) tea.Cmd {
		m.ctx.PerformAutomaticBackup()
		ok, err := m.ctx.Manager.DeleteWorkout(id)
		switch {
		case err != nil:
			m.fail(err)
		case !ok:
			m.fail(fmt.Errorf("workout %s not found", id))
		default:
			m.detail.Close()
			m.refreshHistory()
			m.refreshTrainers()
			m.notify("✓ Workout deleted")
		}
		return nil
	}
}

func removeTrainer(id string) action {
	return func(m *Model) tea.Cmd {
		ok, err := m.ctx.Manager.RemoveTrainer(id)
		switch {
		case err != nil:
			m.fail(err)
		case !ok:
			m.fail(fmt.Errorf("trainer %s not found", id))
		default:
			m.refreshTrainers()
			m.notify("✓ Trainer removed")
		}
		return nil
	}
}

func displayName(name string) string {
	if strings.TrimSpace(name) == "" {
		return "(unnamed)"
	}
	return name
}
