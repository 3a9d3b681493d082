package session

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"go.uber.org/multierr"

	"github.com/julianstephens/liftlog/internal/constants"
	"github.com/julianstephens/liftlog/internal/logger"
	"github.com/julianstephens/liftlog/internal/models"
	"github.com/julianstephens/liftlog/internal/stats"
	"github.com/julianstephens/liftlog/internal/storage"
	"github.com/julianstephens/liftlog/internal/validation"
)

var ErrNotStarted = errors.New("no workout in progress, call Start first")

// Session drives the in-progress workout. It is not safe for concurrent use.
type Session struct {
	store   *storage.Manager
	view    View
	now     func() time.Time
	workout models.Workout
	started bool
}

// New wires a session to its storage and view. now defaults to time.Now.
func New(store *storage.Manager, view View, now func() time.Time) *Session {
	if now == nil {
		now = time.Now
	}
	return &Session{store: store, view: view, now: now}
}

// Start resumes the stored draft or begins a new workout, and renders it.
func (s *Session) Start() (resumed bool, err error) {
	draft, ok, err := s.store.GetCurrentWorkout()
	if err != nil {
		return false, err
	}
	if ok {
		s.workout = draft
		logger.Debug("Resumed draft workout", "id", draft.ID, "date", draft.Date)
	} else {
		s.workout = models.NewWorkout(s.now())
		logger.Debug("Started new workout", "id", s.workout.ID)
	}
	s.started = true
	s.view.Render(s.workout)
	return ok, nil
}

// Workout returns a copy of the model as last pulled or mutated.
func (s *Session) Workout() models.Workout {
	return cloneWorkout(s.workout)
}

// pull captures pending view edits. Rejected enum values are logged and
// returned; the rest of the view is still applied.
func (s *Session) pull() error {
	if err := Pull(&s.workout, s.view.State()); err != nil {
		logger.Warn("Rejected view values", "error", err)
		return err
	}
	return nil
}

func (s *Session) persist() error {
	s.workout.Stats = stats.Compute(s.workout)
	return s.store.SaveCurrentWorkout(s.workout)
}

// mutate applies a structural change: pending edits are pulled first, then
// fn runs, orders are renumbered, the view is rebuilt and the draft saved.
// fn reports false when its target does not exist; nothing is saved then.
func (s *Session) mutate(fn func(w *models.Workout) bool) (bool, error) {
	if !s.started {
		return false, ErrNotStarted
	}
	pullErr := s.pull()
	if !fn(&s.workout) {
		return false, pullErr
	}
	s.workout.Renumber()
	s.view.Render(s.workout)
	return true, multierr.Append(pullErr, s.persist())
}

func newExerciseWithSet() models.Exercise {
	ex := models.NewExercise()
	ex.Sets = append(ex.Sets, models.NewSetRecord(1))
	return ex
}

// AddSuperset appends a superset of two exercises with one set each.
func (s *Session) AddSuperset() (models.ExerciseGroup, error) {
	g := models.NewExerciseGroup(models.GroupSuperset)
	g.Exercises = append(g.Exercises, newExerciseWithSet(), newExerciseWithSet())
	return s.addGroup(g)
}

// AddNormal appends a group holding a single exercise with one set.
func (s *Session) AddNormal() (models.ExerciseGroup, error) {
	g := models.NewExerciseGroup(models.GroupNormal)
	g.Exercises = append(g.Exercises, newExerciseWithSet())
	return s.addGroup(g)
}

func (s *Session) addGroup(g models.ExerciseGroup) (models.ExerciseGroup, error) {
	_, err := s.mutate(func(w *models.Workout) bool {
		g.Order = len(w.Groups) + 1
		w.Groups = append(w.Groups, g)
		return true
	})
	return g, err
}

// AddExerciseToGroup appends an exercise to an existing group. A normal
// group that grows past one exercise becomes a superset.
func (s *Session) AddExerciseToGroup(groupID string) (models.Exercise, bool, error) {
	ex := newExerciseWithSet()
	ok, err := s.mutate(func(w *models.Workout) bool {
		gi, found := w.FindGroup(groupID)
		if !found {
			return false
		}
		g := &w.Groups[gi]
		g.Exercises = append(g.Exercises, ex)
		if len(g.Exercises) > 1 {
			g.GroupType = models.GroupSuperset
		}
		return true
	})
	return ex, ok, err
}

// AddSet appends a set numbered after the exercise's last one.
func (s *Session) AddSet(exerciseID string) (models.SetRecord, bool, error) {
	var set models.SetRecord
	ok, err := s.mutate(func(w *models.Workout) bool {
		ex, found := w.FindExercise(exerciseID)
		if !found {
			return false
		}
		set = models.NewSetRecord(len(ex.Sets) + 1)
		ex.Sets = append(ex.Sets, set)
		return true
	})
	return set, ok, err
}

// DeleteSet removes the set with the 1-based number and renumbers the rest.
func (s *Session) DeleteSet(exerciseID string, setNumber int) (bool, error) {
	return s.mutate(func(w *models.Workout) bool {
		ex, found := w.FindExercise(exerciseID)
		if !found || setNumber < 1 || setNumber > len(ex.Sets) {
			return false
		}
		ex.Sets = append(ex.Sets[:setNumber-1], ex.Sets[setNumber:]...)
		ex.RenumberSets()
		return true
	})
}

// DeleteExercise removes an exercise, and its group when it was the last one.
func (s *Session) DeleteExercise(exerciseID string) (bool, error) {
	return s.mutate(func(w *models.Workout) bool {
		gi, ei, found := w.LocateExercise(exerciseID)
		if !found {
			return false
		}
		g := &w.Groups[gi]
		g.Exercises = append(g.Exercises[:ei], g.Exercises[ei+1:]...)
		if len(g.Exercises) == 0 {
			w.Groups = append(w.Groups[:gi], w.Groups[gi+1:]...)
		}
		return true
	})
}

func (s *Session) DeleteGroup(groupID string) (bool, error) {
	return s.mutate(func(w *models.Workout) bool {
		gi, found := w.FindGroup(groupID)
		if !found {
			return false
		}
		w.Groups = append(w.Groups[:gi], w.Groups[gi+1:]...)
		return true
	})
}

// SetTrainer assigns a stored trainer. The self sentinel and "" mean
// self-directed. An unknown id reports false.
func (s *Session) SetTrainer(trainerID string) (bool, error) {
	if !s.started {
		return false, ErrNotStarted
	}
	ref := models.TrainerRef(trainerID)
	if ref != nil {
		trainers, err := s.store.GetTrainers()
		if err != nil {
			return false, err
		}
		if _, ok := models.FindTrainer(trainers, *ref); !ok {
			return false, nil
		}
	}
	s.workout.TrainerID = ref
	return true, s.Save()
}

// SetCondition replaces the wellness snapshot after range-checking it.
func (s *Session) SetCondition(c models.Condition) error {
	if !s.started {
		return ErrNotStarted
	}
	if err := checkCondition(c); err != nil {
		return err
	}
	s.workout.Condition = c
	return s.Save()
}

func checkCondition(c models.Condition) error {
	var errs error
	if c.Sleep < 0 || c.Sleep > 24 {
		errs = multierr.Append(errs, fmt.Errorf("sleep must be between 0 and 24 hours, got %v", c.Sleep))
	}
	scales := []struct {
		name  string
		value int
	}{
		{"sleep quality", c.SleepQuality},
		{"fatigue", c.Fatigue},
		{"stress", c.Stress},
		{"mood", c.Mood},
	}
	for _, sc := range scales {
		if sc.value < 1 || sc.value > 5 {
			errs = multierr.Append(errs, fmt.Errorf("%s must be between 1 and 5, got %d", sc.name, sc.value))
		}
	}
	return errs
}

func (s *Session) SetNotes(notes string) error {
	if !s.started {
		return ErrNotStarted
	}
	s.workout.Notes = notes
	return s.Save()
}

// SetExerciseNotes edits the notes of one exercise. Notes are not part of
// the view, so the change is saved directly.
func (s *Session) SetExerciseNotes(exerciseID, notes string) (bool, error) {
	if !s.started {
		return false, ErrNotStarted
	}
	ex, ok := s.workout.FindExercise(exerciseID)
	if !ok {
		return false, nil
	}
	ex.Notes = notes
	return true, s.Save()
}

// Save pulls the view into the model, recomputes stats and persists the
// draft. The draft is written even when some view values were rejected; the
// rejections are returned alongside any storage error.
func (s *Session) Save() error {
	if !s.started {
		return ErrNotStarted
	}
	pullErr := s.pull()
	return multierr.Append(pullErr, s.persist())
}

// Complete stamps the end time, validates the workout and moves it into
// history. A validation failure blocks completion unless force is set; the
// violations are logged either way. On success a fresh workout is started
// and saved as the new draft.
func (s *Session) Complete(force bool) (models.Workout, error) {
	if !s.started {
		return models.Workout{}, ErrNotStarted
	}
	pullErr := s.pull()

	now := s.now()
	s.workout.EndTime = now.Format(constants.TimeFormat)
	s.workout.Stats = stats.Compute(s.workout)

	if err := validation.ValidateWorkout(s.workout); err != nil {
		logger.Warn("Workout failed validation", "id", s.workout.ID, "error", err, "forced", force)
		if !force {
			s.workout.EndTime = ""
			s.workout.Stats = stats.Compute(s.workout)
			return models.Workout{}, multierr.Append(pullErr, err)
		}
	}

	done := cloneWorkout(s.workout)
	if err := s.store.CompleteWorkout(done); err != nil {
		logger.Error("Failed to complete workout", "id", done.ID, "error", err)
		return models.Workout{}, err
	}
	logger.Info("Workout completed", "id", done.ID, "sets", done.Stats.TotalSets, "volume", done.Stats.TotalVolume)

	s.workout = models.NewWorkout(now)
	s.view.Render(s.workout)
	if err := s.persist(); err != nil {
		return done, err
	}
	return done, pullErr
}

// Discard drops the draft and starts over with an unsaved fresh workout.
func (s *Session) Discard() error {
	if !s.started {
		return ErrNotStarted
	}
	if err := s.store.ClearCurrentWorkout(); err != nil {
		return err
	}
	logger.Info("Draft discarded", "id", s.workout.ID)
	s.workout = models.NewWorkout(s.now())
	s.view.Render(s.workout)
	return nil
}

// Stats computes the aggregates of the model as it stands.
func (s *Session) Stats() models.Stats {
	return stats.Compute(s.workout)
}

// LiveStats reports the duration as time elapsed since the start.
func (s *Session) LiveStats(now time.Time) models.Stats {
	return stats.Live(s.workout, now)
}

func cloneWorkout(w models.Workout) models.Workout {
	out := w
	if w.TrainerID != nil {
		id := *w.TrainerID
		out.TrainerID = &id
	}
	if w.Groups != nil {
		out.Groups = make([]models.ExerciseGroup, len(w.Groups))
		for gi, g := range w.Groups {
			g.Exercises = slices.Clone(g.Exercises)
			for ei := range g.Exercises {
				ex := &g.Exercises[ei]
				ex.Sets = slices.Clone(ex.Sets)
				if ex.Attachment != nil {
					a := *ex.Attachment
					ex.Attachment = &a
				}
			}
			out.Groups[gi] = g
		}
	}
	return out
}
