package session

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/liftlog/internal/constants"
	"github.com/julianstephens/liftlog/internal/models"
	"github.com/julianstephens/liftlog/internal/storage"
	"github.com/julianstephens/liftlog/internal/validation"
)

var sessionStart = time.Date(2026, 5, 4, 18, 0, 0, 0, time.UTC)

// failingStore lets writes and deletes be switched off to exercise
// storage errors.
type failingStore struct {
	*storage.MemoryStore
	failWrites  bool
	failDeletes bool
}

func (f *failingStore) Set(key string, value []byte) error {
	if f.failWrites {
		return errors.New("quota exceeded")
	}
	return f.MemoryStore.Set(key, value)
}

func (f *failingStore) Delete(key string) error {
	if f.failDeletes {
		return errors.New("permission denied")
	}
	return f.MemoryStore.Delete(key)
}

type fixture struct {
	provider *failingStore
	store    *storage.Manager
	view     *FormView
	session  *Session
	clock    time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	mem := storage.NewMemoryStore()
	require.NoError(t, mem.Init())
	f := &fixture{provider: &failingStore{MemoryStore: mem}, view: NewFormView(), clock: sessionStart}
	f.store = storage.NewManager(f.provider, 0)
	f.session = New(f.store, f.view, func() time.Time { return f.clock })
	return f
}

func (f *fixture) start(t *testing.T) {
	t.Helper()
	_, err := f.session.Start()
	require.NoError(t, err)
}

func (f *fixture) draft(t *testing.T) models.Workout {
	t.Helper()
	w, ok, err := f.store.GetCurrentWorkout()
	require.NoError(t, err)
	require.True(t, ok, "expected a stored draft")
	return w
}

func TestStartNewAndResume(t *testing.T) {
	f := newFixture(t)
	resumed, err := f.session.Start()
	require.NoError(t, err)
	assert.False(t, resumed)
	assert.Equal(t, 1, f.view.Renders())
	assert.Equal(t, "2026-05-04", f.session.Workout().Date)
	assert.Equal(t, "18:00", f.session.Workout().StartTime)

	g, err := f.session.AddNormal()
	require.NoError(t, err)

	again := New(f.store, NewFormView(), nil)
	resumed, err = again.Start()
	require.NoError(t, err)
	assert.True(t, resumed)
	require.Len(t, again.Workout().Groups, 1)
	assert.Equal(t, g.GroupID, again.Workout().Groups[0].GroupID)
}

func TestNotStarted(t *testing.T) {
	f := newFixture(t)
	_, err := f.session.AddNormal()
	assert.ErrorIs(t, err, ErrNotStarted)
	assert.ErrorIs(t, f.session.Save(), ErrNotStarted)
	_, err = f.session.Complete(false)
	assert.ErrorIs(t, err, ErrNotStarted)
}

func TestAddGroups(t *testing.T) {
	f := newFixture(t)
	f.start(t)

	normal, err := f.session.AddNormal()
	require.NoError(t, err)
	superset, err := f.session.AddSuperset()
	require.NoError(t, err)

	assert.Equal(t, models.GroupNormal, normal.GroupType)
	assert.Len(t, normal.Exercises, 1)
	assert.Equal(t, models.GroupSuperset, superset.GroupType)
	assert.Len(t, superset.Exercises, 2)

	w := f.draft(t)
	require.Len(t, w.Groups, 2)
	assert.Equal(t, 1, w.Groups[0].Order)
	assert.Equal(t, 2, w.Groups[1].Order)
	for _, g := range w.Groups {
		for _, ex := range g.Exercises {
			require.Len(t, ex.Sets, 1)
			assert.Equal(t, 1, ex.Sets[0].SetNumber)
			assert.Equal(t, constants.DefaultRPE, ex.Sets[0].RPE)
		}
	}
	assert.Equal(t, 3, w.Stats.TotalExercises)
	assert.Equal(t, 3, w.Stats.TotalSets)

	// Each structural change re-renders the view
	assert.Equal(t, 3, f.view.Renders())
	assert.Len(t, f.view.State().Groups, 2)
}

func TestAddExerciseToGroup(t *testing.T) {
	f := newFixture(t)
	f.start(t)
	g, err := f.session.AddNormal()
	require.NoError(t, err)

	_, ok, err := f.session.AddExerciseToGroup(g.GroupID)
	require.NoError(t, err)
	require.True(t, ok)

	w := f.session.Workout()
	assert.Equal(t, models.GroupSuperset, w.Groups[0].GroupType)
	assert.Len(t, w.Groups[0].Exercises, 2)

	_, ok, err = f.session.AddExerciseToGroup("group_missing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDeleteSetRenumbers(t *testing.T) {
	f := newFixture(t)
	f.start(t)
	g, err := f.session.AddNormal()
	require.NoError(t, err)
	exID := g.Exercises[0].ExerciseID

	for i := 0; i < 3; i++ {
		_, ok, err := f.session.AddSet(exID)
		require.NoError(t, err)
		require.True(t, ok)
	}
	// Tag each set with its original position through the view
	for n, weight := range []string{"10", "20", "30", "40"} {
		require.True(t, f.view.SetSetField(exID, n+1, FieldWeight, weight))
	}

	ok, err := f.session.DeleteSet(exID, 2)
	require.NoError(t, err)
	require.True(t, ok)

	ex, found := f.session.workout.FindExercise(exID)
	require.True(t, found)
	require.Len(t, ex.Sets, 3)
	for i, want := range []float64{10, 30, 40} {
		assert.Equal(t, i+1, ex.Sets[i].SetNumber)
		assert.Equal(t, want, ex.Sets[i].Weight)
	}

	ok, err = f.session.DeleteSet(exID, 9)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDeleteExerciseCascades(t *testing.T) {
	f := newFixture(t)
	f.start(t)
	first, err := f.session.AddNormal()
	require.NoError(t, err)
	second, err := f.session.AddSuperset()
	require.NoError(t, err)
	third, err := f.session.AddNormal()
	require.NoError(t, err)

	ok, err := f.session.DeleteExercise(first.Exercises[0].ExerciseID)
	require.NoError(t, err)
	require.True(t, ok)

	w := f.draft(t)
	require.Len(t, w.Groups, 2)
	assert.Equal(t, second.GroupID, w.Groups[0].GroupID)
	assert.Equal(t, third.GroupID, w.Groups[1].GroupID)
	assert.Equal(t, 1, w.Groups[0].Order)
	assert.Equal(t, 2, w.Groups[1].Order)

	// Removing one exercise of a superset keeps the group
	ok, err = f.session.DeleteExercise(second.Exercises[0].ExerciseID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Len(t, f.session.Workout().Groups, 2)

	ok, err = f.session.DeleteExercise("ex_missing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDeleteGroupCompacts(t *testing.T) {
	f := newFixture(t)
	f.start(t)
	var ids []string
	for i := 0; i < 3; i++ {
		g, err := f.session.AddNormal()
		require.NoError(t, err)
		ids = append(ids, g.GroupID)
	}

	ok, err := f.session.DeleteGroup(ids[1])
	require.NoError(t, err)
	require.True(t, ok)

	w := f.session.Workout()
	require.Len(t, w.Groups, 2)
	assert.Equal(t, []int{1, 2}, []int{w.Groups[0].Order, w.Groups[1].Order})
	assert.Equal(t, ids[2], w.Groups[1].GroupID)
}

func TestSaveCapturesLeafEdits(t *testing.T) {
	f := newFixture(t)
	f.start(t)
	g, err := f.session.AddNormal()
	require.NoError(t, err)
	exID := g.Exercises[0].ExerciseID

	require.True(t, f.view.SetExerciseField(exID, FieldName, "Bench Press"))
	require.True(t, f.view.SetExerciseField(exID, FieldEquipment, "dumbbell"))
	require.True(t, f.view.SetSetField(exID, 1, FieldWeight, "100"))
	require.True(t, f.view.SetSetField(exID, 1, FieldRepsUnassisted, "5"))
	require.NoError(t, f.session.Save())

	w := f.draft(t)
	ex := w.Groups[0].Exercises[0]
	assert.Equal(t, "Bench Press", ex.ExerciseName)
	assert.Equal(t, models.EquipmentDumbbell, ex.Equipment)
	assert.Equal(t, 100.0, ex.Sets[0].Weight)
	assert.Equal(t, 8.0, ex.Sets[0].RPE)
	assert.Equal(t, 500, w.Stats.TotalVolume)
}

func TestSaveRejectsUnknownEnum(t *testing.T) {
	f := newFixture(t)
	f.start(t)
	g, err := f.session.AddNormal()
	require.NoError(t, err)
	exID := g.Exercises[0].ExerciseID

	require.True(t, f.view.SetExerciseField(exID, FieldEquipment, "kettlebell"))
	require.True(t, f.view.SetExerciseField(exID, FieldName, "Swing"))

	err = f.session.Save()
	var unknown *models.UnknownValueError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "kettlebell", unknown.Value)

	w := f.draft(t)
	assert.Equal(t, models.EquipmentBarbell, w.Groups[0].Exercises[0].Equipment)
	assert.Equal(t, "Swing", w.Groups[0].Exercises[0].ExerciseName)
}

func TestSetTrainer(t *testing.T) {
	f := newFixture(t)
	f.start(t)

	ok, err := f.session.SetTrainer(constants.SelfTrainerID)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Nil(t, f.session.Workout().TrainerID)

	ok, err = f.session.SetTrainer("trainer_nobody")
	require.NoError(t, err)
	assert.False(t, ok)

	coach, err := f.store.AddTrainer("Coach Kim")
	require.NoError(t, err)
	ok, err = f.session.SetTrainer(coach.ID)
	require.NoError(t, err)
	require.True(t, ok)
	require.NotNil(t, f.draft(t).TrainerID)
	assert.Equal(t, coach.ID, *f.draft(t).TrainerID)
}

func TestSetCondition(t *testing.T) {
	f := newFixture(t)
	f.start(t)

	bad := models.DefaultCondition()
	bad.Mood = 9
	bad.Sleep = -1
	err := f.session.SetCondition(bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mood")
	assert.Contains(t, err.Error(), "sleep")

	good := models.DefaultCondition()
	good.Caffeine = true
	require.NoError(t, f.session.SetCondition(good))
	assert.True(t, f.draft(t).Condition.Caffeine)

	require.NoError(t, f.session.SetNotes("felt strong"))
	assert.Equal(t, "felt strong", f.draft(t).Notes)
}

func TestComplete(t *testing.T) {
	f := newFixture(t)
	f.start(t)
	g, err := f.session.AddNormal()
	require.NoError(t, err)
	exID := g.Exercises[0].ExerciseID
	require.True(t, f.view.SetSetField(exID, 1, FieldWeight, "60"))
	require.True(t, f.view.SetSetField(exID, 1, FieldRepsUnassisted, "10"))
	firstID := f.session.Workout().ID

	f.clock = sessionStart.Add(75 * time.Minute)
	done, err := f.session.Complete(false)
	require.NoError(t, err)

	assert.Equal(t, firstID, done.ID)
	assert.Equal(t, "19:15", done.EndTime)
	assert.Equal(t, 75, done.Stats.Duration)
	assert.Equal(t, 600, done.Stats.TotalVolume)

	history, err := f.store.GetAllWorkouts()
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, firstID, history[0].ID)

	// A fresh draft replaces the completed one
	next := f.draft(t)
	assert.NotEqual(t, firstID, next.ID)
	assert.Empty(t, next.Groups)
	assert.Empty(t, f.view.State().Groups)
}

func TestCompleteBlockedByValidation(t *testing.T) {
	f := newFixture(t)
	f.start(t)
	f.session.workout.Date = ""

	_, err := f.session.Complete(false)
	var verr *validation.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.True(t, verr.Has(validation.ViolationMissingDate))
	assert.Empty(t, f.session.Workout().EndTime)

	history, err := f.store.GetAllWorkouts()
	require.NoError(t, err)
	assert.Empty(t, history)

	_, err = f.session.Complete(true)
	require.NoError(t, err)
	history, err = f.store.GetAllWorkouts()
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestStorageFailureKeepsSession(t *testing.T) {
	f := newFixture(t)
	f.start(t)
	_, err := f.session.AddNormal()
	require.NoError(t, err)

	f.provider.failWrites = true
	_, err = f.session.AddSuperset()
	var serr *storage.StorageError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, constants.KeyCurrentWorkout, serr.Key)

	// The in-memory workout still has both groups
	assert.Len(t, f.session.Workout().Groups, 2)

	f.provider.failWrites = false
	require.NoError(t, f.session.Save())
	assert.Len(t, f.draft(t).Groups, 2)
}

func TestCompleteRetryAfterDraftDeleteFails(t *testing.T) {
	f := newFixture(t)
	f.start(t)
	_, err := f.session.AddNormal()
	require.NoError(t, err)
	id := f.session.Workout().ID

	f.clock = sessionStart.Add(30 * time.Minute)
	f.provider.failDeletes = true
	_, err = f.session.Complete(false)
	var serr *storage.StorageError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, constants.KeyCurrentWorkout, serr.Key)
	assert.Equal(t, id, f.session.Workout().ID, "the session still holds the workout")

	f.clock = sessionStart.Add(32 * time.Minute)
	f.provider.failDeletes = false
	done, err := f.session.Complete(false)
	require.NoError(t, err)
	assert.Equal(t, id, done.ID)

	history, err := f.store.GetAllWorkouts()
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, id, history[0].ID)
	assert.Equal(t, "18:32", history[0].EndTime, "the retry replaces the first record")
}

func TestDiscard(t *testing.T) {
	f := newFixture(t)
	f.start(t)
	_, err := f.session.AddNormal()
	require.NoError(t, err)

	require.NoError(t, f.session.Discard())
	_, ok, err := f.store.GetCurrentWorkout()
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, f.session.Workout().Groups)
}

func TestLiveStats(t *testing.T) {
	f := newFixture(t)
	f.start(t)
	assert.Equal(t, 42, f.session.LiveStats(sessionStart.Add(42*time.Minute)).Duration)
	assert.Equal(t, 0, f.session.Stats().Duration)
}
