package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/julianstephens/liftlog/internal/constants"
	"github.com/julianstephens/liftlog/internal/history"
	"github.com/julianstephens/liftlog/internal/models"
)

var fixedNow = time.Date(2026, 6, 15, 9, 30, 0, 0, time.UTC)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	p := NewMemoryStore()
	require.NoError(t, p.Load())
	m := NewManager(p, 1)
	m.now = func() time.Time { return fixedNow }
	return m
}

func completedWorkout(id, date, exerciseName string, weight float64) models.Workout {
	return models.Workout{
		ID:        id,
		Date:      date,
		StartTime: "10:00",
		EndTime:   "11:00",
		Condition: models.DefaultCondition(),
		Groups: []models.ExerciseGroup{{
			GroupID:   id + "_g",
			GroupType: models.GroupNormal,
			Order:     1,
			Exercises: []models.Exercise{{
				ExerciseID:   id + "_e",
				ExerciseName: exerciseName,
				Equipment:    models.EquipmentBarbell,
				BenchAngle:   models.AngleFlat,
				GripWidth:    models.GripStandard,
				Sets:         []models.SetRecord{{SetNumber: 1, Weight: weight, RepsUnassisted: 5, RPE: 8, RestSeconds: 90}},
			}},
		}},
	}
}

func fakeWorkouts(f *gofakeit.Faker, n int) []models.Workout {
	equipment := models.EquipmentValues()
	angles := models.BenchAngles()
	workouts := make([]models.Workout, 0, n)
	for i := 0; i < n; i++ {
		date := f.DateRange(fixedNow.AddDate(-1, 0, 0), fixedNow).Format(constants.DateFormat)
		trainer := models.TrainerRef(fmt.Sprintf("trainer_%d", f.Number(1, 3)))
		w := models.Workout{
			ID:        models.NewID("entry"),
			Date:      date,
			StartTime: "07:15",
			EndTime:   "08:20",
			TrainerID: trainer,
			Condition: models.Condition{
				Sleep:        f.Float64Range(4, 9),
				SleepQuality: f.Number(1, 5),
				Fatigue:      f.Number(1, 5),
				Stress:       f.Number(1, 5),
				Mood:         f.Number(1, 5),
				Caffeine:     f.Bool(),
			},
			Notes: f.Sentence(6),
		}
		groups := f.Number(1, 3)
		for g := 0; g < groups; g++ {
			ex := models.Exercise{
				ExerciseID:   models.NewID("exercise"),
				ExerciseName: f.Word(),
				Equipment:    equipment[f.Number(0, len(equipment)-1)],
				BenchAngle:   angles[f.Number(0, len(angles)-1)],
				GripWidth:    models.GripStandard,
				Sets:         []models.SetRecord{},
			}
			sets := f.Number(1, 4)
			for s := 1; s <= sets; s++ {
				ex.Sets = append(ex.Sets, models.SetRecord{
					SetNumber:      s,
					Weight:         float64(f.Number(4, 80)) * 2.5,
					RepsUnassisted: f.Number(1, 12),
					RepsAssisted:   f.Number(0, 2),
					RPE:            8,
					RestSeconds:    90,
				})
			}
			w.Groups = append(w.Groups, models.ExerciseGroup{
				GroupID:   models.NewID("group"),
				GroupType: models.GroupNormal,
				Order:     g + 1,
				Exercises: []models.Exercise{ex},
			})
		}
		workouts = append(workouts, w)
	}
	return workouts
}

func TestCurrentWorkout(t *testing.T) {
	m := newTestManager(t)

	_, ok, err := m.GetCurrentWorkout()
	require.NoError(t, err)
	assert.False(t, ok)

	draft := models.NewWorkout(fixedNow)
	require.NoError(t, m.SaveCurrentWorkout(draft))

	got, ok, err := m.GetCurrentWorkout()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, draft.ID, got.ID)

	require.NoError(t, m.ClearCurrentWorkout())
	_, ok, err = m.GetCurrentWorkout()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCompleteWorkoutAppendsAndClearsDraft(t *testing.T) {
	m := newTestManager(t)
	w := completedWorkout("entry_1", "2026-06-01", "Bench Press", 100)
	require.NoError(t, m.SaveCurrentWorkout(w))

	require.NoError(t, m.CompleteWorkout(w))

	all, err := m.GetAllWorkouts()
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "entry_1", all[0].ID)

	_, ok, err := m.GetCurrentWorkout()
	require.NoError(t, err)
	assert.False(t, ok)

	got, ok, err := m.GetWorkoutByID("entry_1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "2026-06-01", got.Date)

	_, ok, err = m.GetWorkoutByID("missing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCompleteWorkoutReplacesSameID(t *testing.T) {
	m := newTestManager(t)
	require.NoError(t, m.CompleteWorkout(completedWorkout("a", "2026-06-01", "Squat", 100)))
	require.NoError(t, m.CompleteWorkout(completedWorkout("b", "2026-06-02", "Squat", 105)))

	again := completedWorkout("a", "2026-06-01", "Squat", 110)
	require.NoError(t, m.CompleteWorkout(again))

	all, err := m.GetAllWorkouts()
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "a", all[0].ID, "the record keeps its position")
	assert.Equal(t, 110.0, all[0].Groups[0].Exercises[0].Sets[0].Weight)
	assert.Equal(t, "b", all[1].ID)
}

func TestDeleteWorkout(t *testing.T) {
	m := newTestManager(t)
	require.NoError(t, m.CompleteWorkout(completedWorkout("a", "2026-06-01", "Squat", 100)))
	require.NoError(t, m.CompleteWorkout(completedWorkout("b", "2026-06-02", "Squat", 105)))

	found, err := m.DeleteWorkout("a")
	require.NoError(t, err)
	assert.True(t, found)

	found, err = m.DeleteWorkout("a")
	require.NoError(t, err)
	assert.False(t, found)

	all, err := m.GetAllWorkouts()
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "b", all[0].ID)
}

func TestDeleteWorkoutsOlderThan(t *testing.T) {
	m := newTestManager(t)
	require.NoError(t, m.CompleteWorkout(completedWorkout("old", "2025-11-30", "Row", 60)))
	require.NoError(t, m.CompleteWorkout(completedWorkout("edge", "2025-12-15", "Row", 60)))
	require.NoError(t, m.CompleteWorkout(completedWorkout("recent", "2026-06-01", "Row", 60)))

	removed, err := m.DeleteWorkoutsOlderThan(6)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	all, err := m.GetAllWorkouts()
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = m.DeleteWorkoutsOlderThan(-1)
	assert.Error(t, err)
}

func TestExerciseHistoryCacheInvalidation(t *testing.T) {
	m := newTestManager(t)
	require.NoError(t, m.CompleteWorkout(completedWorkout("a", "2026-06-01", "Bench Press", 100)))

	barbell := models.EquipmentBarbell
	c := history.Conditions{Equipment: &barbell}

	first, err := m.GetExerciseHistory("bench", c)
	require.NoError(t, err)
	require.Len(t, first, 1)

	require.NoError(t, m.CompleteWorkout(completedWorkout("b", "2026-06-08", "Bench Press", 102.5)))

	second, err := m.GetExerciseHistory("bench", c)
	require.NoError(t, err)
	require.Len(t, second, 2)
	assert.Equal(t, "b", second[0].WorkoutID)
}

func TestTrainers(t *testing.T) {
	m := newTestManager(t)

	trainers, err := m.GetTrainers()
	require.NoError(t, err)
	require.Len(t, trainers, 1)
	assert.Equal(t, constants.SelfTrainerID, trainers[0].ID)

	added, err := m.AddTrainer("  Yamada  ")
	require.NoError(t, err)
	assert.Equal(t, "Yamada", added.Name)

	_, err = m.AddTrainer(" ")
	assert.Error(t, err)

	assert.Equal(t, "Yamada", m.TrainerName(&added.ID))
	assert.Equal(t, "self-directed", m.TrainerName(nil))
	ghost := "trainer_ghost"
	assert.Equal(t, "unknown", m.TrainerName(&ghost))

	removed, err := m.RemoveTrainer(added.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	_, err = m.RemoveTrainer(constants.SelfTrainerID)
	assert.Error(t, err)
}

func TestSettings(t *testing.T) {
	m := newTestManager(t)

	s, err := m.GetSettings()
	require.NoError(t, err)
	assert.Equal(t, constants.UnitKg, s.WeightUnit)

	require.NoError(t, m.SaveSettings(models.Settings{WeightUnit: constants.UnitLb}))
	s, err = m.GetSettings()
	require.NoError(t, err)
	assert.Equal(t, constants.UnitLb, s.WeightUnit)

	assert.Error(t, m.SaveSettings(models.Settings{WeightUnit: "stone"}))
}

func TestExportImportRoundTrip(t *testing.T) {
	f := gofakeit.New(42)
	src := newTestManager(t)

	for _, w := range fakeWorkouts(f, 12) {
		require.NoError(t, src.CompleteWorkout(w))
	}
	_, err := src.AddTrainer(f.Name())
	require.NoError(t, err)

	data, err := src.ExportJSON()
	require.NoError(t, err)

	dst := newTestManager(t)
	require.NoError(t, dst.ImportAll(data))

	srcWorkouts, err := src.GetAllWorkouts()
	require.NoError(t, err)
	dstWorkouts, err := dst.GetAllWorkouts()
	require.NoError(t, err)
	assert.Equal(t, srcWorkouts, dstWorkouts)

	srcTrainers, err := src.GetTrainers()
	require.NoError(t, err)
	dstTrainers, err := dst.GetTrainers()
	require.NoError(t, err)
	assert.Equal(t, srcTrainers, dstTrainers)
}

func TestExportIncludesDraft(t *testing.T) {
	m := newTestManager(t)
	draft := models.NewWorkout(fixedNow)
	require.NoError(t, m.SaveCurrentWorkout(draft))

	exp, err := m.ExportAll()
	require.NoError(t, err)
	require.NotNil(t, exp.CurrentWorkout)
	assert.Equal(t, draft.ID, exp.CurrentWorkout.ID)
	assert.Equal(t, constants.SchemaVersion, exp.SchemaVersion)
	assert.Equal(t, "2026-06-15T09:30:00Z", exp.ExportedAt)
}

func TestImportPartial(t *testing.T) {
	m := newTestManager(t)
	require.NoError(t, m.CompleteWorkout(completedWorkout("keep", "2026-06-01", "Row", 60)))

	doc, err := json.Marshal(map[string]interface{}{
		"trainers": []models.Trainer{{ID: "self", Name: "Self-directed"}, {ID: "trainer_x", Name: "X"}},
	})
	require.NoError(t, err)
	require.NoError(t, m.ImportAll(doc))

	all, err := m.GetAllWorkouts()
	require.NoError(t, err)
	require.Len(t, all, 1, "absent workouts must be left untouched")

	trainers, err := m.GetTrainers()
	require.NoError(t, err)
	assert.Len(t, trainers, 2)
}

func TestImportRejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"not json", `nope`},
		{"neither collection", `{"currentWorkout": null}`},
		{"workouts not a list", `{"workouts": {"id": "x"}}`},
		{"unknown equipment", `{"workouts": [{"id":"a","date":"2026-01-01","groups":[{"groupId":"g","groupType":"normal","order":1,"exercises":[{"exerciseId":"e","equipment":"kettlebell","benchAngle":"flat","gripWidth":"wide","sets":[]}]}]}]}`},
		{"invalid workout", `{"workouts": [{"id":"","date":"","groups":[]}]}`},
		{"trainer without id", `{"trainers": [{"name":"X"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestManager(t)
			require.NoError(t, m.CompleteWorkout(completedWorkout("keep", "2026-06-01", "Row", 60)))

			assert.Error(t, m.ImportAll([]byte(tt.doc)))

			all, err := m.GetAllWorkouts()
			require.NoError(t, err)
			assert.Len(t, all, 1, "a rejected import must not write anything")
		})
	}
}

func TestClearAll(t *testing.T) {
	m := newTestManager(t)
	require.NoError(t, m.CompleteWorkout(completedWorkout("a", "2026-06-01", "Row", 60)))
	require.NoError(t, m.SaveCurrentWorkout(models.NewWorkout(fixedNow)))
	_, err := m.AddTrainer("Tanaka")
	require.NoError(t, err)
	require.NoError(t, m.SaveSettings(models.Settings{WeightUnit: constants.UnitLb}))

	require.NoError(t, m.ClearAll())

	all, err := m.GetAllWorkouts()
	require.NoError(t, err)
	assert.Empty(t, all)

	_, ok, err := m.GetCurrentWorkout()
	require.NoError(t, err)
	assert.False(t, ok)

	trainers, err := m.GetTrainers()
	require.NoError(t, err)
	assert.Len(t, trainers, 1)

	s, err := m.GetSettings()
	require.NoError(t, err)
	assert.Equal(t, constants.UnitLb, s.WeightUnit)
}

func TestStorageErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	p := NewMockProvider(ctrl)
	m := NewManager(p, 0)

	diskFull := errors.New("no space left on device")

	p.EXPECT().Set(constants.KeyCurrentWorkout, gomock.Any()).Return(diskFull)
	err := m.SaveCurrentWorkout(models.NewWorkout(fixedNow))
	var serr *StorageError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, "write", serr.Op)
	assert.Equal(t, constants.KeyCurrentWorkout, serr.Key)
	assert.ErrorIs(t, err, diskFull)

	p.EXPECT().Get(constants.KeyWorkouts).Return(nil, errors.New("io error"))
	_, err = m.GetAllWorkouts()
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, "read", serr.Op)

	p.EXPECT().Get(constants.KeyWorkouts).Return([]byte("{broken"), nil)
	_, err = m.GetAllWorkouts()
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, "decode", serr.Op)

	p.EXPECT().Get(constants.KeyWorkouts).Return(nil, ErrNotFound)
	all, err := m.GetAllWorkouts()
	require.NoError(t, err)
	assert.Empty(t, all)
}
