package cli

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/liftlog/internal/config"
	"github.com/julianstephens/liftlog/internal/lock"
	"github.com/julianstephens/liftlog/internal/models"
	"github.com/julianstephens/liftlog/internal/session"
	"github.com/julianstephens/liftlog/internal/storage"
)

func testWorkout() models.Workout {
	w := models.NewWorkout(time.Now())
	for i := 0; i < 2; i++ {
		g := models.NewExerciseGroup(models.GroupSuperset)
		g.Exercises = append(g.Exercises, models.NewExercise(), models.NewExercise())
		w.Groups = append(w.Groups, g)
	}
	w.Renumber()
	return w
}

func TestResolveGroup(t *testing.T) {
	w := testWorkout()

	id, err := ResolveGroup(w, "2")
	require.NoError(t, err)
	assert.Equal(t, w.Groups[1].GroupID, id)

	id, err = ResolveGroup(w, w.Groups[0].GroupID)
	require.NoError(t, err)
	assert.Equal(t, w.Groups[0].GroupID, id)

	for _, ref := range []string{"0", "3", "x", ""} {
		_, err := ResolveGroup(w, ref)
		assert.Error(t, err, ref)
	}
}

func TestResolveExercise(t *testing.T) {
	w := testWorkout()

	id, err := ResolveExercise(w, "2.1")
	require.NoError(t, err)
	assert.Equal(t, w.Groups[1].Exercises[0].ExerciseID, id)

	id, err = ResolveExercise(w, w.Groups[0].Exercises[1].ExerciseID)
	require.NoError(t, err)
	assert.Equal(t, w.Groups[0].Exercises[1].ExerciseID, id)

	for _, ref := range []string{"1", "1.3", "3.1", "a.b", "1.0"} {
		_, err := ResolveExercise(w, ref)
		assert.Error(t, err, ref)
	}
}

func newMemoryContext(t *testing.T) *Context {
	store := storage.NewMemoryStore()
	require.NoError(t, store.Init())
	cfg := config.Default()
	cfg.DataDir = t.TempDir()
	return NewContext(store, cfg)
}

func TestConfirm(t *testing.T) {
	ctx := newMemoryContext(t)
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{"n\n", false},
		{"\n", false},
		{"", false},
		{"yes", true},
	}
	for _, tt := range tests {
		ctx.In = strings.NewReader(tt.input)
		got, err := ctx.Confirm("Continue?")
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "input %q", tt.input)
	}
}

func TestOpenSessionHoldsLock(t *testing.T) {
	ctx := newMemoryContext(t)

	s, release, err := ctx.OpenSession(session.NewFormView())
	require.NoError(t, err)
	require.NotNil(t, s)

	_, held, _, err := lock.Inspect(ctx.Config.DataDir)
	require.NoError(t, err)
	assert.True(t, held, "expected the lockfile while the session is open")

	release()
	_, held, _, err = lock.Inspect(ctx.Config.DataDir)
	require.NoError(t, err)
	assert.False(t, held, "expected the lockfile to be removed on release")
}

func TestUnitFallsBackToDefault(t *testing.T) {
	ctx := newMemoryContext(t)
	assert.Equal(t, "kg", ctx.Unit())
	require.NoError(t, ctx.Manager.SaveSettings(models.Settings{WeightUnit: "lb"}))
	assert.Equal(t, "lb", ctx.Unit())
}
