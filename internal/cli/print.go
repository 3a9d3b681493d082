package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/julianstephens/liftlog/internal/history"
	"github.com/julianstephens/liftlog/internal/logger"
	"github.com/julianstephens/liftlog/internal/models"
)

// PrintWorkout writes a workout with its groups, sets and stats. With
// compare set, every named exercise gets a line against its last performance.
func (c *Context) PrintWorkout(out io.Writer, w models.Workout, compare bool) {
	unit := c.Unit()

	fmt.Fprintf(out, "Workout %s  %s %s", w.ID, w.Date, w.StartTime)
	if w.EndTime != "" {
		fmt.Fprintf(out, "-%s", w.EndTime)
	}
	fmt.Fprintf(out, "  (%s)\n", c.Manager.TrainerName(w.TrainerID))

	cond := w.Condition
	caffeine := "no"
	if cond.Caffeine {
		caffeine = "yes"
	}
	fmt.Fprintf(out, "Condition: sleep %gh (quality %d/5), fatigue %d/5, stress %d/5, mood %d/5, caffeine %s\n",
		cond.Sleep, cond.SleepQuality, cond.Fatigue, cond.Stress, cond.Mood, caffeine)

	if len(w.Groups) == 0 {
		fmt.Fprintln(out, "\nNo exercises yet. Add one with 'liftlog workout add'.")
	}
	for gi, g := range w.Groups {
		fmt.Fprintf(out, "\n%d. %s\n", gi+1, g.GroupType.Label())
		for ei, ex := range g.Exercises {
			name := ex.ExerciseName
			if strings.TrimSpace(name) == "" {
				name = "(unnamed)"
			}
			fmt.Fprintf(out, "   %d.%d %s  [%s]\n", gi+1, ei+1, name, describeSetup(ex))
			if ex.Notes != "" {
				fmt.Fprintf(out, "       note: %s\n", ex.Notes)
			}
			for _, s := range ex.Sets {
				fmt.Fprintf(out, "       #%d  %s  RPE %.1f\n", s.SetNumber, history.FormatSet(s, unit), s.RPE)
			}
			if compare {
				fmt.Fprintf(out, "       %s\n", c.HistorySummary(ex, unit))
			}
		}
	}

	if w.Notes != "" {
		fmt.Fprintf(out, "\nNotes: %s\n", w.Notes)
	}
	st := w.Stats
	fmt.Fprintf(out, "\n%d exercises, %d sets, %s %s volume, %d min, avg RPE %.1f\n",
		st.TotalExercises, st.TotalSets, humanize.Comma(int64(st.TotalVolume)), unit, st.Duration, st.AvgRPE)
}

// HistorySummary is the one-line comparison of ex against its last performance.
func (c *Context) HistorySummary(ex models.Exercise, unit string) string {
	if strings.TrimSpace(ex.ExerciseName) == "" {
		return history.Summary(ex, nil, unit, c.Clock())
	}
	entries, err := c.Manager.GetExerciseHistory(ex.ExerciseName, history.ConditionsFor(ex))
	if err != nil {
		logger.Warn("History lookup failed", "exercise", ex.ExerciseName, "error", err)
		return "history unavailable"
	}
	return history.Summary(ex, entries, unit, c.Clock())
}

func describeSetup(ex models.Exercise) string {
	parts := []string{ex.Equipment.Label(), ex.BenchAngle.Label(), ex.GripWidth.Label()}
	if ex.Attachment != nil {
		parts = append(parts, ex.Attachment.Label())
	}
	return strings.Join(parts, ", ")
}
