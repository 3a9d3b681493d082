package stats

import (
	"math"
	"time"

	"github.com/julianstephens/liftlog/internal/constants"
	"github.com/julianstephens/liftlog/internal/models"
)

// Compute derives the aggregate stats of a workout. Volume is accumulated
// unrounded and rounded once at the end.
func Compute(w models.Workout) models.Stats {
	var (
		exercises int
		sets      int
		volume    float64
		rpeSum    float64
	)

	for _, g := range w.Groups {
		exercises += len(g.Exercises)
		for _, ex := range g.Exercises {
			sets += len(ex.Sets)
			for _, s := range ex.Sets {
				volume += s.Weight * float64(s.TotalReps())
				rpeSum += s.RPE
			}
		}
	}

	var avg float64
	if sets > 0 {
		avg = rpeSum / float64(sets)
	}

	return models.Stats{
		TotalExercises: exercises,
		TotalSets:      sets,
		TotalVolume:    int(math.Round(volume)),
		Duration:       Duration(w.StartTime, w.EndTime),
		AvgRPE:         avg,
	}
}

// Duration returns end minus start in minutes. Missing or unparsable times
// and negative spans yield 0.
func Duration(start, end string) int {
	if start == "" || end == "" {
		return 0
	}
	s, ok := minutesOfDay(start)
	if !ok {
		return 0
	}
	e, ok := minutesOfDay(end)
	if !ok {
		return 0
	}
	return max(e-s, 0)
}

// Elapsed returns the minutes between the session start and now, used for
// the live display while a session is in progress.
func Elapsed(start string, now time.Time) int {
	s, ok := minutesOfDay(start)
	if !ok {
		return 0
	}
	return max(now.Hour()*60+now.Minute()-s, 0)
}

// Live is Compute with the duration replaced by the elapsed time when the
// workout has not been completed yet.
func Live(w models.Workout, now time.Time) models.Stats {
	st := Compute(w)
	if w.EndTime == "" {
		st.Duration = Elapsed(w.StartTime, now)
	}
	return st
}

func minutesOfDay(hhmm string) (int, bool) {
	t, err := time.Parse(constants.TimeFormat, hhmm)
	if err != nil {
		return 0, false
	}
	return t.Hour()*60 + t.Minute(), true
}
