package history

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/julianstephens/liftlog/internal/constants"
	"github.com/julianstephens/liftlog/internal/models"
)

// cardNames is how many exercise names a card lists before "+N more".
const cardNames = 3

// Card is the summary line of a completed workout in a history list.
type Card struct {
	WorkoutID string
	Date      string
	Weekday   string
	StartTime string
	Trainer   string
	Exercises int
	Sets      int
	Volume    int
	AvgRPE    float64
	Names     []string
	MoreNames int
}

// NewCard summarizes w. trainer is the display name of its trainer.
func NewCard(w models.Workout, trainer string) Card {
	c := Card{
		WorkoutID: w.ID,
		Date:      w.Date,
		StartTime: w.StartTime,
		Trainer:   trainer,
		Exercises: w.Stats.TotalExercises,
		Sets:      w.Stats.TotalSets,
		Volume:    w.Stats.TotalVolume,
		AvgRPE:    w.Stats.AvgRPE,
	}
	if t, err := time.Parse(constants.DateFormat, w.Date); err == nil {
		c.Weekday = t.Weekday().String()[:3]
	}
	names := w.ExerciseNames()
	if len(names) > cardNames {
		c.MoreNames = len(names) - cardNames
		names = names[:cardNames]
	}
	c.Names = names
	return c
}

// RPE formats the average RPE to one decimal, e.g. "7.7".
func (c Card) RPE() string {
	return fmt.Sprintf("%.1f", c.AvgRPE)
}

// VolumeK formats the volume in thousands, e.g. "12.3k".
func (c Card) VolumeK() string {
	return fmt.Sprintf("%.1fk", float64(c.Volume)/1000)
}

// NameLine lists the first exercise names, e.g. "Squat, Row, Dip +2 more".
func (c Card) NameLine() string {
	if len(c.Names) == 0 {
		return "no exercises"
	}
	line := strings.Join(c.Names, ", ")
	if c.MoreNames > 0 {
		line += fmt.Sprintf(" +%d more", c.MoreNames)
	}
	return line
}

// Newest orders workouts by date then start time, most recent first.
func Newest(workouts []models.Workout) []models.Workout {
	out := append([]models.Workout(nil), workouts...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date > out[j].Date
		}
		return out[i].StartTime > out[j].StartTime
	})
	return out
}
