package history

import (
	"sort"
	"strings"

	"github.com/julianstephens/liftlog/internal/models"
)

// Conditions narrows a history lookup. Nil fields impose no constraint.
type Conditions struct {
	Equipment  *models.Equipment
	BenchAngle *models.BenchAngle
	Attachment *models.Attachment
	GripWidth  *models.GripWidth
}

// ConditionsFor returns the conditions the editor uses to look up history
// for an exercise: same equipment, bench angle and attachment.
func ConditionsFor(ex models.Exercise) Conditions {
	eq := ex.Equipment
	angle := ex.BenchAngle
	c := Conditions{Equipment: &eq, BenchAngle: &angle}
	if ex.Attachment != nil {
		att := *ex.Attachment
		c.Attachment = &att
	}
	return c
}

func (c Conditions) matches(ex models.Exercise) bool {
	if c.Equipment != nil && ex.Equipment != *c.Equipment {
		return false
	}
	if c.BenchAngle != nil && ex.BenchAngle != *c.BenchAngle {
		return false
	}
	if c.Attachment != nil && (ex.Attachment == nil || *ex.Attachment != *c.Attachment) {
		return false
	}
	if c.GripWidth != nil && ex.GripWidth != *c.GripWidth {
		return false
	}
	return true
}

// Entry is a past exercise flattened with the session it belongs to.
type Entry struct {
	models.Exercise
	Date      string  `json:"date"`
	TrainerID *string `json:"trainerId"`
	WorkoutID string  `json:"workoutId"`
}

// Find returns every past exercise whose name contains name (case
// insensitive) and which satisfies c, newest session first. Entries from
// the same date keep their encounter order. A blank name matches nothing.
func Find(workouts []models.Workout, name string, c Conditions) []Entry {
	query := strings.ToLower(strings.TrimSpace(name))
	if query == "" {
		return nil
	}

	var entries []Entry
	for _, w := range workouts {
		for _, g := range w.Groups {
			for _, ex := range g.Exercises {
				if !strings.Contains(strings.ToLower(ex.ExerciseName), query) {
					continue
				}
				if !c.matches(ex) {
					continue
				}
				entries = append(entries, Entry{
					Exercise:  ex,
					Date:      w.Date,
					TrainerID: w.TrainerID,
					WorkoutID: w.ID,
				})
			}
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Date > entries[j].Date
	})
	return entries
}

// BestSet returns the heaviest set, breaking ties on total reps. The first
// set wins a full tie. An empty slice yields a zero set.
func BestSet(sets []models.SetRecord) models.SetRecord {
	if len(sets) == 0 {
		return models.SetRecord{}
	}
	best := sets[0]
	for _, s := range sets[1:] {
		if s.Weight > best.Weight {
			best = s
			continue
		}
		if s.Weight == best.Weight && s.TotalReps() > best.TotalReps() {
			best = s
		}
	}
	return best
}
