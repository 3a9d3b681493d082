package models

import (
	"time"

	"github.com/julianstephens/liftlog/internal/constants"
)

// Condition is the self-reported wellness snapshot taken at the start of a session.
type Condition struct {
	Sleep        float64 `json:"sleep"`        // hours
	SleepQuality int     `json:"sleepQuality"` // 1-5
	Fatigue      int     `json:"fatigue"`      // 1-5
	Stress       int     `json:"stress"`       // 1-5
	Mood         int     `json:"mood"`         // 1-5
	Caffeine     bool    `json:"caffeine"`
}

// Stats is derived from the groups on every save and is never authoritative.
type Stats struct {
	TotalExercises int     `json:"totalExercises"`
	TotalSets      int     `json:"totalSets"`
	TotalVolume    int     `json:"totalVolume"`
	Duration       int     `json:"duration"` // minutes
	AvgRPE         float64 `json:"avgRPE"`
}

type SetRecord struct {
	SetNumber      int     `json:"setNumber"`
	Weight         float64 `json:"weight"`
	RepsUnassisted int     `json:"repsUnassisted"`
	RepsAssisted   int     `json:"repsAssisted"`
	RPE            float64 `json:"rpe"`
	RestSeconds    int     `json:"restSeconds"`
	Notes          string  `json:"notes"`
}

// TotalReps is unassisted plus assisted reps.
func (s SetRecord) TotalReps() int {
	return s.RepsUnassisted + s.RepsAssisted
}

type Exercise struct {
	ExerciseID   string      `json:"exerciseId"`
	ExerciseName string      `json:"exerciseName"`
	Equipment    Equipment   `json:"equipment"`
	BenchAngle   BenchAngle  `json:"benchAngle"`
	Attachment   *Attachment `json:"attachment"`
	GripWidth    GripWidth   `json:"gripWidth"`
	Notes        string      `json:"notes"`
	Sets         []SetRecord `json:"sets"`
}

type ExerciseGroup struct {
	GroupID   string     `json:"groupId"`
	GroupType GroupType  `json:"groupType"`
	Order     int        `json:"order"`
	Exercises []Exercise `json:"exercises"`
}

type Workout struct {
	ID        string          `json:"id"`
	Date      string          `json:"date"`      // YYYY-MM-DD format
	StartTime string          `json:"startTime"` // HH:MM format
	EndTime   string          `json:"endTime,omitempty"`
	TrainerID *string         `json:"trainerId"`
	Groups    []ExerciseGroup `json:"groups"`
	Condition Condition       `json:"condition"`
	Notes     string          `json:"notes"`
	Stats     Stats           `json:"stats"`
}

// DefaultCondition returns the values a fresh session starts with.
func DefaultCondition() Condition {
	return Condition{
		Sleep:        constants.DefaultSleepHours,
		SleepQuality: constants.DefaultScale,
		Fatigue:      constants.DefaultScale,
		Stress:       constants.DefaultScale,
		Mood:         constants.DefaultScale,
		Caffeine:     false,
	}
}

func NewWorkout(now time.Time) Workout {
	return Workout{
		ID:        NewID("entry"),
		Date:      now.Format(constants.DateFormat),
		StartTime: now.Format(constants.TimeFormat),
		Groups:    []ExerciseGroup{},
		Condition: DefaultCondition(),
	}
}

// NewExerciseGroup returns an empty group with order 0. The caller sets
// the order to its position when appending it.
func NewExerciseGroup(t GroupType) ExerciseGroup {
	return ExerciseGroup{
		GroupID:   NewID("group"),
		GroupType: t,
		Exercises: []Exercise{},
	}
}

func NewExercise() Exercise {
	return Exercise{
		ExerciseID: NewID("exercise"),
		Equipment:  EquipmentBarbell,
		BenchAngle: AngleFlat,
		GripWidth:  GripStandard,
		Sets:       []SetRecord{},
	}
}

func NewSetRecord(number int) SetRecord {
	return SetRecord{
		SetNumber:   number,
		RPE:         constants.DefaultRPE,
		RestSeconds: constants.DefaultRestSeconds,
	}
}

// FindGroup returns the index of the group with the given id.
func (w *Workout) FindGroup(groupID string) (int, bool) {
	for i := range w.Groups {
		if w.Groups[i].GroupID == groupID {
			return i, true
		}
	}
	return -1, false
}

// FindExercise returns a pointer into the workout for the exercise with the given id.
func (w *Workout) FindExercise(exerciseID string) (*Exercise, bool) {
	for gi := range w.Groups {
		for ei := range w.Groups[gi].Exercises {
			if w.Groups[gi].Exercises[ei].ExerciseID == exerciseID {
				return &w.Groups[gi].Exercises[ei], true
			}
		}
	}
	return nil, false
}

// LocateExercise returns the group and exercise indexes for the exercise with the given id.
func (w *Workout) LocateExercise(exerciseID string) (int, int, bool) {
	for gi := range w.Groups {
		for ei := range w.Groups[gi].Exercises {
			if w.Groups[gi].Exercises[ei].ExerciseID == exerciseID {
				return gi, ei, true
			}
		}
	}
	return -1, -1, false
}

// Renumber sets every group's order to its 1-based position.
func (w *Workout) Renumber() {
	for i := range w.Groups {
		w.Groups[i].Order = i + 1
	}
}

// RenumberSets sets every set number to its 1-based position.
func (e *Exercise) RenumberSets() {
	for i := range e.Sets {
		e.Sets[i].SetNumber = i + 1
	}
}

// ExerciseNames returns the names of every exercise in group order, skipping blanks.
func (w Workout) ExerciseNames() []string {
	var names []string
	for _, g := range w.Groups {
		for _, ex := range g.Exercises {
			if ex.ExerciseName != "" {
				names = append(names, ex.ExerciseName)
			}
		}
	}
	return names
}

// IsSelfDirected reports whether no trainer supervised the session.
func (w Workout) IsSelfDirected() bool {
	return w.TrainerID == nil || *w.TrainerID == "" || *w.TrainerID == constants.SelfTrainerID
}
