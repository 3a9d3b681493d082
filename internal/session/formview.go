package session

import (
	"slices"
	"strconv"

	"github.com/julianstephens/liftlog/internal/models"
	"github.com/julianstephens/liftlog/internal/rpe"
)

// Field names an editable input of an exercise or one of its set rows.
type Field int

const (
	FieldName Field = iota
	FieldEquipment
	FieldBenchAngle
	FieldGripWidth
	FieldAttachment
	FieldWeight
	FieldRepsUnassisted
	FieldRepsAssisted
	FieldRPE
)

// IsSetField reports whether f belongs to a set row rather than the exercise.
func (f Field) IsSetField() bool {
	return f >= FieldWeight
}

// FormView is an in-memory View. The CLI edits through it and tests use it
// to stand in for a screen.
type FormView struct {
	state   ViewState
	renders int
}

func NewFormView() *FormView {
	return &FormView{}
}

func (v *FormView) Render(w models.Workout) {
	v.state = RenderState(w)
	v.renders++
}

func (v *FormView) State() ViewState {
	return cloneState(v.state)
}

// Renders counts how many times the view was rebuilt.
func (v *FormView) Renders() int {
	return v.renders
}

func (v *FormView) exercise(exerciseID string) *ExerciseState {
	for gi := range v.state.Groups {
		for ei := range v.state.Groups[gi].Exercises {
			if v.state.Groups[gi].Exercises[ei].ExerciseID == exerciseID {
				return &v.state.Groups[gi].Exercises[ei]
			}
		}
	}
	return nil
}

// SetExerciseField edits an exercise-level input. It reports false when the
// exercise is not displayed or f is a set field.
func (v *FormView) SetExerciseField(exerciseID string, f Field, value string) bool {
	es := v.exercise(exerciseID)
	if es == nil {
		return false
	}
	switch f {
	case FieldName:
		es.Name = value
	case FieldEquipment:
		es.Equipment = value
	case FieldBenchAngle:
		es.BenchAngle = value
	case FieldGripWidth:
		es.GripWidth = value
	case FieldAttachment:
		es.Attachment = value
	default:
		return false
	}
	return true
}

// SetSetField edits one input of a set row; setNumber is 1-based. Editing
// the weight or either rep count re-estimates the RPE when an estimate is
// available. Editing the RPE itself is taken as given.
func (v *FormView) SetSetField(exerciseID string, setNumber int, f Field, value string) bool {
	es := v.exercise(exerciseID)
	if es == nil || setNumber < 1 || setNumber > len(es.Sets) {
		return false
	}
	row := &es.Sets[setNumber-1]
	switch f {
	case FieldWeight:
		row.Weight = value
	case FieldRepsUnassisted:
		row.RepsUnassisted = value
	case FieldRepsAssisted:
		row.RepsAssisted = value
	case FieldRPE:
		row.RPE = value
		return true
	default:
		return false
	}
	Reestimate(row)
	return true
}

// Reestimate replaces the row's RPE with the estimate for its weight and
// reps. Without an estimate the RPE is left alone.
func Reestimate(row *SetState) {
	est, ok := rpe.Estimate(parseWeight(row.Weight), parseReps(row.RepsUnassisted), parseReps(row.RepsAssisted))
	if ok {
		row.RPE = strconv.FormatFloat(est, 'f', 1, 64)
	}
}

// MoveGroup moves the displayed group at index from to index to.
func (v *FormView) MoveGroup(from, to int) bool {
	n := len(v.state.Groups)
	if from < 0 || from >= n || to < 0 || to >= n {
		return false
	}
	g := v.state.Groups[from]
	groups := append(v.state.Groups[:from:from], v.state.Groups[from+1:]...)
	groups = append(groups[:to], append([]GroupState{g}, groups[to:]...)...)
	v.state.Groups = groups
	return true
}

func cloneState(s ViewState) ViewState {
	out := ViewState{Groups: make([]GroupState, len(s.Groups))}
	for gi, g := range s.Groups {
		out.Groups[gi] = GroupState{GroupID: g.GroupID, Exercises: make([]ExerciseState, len(g.Exercises))}
		for ei, ex := range g.Exercises {
			ex.Sets = slices.Clone(ex.Sets)
			out.Groups[gi].Exercises[ei] = ex
		}
	}
	return out
}
