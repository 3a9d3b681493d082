// Package session owns the in-progress workout and keeps it in step with
// whatever front-end is displaying it.
//
// The model is pushed to the view with a full Render after every structural
// change, and pulled back from the view's field values before every save.
// The two directions are never merged into live binding.
package session

import (
	"math"
	"strconv"
	"strings"

	"go.uber.org/multierr"

	"github.com/julianstephens/liftlog/internal/constants"
	"github.com/julianstephens/liftlog/internal/models"
)

// View is anything that can display a workout and report its edited fields.
type View interface {
	// Render discards the current display and rebuilds it from w.
	Render(w models.Workout)
	// State returns the displayed field values in display order.
	State() ViewState
}

type ViewState struct {
	Groups []GroupState
}

type GroupState struct {
	GroupID   string
	Exercises []ExerciseState
}

type ExerciseState struct {
	ExerciseID string
	Name       string
	Equipment  string
	BenchAngle string
	GripWidth  string
	Attachment string // empty for none
	Sets       []SetState
}

// SetState holds the raw text of one set row.
type SetState struct {
	Weight         string
	RepsUnassisted string
	RepsAssisted   string
	RPE            string
}

// RenderState projects a workout onto the field values a view displays.
func RenderState(w models.Workout) ViewState {
	vs := ViewState{Groups: make([]GroupState, 0, len(w.Groups))}
	for _, g := range w.Groups {
		gs := GroupState{GroupID: g.GroupID, Exercises: make([]ExerciseState, 0, len(g.Exercises))}
		for _, ex := range g.Exercises {
			es := ExerciseState{
				ExerciseID: ex.ExerciseID,
				Name:       ex.ExerciseName,
				Equipment:  string(ex.Equipment),
				BenchAngle: string(ex.BenchAngle),
				GripWidth:  string(ex.GripWidth),
				Sets:       make([]SetState, 0, len(ex.Sets)),
			}
			if ex.Attachment != nil {
				es.Attachment = string(*ex.Attachment)
			}
			for _, set := range ex.Sets {
				es.Sets = append(es.Sets, SetState{
					Weight:         formatFloat(set.Weight),
					RepsUnassisted: strconv.Itoa(set.RepsUnassisted),
					RepsAssisted:   strconv.Itoa(set.RepsAssisted),
					RPE:            formatFloat(set.RPE),
				})
			}
			gs.Exercises = append(gs.Exercises, es)
		}
		vs.Groups = append(vs.Groups, gs)
	}
	return vs
}

// Pull copies the view's field values into w.
//
// Groups are reordered to view order and renumbered; groups the view does
// not show keep their relative order after the shown ones. Each exercise's
// sets are replaced wholesale by the view's rows. Unparsable or negative
// numbers become 0 and an unparsable or out-of-range RPE becomes the default.
// An unknown enum value leaves the model field unchanged and is reported in
// the returned error; every other field is still applied.
func Pull(w *models.Workout, s ViewState) error {
	var errs error

	index := make(map[string]int, len(w.Groups))
	for i, g := range w.Groups {
		index[g.GroupID] = i
	}

	ordered := make([]models.ExerciseGroup, 0, len(w.Groups))
	taken := make(map[string]bool, len(w.Groups))
	for _, gs := range s.Groups {
		i, ok := index[gs.GroupID]
		if !ok || taken[gs.GroupID] {
			continue
		}
		taken[gs.GroupID] = true
		g := w.Groups[i]
		errs = multierr.Append(errs, pullGroup(&g, gs))
		ordered = append(ordered, g)
	}
	for _, g := range w.Groups {
		if !taken[g.GroupID] {
			ordered = append(ordered, g)
		}
	}

	w.Groups = ordered
	w.Renumber()
	return errs
}

func pullGroup(g *models.ExerciseGroup, gs GroupState) error {
	var errs error
	for i, es := range gs.Exercises {
		ex := findExercise(g, es.ExerciseID, i)
		if ex == nil {
			continue
		}
		errs = multierr.Append(errs, pullExercise(ex, es))
	}
	return errs
}

// findExercise matches by id, falling back to position for rows without one.
func findExercise(g *models.ExerciseGroup, id string, pos int) *models.Exercise {
	if id != "" {
		for i := range g.Exercises {
			if g.Exercises[i].ExerciseID == id {
				return &g.Exercises[i]
			}
		}
		return nil
	}
	if pos < len(g.Exercises) {
		return &g.Exercises[pos]
	}
	return nil
}

func pullExercise(ex *models.Exercise, es ExerciseState) error {
	var errs error
	ex.ExerciseName = es.Name

	if v := strings.TrimSpace(es.Equipment); v != "" {
		if eq, err := models.ParseEquipment(v); err != nil {
			errs = multierr.Append(errs, err)
		} else {
			ex.Equipment = eq
		}
	}
	if v := strings.TrimSpace(es.BenchAngle); v != "" {
		if a, err := models.ParseBenchAngle(v); err != nil {
			errs = multierr.Append(errs, err)
		} else {
			ex.BenchAngle = a
		}
	}
	if v := strings.TrimSpace(es.GripWidth); v != "" {
		if gw, err := models.ParseGripWidth(v); err != nil {
			errs = multierr.Append(errs, err)
		} else {
			ex.GripWidth = gw
		}
	}
	if v := strings.TrimSpace(es.Attachment); v == "" {
		ex.Attachment = nil
	} else if a, err := models.ParseAttachment(v); err != nil {
		errs = multierr.Append(errs, err)
	} else {
		ex.Attachment = &a
	}

	sets := make([]models.SetRecord, 0, len(es.Sets))
	for i, row := range es.Sets {
		set := models.NewSetRecord(i + 1)
		if i < len(ex.Sets) {
			set.RestSeconds = ex.Sets[i].RestSeconds
			set.Notes = ex.Sets[i].Notes
		}
		set.Weight = parseWeight(row.Weight)
		set.RepsUnassisted = parseReps(row.RepsUnassisted)
		set.RepsAssisted = parseReps(row.RepsAssisted)
		set.RPE = parseRPE(row.RPE)
		sets = append(sets, set)
	}
	ex.Sets = sets
	return errs
}

func parseWeight(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func parseReps(s string) int {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || v < 0 {
		return 0
	}
	return v
}

// parseRPE also accepts the "RPE 8.5" badge text.
func parseRPE(s string) float64 {
	s = strings.TrimSpace(s)
	if len(s) >= 3 && strings.EqualFold(s[:3], "rpe") {
		s = strings.TrimSpace(s[3:])
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || v < constants.MinRPE || v > constants.MaxRPE {
		return constants.DefaultRPE
	}
	return v
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
