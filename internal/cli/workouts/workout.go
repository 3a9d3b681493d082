package workouts

import (
	"fmt"
	"os"

	"github.com/julianstephens/liftlog/internal/cli"
	"github.com/julianstephens/liftlog/internal/session"
	"github.com/julianstephens/liftlog/internal/stats"
)

// withSession runs fn against the draft workout while holding the data lock.
func withSession(ctx *cli.Context, fn func(s *session.Session, v *session.FormView) error) error {
	view := session.NewFormView()
	s, release, err := ctx.OpenSession(view)
	if err != nil {
		return err
	}
	defer release()
	return fn(s, view)
}

type StartCmd struct{}

func (c *StartCmd) Run(ctx *cli.Context) error {
	view := session.NewFormView()
	s, release, err := ctx.OpenSession(view)
	if err != nil {
		return err
	}
	defer release()

	w := s.Workout()
	if _, ok, err := ctx.Manager.GetCurrentWorkout(); err != nil {
		return err
	} else if ok {
		fmt.Printf("Resuming workout from %s %s\n\n", w.Date, w.StartTime)
	} else {
		if err := s.Save(); err != nil {
			return err
		}
		fmt.Printf("Started workout at %s\n\n", w.StartTime)
	}
	ctx.PrintWorkout(os.Stdout, s.Workout(), true)
	return nil
}

type ShowCmd struct {
	Live bool `help:"Report the duration as time elapsed so far." default:"true" negatable:""`
}

func (c *ShowCmd) Run(ctx *cli.Context) error {
	w, ok, err := ctx.Manager.GetCurrentWorkout()
	if err != nil {
		return err
	}
	if !ok {
		fmt.Println("No workout in progress. Start one with 'liftlog workout start'.")
		return nil
	}
	if c.Live {
		w.Stats = stats.Live(w, ctx.Clock())
	}
	ctx.PrintWorkout(os.Stdout, w, true)
	return nil
}

type AddCmd struct {
	Names    []string `arg:"" optional:"" help:"Names for the new exercises, in order."`
	Superset bool     `help:"Add a superset of two exercises."`
	Group    string   `help:"Add one exercise to an existing group (id or number)."`
}

func (c *AddCmd) Run(ctx *cli.Context) error {
	if c.Superset && c.Group != "" {
		return fmt.Errorf("--superset and --group cannot be used together")
	}
	return withSession(ctx, func(s *session.Session, v *session.FormView) error {
		var added []string
		switch {
		case c.Group != "":
			gid, err := cli.ResolveGroup(s.Workout(), c.Group)
			if err != nil {
				return err
			}
			ex, ok, err := s.AddExerciseToGroup(gid)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("group %s not found", c.Group)
			}
			added = append(added, ex.ExerciseID)
		case c.Superset:
			g, err := s.AddSuperset()
			if err != nil {
				return err
			}
			for _, ex := range g.Exercises {
				added = append(added, ex.ExerciseID)
			}
		default:
			g, err := s.AddNormal()
			if err != nil {
				return err
			}
			added = append(added, g.Exercises[0].ExerciseID)
		}

		if len(c.Names) > len(added) {
			return fmt.Errorf("%d names given for %d new exercises", len(c.Names), len(added))
		}
		for i, name := range c.Names {
			v.SetExerciseField(added[i], session.FieldName, name)
		}
		if len(c.Names) > 0 {
			if err := s.Save(); err != nil {
				return err
			}
		}

		fmt.Printf("Added %d exercise(s)\n\n", len(added))
		ctx.PrintWorkout(os.Stdout, s.Workout(), false)
		return nil
	})
}

// SetCmd edits an exercise and, with --set, one of its set rows.
type SetCmd struct {
	Exercise string `arg:"" help:"Exercise id or GROUP.EXERCISE, e.g. 1.2."`
	Set      int    `help:"Set number to edit." short:"s"`

	Name       *string `help:"Exercise name."`
	Equipment  *string `help:"Equipment (barbell, dumbbell, smith_machine, cable, machine, leg_press, trap_bar)."`
	Angle      *string `help:"Bench angle (decline, flat, incline_30, incline_45)."`
	Grip       *string `help:"Grip width (narrow, standard, wide)."`
	Attachment *string `help:"Cable attachment (rope, v_bar, d_handle, ...), or an empty string for none."`

	Weight   *string `help:"Weight of the set."`
	Reps     *string `help:"Unassisted reps of the set."`
	Assisted *string `help:"Assisted reps of the set."`
	RPE      *string `help:"RPE of the set; estimated from weight and reps when not given." name:"rpe"`
}

func (c *SetCmd) exerciseEdits() map[session.Field]*string {
	return map[session.Field]*string{
		session.FieldName:       c.Name,
		session.FieldEquipment:  c.Equipment,
		session.FieldBenchAngle: c.Angle,
		session.FieldGripWidth:  c.Grip,
		session.FieldAttachment: c.Attachment,
	}
}

func (c *SetCmd) setEdits() []setEdit {
	return []setEdit{
		{session.FieldWeight, c.Weight},
		{session.FieldRepsUnassisted, c.Reps},
		{session.FieldRepsAssisted, c.Assisted},
		{session.FieldRPE, c.RPE},
	}
}

// setEdit is ordered so an explicit RPE lands after the estimate.
type setEdit struct {
	field session.Field
	value *string
}

func (c *SetCmd) Run(ctx *cli.Context) error {
	return withSession(ctx, func(s *session.Session, v *session.FormView) error {
		exID, err := cli.ResolveExercise(s.Workout(), c.Exercise)
		if err != nil {
			return err
		}

		changed := false
		for f, val := range c.exerciseEdits() {
			if val != nil {
				v.SetExerciseField(exID, f, *val)
				changed = true
			}
		}
		for _, e := range c.setEdits() {
			if e.value == nil {
				continue
			}
			if c.Set == 0 {
				return fmt.Errorf("--set is required to edit weight, reps or RPE")
			}
			if !v.SetSetField(exID, c.Set, e.field, *e.value) {
				return fmt.Errorf("exercise %s has no set %d", c.Exercise, c.Set)
			}
			changed = true
		}
		if !changed {
			fmt.Println("No changes specified.")
			return nil
		}

		if err := s.Save(); err != nil {
			return err
		}
		w := s.Workout()
		if ex, ok := w.FindExercise(exID); ok {
			fmt.Printf("Updated %s\n", displayName(ex.ExerciseName))
		}
		return nil
	})
}

type AddSetCmd struct {
	Exercise string `arg:"" help:"Exercise id or GROUP.EXERCISE."`
	Weight   string `help:"Weight of the new set."`
	Reps     string `help:"Unassisted reps of the new set."`
	Assisted string `help:"Assisted reps of the new set."`
}

func (c *AddSetCmd) Run(ctx *cli.Context) error {
	return withSession(ctx, func(s *session.Session, v *session.FormView) error {
		exID, err := cli.ResolveExercise(s.Workout(), c.Exercise)
		if err != nil {
			return err
		}
		set, ok, err := s.AddSet(exID)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("exercise %s not found", c.Exercise)
		}

		edited := false
		for _, e := range []setEdit{
			{session.FieldWeight, &c.Weight},
			{session.FieldRepsUnassisted, &c.Reps},
			{session.FieldRepsAssisted, &c.Assisted},
		} {
			if *e.value != "" {
				v.SetSetField(exID, set.SetNumber, e.field, *e.value)
				edited = true
			}
		}
		if edited {
			if err := s.Save(); err != nil {
				return err
			}
		}
		fmt.Printf("Added set #%d\n", set.SetNumber)
		return nil
	})
}

type DeleteCmd struct {
	Ref   string `arg:"" help:"Exercise (id or GROUP.EXERCISE), or group with --group."`
	Set   int    `help:"Delete only this set of the exercise."`
	Group bool   `help:"Treat the reference as a group and delete the whole group."`
}

func (c *DeleteCmd) Run(ctx *cli.Context) error {
	return withSession(ctx, func(s *session.Session, v *session.FormView) error {
		w := s.Workout()
		var (
			ok   bool
			err  error
			what string
		)
		switch {
		case c.Group:
			var gid string
			if gid, err = cli.ResolveGroup(w, c.Ref); err != nil {
				return err
			}
			ok, err = s.DeleteGroup(gid)
			what = "group " + c.Ref
		case c.Set > 0:
			var exID string
			if exID, err = cli.ResolveExercise(w, c.Ref); err != nil {
				return err
			}
			ok, err = s.DeleteSet(exID, c.Set)
			what = fmt.Sprintf("set #%d of %s", c.Set, c.Ref)
		default:
			var exID string
			if exID, err = cli.ResolveExercise(w, c.Ref); err != nil {
				return err
			}
			ok, err = s.DeleteExercise(exID)
			what = "exercise " + c.Ref
		}
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%s not found", what)
		}
		fmt.Printf("Deleted %s\n", what)
		return nil
	})
}

type MoveCmd struct {
	From int `arg:"" help:"Current group number."`
	To   int `arg:"" help:"New group number."`
}

func (c *MoveCmd) Run(ctx *cli.Context) error {
	return withSession(ctx, func(s *session.Session, v *session.FormView) error {
		if !v.MoveGroup(c.From-1, c.To-1) {
			return fmt.Errorf("cannot move group %d to position %d", c.From, c.To)
		}
		if err := s.Save(); err != nil {
			return err
		}
		fmt.Printf("Moved group %d to position %d\n", c.From, c.To)
		return nil
	})
}

func displayName(name string) string {
	if name == "" {
		return "(unnamed exercise)"
	}
	return name
}
