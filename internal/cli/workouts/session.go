package workouts

import (
	"errors"
	"fmt"
	"os"

	"github.com/julianstephens/liftlog/internal/cli"
	"github.com/julianstephens/liftlog/internal/session"
	"github.com/julianstephens/liftlog/internal/validation"
)

type TrainerCmd struct {
	Trainer string `arg:"" help:"Trainer id, or 'self' for a self-directed session."`
}

func (c *TrainerCmd) Run(ctx *cli.Context) error {
	return withSession(ctx, func(s *session.Session, v *session.FormView) error {
		ok, err := s.SetTrainer(c.Trainer)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("trainer %s not found; see 'liftlog trainer list'", c.Trainer)
		}
		fmt.Printf("Trainer set to %s\n", ctx.Manager.TrainerName(s.Workout().TrainerID))
		return nil
	})
}

type ConditionCmd struct {
	Sleep        *float64 `help:"Hours slept."`
	SleepQuality *int     `help:"Sleep quality, 1-5."`
	Fatigue      *int     `help:"Fatigue, 1-5."`
	Stress       *int     `help:"Stress, 1-5."`
	Mood         *int     `help:"Mood, 1-5."`
	Caffeine     *bool    `help:"Caffeine before the session." negatable:""`
}

func (c *ConditionCmd) Run(ctx *cli.Context) error {
	return withSession(ctx, func(s *session.Session, v *session.FormView) error {
		cond := s.Workout().Condition
		if c.Sleep != nil {
			cond.Sleep = *c.Sleep
		}
		if c.SleepQuality != nil {
			cond.SleepQuality = *c.SleepQuality
		}
		if c.Fatigue != nil {
			cond.Fatigue = *c.Fatigue
		}
		if c.Stress != nil {
			cond.Stress = *c.Stress
		}
		if c.Mood != nil {
			cond.Mood = *c.Mood
		}
		if c.Caffeine != nil {
			cond.Caffeine = *c.Caffeine
		}
		if err := s.SetCondition(cond); err != nil {
			return err
		}
		fmt.Println("Condition updated.")
		return nil
	})
}

type NotesCmd struct {
	Text     string `arg:"" help:"Notes text; an empty string clears them."`
	Exercise string `help:"Attach the notes to an exercise instead of the workout."`
}

func (c *NotesCmd) Run(ctx *cli.Context) error {
	return withSession(ctx, func(s *session.Session, v *session.FormView) error {
		if c.Exercise == "" {
			if err := s.SetNotes(c.Text); err != nil {
				return err
			}
			fmt.Println("Workout notes updated.")
			return nil
		}
		exID, err := cli.ResolveExercise(s.Workout(), c.Exercise)
		if err != nil {
			return err
		}
		if _, err := s.SetExerciseNotes(exID, c.Text); err != nil {
			return err
		}
		fmt.Println("Exercise notes updated.")
		return nil
	})
}

type CompleteCmd struct {
	Force bool `help:"Complete even when the workout fails validation."`
	Yes   bool `help:"Skip the confirmation prompt." short:"y"`
}

func (c *CompleteCmd) Run(ctx *cli.Context) error {
	return withSession(ctx, func(s *session.Session, v *session.FormView) error {
		w := s.Workout()
		if len(w.Groups) == 0 && !c.Force {
			return fmt.Errorf("the workout has no exercises; add some or use --force")
		}
		if !c.Yes {
			fmt.Printf("Complete workout started at %s with %d exercises?\n", w.StartTime, s.Stats().TotalExercises)
			ok, err := ctx.Confirm("Continue?")
			if err != nil {
				return err
			}
			if !ok {
				fmt.Println("Cancelled.")
				return nil
			}
		}

		done, err := s.Complete(c.Force)
		if err != nil {
			var verr *validation.ValidationError
			if errors.As(err, &verr) && !c.Force {
				fmt.Println("Use --force to complete anyway.")
			}
			if done.ID == "" {
				return err
			}
		}
		fmt.Println("✓ Workout completed")
		fmt.Println()
		ctx.PrintWorkout(os.Stdout, done, false)
		ctx.PerformAutomaticBackup()
		return err
	})
}

type DiscardCmd struct {
	Yes bool `help:"Skip the confirmation prompt." short:"y"`
}

func (c *DiscardCmd) Run(ctx *cli.Context) error {
	if _, ok, err := ctx.Manager.GetCurrentWorkout(); err != nil {
		return err
	} else if !ok {
		fmt.Println("No workout in progress.")
		return nil
	}
	return withSession(ctx, func(s *session.Session, v *session.FormView) error {
		if !c.Yes {
			fmt.Printf("This will permanently discard the workout started at %s.\n", s.Workout().StartTime)
			ok, err := ctx.Confirm("Continue?")
			if err != nil {
				return err
			}
			if !ok {
				fmt.Println("Cancelled.")
				return nil
			}
		}
		if err := s.Discard(); err != nil {
			return err
		}
		fmt.Println("✓ Workout discarded")
		return nil
	})
}
