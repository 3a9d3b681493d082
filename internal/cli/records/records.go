package records

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/julianstephens/liftlog/internal/cli"
	"github.com/julianstephens/liftlog/internal/history"
	"github.com/julianstephens/liftlog/internal/models"
)

type ListCmd struct {
	Limit int `help:"Show at most this many workouts (0 for all)." default:"20"`
}

func (c *ListCmd) Run(ctx *cli.Context) error {
	workouts, err := ctx.Manager.GetAllWorkouts()
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}
	if len(workouts) == 0 {
		fmt.Println("No completed workouts yet.")
		return nil
	}

	unit := ctx.Unit()
	sorted := history.Newest(workouts)
	if c.Limit > 0 && len(sorted) > c.Limit {
		sorted = sorted[:c.Limit]
	}
	for _, w := range sorted {
		card := history.NewCard(w, ctx.Manager.TrainerName(w.TrainerID))
		fmt.Printf("%s %s %s  %-16s %d exercises · %d sets · %s %s · RPE %s\n",
			card.Weekday, card.Date, card.StartTime, card.Trainer,
			card.Exercises, card.Sets, card.VolumeK(), unit, card.RPE())
		fmt.Printf("    %s  (%s)\n", card.NameLine(), card.WorkoutID)
	}
	if len(sorted) < len(workouts) {
		fmt.Printf("\n%d of %d workouts shown. Use --limit 0 to see all.\n", len(sorted), len(workouts))
	}
	return nil
}

type ShowCmd struct {
	ID string `arg:"" help:"Workout id."`
}

func (c *ShowCmd) Run(ctx *cli.Context) error {
	w, ok, err := ctx.Manager.GetWorkoutByID(c.ID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("workout %s not found", c.ID)
	}
	ctx.PrintWorkout(os.Stdout, w, false)
	return nil
}

// ExerciseCmd lists past performances of an exercise, newest first.
type ExerciseCmd struct {
	Name       string `arg:"" help:"Exercise name or part of it."`
	Equipment  string `help:"Only this equipment."`
	Angle      string `help:"Only this bench angle."`
	Grip       string `help:"Only this grip width."`
	Attachment string `help:"Only this cable attachment."`
	Limit      int    `help:"Show at most this many entries (0 for all)." default:"10"`
}

func (c *ExerciseCmd) conditions() (history.Conditions, error) {
	var cond history.Conditions
	if c.Equipment != "" {
		v, err := models.ParseEquipment(c.Equipment)
		if err != nil {
			return cond, err
		}
		cond.Equipment = &v
	}
	if c.Angle != "" {
		v, err := models.ParseBenchAngle(c.Angle)
		if err != nil {
			return cond, err
		}
		cond.BenchAngle = &v
	}
	if c.Grip != "" {
		v, err := models.ParseGripWidth(c.Grip)
		if err != nil {
			return cond, err
		}
		cond.GripWidth = &v
	}
	if c.Attachment != "" {
		v, err := models.ParseAttachment(c.Attachment)
		if err != nil {
			return cond, err
		}
		cond.Attachment = &v
	}
	return cond, nil
}

func (c *ExerciseCmd) Run(ctx *cli.Context) error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("exercise name cannot be empty")
	}
	cond, err := c.conditions()
	if err != nil {
		return err
	}
	entries, err := ctx.Manager.GetExerciseHistory(c.Name, cond)
	if err != nil {
		return err
	}

	if len(entries) == 0 {
		fmt.Printf("No history for %q.\n", c.Name)
		suggestions, err := suggest(ctx, c.Name)
		if err != nil {
			return err
		}
		if len(suggestions) > 0 {
			fmt.Printf("Did you mean: %s?\n", strings.Join(suggestions, ", "))
		}
		return nil
	}

	unit := ctx.Unit()
	now := ctx.Clock()
	shown := entries
	if c.Limit > 0 && len(shown) > c.Limit {
		shown = shown[:c.Limit]
	}
	for _, e := range shown {
		sets := make([]string, 0, len(e.Sets))
		for _, s := range e.Sets {
			sets = append(sets, history.FormatSet(s, unit))
		}
		fmt.Printf("%s (%s)  %s  [%s, %s]\n", e.Date, history.RelativeDate(e.Date, now),
			e.ExerciseName, e.Equipment.Label(), e.BenchAngle.Label())
		fmt.Printf("    best %s  sets %s  (%s)\n",
			history.FormatSet(history.BestSet(e.Sets), unit), strings.Join(sets, " "), ctx.Manager.TrainerName(e.TrainerID))
	}
	if len(shown) < len(entries) {
		fmt.Printf("\n%d of %d entries shown.\n", len(shown), len(entries))
	}
	return nil
}

// suggest returns up to three known exercise names that fuzzily match query.
func suggest(ctx *cli.Context, query string) ([]string, error) {
	workouts, err := ctx.Manager.GetAllWorkouts()
	if err != nil {
		return nil, err
	}
	seen := map[string]bool{}
	var names []string
	for _, w := range workouts {
		for _, n := range w.ExerciseNames() {
			key := strings.ToLower(n)
			if !seen[key] {
				seen[key] = true
				names = append(names, n)
			}
		}
	}
	sort.Strings(names)

	matches := fuzzy.Find(query, names)
	var out []string
	for i, m := range matches {
		if i == 3 {
			break
		}
		out = append(out, m.Str)
	}
	return out, nil
}

type DeleteCmd struct {
	ID  string `arg:"" help:"Workout id."`
	Yes bool   `help:"Skip the confirmation prompt." short:"y"`
}

func (c *DeleteCmd) Run(ctx *cli.Context) error {
	w, ok, err := ctx.Manager.GetWorkoutByID(c.ID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("workout %s not found", c.ID)
	}
	if !c.Yes {
		fmt.Printf("This will permanently delete the workout from %s %s.\n", w.Date, w.StartTime)
		ok, err := ctx.Confirm("Continue?")
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("Cancelled.")
			return nil
		}
	}

	ctx.PerformAutomaticBackup()
	if _, err := ctx.Manager.DeleteWorkout(c.ID); err != nil {
		return err
	}
	fmt.Printf("✓ Deleted workout %s\n", c.ID)
	return nil
}

type PruneCmd struct {
	Months int  `help:"Delete workouts older than this many months." required:""`
	Yes    bool `help:"Skip the confirmation prompt." short:"y"`
}

func (c *PruneCmd) Run(ctx *cli.Context) error {
	if c.Months < 1 {
		return fmt.Errorf("--months must be at least 1")
	}
	if !c.Yes {
		fmt.Printf("This will permanently delete workouts older than %d months.\n", c.Months)
		ok, err := ctx.Confirm("Continue?")
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("Cancelled.")
			return nil
		}
	}

	ctx.PerformAutomaticBackup()
	removed, err := ctx.Manager.DeleteWorkoutsOlderThan(c.Months)
	if err != nil {
		return err
	}
	fmt.Printf("✓ Deleted %d workouts\n", removed)
	return nil
}
