package trainers

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/julianstephens/liftlog/internal/cli"
)

type ListCmd struct{}

func (c *ListCmd) Run(ctx *cli.Context) error {
	trainers, err := ctx.Manager.GetTrainers()
	if err != nil {
		return fmt.Errorf("failed to load trainers: %w", err)
	}
	workouts, err := ctx.Manager.GetAllWorkouts()
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}
	sessions := map[string]int{}
	for _, w := range workouts {
		if !w.IsSelfDirected() {
			sessions[*w.TrainerID]++
		}
	}

	fmt.Println("Trainers:")
	for _, t := range trainers {
		added := ""
		if ts, err := time.Parse(time.RFC3339, t.CreatedAt); err == nil {
			added = "added " + humanize.RelTime(ts, ctx.Clock(), "ago", "from now")
		}
		fmt.Printf("  %-24s %-20s %3d sessions  %s\n", t.ID, t.Name, sessions[t.ID], added)
	}
	return nil
}

type AddCmd struct {
	Name string `arg:"" help:"Trainer name."`
}

func (c *AddCmd) Run(ctx *cli.Context) error {
	t, err := ctx.Manager.AddTrainer(c.Name)
	if err != nil {
		return err
	}
	fmt.Printf("✓ Added trainer %s (%s)\n", t.Name, t.ID)
	return nil
}

type RemoveCmd struct {
	ID  string `arg:"" help:"Trainer id."`
	Yes bool   `help:"Skip the confirmation prompt." short:"y"`
}

func (c *RemoveCmd) Run(ctx *cli.Context) error {
	if !c.Yes {
		fmt.Println("Past workouts with this trainer will show the trainer as unknown.")
		ok, err := ctx.Confirm("Continue?")
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("Cancelled.")
			return nil
		}
	}
	removed, err := ctx.Manager.RemoveTrainer(c.ID)
	if err != nil {
		return err
	}
	if !removed {
		return fmt.Errorf("trainer %s not found", c.ID)
	}
	fmt.Printf("✓ Removed trainer %s\n", c.ID)
	return nil
}
