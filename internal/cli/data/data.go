package data

import (
	"errors"
	"fmt"
	"os"

	"github.com/julianstephens/liftlog/internal/cli"
	"github.com/julianstephens/liftlog/internal/lock"
	"github.com/julianstephens/liftlog/internal/storage"
)

type ExportCmd struct {
	Output string `help:"Write to this file instead of stdout." short:"o" type:"path"`
}

func (c *ExportCmd) Run(ctx *cli.Context) error {
	data, err := ctx.Manager.ExportJSON()
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}
	if c.Output == "" {
		fmt.Println(string(data))
		return nil
	}
	if err := os.WriteFile(c.Output, append(data, '\n'), 0600); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	fmt.Printf("✓ Exported to %s\n", c.Output)
	return nil
}

type ImportCmd struct {
	File string `arg:"" help:"Export file to import." type:"existingfile"`
	Yes  bool   `help:"Skip the confirmation prompt." short:"y"`
}

func (c *ImportCmd) Run(ctx *cli.Context) error {
	data, err := os.ReadFile(c.File)
	if err != nil {
		return fmt.Errorf("failed to read import file: %w", err)
	}
	if !c.Yes {
		fmt.Println("Workouts and trainers present in the file replace the stored ones.")
		ok, err := ctx.Confirm("Continue?")
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("Import cancelled.")
			return nil
		}
	}

	l, err := lock.Acquire(ctx.Config.DataDir)
	if err != nil {
		return err
	}
	defer l.Release()

	ctx.PerformAutomaticBackup()
	if err := ctx.Manager.ImportAll(data); err != nil {
		return fmt.Errorf("import failed: %w", err)
	}
	fmt.Println("✓ Import completed")
	return nil
}

type ClearCmd struct {
	Yes bool `help:"Skip the confirmation prompt." short:"y"`
}

func (c *ClearCmd) Run(ctx *cli.Context) error {
	if !c.Yes {
		fmt.Println("⚠️  This deletes every workout and the draft, and resets trainers. Settings are kept.")
		ok, err := ctx.Confirm("Continue?")
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("Cancelled.")
			return nil
		}
	}

	l, err := lock.Acquire(ctx.Config.DataDir)
	if err != nil {
		return err
	}
	defer l.Release()

	ctx.PerformAutomaticBackup()
	if err := ctx.Manager.ClearAll(); err != nil {
		return err
	}
	fmt.Println("✓ All data cleared. A backup was taken first.")
	return nil
}

type UndoCmd struct {
	Key string `arg:"" optional:"" help:"Blob to restore." enum:"workouts,current_workout,trainers,settings" default:"workouts"`
	Yes bool   `help:"Skip the confirmation prompt." short:"y"`
}

func (c *UndoCmd) Run(ctx *cli.Context) error {
	if _, ok := ctx.Manager.Provider().(storage.Versioned); !ok {
		return fmt.Errorf("%w; use 'liftlog backup restore' instead", storage.ErrNotVersioned)
	}
	if !c.Yes {
		fmt.Printf("This replaces %s with the value it held before its last write.\n", c.Key)
		ok, err := ctx.Confirm("Continue?")
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("Undo cancelled.")
			return nil
		}
	}

	l, err := lock.Acquire(ctx.Config.DataDir)
	if err != nil {
		return err
	}
	defer l.Release()

	ctx.PerformAutomaticBackup()
	ok, err := ctx.Manager.RestorePrevious(c.Key)
	if err != nil {
		if errors.Is(err, storage.ErrNotVersioned) {
			return err
		}
		return fmt.Errorf("undo failed: %w", err)
	}
	if !ok {
		fmt.Printf("No previous value of %s is kept.\n", c.Key)
		return nil
	}
	fmt.Printf("✓ Restored the previous %s. Run undo again to swap back.\n", c.Key)
	return nil
}
