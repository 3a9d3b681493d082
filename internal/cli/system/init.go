package system

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/julianstephens/liftlog/internal/cli"
)

type InitCmd struct {
	Force  bool   `help:"Delete the existing local store before initializing."`
	Source string `help:"Store to copy data from: a .json file, a SQLite database or a PostgreSQL connection string."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	path := ctx.Store.GetConfigPath()

	if c.Force {
		if c.Source != "" {
			absPath, _ := filepath.Abs(path)
			absSource, err := filepath.Abs(c.Source)
			if err == nil && absSource == absPath {
				return fmt.Errorf("cannot use --force when source and destination are the same: %s", path)
			}
		}
		if _, err := os.Stat(path); err == nil {
			if err := ctx.Store.Close(); err != nil {
				return fmt.Errorf("failed to close existing store: %w", err)
			}
			if err := os.Remove(path); err != nil {
				return fmt.Errorf("failed to delete existing store: %w", err)
			}
			fmt.Printf("Deleted existing store at: %s\n", path)
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("failed to access existing store: %w", err)
		}
	}

	if err := ctx.Store.Init(); err != nil {
		return err
	}
	fmt.Printf("Initialized liftlog storage at: %s\n", path)

	if c.Source != "" {
		fmt.Printf("Copying data from: %s\n", c.Source)
		if err := c.copyFrom(ctx); err != nil {
			return fmt.Errorf("copy failed: %w", err)
		}
		fmt.Println("Copy completed successfully!")
	}
	return nil
}

func (c *InitCmd) copyFrom(ctx *cli.Context) error {
	src, err := cli.SourceProvider(c.Source)
	if err != nil {
		return err
	}
	if err := src.Load(); err != nil {
		return fmt.Errorf("failed to load source store: %w", err)
	}
	defer src.Close()

	srcMgr := cli.NewContext(src, ctx.Config).Manager
	data, err := srcMgr.ExportJSON()
	if err != nil {
		return fmt.Errorf("failed to read source: %w", err)
	}
	if err := ctx.Manager.ImportAll(data); err != nil {
		return err
	}

	settings, err := srcMgr.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to read source settings: %w", err)
	}
	if err := ctx.Manager.SaveSettings(settings); err != nil {
		return err
	}

	workouts, err := ctx.Manager.GetAllWorkouts()
	if err != nil {
		return err
	}
	fmt.Printf("  Copied %d workouts\n", len(workouts))
	return nil
}
