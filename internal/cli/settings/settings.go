package settings

import (
	"fmt"

	"github.com/julianstephens/liftlog/internal/cli"
)

type SettingsCmd struct {
	List bool `help:"List current settings."`

	WeightUnit *string `help:"Weight unit for display (kg or lb)."`
}

func (c *SettingsCmd) Run(ctx *cli.Context) error {
	settings, err := ctx.Manager.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	if c.List {
		fmt.Println("Current Settings:")
		fmt.Printf("  Weight Unit:     %s\n", settings.Unit())
		fmt.Println("\nConfiguration:")
		fmt.Printf("  Backend:         %s\n", ctx.Config.Backend)
		fmt.Printf("  Data Directory:  %s\n", ctx.Config.DataDir)
		fmt.Printf("  Store:           %s\n", ctx.Store.GetConfigPath())
		fmt.Printf("  Max Backups:     %d\n", ctx.Config.MaxBackups)
		fmt.Printf("  History Cache:   %d MB\n", ctx.Config.HistoryCacheMB)
		return nil
	}

	if c.WeightUnit == nil {
		fmt.Println("No changes specified. Use --list to view settings or flags to update them.")
		return nil
	}

	settings.WeightUnit = *c.WeightUnit
	if err := ctx.Manager.SaveSettings(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	fmt.Println("Settings updated successfully.")
	return nil
}
