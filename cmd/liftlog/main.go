package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/liftlog/internal/cli"
	"github.com/julianstephens/liftlog/internal/cli/backups"
	"github.com/julianstephens/liftlog/internal/cli/data"
	"github.com/julianstephens/liftlog/internal/cli/records"
	"github.com/julianstephens/liftlog/internal/cli/settings"
	"github.com/julianstephens/liftlog/internal/cli/system"
	"github.com/julianstephens/liftlog/internal/cli/trainers"
	"github.com/julianstephens/liftlog/internal/cli/workouts"
	"github.com/julianstephens/liftlog/internal/config"
	"github.com/julianstephens/liftlog/internal/constants"
	errs "github.com/julianstephens/liftlog/internal/errors"
	"github.com/julianstephens/liftlog/internal/logger"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Config file (.yaml or .toml)." type:"path" default:"${config_path}"`
	DataDir string `help:"Data directory; overrides the config file." name:"data" type:"path"`
	Backend string `help:"Storage backend (file, sqlite or postgres); overrides the config file."`
	Debug   bool   `help:"Log debug output to stderr."`

	Init    system.InitCmd   `cmd:"" help:"Initialize liftlog storage."`
	Doctor  system.DoctorCmd `cmd:"" help:"Run health checks and diagnostics."`
	Tui     system.TuiCmd    `cmd:"" help:"Launch the interactive workout editor." default:"1"`
	Workout struct {
		Start     workouts.StartCmd     `cmd:"" help:"Start or resume the current workout."`
		Show      workouts.ShowCmd      `cmd:"" help:"Show the current workout." default:"1"`
		Add       workouts.AddCmd       `cmd:"" help:"Add an exercise, a superset, or an exercise to a group."`
		Set       workouts.SetCmd       `cmd:"" help:"Edit an exercise or one of its sets."`
		AddSet    workouts.AddSetCmd    `cmd:"" name:"add-set" help:"Add a set to an exercise."`
		Delete    workouts.DeleteCmd    `cmd:"" help:"Delete a set, an exercise or a group."`
		Move      workouts.MoveCmd      `cmd:"" help:"Move a group to another position."`
		Trainer   workouts.TrainerCmd   `cmd:"" help:"Set the trainer of the current workout."`
		Condition workouts.ConditionCmd `cmd:"" help:"Record sleep, fatigue, stress, mood and caffeine."`
		Notes     workouts.NotesCmd     `cmd:"" help:"Set workout or exercise notes."`
		Complete  workouts.CompleteCmd  `cmd:"" help:"Finish the workout and move it into history."`
		Discard   workouts.DiscardCmd   `cmd:"" help:"Throw away the current workout."`
	} `cmd:"" help:"Log the current workout."`
	History struct {
		List     records.ListCmd     `cmd:"" help:"List completed workouts." default:"1"`
		Show     records.ShowCmd     `cmd:"" help:"Show a completed workout."`
		Exercise records.ExerciseCmd `cmd:"" help:"Show past performances of an exercise."`
		Delete   records.DeleteCmd   `cmd:"" help:"Delete a completed workout."`
		Prune    records.PruneCmd    `cmd:"" help:"Delete workouts older than a number of months."`
	} `cmd:"" help:"Browse workout history."`
	Trainer struct {
		List   trainers.ListCmd   `cmd:"" help:"List trainers." default:"1"`
		Add    trainers.AddCmd    `cmd:"" help:"Add a trainer."`
		Remove trainers.RemoveCmd `cmd:"" help:"Remove a trainer."`
	} `cmd:"" help:"Manage trainers."`
	Data struct {
		Export data.ExportCmd `cmd:"" help:"Export all data as JSON."`
		Import data.ImportCmd `cmd:"" help:"Import an export file."`
		Clear  data.ClearCmd  `cmd:"" help:"Delete all workouts and reset trainers."`
		Undo   data.UndoCmd   `cmd:"" help:"Put back the value a blob held before its last write (sqlite and postgres)."`
	} `cmd:"" help:"Export, import, clear and undo data."`
	Backup struct {
		Create  backups.BackupCreateCmd  `cmd:"" help:"Create a manual backup." default:"1"`
		List    backups.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore backups.BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
	} `cmd:"" help:"Manage backups."`
	Keyring struct {
		Set    system.KeyringSetCmd    `cmd:"" help:"Store the PostgreSQL connection string."`
		Get    system.KeyringGetCmd    `cmd:"" help:"Show the stored connection string."`
		Delete system.KeyringDeleteCmd `cmd:"" help:"Delete the stored connection string."`
		Status system.KeyringStatusCmd `cmd:"" help:"Check keyring availability."`
	} `cmd:"" help:"Manage the PostgreSQL connection string in the OS keyring."`
	Settings settings.SettingsCmd `cmd:"" help:"Manage application settings."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Personal workout log: sets, supersets, RPE and progress against last time"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version":     constants.Version,
			"config_path": config.DefaultPath(),
		},
	)

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(logger.Config{Debug: cfg.Debug, DataDir: cfg.DataDir, Level: cfg.LogLevel}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logger: %v\n", err)
	}
	logger.Debug("Starting", "command", ctx.Command(), "backend", cfg.Backend, "data_dir", cfg.DataDir)

	// Keyring commands must work before any store is reachable
	if strings.HasPrefix(ctx.Command(), "keyring") {
		errs.Fatal(ctx.Run(&cli.Context{Config: cfg}))
		return
	}

	store, err := cli.NewProvider(cfg)
	if err != nil {
		errs.Fatal(err)
	}
	appCtx := cli.NewContext(store, cfg)
	defer store.Close()

	// init and doctor handle their own loading
	if cmd := ctx.Command(); cmd != "init" && cmd != "doctor" {
		if err := store.Load(); err != nil {
			errs.Fatal(err)
		}
	}

	if err := ctx.Run(appCtx); err != nil {
		store.Close()
		errs.Fatal(err)
	}
}

func loadConfig() (config.Config, error) {
	cfg, err := config.Load(CLI.Config)
	if err != nil {
		return config.Config{}, err
	}
	if CLI.DataDir != "" {
		cfg.DataDir = config.ExpandHome(CLI.DataDir)
	}
	if CLI.Backend != "" {
		cfg.Backend = CLI.Backend
	}
	if CLI.Debug {
		cfg.Debug = true
	}
	return cfg, cfg.Validate()
}
