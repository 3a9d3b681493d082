package system

import (
	"fmt"
	"time"

	"github.com/julianstephens/liftlog/internal/cli"
	"github.com/julianstephens/liftlog/internal/constants"
	"github.com/julianstephens/liftlog/internal/lock"
	"github.com/julianstephens/liftlog/internal/migration"
	"github.com/julianstephens/liftlog/internal/validation"
)

type DoctorCmd struct{}

// migrator is implemented by the database-backed stores.
type migrator interface {
	MigrationStatus() (migration.Status, error)
}

type check struct {
	name     string
	run      func(ctx *cli.Context) error
	needsDB  bool
	warnOnly bool
}

var checks = []check{
	{name: "Storage reachable", run: checkStorageReachable},
	{name: "Schema version", run: checkSchemaVersion, needsDB: true},
	{name: "Data lock", run: checkLock, warnOnly: true},
	{name: "Backups present", run: checkBackupsPresent, warnOnly: true},
	{name: "Workout validation", run: checkWorkouts, needsDB: true},
	{name: "Draft workout", run: checkDraft, needsDB: true},
	{name: "Trainer references", run: checkTrainerRefs, needsDB: true, warnOnly: true},
	{name: "Clock/timezone", run: checkClockTimezone},
}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	fmt.Println("Running diagnostics...")
	fmt.Println()

	hasError := false
	reachable := true

	for _, c := range checks {
		if c.needsDB && !reachable {
			fmt.Printf("⊘ %s: SKIPPED (storage not reachable)\n", c.name)
			continue
		}
		err := c.run(ctx)
		switch {
		case err == nil:
			fmt.Printf("✓ %s: OK\n", c.name)
		case c.warnOnly:
			fmt.Printf("⚠ %s: WARNING\n", c.name)
			fmt.Printf("   %v\n", err)
		default:
			fmt.Printf("❌ %s: FAIL\n", c.name)
			fmt.Printf("   Error: %v\n", err)
			hasError = true
			if c.name == "Storage reachable" {
				reachable = false
			}
		}
	}

	fmt.Println()
	if hasError {
		fmt.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}

	fmt.Println("All diagnostics passed!")
	return nil
}

func checkStorageReachable(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load storage: %w", err)
	}
	if _, err := ctx.Manager.GetSettings(); err != nil {
		return fmt.Errorf("failed to read storage: %w", err)
	}
	return nil
}

func checkSchemaVersion(ctx *cli.Context) error {
	m, ok := ctx.Store.(migrator)
	if !ok {
		// file store has no schema
		return nil
	}
	st, err := m.MigrationStatus()
	if err != nil {
		return err
	}
	if st.Current > st.Latest {
		return fmt.Errorf("database schema version (%d) is newer than supported version (%d)", st.Current, st.Latest)
	}
	if !st.UpToDate() {
		return fmt.Errorf("%d pending migrations (current: %d, latest: %d)", len(st.Pending), st.Current, st.Latest)
	}
	return nil
}

func checkLock(ctx *cli.Context) error {
	h, ok, live, err := lock.Inspect(ctx.Config.DataDir)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	if live {
		return fmt.Errorf("held by %s (pid %d) since %s", h.Executable, h.PID, h.StartedAt.Format(time.RFC3339))
	}
	return fmt.Errorf("stale lock from pid %d; it will be reclaimed on next start", h.PID)
}

func checkBackupsPresent(ctx *cli.Context) error {
	backups, err := ctx.Backups().List()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		return fmt.Errorf("no backups found in %s", ctx.Backups().Dir())
	}
	newest := backups[0]
	if age := ctx.Clock().Sub(newest.Timestamp); age > 7*24*time.Hour {
		return fmt.Errorf("newest backup is %d days old", int(age.Hours()/24))
	}
	return nil
}

func checkWorkouts(ctx *cli.Context) error {
	workouts, err := ctx.Manager.GetAllWorkouts()
	if err != nil {
		return err
	}
	bad := 0
	for _, w := range workouts {
		if err := validation.ValidateWorkout(w); err != nil {
			bad++
			fmt.Printf("   %s (%s): %v\n", w.ID, w.Date, err)
		}
	}
	if bad > 0 {
		return fmt.Errorf("%d of %d workouts have violations", bad, len(workouts))
	}
	return nil
}

func checkDraft(ctx *cli.Context) error {
	w, ok, err := ctx.Manager.GetCurrentWorkout()
	if err != nil || !ok {
		return err
	}
	if _, err := time.Parse(constants.DateFormat, w.Date); err != nil {
		return fmt.Errorf("draft has invalid date %q", w.Date)
	}
	if _, err := time.Parse(constants.TimeFormat, w.StartTime); err != nil {
		return fmt.Errorf("draft has invalid start time %q", w.StartTime)
	}
	return nil
}

func checkTrainerRefs(ctx *cli.Context) error {
	workouts, err := ctx.Manager.GetAllWorkouts()
	if err != nil {
		return err
	}
	trainers, err := ctx.Manager.GetTrainers()
	if err != nil {
		return err
	}
	known := make(map[string]bool, len(trainers))
	for _, t := range trainers {
		known[t.ID] = true
	}
	missing := 0
	for _, w := range workouts {
		if !w.IsSelfDirected() && !known[*w.TrainerID] {
			missing++
		}
	}
	if missing > 0 {
		return fmt.Errorf("%d workouts reference removed trainers and will show as unknown", missing)
	}
	return nil
}

func checkClockTimezone(ctx *cli.Context) error {
	now := ctx.Clock()
	if now.Year() < 2020 {
		return fmt.Errorf("system clock looks wrong: %s", now.Format(time.RFC3339))
	}
	if _, offset := now.Zone(); offset%(15*60) != 0 {
		return fmt.Errorf("unusual timezone offset %ds", offset)
	}
	return nil
}
