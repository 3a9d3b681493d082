package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/julianstephens/liftlog/internal/backup"
	"github.com/julianstephens/liftlog/internal/config"
	"github.com/julianstephens/liftlog/internal/lock"
	"github.com/julianstephens/liftlog/internal/logger"
	"github.com/julianstephens/liftlog/internal/models"
	"github.com/julianstephens/liftlog/internal/session"
	"github.com/julianstephens/liftlog/internal/storage"
)

// Context is handed to every command's Run method.
type Context struct {
	Store   storage.Provider
	Manager *storage.Manager
	Config  config.Config
	// Now is the clock sessions and relative dates use; nil means time.Now.
	Now func() time.Time
	// In is read by confirmation prompts; nil means os.Stdin.
	In io.Reader
}

func NewContext(store storage.Provider, cfg config.Config) *Context {
	return &Context{
		Store:   store,
		Manager: storage.NewManager(store, cfg.HistoryCacheMB),
		Config:  cfg,
	}
}

func (c *Context) Clock() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

func (c *Context) Backups() *backup.Manager {
	return backup.NewManager(c.Manager, c.Config.DataDir, c.Config.MaxBackups)
}

// PerformAutomaticBackup creates a backup and only logs failures.
func (c *Context) PerformAutomaticBackup() {
	if _, err := c.Backups().Create(); err != nil {
		logger.Warn("Automatic backup failed", "error", err)
	}
}

// Unit returns the configured weight unit, preferring stored settings.
func (c *Context) Unit() string {
	s, err := c.Manager.GetSettings()
	if err != nil {
		logger.Warn("Failed to read settings", "error", err)
		return c.Config.WeightUnit
	}
	return s.Unit()
}

// OpenSession takes the data directory lock and starts a session on view.
// The returned release func must be called when done.
func (c *Context) OpenSession(view session.View) (*session.Session, func(), error) {
	l, err := lock.Acquire(c.Config.DataDir)
	if err != nil {
		return nil, nil, err
	}
	release := func() {
		if err := l.Release(); err != nil {
			logger.Warn("Failed to release lock", "error", err)
		}
	}

	s := session.New(c.Manager, view, c.Now)
	if _, err := s.Start(); err != nil {
		release()
		return nil, nil, err
	}
	return s, release, nil
}

// Confirm asks a yes/no question on stdout. Anything but y or yes declines.
func (c *Context) Confirm(question string) (bool, error) {
	in := c.In
	if in == nil {
		in = os.Stdin
	}
	fmt.Printf("%s [y/N]: ", question)
	response, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, err
	}
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes", nil
}

// ResolveGroup maps a group reference to its id. A reference is either a
// group id or its 1-based position in the workout.
func ResolveGroup(w models.Workout, ref string) (string, error) {
	if _, ok := w.FindGroup(ref); ok {
		return ref, nil
	}
	n, err := strconv.Atoi(ref)
	if err != nil || n < 1 || n > len(w.Groups) {
		return "", fmt.Errorf("no group %q in the current workout", ref)
	}
	return w.Groups[n-1].GroupID, nil
}

// ResolveExercise maps an exercise reference to its id. A reference is an
// exercise id or "G.E", the 1-based group and exercise positions.
func ResolveExercise(w models.Workout, ref string) (string, error) {
	if _, ok := w.FindExercise(ref); ok {
		return ref, nil
	}
	gs, es, ok := strings.Cut(ref, ".")
	if !ok {
		return "", fmt.Errorf("no exercise %q in the current workout (use an id or GROUP.EXERCISE)", ref)
	}
	gid, err := ResolveGroup(w, gs)
	if err != nil {
		return "", err
	}
	gi, _ := w.FindGroup(gid)
	n, err := strconv.Atoi(es)
	if err != nil || n < 1 || n > len(w.Groups[gi].Exercises) {
		return "", fmt.Errorf("no exercise %q in group %s", es, gs)
	}
	return w.Groups[gi].Exercises[n-1].ExerciseID, nil
}
