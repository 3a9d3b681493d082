// Package lock keeps a single liftlog process editing the data directory.
package lock

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/mitchellh/go-ps"

	"github.com/julianstephens/liftlog/internal/constants"
	"github.com/julianstephens/liftlog/internal/logger"
)

var (
	findProcessFunc = ps.FindProcess
	getpidFunc      = os.Getpid
)

// ErrLocked is returned when another live liftlog process holds the lock.
var ErrLocked = errors.New("data directory is in use by another liftlog process")

// Holder describes the contents of a lockfile.
type Holder struct {
	PID        int
	Executable string
	StartedAt  time.Time
}

type Lock struct {
	path string
}

func Path(dataDir string) string {
	return filepath.Join(dataDir, constants.LockfileName)
}

// Acquire takes the lock in dataDir. A lock left behind by a process that is
// no longer running is reclaimed.
func Acquire(dataDir string) (*Lock, error) {
	path := Path(dataDir)
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	holder, err := read(path)
	switch {
	case err == nil:
		if holder.PID != getpidFunc() && isAlive(holder) {
			return nil, fmt.Errorf("%w (pid %d since %s)", ErrLocked, holder.PID, holder.StartedAt.Local().Format(constants.TimeFormat))
		}
		logger.Warn("Reclaiming stale lock", "pid", holder.PID, "started_at", holder.StartedAt)
	case errors.Is(err, os.ErrNotExist):
	default:
		logger.Warn("Replacing unreadable lockfile", "path", path, "error", err)
	}

	exe := constants.AppName
	if p, err := findProcessFunc(getpidFunc()); err == nil && p != nil {
		exe = p.Executable()
	}
	content := fmt.Sprintf("%d|%s|%s", getpidFunc(), time.Now().UTC().Format(time.RFC3339), exe)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		return nil, fmt.Errorf("failed to write lockfile: %w", err)
	}
	return &Lock{path: path}, nil
}

// Release removes the lockfile if this process still owns it.
func (l *Lock) Release() error {
	if l == nil {
		return nil
	}
	holder, err := read(l.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if holder.PID != getpidFunc() {
		return nil
	}
	if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove lockfile: %w", err)
	}
	return nil
}

// Inspect reports the current holder. ok is false when no lockfile exists.
// live reports whether the holder is still running.
func Inspect(dataDir string) (h Holder, ok bool, live bool, err error) {
	h, err = read(Path(dataDir))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Holder{}, false, false, nil
		}
		return Holder{}, false, false, err
	}
	return h, true, isAlive(h), nil
}

func read(path string) (Holder, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Holder{}, err
	}

	parts := strings.Split(strings.TrimSpace(string(content)), "|")
	if len(parts) != 3 {
		return Holder{}, errors.New("lockfile is malformed")
	}
	pid, err := strconv.Atoi(parts[0])
	if err != nil || pid <= 0 {
		return Holder{}, errors.New("invalid process ID in lockfile")
	}
	started, err := time.Parse(time.RFC3339, parts[1])
	if err != nil {
		return Holder{}, fmt.Errorf("invalid start time in lockfile: %w", err)
	}
	return Holder{PID: pid, StartedAt: started, Executable: parts[2]}, nil
}

// isAlive treats a PID reused by an unrelated program as dead.
func isAlive(h Holder) bool {
	p, err := findProcessFunc(h.PID)
	if err != nil || p == nil {
		return false
	}
	return p.Executable() == h.Executable
}
