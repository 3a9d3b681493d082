// Package backup writes timestamped export snapshots next to the data and
// restores them through the storage manager.
package backup

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/julianstephens/liftlog/internal/constants"
	"github.com/julianstephens/liftlog/internal/logger"
	"github.com/julianstephens/liftlog/internal/storage"
)

const (
	stampMinute = "20060102-1504"
	stampSecond = "20060102-150405"
)

// Info describes one snapshot file.
type Info struct {
	Path      string
	Timestamp time.Time
	Size      int64
	Workouts  int
}

type Manager struct {
	store *storage.Manager
	dir   string
	keep  int
	now   func() time.Time
}

// NewManager stores snapshots under <dataDir>/backups and keeps at most keep
// of them. keep <= 0 uses the default retention.
func NewManager(store *storage.Manager, dataDir string, keep int) *Manager {
	if keep <= 0 {
		keep = constants.MaxBackups
	}
	return &Manager{
		store: store,
		dir:   filepath.Join(dataDir, constants.BackupDirName),
		keep:  keep,
		now:   time.Now,
	}
}

func (m *Manager) Dir() string {
	return m.dir
}

// Create writes a snapshot of the current data and rotates old ones.
func (m *Manager) Create() (Info, error) {
	return m.create(true)
}

func (m *Manager) create(rotate bool) (Info, error) {
	if err := os.MkdirAll(m.dir, 0700); err != nil {
		return Info{}, fmt.Errorf("failed to create backup directory: %w", err)
	}

	exp, err := m.store.ExportAll()
	if err != nil {
		return Info{}, err
	}
	data, err := json.MarshalIndent(exp, "", "  ")
	if err != nil {
		return Info{}, fmt.Errorf("failed to encode snapshot: %w", err)
	}

	now := m.now()
	path, err := m.uniquePath(now)
	if err != nil {
		return Info{}, err
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return Info{}, fmt.Errorf("failed to write backup: %w", err)
	}
	logger.Info("Backup created", "path", path, "workouts", len(exp.Workouts))

	if rotate {
		if err := m.rotate(); err != nil {
			logger.Warn("Failed to rotate old backups", "error", err)
		}
	}

	return Info{Path: path, Timestamp: now, Size: int64(len(data)), Workouts: len(exp.Workouts)}, nil
}

// uniquePath prefers minute precision and falls back to seconds, then a counter.
func (m *Manager) uniquePath(now time.Time) (string, error) {
	candidate := func(stamp string) string {
		return filepath.Join(m.dir, constants.BackupFilePrefix+stamp+constants.BackupFileSuffix)
	}
	exists := func(p string) bool {
		_, err := os.Stat(p)
		return err == nil
	}

	if p := candidate(now.Format(stampMinute)); !exists(p) {
		return p, nil
	}
	stamp := now.Format(stampSecond)
	if p := candidate(stamp); !exists(p) {
		return p, nil
	}
	for i := 1; i <= 100; i++ {
		if p := candidate(fmt.Sprintf("%s-%d", stamp, i)); !exists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("failed to generate unique backup filename")
}

// parseStamp reads the timestamp out of a snapshot file name, ignoring a
// trailing counter.
func parseStamp(name string) (time.Time, bool) {
	stamp := strings.TrimSuffix(strings.TrimPrefix(name, constants.BackupFilePrefix), constants.BackupFileSuffix)
	if parts := strings.Split(stamp, "-"); len(parts) == 3 {
		stamp = parts[0] + "-" + parts[1]
	}
	for _, layout := range []string{stampMinute, stampSecond} {
		if ts, err := time.ParseInLocation(layout, stamp, time.Local); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

// List returns snapshots newest first.
func (m *Manager) List() ([]Info, error) {
	entries, err := os.ReadDir(m.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []Info{}, nil
		}
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	var backups []Info
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, constants.BackupFilePrefix) || !strings.HasSuffix(name, constants.BackupFileSuffix) {
			continue
		}
		ts, ok := parseStamp(name)
		if !ok {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		b := Info{Path: filepath.Join(m.dir, name), Timestamp: ts, Size: info.Size(), Workouts: -1}
		if exp, err := readSnapshot(b.Path); err == nil {
			b.Workouts = len(exp.Workouts)
		}
		backups = append(backups, b)
	}

	sort.SliceStable(backups, func(i, j int) bool {
		if backups[i].Timestamp.Equal(backups[j].Timestamp) {
			return backups[i].Path > backups[j].Path
		}
		return backups[i].Timestamp.After(backups[j].Timestamp)
	})
	return backups, nil
}

func (m *Manager) rotate() error {
	backups, err := m.List()
	if err != nil {
		return err
	}
	for i := m.keep; i < len(backups); i++ {
		if err := os.Remove(backups[i].Path); err != nil {
			return fmt.Errorf("failed to remove old backup %s: %w", backups[i].Path, err)
		}
	}
	return nil
}

func readSnapshot(path string) (storage.Export, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return storage.Export{}, err
	}
	var exp storage.Export
	if err := json.Unmarshal(data, &exp); err != nil {
		return storage.Export{}, fmt.Errorf("backup file is not a valid snapshot: %w", err)
	}
	return exp, nil
}

// Restore replaces workouts, trainers and the draft with the snapshot at
// path. The current data is snapshotted first; that snapshot is returned.
func (m *Manager) Restore(path string) (Info, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Info{}, fmt.Errorf("failed to read backup: %w", err)
	}
	exp, err := readSnapshot(path)
	if err != nil {
		return Info{}, err
	}

	safety, err := m.create(false)
	if err != nil {
		return Info{}, fmt.Errorf("failed to back up current data before restore: %w", err)
	}

	if err := m.store.ImportAll(data); err != nil {
		return safety, err
	}
	if exp.CurrentWorkout == nil {
		if err := m.store.ClearCurrentWorkout(); err != nil {
			return safety, err
		}
	}
	logger.Info("Backup restored", "path", path, "safety_backup", safety.Path)
	return safety, nil
}
