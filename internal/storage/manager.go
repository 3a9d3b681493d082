package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/coocood/freecache"

	"github.com/julianstephens/liftlog/internal/constants"
	"github.com/julianstephens/liftlog/internal/history"
	"github.com/julianstephens/liftlog/internal/logger"
	"github.com/julianstephens/liftlog/internal/models"
)

// Manager is the typed view of a Provider. It owns the blob layout and the
// history lookup cache.
type Manager struct {
	provider Provider
	cache    *freecache.Cache
	now      func() time.Time
}

// NewManager wraps a loaded provider. cacheMB sizes the history cache; 0
// disables it.
func NewManager(p Provider, cacheMB int) *Manager {
	m := &Manager{
		provider: p,
		now:      time.Now,
	}
	if cacheMB > 0 {
		m.cache = freecache.NewCache(cacheMB * 1024 * 1024)
	}
	return m
}

// Provider returns the underlying blob store.
func (m *Manager) Provider() Provider {
	return m.provider
}

func (m *Manager) getJSON(key string, dst interface{}) (bool, error) {
	data, err := m.provider.Get(key)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, &StorageError{Op: "read", Key: key, Err: err}
	}
	if len(data) == 0 || string(data) == "null" {
		return false, nil
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return false, &StorageError{Op: "decode", Key: key, Err: err}
	}
	return true, nil
}

func (m *Manager) setJSON(key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return &StorageError{Op: "encode", Key: key, Err: err}
	}
	if err := m.provider.Set(key, data); err != nil {
		return &StorageError{Op: "write", Key: key, Err: err}
	}
	return nil
}

func (m *Manager) delete(key string) error {
	if err := m.provider.Delete(key); err != nil {
		return &StorageError{Op: "delete", Key: key, Err: err}
	}
	return nil
}

// Current workout

// GetCurrentWorkout returns the in-progress draft, if any.
func (m *Manager) GetCurrentWorkout() (models.Workout, bool, error) {
	var w models.Workout
	ok, err := m.getJSON(constants.KeyCurrentWorkout, &w)
	if err != nil || !ok {
		return models.Workout{}, false, err
	}
	return w, true, nil
}

func (m *Manager) SaveCurrentWorkout(w models.Workout) error {
	return m.setJSON(constants.KeyCurrentWorkout, w)
}

func (m *Manager) ClearCurrentWorkout() error {
	return m.delete(constants.KeyCurrentWorkout)
}

// Workouts

// CompleteWorkout appends w to history and clears the draft. A record with
// the same id is replaced in place, so a completion retried after a failed
// draft delete stores the workout once. Stats and validation are the
// caller's concern.
func (m *Manager) CompleteWorkout(w models.Workout) error {
	workouts, err := m.GetAllWorkouts()
	if err != nil {
		return err
	}
	replaced := false
	for i := range workouts {
		if workouts[i].ID == w.ID {
			workouts[i] = w
			replaced = true
			break
		}
	}
	if !replaced {
		workouts = append(workouts, w)
	}
	if err := m.saveWorkouts(workouts); err != nil {
		return err
	}
	return m.ClearCurrentWorkout()
}

// GetAllWorkouts returns completed workouts in the order they were completed.
func (m *Manager) GetAllWorkouts() ([]models.Workout, error) {
	var workouts []models.Workout
	if _, err := m.getJSON(constants.KeyWorkouts, &workouts); err != nil {
		return nil, err
	}
	if workouts == nil {
		workouts = []models.Workout{}
	}
	return workouts, nil
}

func (m *Manager) saveWorkouts(workouts []models.Workout) error {
	if err := m.setJSON(constants.KeyWorkouts, workouts); err != nil {
		return err
	}
	m.invalidateHistory()
	return nil
}

func (m *Manager) GetWorkoutByID(id string) (models.Workout, bool, error) {
	workouts, err := m.GetAllWorkouts()
	if err != nil {
		return models.Workout{}, false, err
	}
	for _, w := range workouts {
		if w.ID == id {
			return w, true, nil
		}
	}
	return models.Workout{}, false, nil
}

// DeleteWorkout removes one completed workout. It reports whether one was found.
func (m *Manager) DeleteWorkout(id string) (bool, error) {
	workouts, err := m.GetAllWorkouts()
	if err != nil {
		return false, err
	}
	kept := workouts[:0]
	found := false
	for _, w := range workouts {
		if w.ID == id {
			found = true
			continue
		}
		kept = append(kept, w)
	}
	if !found {
		return false, nil
	}
	return true, m.saveWorkouts(kept)
}

// DeleteWorkoutsOlderThan removes workouts dated before now minus the given
// number of months and returns how many were removed. Workouts with an
// unreadable date are kept.
func (m *Manager) DeleteWorkoutsOlderThan(months int) (int, error) {
	if months < 0 {
		return 0, fmt.Errorf("months must not be negative, got %d", months)
	}
	workouts, err := m.GetAllWorkouts()
	if err != nil {
		return 0, err
	}

	cutoff := m.now().AddDate(0, -months, 0).Format(constants.DateFormat)
	kept := make([]models.Workout, 0, len(workouts))
	for _, w := range workouts {
		if _, perr := time.Parse(constants.DateFormat, w.Date); perr == nil && w.Date < cutoff {
			continue
		}
		kept = append(kept, w)
	}

	removed := len(workouts) - len(kept)
	if removed == 0 {
		return 0, nil
	}
	if err := m.saveWorkouts(kept); err != nil {
		return 0, err
	}
	logger.Info("Pruned old workouts", "removed", removed, "cutoff", cutoff)
	return removed, nil
}

// History

// GetExerciseHistory looks up past performances of an exercise. Results are
// cached until the workouts collection next changes.
func (m *Manager) GetExerciseHistory(name string, c history.Conditions) ([]history.Entry, error) {
	cacheKey := historyCacheKey(name, c)
	if m.cache != nil {
		if data, err := m.cache.Get(cacheKey); err == nil {
			var entries []history.Entry
			if err := json.Unmarshal(data, &entries); err == nil {
				return entries, nil
			}
		}
	}

	workouts, err := m.GetAllWorkouts()
	if err != nil {
		return nil, err
	}
	entries := history.Find(workouts, name, c)

	if m.cache != nil {
		if data, err := json.Marshal(entries); err == nil {
			if err := m.cache.Set(cacheKey, data, constants.HistoryCacheTTL); err != nil {
				logger.Debug("History cache set failed", "error", err)
			}
		}
	}
	return entries, nil
}

func (m *Manager) invalidateHistory() {
	if m.cache != nil {
		m.cache.Clear()
	}
}

func historyCacheKey(name string, c history.Conditions) []byte {
	parts := []string{strings.ToLower(strings.TrimSpace(name)), "*", "*", "*", "*"}
	if c.Equipment != nil {
		parts[1] = string(*c.Equipment)
	}
	if c.BenchAngle != nil {
		parts[2] = string(*c.BenchAngle)
	}
	if c.Attachment != nil {
		parts[3] = string(*c.Attachment)
	}
	if c.GripWidth != nil {
		parts[4] = string(*c.GripWidth)
	}
	return []byte(strings.Join(parts, "|"))
}

// Trainers

// GetTrainers returns the trainer list, seeding the defaults on first use.
func (m *Manager) GetTrainers() ([]models.Trainer, error) {
	var trainers []models.Trainer
	ok, err := m.getJSON(constants.KeyTrainers, &trainers)
	if err != nil {
		return nil, err
	}
	if !ok {
		trainers = models.DefaultTrainers(m.now())
		if err := m.SaveTrainers(trainers); err != nil {
			return nil, err
		}
	}
	return trainers, nil
}

func (m *Manager) SaveTrainers(trainers []models.Trainer) error {
	return m.setJSON(constants.KeyTrainers, trainers)
}

func (m *Manager) AddTrainer(name string) (models.Trainer, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Trainer{}, fmt.Errorf("trainer name cannot be empty")
	}
	trainers, err := m.GetTrainers()
	if err != nil {
		return models.Trainer{}, err
	}
	t := models.NewTrainer(name, m.now())
	if err := m.SaveTrainers(append(trainers, t)); err != nil {
		return models.Trainer{}, err
	}
	return t, nil
}

// RemoveTrainer deletes a trainer. Past workouts keep their reference and
// display it as unknown. The self-directed sentinel cannot be removed.
func (m *Manager) RemoveTrainer(id string) (bool, error) {
	if id == constants.SelfTrainerID {
		return false, fmt.Errorf("the self-directed entry cannot be removed")
	}
	trainers, err := m.GetTrainers()
	if err != nil {
		return false, err
	}
	kept := make([]models.Trainer, 0, len(trainers))
	for _, t := range trainers {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	if len(kept) == len(trainers) {
		return false, nil
	}
	return true, m.SaveTrainers(kept)
}

// TrainerName returns the display name for a workout's trainer reference.
func (m *Manager) TrainerName(id *string) string {
	if id == nil || *id == "" || *id == constants.SelfTrainerID {
		return "self-directed"
	}
	trainers, err := m.GetTrainers()
	if err != nil {
		logger.Warn("Failed to load trainers", "error", err)
		return "unknown"
	}
	if t, ok := models.FindTrainer(trainers, *id); ok {
		return t.Name
	}
	return "unknown"
}

// Settings

func (m *Manager) GetSettings() (models.Settings, error) {
	s := models.DefaultSettings()
	if _, err := m.getJSON(constants.KeySettings, &s); err != nil {
		return models.Settings{}, err
	}
	return s, nil
}

func (m *Manager) SaveSettings(s models.Settings) error {
	if err := s.Validate(); err != nil {
		return err
	}
	return m.setJSON(constants.KeySettings, s)
}

// ClearAll removes history and the draft and restores the default trainers.
// Settings are kept.
func (m *Manager) ClearAll() error {
	if err := m.delete(constants.KeyWorkouts); err != nil {
		return err
	}
	m.invalidateHistory()
	if err := m.ClearCurrentWorkout(); err != nil {
		return err
	}
	return m.SaveTrainers(models.DefaultTrainers(m.now()))
}
