package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/multierr"

	"github.com/julianstephens/liftlog/internal/constants"
	"github.com/julianstephens/liftlog/internal/logger"
	"github.com/julianstephens/liftlog/internal/models"
	"github.com/julianstephens/liftlog/internal/validation"
)

// Export is the portable snapshot of everything the application stores
// apart from settings.
type Export struct {
	Workouts       []models.Workout `json:"workouts"`
	Trainers       []models.Trainer `json:"trainers"`
	CurrentWorkout *models.Workout  `json:"currentWorkout"`
	ExportedAt     string           `json:"exportedAt"`
	SchemaVersion  string           `json:"schemaVersion"`
}

func (m *Manager) ExportAll() (Export, error) {
	workouts, err := m.GetAllWorkouts()
	if err != nil {
		return Export{}, err
	}
	trainers, err := m.GetTrainers()
	if err != nil {
		return Export{}, err
	}
	exp := Export{
		Workouts:      workouts,
		Trainers:      trainers,
		ExportedAt:    m.now().UTC().Format(time.RFC3339),
		SchemaVersion: constants.SchemaVersion,
	}
	if current, ok, err := m.GetCurrentWorkout(); err != nil {
		return Export{}, err
	} else if ok {
		exp.CurrentWorkout = &current
	}
	return exp, nil
}

// ExportJSON returns ExportAll as indented JSON.
func (m *Manager) ExportJSON() ([]byte, error) {
	exp, err := m.ExportAll()
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(exp, "", "  ")
}

// ImportAll loads an export document. At least one of workouts or trainers
// must be present. Present fields overwrite the stored ones; absent fields
// are left untouched. Everything is decoded and checked before anything is
// written.
func (m *Manager) ImportAll(data []byte) error {
	var raw struct {
		Workouts       json.RawMessage `json:"workouts"`
		Trainers       json.RawMessage `json:"trainers"`
		CurrentWorkout json.RawMessage `json:"currentWorkout"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("import is not a JSON object: %w", err)
	}

	hasWorkouts := present(raw.Workouts)
	hasTrainers := present(raw.Trainers)
	if !hasWorkouts && !hasTrainers {
		return fmt.Errorf("import must contain workouts or trainers")
	}

	var (
		workouts []models.Workout
		trainers []models.Trainer
		current  *models.Workout
	)

	if hasWorkouts {
		if err := json.Unmarshal(raw.Workouts, &workouts); err != nil {
			return fmt.Errorf("invalid workouts: %w", err)
		}
		var errs error
		for i, w := range workouts {
			if err := validation.ValidateWorkout(w); err != nil {
				errs = multierr.Append(errs, fmt.Errorf("workout %d: %w", i, err))
			}
		}
		if errs != nil {
			return fmt.Errorf("invalid workouts: %w", errs)
		}
	}
	if hasTrainers {
		if err := json.Unmarshal(raw.Trainers, &trainers); err != nil {
			return fmt.Errorf("invalid trainers: %w", err)
		}
		for i, t := range trainers {
			if t.ID == "" {
				return fmt.Errorf("invalid trainers: trainer %d has no id", i)
			}
		}
	}
	if present(raw.CurrentWorkout) {
		current = &models.Workout{}
		if err := json.Unmarshal(raw.CurrentWorkout, current); err != nil {
			return fmt.Errorf("invalid current workout: %w", err)
		}
	}

	if hasWorkouts {
		if err := m.saveWorkouts(workouts); err != nil {
			return err
		}
	}
	if hasTrainers {
		if err := m.SaveTrainers(trainers); err != nil {
			return err
		}
	}
	if current != nil {
		if err := m.SaveCurrentWorkout(*current); err != nil {
			return err
		}
	}

	logger.Info("Imported data", "workouts", len(workouts), "trainers", len(trainers), "draft", current != nil)
	return nil
}

func present(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null"))
}
