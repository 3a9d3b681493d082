package storage

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/julianstephens/liftlog/internal/constants"
	"github.com/julianstephens/liftlog/internal/logger"
	"github.com/julianstephens/liftlog/internal/models"
)

// UndoKeys lists the blobs RestorePrevious accepts.
var UndoKeys = []string{
	constants.KeyWorkouts,
	constants.KeyCurrentWorkout,
	constants.KeyTrainers,
	constants.KeySettings,
}

// RestorePrevious puts back the value key held before its last write. It
// reports false when the provider kept nothing for key. The restored write
// is itself kept, so a second call swaps the two values back.
func (m *Manager) RestorePrevious(key string) (bool, error) {
	if !isUndoKey(key) {
		return false, fmt.Errorf("unknown key %q", key)
	}
	v, ok := m.provider.(Versioned)
	if !ok {
		return false, ErrNotVersioned
	}

	prev, err := v.Previous(key)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, &StorageError{Op: "read", Key: key, Err: err}
	}
	if err := decodeBlob(key, prev); err != nil {
		return false, &StorageError{Op: "decode", Key: key, Err: err}
	}
	if err := m.provider.Set(key, prev); err != nil {
		return false, &StorageError{Op: "write", Key: key, Err: err}
	}
	if key == constants.KeyWorkouts {
		m.invalidateHistory()
	}

	logger.Info("Restored previous value", "key", key, "bytes", len(prev))
	return true, nil
}

// decodeBlob checks that data decodes as the type stored under key.
func decodeBlob(key string, data []byte) error {
	switch key {
	case constants.KeyWorkouts:
		var v []models.Workout
		return json.Unmarshal(data, &v)
	case constants.KeyCurrentWorkout:
		var v models.Workout
		return json.Unmarshal(data, &v)
	case constants.KeyTrainers:
		var v []models.Trainer
		return json.Unmarshal(data, &v)
	case constants.KeySettings:
		var v models.Settings
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		return v.Validate()
	}
	return fmt.Errorf("unknown key %q", key)
}

func isUndoKey(key string) bool {
	for _, k := range UndoKeys {
		if k == key {
			return true
		}
	}
	return false
}
