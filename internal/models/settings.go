package models

import (
	"fmt"

	"github.com/julianstephens/liftlog/internal/constants"
)

// Settings holds front-end preferences. The core engines never read it.
type Settings struct {
	WeightUnit string `json:"weightUnit"`
}

func DefaultSettings() Settings {
	return Settings{WeightUnit: constants.DefaultWeightUnit}
}

func (s Settings) Validate() error {
	switch s.WeightUnit {
	case constants.UnitKg, constants.UnitLb:
		return nil
	default:
		return fmt.Errorf("weight unit must be %q or %q, got %q", constants.UnitKg, constants.UnitLb, s.WeightUnit)
	}
}

// Unit returns the configured weight unit, falling back to the default.
func (s Settings) Unit() string {
	if s.WeightUnit == "" {
		return constants.DefaultWeightUnit
	}
	return s.WeightUnit
}
