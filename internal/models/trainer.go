package models

import (
	"time"

	"github.com/julianstephens/liftlog/internal/constants"
)

type Trainer struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"createdAt"` // RFC3339 timestamp
}

func NewTrainer(name string, now time.Time) Trainer {
	return Trainer{
		ID:        NewID("trainer"),
		Name:      name,
		CreatedAt: now.UTC().Format(time.RFC3339),
	}
}

// DefaultTrainers is the set seeded on first run. Only the self-directed
// sentinel is included; real trainers are added by the user.
func DefaultTrainers(now time.Time) []Trainer {
	return []Trainer{
		{
			ID:        constants.SelfTrainerID,
			Name:      constants.SelfTrainerName,
			CreatedAt: now.UTC().Format(time.RFC3339),
		},
	}
}

// FindTrainer looks a trainer up by id.
func FindTrainer(trainers []Trainer, id string) (Trainer, bool) {
	for _, t := range trainers {
		if t.ID == id {
			return t, true
		}
	}
	return Trainer{}, false
}

// TrainerRef converts a trainer selection into the value stored on a workout.
// The self-directed sentinel and blank selections are stored as nil.
func TrainerRef(id string) *string {
	if id == "" || id == constants.SelfTrainerID {
		return nil
	}
	ref := id
	return &ref
}
