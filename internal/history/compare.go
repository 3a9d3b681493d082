package history

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/julianstephens/liftlog/internal/constants"
	"github.com/julianstephens/liftlog/internal/models"
)

type DeltaKind int

const (
	DeltaWeight DeltaKind = iota
	DeltaReps
	DeltaLessAssistance
	DeltaMoreAssistance
	DeltaUnchanged
	DeltaAwaiting
)

// Delta is one descriptor of how a performance differs from the last one.
// Value is the signed difference for weight and reps descriptors.
type Delta struct {
	Kind  DeltaKind
	Value float64
}

// Text renders the descriptor using the given weight unit.
func (d Delta) Text(unit string) string {
	switch d.Kind {
	case DeltaWeight:
		return signed(d.Value) + unit
	case DeltaReps:
		return "reps " + signed(d.Value)
	case DeltaLessAssistance:
		return "less assistance 👍"
	case DeltaMoreAssistance:
		return "more assistance ⚠️"
	case DeltaUnchanged:
		return "same as last time"
	case DeltaAwaiting:
		return "awaiting data"
	default:
		return ""
	}
}

func signed(v float64) string {
	s := formatWeight(v)
	if v > 0 {
		return "+" + s
	}
	return s
}

// formatWeight renders v with at most two decimals and no trailing zeros.
func formatWeight(v float64) string {
	return strconv.FormatFloat(roundWeight(v), 'f', -1, 64)
}

func roundWeight(v float64) float64 {
	return math.Round(v*100) / 100
}

// Compare describes the current exercise against a previous history entry.
// Descriptors are ordered weight, reps, assistance.
func Compare(current models.Exercise, previous Entry) []Delta {
	if len(current.Sets) == 0 {
		return []Delta{{Kind: DeltaAwaiting}}
	}

	cur := BestSet(current.Sets)
	prev := BestSet(previous.Sets)

	var deltas []Delta
	if diff := roundWeight(cur.Weight - prev.Weight); diff != 0 {
		deltas = append(deltas, Delta{Kind: DeltaWeight, Value: diff})
	}
	if diff := cur.RepsUnassisted - prev.RepsUnassisted; diff != 0 {
		deltas = append(deltas, Delta{Kind: DeltaReps, Value: float64(diff)})
	}

	assistDiff := cur.RepsAssisted - prev.RepsAssisted
	switch {
	case assistDiff < 0 && prev.RepsAssisted > 0:
		deltas = append(deltas, Delta{Kind: DeltaLessAssistance, Value: float64(assistDiff)})
	case assistDiff > 0:
		deltas = append(deltas, Delta{Kind: DeltaMoreAssistance, Value: float64(assistDiff)})
	}

	if len(deltas) == 0 {
		return []Delta{{Kind: DeltaUnchanged}}
	}
	return deltas
}

// Format joins descriptors with spaces for display.
func Format(deltas []Delta, unit string) string {
	parts := make([]string, 0, len(deltas))
	for _, d := range deltas {
		parts = append(parts, d.Text(unit))
	}
	return strings.Join(parts, " ")
}

// FormatSet renders a set as weight×unassisted+assisted.
func FormatSet(s models.SetRecord, unit string) string {
	return fmt.Sprintf("%s%s×%d+%d", formatWeight(s.Weight), unit, s.RepsUnassisted, s.RepsAssisted)
}

// RelativeDate renders a YYYY-MM-DD date relative to now ("3 days ago").
func RelativeDate(date string, now time.Time) string {
	t, err := time.ParseInLocation(constants.DateFormat, date, now.Location())
	if err != nil {
		return date
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	switch days := int(today.Sub(t).Hours() / 24); days {
	case 0:
		return "today"
	case 1:
		return "yesterday"
	default:
		return humanize.RelTime(t, today, "ago", "from now")
	}
}

// Summary is the one-line hint shown under an exercise in the editor.
func Summary(current models.Exercise, entries []Entry, unit string, now time.Time) string {
	if strings.TrimSpace(current.ExerciseName) == "" {
		return "enter an exercise name to see history"
	}
	if len(entries) == 0 {
		return "first time"
	}
	last := entries[0]
	return fmt.Sprintf("last: %s (%s) → %s",
		FormatSet(BestSet(last.Sets), unit),
		RelativeDate(last.Date, now),
		Format(Compare(current, last), unit),
	)
}
