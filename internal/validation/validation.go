package validation

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/multierr"

	"github.com/julianstephens/liftlog/internal/constants"
	"github.com/julianstephens/liftlog/internal/models"
)

// ViolationType represents the kind of structural problem found in a workout
type ViolationType string

const (
	ViolationMissingID     ViolationType = "missing_id"
	ViolationMissingDate   ViolationType = "missing_date"
	ViolationInvalidDate   ViolationType = "invalid_date"
	ViolationInvalidGroups ViolationType = "invalid_groups"
)

// Violation is a single failed check
type Violation struct {
	Type        ViolationType
	Description string
}

func (v Violation) Error() string {
	return v.Description
}

// ValidationError lists every violation found, not just the first
type ValidationError struct {
	WorkoutID  string
	Violations []Violation
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		parts[i] = v.Description
	}
	return fmt.Sprintf("workout failed validation: %s", strings.Join(parts, "; "))
}

// Has reports whether a violation of the given type was found
func (e *ValidationError) Has(t ViolationType) bool {
	for _, v := range e.Violations {
		if v.Type == t {
			return true
		}
	}
	return false
}

// FormatReport returns a human-readable report of all violations
func (e *ValidationError) FormatReport() string {
	if e == nil || len(e.Violations) == 0 {
		return "No problems detected."
	}

	report := "Problems detected:\n"
	for _, v := range e.Violations {
		report += fmt.Sprintf("- %s\n", v.Description)
	}
	return report
}

// ValidateWorkout checks a workout before it is committed to history.
// It returns nil or a *ValidationError.
func ValidateWorkout(w models.Workout) error {
	var errs error

	if strings.TrimSpace(w.ID) == "" {
		errs = multierr.Append(errs, Violation{
			Type:        ViolationMissingID,
			Description: "workout id is empty",
		})
	}

	if strings.TrimSpace(w.Date) == "" {
		errs = multierr.Append(errs, Violation{
			Type:        ViolationMissingDate,
			Description: "workout date is empty",
		})
	} else if _, err := time.Parse(constants.DateFormat, w.Date); err != nil {
		errs = multierr.Append(errs, Violation{
			Type:        ViolationInvalidDate,
			Description: fmt.Sprintf("workout date %q is not in YYYY-MM-DD format", w.Date),
		})
	}

	if w.Groups == nil {
		errs = multierr.Append(errs, Violation{
			Type:        ViolationInvalidGroups,
			Description: "workout groups are missing",
		})
	}

	if errs == nil {
		return nil
	}

	result := &ValidationError{WorkoutID: w.ID}
	for _, err := range multierr.Errors(errs) {
		if v, ok := err.(Violation); ok {
			result.Violations = append(result.Violations, v)
		}
	}
	return result
}
