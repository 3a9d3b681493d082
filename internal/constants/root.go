package constants

import "time"

// SessionState represents the current state of the TUI application
type SessionState int

const (
	AppName            = "liftlog"
	DefaultKeyringUser = "database-connection"
	DefaultDataDir     = "~/.config/liftlog"
	Version            = "v0.3.0"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimeFormat is the standard time format used throughout the application (HH:MM)
	TimeFormat = "15:04"

	// Blob keys
	KeyCurrentWorkout = "current_workout"
	KeyWorkouts       = "workouts"
	KeyTrainers       = "trainers"
	KeySettings       = "settings"

	// SelfTrainerID is the sentinel for self-directed sessions. It is never stored on a workout.
	SelfTrainerID   = "self"
	SelfTrainerName = "Self-directed"

	// Condition defaults
	DefaultSleepHours = 7.0
	DefaultScale      = 3

	// Set defaults
	DefaultRPE         = 8.0
	DefaultRestSeconds = 90
	MinRPE             = 1.0
	MaxRPE             = 10.0

	// Weight units
	UnitKg            = "kg"
	UnitLb            = "lb"
	DefaultWeightUnit = UnitKg

	// Export
	SchemaVersion = "1.0.0"

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "liftlog-"
	BackupFileSuffix = ".json"

	// Lock constants
	LockfileName = "liftlog.lock"

	// StatsRefreshInterval drives the live duration display
	StatsRefreshInterval = time.Minute

	// HistoryCacheTTL is the lifetime of a cached history lookup, in seconds
	HistoryCacheTTL = 300
)

// Session States
const (
	StateWorkout SessionState = iota
	StateHistory
	StateTrainers
	StateEditing
	StateConfirmComplete
	StateConfirmDiscard
	StateConfirmDelete
)
