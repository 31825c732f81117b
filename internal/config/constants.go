package config

const (
	// DefaultDatabasePath is the default path for the tracker database.
	DefaultDatabasePath = "./reading-tracker.db"

	// DefaultDraftCleanupSchedule runs the stale draft purge nightly at 03:00.
	DefaultDraftCleanupSchedule = "0 3 * * *"
)
