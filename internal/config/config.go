package config

import (
	"time"

	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Global
		Database
		Log
		Tracker
		Tasks
		DraftCleanup
		Metadata
	}

	HTTP struct {
		Port int32
		Host string
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
	Database struct {
		Path string
	}
	Log struct {
		Level  string // zerolog level name: debug, info, warn, error
		Format string // "console" or "json"
	}
	Tracker struct {
		SearchDebounce   time.Duration // Book search input window (default: 500ms)
		AutosaveDelay    time.Duration // Review draft autosave window (default: 2s)
		OperationTimeout time.Duration // Upper bound on any single repository call (default: 10s)

		// EnforceStatusTransitions makes the book detail status update honour
		// the transition table. Off by default: off-table moves are logged.
		EnforceStatusTransitions bool

		ReviewSoftLimit int // Characters before the editor flags a review as long (default: 2000)
	}
	Tasks struct {
		Enabled           bool
		Workers           int
		MaxRetries        int
		RetryDelay        time.Duration
		TaskTimeout       time.Duration
		ReleaseAfter      time.Duration
		CleanupInterval   time.Duration
		RetentionDuration time.Duration
	}
	DraftCleanup struct {
		Enabled   bool
		Schedule  string        // Cron format: "0 3 * * *" = nightly at 03:00
		Retention time.Duration // Drafts untouched for longer are purged (default: 720h)
	}
	Metadata struct {
		Enabled bool
		BaseURL string        // OpenLibrary API root
		Timeout time.Duration // Per-request HTTP timeout (default: 10s)
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8188)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("database_path", DefaultDatabasePath)

	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "console")

	// Tracker defaults
	v.SetDefault("search_debounce", "500ms")
	v.SetDefault("autosave_delay", "2s")
	v.SetDefault("operation_timeout", "10s")
	v.SetDefault("enforce_status_transitions", false)
	v.SetDefault("review_soft_limit", 2000)

	// Task queue defaults
	v.SetDefault("tasks_enabled", true)
	v.SetDefault("task_workers", 2)
	v.SetDefault("task_max_retries", 3)
	v.SetDefault("task_retry_delay", "1m")
	v.SetDefault("task_timeout", "5m")
	v.SetDefault("task_release_after", "15m")
	v.SetDefault("task_cleanup_interval", "1h")
	v.SetDefault("task_retention_duration", "24h")

	v.SetDefault("draft_cleanup_enabled", true)
	v.SetDefault("draft_cleanup_schedule", DefaultDraftCleanupSchedule)
	v.SetDefault("draft_retention", "720h") // 30 days

	v.SetDefault("metadata_enabled", true)
	v.SetDefault("metadata_base_url", "https://openlibrary.org")
	v.SetDefault("metadata_timeout", "10s")

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Database: Database{
			Path: v.GetString("DATABASE_PATH"),
		},
		Log: Log{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
		Tracker: Tracker{
			SearchDebounce:           v.GetDuration("SEARCH_DEBOUNCE"),
			AutosaveDelay:            v.GetDuration("AUTOSAVE_DELAY"),
			OperationTimeout:         v.GetDuration("OPERATION_TIMEOUT"),
			EnforceStatusTransitions: v.GetBool("ENFORCE_STATUS_TRANSITIONS"),
			ReviewSoftLimit:          v.GetInt("REVIEW_SOFT_LIMIT"),
		},
		Tasks: Tasks{
			Enabled:           v.GetBool("TASKS_ENABLED"),
			Workers:           v.GetInt("TASK_WORKERS"),
			MaxRetries:        v.GetInt("TASK_MAX_RETRIES"),
			RetryDelay:        v.GetDuration("TASK_RETRY_DELAY"),
			TaskTimeout:       v.GetDuration("TASK_TIMEOUT"),
			ReleaseAfter:      v.GetDuration("TASK_RELEASE_AFTER"),
			CleanupInterval:   v.GetDuration("TASK_CLEANUP_INTERVAL"),
			RetentionDuration: v.GetDuration("TASK_RETENTION_DURATION"),
		},
		DraftCleanup: DraftCleanup{
			Enabled:   v.GetBool("DRAFT_CLEANUP_ENABLED"),
			Schedule:  v.GetString("DRAFT_CLEANUP_SCHEDULE"),
			Retention: v.GetDuration("DRAFT_RETENTION"),
		},
		Metadata: Metadata{
			Enabled: v.GetBool("METADATA_ENABLED"),
			BaseURL: v.GetString("METADATA_BASE_URL"),
			Timeout: v.GetDuration("METADATA_TIMEOUT"),
		},
	}
}

// DefaultTracker returns the tracker settings NewConfig produces with no
// environment overrides.
func DefaultTracker() Tracker {
	return Tracker{
		SearchDebounce:   500 * time.Millisecond,
		AutosaveDelay:    2 * time.Second,
		OperationTimeout: 10 * time.Second,
		ReviewSoftLimit:  2000,
	}
}
