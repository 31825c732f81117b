package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewConfig_Defaults(t *testing.T) {
	cfg := NewConfig()

	assert.Equal(t, int32(8188), cfg.HTTP.Port)
	assert.Equal(t, DefaultDatabasePath, cfg.Database.Path)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, DefaultTracker(), cfg.Tracker)
	assert.True(t, cfg.DraftCleanup.Enabled)
	assert.Equal(t, DefaultDraftCleanupSchedule, cfg.DraftCleanup.Schedule)
	assert.Equal(t, 30*24*time.Hour, cfg.DraftCleanup.Retention)
	assert.Equal(t, 2, cfg.Tasks.Workers)
	assert.True(t, cfg.Metadata.Enabled)
	assert.Equal(t, "https://openlibrary.org", cfg.Metadata.BaseURL)
}

func TestNewConfig_EnvOverrides(t *testing.T) {
	t.Setenv("SEARCH_DEBOUNCE", "250ms")
	t.Setenv("ENFORCE_STATUS_TRANSITIONS", "true")
	t.Setenv("DATABASE_PATH", "/tmp/books.db")
	t.Setenv("METADATA_ENABLED", "false")

	cfg := NewConfig()

	assert.Equal(t, 250*time.Millisecond, cfg.Tracker.SearchDebounce)
	assert.True(t, cfg.Tracker.EnforceStatusTransitions)
	assert.Equal(t, "/tmp/books.db", cfg.Database.Path)
	assert.False(t, cfg.Metadata.Enabled)
}
