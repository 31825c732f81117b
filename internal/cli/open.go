package cli

import (
	"github.com/mrlokans/readingtracker/internal/config"
	"github.com/mrlokans/readingtracker/internal/entrypoint"
)

// openTracker opens the database at dbPath with the environment's tracker
// settings.
func openTracker(dbPath string) (*entrypoint.App, error) {
	cfg := config.NewConfig()
	cfg.Database.Path = dbPath
	return entrypoint.Open(cfg)
}
