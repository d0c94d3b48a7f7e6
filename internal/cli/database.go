package cli

import (
	"github.com/mrlokans/giftags/internal/config"
	"github.com/mrlokans/giftags/internal/database"
)

// openDatabase connects with the environment configuration. A non-empty
// dbPath switches to sqlite at that path.
func openDatabase(dbPath string) (*database.Database, error) {
	cfg := config.NewConfig().Database
	if dbPath != "" {
		cfg.Driver = config.DriverSQLite
		cfg.Path = dbPath
		cfg.URL = ""
	}
	return database.Open(cfg)
}
