package config

// Default paths for databases
const (
	// DefaultDatabasePath is the default path for the sqlite database
	DefaultDatabasePath = "./gif-tags.db"

	// DefaultTagCleanupSchedule runs the orphan tag cleanup daily at 03:00
	DefaultTagCleanupSchedule = "0 3 * * *"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)
