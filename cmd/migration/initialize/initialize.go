package initialize

import (
	"tastebuddin/internal/database"

	logger "github.com/Bparsons0904/goLogger"
)

// InitializeTables applies the schema pieces AutoMigrate cannot express.
func InitializeTables(db database.DB, log logger.Logger) error {
	log = log.Function("InitializeTables")
	log.Info("Initializing schema extras")

	if err := db.CreateIndexes(); err != nil {
		return log.Err("failed to create indexes", err)
	}

	log.Info("Table initialization complete")
	return nil
}
