package database

import (
	"tastebuddin/internal/models"

	logger "github.com/Bparsons0904/goLogger"
)

// Models lists every model managed by AutoMigrate, parents first.
var Models = []any{
	&models.User{},
	&models.Recipe{},
}

// MigrateModels runs GORM AutoMigrate for all models
func (db *DB) MigrateModels() error {
	log := logger.New("database").Function("MigrateModels")
	log.Info("Starting database migration")

	for _, model := range Models {
		if err := db.SQL.AutoMigrate(model); err != nil {
			return log.Err("Failed to migrate model", err, "model", model)
		}
	}

	log.Info("Database migration completed successfully")
	return nil
}

// CreateIndexes creates indexes GORM tags cannot express.
func (db *DB) CreateIndexes() error {
	log := logger.New("database").Function("CreateIndexes")
	log.Info("Creating additional database indexes")

	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_recipes_created_at_likes ON recipes(created_at DESC, likes DESC) WHERE deleted_at IS NULL",
		"CREATE INDEX IF NOT EXISTS idx_users_allergens ON users USING GIN (allergens)",
		"CREATE INDEX IF NOT EXISTS idx_users_lower_username ON users(lower(username))",
	}

	for _, indexSQL := range indexes {
		if err := db.SQL.Exec(indexSQL).Error; err != nil {
			log.Warn("Failed to create index", "sql", indexSQL, "error", err)
		}
	}

	log.Info("Additional database indexes created")
	return nil
}
