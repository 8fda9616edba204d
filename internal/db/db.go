package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"swarm-agents/internal/asklog"
	"swarm-agents/internal/config"
	"swarm-agents/internal/logging"
)

var DB *gorm.DB

// Init opens the ask log database. An empty DSN leaves DB nil, which turns
// the ask log off.
func Init(cfg *config.Config) error {
	if cfg.Database.DSN == "" {
		logging.For("db").Info("No database configured, ask log disabled")
		return nil
	}

	var dialector gorm.Dialector
	switch cfg.Database.Driver {
	case "", "postgres":
		dialector = postgres.Open(cfg.Database.DSN)
	case "sqlite":
		dialector = sqlite.Open(cfg.Database.DSN)
	default:
		return fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)})
	if err != nil {
		return err
	}

	if err := db.AutoMigrate(&asklog.Record{}); err != nil {
		return err
	}

	DB = db
	logging.For("db").Infof("Database connected and migrated (%s)", dialector.Name())
	return nil
}
