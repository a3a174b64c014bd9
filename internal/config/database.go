package config

import (
	"fmt"
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"alfredoptarigan/resume-matcher/internal/models"
)

const historyConnMaxLifetime = 30 * time.Minute

// OpenMatchHistory connects to the match history database and migrates its
// tables. It returns a nil DB and no error when DB_ENABLED is off.
func OpenMatchHistory(cfg *Config) (*gorm.DB, error) {
	if !cfg.Database.Enabled {
		return nil, nil
	}

	db, err := gorm.Open(postgres.Open(cfg.GetDatabaseDSN()), &gorm.Config{
		Logger: logger.Default.LogMode(historyLogLevel(cfg.Server.Env)),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to match history database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.Database.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(historyConnMaxLifetime)

	log.Printf("✅ Match history database connected (%s@%s:%s/%s)\n",
		cfg.Database.User, cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	if err := db.AutoMigrate(historyTables()...); err != nil {
		return nil, fmt.Errorf("failed to migrate match history tables: %w", err)
	}

	log.Println("✅ Match history tables migrated")

	return db, nil
}

// historyLogLevel logs every SQL statement in development only.
func historyLogLevel(env string) logger.LogLevel {
	if env == "development" {
		return logger.Info
	}
	return logger.Warn
}

func historyTables() []interface{} {
	return []interface{}{
		&models.MatchRun{},
		&models.MatchRecord{},
	}
}
