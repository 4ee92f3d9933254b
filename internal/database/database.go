package database

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/leetarena/arena/internal/config"
	"github.com/leetarena/arena/internal/database/models"
	"go.uber.org/zap"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func Init(cfg config.Storage) (*gorm.DB, error) {
	db, err := Open(cfg)
	if err != nil {
		return nil, err
	}
	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Open connects without migrating.
func Open(cfg config.Storage) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		TranslateError: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
		Logger: logger.Default.LogMode(logger.Silent),
	}

	switch cfg.Driver {
	case config.DriverPostgres:
		db, err := gorm.Open(postgres.Open(cfg.Database), gormCfg)
		if err != nil {
			return nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetMaxIdleConns(25)
		sqlDB.SetConnMaxLifetime(5 * time.Minute)
		return db, nil
	case config.DriverSQLite, "":
		return openSQLite(cfg.Database, gormCfg)
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.Driver)
	}
}

func openSQLite(dsn string, gormCfg *gorm.Config) (*gorm.DB, error) {
	path, _, _ := strings.Cut(dsn, "?")
	if _, err := os.Stat(path); os.IsNotExist(err) {
		zap.S().Infof("database file not found at '%s', creating directory for it.", path)
		// Ensure the directory for the database file exists.
		dbDir := filepath.Dir(path)
		if err := os.MkdirAll(dbDir, 0755); err != nil {
			return nil, err
		}
	}

	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	db, err := gorm.Open(sqlite.Open(dsn+sep+"_busy_timeout=5000"), gormCfg)
	if err != nil {
		return nil, err
	}

	// A single connection serializes sqlite writers, so every transaction runs in isolation.
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	return db, nil
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(models.All()...)
}
