package db

import (
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"medtracker/internal/model"
)

// Open returns a connected GORM DB instance for driver ("mysql", "postgres" or
// "sqlite"). sqlite is meant for local runs and tests; ":memory:" works.
// Duplicate-key errors are translated to gorm.ErrDuplicatedKey.
func Open(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "mysql":
		dialector = mysql.Open(dsn)
	case "postgres":
		dialector = postgres.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", driver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	if driver == "sqlite" {
		// One writer at a time, and every ":memory:" connection is its own database.
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetConnMaxLifetime(0)
	}

	return db, nil
}

// Migrate creates or updates the users and medicines tables. With reset the
// tables are dropped first.
func Migrate(db *gorm.DB, reset bool) error {
	if reset {
		if err := db.Migrator().DropTable(&model.Medicine{}, &model.User{}); err != nil {
			return fmt.Errorf("drop tables: %w", err)
		}
	}
	if err := db.AutoMigrate(&model.User{}, &model.Medicine{}); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return nil
}
