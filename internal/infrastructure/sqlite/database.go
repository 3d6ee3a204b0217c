// Package sqlite stores lists in an embedded SQLite database through gorm.
// It needs no external server, which makes it the store of choice for local
// development and for the repository tests.
package sqlite

import (
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type listRecord struct {
	ID        string `gorm:"primaryKey"`
	CreatedAt time.Time
}

func (listRecord) TableName() string { return "lists" }

type itemRecord struct {
	ID        int64  `gorm:"primaryKey;autoIncrement"`
	ListID    string `gorm:"not null;index"`
	Text      string `gorm:"not null"`
	CreatedAt time.Time
}

func (itemRecord) TableName() string { return "items" }

// Open connects to dsn (":memory:" for a throwaway database) and migrates
// the schema.
func Open(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sqlite handle: %w", err)
	}
	// SQLite serializes writers and every :memory: connection is its own database.
	sqlDB.SetMaxOpenConns(1)

	if err := Migrate(db); err != nil {
		sqlDB.Close()
		return nil, err
	}

	return db, nil
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&listRecord{}, &itemRecord{}); err != nil {
		return fmt.Errorf("failed to migrate sqlite schema: %w", err)
	}
	return nil
}

func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
