// Package testutil holds helpers shared by the package tests.
package testutil

import (
	"fmt"
	"testing"

	"github.com/dmm8rgbc4y-sudo/jantomo/model"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB opens a fresh in-memory sqlite database, migrated and isolated
// per test. The shared cache keeps the database alive across the pooled
// connections gorm opens.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	err = db.AutoMigrate(model.User{}, model.DeviceToken{}, model.FriendRelation{}, model.ScheduleEntry{})
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}
