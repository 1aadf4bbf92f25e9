// Package db contains things related to the relational store
package db

import (
	"fmt"

	"github.com/dmm8rgbc4y-sudo/jantomo/model"
	"github.com/spf13/viper"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// New opens the database selected in the config. SQLite is the default
// for local setups, hosted deployments point database.url at postgres.
func New() (*gorm.DB, error) {
	var dialector gorm.Dialector

	switch viper.GetString("database.driver") {
	case "postgres":
		dialector = postgres.Open(viper.GetString("database.url"))
	default:
		dialector = sqlite.Open(viper.GetString("database.path"))
	}

	db, err := gorm.Open(dialector, &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database, %w", err)
	}

	err = db.AutoMigrate(model.User{}, model.DeviceToken{}, model.FriendRelation{}, model.ScheduleEntry{})
	if err != nil {
		return nil, fmt.Errorf("failed to automigrate tables, %w", err)
	}

	return db, nil
}
