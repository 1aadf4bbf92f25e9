// Package config contains code to set the default values and read
// config files to be used throughout the whole application
package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"slices"

	"github.com/spf13/pflag"
	v "github.com/spf13/viper"
)

var (
	debugMode      = pflag.Bool("debug", false, "Forces debug level logging")
	validLogLevels = []string{"debug", "info", "warn", "error", "fatal"}
	validDBDrivers = []string{"sqlite", "postgres"}
)

func genSecret() string {
	b := make([]byte, 32)
	rand.Read(b)
	return hex.EncodeToString(b)
}

// Setup prepares everything config-related so that the app can
// start working. Function will return an error if something
// is critically wrong and the application can't run because of
// that.
func Setup() error {
	pflag.Parse()
	v.BindPFlags(pflag.CommandLine)

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")

	v.AutomaticEnv()

	//
	// ENVS
	//
	v.BindEnv("app.log_level", "app_log_level")

	v.BindEnv("host.port", "host_port")
	v.BindEnv("host.domain", "host_domain")
	v.BindEnv("host.ssl.enabled", "host_ssl_enabled")

	v.BindEnv("database.driver", "database_driver")
	v.BindEnv("database.path", "database_path")
	v.BindEnv("database.url", "database_url")

	v.BindEnv("maintenance.key", "maintenance_key")
	v.BindEnv("maintenance.retention_days", "maintenance_retention_days")

	v.BindEnv("limits.requests_per_second", "limits_requests_per_second")
	v.BindEnv("limits.burst", "limits_burst")

	//
	// Defaults
	//
	v.SetDefault("app.log_level", "info")

	v.SetDefault("host.port", 8080)
	v.SetDefault("host.domain", "localhost")
	v.SetDefault("host.ssl.enabled", false)

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.path", "jantomo.db")

	v.SetDefault("maintenance.retention_days", 90)

	v.SetDefault("limits.requests_per_second", 5)
	v.SetDefault("limits.burst", 10)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(v.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("failed to read config file, %w", err)
		}
	}

	if *debugMode {
		v.Set("app.log_level", "debug")
	}

	if !slices.Contains(validLogLevels, v.GetString("app.log_level")) {
		return errors.New("invalid log level provided")
	}

	if v.GetInt("host.port") <= 0 {
		return errors.New("invalid port provided")
	}

	switch v.GetString("database.driver") {
	case "sqlite":
		if v.GetString("database.path") == "" {
			return errors.New("database path can't be empty")
		}
	case "postgres":
		if v.GetString("database.url") == "" {
			return errors.New("database url can't be empty")
		}
	default:
		return fmt.Errorf("invalid database driver provided, must be one of %v", validDBDrivers)
	}

	if v.GetInt("maintenance.retention_days") <= 0 {
		return errors.New("maintenance.retention_days must be bigger than 0")
	}

	if v.GetString("maintenance.key") == "" {
		fmt.Println("WARNING: You haven't set a maintenance key, so one has been generated for you. Please set it as an environment variable or in the config.toml file.\nYour random maintenance key:\n\n" + genSecret() + "\n\nPaste it into your config.toml file.")
		os.Exit(0)
	}

	if v.GetInt("limits.requests_per_second") <= 0 || v.GetInt("limits.burst") <= 0 {
		return errors.New("rate limits must be bigger than 0")
	}

	return nil
}
