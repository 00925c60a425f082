// Package config contains code to set the default values and read
// config files to be used throughout the whole application
package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"slices"

	"github.com/spf13/pflag"
	v "github.com/spf13/viper"
	"go.uber.org/zap"
)

var validLogLevels = []string{"debug", "info", "warn", "error", "fatal"}
var validDBDrivers = []string{"sqlite", "postgres"}

func genSecret() string {
	b := make([]byte, 64)
	rand.Read(b)
	return hex.EncodeToString(b)
}

// Setup prepares everything config-related so that the app can start
// working. Function will return an error if something is critically wrong
// and the application can't run because of that.
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
	v.BindEnv("host.cors", "host_cors")

	v.BindEnv("db.driver", "db_driver")
	v.BindEnv("db.dsn", "db_dsn")

	v.BindEnv("jwt.access_secret", "jwt_access_secret")
	v.BindEnv("jwt.refresh_secret", "jwt_refresh_secret")

	v.BindEnv("otp.ttl_minutes", "otp_ttl_minutes")

	v.BindEnv("mail.enabled", "mail_enabled")
	v.BindEnv("mail.host", "mail_host")
	v.BindEnv("mail.port", "mail_port")
	v.BindEnv("mail.sender_address", "mail_sender_address")
	v.BindEnv("mail.password", "mail_password")

	//
	// Defaults
	//
	v.SetDefault("app.log_level", "info")

	v.SetDefault("host.port", 8080)
	v.SetDefault("host.cors", []string{"http://localhost:5173"})

	v.SetDefault("db.driver", "sqlite")
	v.SetDefault("db.dsn", "database.db")

	v.SetDefault("otp.ttl_minutes", 10)

	v.SetDefault("mail.enabled", false)
	v.SetDefault("mail.port", 587)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(v.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("failed to read config file, %w", err)
		}

		// Env-only deployments are fine, everything critical is validated
		// below anyway
	}

	if !slices.Contains(validLogLevels, v.GetString("app.log_level")) {
		return errors.New("invalid log level provided")
	}

	if v.GetInt("host.port") <= 0 {
		return errors.New("invalid port provided")
	}

	if !slices.Contains(validDBDrivers, v.GetString("db.driver")) {
		return errors.New("invalid database driver provided")
	}

	if v.GetString("db.dsn") == "" {
		return errors.New("database DSN can't be empty")
	}

	if v.GetInt("otp.ttl_minutes") <= 0 {
		return errors.New("otp.ttl_minutes must be bigger than 0")
	}

	access := v.GetString("jwt.access_secret")
	refresh := v.GetString("jwt.refresh_secret")

	if access == "" || refresh == "" {
		fmt.Println("WARNING: You haven't set both JWT secrets, so a pair has been generated for you. Please set them as environment variables or in the config.toml file.\n\njwt.access_secret:\n\n" + genSecret() + "\n\njwt.refresh_secret:\n\n" + genSecret() + "\n\nPaste them into your config.toml file.")
		return errors.New("jwt.access_secret and jwt.refresh_secret are required")
	}

	// Sharing a value would let a refresh token pass as an access token
	if access == refresh {
		return errors.New("jwt.access_secret and jwt.refresh_secret can't share a value")
	}

	if v.GetBool("mail.enabled") {
		if v.GetString("mail.host") == "" {
			return errors.New("mail host can't be empty")
		}
		if v.GetString("mail.sender_address") == "" {
			return errors.New("mail sender address can't be empty")
		}
		if v.GetString("mail.password") == "" {
			return errors.New("mail password can't be empty")
		}
	} else {
		zap.L().Warn("Mail delivery is disabled, verification codes won't reach users")
	}

	return nil
}
